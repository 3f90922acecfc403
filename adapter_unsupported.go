//go:build !linux && !darwin && !mock

package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/wifimgr/wifimgr/wifi"
)

func newAdapter(backend string, logger *slog.Logger) (wifi.Adapter, error) {
	return nil, fmt.Errorf("%s: %w", runtime.GOOS, wifi.ErrNotSupported)
}
