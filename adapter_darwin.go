//go:build darwin && !mock

package main

import (
	"log/slog"

	"github.com/wifimgr/wifimgr/wifi"
	"github.com/wifimgr/wifimgr/wifi/darwin"
)

// newAdapter ignores backend; macOS has only one.
func newAdapter(backend string, logger *slog.Logger) (wifi.Adapter, error) {
	a, err := darwin.New(logger)
	if err != nil {
		return nil, err
	}
	return a, nil
}
