//go:build mock

package main

import (
	"log/slog"

	"github.com/wifimgr/wifimgr/wifi"
	"github.com/wifimgr/wifimgr/wifi/mock"
)

func newAdapter(backend string, logger *slog.Logger) (wifi.Adapter, error) {
	logger.Info("using simulated wifi adapter")
	return mock.New(), nil
}
