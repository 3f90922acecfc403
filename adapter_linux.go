//go:build linux && !mock

package main

import (
	"fmt"
	"log/slog"

	"github.com/wifimgr/wifimgr/wifi"
	"github.com/wifimgr/wifimgr/wifi/iwd"
	"github.com/wifimgr/wifimgr/wifi/networkmanager"
)

func newAdapter(backend string, logger *slog.Logger) (wifi.Adapter, error) {
	switch backend {
	case "networkmanager":
		return wrap(networkmanager.New(logger))
	case "iwd":
		return wrap(iwd.New(logger))
	case "", "auto":
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}

	nm, err := networkmanager.New(logger)
	if err == nil {
		return nm, nil
	}
	logger.Warn("failed to initialize networkmanager backend, falling back to iwd", "error", err)
	// If networkmanager dbus backend failed to initialize, try the iwd backend
	return wrap(iwd.New(logger))
}

// wrap keeps a nil *T from becoming a non-nil wifi.Adapter.
func wrap[T wifi.Adapter](a T, err error) (wifi.Adapter, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
