package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wifimgr/wifimgr/internal/accesspoint"
	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/internal/helpers"
	"github.com/wifimgr/wifimgr/internal/manager"
	"github.com/wifimgr/wifimgr/internal/sightings"
	"github.com/wifimgr/wifimgr/wifi"
)

// configSurface is a configuration front end that reports whether the user
// saved a network.
type configSurface interface {
	manager.Surface
	Saved() bool
}

// runConnect joins a saved network. When none connects it serves the
// configuration surface and retries for as long as the user keeps saving
// networks.
func runConnect(ctx context.Context, w io.Writer, m *manager.Manager, surface configSurface) error {
	for {
		if m.LoadAndConnect() {
			fmt.Fprintln(w, "connected")
			return nil
		}
		fmt.Fprintf(w, "not connected: %s\n", m.Result())

		if err := m.StartConfig(ctx, surface); err != nil {
			return err
		}
		if ctx.Err() != nil || !surface.Saved() {
			return fmt.Errorf("not connected: %s", m.Result())
		}
	}
}

type listEntry struct {
	SSID     string `json:"ssid"`
	BSSID    string `json:"bssid"`
	Channel  int    `json:"channel"`
	RSSI     int    `json:"rssi"`
	Quality  int    `json:"quality"`
	AuthMode string `json:"authmode"`
	Hidden   bool   `json:"hidden"`
}

func runList(w io.Writer, jsonOut bool, adapter wifi.Adapter) error {
	results, err := adapter.Scan()
	if err != nil && !errors.Is(err, wifi.ErrNoAccessPoints) {
		return fmt.Errorf("failed to scan: %w", err)
	}
	wifi.FillQuality(results)
	wifi.SortScanResults(results)

	if jsonOut {
		entries := make([]listEntry, 0, len(results))
		for _, r := range results {
			entries = append(entries, listEntry{
				SSID:     r.SSID,
				BSSID:    r.BSSID,
				Channel:  r.Channel,
				RSSI:     r.RSSI,
				Quality:  r.Quality,
				AuthMode: r.AuthMode.String(),
				Hidden:   r.Hidden,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\n", helpers.DisplaySSID(r.SSID), helpers.FormatScanResult(r))
	}
	return nil
}

func runNetworks(w io.Writer, store *credstore.Store) error {
	creds, err := store.Load()
	if errors.Is(err, credstore.ErrConfigMissing) {
		fmt.Fprintf(w, "no saved networks in %s\n", store.Path())
		return nil
	}
	if err != nil {
		return err
	}
	for _, ssid := range creds.SSIDs() {
		fmt.Fprintln(w, ssid)
	}
	return nil
}

func runAdd(w io.Writer, store *credstore.Store, ssid, password string) error {
	if err := store.Save(credstore.SingleCredential(credstore.NetworkCredential{SSID: ssid, Password: password})); err != nil {
		return fmt.Errorf("failed to save network: %w", err)
	}
	fmt.Fprintf(w, "saved %s\n", ssid)
	return nil
}

func runForget(w io.Writer, store *credstore.Store, ssids []string) error {
	if err := store.Remove(ssids...); err != nil {
		return fmt.Errorf("failed to forget networks: %w", err)
	}
	for _, ssid := range ssids {
		fmt.Fprintf(w, "forgot %s\n", ssid)
	}
	return nil
}

// runAccessPoint prints the fallback access point's name and a join QR
// code. With m set it also starts the access point.
func runAccessPoint(w io.Writer, prefix, password string, deviceID []byte, m *manager.Manager) error {
	var info accesspoint.Info
	if m != nil {
		started, err := m.StartAccessPoint()
		if err != nil {
			return fmt.Errorf("failed to start access point: %w", err)
		}
		info = started
	} else {
		pass, auth, _ := accesspoint.ValidatePassword(password)
		info = accesspoint.Info{
			SSID:     accesspoint.Name(prefix, deviceID),
			Password: pass,
			AuthMode: auth,
		}
	}

	fmt.Fprintf(w, "SSID: %s\n", info.SSID)
	fmt.Fprintf(w, "Security: %s\n", info.AuthMode)
	if info.Password != "" {
		fmt.Fprintf(w, "Password: %s\n", info.Password)
	}
	if m != nil {
		fmt.Fprintf(w, "Address: %s/%s\n", info.Interface.IP, info.Interface.Subnet)
	}
	qr, err := info.QRCode()
	if err != nil {
		return fmt.Errorf("failed to render QR code: %w", err)
	}
	fmt.Fprint(w, qr)
	return nil
}

func runSeen(ctx context.Context, w io.Writer, store *sightings.Store, within, prune time.Duration, now time.Time) error {
	if store == nil {
		return errors.New("no sightings database configured (set -sightings-db)")
	}
	if prune > 0 {
		n, err := store.Prune(ctx, now.Add(-prune))
		if err != nil {
			return fmt.Errorf("failed to prune sightings: %w", err)
		}
		fmt.Fprintf(w, "pruned %d sightings\n", n)
	}

	seen, err := store.Recent(ctx, now.Add(-within))
	if err != nil {
		return fmt.Errorf("failed to read sightings: %w", err)
	}
	for _, s := range seen {
		fmt.Fprintf(w, "%s\t%s\t%d dBm\tseen %d times, last %s\n",
			helpers.DisplaySSID(s.SSID), s.BSSID, s.RSSI, s.Count, helpers.FormatAge(s.LastSeen, now))
	}
	return nil
}
