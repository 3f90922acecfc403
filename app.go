package main

import (
	"fmt"
	"log/slog"

	"github.com/wifimgr/wifimgr/internal/config"
	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/internal/device"
	"github.com/wifimgr/wifimgr/internal/manager"
	"github.com/wifimgr/wifimgr/internal/scancache"
	"github.com/wifimgr/wifimgr/internal/sightings"
	"github.com/wifimgr/wifimgr/wifi"
)

// app holds what the subcommands share. The adapter is opened on first use
// so commands that only touch the credential file work without a radio.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	deviceID  []byte
	store     *credstore.Store
	sightings *sightings.Store
	adapter   wifi.Adapter
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	id, err := device.ID(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("device id: %w", err)
	}
	cipher, err := credstore.NewDeviceCipher(id)
	if err != nil {
		return nil, err
	}
	store, err := credstore.New(credstore.Options{
		Path:      cfg.CredentialsFile,
		Cipher:    cipher,
		Plaintext: cfg.Plaintext,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, deviceID: id, store: store}
	if cfg.SightingsDB != "" {
		s, err := sightings.Open(cfg.SightingsDB)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.SightingsDB, err)
		}
		a.sightings = s
	}
	return a, nil
}

func (a *app) wifiAdapter() (wifi.Adapter, error) {
	if a.adapter != nil {
		return a.adapter, nil
	}
	ad, err := newAdapter(a.cfg.Backend, a.logger)
	if err != nil {
		return nil, fmt.Errorf("wifi backend: %w", err)
	}
	a.adapter = ad
	return ad, nil
}

func (a *app) manager() (*manager.Manager, error) {
	ad, err := a.wifiAdapter()
	if err != nil {
		return nil, err
	}
	var observers []scancache.Observer
	if a.sightings != nil {
		observers = append(observers, a.sightings.Observer(a.logger))
	}
	return manager.New(manager.Options{
		Adapter:        ad,
		Store:          a.store,
		DeviceID:       a.deviceID,
		ConnectTimeout: a.cfg.ConnectTimeout,
		Reconnect:      a.cfg.Reconnect,
		ScanInterval:   a.cfg.ScanInterval,
		AccessPoint: manager.AccessPointOptions{
			Prefix:   a.cfg.APPrefix,
			Password: a.cfg.APPassword,
			Channel:  a.cfg.APChannel,
			Timeout:  a.cfg.APTimeout,
		},
		Observers: observers,
		Logger:    a.logger,
	})
}

func (a *app) Close() error {
	if a.sightings != nil {
		return a.sightings.Close()
	}
	return nil
}
