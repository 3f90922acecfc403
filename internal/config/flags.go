package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"
)

// FlagVals holds raw string representations of flag values so emptiness can signal "unset".
type FlagVals struct {
	Config          string
	CredentialsFile string
	DeviceID        string
	ConnectTimeout  string
	ScanInterval    string
	Reconnect       string
	APPassword      string
	SightingsDB     string
	Backend         string
	LogLevel        string
	Theme           string
}

// BindFlags defines the configuration flags on the provided FlagSet. All
// defaults are empty to distinguish from "not provided".
func BindFlags(fs *flag.FlagSet) *FlagVals {
	fv := &FlagVals{}
	fs.StringVar(&fv.Config, "config", "", "path to config toml file")
	fs.StringVar(&fv.CredentialsFile, "credentials", "", "path to the encrypted credential file")
	fs.StringVar(&fv.DeviceID, "device-id", "", "device identifier used for the encryption key (hex)")
	fs.StringVar(&fv.ConnectTimeout, "timeout", "", "per-network connection timeout (e.g. 5s)")
	fs.StringVar(&fv.ScanInterval, "scan-interval", "", "background scan interval (e.g. 5s)")
	fs.StringVar(&fv.Reconnect, "reconnect", "", "drop an existing connection before connecting (true/false)")
	fs.StringVar(&fv.APPassword, "ap-password", "", "fallback access point password (8-63 chars, empty for open)")
	fs.StringVar(&fv.SightingsDB, "sightings-db", "", "record scan sightings to this sqlite file")
	fs.StringVar(&fv.Backend, "backend", "", "wifi backend: auto, networkmanager or iwd")
	fs.StringVar(&fv.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&fv.Theme, "theme", "", "path to theme toml file")
	return fv
}

// ApplyFlags overlays non-empty flag values onto the provided Config, parsing as needed.
// Parsing errors are wrapped with the flag name.
func ApplyFlags(cfg *Config, fv *FlagVals) error {
	if cfg == nil {
		return fmt.Errorf("nil config passed to ApplyFlags")
	}
	if fv == nil {
		return nil
	}

	strFlags := []struct {
		val string
		dst *string
	}{
		{fv.CredentialsFile, &cfg.CredentialsFile},
		{fv.DeviceID, &cfg.DeviceID},
		{fv.APPassword, &cfg.APPassword},
		{fv.SightingsDB, &cfg.SightingsDB},
		{fv.Backend, &cfg.Backend},
		{fv.LogLevel, &cfg.LogLevel},
		{fv.Theme, &cfg.Theme},
	}
	for _, f := range strFlags {
		if f.val != "" {
			*f.dst = f.val
		}
	}

	type parseFn func(raw string) error
	parsers := []struct {
		raw   string
		label string
		fn    parseFn
	}{
		{fv.ConnectTimeout, "-timeout", func(raw string) error {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			cfg.ConnectTimeout = d
			return nil
		}},
		{fv.ScanInterval, "-scan-interval", func(raw string) error {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			cfg.ScanInterval = d
			return nil
		}},
		{fv.Reconnect, "-reconnect", func(raw string) error {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return err
			}
			cfg.Reconnect = b
			return nil
		}},
	}
	for _, p := range parsers {
		if p.raw == "" {
			continue
		}
		if err := p.fn(p.raw); err != nil {
			return fmt.Errorf("%s: %w", p.label, err)
		}
	}
	return cfg.Validate()
}
