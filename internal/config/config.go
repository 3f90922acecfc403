// Package config provides layered configuration loading.
// It merges Defaults -> TOML file -> Environment Variables -> CLI Flags, with validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable, e.g. WIFIMGR_CONNECT_TIMEOUT.
const EnvPrefix = "WIFIMGR_"

// Config holds the merged runtime configuration.
type Config struct {
	CredentialsFile string        `koanf:"credentials_file" validate:"required"`
	Plaintext       bool          `koanf:"plaintext"`
	DeviceID        string        `koanf:"device_id"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	Reconnect       bool          `koanf:"reconnect"`
	ScanInterval    time.Duration `koanf:"scan_interval" validate:"gt=0"`
	APPrefix        string        `koanf:"ap_prefix" validate:"required,ssid"`
	APPassword      string        `koanf:"ap_password" validate:"omitempty,max=63"`
	APChannel       int           `koanf:"ap_channel" validate:"min=1,max=14"`
	APTimeout       time.Duration `koanf:"ap_timeout" validate:"gt=0"`
	SightingsDB     string        `koanf:"sightings_db"`
	Backend         string        `koanf:"backend" validate:"oneof=auto networkmanager iwd"`
	LogLevel        string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	Theme           string        `koanf:"theme"`
}

// DefaultAppConfig holds the defaults every other layer overrides.
var DefaultAppConfig = Config{
	CredentialsFile: "wifi-secure.json",
	ConnectTimeout:  5 * time.Second,
	ScanInterval:    5 * time.Second,
	APPrefix:        "WiFiManager",
	APChannel:       11,
	APTimeout:       5 * time.Second,
	Backend:         "auto",
	LogLevel:        "info",
}

var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultAppConfig, "koanf"), nil)
}

var fileLoader = func(k *koanf.Koanf, path string) error {
	return k.Load(TOMLFile(path), nil)
}

var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil)
}

var registerValidators = func(v *validator.Validate) error {
	return v.RegisterValidation("ssid", validSSID)
}

// validSSID checks that the prefix plus the five byte "_xxxx" suffix fits
// in a 32 byte SSID.
func validSSID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) > 0 && len(s) <= 27
}

// Load builds a Config from defaults, the optional TOML file at path and
// the environment, then validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := fileLoader(k, path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				StringToBool(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidators(v); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}
