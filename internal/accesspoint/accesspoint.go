// Package accesspoint brings up the soft access point used while the device
// has no working network.
package accesspoint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wifimgr/wifimgr/qrwifi"
	"github.com/wifimgr/wifimgr/wifi"
)

const (
	DefaultPrefix       = "WiFiManager"
	DefaultChannel      = 11
	DefaultTimeout      = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond

	MinPasswordLength = 8
	MaxPasswordLength = 63
)

// ErrActivationTimeout is returned when the access point did not come up in time.
var ErrActivationTimeout = errors.New("access point did not become active")

// Name returns prefix + "_" + the last four hex digits of deviceID. Without
// an identifier a random token is used instead.
func Name(prefix string, deviceID []byte) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	token := hex.EncodeToString(deviceID)
	if len(token) < 4 {
		token = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return prefix + "_" + token[len(token)-4:]
}

// ValidatePassword returns the password to use and the matching auth mode.
// Passwords of 8 to 63 characters give WPA/WPA2; anything else gives an open
// network, and a rejected non-empty password is dropped.
func ValidatePassword(password string) (string, wifi.AuthMode, bool) {
	n := utf8.RuneCountInString(password)
	if n >= MinPasswordLength && n <= MaxPasswordLength {
		return password, wifi.AuthWPAWPA2PSK, true
	}
	return "", wifi.AuthOpen, password == ""
}

// Config describes the access point to start.
type Config struct {
	SSID         string
	Password     string
	Channel      int
	Timeout      time.Duration
	PollInterval time.Duration
}

// Info describes a running access point.
type Info struct {
	SSID      string
	Password  string
	AuthMode  wifi.AuthMode
	Channel   int
	Interface wifi.InterfaceConfig
}

// QRCode renders a join code for the access point.
func (i Info) QRCode() (string, error) {
	return qrwifi.Generate(i.SSID, i.Password, i.AuthMode, false)
}

// Bootstrapper starts access points on an Adapter.
type Bootstrapper struct {
	adapter wifi.Adapter
	logger  *slog.Logger
	sleep   func(time.Duration)
	now     func() time.Time
}

// New returns a Bootstrapper for adapter.
func New(adapter wifi.Adapter, logger *slog.Logger) *Bootstrapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrapper{
		adapter: adapter,
		logger:  logger.With("component", "accesspoint"),
		sleep:   time.Sleep,
		now:     time.Now,
	}
}

// Start creates the access point and waits for it to report active.
func (b *Bootstrapper) Start(cfg Config) (Info, error) {
	if cfg.Channel <= 0 {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.SSID == "" {
		cfg.SSID = Name(DefaultPrefix, nil)
	}

	password, auth, ok := ValidatePassword(cfg.Password)
	if !ok {
		b.logger.Warn("invalid access point password, starting an open network",
			"length", utf8.RuneCountInString(cfg.Password), "min", MinPasswordLength, "max", MaxPasswordLength)
	}

	apCfg := wifi.AccessPointConfig{SSID: cfg.SSID, Password: password, AuthMode: auth, Channel: cfg.Channel}
	if err := b.adapter.CreateAccessPoint(apCfg); err != nil {
		return Info{}, fmt.Errorf("create access point %q: %w", cfg.SSID, err)
	}

	deadline := b.now().Add(cfg.Timeout)
	for {
		active, err := b.adapter.IsAccessPointActive()
		if err == nil && active {
			break
		}
		if !b.now().Before(deadline) {
			return Info{}, fmt.Errorf("%q after %s: %w", cfg.SSID, cfg.Timeout, ErrActivationTimeout)
		}
		b.sleep(cfg.PollInterval)
	}

	info := Info{SSID: cfg.SSID, Password: password, AuthMode: auth, Channel: cfg.Channel}
	ifc, err := b.adapter.InterfaceConfig()
	if err != nil {
		b.logger.Warn("access point interface config unavailable", "error", err)
		ifc = wifi.EmptyInterfaceConfig()
	}
	info.Interface = ifc
	b.logger.Info("access point active", "ssid", info.SSID, "auth", info.AuthMode, "channel", info.Channel,
		"ip", ifc.IP, "subnet", ifc.Subnet, "gateway", ifc.Gateway, "dns", ifc.DNS)
	return info, nil
}
