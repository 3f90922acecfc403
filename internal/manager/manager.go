// Package manager ties the credential store, connection negotiation, scan
// cache and access point together into the boot-time WiFi flow.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wifimgr/wifimgr/internal/accesspoint"
	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/internal/negotiate"
	"github.com/wifimgr/wifimgr/internal/scancache"
	"github.com/wifimgr/wifimgr/wifi"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	MinConnectTimeout     = 3 * time.Second
)

// Result is the outcome of the last LoadAndConnect.
type Result int

const (
	ResultError Result = iota
	ResultSuccess
	ResultTimeout
	ResultNotConfigured
)

func (r Result) String() string {
	switch r {
	case ResultError:
		return "error"
	case ResultSuccess:
		return "success"
	case ResultTimeout:
		return "timeout"
	case ResultNotConfigured:
		return "not configured"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// ErrUnknownBSSID is returned when a selection names a BSSID not in the latest scan.
var ErrUnknownBSSID = errors.New("bssid not in latest scan")

// Surface is a user-facing configuration front end. Serve returns when the
// user is done or ctx is cancelled.
type Surface interface {
	Serve(ctx context.Context, m *Manager) error
}

// AccessPointOptions configures the fallback access point.
type AccessPointOptions struct {
	Prefix   string
	Password string
	Channel  int
	Timeout  time.Duration
}

// Options configures a Manager.
type Options struct {
	Adapter        wifi.Adapter
	Store          *credstore.Store
	DeviceID       []byte
	ConnectTimeout time.Duration
	Reconnect      bool
	ScanInterval   time.Duration
	AccessPoint    AccessPointOptions
	// Observers receive every completed background scan.
	Observers []scancache.Observer
	Logger    *slog.Logger
}

// Manager is the top-level WiFi manager.
type Manager struct {
	adapter      wifi.Adapter
	store        *credstore.Store
	negotiator   *negotiate.Negotiator
	cache        *scancache.Cache
	bootstrapper *accesspoint.Bootstrapper
	deviceID     []byte
	apOpts       AccessPointOptions
	reconnect    bool
	logger       *slog.Logger

	connectTimeout time.Duration
	result         Result
	apInfo         *accesspoint.Info
}

// New constructs a Manager.
func New(opts Options) (*Manager, error) {
	if opts.Adapter == nil {
		return nil, errors.New("manager: adapter required")
	}
	if opts.Store == nil {
		return nil, errors.New("manager: credential store required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &Manager{
		adapter:      opts.Adapter,
		store:        opts.Store,
		negotiator:   negotiate.New(opts.Adapter, opts.Logger),
		cache:        scancache.New(opts.Adapter, opts.ScanInterval, opts.Logger),
		bootstrapper: accesspoint.New(opts.Adapter, opts.Logger),
		deviceID:     opts.DeviceID,
		apOpts:       opts.AccessPoint,
		reconnect:    opts.Reconnect,
		logger:       opts.Logger.With("component", "manager"),
		result:       ResultNotConfigured,
	}
	for _, o := range opts.Observers {
		m.cache.Observe(o)
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	m.SetConnectionTimeout(opts.ConnectTimeout)
	return m, nil
}

// ConnectionTimeout returns the per-network connection timeout.
func (m *Manager) ConnectionTimeout() time.Duration { return m.connectTimeout }

// SetConnectionTimeout sets the per-network timeout, with a floor of three seconds.
func (m *Manager) SetConnectionTimeout(d time.Duration) {
	if d < MinConnectTimeout {
		d = MinConnectTimeout
	}
	m.connectTimeout = d
}

// ScanInterval returns the background scan interval.
func (m *Manager) ScanInterval() time.Duration { return m.cache.Interval() }

// SetScanInterval sets the background scan interval, with a floor of one second.
func (m *Manager) SetScanInterval(d time.Duration) { m.cache.SetInterval(d) }

// Result returns the outcome of the last LoadAndConnect.
func (m *Manager) Result() Result { return m.result }

// ConfiguredNetworks returns the SSIDs of the saved networks.
func (m *Manager) ConfiguredNetworks() []string {
	ssids := m.store.ConfiguredSSIDs()
	if ssids == nil {
		return []string{}
	}
	return ssids
}

// LoadAndConnect loads the saved networks and tries to join one. It never
// fails outright; the reason for a false return is available from Result.
func (m *Manager) LoadAndConnect() bool {
	creds, err := m.store.Load()
	switch {
	case errors.Is(err, credstore.ErrConfigMissing):
		m.logger.Info("no saved networks", "path", m.store.Path())
		m.result = ResultNotConfigured
		return false
	case err != nil:
		m.logger.Error("failed to load saved networks", "error", err)
		m.result = ResultError
		return false
	case creds.Len() == 0:
		m.logger.Info("credential file holds no networks", "path", m.store.Path())
		m.result = ResultNotConfigured
		return false
	}

	m.logger.Info("loaded saved networks", "ssids", creds.SSIDs())
	attempt, err := m.negotiator.Connect(negotiate.CandidatesFrom(creds), m.connectTimeout, m.reconnect)
	switch {
	case err == nil:
		m.result = ResultSuccess
		if attempt.Index >= 0 {
			m.logger.Info("network joined", "ssid", attempt.SSID)
		}
		return true
	case errors.Is(err, negotiate.ErrTimeout):
		m.logger.Warn("no saved network reachable", "tried", creds.Len())
		m.result = ResultTimeout
	default:
		m.logger.Error("connection failed", "error", err)
		m.result = ResultError
	}
	return false
}

// SaveNetwork adds a network to the credential file.
func (m *Manager) SaveNetwork(c credstore.NetworkCredential) error {
	return m.store.Save(credstore.SingleCredential(c))
}

// SaveSelection saves a network picked from the scan list. When ssid is
// empty it is resolved from bssid in the latest scan.
func (m *Manager) SaveSelection(bssid, ssid, password string) error {
	if ssid == "" {
		r, ok := wifi.FindBSSID(m.cache.Peek(), bssid)
		if !ok || r.SSID == "" {
			return fmt.Errorf("%s: %w", bssid, ErrUnknownBSSID)
		}
		ssid = r.SSID
	}
	return m.SaveNetwork(credstore.NetworkCredential{SSID: ssid, Password: password})
}

// RemoveNetworks deletes saved networks by SSID.
func (m *Manager) RemoveNetworks(ssids ...string) error {
	return m.store.Remove(ssids...)
}

// LatestScan returns the most recent background scan without blocking.
func (m *Manager) LatestScan() []wifi.ScanResult { return m.cache.Latest() }

// ScanMetrics returns background scan counters.
func (m *Manager) ScanMetrics() scancache.MetricsView { return m.cache.MetricsSnapshot() }

// AccessPoint returns the running access point, if StartConfig brought one up.
func (m *Manager) AccessPoint() (accesspoint.Info, bool) {
	if m.apInfo == nil {
		return accesspoint.Info{}, false
	}
	return *m.apInfo, true
}

// StartAccessPoint brings up the fallback access point.
func (m *Manager) StartAccessPoint() (accesspoint.Info, error) {
	info, err := m.bootstrapper.Start(accesspoint.Config{
		SSID:     accesspoint.Name(m.apOpts.Prefix, m.deviceID),
		Password: m.apOpts.Password,
		Channel:  m.apOpts.Channel,
		Timeout:  m.apOpts.Timeout,
	})
	if err != nil {
		return accesspoint.Info{}, err
	}
	m.apInfo = &info
	return info, nil
}

// StartConfig starts the access point and background scanning, then serves
// the configuration surface until it returns or ctx is done.
func (m *Manager) StartConfig(ctx context.Context, surface Surface) error {
	if _, err := m.StartAccessPoint(); err != nil {
		// Still serve the surface; it may be reachable another way.
		m.logger.Error("access point unavailable", "error", err)
	}

	m.cache.Start()
	defer m.cache.Stop()

	if surface == nil {
		<-ctx.Done()
		return nil
	}
	if err := surface.Serve(ctx, m); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("configuration surface: %w", err)
	}
	return nil
}
