//go:build linux

package networkmanager

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	gonetworkmanager "github.com/Wifx/gonetworkmanager/v3"
	"github.com/google/uuid"

	"github.com/wifimgr/wifimgr/wifi"
)

const (
	// Profiles this adapter creates are named with these prefixes so they
	// can be replaced instead of piling up.
	stationProfilePrefix = "wifimgr "
	accessPointProfileID = "wifimgr-ap"

	wirelessType = "802-11-wireless"
	securityType = "802-11-wireless-security"

	// NM_802_11_AP_SEC_KEY_MGMT_PSK
	keyMgmtPSK = 0x100
	// NM_802_11_AP_FLAGS_PRIVACY
	apFlagsPrivacy = 0x1
)

// Adapter implements wifi.Adapter over NetworkManager's D-Bus API.
type Adapter struct {
	NM       gonetworkmanager.NetworkManager
	Settings gonetworkmanager.Settings
	logger   *slog.Logger

	mu     sync.Mutex
	device gonetworkmanager.DeviceWireless
	apConn gonetworkmanager.ActiveConnection
}

// New connects to NetworkManager on the system bus.
func New(logger *slog.Logger) (*Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create network manager client: %w", wifi.ErrNotAvailable)
	}
	settings, err := gonetworkmanager.NewSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", wifi.ErrOperationFailed)
	}
	return &Adapter{
		NM:       nm,
		Settings: settings,
		logger:   logger.With("component", "networkmanager"),
	}, nil
}

// getWirelessDevice returns the first wireless device, cached after the
// first lookup.
func (a *Adapter) getWirelessDevice() (gonetworkmanager.DeviceWireless, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.device != nil {
		return a.device, nil
	}

	devices, err := a.NM.GetDevices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	for _, device := range devices {
		if dev, ok := device.(gonetworkmanager.DeviceWireless); ok {
			a.device = dev
			return dev, nil
		}
	}
	return nil, fmt.Errorf("no wireless device found: %w", wifi.ErrNotFound)
}

// Scan requests a fresh scan and returns what NetworkManager currently sees.
func (a *Adapter) Scan() ([]wifi.ScanResult, error) {
	enabled, err := a.NM.GetPropertyWirelessEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, wifi.ErrWirelessDisabled
	}
	dev, err := a.getWirelessDevice()
	if err != nil {
		return nil, err
	}

	// NetworkManager rate-limits scan requests; the cached list is still
	// worth returning when it refuses.
	if err := dev.RequestScan(); err != nil {
		a.logger.Debug("scan request refused", "error", err)
	}

	aps, err := dev.GetAccessPoints()
	if err != nil {
		return nil, fmt.Errorf("get access points: %w", err)
	}
	if len(aps) == 0 {
		return nil, wifi.ErrNoAccessPoints
	}

	results := make([]wifi.ScanResult, 0, len(aps))
	for _, ap := range aps {
		r, err := scanResult(ap)
		if err != nil {
			a.logger.Debug("skipping access point", "error", err)
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func scanResult(ap gonetworkmanager.AccessPoint) (wifi.ScanResult, error) {
	bssid, err := ap.GetPropertyHWAddress()
	if err != nil {
		return wifi.ScanResult{}, err
	}
	ssid, _ := ap.GetPropertySSID()
	strength, _ := ap.GetPropertyStrength()
	freq, _ := ap.GetPropertyFrequency()
	flags, _ := ap.GetPropertyFlags()
	wpaFlags, _ := ap.GetPropertyWPAFlags()
	rsnFlags, _ := ap.GetPropertyRSNFlags()

	quality := int(strength)
	return wifi.ScanResult{
		SSID:     ssid,
		BSSID:    bssid,
		Channel:  wifi.ChannelFromFrequency(uint32(freq)),
		RSSI:     wifi.QualityToDBM(quality),
		AuthMode: authMode(uint32(flags), uint32(wpaFlags), uint32(rsnFlags)),
		Hidden:   ssid == "",
		Quality:  quality,
	}, nil
}

// authMode maps NetworkManager's access point flags to an AuthMode.
func authMode(flags, wpaFlags, rsnFlags uint32) wifi.AuthMode {
	if wpaFlags == 0 && rsnFlags == 0 {
		if flags&apFlagsPrivacy != 0 {
			return wifi.AuthWEP
		}
		return wifi.AuthOpen
	}
	if (wpaFlags|rsnFlags)&keyMgmtPSK == 0 {
		// Enterprise or SAE-only networks.
		return wifi.AuthUnknown
	}
	switch {
	case wpaFlags != 0 && rsnFlags != 0:
		return wifi.AuthWPAWPA2PSK
	case rsnFlags != 0:
		return wifi.AuthWPA2PSK
	}
	return wifi.AuthWPAPSK
}

// stationSettings builds a client connection profile. An empty password
// makes an open network.
func stationSettings(iface, ssid, password string, hidden bool) gonetworkmanager.ConnectionSettings {
	settings := gonetworkmanager.ConnectionSettings{
		"connection": {
			"id":             stationProfilePrefix + ssid,
			"uuid":           uuid.New().String(),
			"type":           wirelessType,
			"interface-name": iface,
			"autoconnect":    true,
		},
		wirelessType: {
			"mode": "infrastructure",
			"ssid": []byte(ssid),
		},
		"ipv4": {"method": "auto"},
		"ipv6": {"method": "auto"},
	}
	if hidden {
		settings[wirelessType]["hidden"] = true
	}
	if password != "" {
		settings[wirelessType]["security"] = securityType
		settings[securityType] = map[string]interface{}{
			"key-mgmt": "wpa-psk",
			"psk":      password,
		}
	}
	return settings
}

// accessPointSettings builds a hotspot profile that shares the interface
// over DHCP.
func accessPointSettings(iface string, cfg wifi.AccessPointConfig) gonetworkmanager.ConnectionSettings {
	settings := gonetworkmanager.ConnectionSettings{
		"connection": {
			"id":             accessPointProfileID,
			"uuid":           uuid.New().String(),
			"type":           wirelessType,
			"interface-name": iface,
			"autoconnect":    false,
		},
		wirelessType: {
			"mode": "ap",
			"ssid": []byte(cfg.SSID),
		},
		"ipv4": {"method": "shared"},
		"ipv6": {"method": "ignore"},
	}
	if cfg.Channel > 0 {
		band := "bg"
		if cfg.Channel > 14 {
			band = "a"
		}
		settings[wirelessType]["band"] = band
		settings[wirelessType]["channel"] = uint32(cfg.Channel)
	}
	if cfg.AuthMode != wifi.AuthOpen && cfg.Password != "" {
		settings[wirelessType]["security"] = securityType
		settings[securityType] = map[string]interface{}{
			"key-mgmt": "wpa-psk",
			"proto":    []string{"rsn"},
			"psk":      cfg.Password,
		}
	}
	return settings
}

// removeProfiles deletes saved profiles with the given id.
func (a *Adapter) removeProfiles(id string) {
	if a.Settings == nil {
		return
	}
	conns, err := a.Settings.ListConnections()
	if err != nil {
		a.logger.Debug("list connections", "error", err)
		return
	}
	for _, c := range conns {
		s, err := c.GetSettings()
		if err != nil {
			continue
		}
		if cid, _ := s["connection"]["id"].(string); cid == id {
			if err := c.Delete(); err != nil {
				a.logger.Warn("failed to delete stale profile", "id", id, "error", err)
			}
		}
	}
}

// Connect starts joining ssid and returns without waiting for the
// connection to come up.
func (a *Adapter) Connect(ssid, password string) error {
	dev, err := a.getWirelessDevice()
	if err != nil {
		return err
	}
	iface, err := dev.GetPropertyInterface()
	if err != nil {
		return fmt.Errorf("device interface: %w", err)
	}

	var target gonetworkmanager.AccessPoint
	if aps, err := dev.GetAccessPoints(); err == nil {
		for _, ap := range aps {
			if s, _ := ap.GetPropertySSID(); s == ssid {
				target = ap
				break
			}
		}
	}

	a.removeProfiles(stationProfilePrefix + ssid)
	settings := stationSettings(iface, ssid, password, target == nil)
	if target != nil {
		_, err = a.NM.AddAndActivateWirelessConnection(settings, dev, target)
	} else {
		_, err = a.NM.AddAndActivateConnection(settings, dev)
	}
	if err != nil {
		return fmt.Errorf("activate %q: %w", ssid, err)
	}
	return nil
}

// Disconnect drops the current connection on the wireless device.
func (a *Adapter) Disconnect() error {
	dev, err := a.getWirelessDevice()
	if err != nil {
		return err
	}
	state, err := dev.GetPropertyState()
	if err != nil {
		return err
	}
	if state <= gonetworkmanager.NmDeviceStateDisconnected {
		return nil
	}
	return dev.Disconnect()
}

// IsConnected reports whether the device has an activated station
// connection. A running access point does not count.
func (a *Adapter) IsConnected() (bool, error) {
	dev, err := a.getWirelessDevice()
	if err != nil {
		return false, err
	}
	state, err := dev.GetPropertyState()
	if err != nil {
		return false, err
	}
	if state != gonetworkmanager.NmDeviceStateActivated {
		return false, nil
	}
	active, err := dev.GetPropertyActiveConnection()
	if err != nil || active == nil {
		return false, err
	}
	id, err := active.GetPropertyID()
	if err != nil {
		return false, err
	}
	return id != accessPointProfileID, nil
}

// IsActive reports whether the wireless radio is enabled.
func (a *Adapter) IsActive() (bool, error) {
	return a.NM.GetPropertyWirelessEnabled()
}

// SetActive enables or disables the wireless radio.
func (a *Adapter) SetActive(active bool) error {
	// Not all versions of NetworkManager support subscribing to signals, so
	// the change is assumed to have taken effect.
	return a.NM.SetPropertyWirelessEnabled(active)
}

// InterfaceConfig returns the device's IPv4 configuration.
func (a *Adapter) InterfaceConfig() (wifi.InterfaceConfig, error) {
	cfg := wifi.EmptyInterfaceConfig()
	dev, err := a.getWirelessDevice()
	if err != nil {
		return cfg, err
	}
	ip4, err := dev.GetPropertyIP4Config()
	if err != nil || ip4 == nil {
		return cfg, err
	}

	if addrs, err := ip4.GetPropertyAddressData(); err == nil && len(addrs) > 0 {
		cfg.IP = addrs[0].Address
		cfg.Subnet = net.IP(net.CIDRMask(int(addrs[0].Prefix), 32)).String()
	}
	if gw, err := ip4.GetPropertyGateway(); err == nil && gw != "" {
		cfg.Gateway = gw
	}
	if dns, err := ip4.GetPropertyNameserverData(); err == nil && len(dns) > 0 {
		cfg.DNS = dns[0].Address
	}
	return cfg, nil
}

// CreateAccessPoint replaces any previous hotspot profile and activates a
// new one.
func (a *Adapter) CreateAccessPoint(cfg wifi.AccessPointConfig) error {
	dev, err := a.getWirelessDevice()
	if err != nil {
		return err
	}
	iface, err := dev.GetPropertyInterface()
	if err != nil {
		return fmt.Errorf("device interface: %w", err)
	}

	a.removeProfiles(accessPointProfileID)
	active, err := a.NM.AddAndActivateConnection(accessPointSettings(iface, cfg), dev)
	if err != nil {
		return fmt.Errorf("activate access point: %w", err)
	}
	a.mu.Lock()
	a.apConn = active
	a.mu.Unlock()
	return nil
}

// IsAccessPointActive reports whether the hotspot connection is up.
func (a *Adapter) IsAccessPointActive() (bool, error) {
	a.mu.Lock()
	active := a.apConn
	a.mu.Unlock()
	if active == nil {
		return false, nil
	}
	state, err := active.GetPropertyState()
	if err != nil {
		return false, err
	}
	return state == gonetworkmanager.NmActiveConnectionStateActivated, nil
}

var _ wifi.Adapter = (*Adapter)(nil)
