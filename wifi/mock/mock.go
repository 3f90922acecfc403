package mock

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/wifimgr/wifimgr/wifi"
)

var DefaultActionSleep = 500 * time.Millisecond

// MockAdapter is a simulated wifi.Adapter for tests and demos.
//
// A Connect to a reachable network only reports connected after
// ConnectAfterPolls calls to IsConnected, which emulates association time.
type MockAdapter struct {
	mu sync.Mutex

	Networks []wifi.ScanResult
	// Secrets holds the passphrase each network accepts. Networks absent
	// from the map accept any passphrase.
	Secrets map[string]string
	// Hidden SSIDs are joinable but never appear in Scan results.
	Hidden map[string]bool
	// Unreachable SSIDs never associate.
	Unreachable map[string]bool

	ConnectAfterPolls     int
	AccessPointAfterPolls int

	ScanError            error
	ConnectError         error
	DisconnectError      error
	IsConnectedError     error
	SetActiveError       error
	AccessPointError     error
	InterfaceConfigError error

	Active     bool
	Randomize  bool
	IfConfig   wifi.InterfaceConfig
	APIfConfig wifi.InterfaceConfig

	// ActionSleep is a delay before every action, to better emulate a real-world adapter. Set to 0 during testing.
	ActionSleep time.Duration

	connected    string
	pending      string
	pendingPolls int
	ap           *wifi.AccessPointConfig
	apPolls      int
	calls        []string
}

// New creates a MockAdapter with a list of fun wifi networks.
func New() *MockAdapter {
	networks := []wifi.ScanResult{
		{SSID: "HideYoKidsHideYoWiFi", BSSID: "de:ad:be:ef:00:01", Channel: 1, RSSI: -48, AuthMode: wifi.AuthWPA2PSK},
		{SSID: "GET off my LAN", BSSID: "de:ad:be:ef:00:02", Channel: 6, RSSI: -71, AuthMode: wifi.AuthWPAWPA2PSK},
		{SSID: "NeverGonnaGiveYouIP", BSSID: "de:ad:be:ef:00:03", Channel: 11, RSSI: -80, AuthMode: wifi.AuthWEP},
		{SSID: "Unencrypted_Honeypot", BSSID: "de:ad:be:ef:00:04", Channel: 11, RSSI: -62, AuthMode: wifi.AuthOpen},
		{SSID: "Dunder MiffLAN", BSSID: "de:ad:be:ef:00:05", Channel: 36, RSSI: -66, AuthMode: wifi.AuthWPA2PSK},
		{SSID: "Police Surveillance 2", BSSID: "de:ad:be:ef:00:06", Channel: 6, RSSI: -76, AuthMode: wifi.AuthWPA2PSK},
		{SSID: "Password is password", BSSID: "de:ad:be:ef:00:07", Channel: 1, RSSI: -57, AuthMode: wifi.AuthWPAPSK},
		{SSID: "TacoBoutAGoodSignal", BSSID: "de:ad:be:ef:00:08", Channel: 149, RSSI: -41, AuthMode: wifi.AuthWPA2PSK},
		{SSID: "Multi-AP Network", BSSID: "00:11:22:33:44:55", Channel: 1, RSSI: -60, AuthMode: wifi.AuthWPA2PSK},
		{SSID: "Multi-AP Network", BSSID: "aa:bb:cc:dd:ee:ff", Channel: 36, RSSI: -70, AuthMode: wifi.AuthWPA2PSK},
		{SSID: "", BSSID: "de:ad:be:ef:00:09", Channel: 6, RSSI: -85, AuthMode: wifi.AuthWPA2PSK, Hidden: true},
	}
	return &MockAdapter{
		Networks: networks,
		Secrets: map[string]string{
			"Password is password": "password",
			"HideYoKidsHideYoWiFi": "hidden123",
		},
		ConnectAfterPolls:     10,
		AccessPointAfterPolls: 3,
		Randomize:             true,
		ActionSleep:           DefaultActionSleep,
		IfConfig:              wifi.InterfaceConfig{IP: "192.168.1.42", Subnet: "255.255.255.0", Gateway: "192.168.1.1", DNS: "192.168.1.1"},
		APIfConfig:            wifi.InterfaceConfig{IP: "192.168.4.1", Subnet: "255.255.255.0", Gateway: "192.168.4.1", DNS: "192.168.4.1"},
	}
}

func (m *MockAdapter) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

// Calls returns the adapter operations performed so far, e.g. "connect:Home".
func (m *MockAdapter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// ConnectedSSID returns the network the station is associated with, if any.
func (m *MockAdapter) ConnectedSSID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// AccessPoint returns the last access point configuration requested.
func (m *MockAdapter) AccessPoint() (wifi.AccessPointConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ap == nil {
		return wifi.AccessPointConfig{}, false
	}
	return *m.ap, true
}

func (m *MockAdapter) Scan() ([]wifi.ScanResult, error) {
	time.Sleep(m.ActionSleep)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("scan")

	if m.ScanError != nil {
		return nil, m.ScanError
	}
	if len(m.Networks) == 0 {
		return nil, wifi.ErrNoAccessPoints
	}
	// For mock, we can re-randomize signal on each scan
	if m.Randomize {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		for i := range m.Networks {
			m.Networks[i].RSSI = -40 - r.Intn(50)
		}
	}
	results := make([]wifi.ScanResult, len(m.Networks))
	copy(results, m.Networks)
	return results, nil
}

func (m *MockAdapter) joinable(ssid, password string) bool {
	if m.Unreachable[ssid] {
		return false
	}
	visible := m.Hidden[ssid]
	for _, n := range m.Networks {
		if n.SSID == ssid {
			visible = true
			break
		}
	}
	if !visible {
		return false
	}
	if secret, ok := m.Secrets[ssid]; ok && secret != password {
		return false
	}
	return true
}

func (m *MockAdapter) Connect(ssid, password string) error {
	time.Sleep(m.ActionSleep)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("connect:%s", ssid)

	if m.ConnectError != nil {
		return m.ConnectError
	}
	if !m.Active {
		return fmt.Errorf("station is inactive: %w", wifi.ErrWirelessDisabled)
	}
	m.pending = ""
	m.pendingPolls = 0
	if m.joinable(ssid, password) {
		m.pending = ssid
	}
	return nil
}

func (m *MockAdapter) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("disconnect")

	if m.DisconnectError != nil {
		return m.DisconnectError
	}
	m.connected = ""
	m.pending = ""
	m.pendingPolls = 0
	return nil
}

func (m *MockAdapter) IsConnected() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IsConnectedError != nil {
		return false, m.IsConnectedError
	}
	if m.connected != "" {
		return true, nil
	}
	if m.pending == "" {
		return false, nil
	}
	m.pendingPolls++
	if m.pendingPolls >= m.ConnectAfterPolls {
		m.connected = m.pending
		m.pending = ""
		return true, nil
	}
	return false, nil
}

// SetConnected forces the station into an associated state.
func (m *MockAdapter) SetConnected(ssid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = ssid
}

func (m *MockAdapter) IsActive() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Active, nil
}

func (m *MockAdapter) SetActive(active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("active:%t", active)

	if m.SetActiveError != nil {
		return m.SetActiveError
	}
	m.Active = active
	if !active {
		m.connected = ""
		m.pending = ""
	}
	return nil
}

func (m *MockAdapter) InterfaceConfig() (wifi.InterfaceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InterfaceConfigError != nil {
		return wifi.InterfaceConfig{}, m.InterfaceConfigError
	}
	if m.ap != nil && m.connected == "" {
		return m.APIfConfig, nil
	}
	if m.connected == "" {
		return wifi.EmptyInterfaceConfig(), nil
	}
	return m.IfConfig, nil
}

func (m *MockAdapter) CreateAccessPoint(cfg wifi.AccessPointConfig) error {
	time.Sleep(m.ActionSleep)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ap:%s", cfg.SSID)

	if m.AccessPointError != nil {
		return m.AccessPointError
	}
	m.ap = &cfg
	m.apPolls = 0
	return nil
}

func (m *MockAdapter) IsAccessPointActive() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ap == nil {
		return false, nil
	}
	m.apPolls++
	return m.apPolls >= m.AccessPointAfterPolls, nil
}
