package wifi

import "fmt"

// AuthMode is the authentication mode advertised by a network.
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWEP
	AuthWPAPSK
	AuthWPA2PSK
	AuthWPAWPA2PSK
	AuthUnknown
)

func (a AuthMode) String() string {
	switch a {
	case AuthOpen:
		return "open"
	case AuthWEP:
		return "WEP"
	case AuthWPAPSK:
		return "WPA-PSK"
	case AuthWPA2PSK:
		return "WPA2-PSK"
	case AuthWPAWPA2PSK:
		return "WPA/WPA2-PSK"
	}
	return fmt.Sprintf("unknown(%d)", int(a))
}

// IsSecure reports whether joining requires a passphrase.
func (a AuthMode) IsSecure() bool {
	return a != AuthOpen
}

// ScanResult is one access point observed during a scan.
type ScanResult struct {
	SSID     string
	BSSID    string
	Channel  int
	RSSI     int // dBm
	AuthMode AuthMode
	Hidden   bool
	Quality  int // 0-100, derived from RSSI
}

// InterfaceConfig is the IPv4 configuration of an interface. Unknown values
// are reported as "0.0.0.0".
type InterfaceConfig struct {
	IP      string
	Subnet  string
	Gateway string
	DNS     string
}

// EmptyAddr is the placeholder for an unassigned address.
const EmptyAddr = "0.0.0.0"

// EmptyInterfaceConfig returns an InterfaceConfig with every field unassigned.
func EmptyInterfaceConfig() InterfaceConfig {
	return InterfaceConfig{IP: EmptyAddr, Subnet: EmptyAddr, Gateway: EmptyAddr, DNS: EmptyAddr}
}

// AccessPointConfig describes a soft access point to bring up.
type AccessPointConfig struct {
	SSID     string
	Password string // empty for an open network
	AuthMode AuthMode
	Channel  int
}

// Adapter is the platform radio. Station methods act on the client
// interface; the access point methods act on the soft-AP interface.
type Adapter interface {
	// Scan performs a blocking scan. ErrNoAccessPoints means nothing was seen.
	Scan() ([]ScanResult, error)
	// Connect begins joining ssid. It does not wait for association.
	Connect(ssid, password string) error
	// Disconnect drops the current station association, if any.
	Disconnect() error
	// IsConnected reports whether the station has an established link.
	IsConnected() (bool, error)
	// IsActive reports whether the station interface is powered.
	IsActive() (bool, error)
	// SetActive powers the station interface on or off.
	SetActive(active bool) error
	// InterfaceConfig returns the station's IPv4 configuration.
	InterfaceConfig() (InterfaceConfig, error)

	// CreateAccessPoint starts a soft access point.
	CreateAccessPoint(cfg AccessPointConfig) error
	// IsAccessPointActive reports whether the soft access point is up.
	IsAccessPointActive() (bool, error)
}
