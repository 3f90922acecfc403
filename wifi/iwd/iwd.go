//go:build linux

package iwd

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/wifimgr/wifimgr/wifi"
)

// iwd D-Bus names
const (
	iwdDest               = "net.connman.iwd"
	iwdPath               = "/"
	iwdAgentManagerPath   = "/net/connman/iwd"
	iwdAgentManagerIface  = "net.connman.iwd.AgentManager"
	iwdAgentIface         = "net.connman.iwd.Agent"
	iwdDeviceIface        = "net.connman.iwd.Device"
	iwdNetworkIface       = "net.connman.iwd.Network"
	iwdStationIface       = "net.connman.iwd.Station"
	iwdAccessPointIface   = "net.connman.iwd.AccessPoint"
	objectManagerIface    = "org.freedesktop.DBus.ObjectManager"
	propertiesSetMethod   = "org.freedesktop.DBus.Properties.Set"
	agentPath             = dbus.ObjectPath("/wifimgr/agent")
	stationMode           = "station"
	accessPointMode       = "ap"
	stationStateConnected = "connected"
)

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Adapter implements wifi.Adapter over iwd's D-Bus API.
type Adapter struct {
	conn   *dbus.Conn
	agent  *agent
	logger *slog.Logger

	mu     sync.Mutex
	device dbus.ObjectPath
	iface  string
}

// New connects to iwd on the system bus and registers a passphrase agent.
func New(logger *slog.Logger) (*Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("system bus: %w", wifi.ErrNotAvailable)
	}

	a := &Adapter{
		conn:   conn,
		logger: logger.With("component", "iwd"),
	}
	if _, err := a.objects(); err != nil {
		return nil, fmt.Errorf("iwd is not available: %w", wifi.ErrNotAvailable)
	}

	a.agent = newAgent(a.networkName)
	if err := conn.Export(a.agent, agentPath, iwdAgentIface); err != nil {
		return nil, fmt.Errorf("export agent: %w", err)
	}
	err = conn.Object(iwdDest, iwdAgentManagerPath).Call(iwdAgentManagerIface+".RegisterAgent", 0, agentPath).Err
	if err != nil {
		return nil, fmt.Errorf("register agent: %w", err)
	}
	return a, nil
}

func (a *Adapter) objects() (managedObjects, error) {
	var objs managedObjects
	err := a.conn.Object(iwdDest, iwdPath).Call(objectManagerIface+".GetManagedObjects", 0).Store(&objs)
	return objs, err
}

// findDevice returns the first wireless device and its interface name.
func findDevice(objs managedObjects) (dbus.ObjectPath, string, bool) {
	for path, ifaces := range objs {
		props, ok := ifaces[iwdDeviceIface]
		if !ok {
			continue
		}
		name, _ := props["Name"].Value().(string)
		return path, name, true
	}
	return "", "", false
}

func (a *Adapter) getDevice() (dbus.ObjectPath, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.device != "" {
		return a.device, nil
	}
	objs, err := a.objects()
	if err != nil {
		return "", err
	}
	path, name, ok := findDevice(objs)
	if !ok {
		return "", fmt.Errorf("no wireless device found: %w", wifi.ErrNotFound)
	}
	a.device, a.iface = path, name
	return path, nil
}

func (a *Adapter) getProperty(path dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	return a.conn.Object(iwdDest, path).GetProperty(iface + "." + name)
}

func (a *Adapter) setProperty(path dbus.ObjectPath, iface, name string, value any) error {
	return a.conn.Object(iwdDest, path).Call(propertiesSetMethod, 0, iface, name, dbus.MakeVariant(value)).Err
}

func (a *Adapter) networkName(path dbus.ObjectPath) (string, error) {
	v, err := a.getProperty(path, iwdNetworkIface, "Name")
	if err != nil {
		return "", err
	}
	name, _ := v.Value().(string)
	return name, nil
}

// setMode switches the device between station and access point mode.
func (a *Adapter) setMode(dev dbus.ObjectPath, mode string) error {
	v, err := a.getProperty(dev, iwdDeviceIface, "Mode")
	if err == nil {
		if current, _ := v.Value().(string); current == mode {
			return nil
		}
	}
	return a.setProperty(dev, iwdDeviceIface, "Mode", mode)
}

// authMode maps an iwd network type to an AuthMode. iwd does not
// distinguish WPA from WPA2.
func authMode(typ string) wifi.AuthMode {
	switch typ {
	case "open":
		return wifi.AuthOpen
	case "wep":
		return wifi.AuthWEP
	case "psk":
		return wifi.AuthWPAWPA2PSK
	}
	return wifi.AuthUnknown
}

// signalToDBM converts iwd's signal strength, in 100 * dBm, to dBm.
func signalToDBM(signal int16) int {
	return int(signal) / 100
}

// Scan triggers a scan and returns the networks iwd currently knows about.
func (a *Adapter) Scan() ([]wifi.ScanResult, error) {
	active, err := a.IsActive()
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, wifi.ErrWirelessDisabled
	}
	dev, err := a.getDevice()
	if err != nil {
		return nil, err
	}
	station := a.conn.Object(iwdDest, dev)
	// iwd refuses while a scan is already running; the ordered list is
	// still current enough.
	if err := station.Call(iwdStationIface+".Scan", 0).Err; err != nil {
		a.logger.Debug("scan request refused", "error", err)
	}

	var ordered []struct {
		Path   dbus.ObjectPath
		Signal int16
	}
	if err := station.Call(iwdStationIface+".GetOrderedNetworks", 0).Store(&ordered); err != nil {
		return nil, fmt.Errorf("ordered networks: %w", err)
	}
	if len(ordered) == 0 {
		return nil, wifi.ErrNoAccessPoints
	}

	results := make([]wifi.ScanResult, 0, len(ordered))
	for _, n := range ordered {
		name, err := a.networkName(n.Path)
		if err != nil {
			continue
		}
		typ := ""
		if v, err := a.getProperty(n.Path, iwdNetworkIface, "Type"); err == nil {
			typ, _ = v.Value().(string)
		}
		dbm := signalToDBM(n.Signal)
		results = append(results, wifi.ScanResult{
			SSID: name,
			// iwd groups BSSes into networks; the object path stands in
			// for a BSSID.
			BSSID:    string(n.Path),
			RSSI:     dbm,
			AuthMode: authMode(typ),
			Quality:  wifi.DBMToQuality(dbm),
		})
	}
	return results, nil
}

// Connect starts joining ssid. The D-Bus call blocks until iwd finishes,
// so it is made asynchronously and IsConnected reports the outcome.
func (a *Adapter) Connect(ssid, password string) error {
	dev, err := a.getDevice()
	if err != nil {
		return err
	}
	if err := a.setMode(dev, stationMode); err != nil {
		return fmt.Errorf("station mode: %w", err)
	}
	a.agent.setPassphrase(ssid, password)

	station := a.conn.Object(iwdDest, dev)
	var ordered []struct {
		Path   dbus.ObjectPath
		Signal int16
	}
	if err := station.Call(iwdStationIface+".GetOrderedNetworks", 0).Store(&ordered); err != nil {
		return fmt.Errorf("ordered networks: %w", err)
	}

	var call *dbus.Call
	for _, n := range ordered {
		if name, _ := a.networkName(n.Path); name == ssid {
			call = a.conn.Object(iwdDest, n.Path).Go(iwdNetworkIface+".Connect", 0, make(chan *dbus.Call, 1))
			break
		}
	}
	if call == nil {
		call = station.Go(iwdStationIface+".ConnectHiddenNetwork", 0, make(chan *dbus.Call, 1), ssid)
	}
	go func() {
		res := <-call.Done
		if res.Err != nil {
			a.logger.Info("connect failed", "ssid", ssid, "error", res.Err)
		}
	}()
	return nil
}

// Disconnect drops the current station connection. It is a no-op when the
// station is idle, since iwd rejects Disconnect with NotConnected.
func (a *Adapter) Disconnect() error {
	dev, err := a.getDevice()
	if err != nil {
		return err
	}
	v, err := a.getProperty(dev, iwdStationIface, "State")
	if err != nil {
		return nil
	}
	if state, _ := v.Value().(string); state == "disconnected" {
		return nil
	}
	return a.conn.Object(iwdDest, dev).Call(iwdStationIface+".Disconnect", 0).Err
}

// IsConnected reports whether the station is connected.
func (a *Adapter) IsConnected() (bool, error) {
	dev, err := a.getDevice()
	if err != nil {
		return false, err
	}
	v, err := a.getProperty(dev, iwdStationIface, "State")
	if err != nil {
		// The Station interface disappears in AP mode.
		return false, nil
	}
	state, _ := v.Value().(string)
	return state == stationStateConnected, nil
}

// IsActive reports whether the device is powered.
func (a *Adapter) IsActive() (bool, error) {
	dev, err := a.getDevice()
	if err != nil {
		return false, err
	}
	v, err := a.getProperty(dev, iwdDeviceIface, "Powered")
	if err != nil {
		return false, err
	}
	powered, _ := v.Value().(bool)
	return powered, nil
}

// SetActive powers the device on or off.
func (a *Adapter) SetActive(active bool) error {
	dev, err := a.getDevice()
	if err != nil {
		return err
	}
	return a.setProperty(dev, iwdDeviceIface, "Powered", active)
}

// InterfaceConfig reads the interface's IPv4 address from the kernel, since
// iwd only manages addresses when its network configuration is enabled.
func (a *Adapter) InterfaceConfig() (wifi.InterfaceConfig, error) {
	cfg := wifi.EmptyInterfaceConfig()
	if _, err := a.getDevice(); err != nil {
		return cfg, err
	}
	a.mu.Lock()
	name := a.iface
	a.mu.Unlock()

	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return cfg, err
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return cfg, err
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.To4() == nil {
			continue
		}
		cfg.IP = ipnet.IP.String()
		cfg.Subnet = net.IP(ipnet.Mask).String()
		break
	}
	return cfg, nil
}

// CreateAccessPoint switches the device to AP mode and starts a WPA2
// access point. iwd needs a provisioning profile for open access points,
// which this adapter does not manage.
func (a *Adapter) CreateAccessPoint(cfg wifi.AccessPointConfig) error {
	if cfg.AuthMode == wifi.AuthOpen || cfg.Password == "" {
		return fmt.Errorf("open access point: %w", wifi.ErrNotSupported)
	}
	dev, err := a.getDevice()
	if err != nil {
		return err
	}
	if err := a.setMode(dev, accessPointMode); err != nil {
		return fmt.Errorf("access point mode: %w", err)
	}
	err = a.conn.Object(iwdDest, dev).Call(iwdAccessPointIface+".Start", 0, cfg.SSID, cfg.Password).Err
	if err != nil {
		return fmt.Errorf("start access point: %w", err)
	}
	return nil
}

// IsAccessPointActive reports whether the access point has started.
func (a *Adapter) IsAccessPointActive() (bool, error) {
	dev, err := a.getDevice()
	if err != nil {
		return false, err
	}
	v, err := a.getProperty(dev, iwdAccessPointIface, "Started")
	if err != nil {
		return false, nil
	}
	started, _ := v.Value().(bool)
	return started, nil
}

var _ wifi.Adapter = (*Adapter)(nil)
