//go:build darwin

package darwin

import (
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"strings"

	"github.com/wifimgr/wifimgr/wifi"
)

// runWithOutput wraps exec.Command to capture stderr and wrap errors.
func runWithOutput(c *exec.Cmd) ([]byte, error) {
	var stderr strings.Builder
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		return out, fmt.Errorf("failed to run command: %s: %w: %s", c.String(), err, stderr.String())
	}
	return out, nil
}

// runOnly wraps exec.Command for commands where we don't care about stdout.
func runOnly(c *exec.Cmd) error {
	var stderr strings.Builder
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run command: %s: %w: %s", c.String(), err, stderr.String())
	}
	return nil
}

// Adapter implements wifi.Adapter for macOS. It can scan and join networks
// but not host an access point.
type Adapter struct {
	WifiInterface string
	logger        *slog.Logger
}

// New finds the Wi-Fi interface (e.g. en0).
func New(logger *slog.Logger) (*Adapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out, err := runWithOutput(exec.Command("networksetup", "-listallhardwareports"))
	if err != nil {
		return nil, fmt.Errorf("failed to list hardware ports: %w", wifi.ErrOperationFailed)
	}
	device, err := findWifiDevice(string(out))
	if err != nil {
		return nil, err
	}
	return &Adapter{WifiInterface: device, logger: logger.With("component", "darwin")}, nil
}

// Scan lists visible networks using system_profiler (the airport command is
// deprecated).
func (a *Adapter) Scan() ([]wifi.ScanResult, error) {
	active, err := a.IsActive()
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, wifi.ErrWirelessDisabled
	}
	out, err := runWithOutput(exec.Command("system_profiler", "SPAirPortDataType"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for networks: %w", wifi.ErrOperationFailed)
	}
	results := scanResults(parseSystemProfilerOutput(string(out)))
	if len(results) == 0 {
		return nil, wifi.ErrNoAccessPoints
	}
	return results, nil
}

// Connect starts joining ssid in the background; networksetup blocks until
// the association attempt finishes.
func (a *Adapter) Connect(ssid, password string) error {
	args := []string{"-setairportnetwork", a.WifiInterface, ssid}
	if password != "" {
		args = append(args, password)
	}
	cmd := exec.Command("networksetup", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("join %q: %w", ssid, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			a.logger.Info("join failed", "ssid", ssid, "error", err, "stderr", stderr.String())
		}
	}()
	return nil
}

// Disconnect power-cycles the radio, which is the only way networksetup
// offers to drop an association.
func (a *Adapter) Disconnect() error {
	connected, err := a.IsConnected()
	if err != nil || !connected {
		return err
	}
	if err := a.SetActive(false); err != nil {
		return err
	}
	return a.SetActive(true)
}

// IsConnected reports whether the interface is associated.
func (a *Adapter) IsConnected() (bool, error) {
	out, err := runWithOutput(exec.Command("networksetup", "-getairportnetwork", a.WifiInterface))
	if err != nil {
		return false, err
	}
	return parseCurrentNetwork(string(out)) != "", nil
}

// IsActive checks if the wireless radio is enabled.
func (a *Adapter) IsActive() (bool, error) {
	out, err := runWithOutput(exec.Command("networksetup", "-getairportpower", a.WifiInterface))
	if err != nil {
		return false, err
	}
	return strings.Contains(string(out), ": On"), nil
}

// SetActive enables or disables the wireless radio.
func (a *Adapter) SetActive(active bool) error {
	state := "off"
	if active {
		state = "on"
	}
	return runOnly(exec.Command("networksetup", "-setairportpower", a.WifiInterface, state))
}

// InterfaceConfig reads the interface address from the kernel and the
// DHCP-provided router and DNS server from ipconfig.
func (a *Adapter) InterfaceConfig() (wifi.InterfaceConfig, error) {
	cfg := wifi.EmptyInterfaceConfig()
	ifi, err := net.InterfaceByName(a.WifiInterface)
	if err != nil {
		return cfg, err
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return cfg, err
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil {
			cfg.IP = ipnet.IP.String()
			cfg.Subnet = net.IP(ipnet.Mask).String()
			break
		}
	}
	if out, err := runWithOutput(exec.Command("ipconfig", "getoption", a.WifiInterface, "router")); err == nil {
		if gw := strings.TrimSpace(string(out)); gw != "" {
			cfg.Gateway = gw
		}
	}
	if out, err := runWithOutput(exec.Command("ipconfig", "getoption", a.WifiInterface, "domain_name_server")); err == nil {
		if dns := strings.TrimSpace(string(out)); dns != "" {
			cfg.DNS = dns
		}
	}
	return cfg, nil
}

// CreateAccessPoint is not supported: macOS exposes Internet Sharing only
// through System Settings.
func (a *Adapter) CreateAccessPoint(cfg wifi.AccessPointConfig) error {
	return fmt.Errorf("access point on darwin: %w", wifi.ErrNotSupported)
}

// IsAccessPointActive always reports false.
func (a *Adapter) IsAccessPointActive() (bool, error) {
	return false, nil
}

var _ wifi.Adapter = (*Adapter)(nil)
