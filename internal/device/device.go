// Package device resolves a stable identifier for the local machine.
package device

import (
	"bytes"
	"encoding/hex"
	"errors"
	"net"
	"os"
	"strings"
)

// ErrNoIdentity is returned when no identifier source is usable.
var ErrNoIdentity = errors.New("no device identity available")

// machineIDPaths are tried in order.
var machineIDPaths = []string{
	"/etc/machine-id",
	"/var/lib/dbus/machine-id",
}

// interfaces is swapped in tests.
var interfaces = net.Interfaces

// ID returns the device identifier. An override, given as hex or plain
// text, wins. Otherwise the systemd machine id is used, then the hardware
// address of the first non-loopback interface.
func ID(override string) ([]byte, error) {
	if override != "" {
		if b, err := hex.DecodeString(override); err == nil && len(b) > 0 {
			return b, nil
		}
		return []byte(override), nil
	}
	for _, p := range machineIDPaths {
		raw, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		s := strings.TrimSpace(string(raw))
		if b, err := hex.DecodeString(s); err == nil && len(b) > 0 {
			return b, nil
		}
	}
	return hardwareAddr()
}

func hardwareAddr() ([]byte, error) {
	ifaces, err := interfaces()
	if err != nil {
		return nil, err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		if bytes.Equal(iface.HardwareAddr, make([]byte, len(iface.HardwareAddr))) {
			continue
		}
		return []byte(iface.HardwareAddr), nil
	}
	return nil, ErrNoIdentity
}
