package darwin

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wifimgr/wifimgr/wifi"
)

type scannedNetwork struct {
	ssid     string
	auth     wifi.AuthMode
	rssi     int
	channel  int
	isActive bool
}

var (
	signalRe       = regexp.MustCompile(`Signal / Noise:\s*(-?\d+)\s*dBm`)
	securityRe     = regexp.MustCompile(`Security:\s*(.+)`)
	channelRe      = regexp.MustCompile(`Channel:\s*(\d+)`)
	currentSSIDRe  = regexp.MustCompile(`Current Wi-Fi Network: (.+)`)
	networkIndent  = 12
	propertyIndent = 14
)

// parseSystemProfilerOutput parses `system_profiler SPAirPortDataType` into
// the networks it lists. An SSID listed twice keeps its first entry, filling
// in a signal level from a later one if the first had none.
func parseSystemProfilerOutput(output string) []scannedNetwork {
	var (
		networks []scannedNetwork
		index    = map[string]int{}
		current  *scannedNetwork
		section  string
	)

	flush := func() {
		if current == nil || current.ssid == "" {
			return
		}
		if i, ok := index[current.ssid]; ok {
			if networks[i].rssi == 0 {
				networks[i].rssi = current.rssi
			}
		} else {
			index[current.ssid] = len(networks)
			networks = append(networks, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.Contains(line, "Current Network Information:"):
			flush()
			section = "current"
			continue
		case strings.Contains(line, "Other Local Wi-Fi Networks:"):
			flush()
			section = "other"
			continue
		case strings.HasPrefix(trimmed, "awdl"):
			// The next interface; nothing more about Wi-Fi networks.
			flush()
			return networks
		}
		if section == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent == networkIndent && strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, ": ") {
			flush()
			current = &scannedNetwork{
				ssid:     strings.TrimSuffix(trimmed, ":"),
				isActive: section == "current",
				auth:     wifi.AuthOpen,
			}
			continue
		}
		if current == nil || indent < propertyIndent {
			continue
		}

		if m := signalRe.FindStringSubmatch(line); m != nil {
			current.rssi, _ = strconv.Atoi(m[1])
		} else if m := securityRe.FindStringSubmatch(line); m != nil {
			current.auth = parseSecurity(m[1])
		} else if m := channelRe.FindStringSubmatch(line); m != nil {
			current.channel, _ = strconv.Atoi(m[1])
		}
	}
	flush()
	return networks
}

// parseSecurity maps a system_profiler security label to an AuthMode.
func parseSecurity(s string) wifi.AuthMode {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "enterprise"):
		return wifi.AuthUnknown
	case strings.Contains(s, "wpa/wpa2"):
		return wifi.AuthWPAWPA2PSK
	case strings.Contains(s, "wpa2"):
		return wifi.AuthWPA2PSK
	case strings.Contains(s, "wpa3"):
		return wifi.AuthUnknown
	case strings.Contains(s, "wpa"):
		return wifi.AuthWPAPSK
	case strings.Contains(s, "wep"):
		return wifi.AuthWEP
	case s == "" || s == "none" || s == "open":
		return wifi.AuthOpen
	}
	return wifi.AuthUnknown
}

// scanResults converts parsed networks. system_profiler does not report
// BSSIDs, so the SSID stands in for one.
func scanResults(networks []scannedNetwork) []wifi.ScanResult {
	results := make([]wifi.ScanResult, 0, len(networks))
	for _, n := range networks {
		rssi := n.rssi
		if rssi == 0 {
			rssi = -100
		}
		results = append(results, wifi.ScanResult{
			SSID:     n.ssid,
			BSSID:    n.ssid,
			Channel:  n.channel,
			RSSI:     rssi,
			AuthMode: n.auth,
			Quality:  wifi.DBMToQuality(rssi),
		})
	}
	return results
}

// parseCurrentNetwork parses `networksetup -getairportnetwork`. It returns
// "" when not associated.
func parseCurrentNetwork(output string) string {
	m := currentSSIDRe.FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// findWifiDevice parses the output of `networksetup -listallhardwareports` to find the Wi-Fi device.
func findWifiDevice(output string) (string, error) {
	// The output is a series of stanzas separated by blank lines, one per
	// hardware port.
	for _, stanza := range strings.Split(output, "\n\n") {
		var device string
		isWifiPort := false
		for _, line := range strings.Split(stanza, "\n") {
			if port, ok := strings.CutPrefix(line, "Hardware Port: "); ok {
				isWifiPort = strings.Contains(port, "Wi-Fi") || strings.Contains(port, "AirPort")
			}
			if d, ok := strings.CutPrefix(line, "Device: "); ok {
				device = d
			}
		}
		if isWifiPort && device != "" {
			return device, nil
		}
	}
	return "", fmt.Errorf("no Wi-Fi interface found: %w", wifi.ErrNotFound)
}
