// Package helpers formats values for terminal output.
package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/wifimgr/wifimgr/wifi"
)

// FormatAge returns a human-readable age of t relative to now, like
// "2.0 hours ago".
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < time.Second {
		return "just now"
	}
	return formatSince(d)
}

func formatSince(d time.Duration) string {
	var s string
	switch {
	case d < time.Minute*2:
		s = fmt.Sprintf("%0.f seconds", d.Seconds())
	case d < time.Hour*2:
		s = fmt.Sprintf("%0.f minutes", d.Minutes())
	case d < time.Hour*48:
		s = fmt.Sprintf("%0.1f hours", d.Hours())
	case d < time.Hour*24*9:
		s = fmt.Sprintf("%0.1f days", d.Hours()/24)
	default:
		s = fmt.Sprintf("%0.f days", d.Hours()/24)
	}
	return fmt.Sprintf("%s ago", s)
}

// FormatScanResult summarizes a scan result after its SSID, e.g.
// "72%, ch 6, WPA2-PSK, hidden".
func FormatScanResult(r wifi.ScanResult) string {
	parts := []string{
		fmt.Sprintf("%d%%", r.Quality),
		fmt.Sprintf("ch %d", r.Channel),
		r.AuthMode.String(),
	}
	if r.Hidden {
		parts = append(parts, "hidden")
	}
	return strings.Join(parts, ", ")
}

// DisplaySSID returns ssid, or a placeholder for hidden networks.
func DisplaySSID(ssid string) string {
	if ssid == "" {
		return "(hidden)"
	}
	return ssid
}
