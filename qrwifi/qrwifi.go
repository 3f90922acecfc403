// Package qrwifi builds WiFi join QR codes.
package qrwifi

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/wifimgr/wifimgr/wifi"
)

// EscapeWifiString handles the special character escaping for SSID and Password.
func EscapeWifiString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`;`, `\;`,
		`,`, `\,`,
		`:`, `\:`,
		`"`, `\"`,
	)
	return r.Replace(s)
}

// Payload builds the WIFI: URI a phone camera understands.
func Payload(ssid, password string, auth wifi.AuthMode, hidden bool) string {
	var b strings.Builder

	b.WriteString("WIFI:S:")
	b.WriteString(EscapeWifiString(ssid))
	b.WriteString(";")

	switch auth {
	case wifi.AuthOpen:
		b.WriteString("T:nopass;")
	case wifi.AuthWEP:
		b.WriteString("T:WEP;P:")
		b.WriteString(EscapeWifiString(password))
		b.WriteString(";")
	case wifi.AuthWPAPSK, wifi.AuthWPA2PSK, wifi.AuthWPAWPA2PSK:
		b.WriteString("T:WPA;P:")
		b.WriteString(EscapeWifiString(password))
		b.WriteString(";")
	default:
		// Don't set T if security is unknown, most readers will assume WPA.
	}

	if hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String()
}

// Generate returns a terminal rendering of the join QR code.
func Generate(ssid, password string, auth wifi.AuthMode, hidden bool) (string, error) {
	q, err := qrcode.New(Payload(ssid, password, auth, hidden), qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
