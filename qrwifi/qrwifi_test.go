package qrwifi

import (
	"strings"
	"testing"

	"github.com/wifimgr/wifimgr/wifi"
)

func TestEscapeWifiString(t *testing.T) {
	got := EscapeWifiString(`a;b,c:d"e\f`)
	want := `a\;b\,c\:d\"e\\f`
	if got != want {
		t.Fatalf("EscapeWifiString() = %q, want %q", got, want)
	}
}

func TestPayload(t *testing.T) {
	tests := []struct {
		name     string
		ssid     string
		password string
		auth     wifi.AuthMode
		hidden   bool
		want     string
	}{
		{"open", "WiFiManager_beef", "", wifi.AuthOpen, false, "WIFI:S:WiFiManager_beef;T:nopass;;"},
		{"wpa", "Home", "p;ss", wifi.AuthWPAWPA2PSK, false, `WIFI:S:Home;T:WPA;P:p\;ss;;`},
		{"wep hidden", "Old", "12345", wifi.AuthWEP, true, "WIFI:S:Old;T:WEP;P:12345;H:true;;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Payload(tt.ssid, tt.password, tt.auth, tt.hidden); got != tt.want {
				t.Errorf("Payload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	out, err := Generate("Home", "password", wifi.AuthWPA2PSK, false)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if len(strings.Split(strings.TrimSpace(out), "\n")) < 10 {
		t.Errorf("Generate() output too small:\n%s", out)
	}
}
