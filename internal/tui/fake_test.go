package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/wifi"
)

type fakeNetworks struct {
	results   []wifi.ScanResult
	known     []string
	saved     []credstore.NetworkCredential
	selection []string
	removed   []string
	saveErr   error
}

func (f *fakeNetworks) LatestScan() []wifi.ScanResult { return f.results }
func (f *fakeNetworks) ConfiguredNetworks() []string  { return f.known }

func (f *fakeNetworks) SaveNetwork(c credstore.NetworkCredential) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, c)
	f.known = append(f.known, c.SSID)
	return nil
}

func (f *fakeNetworks) SaveSelection(bssid, ssid, password string) error {
	f.selection = append(f.selection, bssid)
	if ssid == "" {
		r, ok := wifi.FindBSSID(f.results, bssid)
		if !ok {
			return errors.New("unknown bssid")
		}
		ssid = r.SSID
	}
	return f.SaveNetwork(credstore.NetworkCredential{SSID: ssid, Password: password})
}

func (f *fakeNetworks) RemoveNetworks(ssids ...string) error {
	f.removed = append(f.removed, ssids...)
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(c Component, s string) Component {
	for _, r := range s {
		c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return c
}

var testResults = []wifi.ScanResult{
	{SSID: "Home", BSSID: "aa:aa:aa:aa:aa:01", Channel: 6, RSSI: -50, AuthMode: wifi.AuthWPA2PSK, Quality: 100},
	{SSID: "Cafe", BSSID: "aa:aa:aa:aa:aa:02", Channel: 1, RSSI: -80, AuthMode: wifi.AuthOpen, Quality: 40},
	{SSID: "", BSSID: "aa:aa:aa:aa:aa:03", Channel: 11, RSSI: -85, AuthMode: wifi.AuthWPA2PSK, Hidden: true, Quality: 30},
}
