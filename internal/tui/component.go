package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/wifi"
)

// Component is the interface for a screen on the component stack.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string
	Resize(width, height int)
	IsConsumingInput() bool
}

// Leavable components are notified when they are removed from the stack.
type Leavable interface {
	OnLeave() tea.Cmd
}

// Networks is the subset of the manager the screens use.
type Networks interface {
	LatestScan() []wifi.ScanResult
	ConfiguredNetworks() []string
	SaveNetwork(c credstore.NetworkCredential) error
	SaveSelection(bssid, ssid, password string) error
	RemoveNetworks(ssids ...string) error
}

// popViewMsg pops the current view from the stack.
type popViewMsg struct{}

// pushViewMsg pushes a view onto the stack.
type pushViewMsg struct{ c Component }

// networkItem is a single scanned network in the list.
type networkItem struct {
	wifi.ScanResult
	IsKnown bool
}

func (i networkItem) Title() string {
	if i.SSID == "" {
		return "(hidden " + i.BSSID + ")"
	}
	return i.SSID
}

func (i networkItem) Description() string {
	return fmt.Sprintf("%3d%%  ch %-3d %s", i.Quality, i.Channel, i.AuthMode)
}

func (i networkItem) FilterValue() string { return i.SSID }

type (
	scanLoadedMsg struct {
		results []wifi.ScanResult
		known   []string
	}
	savedMsg struct {
		ssid string
	}
	forgottenMsg struct {
		ssids []string
	}
	errorMsg struct{ err error }

	scanMsg        struct{}
	saveNetworkMsg struct {
		bssid    string
		ssid     string
		password string
	}
	forgetNetworkMsg struct{ ssid string }
)

func loadScan(n Networks) tea.Cmd {
	return func() tea.Msg {
		return scanLoadedMsg{results: n.LatestScan(), known: n.ConfiguredNetworks()}
	}
}

func saveNetwork(n Networks, msg saveNetworkMsg) tea.Cmd {
	return func() tea.Msg {
		var err error
		if msg.bssid != "" {
			err = n.SaveSelection(msg.bssid, msg.ssid, msg.password)
		} else {
			err = n.SaveNetwork(credstore.NetworkCredential{SSID: msg.ssid, Password: msg.password})
		}
		if err != nil {
			return errorMsg{fmt.Errorf("failed to save network: %w", err)}
		}
		ssid := msg.ssid
		if ssid == "" {
			ssid = msg.bssid
		}
		return savedMsg{ssid: ssid}
	}
}

func forgetNetwork(n Networks, ssid string) tea.Cmd {
	return func() tea.Msg {
		if err := n.RemoveNetworks(ssid); err != nil {
			return errorMsg{fmt.Errorf("failed to forget network: %w", err)}
		}
		return forgottenMsg{ssids: []string{ssid}}
	}
}
