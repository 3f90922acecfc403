package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wifimgr/wifimgr/internal/accesspoint"
	"github.com/wifimgr/wifimgr/wifi"
)

func update(t *testing.T, m *model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	return cmd
}

func TestModel_ScanLoadedReachesListUnderOtherViews(t *testing.T) {
	nets := &fakeNetworks{results: testResults, known: []string{"Home"}}
	m := NewModel(nets, nil)
	update(t, m, pushViewMsg{c: NewLogViewModel()})

	msg := loadScan(nets)()
	update(t, m, msg)

	if m.loading {
		t.Error("loading should clear after the first results")
	}
	if got := len(m.list.list.Items()); got != len(testResults) {
		t.Errorf("list has %d items, want %d", got, len(testResults))
	}
	if _, ok := m.stack.Top().(*LogViewModel); !ok {
		t.Error("results should not change the visible view")
	}
}

func TestModel_SaveFlow(t *testing.T) {
	nets := &fakeNetworks{results: testResults}
	m := NewModel(nets, nil)
	update(t, m, pushViewMsg{c: NewEditModel(nil)})

	cmd := update(t, m, saveNetworkMsg{ssid: "Attic", password: "password1"})
	saved, ok := cmd().(savedMsg)
	if !ok {
		t.Fatal("expected a savedMsg")
	}
	if len(nets.saved) != 1 || nets.saved[0].SSID != "Attic" {
		t.Fatalf("saved = %+v", nets.saved)
	}

	update(t, m, saved)
	if !m.saved {
		t.Error("model should remember a network was saved")
	}
	if m.stack.Len() != 1 {
		t.Errorf("edit view should be popped, stack has %d", m.stack.Len())
	}
	if !strings.Contains(m.statusMessage, "Attic") {
		t.Errorf("status = %q", m.statusMessage)
	}
}

func TestModel_SaveSelectionUsesBSSID(t *testing.T) {
	nets := &fakeNetworks{results: testResults}
	m := NewModel(nets, nil)

	cmd := update(t, m, saveNetworkMsg{bssid: testResults[0].BSSID, ssid: "Home", password: "password1"})
	if _, ok := cmd().(savedMsg); !ok {
		t.Fatal("expected a savedMsg")
	}
	if len(nets.selection) != 1 || nets.selection[0] != testResults[0].BSSID {
		t.Errorf("selection = %v", nets.selection)
	}
}

func TestModel_SaveErrorShowsErrorView(t *testing.T) {
	nets := &fakeNetworks{saveErr: errors.New("disk full")}
	m := NewModel(nets, nil)

	cmd := update(t, m, saveNetworkMsg{ssid: "Attic"})
	msg, ok := cmd().(errorMsg)
	if !ok {
		t.Fatal("expected an errorMsg")
	}
	update(t, m, msg)
	if _, ok := m.stack.Top().(*ErrorModel); !ok {
		t.Fatal("expected the error view on top")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Error("error view should show the error")
	}
}

func TestModel_Forget(t *testing.T) {
	nets := &fakeNetworks{known: []string{"Home"}}
	m := NewModel(nets, nil)

	cmd := update(t, m, forgetNetworkMsg{ssid: "Home"})
	if _, ok := cmd().(forgottenMsg); !ok {
		t.Fatal("expected a forgottenMsg")
	}
	if len(nets.removed) != 1 || nets.removed[0] != "Home" {
		t.Errorf("removed = %v", nets.removed)
	}
}

func TestModel_AccessPoint(t *testing.T) {
	m := NewModel(&fakeNetworks{}, nil)
	update(t, m, showAccessPointMsg{})
	if m.stack.Len() != 1 {
		t.Fatal("no access point view without an access point")
	}

	info := &accesspoint.Info{SSID: "WiFiManager_beef", AuthMode: wifi.AuthOpen, Channel: 11}
	m = NewModel(&fakeNetworks{}, info)
	if !strings.Contains(m.View(), "WiFiManager_beef") {
		t.Error("header should name the access point")
	}
	update(t, m, showAccessPointMsg{})
	if _, ok := m.stack.Top().(*AccessPointModel); !ok {
		t.Fatal("expected the access point view")
	}
}

func TestModel_PopKeepsBase(t *testing.T) {
	m := NewModel(&fakeNetworks{}, nil)
	update(t, m, popViewMsg{})
	if m.stack.Top() != m.list {
		t.Error("the list must stay on the stack")
	}
}
