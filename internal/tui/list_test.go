package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wifimgr/wifimgr/wifi"
)

func newTestList(t *testing.T) *ListModel {
	t.Helper()
	m := NewListModel(nil)
	m.Resize(100, 40)
	m.SetResults(testResults, []string{"Cafe"})
	return m
}

func pushed(t *testing.T, cmd tea.Cmd) Component {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg, ok := cmd().(pushViewMsg)
	if !ok {
		t.Fatalf("expected a pushViewMsg")
	}
	return msg.c
}

func TestListModel_SetResultsMarksKnown(t *testing.T) {
	m := newTestList(t)
	items := m.list.Items()
	if len(items) != len(testResults) {
		t.Fatalf("got %d items, want %d", len(items), len(testResults))
	}
	for _, it := range items {
		item := it.(networkItem)
		if want := item.SSID == "Cafe"; item.IsKnown != want {
			t.Errorf("%q IsKnown = %v, want %v", item.SSID, item.IsKnown, want)
		}
	}
}

func TestListModel_KeepsSelectionOnRefresh(t *testing.T) {
	m := newTestList(t)
	m.list.Select(1)

	reordered := []networkItem{{ScanResult: testResults[1]}, {ScanResult: testResults[0]}}
	m.SetResults([]wifi.ScanResult{reordered[0].ScanResult, reordered[1].ScanResult}, nil)

	selected := m.list.SelectedItem().(networkItem)
	if selected.SSID != "Cafe" {
		t.Errorf("selected %q after refresh, want Cafe", selected.SSID)
	}
}

func TestListModel_EnterOpensEdit(t *testing.T) {
	m := newTestList(t)
	_, cmd := m.Update(keyMsg("enter"))

	edit, ok := pushed(t, cmd).(*EditModel)
	if !ok {
		t.Fatal("expected an *EditModel")
	}
	if edit.item.BSSID != testResults[0].BSSID {
		t.Errorf("edit for %q, want %q", edit.item.BSSID, testResults[0].BSSID)
	}
	if edit.ssidInput != nil {
		t.Error("visible network should not ask for an SSID")
	}
}

func TestListModel_NewKey(t *testing.T) {
	m := newTestList(t)
	_, cmd := m.Update(keyMsg("n"))

	edit, ok := pushed(t, cmd).(*EditModel)
	if !ok {
		t.Fatal("expected an *EditModel")
	}
	if edit.ssidInput == nil {
		t.Error("new network should ask for an SSID")
	}
}

func TestListModel_SavedKey(t *testing.T) {
	m := newTestList(t)
	_, cmd := m.Update(keyMsg("w"))

	known, ok := pushed(t, cmd).(*KnownModel)
	if !ok {
		t.Fatal("expected a *KnownModel")
	}
	if len(known.ssids) != 1 || known.ssids[0] != "Cafe" {
		t.Errorf("known = %v, want [Cafe]", known.ssids)
	}
}

func TestListModel_AccessPointKey(t *testing.T) {
	m := newTestList(t)
	_, cmd := m.Update(keyMsg("a"))
	if _, ok := cmd().(showAccessPointMsg); !ok {
		t.Error("expected a showAccessPointMsg")
	}
}

func TestSignalColor(t *testing.T) {
	if signalColor(0) != CurrentTheme.Subtle {
		t.Error("zero quality should use the subtle color")
	}
	if signalColor(50) == signalColor(100) {
		t.Error("different qualities should blend to different colors")
	}
}
