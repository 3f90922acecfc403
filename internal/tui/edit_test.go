package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func saveMsgFrom(t *testing.T, cmd tea.Cmd) saveNetworkMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a save command, got nil")
	}
	msg, ok := cmd().(saveNetworkMsg)
	if !ok {
		t.Fatal("expected a saveNetworkMsg")
	}
	return msg
}

func TestEditModel_SecureNetwork(t *testing.T) {
	item := networkItem{ScanResult: testResults[0]}
	var c Component = NewEditModel(&item)

	c, cmd := c.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("empty passphrase should not submit")
	}
	if c.(*EditModel).validation == "" {
		t.Fatal("expected a validation message")
	}

	c = typeText(c, "short")
	_, cmd = c.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("short passphrase should not submit")
	}

	c = typeText(c, "-enough")
	_, cmd = c.Update(keyMsg("enter"))
	msg := saveMsgFrom(t, cmd)
	if msg.ssid != "Home" || msg.bssid != testResults[0].BSSID || msg.password != "short-enough" {
		t.Errorf("got %+v", msg)
	}
}

func TestEditModel_OpenNetwork(t *testing.T) {
	item := networkItem{ScanResult: testResults[1]}
	var c Component = NewEditModel(&item)

	c = typeText(c, "ignored")
	_, cmd := c.Update(keyMsg("enter"))
	msg := saveMsgFrom(t, cmd)
	if msg.ssid != "Cafe" || msg.password != "" {
		t.Errorf("got %+v", msg)
	}
}

func TestEditModel_NewNetwork(t *testing.T) {
	var c Component = NewEditModel(nil)

	_, cmd := c.Update(keyMsg("enter"))
	if cmd != nil {
		// Enter on the SSID field moves focus rather than submitting.
		t.Fatal("enter on the first field should not submit")
	}
	c.(*EditModel).setFocus(0)

	c = typeText(c, "Attic")
	c, _ = c.Update(keyMsg("tab"))
	c = typeText(c, "password1")
	_, cmd = c.Update(keyMsg("enter"))

	msg := saveMsgFrom(t, cmd)
	if msg.ssid != "Attic" || msg.bssid != "" || msg.password != "password1" {
		t.Errorf("got %+v", msg)
	}
}

func TestEditModel_NewNetworkRequiresSSID(t *testing.T) {
	var c Component = NewEditModel(nil)
	c, _ = c.Update(keyMsg("tab"))
	c, cmd := c.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("missing SSID should not submit")
	}
	if c.(*EditModel).validation != "Network name is required" {
		t.Errorf("validation = %q", c.(*EditModel).validation)
	}
}

func TestEditModel_HiddenNetwork(t *testing.T) {
	item := networkItem{ScanResult: testResults[2]}
	var c Component = NewEditModel(&item)

	c = typeText(c, "Secret")
	c, _ = c.Update(keyMsg("tab"))
	c = typeText(c, "password1")
	_, cmd := c.Update(keyMsg("enter"))

	msg := saveMsgFrom(t, cmd)
	if msg.ssid != "Secret" || msg.bssid != testResults[2].BSSID {
		t.Errorf("got %+v", msg)
	}
}

func TestEditModel_Esc(t *testing.T) {
	var c Component = NewEditModel(nil)
	_, cmd := c.Update(keyMsg("esc"))
	if _, ok := cmd().(popViewMsg); !ok {
		t.Error("expected a popViewMsg")
	}
}
