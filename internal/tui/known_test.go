package tui

import (
	"testing"
)

func TestKnownModel_ForgetFlow(t *testing.T) {
	m := NewKnownModel([]string{"TestNetwork1", "TestNetwork2"})

	m.Update(keyMsg("f"))
	if !m.isForgetting {
		t.Fatal("isForgetting was not set to true")
	}
	if !m.IsConsumingInput() {
		t.Error("confirmation should capture input")
	}

	m.Update(keyMsg("n"))
	if m.isForgetting {
		t.Fatal("isForgetting was not cleared after pressing 'n'")
	}

	m.Update(keyMsg("f"))
	// Navigation is ignored while confirming.
	m.Update(keyMsg("j"))
	if !m.isForgetting || m.cursor != 0 {
		t.Fatal("navigation should be ignored while confirming")
	}

	_, cmd := m.Update(keyMsg("y"))
	if m.isForgetting {
		t.Fatal("isForgetting was not cleared after pressing 'y'")
	}
	msg, ok := cmd().(forgetNetworkMsg)
	if !ok {
		t.Fatal("expected a forgetNetworkMsg")
	}
	if msg.ssid != "TestNetwork1" {
		t.Errorf("forgetNetworkMsg for %q, want TestNetwork1", msg.ssid)
	}
}

func TestKnownModel_Forgotten(t *testing.T) {
	m := NewKnownModel([]string{"a", "b"})
	m.Update(keyMsg("j"))
	m.Update(forgottenMsg{ssids: []string{"b"}})

	if len(m.ssids) != 1 || m.ssids[0] != "a" {
		t.Fatalf("ssids = %v, want [a]", m.ssids)
	}
	if got, _ := m.Selected(); got != "a" {
		t.Errorf("cursor on %q, want a", got)
	}
}

func TestKnownModel_Empty(t *testing.T) {
	m := NewKnownModel(nil)
	m.Update(keyMsg("f"))
	if m.isForgetting {
		t.Error("nothing to forget")
	}
}
