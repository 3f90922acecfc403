package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestScanSchedule(t *testing.T) {
	s := NewScanSchedule(func() tea.Msg { return scanMsg{} })

	if cmd := s.Update(refreshTickMsg{}); cmd != nil {
		t.Fatal("a stopped schedule should ignore ticks")
	}

	if cmd := s.SetSchedule(RefreshFast); cmd == nil {
		t.Fatal("starting should refresh and tick")
	}
	if cmd := s.SetSchedule(RefreshFast); cmd != nil {
		t.Error("setting the same interval should be a no-op")
	}

	stale := refreshTickMsg{gen: s.gen - 1}
	if cmd := s.Update(stale); cmd != nil {
		t.Error("ticks from an earlier schedule should be dropped")
	}
	if cmd := s.Update(refreshTickMsg{gen: s.gen}); cmd == nil {
		t.Error("current ticks should refresh")
	}

	enabled, _ := s.Toggle()
	if enabled || s.Interval() != RefreshOff {
		t.Errorf("Toggle from fast: enabled=%v interval=%v", enabled, s.Interval())
	}
	enabled, cmd := s.Toggle()
	if !enabled || cmd == nil {
		t.Error("Toggle from off should restart")
	}
}
