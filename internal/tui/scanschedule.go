package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	RefreshOff  = 0
	RefreshFast = 2 * time.Second
	RefreshSlow = 8 * time.Second
)

// ScanSchedule re-reads the scan cache at a regular interval. The cache does
// the radio work; reading it is cheap.
type ScanSchedule struct {
	callback func() tea.Msg
	interval time.Duration
	// gen invalidates ticks scheduled under an earlier interval so a
	// restart does not leave two loops running.
	gen int
}

// NewScanSchedule creates a stopped ScanSchedule.
func NewScanSchedule(callback func() tea.Msg) *ScanSchedule {
	return &ScanSchedule{callback: callback}
}

// Interval returns the current refresh interval, RefreshOff when stopped.
func (s *ScanSchedule) Interval() time.Duration { return s.interval }

// Toggle switches between off and fast refresh.
func (s *ScanSchedule) Toggle() (bool, tea.Cmd) {
	if s.interval == RefreshOff {
		return true, s.SetSchedule(RefreshFast)
	}
	return false, s.SetSchedule(RefreshOff)
}

// SetSchedule sets the refresh interval. Starting from off refreshes
// immediately.
func (s *ScanSchedule) SetSchedule(interval time.Duration) tea.Cmd {
	if interval == s.interval {
		return nil
	}
	starting := s.interval == RefreshOff
	s.interval = interval
	s.gen++
	if interval == RefreshOff {
		return nil
	}
	if starting {
		return tea.Batch(s.callback, s.tick())
	}
	return s.tick()
}

// Update handles refresh ticks.
func (s *ScanSchedule) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(refreshTickMsg)
	if !ok || s.interval == RefreshOff || tick.gen != s.gen {
		return nil
	}
	return tea.Batch(s.callback, s.tick())
}

type refreshTickMsg struct{ gen int }

func (s *ScanSchedule) tick() tea.Cmd {
	gen := s.gen
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}
