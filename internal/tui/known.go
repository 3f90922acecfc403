package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// KnownModel lists the saved networks and lets the user forget them.
type KnownModel struct {
	ssids        []string
	cursor       int
	isForgetting bool
}

func NewKnownModel(ssids []string) *KnownModel {
	return &KnownModel{ssids: append([]string(nil), ssids...)}
}

func (m *KnownModel) Init() tea.Cmd            { return nil }
func (m *KnownModel) Resize(width, height int) {}
func (m *KnownModel) IsConsumingInput() bool   { return m.isForgetting }

// Selected returns the SSID under the cursor.
func (m *KnownModel) Selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.ssids) {
		return "", false
	}
	return m.ssids[m.cursor], true
}

func (m *KnownModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if m.isForgetting {
		selected, ok := m.Selected()
		if !ok {
			m.isForgetting = false
			return m, nil
		}
		finished, cmd := forgetHandler(msg, selected)
		if finished {
			m.isForgetting = false
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case forgottenMsg:
		for _, gone := range msg.ssids {
			for i, ssid := range m.ssids {
				if ssid == gone {
					m.ssids = append(m.ssids[:i], m.ssids[i+1:]...)
					break
				}
			}
		}
		m.cursor = max(0, min(m.cursor, len(m.ssids)-1))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, popView
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.ssids)-1 {
				m.cursor++
			}
		case "f", "d", "delete":
			if _, ok := m.Selected(); ok {
				m.isForgetting = true
			}
		}
	}
	return m, nil
}

func (m *KnownModel) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("Saved networks"))
	b.WriteString("\n\n")
	if len(m.ssids) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("No saved networks"))
		b.WriteString("\n")
	}
	for i, ssid := range m.ssids {
		line := "  " + lipgloss.NewStyle().Foreground(CurrentTheme.Saved).Render(ssid)
		if i == m.cursor {
			line = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render("▶ ") + lipgloss.NewStyle().Foreground(CurrentTheme.Saved).Render(ssid)
			if m.isForgetting {
				line += " " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(fmt.Sprintf("Forget %q? (Y/n)", ssid))
			}
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("f forget • esc back"))

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border).Padding(1, 2)
	return lipgloss.NewStyle().Margin(1, 2).Render(box.Render(b.String()))
}
