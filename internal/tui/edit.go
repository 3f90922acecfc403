package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wifimgr/wifimgr/wifi"
)

// minPSKLength is the shortest passphrase WPA accepts.
const minPSKLength = 8

// EditModel collects the passphrase for a network, and its SSID when the
// network is new or hidden.
type EditModel struct {
	item       networkItem
	ssidInput  *textinput.Model
	password   textinput.Model
	focus      int
	revealed   bool
	validation string
}

// NewEditModel creates the form. A nil item adds a network by name.
func NewEditModel(item *networkItem) *EditModel {
	m := &EditModel{}
	if item != nil {
		m.item = *item
	}

	if m.item.SSID == "" {
		ti := textinput.New()
		ti.Placeholder = "network name"
		ti.CharLimit = 32
		ti.Width = 32
		m.ssidInput = &ti
	}

	m.password = textinput.New()
	m.password.Placeholder = "passphrase"
	m.password.CharLimit = 63
	m.password.Width = 45
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'

	m.setFocus(0)
	return m
}

func (m *EditModel) Init() tea.Cmd { return textinput.Blink }

func (m *EditModel) Resize(width, height int) {}

// IsConsumingInput is always true: every key goes to a text field.
func (m *EditModel) IsConsumingInput() bool { return true }

// needsPassword is false for open networks picked from the scan.
func (m *EditModel) needsPassword() bool {
	return m.item.BSSID == "" || m.item.AuthMode != wifi.AuthOpen
}

func (m *EditModel) fields() []*textinput.Model {
	var fields []*textinput.Model
	if m.ssidInput != nil {
		fields = append(fields, m.ssidInput)
	}
	if m.needsPassword() {
		fields = append(fields, &m.password)
	}
	return fields
}

func (m *EditModel) setFocus(i int) {
	fields := m.fields()
	if len(fields) == 0 {
		m.focus = 0
		return
	}
	m.focus = (i + len(fields)) % len(fields)
	for j, f := range fields {
		if j == m.focus {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

// SSID returns the network name the form will save.
func (m *EditModel) SSID() string {
	if m.ssidInput != nil {
		return strings.TrimSpace(m.ssidInput.Value())
	}
	return m.item.SSID
}

func (m *EditModel) validate() string {
	if m.ssidInput != nil && m.SSID() == "" {
		return "Network name is required"
	}
	pw := m.password.Value()
	if pw != "" && utf8.RuneCountInString(pw) < minPSKLength {
		return fmt.Sprintf("Passphrase must be at least %d characters", minPSKLength)
	}
	if m.item.BSSID != "" && m.item.AuthMode.IsSecure() && pw == "" {
		return "Passphrase is required"
	}
	return ""
}

func (m *EditModel) submit() tea.Cmd {
	if m.validation = m.validate(); m.validation != "" {
		return nil
	}
	msg := saveNetworkMsg{
		bssid: m.item.BSSID,
		ssid:  m.SSID(),
	}
	if m.needsPassword() {
		msg.password = m.password.Value()
	}
	return func() tea.Msg { return msg }
}

func (m *EditModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, popView
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "ctrl+r":
			m.revealed = !m.revealed
			if m.revealed {
				m.password.EchoMode = textinput.EchoNormal
			} else {
				m.password.EchoMode = textinput.EchoPassword
			}
			return m, nil
		case "enter":
			if m.focus < len(m.fields())-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m, m.submit()
		}
	}

	fields := m.fields()
	if len(fields) == 0 {
		return m, nil
	}
	m.validation = ""
	var cmd tea.Cmd
	f := fields[m.focus]
	*f, cmd = f.Update(msg)
	return m, cmd
}

func (m *EditModel) View() string {
	var b strings.Builder
	title := "Add network"
	if m.item.SSID != "" {
		title = fmt.Sprintf("Join %s", m.item.SSID)
	} else if m.item.BSSID != "" {
		title = fmt.Sprintf("Join hidden network %s", m.item.BSSID)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render(title))
	b.WriteString("\n\n")

	if m.item.BSSID != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render(
			fmt.Sprintf("%s  channel %d  %s", m.item.BSSID, m.item.Channel, m.item.AuthMode)))
		b.WriteString("\n\n")
	}
	if m.ssidInput != nil {
		b.WriteString("SSID:       " + m.ssidInput.View() + "\n")
	}
	if m.needsPassword() {
		b.WriteString("Passphrase: " + m.password.View() + "\n")
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("Open network, no passphrase needed") + "\n")
	}

	if m.validation != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.validation) + "\n")
	}
	b.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("enter save • tab next • ctrl+r reveal • esc cancel"))

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border).Padding(1, 2)
	return lipgloss.NewStyle().Margin(1, 2).Render(box.Render(b.String()))
}
