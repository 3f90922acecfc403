package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wifimgr/wifimgr/internal/accesspoint"
)

// AccessPointModel shows how to join the configuration access point,
// including a QR code a phone camera can read.
type AccessPointModel struct {
	info accesspoint.Info
	qr   string
	err  error
}

func NewAccessPointModel(info accesspoint.Info) *AccessPointModel {
	qr, err := info.QRCode()
	return &AccessPointModel{info: info, qr: qr, err: err}
}

func (m *AccessPointModel) Init() tea.Cmd            { return nil }
func (m *AccessPointModel) Resize(width, height int) {}
func (m *AccessPointModel) IsConsumingInput() bool   { return false }

func (m *AccessPointModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, popView
	}
	return m, nil
}

func (m *AccessPointModel) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("Configuration access point"))
	b.WriteString("\n\n")
	b.WriteString(accessPointSummary(m.info))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(fmt.Sprintf("QR code unavailable: %s", m.err)))
	} else {
		b.WriteString(m.qr)
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

// accessPointSummary is the one-line header shown while the access point
// is up.
func accessPointSummary(info accesspoint.Info) string {
	parts := []string{fmt.Sprintf("AP %s", info.SSID)}
	if info.Password != "" {
		parts = append(parts, "password "+info.Password)
	} else {
		parts = append(parts, "open")
	}
	parts = append(parts, fmt.Sprintf("channel %d", info.Channel))
	if ip := info.Interface.IP; ip != "" && ip != "0.0.0.0" {
		parts = append(parts, "ip "+ip)
	}
	return strings.Join(parts, " · ")
}
