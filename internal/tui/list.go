package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/wifimgr/wifimgr/wifi"
)

const ssidColumnWidth = 30

// itemDelegate draws one scanned network per line.
type itemDelegate struct {
	list.DefaultDelegate
}

func (d itemDelegate) Height() int  { return 1 }
func (d itemDelegate) Spacing() int { return 0 }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(networkItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, listItem)
		return
	}

	icon := CurrentTheme.NetworkOpenIcon
	if i.AuthMode.IsSecure() {
		icon = CurrentTheme.NetworkSecureIcon
	}
	if i.IsKnown {
		icon = CurrentTheme.NetworkSavedIcon
	}
	title := []rune(i.Title())
	if len(title) > ssidColumnWidth {
		title = append(title[:ssidColumnWidth-1], '…')
	}
	padding := strings.Repeat(" ", ssidColumnWidth-len(title))

	var titleStyle lipgloss.Style
	switch {
	case i.Hidden:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Disabled)
	case i.IsKnown:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Saved)
	default:
		titleStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	}

	desc := lipgloss.NewStyle().Foreground(signalColor(i.Quality)).Render(i.Description())

	prefix := "  "
	if index == m.Index() {
		prefix = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render("▶ ")
	}
	fmt.Fprint(w, prefix+icon+titleStyle.Render(string(title))+padding+" "+desc)
}

// signalColor blends between the theme's low and high signal colors by
// quality percentage.
func signalColor(quality int) lipgloss.TerminalColor {
	if quality <= 0 {
		return CurrentTheme.Subtle
	}
	lowHex, highHex := CurrentTheme.signalGradient()
	low, err := colorful.Hex(lowHex)
	if err != nil {
		return CurrentTheme.Normal
	}
	high, err := colorful.Hex(highHex)
	if err != nil {
		return CurrentTheme.Normal
	}
	p := float64(min(quality, 100)) / 100.0
	return lipgloss.Color(low.BlendRgb(high, p).Hex())
}

// ListModel shows the latest scan results.
type ListModel struct {
	list    list.Model
	known   []string
	scanner *ScanSchedule
}

func NewListModel(scanner *ScanSchedule) *ListModel {
	l := list.New([]list.Item{}, itemDelegate{DefaultDelegate: list.NewDefaultDelegate()}, 0, 0)
	l.Title = fmt.Sprintf("%-33s %s", CurrentTheme.TitleIcon+"WiFi Network", "Signal")
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "join")),
			key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "hidden network")),
			key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "saved")),
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "auto refresh")),
		}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return append([]key.Binding{
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "refresh")),
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "access point")),
			key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logs")),
		}, l.AdditionalShortHelpKeys()...)
	}
	l.KeyMap.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	return &ListModel{list: l, scanner: scanner}
}

func (m *ListModel) Init() tea.Cmd {
	if m.scanner == nil {
		return nil
	}
	return m.scanner.SetSchedule(RefreshFast)
}

// IsConsumingInput reports whether the filter prompt is open.
func (m *ListModel) IsConsumingInput() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *ListModel) Resize(width, height int) {
	h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
	bh, bv := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).GetFrameSize()
	const extraVerticalSpace = 6
	m.list.SetSize(width-h-bh, height-v-bv-extraVerticalSpace)
}

// SetResults replaces the list contents, keeping the selection on the same
// BSSID when it is still present.
func (m *ListModel) SetResults(results []wifi.ScanResult, known []string) {
	m.known = known
	isKnown := make(map[string]bool, len(known))
	for _, ssid := range known {
		isKnown[ssid] = true
	}

	var selected string
	if item, ok := m.list.SelectedItem().(networkItem); ok {
		selected = item.BSSID
	}
	items := make([]list.Item, len(results))
	index := 0
	for i, r := range results {
		items[i] = networkItem{ScanResult: r, IsKnown: isKnown[r.SSID]}
		if selected != "" && r.BSSID == selected {
			index = i
		}
	}
	m.list.SetItems(items)
	m.list.Select(index)
}

func (m *ListModel) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case scanLoadedMsg:
		m.SetResults(msg.results, msg.known)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "s":
			return m, func() tea.Msg { return scanMsg{} }
		case "r":
			if m.scanner != nil {
				enabled, cmd := m.scanner.Toggle()
				state := "off"
				if enabled {
					state = "on"
				}
				return m, tea.Batch(cmd, statusCmd("Auto refresh "+state))
			}
		case "n":
			return m, pushView(NewEditModel(nil))
		case "w":
			return m, pushView(NewKnownModel(m.known))
		case "a":
			return m, func() tea.Msg { return showAccessPointMsg{} }
		case "L":
			return m, pushView(NewLogViewModel())
		case "enter":
			if selected, ok := m.list.SelectedItem().(networkItem); ok {
				return m, pushView(NewEditModel(&selected))
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *ListModel) View() string {
	var b strings.Builder
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(CurrentTheme.Border)
	help := fmt.Sprintf("\n\n %s ", m.list.Help.View(m))
	b.WriteString(border.Render(m.list.View() + help))

	b.WriteString("\n")
	if n := len(m.list.Items()); n > 0 {
		b.WriteString(fmt.Sprintf("%d/%d", m.list.Index()+1, n))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("No networks yet"))
	}
	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

func (m *ListModel) FullHelp() [][]key.Binding {
	return m.list.FullHelp()
}

func (m *ListModel) ShortHelp() []key.Binding {
	h := m.list.ShortHelp()
	// Drop up/down.
	if len(h) > 2 {
		return h[2:]
	}
	return h
}

func pushView(c Component) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{c: c} }
}
