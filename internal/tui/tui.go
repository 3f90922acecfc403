package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wifimgr/wifimgr/internal/accesspoint"
	wifilog "github.com/wifimgr/wifimgr/internal/log"
	"github.com/wifimgr/wifimgr/internal/manager"
)

type (
	statusMsg          string
	showAccessPointMsg struct{}
)

func statusCmd(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

// model is the root of the configuration screen.
type model struct {
	stack    *ComponentStack
	list     *ListModel
	scanner  *ScanSchedule
	networks Networks
	ap       *accesspoint.Info

	spinner       spinner.Model
	loading       bool
	statusMessage string
	saved         bool
	width, height int
}

// NewModel creates the starting state over networks. ap is shown in the
// header when not nil.
func NewModel(networks Networks, ap *accesspoint.Info) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	scanner := NewScanSchedule(loadScan(networks))
	list := NewListModel(scanner)

	return &model{
		stack:         NewComponentStack(list),
		list:          list,
		scanner:       scanner,
		networks:      networks,
		ap:            ap,
		spinner:       s,
		loading:       true,
		statusMessage: "Waiting for scan results...",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.list.Init())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.stack.Resize(msg.Width, msg.Height)
		return m, nil
	case popViewMsg:
		return m, m.stack.Pop()
	case pushViewMsg:
		msg.c.Resize(m.width, m.height)
		return m, m.stack.Push(msg.c)
	case errorMsg:
		m.loading = false
		m.statusMessage = ""
		return m, m.stack.Push(NewErrorModel(msg.err))
	case statusMsg:
		m.statusMessage = string(msg)
		return m, nil
	case refreshTickMsg:
		return m, m.scanner.Update(msg)
	case scanMsg:
		m.loading = true
		m.statusMessage = "Reading scan results..."
		return m, loadScan(m.networks)
	case scanLoadedMsg:
		if m.loading {
			m.loading = false
			m.statusMessage = ""
		}
		// The list may not be on top; it still needs fresh results.
		_, cmd := m.list.Update(msg)
		return m, cmd
	case saveNetworkMsg:
		m.loading = true
		m.statusMessage = fmt.Sprintf("Saving '%s'...", msg.ssid)
		return m, saveNetwork(m.networks, msg)
	case savedMsg:
		m.loading = false
		m.saved = true
		m.statusMessage = fmt.Sprintf("Saved '%s'. Press q to connect.", msg.ssid)
		return m, tea.Batch(m.stack.Pop(), loadScan(m.networks))
	case forgetNetworkMsg:
		m.loading = true
		m.statusMessage = fmt.Sprintf("Forgetting '%s'...", msg.ssid)
		return m, forgetNetwork(m.networks, msg.ssid)
	case forgottenMsg:
		m.loading = false
		m.statusMessage = fmt.Sprintf("Forgot %s.", strings.Join(msg.ssids, ", "))
		cmds = append(cmds, loadScan(m.networks))
	case showAccessPointMsg:
		if m.ap == nil {
			m.statusMessage = "No access point is running."
			return m, nil
		}
		return m, m.stack.Push(NewAccessPointModel(*m.ap))
	case wifilog.LogMsg:
		// A new record only needs a redraw.
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmds = append(cmds, m.stack.Update(msg))

	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)
	cmds = append(cmds, spinnerCmd)

	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	var s strings.Builder

	if m.ap != nil {
		header := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Margin(0, 2).Render(accessPointSummary(*m.ap))
		s.WriteString(header)
		s.WriteString("\n")
	}

	s.WriteString(m.stack.View())

	if m.loading {
		s.WriteString(fmt.Sprintf("\n  %s %s", m.spinner.View(), lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.statusMessage)))
	} else if m.statusMessage != "" {
		s.WriteString(fmt.Sprintf("\n  %s", lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.statusMessage)))
	}

	return s.String()
}

// Surface runs the configuration screen. It implements manager.Surface.
type Surface struct {
	opts  []tea.ProgramOption
	saved bool
}

// NewSurface returns a Surface. opts are passed to tea.NewProgram after
// the defaults.
func NewSurface(opts ...tea.ProgramOption) *Surface {
	return &Surface{opts: opts}
}

// Saved reports whether the last Serve saved a network.
func (s *Surface) Saved() bool { return s.saved }

// Serve shows the screen until the user quits or ctx is done.
func (s *Surface) Serve(ctx context.Context, mgr *manager.Manager) error {
	var ap *accesspoint.Info
	if info, ok := mgr.AccessPoint(); ok {
		ap = &info
	}
	m := NewModel(mgr, ap)

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, s.opts...)
	p := tea.NewProgram(m, opts...)

	logs := make(chan tea.Msg, 16)
	wifilog.SetOutput(logs)
	defer wifilog.SetOutput(nil)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case msg := <-logs:
				p.Send(msg)
			case <-done:
				return
			}
		}
	}()

	_, err := p.Run()
	s.saved = m.saved
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

var _ manager.Surface = (*Surface)(nil)
