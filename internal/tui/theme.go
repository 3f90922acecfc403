package tui

import "github.com/charmbracelet/lipgloss"

// Theme contains the colors and glyphs of the configuration screen.
type Theme struct {
	Primary  lipgloss.TerminalColor
	Subtle   lipgloss.TerminalColor
	Success  lipgloss.TerminalColor
	Error    lipgloss.TerminalColor
	Normal   lipgloss.TerminalColor
	Disabled lipgloss.TerminalColor
	Border   lipgloss.TerminalColor
	Saved    lipgloss.TerminalColor

	// Signal quality is drawn on a gradient between these two.
	SignalHigh lipgloss.AdaptiveColor
	SignalLow  lipgloss.AdaptiveColor

	TitleIcon         string
	NetworkSecureIcon string
	NetworkOpenIcon   string
	NetworkSavedIcon  string
}

// CurrentTheme is the active theme.
var CurrentTheme = NewDefaultTheme()

// NewDefaultTheme creates a new default theme.
func NewDefaultTheme() Theme {
	return Theme{
		Primary:  lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#D359E3"}, // Purple/Pink
		Subtle:   lipgloss.AdaptiveColor{Light: "#BDBDBD", Dark: "#616161"},
		Success:  lipgloss.AdaptiveColor{Light: "#388E3C", Dark: "#81C784"},
		Error:    lipgloss.AdaptiveColor{Light: "#D32F2F", Dark: "#E57373"},
		Normal:   lipgloss.AdaptiveColor{Light: "#212121", Dark: "#FFFFFF"},
		Disabled: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#424242"},
		Border:   lipgloss.AdaptiveColor{Light: "#BDBDBD", Dark: "#616161"},
		Saved:    lipgloss.AdaptiveColor{Light: "#0277BD", Dark: "#4FC3F7"},

		SignalHigh: lipgloss.AdaptiveColor{Light: "#00B300", Dark: "#00FF00"},
		SignalLow:  lipgloss.AdaptiveColor{Light: "#D05F00", Dark: "#BC3C00"},

		TitleIcon:         "",
		NetworkSecureIcon: "🔒 ",
		NetworkOpenIcon:   "   ",
		NetworkSavedIcon:  "★  ",
	}
}

// signalGradient returns the low and high ends of the signal gradient for
// the terminal's background.
func (t Theme) signalGradient() (low, high string) {
	if lipgloss.HasDarkBackground() {
		return t.SignalLow.Dark, t.SignalHigh.Dark
	}
	return t.SignalLow.Light, t.SignalHigh.Light
}
