package tui

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// themeColor is a color in a theme file: either "#RRGGBB" or a
// ["light", "dark"] pair.
type themeColor struct {
	color lipgloss.TerminalColor
	light string
	dark  string
}

func (c *themeColor) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		c.color = lipgloss.Color(v)
		c.light, c.dark = v, v
	case []any:
		if len(v) != 2 {
			return fmt.Errorf("color pair must have 2 entries, got %d", len(v))
		}
		light, ok1 := v[0].(string)
		dark, ok2 := v[1].(string)
		if !ok1 || !ok2 {
			return fmt.Errorf("color pair must be strings")
		}
		c.color = lipgloss.AdaptiveColor{Light: light, Dark: dark}
		c.light, c.dark = light, dark
	default:
		return fmt.Errorf("unsupported color value %T", v)
	}
	return nil
}

// themeFile represents the structure of the theme TOML file. Pointers
// distinguish a missing value so users can override only some colors.
type themeFile struct {
	Primary    *themeColor
	Subtle     *themeColor
	Success    *themeColor
	Error      *themeColor
	Normal     *themeColor
	Disabled   *themeColor
	Border     *themeColor
	Saved      *themeColor
	SignalHigh *themeColor
	SignalLow  *themeColor
}

// LoadTheme reads a theme from r and applies it on top of the default
// theme. A nil reader leaves the current theme unchanged.
func LoadTheme(r io.Reader) error {
	if r == nil {
		return nil
	}

	var tf themeFile
	if _, err := toml.NewDecoder(r).Decode(&tf); err != nil {
		return fmt.Errorf("decode theme: %w", err)
	}

	theme := NewDefaultTheme()
	for _, o := range []struct {
		src *themeColor
		dst *lipgloss.TerminalColor
	}{
		{tf.Primary, &theme.Primary},
		{tf.Subtle, &theme.Subtle},
		{tf.Success, &theme.Success},
		{tf.Error, &theme.Error},
		{tf.Normal, &theme.Normal},
		{tf.Disabled, &theme.Disabled},
		{tf.Border, &theme.Border},
		{tf.Saved, &theme.Saved},
	} {
		if o.src != nil {
			*o.dst = o.src.color
		}
	}
	if tf.SignalHigh != nil {
		theme.SignalHigh = lipgloss.AdaptiveColor{Light: tf.SignalHigh.light, Dark: tf.SignalHigh.dark}
	}
	if tf.SignalLow != nil {
		theme.SignalLow = lipgloss.AdaptiveColor{Light: tf.SignalLow.light, Dark: tf.SignalLow.dark}
	}

	CurrentTheme = theme
	return nil
}
