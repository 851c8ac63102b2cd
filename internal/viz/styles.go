package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/neuroviz/internal/colormap"
)

// Theme defines the chrome colors around the voltage swatches. The swatch
// colors themselves always come from the colormap, never the theme.
type Theme struct {
	Name   string
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:   "dark",
		Text:   lipgloss.Color("252"),
		Muted:  lipgloss.Color("240"),
		Accent: lipgloss.Color("86"),
		Warn:   lipgloss.Color("214"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Accent: lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Accent: lipgloss.Color("#0088ff"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeDark, ThemeRetro, ThemeMinimal}
)

// GetTheme returns a theme by name, defaulting to dark.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

func (t Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) label() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func (t Theme) value() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) warn() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Warn)
}

// Swatch renders a block of cells in the given truecolor hex.
func Swatch(hex string, width int) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex)).
		Render(strings.Repeat("█", width))
}

// LegendBar samples the colormap across width cells, the usual strip legend
// under a heat-mapped view.
func LegendBar(t colormap.Table, width int) string {
	if width < 2 {
		width = 2
	}
	var sb strings.Builder
	for i := 0; i < width; i++ {
		p := float64(i) / float64(width-1)
		c := colormap.Sample(t, p)
		sb.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Hex())).
			Render("█"))
	}
	return sb.String()
}

// MeterBar renders a 0..1 value as a fixed-width fill bar.
func MeterBar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
