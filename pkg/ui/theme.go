package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and ANSI white
// (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme is the set of styles the shell draws with.
type Theme struct {
	Renderer *lipgloss.Renderer
	Name     string // auto, dark or light

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Header    lipgloss.Style
	Box       lipgloss.Style // headline boxes
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Panel     lipgloss.Style
	Label     lipgloss.Style
	MutedText lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
}

// DefaultTheme returns the adaptive dashboard theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,
		Name:     "auto",

		Primary:   lipgloss.AdaptiveColor{Light: "#1F6E8C", Dark: "#8BE9FD"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Success:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)
	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.Box = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Primary).
		Bold(true).
		Padding(0, SpaceSM)
	t.Tab = r.NewStyle().Foreground(t.Subtext).Padding(0, SpaceXS)
	t.ActiveTab = r.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Underline(true).
		Padding(0, SpaceXS)
	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, SpaceXS)
	t.Label = r.NewStyle().Foreground(t.Secondary).Bold(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.Status = r.NewStyle().Foreground(t.Success)
	t.Error = r.NewStyle().Foreground(t.Danger).Bold(true)
	return t
}

// NewTheme builds the theme named in the config. "dark" and "light" force the
// terminal background; anything else lets lipgloss detect it.
func NewTheme(name string, r *lipgloss.Renderer) Theme {
	switch strings.ToLower(name) {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	default:
		name = "auto"
	}
	t := DefaultTheme(r)
	t.Name = strings.ToLower(name)
	return t
}

// Swatch renders a block in a country color.
func (t Theme) Swatch(hex string) string {
	return t.Renderer.NewStyle().Foreground(ThemeFg(hex)).Render("█")
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
