package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# World Development Indicators

## Navigation

| Key | Action |
|-----|--------|
| ` + "`tab` / `shift+tab`" + ` | Next / previous tab |
| ` + "`1`-`4`" + ` | Geo, Scatter, Taxonomy, Trajectory |
| ` + "`q` / `ctrl+c`" + ` | Quit |
| ` + "`?`" + ` | Toggle this help |

## Geo

| Key | Action |
|-----|--------|
| ` + "`i`" + ` | Choose the indicator |
| ` + "`←` / `→`" + ` | Previous / next year |
| ` + "`[` / `]`" + ` | Jump ten years |

## Scatter

| Key | Action |
|-----|--------|
| ` + "`f`" + ` | Choose X, Y and year |
| ` + "`←` / `→`" + ` | Previous / next year |

## Taxonomy

| Key | Action |
|-----|--------|
| ` + "`↑` / `↓`" + ` | Scroll |

## Trajectory

| Key | Action |
|-----|--------|
| ` + "`space`" + ` | Play / pause |
| ` + "`←` / `→`" + ` | Step one frame |

## Anywhere

| Key | Action |
|-----|--------|
| ` + "`y`" + ` | Copy the current figure as Plotly JSON |
| ` + "`e`" + ` | Export the current figures as SVG |
`

// renderHelp renders the key reference for the theme's background. Falls
// back to the raw markdown if glamour cannot render it.
func renderHelp(theme Theme, width int) string {
	opt := glamour.WithAutoStyle()
	switch theme.Name {
	case "dark":
		opt = glamour.WithStandardStyle("dark")
	case "light":
		opt = glamour.WithStandardStyle("light")
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n ")
}
