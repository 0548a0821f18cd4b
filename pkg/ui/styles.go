package ui

import "github.com/charmbracelet/lipgloss"

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Layout limits.
const (
	// MinWidth is the narrowest terminal the shell lays panels out for.
	MinWidth = 60
	// LabelWidth caps country and indicator labels in bar rows.
	LabelWidth = 22
	// MaxBarWidth caps the length of text bars.
	MaxBarWidth = 48
	// MaxScatterRows caps the rows listed on the scatter tab.
	MaxScatterRows = 25
)

var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
)
