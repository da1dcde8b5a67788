package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - asitop-inspired lime green theme
// Single accent color for professional, distinctive look
const (
	ColorLime     = "154" // Primary accent (#AFFF00) - bright lime green
	ColorLimeDim  = "106" // Dimmed lime for inactive/borders
	ColorWhite    = "255" // Headers, important text
	ColorGray     = "245" // Secondary text, labels
	ColorDarkGray = "238" // Box borders, separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
)

// Styles holds all UI styles for the browse TUI.
type Styles struct {
	Header     lipgloss.Style
	Breadcrumb lipgloss.Style
	Reference  lipgloss.Style
	VerseNum   lipgloss.Style
	Dim        lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
	Panel      lipgloss.Style
	SearchBox  lipgloss.Style
}

// DefaultStyles returns styled components for TUI mode.
// Uses asitop-inspired lime green palette.
func DefaultStyles() Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Breadcrumb: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Reference:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		VerseNum:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
		SearchBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorLimeDim)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain terminals.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:     plain,
		Breadcrumb: plain,
		Reference:  plain,
		VerseNum:   plain,
		Dim:        plain,
		Error:      plain,
		Help:       plain,
		Panel:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		SearchBox:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}
