// Package tui provides the plantcare garden dashboard.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
)

// Color palette for the dashboard.
var (
	ColorPrimary = lipgloss.Color("#15803D") // Leaf green
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorSuccess = lipgloss.Color("#22C55E")
	ColorActive  = lipgloss.Color("#3B82F6")
	ColorBorder  = lipgloss.Color("#4B5563")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleSpecies = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorMuted)

	// StyleSelected marks the highlighted row.
	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	StyleStreak = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles.
var (
	StyleListBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleDetailBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	// StyleThirstyBox frames the detail of a plant that is due.
	StyleThirstyBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 2)
)

// HealthBar renders a bar coloured by health band.
func HealthBar(health float64, width int) string {
	color := output.BandColor(model.HealthBandOf(health))
	return lipgloss.NewStyle().Foreground(color).Render(output.HealthBar(health, width))
}
