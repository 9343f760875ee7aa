package theme

import (
	"github.com/charmbracelet/lipgloss"

	quizdto "kokushi/internal/modules/quiz/dto"
)

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Overlay0 = lipgloss.Color("#6c7086")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Error = lipgloss.NewStyle().Foreground(Red).Bold(true)

	Correct   = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Red)
	Selected  = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	Disabled  = lipgloss.NewStyle().Foreground(Overlay0)

	clockNeutral = lipgloss.NewStyle().Foreground(Text).Bold(true)
	clockWarning = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	clockUrgent  = lipgloss.NewStyle().Foreground(Red).Bold(true).Blink(true)
)

// Clock returns the style for a countdown band.
func Clock(band quizdto.Band) lipgloss.Style {
	switch band {
	case quizdto.BandWarning:
		return clockWarning
	case quizdto.BandUrgent:
		return clockUrgent
	default:
		return clockNeutral
	}
}
