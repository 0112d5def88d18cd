package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/BuzzLyutic/taskchat/internal/model"
)

var (
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorRed       = lipgloss.Color("160")
	ColorYellow    = lipgloss.Color("214")
	ColorGreen     = lipgloss.Color("42")
	ColorBlue      = lipgloss.Color("75")
	ColorText      = lipgloss.Color("252")

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StylePane = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	StyleFocusedPane = StylePane.
				BorderForeground(ColorPrimary)

	StyleSubtle   = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleText     = lipgloss.NewStyle().Foreground(ColorText)
	StyleTitle    = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSelected = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleError    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleUser     = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
)

// Badge colours follow the web board: HIGH red, MEDIUM yellow, LOW green.
func PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case model.PriorityLow:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	default:
		return StyleSubtle
	}
}

func StatusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusCompleted:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.StatusInProgress:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case model.StatusArchived:
		return StyleSubtle
	default:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	}
}
