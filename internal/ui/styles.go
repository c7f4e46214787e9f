package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yukitake212/first-hackathon-product/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for periods
	ColorBlue      = lipgloss.Color("75")  // Blue for tips

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Task rendering
	StyleBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(ColorCyan).
			Padding(0, 1)
	StyleDone    = lipgloss.NewStyle().Foreground(ColorSecondary).Strikethrough(true)
	StyleOverdue = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleDueSoon = lipgloss.NewStyle().Foreground(ColorWarning)

	// Selection lists
	StyleSelectTitle  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	StyleSelectActive = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSelectNormal = lipgloss.NewStyle().Foreground(ColorText)
	StyleSelectDim    = lipgloss.NewStyle().Foreground(ColorSecondary)

	StyleTipBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlue).
			Padding(0, 1)
)

// PriorityStyle colors a priority label.
func PriorityStyle(p models.TaskPriority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Foreground(ColorError)
	case models.PriorityLow:
		return lipgloss.NewStyle().Foreground(ColorSecondary)
	default:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
