package ui

import "github.com/charmbracelet/lipgloss"

// ANSI colors read well on both light and dark terminals.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	HighConfidenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	LowConfidenceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// ConfidenceStyle picks the badge color for a 0..100 confidence.
func ConfidenceStyle(confidence int) lipgloss.Style {
	switch {
	case confidence >= 80:
		return HighConfidenceStyle
	case confidence >= 50:
		return FlagStyle
	default:
		return LowConfidenceStyle
	}
}
