// Package ui holds the terminal calculator's lipgloss styles.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	DisplayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1).
			Width(24).
			Align(lipgloss.Right)
)

// Display renders the calculator display box, red while it shows an error.
func Display(text string, failed bool) string {
	if failed {
		return DisplayStyle.BorderForeground(lipgloss.Color("1")).Render(ErrorStyle.Render(text))
	}
	return DisplayStyle.Render(text)
}
