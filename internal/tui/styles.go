package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dirStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2)
	errorTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	barHighStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	barMidStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	barLowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)
