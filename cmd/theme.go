package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// uiTheme holds the lipgloss styles used by the playground TUI.
type uiTheme struct {
	header      lipgloss.Style
	headerModel lipgloss.Style
	paneTitle   lipgloss.Style
	paneBorder  lipgloss.Style
	activePane  lipgloss.Style
	roleUser    lipgloss.Style
	roleAI      lipgloss.Style
	roleError   lipgloss.Style
	roleSystem  lipgloss.Style
	traitTag    lipgloss.Style
	statusInfo  lipgloss.Style
	statusError lipgloss.Style
	help        lipgloss.Style
}

func newTheme() uiTheme {
	accent := lipgloss.Color("62")
	subtle := lipgloss.Color("241")
	if !termenv.HasDarkBackground() {
		accent = lipgloss.Color("56")
		subtle = lipgloss.Color("245")
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(subtle).
		Padding(0, 1)

	return uiTheme{
		header:      lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		headerModel: lipgloss.NewStyle().Foreground(subtle).Padding(0, 1),
		paneTitle:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		paneBorder:  border,
		activePane:  border.BorderForeground(accent),
		roleUser:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		roleAI:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		roleError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		roleSystem:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		traitTag:    lipgloss.NewStyle().Foreground(subtle),
		statusInfo:  lipgloss.NewStyle().Foreground(subtle),
		statusError: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		help:        lipgloss.NewStyle().Foreground(subtle),
	}
}
