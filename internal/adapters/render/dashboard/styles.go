package dashboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	connected    lipgloss.Style
	disconnected lipgloss.Style
	counterKey   lipgloss.Style
	counterValue lipgloss.Style
	section      lipgloss.Style
	boardTitle   lipgloss.Style
	videoID      lipgloss.Style
	processing   lipgloss.Style
	success      lipgloss.Style
	failed       lipgloss.Style
	subscription lipgloss.Style
	empty        lipgloss.Style
	help         lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:        lipgloss.NewStyle().Bold(true),
		header:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		connected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		disconnected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		counterKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		counterValue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		section:      lipgloss.NewStyle().MarginTop(1),
		boardTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		videoID:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		processing:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failed:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		subscription: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:        lipgloss.NewStyle().Faint(true),
		help:         lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}
