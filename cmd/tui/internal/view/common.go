package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// HelpFooter renders the key hints shown under each screen.
func HelpFooter(hints string) string {
	return helpStyle.Render(hints + " | esc: back | q: quit")
}
