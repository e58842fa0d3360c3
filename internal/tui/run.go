package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streaks/internal/streaks"
)

// Run shows the timeline screen until the user quits.
func Run(col *streaks.Collection, banner string) error {
	p := tea.NewProgram(NewModel(col, banner), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
