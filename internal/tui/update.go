package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streaks/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// title bar, status line, help and margins
		m.grid.SetSize(msg.Width-4, max(1, msg.Height-8))
		return m, nil
	}

	switch m.state {
	case StateAddStreak, StateRename:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Up):
		m.col.FocusUp()
	case key.Matches(keyMsg, m.keys.Down):
		m.col.FocusDown()
	case key.Matches(keyMsg, m.keys.Left):
		m.col.FocusLeft()
	case key.Matches(keyMsg, m.keys.Right):
		m.col.FocusRight()
	case key.Matches(keyMsg, m.keys.PanLeft):
		m.col.Pan(-1)
	case key.Matches(keyMsg, m.keys.PanRight):
		m.col.Pan(1)
	case key.Matches(keyMsg, m.keys.ZoomIn):
		m.col.Zoom(-1)
	case key.Matches(keyMsg, m.keys.ZoomOut):
		m.col.Zoom(1)
	case key.Matches(keyMsg, m.keys.Increase):
		m.adjust(1)
	case key.Matches(keyMsg, m.keys.Decrease):
		m.adjust(-1)
	case key.Matches(keyMsg, m.keys.MoveUp):
		if row := m.col.FocusedRow(); row != nil {
			_ = m.col.MoveUp(row)
		}
	case key.Matches(keyMsg, m.keys.MoveDown):
		if row := m.col.FocusedRow(); row != nil {
			_ = m.col.MoveDown(row)
		}
	case key.Matches(keyMsg, m.keys.Add):
		m.state = StateAddStreak
		cmd = m.newTitleForm("New streak", "")
	case key.Matches(keyMsg, m.keys.Edit):
		if row := m.col.FocusedRow(); row != nil {
			m.editingID = row.ID()
			m.state = StateRename
			cmd = m.newTitleForm("Rename streak", row.Title())
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if row := m.col.FocusedRow(); row != nil {
			if err := m.col.BeginRemove(row); err == nil {
				m.deletingID = row.ID()
				m.state = StateConfirmDelete
			}
		}
	}

	m.grid.Render()
	return m, cmd
}

func (m *Model) adjust(delta int) {
	if m.col.AdjustFocused(delta) {
		m.banner = ""
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateBrowse
		m.grid.Render()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitTitle()
		return m, nil
	case huh.StateAborted:
		m.state = StateBrowse
		m.grid.Render()
		return m, nil
	}
	return m, cmd
}

// submitTitle applies the form's title to a new or renamed streak. An
// empty title cancels.
func (m *Model) submitTitle() {
	title := m.titleForm.Title
	switch m.state {
	case StateAddStreak:
		if row, ok := m.col.AddStreak(title); ok {
			_ = m.col.Focus(row, m.col.Window().Span()-1)
			m.banner = ""
			logger.Debug("Added streak", "id", row.ID())
		}
	case StateRename:
		if row := m.col.Find(m.editingID); row != nil {
			if _, err := m.col.Rename(row, title); err != nil {
				logger.Warn("Rename failed", "error", err)
			}
		}
		m.editingID = ""
	}
	m.state = StateBrowse
	m.grid.Render()
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	row := m.col.Find(m.deletingID)
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if row != nil {
			if err := m.col.Remove(row); err != nil {
				logger.Warn("Remove failed", "error", err)
			}
		}
	case key.Matches(keyMsg, m.keys.Cancel):
		if row != nil {
			_ = m.col.CancelRemove(row)
		}
	default:
		return m, nil
	}

	m.deletingID = ""
	m.state = StateBrowse
	m.grid.Render()
	return m, nil
}
