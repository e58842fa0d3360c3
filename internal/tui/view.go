package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streaks/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddStreak, StateRename:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.grid.View()
	}

	parts := []string{m.viewTitle()}
	if m.banner != "" {
		parts = append(parts, warningStyle.Render(m.banner))
	}
	parts = append(parts, content, m.viewStatus(), m.help.View(m))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewTitle() string {
	w := m.col.Window()
	span := fmt.Sprintf("%s to %s (%d days)",
		w.First().Format(constants.DateFormat),
		w.End().Format(constants.DateFormat),
		w.Span())
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(constants.AppName),
		rangeStyle.Render(span),
	)
}

func (m Model) viewStatus() string {
	if m.saves.err != nil {
		return dangerStyle.Render(fmt.Sprintf("⚠ Save failed: %v", m.saves.err))
	}

	row := m.col.FocusedRow()
	day, ok := m.col.FocusedDate()
	if row == nil || !ok {
		return statusStyle.Render(fmt.Sprintf("%d streaks", m.col.Len()))
	}
	return statusStyle.Render(fmt.Sprintf("%s · %s: %d (total %d)",
		row.Title(), day.Format(constants.DateFormat), row.Count(day), row.Total()))
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if row := m.col.Find(m.deletingID); row != nil {
		title = row.Title()
	}
	return lipgloss.Place(m.width, max(1, m.height-8),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its days?", title)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
