// Package timeline renders a streak collection as a grid: a date ruler
// followed by one line of day cells per streak.
package timeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streaks/internal/streaks"
)

const (
	titleWidth = 20
	cellWidth  = 6
	// header lines above the first row
	headerLines = 2
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(titleWidth)

	focusedTitleStyle = titleStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	removingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(cellWidth).
			Align(lipgloss.Center)

	focusedDateStyle = dateStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	emptyCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Width(cellWidth).
			Align(lipgloss.Center)

	doneCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true).
			Width(cellWidth).
			Align(lipgloss.Center)

	focusedCellStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Bold(true).
				Width(cellWidth).
				Align(lipgloss.Center)
)

type Model struct {
	viewport viewport.Model
	col      *streaks.Collection
	width    int
	height   int
}

func New(col *streaks.Collection, width, height int) Model {
	m := Model{
		viewport: viewport.New(width, height),
		col:      col,
	}
	m.Render()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// Render redraws the grid and scrolls the focused row into view.
func (m *Model) Render() {
	if m.col == nil || m.col.Len() == 0 {
		m.viewport.SetContent("No streaks yet. Press 'a' to add one.")
		return
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	for _, row := range m.col.Rows() {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.scrollToFocus()
}

func (m *Model) renderHeader() string {
	focusCol := -1
	if m.col.FocusedRow() != nil {
		focusCol = m.col.FocusedColumn()
	}

	var weekdays, dates strings.Builder
	weekdays.WriteString(strings.Repeat(" ", titleWidth))
	dates.WriteString(strings.Repeat(" ", titleWidth))
	for i, day := range m.col.Header().Dates() {
		style := dateStyle
		if i == focusCol {
			style = focusedDateStyle
		}
		weekdays.WriteString(style.Render(day.Weekday().String()[:3]))
		dates.WriteString(style.Render(day.Format("01/02")))
	}
	return weekdays.String() + "\n" + dates.String() + "\n"
}

func (m *Model) renderRow(row *streaks.Row) string {
	focused := row == m.col.FocusedRow()

	var b strings.Builder
	title := truncate(row.Title(), titleWidth-1)
	switch {
	case row.Removing():
		b.WriteString(titleStyle.Render(removingStyle.Render(title)))
	case focused:
		b.WriteString(focusedTitleStyle.Render(title))
	default:
		b.WriteString(titleStyle.Render(title))
	}

	for i, cell := range row.Cells() {
		style := emptyCellStyle
		if cell.Count() > 0 {
			style = doneCellStyle
		}
		if focused && i == m.col.FocusedColumn() {
			style = focusedCellStyle
		}
		b.WriteString(style.Render(Marker(cell.Count())))
	}
	return b.String()
}

func (m *Model) scrollToFocus() {
	row := m.col.FocusedRow()
	if row == nil || m.viewport.Height <= 0 {
		return
	}
	i, err := m.col.IndexOf(row)
	if err != nil {
		return
	}
	line := headerLines + i
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// Marker is the single-character form of a day count.
func Marker(count int) string {
	switch {
	case count <= 0:
		return "·"
	case count > 9:
		return "+"
	default:
		return fmt.Sprint(count)
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
