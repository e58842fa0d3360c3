package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/streaks"
)

var today = models.NewDate(2024, 1, 10)

type recordingSaver struct {
	saves [][]models.Streak
	err   error
}

func (s *recordingSaver) Save(data []models.Streak) error {
	s.saves = append(s.saves, data)
	return s.err
}

func setupModel(t *testing.T, titles ...string) (Model, *streaks.Collection, *recordingSaver) {
	t.Helper()
	col := streaks.NewCollection(streaks.NewWindow(today, 7))
	for _, title := range titles {
		if _, ok := col.AddStreak(title); !ok {
			t.Fatalf("Failed to add %q", title)
		}
	}
	saver := &recordingSaver{}
	col.SetSaver(saver)
	return NewModel(col, ""), col, saver
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Expected Model from Update, got %T", next)
		}
	}
	return m
}

func TestNewModel_FocusesLastDayOfFirstRow(t *testing.T) {
	_, col, _ := setupModel(t, "Read", "Walk")

	if col.FocusedRow() != col.At(0) {
		t.Errorf("Expected first row focused")
	}
	if day, _ := col.FocusedDate(); !day.Equal(today) {
		t.Errorf("Expected focus on %s, got %s", today, day)
	}
}

func TestUpdate_AdjustFocusedDay(t *testing.T) {
	m, col, saver := setupModel(t, "Read")

	m = press(t, m, runes("="), runes("="), runes("-"))

	if got := col.At(0).Count(today); got != 1 {
		t.Errorf("Expected count 1, got %d", got)
	}
	if len(saver.saves) != 3 {
		t.Errorf("Expected 3 saves, got %d", len(saver.saves))
	}
	if !strings.Contains(m.View(), "Read · 2024-01-10: 1") {
		t.Errorf("Expected status line for focused cell, got:\n%s", m.View())
	}
}

func TestUpdate_Navigation(t *testing.T) {
	m, col, _ := setupModel(t, "Read", "Walk")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if col.FocusedRow() != col.At(1) {
		t.Fatalf("Expected second row focused after down")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if col.FocusedRow() != col.At(0) {
		t.Fatalf("Expected focus to wrap to first row")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if day, _ := col.FocusedDate(); !day.Equal(today.AddDays(-1)) {
		t.Errorf("Expected focus on %s, got %s", today.AddDays(-1), day)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	if !col.Window().End().Equal(today.AddDays(1)) {
		t.Errorf("Expected window to pan to %s, got %s", today.AddDays(1), col.Window().End())
	}
}

func TestUpdate_PanAndZoom(t *testing.T) {
	m, col, _ := setupModel(t, "Read")

	m = press(t, m, runes(","), runes(","))
	if !col.Window().End().Equal(today.AddDays(-2)) {
		t.Errorf("Expected end %s, got %s", today.AddDays(-2), col.Window().End())
	}

	m = press(t, m, runes("."))
	if !col.Window().End().Equal(today.AddDays(-1)) {
		t.Errorf("Expected end %s, got %s", today.AddDays(-1), col.Window().End())
	}

	m = press(t, m, runes("["))
	if col.Window().Span() != 6 {
		t.Errorf("Expected span 6, got %d", col.Window().Span())
	}
	press(t, m, runes("]"), runes("]"))
	if col.Window().Span() != 8 {
		t.Errorf("Expected span 8, got %d", col.Window().Span())
	}
	if len(col.At(0).Cells()) != 8 {
		t.Errorf("Expected 8 cells, got %d", len(col.At(0).Cells()))
	}
}

func TestUpdate_AddStreak(t *testing.T) {
	m, col, _ := setupModel(t, "Read")

	m = press(t, m, runes("a"))
	if m.state != StateAddStreak {
		t.Fatalf("Expected StateAddStreak, got %v", m.state)
	}

	m.titleForm.Title = "Walk"
	m.submitTitle()

	if m.state != StateBrowse {
		t.Errorf("Expected StateBrowse, got %v", m.state)
	}
	if col.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", col.Len())
	}
	if col.FocusedRow() != col.At(1) {
		t.Errorf("Expected new row focused")
	}
	if col.FocusedColumn() != 6 {
		t.Errorf("Expected focus on the last day, got column %d", col.FocusedColumn())
	}
}

func TestUpdate_AddStreakCancelled(t *testing.T) {
	m, col, saver := setupModel(t, "Read")

	m = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateBrowse {
		t.Errorf("Expected esc to return to StateBrowse, got %v", m.state)
	}

	m = press(t, m, runes("a"))
	m.titleForm.Title = "   "
	m.submitTitle()

	if col.Len() != 1 {
		t.Errorf("Expected no row added, got %d rows", col.Len())
	}
	if len(saver.saves) != 0 {
		t.Errorf("Expected no saves, got %d", len(saver.saves))
	}
}

func TestUpdate_Rename(t *testing.T) {
	m, col, _ := setupModel(t, "Read")

	m = press(t, m, runes("e"))
	if m.state != StateRename {
		t.Fatalf("Expected StateRename, got %v", m.state)
	}
	if m.titleForm.Title != "Read" {
		t.Errorf("Expected form prefilled with current title, got %q", m.titleForm.Title)
	}

	m.titleForm.Title = "Read books"
	m.submitTitle()

	if got := col.At(0).Title(); got != "Read books" {
		t.Errorf("Expected title 'Read books', got %q", got)
	}
}

func TestUpdate_DeleteConfirm(t *testing.T) {
	m, col, saver := setupModel(t, "Read", "Walk")
	row := col.At(0)

	m = press(t, m, runes("d"))
	if m.state != StateConfirmDelete {
		t.Fatalf("Expected StateConfirmDelete, got %v", m.state)
	}
	if !row.Removing() {
		t.Errorf("Expected row flagged as removing")
	}
	if !strings.Contains(m.View(), `Delete "Read"`) {
		t.Errorf("Expected confirmation prompt, got:\n%s", m.View())
	}

	m = press(t, m, runes("n"))
	if row.Removing() || col.Len() != 2 {
		t.Fatalf("Expected delete cancelled")
	}

	press(t, m, runes("d"), runes("y"))
	if col.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", col.Len())
	}
	if col.FocusedRow() != col.At(0) || col.At(0).Title() != "Walk" {
		t.Errorf("Expected focus on the remaining row")
	}
	last := saver.saves[len(saver.saves)-1]
	if len(last) != 1 || last[0].Title != "Walk" {
		t.Errorf("Expected save without deleted row, got %+v", last)
	}
}

func TestUpdate_MoveRows(t *testing.T) {
	m, col, _ := setupModel(t, "Read", "Walk")
	read := col.At(0)

	m = press(t, m, runes("J"))
	if col.At(1) != read {
		t.Fatalf("Expected Read moved down")
	}
	if col.FocusedRow() != read {
		t.Errorf("Expected focus to follow the moved row")
	}

	press(t, m, runes("K"))
	if col.At(0) != read {
		t.Errorf("Expected Read moved back up")
	}
}

func TestUpdate_SaveFailedShown(t *testing.T) {
	m, _, saver := setupModel(t, "Read")
	saver.err = errors.New("disk full")

	m = press(t, m, runes("="))
	if !strings.Contains(m.View(), "Save failed: disk full") {
		t.Errorf("Expected save failure in view, got:\n%s", m.View())
	}

	saver.err = nil
	m = press(t, m, runes("-"))
	if strings.Contains(m.View(), "Save failed") {
		t.Errorf("Expected error cleared after a good save")
	}
}

func TestUpdate_Quit(t *testing.T) {
	m, _, _ := setupModel(t, "Read")

	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if next.(Model).View() != "" {
		t.Errorf("Expected empty view after quit")
	}
}

func TestView_Banner(t *testing.T) {
	col := streaks.NewCollection(streaks.NewWindow(today, 7))
	m := NewModel(col, "Data file was unreadable")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "Data file was unreadable") {
		t.Errorf("Expected banner, got:\n%s", view)
	}
	if !strings.Contains(view, "No streaks yet") {
		t.Errorf("Expected empty grid message, got:\n%s", view)
	}
}
