package streaks

import "github.com/julianstephens/streaks/internal/models"

// DayFactory builds the cell shown for a date when a timeline materializes it.
type DayFactory func(date models.Date) *Cell

// timeline keeps one cell per date of a window, in order.
type timeline struct {
	window  *Window
	cells   []*Cell
	makeDay DayFactory
	// reseed refreshes a reused cell after its date was shifted
	reseed func(*Cell)
}

func newTimeline(w *Window, makeDay DayFactory, reseed func(*Cell)) timeline {
	return timeline{window: w, makeDay: makeDay, reseed: reseed}
}

// Window returns the window the timeline follows.
func (t *timeline) Window() *Window {
	return t.window
}

// Reconcile brings the cells in line with dates. When dates is the current
// run shifted by a constant number of days the existing cells are moved and
// reseeded in place; any other change rebuilds every cell.
func (t *timeline) Reconcile(dates []models.Date) {
	if delta, ok := t.offset(dates); ok {
		for _, c := range t.cells {
			c.date = c.date.AddDays(delta)
			if t.reseed != nil {
				t.reseed(c)
			}
		}
		return
	}
	t.rebuild(dates)
}

func (t *timeline) offset(dates []models.Date) (int, bool) {
	if len(dates) == 0 || len(dates) != len(t.cells) {
		return 0, false
	}
	delta := dates[0].DaysSince(t.cells[0].date)
	for i, c := range t.cells {
		if !c.date.AddDays(delta).Equal(dates[i]) {
			return 0, false
		}
	}
	return delta, true
}

func (t *timeline) rebuild(dates []models.Date) {
	t.cells = make([]*Cell, len(dates))
	for i, d := range dates {
		t.cells[i] = t.makeDay(d)
	}
}

// Cells returns the materialized cells in chronological order.
func (t *timeline) Cells() []*Cell {
	cells := make([]*Cell, len(t.cells))
	copy(cells, t.cells)
	return cells
}

// Cell returns the cell at column i, or nil.
func (t *timeline) Cell(i int) *Cell {
	if i < 0 || i >= len(t.cells) {
		return nil
	}
	return t.cells[i]
}

// CellAt returns the cell for date, or nil when date is not materialized.
func (t *timeline) CellAt(date models.Date) *Cell {
	for _, c := range t.cells {
		if c.date.Equal(date) {
			return c
		}
	}
	return nil
}

// Column returns the position of c in the timeline, or -1.
func (t *timeline) Column(c *Cell) int {
	for i, cell := range t.cells {
		if cell == c {
			return i
		}
	}
	return -1
}
