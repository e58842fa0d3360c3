package streaks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/streaks/internal/models"
)

// ErrInvalidCount is returned when a persisted streak carries a negative count.
var ErrInvalidCount = errors.New("invalid day count")

// Row is one tracked habit: a title, the counts for every day that has one
// and the cells for the days currently visible in its window.
//
// The store is the source of truth. Cells come and go as the window moves;
// whenever a date re-enters the window its cell is seeded from the store.
type Row struct {
	timeline
	notifier
	id       string
	title    string
	store    map[models.Date]int
	owner    *Collection
	removing bool
}

// NewRow creates an empty row following w. The title is trimmed.
func NewRow(title string, w *Window) *Row {
	return newRow(strings.TrimSpace(title), w)
}

func newRow(title string, w *Window) *Row {
	r := &Row{
		id:    uuid.NewString(),
		title: title,
		store: make(map[models.Date]int),
	}
	r.timeline = newTimeline(w, r.makeCell, r.seed)
	r.rebuild(w.Dates())
	return r
}

// RowFromStreak rebuilds a row from its persisted form. The title is kept
// as stored. Zero counts are dropped; negative counts are rejected.
func RowFromStreak(s models.Streak, w *Window) (*Row, error) {
	r := newRow(s.Title, w)
	for d, count := range s.Days {
		if count < 0 {
			return nil, fmt.Errorf("%w: %s has count %d in %q", ErrInvalidCount, d, count, s.Title)
		}
		r.put(d, count)
	}
	for _, c := range r.cells {
		r.seed(c)
	}
	return r, nil
}

func (r *Row) makeCell(date models.Date) *Cell {
	c := NewCell(date, r.store[date])
	c.OnUpdate(r.cellUpdated)
	return c
}

func (r *Row) seed(c *Cell) {
	c.count = r.store[c.date]
}

func (r *Row) put(date models.Date, count int) {
	if count > 0 {
		r.store[date] = count
	} else {
		delete(r.store, date)
	}
}

func (r *Row) cellUpdated(e CellUpdated) {
	r.put(e.Date, e.Count)
	e.Row = r
	r.emit(e)
	r.emit(RowChanged{Row: r})
}

// ID identifies the row for the lifetime of the process. It is not persisted.
func (r *Row) ID() string { return r.id }

func (r *Row) Title() string { return r.title }

// SetTitle renames the row. Blank titles are ignored and report false, as
// does setting the title it already has.
func (r *Row) SetTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" || title == r.title {
		return false
	}
	r.title = title
	r.emit(RowChanged{Row: r})
	return true
}

// Count returns the count recorded for date.
func (r *Row) Count(date models.Date) int {
	return r.store[date]
}

// Adjust changes the count for date by delta. Visible dates go through
// their cell; dates outside the window are written to the store directly.
func (r *Row) Adjust(date models.Date, delta int) {
	if c := r.CellAt(date); c != nil {
		c.Adjust(delta)
		return
	}
	r.cellUpdated(CellUpdated{Date: date, Count: max(0, r.store[date]+delta)})
}

// Days returns every recorded day in chronological order.
func (r *Row) Days() []models.DayCount {
	return r.Serialize().SortedDays()
}

// Total returns the sum of all recorded counts.
func (r *Row) Total() int {
	total := 0
	for _, c := range r.store {
		total += c
	}
	return total
}

// Serialize returns the persisted form of the row.
func (r *Row) Serialize() models.Streak {
	days := make(map[models.Date]int, len(r.store))
	for d, c := range r.store {
		days[d] = c
	}
	return models.Streak{Title: r.title, Days: days}
}

// Removing reports whether the row is on its way out of its collection.
func (r *Row) Removing() bool { return r.removing }

// Collection returns the collection the row belongs to, or nil.
func (r *Row) Collection() *Collection { return r.owner }

// IsFirst reports whether the row is at the top of its collection.
func (r *Row) IsFirst() bool {
	return r.owner != nil && r.owner.Len() > 0 && r.owner.rows[0] == r
}

// IsLast reports whether the row is at the bottom of its collection.
func (r *Row) IsLast() bool {
	return r.owner != nil && r.owner.Len() > 0 && r.owner.rows[r.owner.Len()-1] == r
}

// StealFocus moves the collection's focus to this row, keeping the column
// that was focused in from. Without a focused column the last day is used.
func (r *Row) StealFocus(from *Row) error {
	if r.owner == nil {
		return fmt.Errorf("%w: streak %q has no collection", ErrNotFound, r.title)
	}
	column := len(r.cells) - 1
	if from != nil && r.owner.focusRow == from {
		column = r.owner.focusCol
	}
	return r.owner.Focus(r, column)
}
