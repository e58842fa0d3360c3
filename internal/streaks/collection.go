package streaks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
)

// ErrNotFound is returned when a row is not a member of the collection.
// It signals a broken caller, not a user mistake.
var ErrNotFound = errors.New("streak not found in collection")

// Saver persists a snapshot of the collection.
type Saver interface {
	Save(streaks []models.Streak) error
}

// Collection is the ordered list of rows sharing one window, plus the
// header ruler and the position of the active cell.
//
// Every RowChanged and CollectionChanged is followed by a save through the
// configured Saver before the notification reaches subscribers.
type Collection struct {
	notifier
	window   *Window
	header   *Header
	rows     []*Row
	unsub    map[*Row]func()
	focusRow *Row
	focusCol int
	saver    Saver
}

// NewCollection creates an empty collection around w.
func NewCollection(w *Window) *Collection {
	c := &Collection{
		window: w,
		header: NewHeader(w),
		unsub:  make(map[*Row]func()),
	}
	w.Subscribe(c.windowChanged)
	return c
}

// SetSaver configures where changes are written. A nil saver disables
// saving.
func (c *Collection) SetSaver(s Saver) {
	c.saver = s
}

func (c *Collection) Window() *Window { return c.window }
func (c *Collection) Header() *Header { return c.header }
func (c *Collection) Len() int        { return len(c.rows) }

// Rows returns the rows in display order.
func (c *Collection) Rows() []*Row {
	rows := make([]*Row, len(c.rows))
	copy(rows, c.rows)
	return rows
}

// At returns the row at position i; negative positions count from the end.
func (c *Collection) At(i int) *Row {
	if i < 0 {
		i += len(c.rows)
	}
	if i < 0 || i >= len(c.rows) {
		return nil
	}
	return c.rows[i]
}

// IndexOf returns the position of row.
func (c *Collection) IndexOf(row *Row) (int, error) {
	for i, r := range c.rows {
		if r == row {
			return i, nil
		}
	}
	if row == nil {
		return -1, fmt.Errorf("%w: nil streak", ErrNotFound)
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, row.title)
}

// Find returns the row with the given id, or nil.
func (c *Collection) Find(id string) *Row {
	for _, r := range c.rows {
		if r.id == id {
			return r
		}
	}
	return nil
}

// FindByTitle returns the first row titled title, ignoring case, or nil.
func (c *Collection) FindByTitle(title string) *Row {
	title = strings.TrimSpace(title)
	for _, r := range c.rows {
		if strings.EqualFold(strings.TrimSpace(r.title), title) {
			return r
		}
	}
	return nil
}

// AddStreak appends a new, empty row. A blank title adds nothing and
// reports false.
func (c *Collection) AddStreak(title string) (*Row, bool) {
	if strings.TrimSpace(title) == "" {
		return nil, false
	}
	r := NewRow(title, c.window)
	c.Add(r)
	return r, true
}

// Add appends row. A row following another window is moved onto this
// collection's window.
func (c *Collection) Add(row *Row) {
	c.attach(row)
	c.rows = append(c.rows, row)
	c.changed()
}

func (c *Collection) attach(row *Row) {
	if row.window != c.window {
		row.window = c.window
		row.rebuild(c.window.Dates())
	}
	row.owner = c
	row.removing = false
	c.unsub[row] = row.Subscribe(c.rowEvent)
}

func (c *Collection) detach(row *Row) {
	if unsub, ok := c.unsub[row]; ok {
		unsub()
		delete(c.unsub, row)
	}
	row.owner = nil
}

// BeginRemove marks row as being removed. Until Remove or CancelRemove is
// called the row stays in place but is left out of every save.
func (c *Collection) BeginRemove(row *Row) error {
	if _, err := c.IndexOf(row); err != nil {
		return err
	}
	row.removing = true
	return nil
}

// CancelRemove clears the mark set by BeginRemove.
func (c *Collection) CancelRemove(row *Row) error {
	if _, err := c.IndexOf(row); err != nil {
		return err
	}
	row.removing = false
	return nil
}

// Remove deletes row from the collection. Focus moves to the row that
// takes its place.
func (c *Collection) Remove(row *Row) error {
	i, err := c.IndexOf(row)
	if err != nil {
		return err
	}
	row.removing = true
	c.rows = append(c.rows[:i], c.rows[i+1:]...)
	c.detach(row)

	if c.focusRow == row {
		c.focusRow = nil
		if len(c.rows) > 0 {
			c.focusRow = c.rows[min(i, len(c.rows)-1)]
		}
	}
	c.changed()
	return nil
}

// MoveUp swaps row with the one above it. The top row stays put.
func (c *Collection) MoveUp(row *Row) error {
	i, err := c.IndexOf(row)
	if err != nil {
		return err
	}
	if i == 0 {
		return nil
	}
	c.rows[i-1], c.rows[i] = c.rows[i], c.rows[i-1]
	c.changed()
	return nil
}

// MoveDown swaps row with the one below it. The bottom row stays put.
func (c *Collection) MoveDown(row *Row) error {
	i, err := c.IndexOf(row)
	if err != nil {
		return err
	}
	if i == len(c.rows)-1 {
		return nil
	}
	c.rows[i+1], c.rows[i] = c.rows[i], c.rows[i+1]
	c.changed()
	return nil
}

// Rename sets the title of row; see Row.SetTitle.
func (c *Collection) Rename(row *Row, title string) (bool, error) {
	if _, err := c.IndexOf(row); err != nil {
		return false, err
	}
	return row.SetTitle(title), nil
}

// Pan moves the shared window by days.
func (c *Collection) Pan(days int) {
	c.window.Pan(days)
}

// Zoom grows or shrinks the shared window by days.
func (c *Collection) Zoom(days int) {
	c.window.Zoom(days)
}

func (c *Collection) windowChanged(e Event) {
	dates := c.window.Dates()
	c.header.Reconcile(dates)
	for _, r := range c.rows {
		r.Reconcile(dates)
	}
	if _, ok := e.(WindowResized); ok {
		c.focusCol = min(c.focusCol, len(dates)-1)
	}
	c.emit(e)
}

func (c *Collection) rowEvent(e Event) {
	if _, ok := e.(RowChanged); ok {
		err := c.save()
		c.emit(e)
		c.reportSave(err)
		return
	}
	c.emit(e)
}

func (c *Collection) changed() {
	err := c.save()
	c.emit(CollectionChanged{})
	c.reportSave(err)
}

func (c *Collection) save() error {
	if c.saver == nil {
		return nil
	}
	if err := c.saver.Save(c.Serialize()); err != nil {
		logger.Error("Failed to save streaks", "error", err)
		return err
	}
	return nil
}

func (c *Collection) reportSave(err error) {
	if err != nil {
		c.emit(SaveFailed{Err: err})
	}
}

// Serialize returns the persisted form of every row not being removed, in
// display order.
func (c *Collection) Serialize() []models.Streak {
	streaks := make([]models.Streak, 0, len(c.rows))
	for _, r := range c.rows {
		if r.removing {
			continue
		}
		streaks = append(streaks, r.Serialize())
	}
	return streaks
}

// Replace swaps the rows for ones rebuilt from streaks. Nothing changes when
// any streak is invalid. Replacing does not save.
func (c *Collection) Replace(streaks []models.Streak) error {
	rows := make([]*Row, 0, len(streaks))
	for _, s := range streaks {
		r, err := RowFromStreak(s, c.window)
		if err != nil {
			return err
		}
		rows = append(rows, r)
	}

	for _, r := range c.rows {
		c.detach(r)
	}
	c.rows = rows
	for _, r := range c.rows {
		c.attach(r)
	}
	c.focusRow = nil
	c.focusCol = 0
	c.emit(CollectionChanged{})
	return nil
}
