package streaks

import "github.com/julianstephens/streaks/internal/models"

// Cell is one visible day of a timeline and its completion count.
type Cell struct {
	date   models.Date
	count  int
	notify func(CellUpdated)
}

// NewCell creates a cell; negative counts are clamped to zero.
func NewCell(date models.Date, count int) *Cell {
	return &Cell{date: date, count: max(0, count)}
}

func (c *Cell) Date() models.Date { return c.date }
func (c *Cell) Count() int        { return c.count }

// OnUpdate sets the function told about every adjustment. A cell reports
// to a single owner; setting a new function replaces the old one.
func (c *Cell) OnUpdate(fn func(CellUpdated)) {
	c.notify = fn
}

// Adjust changes the count by delta, never going below zero. The update is
// always reported, even when the count is unchanged.
func (c *Cell) Adjust(delta int) {
	c.count = max(0, c.count+delta)
	if c.notify != nil {
		c.notify(CellUpdated{Date: c.date, Count: c.count})
	}
}
