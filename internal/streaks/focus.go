package streaks

import "github.com/julianstephens/streaks/internal/models"

// Focus makes the cell at column of row the active cell. The column is
// clamped to the window.
func (c *Collection) Focus(row *Row, column int) error {
	if _, err := c.IndexOf(row); err != nil {
		return err
	}
	c.focusRow = row
	c.focusCol = max(0, min(column, c.window.Span()-1))
	return nil
}

// Blur clears the active cell.
func (c *Collection) Blur() {
	c.focusRow = nil
}

// FocusedRow returns the row holding the active cell, or nil.
func (c *Collection) FocusedRow() *Row {
	return c.focusRow
}

// FocusedColumn returns the column of the active cell within the window.
func (c *Collection) FocusedColumn() int {
	return c.focusCol
}

// FocusedCell returns the active cell, or nil.
func (c *Collection) FocusedCell() *Cell {
	if c.focusRow == nil {
		return nil
	}
	return c.focusRow.Cell(c.focusCol)
}

// FocusedDate returns the date of the active cell.
func (c *Collection) FocusedDate() (models.Date, bool) {
	cell := c.FocusedCell()
	if cell == nil {
		return models.Date{}, false
	}
	return cell.Date(), true
}

// FocusUp moves to the row above, wrapping from the top to the bottom.
func (c *Collection) FocusUp() {
	current := c.focusRow
	if current == nil {
		return
	}
	i, err := c.IndexOf(current)
	if err != nil {
		return
	}
	target := c.At(i - 1)
	if current.IsFirst() {
		target = c.At(-1)
	}
	_ = target.StealFocus(current)
}

// FocusDown moves to the row below, wrapping from the bottom to the top.
func (c *Collection) FocusDown() {
	current := c.focusRow
	if current == nil {
		return
	}
	i, err := c.IndexOf(current)
	if err != nil {
		return
	}
	target := c.At(i + 1)
	if current.IsLast() {
		target = c.At(0)
	}
	_ = target.StealFocus(current)
}

// FocusLeft moves to the previous day; at the first column the window pans
// back a day instead.
func (c *Collection) FocusLeft() {
	if c.focusRow == nil {
		return
	}
	if c.focusCol > 0 {
		c.focusCol--
		return
	}
	c.Pan(-1)
}

// FocusRight moves to the next day; at the last column the window pans
// forward a day instead.
func (c *Collection) FocusRight() {
	if c.focusRow == nil {
		return
	}
	if c.focusCol < c.window.Span()-1 {
		c.focusCol++
		return
	}
	c.Pan(1)
}

// AdjustFocused adjusts the active cell by delta. It reports false when no
// cell is active.
func (c *Collection) AdjustFocused(delta int) bool {
	cell := c.FocusedCell()
	if cell == nil {
		return false
	}
	cell.Adjust(delta)
	return true
}
