package streaks

import "github.com/julianstephens/streaks/internal/models"

// Header is the calendar ruler drawn above the rows. It follows the same
// window as the rows but carries no counts.
type Header struct {
	timeline
}

func NewHeader(w *Window) *Header {
	h := &Header{timeline: newTimeline(w, func(d models.Date) *Cell { return NewCell(d, 0) }, nil)}
	h.rebuild(w.Dates())
	return h
}

// Dates returns the dates currently shown by the header.
func (h *Header) Dates() []models.Date {
	dates := make([]models.Date, len(h.cells))
	for i, c := range h.cells {
		dates[i] = c.date
	}
	return dates
}
