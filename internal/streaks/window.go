package streaks

import (
	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/models"
)

// Window is a run of consecutive calendar dates ending at End. The visible
// dates are Start()+1 through Start()+Span(), so End is the last visible day.
type Window struct {
	notifier
	end  models.Date
	span int
}

// NewWindow creates a window ending at end. Spans below one day are raised
// to one.
func NewWindow(end models.Date, span int) *Window {
	if span < constants.MinSpanDays {
		span = constants.MinSpanDays
	}
	return &Window{end: end, span: span}
}

// DefaultWindow shows the last week, ending today.
func DefaultWindow() *Window {
	return NewWindow(models.Today(), constants.DefaultSpanDays)
}

func (w *Window) End() models.Date { return w.end }
func (w *Window) Span() int        { return w.span }

// Start is the boundary before the first visible date.
func (w *Window) Start() models.Date {
	return w.end.AddDays(-w.span)
}

// First is the earliest visible date.
func (w *Window) First() models.Date {
	return w.Start().AddDays(1)
}

// Dates returns the visible dates in ascending order.
func (w *Window) Dates() []models.Date {
	start := w.Start()
	dates := make([]models.Date, w.span)
	for k := 1; k <= w.span; k++ {
		dates[k-1] = start.AddDays(k)
	}
	return dates
}

// Index returns the column of date in the window, or -1 when not visible.
func (w *Window) Index(date models.Date) int {
	i := date.DaysSince(w.First())
	if i < 0 || i >= w.span {
		return -1
	}
	return i
}

func (w *Window) Contains(date models.Date) bool {
	return w.Index(date) >= 0
}

// Pan moves the window by days without changing its span.
func (w *Window) Pan(days int) {
	if days == 0 {
		return
	}
	from := w.end
	w.end = w.end.AddDays(days)
	w.emit(WindowMoved{From: from, To: w.end})
}

// Zoom grows (positive) or shrinks (negative) the window by days. A zoom
// that would leave fewer than one day is ignored.
func (w *Window) Zoom(days int) {
	if days == 0 || w.span+days < constants.MinSpanDays {
		return
	}
	w.span += days
	w.emit(WindowResized{Span: w.span})
}
