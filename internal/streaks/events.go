// Package streaks holds the streak tracker's in-memory model: the shared
// date window, the rows of day cells that follow it and the collection that
// orders the rows and turns their changes into saves.
//
// Every mutation runs to completion on the caller's goroutine and notifies
// its handlers synchronously before returning. Nothing here is safe for
// concurrent use.
package streaks

import "github.com/julianstephens/streaks/internal/models"

// Event is any notification emitted by the model. The concrete types below
// are the full set.
type Event interface{}

// WindowMoved is emitted when the window's end date changes.
type WindowMoved struct {
	From models.Date
	To   models.Date
}

// Days returns the distance moved; negative when panning into the past.
func (e WindowMoved) Days() int {
	return e.To.DaysSince(e.From)
}

// WindowResized is emitted when the window's span changes.
type WindowResized struct {
	Span int
}

// CellUpdated is emitted whenever a day's count is adjusted, even when the
// clamped value did not change. Row is nil for cells not owned by a row.
type CellUpdated struct {
	Row   *Row
	Date  models.Date
	Count int
}

// RowChanged is emitted after a row's store or title changed.
type RowChanged struct {
	Row *Row
}

// CollectionChanged is emitted after rows were added, removed or reordered.
type CollectionChanged struct{}

// SaveFailed is emitted when the collection's saver returned an error.
type SaveFailed struct {
	Err error
}

type handler struct {
	id int
	fn func(Event)
}

// notifier keeps an ordered list of handlers.
type notifier struct {
	nextID   int
	handlers []handler
}

// Subscribe registers fn and returns a function that removes it again.
func (n *notifier) Subscribe(fn func(Event)) func() {
	n.nextID++
	id := n.nextID
	n.handlers = append(n.handlers, handler{id: id, fn: fn})
	return func() {
		for i, h := range n.handlers {
			if h.id == id {
				n.handlers = append(n.handlers[:i], n.handlers[i+1:]...)
				return
			}
		}
	}
}

func (n *notifier) emit(e Event) {
	// copy so a handler may unsubscribe while we iterate
	hs := make([]handler, len(n.handlers))
	copy(hs, n.handlers)
	for _, h := range hs {
		h.fn(e)
	}
}
