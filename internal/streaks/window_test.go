package streaks

import (
	"testing"

	"github.com/julianstephens/streaks/internal/models"
)

func assertConsecutive(t *testing.T, w *Window) {
	t.Helper()
	dates := w.Dates()
	if len(dates) != w.Span() {
		t.Fatalf("expected %d dates, got %d", w.Span(), len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if dates[i].DaysSince(dates[i-1]) != 1 {
			t.Fatalf("dates not consecutive at %d: %s then %s", i, dates[i-1], dates[i])
		}
	}
	if !dates[len(dates)-1].Equal(w.End()) {
		t.Errorf("expected last date %s, got %s", w.End(), dates[len(dates)-1])
	}
}

func TestWindowDates(t *testing.T) {
	end := models.NewDate(2024, 1, 10)
	w := NewWindow(end, 7)

	if got := w.Start(); !got.Equal(models.NewDate(2024, 1, 3)) {
		t.Errorf("expected start 2024-01-03, got %s", got)
	}
	if got := w.First(); !got.Equal(models.NewDate(2024, 1, 4)) {
		t.Errorf("expected first 2024-01-04, got %s", got)
	}
	assertConsecutive(t, w)

	if w.Index(end) != 6 {
		t.Errorf("expected end at column 6, got %d", w.Index(end))
	}
	if w.Contains(w.Start()) {
		t.Error("start boundary should not be visible")
	}
	if w.Contains(end.AddDays(1)) {
		t.Error("day after end should not be visible")
	}
}

func TestNewWindowRaisesSpan(t *testing.T) {
	w := NewWindow(models.NewDate(2024, 1, 10), 0)
	if w.Span() != 1 {
		t.Errorf("expected span 1, got %d", w.Span())
	}
}

func TestWindowInvariantAcrossPanAndZoom(t *testing.T) {
	w := NewWindow(models.NewDate(2024, 3, 1), 5)
	steps := []struct {
		pan  int
		zoom int
	}{
		{pan: 3}, {zoom: 2}, {pan: -40}, {zoom: -6}, {zoom: -3}, {pan: 365}, {zoom: 30}, {pan: -1},
	}
	for _, s := range steps {
		w.Pan(s.pan)
		w.Zoom(s.zoom)
		if w.Span() < 1 {
			t.Fatalf("span dropped below 1: %d", w.Span())
		}
		assertConsecutive(t, w)
	}
}

func TestZoomFloor(t *testing.T) {
	w := NewWindow(models.NewDate(2024, 1, 10), 1)
	var events []Event
	w.Subscribe(func(e Event) { events = append(events, e) })

	for i := 0; i < 3; i++ {
		w.Zoom(-1)
	}
	if w.Span() != 1 {
		t.Errorf("expected span 1, got %d", w.Span())
	}
	if len(events) != 0 {
		t.Errorf("expected no events for rejected zoom, got %d", len(events))
	}
	if !w.End().Equal(models.NewDate(2024, 1, 10)) {
		t.Errorf("zoom must not move the end date, got %s", w.End())
	}
}

func TestPanEmitsMove(t *testing.T) {
	w := NewWindow(models.NewDate(2024, 1, 10), 7)
	before := w.Dates()

	var got []Event
	w.Subscribe(func(e Event) { got = append(got, e) })
	w.Pan(7)
	w.Pan(0)

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	moved, ok := got[0].(WindowMoved)
	if !ok {
		t.Fatalf("expected WindowMoved, got %T", got[0])
	}
	if moved.Days() != 7 {
		t.Errorf("expected move of 7 days, got %d", moved.Days())
	}
	if w.Span() != 7 {
		t.Errorf("expected span 7, got %d", w.Span())
	}
	after := w.Dates()
	for i := range before {
		if !after[i].Equal(before[i].AddDays(7)) {
			t.Errorf("column %d: expected %s, got %s", i, before[i].AddDays(7), after[i])
		}
	}
}

func TestPanFarAhead(t *testing.T) {
	w := NewWindow(models.NewDate(2024, 1, 10), 7)

	var got []Event
	w.Subscribe(func(e Event) { got = append(got, e) })
	w.Pan(200000)

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if moved := got[0].(WindowMoved); moved.Days() != 200000 {
		t.Errorf("expected move of 200000 days, got %d", moved.Days())
	}
	if want := models.NewDate(2024, 1, 10).AddDays(200000); !w.End().Equal(want) {
		t.Errorf("expected end %s, got %s", want, w.End())
	}
}

func TestUnsubscribe(t *testing.T) {
	w := NewWindow(models.NewDate(2024, 1, 10), 7)
	calls := 0
	unsub := w.Subscribe(func(Event) { calls++ })
	w.Zoom(1)
	unsub()
	w.Zoom(1)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
