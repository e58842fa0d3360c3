package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/streaks/internal/constants"
)

// Date is a calendar day with no time component.
// The zero value is not a valid date; use NewDate, DateOf or ParseDate.
type Date struct {
	t time.Time
}

// NewDate returns the date for the given year, month and day. Out of range
// values are normalized the same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string. Dates that do not exist on the
// calendar (2024-02-30) are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	if t.Format(constants.DateFormat) != s {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days after d (before d when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns the number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return int((d.t.Unix() - o.t.Unix()) / 86400)
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) IsZero() bool       { return d.t.IsZero() }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Format formats d with a time layout.
func (d Date) Format(layout string) string {
	return d.t.Format(layout)
}

func (d Date) String() string {
	return d.t.Format(constants.DateFormat)
}

// MarshalText implements encoding.TextMarshaler so dates can key JSON objects.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero date")
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
