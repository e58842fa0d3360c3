package models

import "sort"

// Streak is the persisted form of one tracked habit: its title and the
// completion count for every day that has one. Days holds only counts > 0.
type Streak struct {
	Title string       `json:"title"`
	Days  map[Date]int `json:"days"`
}

// DayCount pairs a date with its completion count
type DayCount struct {
	Date  Date
	Count int
}

// SortedDays returns the streak's days in chronological order.
func (s Streak) SortedDays() []DayCount {
	days := make([]DayCount, 0, len(s.Days))
	for d, c := range s.Days {
		days = append(days, DayCount{Date: d, Count: c})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}
