// Package validation reports problems in loaded streak data that the codec
// accepts but the rest of the tool does not expect.
package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTitle ConflictType = "duplicate_title"
	ConflictBlankTitle     ConflictType = "blank_title"
	ConflictPaddedTitle    ConflictType = "padded_title"
	ConflictFutureDate     ConflictType = "future_date"
)

// Conflict represents one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	Rows        []int  // 1-based positions of the streaks involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks streaks against the current date.
type Validator struct {
	today models.Date
}

// New creates a Validator that treats days after today as suspicious.
func New(today models.Date) *Validator {
	return &Validator{today: today}
}

// ValidateStreaks checks titles and recorded days.
func (v *Validator) ValidateStreaks(streaks []models.Streak) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	seen := make(map[string]int)

	for i, s := range streaks {
		pos := i + 1
		title := strings.TrimSpace(s.Title)

		switch {
		case title == "":
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBlankTitle,
				Description: fmt.Sprintf("Streak %d has a blank title", pos),
				Rows:        []int{pos},
			})
		case title != s.Title:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictPaddedTitle,
				Description: fmt.Sprintf("Streak %d title %q has leading or trailing spaces", pos, s.Title),
				Rows:        []int{pos},
			})
		}

		if title != "" {
			key := strings.ToLower(title)
			if first, ok := seen[key]; ok {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateTitle,
					Description: fmt.Sprintf("Streaks %d and %d are both titled %q", first, pos, title),
					Rows:        []int{first, pos},
				})
			} else {
				seen[key] = pos
			}
		}

		for _, day := range s.SortedDays() {
			if !day.Date.After(v.today) {
				continue
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureDate,
				Description: fmt.Sprintf("%s: %q has a count of %d on a future date", day.Date, title, day.Count),
				Date:        day.Date.String(),
				Rows:        []int{pos},
			})
		}
	}

	return result
}
