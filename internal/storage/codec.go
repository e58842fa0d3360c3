package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
)

var (
	// ErrCorruptData is returned when persisted streaks cannot be decoded.
	ErrCorruptData = errors.New("corrupt streak data")
	// ErrStorageUnavailable is returned when the data file cannot be read or
	// written.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const indent = "    "

// Encode renders streaks in the on-disk format: a JSON array in row order,
// each entry holding only the days with a positive count.
func Encode(streaks []models.Streak) ([]byte, error) {
	out := make([]models.Streak, len(streaks))
	for i, s := range streaks {
		days := make(map[models.Date]int, len(s.Days))
		for d, c := range s.Days {
			if c > 0 {
				days[d] = c
			}
		}
		out[i] = models.Streak{Title: s.Title, Days: days}
	}

	data, err := json.MarshalIndent(out, "", indent)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize streaks: %w", err)
	}
	return data, nil
}

type rawStreak struct {
	Title *string                    `json:"title"`
	Days  map[string]json.RawMessage `json:"days"`
}

// Decode parses the on-disk format. Zero counts are dropped with a warning;
// everything else that does not match the format is ErrCorruptData.
func Decode(data []byte) ([]models.Streak, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptData)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: expected an array of streaks", ErrCorruptData)
	}

	streaks := make([]models.Streak, 0, len(entries))
	for i, entry := range entries {
		s, err := decodeStreak(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: streak %d: %v", ErrCorruptData, i, err)
		}
		streaks = append(streaks, s)
	}
	return streaks, nil
}

func decodeStreak(entry json.RawMessage) (models.Streak, error) {
	var raw rawStreak
	if err := json.Unmarshal(entry, &raw); err != nil {
		return models.Streak{}, err
	}
	if raw.Title == nil {
		return models.Streak{}, errors.New(`missing "title"`)
	}
	if raw.Days == nil {
		return models.Streak{}, errors.New(`missing "days"`)
	}

	s := models.Streak{Title: *raw.Title, Days: make(map[models.Date]int, len(raw.Days))}
	for key, value := range raw.Days {
		date, err := models.ParseDate(key)
		if err != nil {
			return models.Streak{}, err
		}
		var count int
		if err := json.Unmarshal(value, &count); err != nil {
			return models.Streak{}, fmt.Errorf("count for %s: %v", key, err)
		}
		switch {
		case count < 0:
			return models.Streak{}, fmt.Errorf("negative count %d for %s", count, key)
		case count == 0:
			logger.Warn("Dropping zero count from streak data", "streak", s.Title, "date", key)
		default:
			s.Days[date] = count
		}
	}
	return s, nil
}
