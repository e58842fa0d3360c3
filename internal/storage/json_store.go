package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
)

// JSONStore keeps the streaks in a single JSON document.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

// Init creates the data directory.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create data directory: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *JSONStore) Load() ([]models.Streak, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("No streak data yet", "path", s.path)
			return []models.Streak{}, nil
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrStorageUnavailable, s.path, err)
	}

	streaks, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	logger.Debug("Loaded streaks", "path", s.path, "count", len(streaks))
	return streaks, nil
}

// Save writes the document to a temporary file next to the target and
// renames it into place, so a crash never leaves a truncated file.
func (s *JSONStore) Save(streaks []models.Streak) error {
	data, err := Encode(streaks)
	if err != nil {
		return err
	}

	if err := s.Init(); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrStorageUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: failed to replace %s: %v", ErrStorageUnavailable, s.path, err)
	}

	logger.Debug("Saved streaks", "path", s.path, "count", len(streaks))
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// GetConfigPath returns the path of the data file.
//
// Running two processes against the same file is not supported; callers
// hold a lock.Lock for the lifetime of the store.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
