package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/streaks/internal/models"
)

// Provider persists the ordered list of streaks.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Load returns every streak in row order. A data file that does not
	// exist yet is an empty list.
	Load() ([]models.Streak, error)
	// Save replaces the stored streaks with streaks.
	Save(streaks []models.Streak) error

	// Utils
	GetConfigPath() string
}

// Open returns the provider for path: SQLite for .db/.sqlite files, JSON
// otherwise.
func Open(path string) Provider {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path)
	default:
		return NewJSONStore(path)
	}
}
