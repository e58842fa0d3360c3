package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/migration"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage/migrations"
)

// SQLiteStore keeps the streaks in a SQLite database: one table for rows
// (ordered by position) and one for the non-zero day counts.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

// Init opens the database, creating it if needed, and applies pending
// migrations. Calling Init on an open store is a no-op.
func (s *SQLiteStore) Init() error {
	if s.db != nil {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: failed to create data directory: %v", ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return fmt.Errorf("%w: failed to enable foreign keys: %v", ErrStorageUnavailable, err)
	}

	if _, err := migration.New(db, migrations.FS).Apply(context.Background()); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Load() ([]models.Streak, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT s.position, s.title, d.date, d.count
		FROM streaks s
		LEFT JOIN days d ON d.streak_position = s.position
		ORDER BY s.position, d.date`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query streaks: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var streaks []models.Streak
	last := -1
	for rows.Next() {
		var position int
		var title string
		var date sql.NullString
		var count sql.NullInt64
		if err := rows.Scan(&position, &title, &date, &count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
		}
		if position != last {
			streaks = append(streaks, models.Streak{Title: title, Days: make(map[models.Date]int)})
			last = position
		}
		if !date.Valid {
			continue
		}
		d, err := models.ParseDate(date.String)
		if err != nil {
			return nil, fmt.Errorf("%w: streak %q: %v", ErrCorruptData, title, err)
		}
		streaks[len(streaks)-1].Days[d] = int(count.Int64)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if streaks == nil {
		streaks = []models.Streak{}
	}
	logger.Debug("Loaded streaks", "path", s.path, "count", len(streaks))
	return streaks, nil
}

// Save rewrites both tables in a single transaction.
func (s *SQLiteStore) Save(streaks []models.Streak) error {
	if err := s.Init(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM days`); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if _, err := tx.Exec(`DELETE FROM streaks`); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	for i, st := range streaks {
		if _, err := tx.Exec(`INSERT INTO streaks (position, title) VALUES (?, ?)`, i, st.Title); err != nil {
			return fmt.Errorf("%w: failed to save streak %q: %v", ErrStorageUnavailable, st.Title, err)
		}
		for _, dc := range st.SortedDays() {
			if dc.Count <= 0 {
				continue
			}
			if _, err := tx.Exec(
				`INSERT INTO days (streak_position, date, count) VALUES (?, ?, ?)`,
				i, dc.Date.Format(constants.DateFormat), dc.Count,
			); err != nil {
				return fmt.Errorf("%w: failed to save %s for %q: %v", ErrStorageUnavailable, dc.Date, st.Title, err)
			}
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO meta (key, value) VALUES ('saved_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", ErrStorageUnavailable, err)
	}
	logger.Debug("Saved streaks", "path", s.path, "count", len(streaks))
	return nil
}

// SavedAt returns when the streaks were last saved. ok is false for a
// database that was never saved to.
func (s *SQLiteStore) SavedAt() (t time.Time, ok bool, err error) {
	if err := s.Init(); err != nil {
		return time.Time{}, false, err
	}
	var value string
	err = s.db.QueryRow(`SELECT value FROM meta WHERE key = 'saved_at'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: saved_at: %v", ErrCorruptData, err)
	}
	return t, true, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
