// Package migration applies numbered SQL files (NNN_name.sql) to a SQLite
// database and records the resulting schema version.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/streaks/internal/logger"
)

// ErrSchemaTooNew is returned when the database was written by a newer
// release than this one.
var ErrSchemaTooNew = errors.New("database schema is newer than this version of streaks")

// Step is a single schema migration.
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Migrator brings a database schema up to the newest Step in its source.
type Migrator struct {
	db     *sql.DB
	source fs.FS
}

func New(db *sql.DB, source fs.FS) *Migrator {
	return &Migrator{db: db, source: source}
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// Version returns the schema version recorded in the database; 0 for a
// fresh database.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	var version int
	err := m.db.QueryRowContext(ctx, `SELECT version FROM schema_version`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Steps returns the migrations found in the source, ordered by version.
func (m *Migrator) Steps() ([]Step, error) {
	entries, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var steps []Step
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		prefix, rest, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version < 1 {
			return nil, fmt.Errorf("invalid migration version in %s", name)
		}

		body, err := fs.ReadFile(m.source, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		steps = append(steps, Step{
			Version: version,
			Name:    strings.TrimSuffix(rest, ".sql"),
			SQL:     string(body),
		})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	for i := 1; i < len(steps); i++ {
		if steps[i].Version == steps[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", steps[i].Version)
		}
	}
	return steps, nil
}

// Latest returns the highest version available in the source.
func (m *Migrator) Latest() (int, error) {
	steps, err := m.Steps()
	if err != nil || len(steps) == 0 {
		return 0, err
	}
	return steps[len(steps)-1].Version, nil
}

// Check fails with ErrSchemaTooNew when the database is ahead of the
// migrations this binary knows about.
func (m *Migrator) Check(ctx context.Context) error {
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}
	latest, err := m.Latest()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("%w (database %d, supported %d)", ErrSchemaTooNew, current, latest)
	}
	return nil
}

// Apply runs every pending step, each in its own transaction together with
// the version bump. It returns how many steps were applied.
func (m *Migrator) Apply(ctx context.Context) (int, error) {
	if err := m.Check(ctx); err != nil {
		return 0, err
	}
	current, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}
	steps, err := m.Steps()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		if err := m.apply(ctx, step); err != nil {
			return applied, err
		}
		logger.Info("Applied migration", "version", step.Version, "name", step.Name)
		applied++
	}
	if applied == 0 {
		logger.Debug("Database schema is up to date", "version", current)
	}
	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, step Step) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", step.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", step.Version, step.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, step.Version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", step.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", step.Version, err)
	}
	return nil
}
