package migration

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db, func() { db.Close() }
}

func source(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?`, name).Scan(&count); err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return count > 0
}

func TestApplyFromScratch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := New(db, source(map[string]string{
		"001_streaks.sql": "CREATE TABLE streaks (position INTEGER PRIMARY KEY);",
		"002_days.sql":    "CREATE TABLE days (date TEXT);",
		"README.md":       "ignored",
	}))

	applied, err := m.Apply(ctx)
	if err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 applied, got %d", applied)
	}
	version, err := m.Version(ctx)
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if !tableExists(t, db, "streaks") || !tableExists(t, db, "days") {
		t.Error("expected both tables to exist")
	}

	applied, err = m.Apply(ctx)
	if err != nil {
		t.Fatalf("failed to re-apply migrations: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no-op, got %d applied", applied)
	}
}

func TestApplyIncremental(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	first := source(map[string]string{"001_a.sql": "CREATE TABLE a (id INTEGER);"})
	if _, err := New(db, first).Apply(ctx); err != nil {
		t.Fatalf("failed to apply first migration: %v", err)
	}

	both := source(map[string]string{
		"001_a.sql": "CREATE TABLE a (id INTEGER);",
		"002_b.sql": "CREATE TABLE b (id INTEGER);",
	})
	applied, err := New(db, both).Apply(ctx)
	if err != nil {
		t.Fatalf("failed to apply second migration: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied, got %d", applied)
	}
}

func TestFailedStepRollsBack(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := New(db, source(map[string]string{
		"001_good.sql": "CREATE TABLE good (id INTEGER);",
		"002_bad.sql":  "CREATE TABLE broken (id INTEGER); NOT SQL;",
	}))
	applied, err := m.Apply(ctx)
	if err == nil {
		t.Fatal("expected error from invalid migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 applied, got %d", applied)
	}
	if version, _ := m.Version(ctx); version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
	if tableExists(t, db, "broken") {
		t.Error("failed migration should be rolled back")
	}
}

func TestCheckRejectsNewerDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := New(db, source(map[string]string{"001_a.sql": "CREATE TABLE a (id INTEGER);"}))
	if err := m.ensureVersionTable(ctx); err != nil {
		t.Fatalf("failed to create version table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (9)`); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}

	if err := m.Check(ctx); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("expected ErrSchemaTooNew, got %v", err)
	}
	if _, err := m.Apply(ctx); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("expected ErrSchemaTooNew from Apply, got %v", err)
	}
}

func TestStepsValidation(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "missing separator", files: map[string]string{"001.sql": "SELECT 1;"}},
		{name: "non-numeric version", files: map[string]string{"abc_x.sql": "SELECT 1;"}},
		{name: "zero version", files: map[string]string{"000_x.sql": "SELECT 1;"}},
		{name: "duplicate version", files: map[string]string{"001_a.sql": "SELECT 1;", "1_b.sql": "SELECT 1;"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(nil, source(tt.files)).Steps(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLatest(t *testing.T) {
	m := New(nil, source(map[string]string{
		"003_c.sql": "SELECT 1;",
		"001_a.sql": "SELECT 1;",
	}))
	latest, err := m.Latest()
	if err != nil {
		t.Fatalf("failed to read latest: %v", err)
	}
	if latest != 3 {
		t.Errorf("expected 3, got %d", latest)
	}

	empty, err := New(nil, fstest.MapFS{}).Latest()
	if err != nil || empty != 0 {
		t.Errorf("expected 0 for empty source, got %d (%v)", empty, err)
	}
}
