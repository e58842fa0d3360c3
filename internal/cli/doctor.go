package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/streaks/internal/lock"
	"github.com/julianstephens/streaks/internal/migration"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/storage/migrations"
	"github.com/julianstephens/streaks/internal/validation"
)

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkipped
)

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	hasError := false
	report := func(name string, result checkResult, detail error) {
		switch result {
		case checkOK:
			ctx.printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.printf("⚠ %s: WARNING\n", name)
		case checkFail:
			ctx.printf("❌ %s: FAIL\n", name)
			hasError = true
		case checkSkipped:
			ctx.printf("⊘ %s: SKIPPED\n", name)
		}
		if detail != nil {
			ctx.printf("   %v\n", detail)
		}
	}

	readable := true
	if err := checkDataReadable(ctx); err != nil {
		report("Data file readable", checkFail, err)
		readable = false
	} else {
		report("Data file readable", checkOK, nil)
	}

	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		report("Schema version", checkSkipped, nil)
	} else if !readable {
		report("Schema version", checkSkipped, errors.New("database not reachable"))
	} else if err := checkSchemaVersion(ctx); err != nil {
		report("Schema version", checkFail, err)
	} else {
		report("Schema version", checkOK, nil)
	}

	if err := checkLock(ctx); err != nil {
		report("Data file lock", checkWarn, err)
	} else {
		report("Data file lock", checkOK, nil)
	}

	if err := checkBackupsPresent(ctx); err != nil {
		report("Backups present", checkWarn, err)
	} else {
		report("Backups present", checkOK, nil)
	}

	if !readable {
		report("Data validation", checkSkipped, errors.New("data file not readable"))
	} else if err := checkValidation(ctx); err != nil {
		report("Data validation", checkWarn, err)
	} else {
		report("Data validation", checkOK, nil)
	}

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.printf("All diagnostics passed!\n")
	return nil
}

func checkDataReadable(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	if _, err := ctx.Store.Load(); err != nil {
		return err
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	db := ctx.Store.(*storage.SQLiteStore).GetDB()
	m := migration.New(db, migrations.FS)
	if err := m.Check(context.Background()); err != nil {
		return err
	}

	current, err := m.Version(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := m.Latest()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkLock(ctx *Context) error {
	l, err := lock.Acquire(ctx.Store.GetConfigPath())
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return fmt.Errorf("another streaks process is using the data file")
		}
		return err
	}
	return l.Release()
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.Backups().List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'streaks backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	data, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	result := validation.New(ctx.today()).ValidateStreaks(data)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s); run 'streaks validate' for details", len(result.Conflicts))
	}
	return nil
}
