package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/streaks/internal/lock"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/streaks"
	"github.com/julianstephens/streaks/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	l, err := lock.Acquire(ctx.Store.GetConfigPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()

	col, banner, err := ctx.loadOrQuarantine()
	if err != nil {
		return err
	}

	if banner == "" {
		ctx.PerformAutomaticBackup()
	}

	return tui.Run(col, banner)
}

// loadOrQuarantine loads the streaks. A corrupt data file is copied aside
// and replaced by an empty collection; banner then describes what happened.
func (c *Context) loadOrQuarantine() (*streaks.Collection, string, error) {
	col, err := c.Load()
	if err == nil {
		return col, "", nil
	}
	if !errors.Is(err, storage.ErrCorruptData) {
		return nil, "", err
	}

	logger.Error("Data file is corrupt", "path", c.Store.GetConfigPath(), "error", err)
	saved, qerr := c.Backups().Quarantine()
	if qerr != nil {
		return nil, "", fmt.Errorf("%w (and it could not be set aside: %v)", err, qerr)
	}

	col = streaks.NewCollection(streaks.NewWindow(c.today(), c.Config.SpanDays))
	col.SetSaver(c.Store)
	banner := fmt.Sprintf("⚠ %s could not be read; a copy was saved as %s. Starting empty.",
		filepath.Base(c.Store.GetConfigPath()), filepath.Base(saved))
	return col, banner, nil
}
