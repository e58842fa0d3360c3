package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
)

type DebugCmd struct {
	Path *DebugPathCmd `cmd:"" help:"Show data file paths."`
	Dump *DebugDumpCmd `cmd:"" help:"Dump streak data as stored."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"data":    ctx.Store.GetConfigPath(),
		"config":  ctx.ConfigPath,
		"backups": ctx.Backups().Dir(),
	}
	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		if err := sqliteStore.Init(); err == nil {
			if at, ok, err := sqliteStore.SavedAt(); err == nil && ok {
				output["saved_at"] = at.Format(time.RFC3339)
			}
		}
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ctx.printf("%s\n", jsonBytes)
	return nil
}

type DebugDumpCmd struct {
	Streak string `arg:"" optional:"" help:"Title of the streak to dump (default: all)."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	col, err := ctx.Load()
	if err != nil {
		return fmt.Errorf("failed to load streaks: %w", err)
	}

	data := col.Serialize()
	if cmd.Streak != "" {
		row, err := find(col, cmd.Streak)
		if err != nil {
			return err
		}
		data = []models.Streak{row.Serialize()}
	}

	out, err := storage.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode streaks: %w", err)
	}
	ctx.printf("%s\n", out)
	return nil
}
