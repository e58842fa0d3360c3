package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streaks/internal/cli"
	"github.com/julianstephens/streaks/internal/config"
	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Data    string `help:"Data file path; .db/.sqlite selects SQLite storage." type:"path"`
	Span    int    `help:"Number of days shown in the timeline."`
	Debug   bool   `help:"Log debug output to stderr."`

	Tui        cli.TuiCmd      `cmd:"" help:"Launch the interactive timeline." default:"1"`
	Add        cli.AddCmd      `cmd:"" help:"Add a new streak."`
	List       cli.ListCmd     `cmd:"" help:"List all streaks."`
	Mark       cli.MarkCmd     `cmd:"" help:"Adjust a day's count for a streak."`
	Log        cli.LogCmd      `cmd:"" help:"Show a timeline of recent days."`
	Rename     cli.RenameCmd   `cmd:"" help:"Rename a streak."`
	Delete     cli.DeleteCmd   `cmd:"" help:"Delete a streak and its days."`
	Move       cli.MoveCmd     `cmd:"" help:"Move a streak up or down."`
	Validate   cli.ValidateCmd `cmd:"" help:"Check the data file for problems."`
	Doctor     cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	ShowConfig cli.ConfigCmd   `cmd:"" name:"config" help:"Show the effective configuration."`
	DebugInfo  cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Backup     struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily streaks on a scrolling timeline"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	cfg, err = cfg.Apply(config.Overrides{
		DataFile: CLI.Data,
		SpanDays: CLI.Span,
		Debug:    CLI.Debug,
	})
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:   cfg.Debug,
		DataDir: cfg.DataDir(),
		Stderr:  os.Stderr,
	}); err != nil {
		errors.Fatal(err)
	}
	defer logger.Close()

	store := storage.Open(cfg.DataFile)
	defer store.Close()

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
		Store:      store,
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

