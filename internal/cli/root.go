package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/streaks/internal/backup"
	"github.com/julianstephens/streaks/internal/config"
	"github.com/julianstephens/streaks/internal/lock"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/streaks"
)

// Context is handed to every command's Run method.
type Context struct {
	Config     config.Config
	ConfigPath string
	Store      storage.Provider

	// Out and In default to stdout and stdin.
	Out io.Writer
	In  io.Reader
	// Today defaults to models.Today.
	Today func() models.Date
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) today() models.Date {
	if c.Today == nil {
		return models.Today()
	}
	return c.Today()
}

// Backups returns the backup manager for the data file.
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Store.GetConfigPath(), c.Config.MaxBackups)
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups().Create(); err != nil && !errors.Is(err, backup.ErrNoData) {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Load reads the streaks into a collection whose window ends today. The
// collection saves back to the store on every change.
func (c *Context) Load() (*streaks.Collection, error) {
	if err := c.Store.Init(); err != nil {
		return nil, err
	}
	data, err := c.Store.Load()
	if err != nil {
		return nil, err
	}

	col := streaks.NewCollection(streaks.NewWindow(c.today(), c.Config.SpanDays))
	if err := col.Replace(data); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptData, err)
	}
	col.SetSaver(c.Store)
	return col, nil
}

// Modify runs fn with the data file locked and the streaks loaded. fn's
// changes are saved as they happen; a failed save is returned.
func (c *Context) Modify(fn func(col *streaks.Collection) error) error {
	if err := c.Store.Init(); err != nil {
		return err
	}
	l, err := lock.Acquire(c.Store.GetConfigPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()

	col, err := c.Load()
	if err != nil {
		return err
	}

	var saveErr error
	unsub := col.Subscribe(func(e streaks.Event) {
		if f, ok := e.(streaks.SaveFailed); ok && saveErr == nil {
			saveErr = f.Err
		}
	})
	defer unsub()

	if err := fn(col); err != nil {
		return err
	}
	return saveErr
}

// find looks a streak up by title, ignoring case.
func find(col *streaks.Collection, title string) (*streaks.Row, error) {
	row := col.FindByTitle(title)
	if row == nil {
		return nil, fmt.Errorf("%w: no streak titled %q", streaks.ErrNotFound, title)
	}
	return row, nil
}

// confirm asks a yes/no question on In.
func (c *Context) confirm(question string) bool {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// parseDate parses a --date style flag; empty means today.
func (c *Context) parseDate(value string) (models.Date, error) {
	if strings.TrimSpace(value) == "" {
		return c.today(), nil
	}
	return models.ParseDate(strings.TrimSpace(value))
}
