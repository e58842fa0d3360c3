package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/streaks/internal/config"
	"github.com/julianstephens/streaks/internal/lock"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/streaks"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint suggests what the user can do about err, or returns "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, storage.ErrCorruptData):
		return "The data file could not be read. Run 'streaks backup list' and 'streaks backup restore <file>' to recover a good copy."
	case stderrors.Is(err, storage.ErrStorageUnavailable):
		return "Check that the data directory exists and is writable, or pass --data to use another file."
	case stderrors.Is(err, lock.ErrLocked):
		return "Close the other streaks window first. If none is running, delete the .lock file next to the data file."
	case stderrors.Is(err, config.ErrInvalidConfig):
		return "Fix the value in the config file, or pass --config to use another one."
	case stderrors.Is(err, streaks.ErrNotFound):
		return "Run 'streaks list' to see the streaks that exist."
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "%s\n", hint)
		}
		_ = logger.Close()
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	_ = logger.Close()
	os.Exit(1)
}
