// Package lock keeps two streaks processes from writing the same data file.
// The lockfile sits next to the data file and holds the owner's PID; a
// lockfile whose PID is no longer a running streaks process is stale and
// taken over.
package lock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/logger"
)

// ErrLocked is returned when another live process holds the lock.
var ErrLocked = errors.New("streak data is in use by another process")

var (
	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid
)

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// PathFor returns the lockfile path guarding dataPath.
func PathFor(dataPath string) string {
	return dataPath + constants.LockFileSuffix
}

// Acquire takes the lock guarding dataPath.
func Acquire(dataPath string) (*Lock, error) {
	path := PathFor(dataPath)
	pid := currentPID()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(pid))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile %s: %w", path, errors.Join(werr, cerr))
			}
			logger.Debug("Acquired lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile %s: %w", path, err)
		}

		owner, err := ownerOf(path)
		if err == nil && owner != pid && isRunning(owner) {
			logger.Warn("Streak data is locked", "path", path, "pid", owner)
			return nil, fmt.Errorf("%w (pid %d, lockfile %s)", ErrLocked, owner, path)
		}

		logger.Info("Removing stale lockfile", "path", path)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("%w (lockfile %s keeps reappearing)", ErrLocked, path)
}

// ownerOf reads the PID stored in the lockfile at path.
func ownerOf(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0, errors.New("invalid process ID in lockfile")
	}
	return pid, nil
}

func isRunning(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}

// Path returns the lockfile path.
func (l *Lock) Path() string { return l.path }

// Release removes the lockfile if this lock still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	owner, err := ownerOf(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && owner != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile %s: %w", l.path, err)
	}
	logger.Debug("Released lock", "path", l.path)
	return nil
}
