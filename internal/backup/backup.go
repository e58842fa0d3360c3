// Package backup keeps timestamped copies of the streak data file next to
// it, rotates old copies away and restores a chosen copy.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/storage"
)

const (
	timestampFormat = "20060102-150405"
	corruptPrefix   = "corrupt-"
)

// ErrNoData is returned when there is no data file to back up.
var ErrNoData = errors.New("no streak data to back up")

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	// seq orders backups taken within the same second
	seq int
}

// Manager handles backup operations for a single data file. Backups of a
// .db file are SQLite databases; anything else is copied byte for byte.
type Manager struct {
	dataPath   string
	backupDir  string
	maxBackups int
	now        func() time.Time
}

// NewManager creates a manager keeping at most maxBackups copies in a
// backups/ directory beside dataPath. Values below one use the default.
func NewManager(dataPath string, maxBackups int) *Manager {
	if maxBackups < 1 {
		maxBackups = constants.MaxBackups
	}
	return &Manager{
		dataPath:   dataPath,
		backupDir:  filepath.Join(filepath.Dir(dataPath), constants.BackupDirName),
		maxBackups: maxBackups,
		now:        time.Now,
	}
}

func (m *Manager) Dir() string { return m.backupDir }

func (m *Manager) ext() string {
	return filepath.Ext(m.dataPath)
}

func (m *Manager) isDatabase() bool {
	_, ok := storage.Open(m.dataPath).(*storage.SQLiteStore)
	return ok
}

// nextPath returns an unused backup path for prefix. Backups taken within
// the same second get an increasing -N suffix.
func (m *Manager) nextPath(prefix string) (string, error) {
	base := constants.BackupFilePrefix + prefix + m.now().Format(timestampFormat)
	matches, err := filepath.Glob(filepath.Join(m.backupDir, base+"*"+m.ext()))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return filepath.Join(m.backupDir, base+m.ext()), nil
	}

	next := 1
	for _, match := range matches {
		rest := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(match), base), m.ext())
		if n, err := strconv.Atoi(strings.TrimPrefix(rest, "-")); err == nil && n >= next {
			next = n + 1
		}
	}
	return filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, next, m.ext())), nil
}

// Create backs up the data file and rotates old backups away.
func (m *Manager) Create() (Info, error) {
	return m.create(false)
}

// create skips rotation when taking the safety copy before a restore.
func (m *Manager) create(skipRotation bool) (Info, error) {
	if _, err := os.Stat(m.dataPath); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("%w: %s", ErrNoData, m.dataPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath("")
	if err != nil {
		return Info{}, err
	}
	if m.isDatabase() {
		err = vacuumInto(m.dataPath, path)
	} else {
		err = copyFile(m.dataPath, path)
	}
	if err != nil {
		return Info{}, fmt.Errorf("failed to back up %s: %w", m.dataPath, err)
	}
	logger.Info("Created backup", "path", path)

	if !skipRotation {
		if err := m.rotate(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	ts, seq, _ := parseName(filepath.Base(path), m.ext())
	return stat(path, ts, seq)
}

// Quarantine copies a data file that failed to load into the backup
// directory under a corrupt- name. Quarantined copies are never rotated.
func (m *Manager) Quarantine() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	path, err := m.nextPath(corruptPrefix)
	if err != nil {
		return "", err
	}
	if err := copyFile(m.dataPath, path); err != nil {
		return "", fmt.Errorf("failed to quarantine %s: %w", m.dataPath, err)
	}
	logger.Warn("Quarantined unreadable streak data", "from", m.dataPath, "to", path)
	return path, nil
}

// List returns the regular backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name(), m.ext())
		if !ok {
			continue
		}
		info, err := stat(filepath.Join(m.backupDir, entry.Name()), ts, seq)
		if err != nil {
			continue
		}
		backups = append(backups, info)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp and sequence number from
// streaks-YYYYMMDD-HHMMSS[-N]<ext>.
func parseName(name, ext string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, ext) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), ext)
	seq := 0
	if len(stamp) > len(timestampFormat) {
		n, err := strconv.Atoi(strings.TrimPrefix(stamp[len(timestampFormat):], "-"))
		if err != nil || stamp[len(timestampFormat)] != '-' {
			return time.Time{}, 0, false
		}
		stamp, seq = stamp[:len(timestampFormat)], n
	}
	ts, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Restore replaces the data file with the backup at path. The backup is
// checked first, and the current data file is backed up before it is
// replaced. It returns the path of that safety copy, if one was made.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := m.Verify(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dataPath); err == nil {
		info, err := m.create(true)
		if err != nil {
			return "", fmt.Errorf("failed to back up current data before restore: %w", err)
		}
		safety = info.Path
	}

	tmp := m.dataPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dataPath); err != nil {
		_ = os.Remove(tmp)
		return safety, fmt.Errorf("failed to restore data file: %w", err)
	}
	logger.Info("Restored backup", "from", path, "to", m.dataPath)
	return safety, nil
}

// Verify checks that path holds loadable streak data.
func (m *Manager) Verify(path string) error {
	if m.isDatabase() {
		s := storage.NewSQLiteStore(path)
		defer s.Close()
		_, err := s.Load()
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = storage.Decode(data)
	return err
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func stat(path string, ts time.Time, seq int) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	return Info{Path: path, Timestamp: ts, Size: fi.Size(), seq: seq}, nil
}
