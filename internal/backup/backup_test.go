package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
)

var fixedNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.Local)

func sample(title string) []models.Streak {
	return []models.Streak{{Title: title, Days: map[models.Date]int{models.NewDate(2024, 1, 9): 1}}}
}

func setupData(t *testing.T, name string, streaks []models.Streak) (string, *Manager) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	p := storage.Open(path)
	if err := p.Save(streaks); err != nil {
		t.Fatalf("failed to save test data: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	mgr := NewManager(path, 3)
	mgr.now = func() time.Time { return fixedNow }
	return path, mgr
}

func load(t *testing.T, path string) []models.Streak {
	t.Helper()
	p := storage.Open(path)
	defer p.Close()
	streaks, err := p.Load()
	if err != nil {
		t.Fatalf("failed to load %s: %v", path, err)
	}
	return streaks
}

func TestCreate(t *testing.T) {
	for _, name := range []string{"streaks.json", "streaks.db"} {
		t.Run(name, func(t *testing.T) {
			_, mgr := setupData(t, name, sample("Read"))

			info, err := mgr.Create()
			if err != nil {
				t.Fatalf("failed to create backup: %v", err)
			}
			expected := "streaks-20240110-093000" + filepath.Ext(name)
			if filepath.Base(info.Path) != expected {
				t.Errorf("expected %q, got %q", expected, filepath.Base(info.Path))
			}
			if !info.Timestamp.Equal(fixedNow) {
				t.Errorf("expected timestamp %v, got %v", fixedNow, info.Timestamp)
			}
			if info.Size == 0 {
				t.Error("expected non-empty backup")
			}
			if got := load(t, info.Path); len(got) != 1 || got[0].Title != "Read" {
				t.Errorf("unexpected backup contents %+v", got)
			}
		})
	}
}

func TestCreateWithoutData(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "streaks.json"), 0)
	if _, err := mgr.Create(); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestUniqueNamesAndRotation(t *testing.T) {
	_, mgr := setupData(t, "streaks.json", sample("Read"))

	var created []string
	for i := 0; i < 5; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatalf("failed to create backup %d: %v", i, err)
		}
		created = append(created, info.Path)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	for i, b := range backups {
		if want := created[len(created)-1-i]; b.Path != want {
			t.Errorf("position %d: expected %s, got %s", i, filepath.Base(want), filepath.Base(b.Path))
		}
	}
	if _, err := os.Stat(created[0]); !os.IsNotExist(err) {
		t.Error("oldest backup should have been rotated away")
	}
}

func TestListIgnoresOtherFiles(t *testing.T) {
	_, mgr := setupData(t, "streaks.json", sample("Read"))
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if _, err := mgr.Quarantine(); err != nil {
		t.Fatalf("failed to quarantine: %v", err)
	}
	for _, name := range []string{"notes.txt", "streaks-garbage.json", "streaks-20240110-093000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}
}

func TestRestore(t *testing.T) {
	for _, name := range []string{"streaks.json", "streaks.db"} {
		t.Run(name, func(t *testing.T) {
			path, mgr := setupData(t, name, sample("Before"))
			info, err := mgr.Create()
			if err != nil {
				t.Fatalf("failed to create backup: %v", err)
			}

			p := storage.Open(path)
			if err := p.Save(sample("After")); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
			p.Close()

			safety, err := mgr.Restore(info.Path)
			if err != nil {
				t.Fatalf("failed to restore: %v", err)
			}
			if got := load(t, path); got[0].Title != "Before" {
				t.Errorf("expected restored title %q, got %q", "Before", got[0].Title)
			}
			if safety == "" {
				t.Fatal("expected a safety backup")
			}
			if got := load(t, safety); got[0].Title != "After" {
				t.Errorf("expected safety copy of %q, got %q", "After", got[0].Title)
			}
		})
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	path, mgr := setupData(t, "streaks.json", sample("Keep"))
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"title": "x", "days": {"2024-02-30": 1}}]`), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := mgr.Restore(bad); err == nil || !strings.Contains(err.Error(), "corrupted") {
		t.Errorf("expected corrupted backup error, got %v", err)
	}
	if got := load(t, path); got[0].Title != "Keep" {
		t.Error("data file should be untouched")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestQuarantine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streaks.json")
	broken := []byte(`{not json`)
	if err := os.WriteFile(path, broken, 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	mgr := NewManager(path, 3)
	mgr.now = func() time.Time { return fixedNow }

	q, err := mgr.Quarantine()
	if err != nil {
		t.Fatalf("failed to quarantine: %v", err)
	}
	if filepath.Base(q) != "streaks-corrupt-20240110-093000.json" {
		t.Errorf("unexpected quarantine name %q", filepath.Base(q))
	}
	data, err := os.ReadFile(q)
	if err != nil {
		t.Fatalf("failed to read quarantined copy: %v", err)
	}
	if string(data) != string(broken) {
		t.Errorf("expected %q, got %q", broken, data)
	}
}
