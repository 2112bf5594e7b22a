package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/storage"
)

// setupTestDB creates a migrated stand-in database holding one routine
func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "devserver.db")
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if _, err := store.CreateRoutine(context.Background(), models.RoutineEntry{
		ID: "r1", UserID: "u", TimeOfDay: models.Morning, Products: []string{"Cleanser"},
	}, ""); err != nil {
		t.Fatalf("failed to seed routine: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

// stepClock advances one minute per call so every snapshot gets its own name
func stepClock(m *Manager) {
	t0 := time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
	m.now = func() time.Time {
		t0 = t0.Add(time.Minute)
		return t0
	}
}

func routineCount(t *testing.T, dbPath string) int {
	t.Helper()
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("open %s: %v", dbPath, err)
	}
	defer store.Close()
	list, err := store.ListRoutines(context.Background(), "u")
	if err != nil {
		t.Fatalf("ListRoutines: %v", err)
	}
	return len(list)
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)
	stepClock(mgr)

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Dir(snap.Path) != mgr.Dir() {
		t.Errorf("snapshot dir = %s, want %s", filepath.Dir(snap.Path), mgr.Dir())
	}
	if snap.Name() != "devserver-20250601-0801.db" {
		t.Errorf("Name() = %s", snap.Name())
	}
	if snap.Size == 0 {
		t.Error("snapshot is empty")
	}
	if err := Verify(snap.Path); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
	if n := routineCount(t, snap.Path); n != 1 {
		t.Errorf("snapshot routines = %d, want 1", n)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"), 0)
	if _, err := mgr.Create(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Create() error = %v, want ErrNoDatabase", err)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 3)
	stepClock(mgr)

	var last Snapshot
	for i := 0; i < 5; i++ {
		snap, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d error = %v", i, err)
		}
		last = snap
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("kept %d snapshots, want 3", len(snaps))
	}
	if snaps[0].Path != last.Path {
		t.Errorf("newest = %s, want %s", snaps[0].Name(), last.Name())
	}
	for i := 1; i < len(snaps); i++ {
		if !snaps[i-1].Timestamp.After(snaps[i].Timestamp) {
			t.Errorf("snapshots not sorted newest first at %d", i)
		}
	}
}

func TestUniqueNamesWithinAMinute(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 10)
	fixed := time.Date(2025, 6, 1, 8, 30, 15, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		snap, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d error = %v", i, err)
		}
		if seen[snap.Name()] {
			t.Fatalf("duplicate name %s", snap.Name())
		}
		seen[snap.Name()] = true
	}

	want := []string{
		"devserver-20250601-0830.db",
		"devserver-20250601-083015.db",
		"devserver-20250601-083015-1.db",
		"devserver-20250601-083015-2.db",
	}
	for _, name := range want {
		if !seen[name] {
			t.Errorf("missing %s in %v", name, seen)
		}
	}
	snaps, err := mgr.List()
	if err != nil || len(snaps) != 4 {
		t.Errorf("List() = %d snapshots, %v", len(snaps), err)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "devserver-latest.db", "other-20250101-1200.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("List() = %v, want none", snaps)
	}
}

func TestListMissingDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "devserver.db"), 0)
	snaps, err := mgr.List()
	if err != nil || len(snaps) != 0 {
		t.Errorf("List() = %v, %v", snaps, err)
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"devserver-20250601-0830.db", time.Date(2025, 6, 1, 8, 30, 0, 0, time.Local), true},
		{"devserver-20250601-083015.db", time.Date(2025, 6, 1, 8, 30, 15, 0, time.Local), true},
		{"devserver-20250601-083015-12.db", time.Date(2025, 6, 1, 8, 30, 15, 0, time.Local), true},
		{"devserver-2025.db", time.Time{}, false},
		{"devserver-20250601-0830.sqlite", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStamp(tt.name)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseStamp() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)
	stepClock(mgr)

	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateRoutine(context.Background(), models.RoutineEntry{
		ID: "r2", UserID: "u", TimeOfDay: models.Night, Products: []string{"Night Cream"},
	}, ""); err != nil {
		t.Fatal(err)
	}
	store.Close()
	if n := routineCount(t, dbPath); n != 2 {
		t.Fatalf("routines before restore = %d, want 2", n)
	}

	prev, err := mgr.Restore(mgr.Resolve(snap.Name()))
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if n := routineCount(t, dbPath); n != 1 {
		t.Errorf("routines after restore = %d, want 1", n)
	}

	// the pre-restore snapshot holds the replaced data
	if prev.Path == "" {
		t.Fatal("Restore() did not snapshot the current database")
	}
	if n := routineCount(t, prev.Path); n != 2 {
		t.Errorf("pre-restore snapshot routines = %d, want 2", n)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidSnapshot(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte(strings.Repeat("not a database ", 64)), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); !errors.Is(err, ErrInvalid) {
		t.Errorf("Restore() error = %v, want ErrInvalid", err)
	}
	if n := routineCount(t, dbPath); n != 1 {
		t.Errorf("database changed after rejected restore: %d routines", n)
	}

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("Restore() of a missing file succeeded")
	}
}

func TestResolve(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, 0)
	stepClock(mgr)
	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	if got := mgr.Resolve(snap.Name()); got != snap.Path {
		t.Errorf("Resolve(name) = %s, want %s", got, snap.Path)
	}
	if got := mgr.Resolve("unknown.db"); got != "unknown.db" {
		t.Errorf("Resolve(unknown) = %s", got)
	}
	abs := filepath.Join(t.TempDir(), "x.db")
	if got := mgr.Resolve(abs); got != abs {
		t.Errorf("Resolve(path) = %s", got)
	}
}
