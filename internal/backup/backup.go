// Package backup keeps rotated snapshots of the stand-in backend database.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/logger"
)

const (
	// DefaultKeep is how many snapshots survive rotation
	DefaultKeep = constants.DefaultServerBackups
	DirName     = "backups"
	FilePrefix  = "devserver-"
	FileSuffix  = ".db"

	stampMinute = "20060102-1504"
	stampSecond = "20060102-150405"
)

var (
	ErrNoDatabase = errors.New("database does not exist")
	ErrInvalid    = errors.New("not a valid sqlite database")
)

type Snapshot struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Name is the snapshot file name without its directory
func (s Snapshot) Name() string {
	return filepath.Base(s.Path)
}

type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

// NewManager stores snapshots of dbPath in a backups directory beside it.
// keep below 1 means DefaultKeep.
func NewManager(dbPath string, keep int) *Manager {
	if keep < 1 {
		keep = DefaultKeep
	}
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		keep:   keep,
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new snapshot and rotates old ones
func (m *Manager) Create() (Snapshot, error) {
	snap, err := m.create()
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate database snapshots", "dir", m.dir, "err", err)
	}
	return snap, nil
}

func (m *Manager) create() (Snapshot, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Snapshot{}, fmt.Errorf("create backup directory: %w", err)
	}

	now := m.now()
	path, err := m.nextPath(now)
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.vacuumInto(path); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot database: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Snapshot{}, err
	}
	logger.Info("Created database snapshot", "path", path)
	return Snapshot{Path: path, Timestamp: now.Truncate(time.Second), Size: info.Size()}, nil
}

// nextPath picks an unused file name, adding seconds and then a counter
// when snapshots are taken within the same minute.
func (m *Manager) nextPath(now time.Time) (string, error) {
	candidate := func(stamp string) string {
		return filepath.Join(m.dir, FilePrefix+stamp+FileSuffix)
	}

	path := candidate(now.Format(stampMinute))
	if !exists(path) {
		return path, nil
	}
	sec := now.Format(stampSecond)
	path = candidate(sec)
	for n := 1; exists(path); n++ {
		if n > 100 {
			return "", fmt.Errorf("no free snapshot name in %s", m.dir)
		}
		path = candidate(fmt.Sprintf("%s-%d", sec, n))
	}
	return path, nil
}

func (m *Manager) vacuumInto(dest string) error {
	db, err := sql.Open("sqlite", m.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ping(db); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		db.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns snapshots newest first. Files that do not carry a
// snapshot timestamp are ignored.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var snaps []Snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := parseStamp(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Path:      filepath.Join(m.dir, e.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if snaps[i].Timestamp.Equal(snaps[j].Timestamp) {
			return snaps[i].Path > snaps[j].Path
		}
		return snaps[i].Timestamp.After(snaps[j].Timestamp)
	})
	return snaps, nil
}

func parseStamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, FileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, FilePrefix), FileSuffix)

	// trailing counter, e.g. 20250101-120000-2
	if parts := strings.Split(stamp, "-"); len(parts) == 3 && isDigits(parts[2]) {
		stamp = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{stampMinute, stampSecond} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for _, s := range snaps[min(m.keep, len(snaps)):] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("remove %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first and that snapshot is returned; it is
// exempt from rotation so a bad restore can always be undone.
func (m *Manager) Restore(path string) (Snapshot, error) {
	if !exists(path) {
		return Snapshot{}, fmt.Errorf("snapshot does not exist: %s", path)
	}
	if err := Verify(path); err != nil {
		return Snapshot{}, err
	}

	var prev Snapshot
	if exists(m.dbPath) {
		var err error
		if prev, err = m.create(); err != nil {
			return Snapshot{}, fmt.Errorf("snapshot current database: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return Snapshot{}, fmt.Errorf("copy snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "err", rmErr)
		}
		return Snapshot{}, fmt.Errorf("restore database: %w", err)
	}
	// WAL sidecars belong to the replaced file
	for _, side := range []string{"-wal", "-shm"} {
		if err := os.Remove(m.dbPath + side); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to remove stale sidecar", "path", m.dbPath+side, "err", err)
		}
	}
	logger.Info("Restored database", "from", path, "db", m.dbPath)
	return prev, nil
}

// Resolve accepts either a path or the file name of a snapshot in Dir
func (m *Manager) Resolve(name string) string {
	if filepath.Base(name) == name {
		if p := filepath.Join(m.dir, name); exists(p) {
			return p
		}
	}
	return name
}

// Verify reports ErrInvalid when path cannot be read as sqlite
func Verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	defer db.Close()
	if err := ping(db); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func ping(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
