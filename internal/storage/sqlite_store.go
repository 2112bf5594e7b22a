package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/bliss/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// timeLayout keeps a fixed-width fraction so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	path    string
	dialect dialect
	db      *sql.DB
	now     func() time.Time
}

// Open opens the SQLite database at path, creating its directory, and runs
// migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return open(db, path, sqliteDialect)
}

// OpenDSN picks the backend from dsn: a postgres URL or key=value string
// opens Postgres, anything else is a SQLite path.
func OpenDSN(dsn string) (*Store, error) {
	if IsPostgresDSN(dsn) {
		return OpenPostgres(dsn)
	}
	return Open(dsn)
}

func open(db *sql.DB, path string, d dialect) (*Store, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := runMigrations(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug("Opened database", "driver", d.name, "path", path)
	return &Store{
		path:    path,
		dialect: d,
		db:      db,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func runMigrations(db *sql.DB, d dialect) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(d.goose); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// Version returns the applied schema version
func (s *Store) Version() (int64, error) {
	return goose.GetDBVersion(s.db)
}

// Path is the SQLite file, or the redacted DSN for Postgres
func (s *Store) Path() string {
	return s.path
}

// IsSQLite reports whether Path is a file that backups can copy
func (s *Store) IsSQLite() bool {
	return s.dialect.name == sqliteDialect.name
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) stamp() string {
	return formatTime(s.now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	return t, nil
}

// lookupKey returns the record id stored under an idempotency key
func (s *Store) lookupKey(ctx context.Context, tx *sql.Tx, userID, resource, key string) (string, bool, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		s.q(`SELECT record_id FROM idempotency_keys WHERE user_id = ? AND resource = ? AND idem_key = ?`),
		userID, resource, key,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup idempotency key: %w", err)
	}
	return id, true, nil
}

func (s *Store) storeKey(ctx context.Context, tx *sql.Tx, userID, resource, key, recordID string) error {
	_, err := tx.ExecContext(ctx,
		s.q(`INSERT INTO idempotency_keys (idem_key, user_id, resource, record_id, created_at) VALUES (?, ?, ?, ?, ?)`),
		key, userID, resource, recordID, s.stamp(),
	)
	if err != nil {
		return fmt.Errorf("store idempotency key: %w", err)
	}
	return nil
}
