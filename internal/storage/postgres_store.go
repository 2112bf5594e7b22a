package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

type dialect struct {
	name  string
	goose string
	// tiebreak orders rows created within the same timestamp
	tiebreak string
	numbered bool
}

var (
	sqliteDialect   = dialect{name: "sqlite", goose: "sqlite3", tiebreak: "rowid"}
	postgresDialect = dialect{name: "postgres", goose: "postgres", tiebreak: "id", numbered: true}
)

// q rewrites ? placeholders to $1, $2... for drivers that need them
func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsPostgresDSN reports whether dsn is a postgres URL or a libpq
// key=value connection string.
func IsPostgresDSN(dsn string) bool {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return true
	}
	for _, field := range strings.Fields(dsn) {
		key, _, ok := strings.Cut(field, "=")
		if !ok {
			return false
		}
		switch strings.ToLower(key) {
		case "host", "dbname", "user", "port", "sslmode":
			return true
		}
	}
	return false
}

// OpenPostgres connects with lib/pq and runs the same migrations as SQLite
func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return open(db, redactDSN(dsn), postgresDialect)
}

// redactDSN hides the password of a connection string for logs
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		return u.Redacted()
	}
	fields := strings.Fields(dsn)
	for i, field := range fields {
		if key, _, ok := strings.Cut(field, "="); ok && strings.EqualFold(key, "password") {
			fields[i] = key + "=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
