package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// Rebind rewrites '?' placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

type Options struct {
	Driver     string
	SQLitePath string
	Postgres   PostgresConfig
}

// Open connects to the configured backend and makes sure the links table exists.
func Open(ctx context.Context, opts Options) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(opts.Driver)
	if err != nil {
		return nil, "", err
	}

	var db *sql.DB
	switch dialect {
	case DialectPostgres:
		db, err = ConnectPostgres(opts.Postgres)
	default:
		db, err = OpenSQLite(opts.SQLitePath)
	}
	if err != nil {
		return nil, "", err
	}

	if err := EnsureSchema(ctx, db, dialect); err != nil {
		db.Close()
		return nil, "", err
	}

	return db, dialect, nil
}

func HealthCheck(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

func GetVersion(db *sql.DB, dialect Dialect) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	query := "SELECT version()"
	if dialect == DialectSQLite {
		query = "SELECT 'SQLite ' || sqlite_version()"
	}

	var version string
	err := db.QueryRowContext(ctx, query).Scan(&version)
	return version, err
}
