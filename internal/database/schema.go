package database

import (
	"context"
	"database/sql"
	"fmt"
)

// created_at is stored as ISO-8601 UTC text in both dialects.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS links (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	original   TEXT    NOT NULL,
	short      TEXT    NOT NULL UNIQUE,
	visits     INTEGER NOT NULL DEFAULT 0,
	created_at TEXT    NOT NULL
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS links (
	id         BIGSERIAL PRIMARY KEY,
	original   TEXT   NOT NULL,
	short      TEXT   NOT NULL UNIQUE,
	visits     BIGINT NOT NULL DEFAULT 0,
	created_at TEXT   NOT NULL
)`

func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	schema := sqliteSchema
	if dialect == DialectPostgres {
		schema = postgresSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create links table: %w", err)
	}
	return nil
}
