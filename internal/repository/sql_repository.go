package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kosench/go-shortlink/internal/database"
	apperrors "github.com/Kosench/go-shortlink/internal/errors"
	"github.com/Kosench/go-shortlink/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

const linkColumns = "id, original, short, visits, created_at"

// SQLLinkRepository stores links in a database/sql handle. The handle is
// owned by the caller; every method borrows a pooled connection only for the
// duration of its statement.
type SQLLinkRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSQLLinkRepository(db *sql.DB, dialect database.Dialect) *SQLLinkRepository {
	return &SQLLinkRepository{
		db:      db,
		dialect: dialect,
	}
}

func (r *SQLLinkRepository) Create(ctx context.Context, link *model.Link) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	query := r.dialect.Rebind(`
	INSERT INTO links (original, short, created_at)
	VALUES (?, ?, ?)
	ON CONFLICT (short) DO NOTHING
	RETURNING id
	`)

	err := r.db.QueryRowContext(
		ctx,
		query,
		link.Original,
		link.Short,
		formatTime(link.CreatedAt),
	).Scan(&link.ID)

	if err == sql.ErrNoRows || isUniqueViolation(err) {
		return fmt.Errorf("short code '%s': %w", link.Short, apperrors.ErrDuplicateKey)
	}

	if err != nil {
		return apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to create link",
			err,
		)
	}

	link.Visits = 0
	return nil
}

func (r *SQLLinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	query := r.dialect.Rebind(`SELECT ` + linkColumns + ` FROM links WHERE short = ?`)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortCode))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("short code '%s': %w", shortCode, apperrors.ErrURLNotFound)
	}

	if err != nil {
		return nil, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to get link",
			err,
		)
	}

	return link, nil
}

func (r *SQLLinkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	query := r.dialect.Rebind(`SELECT EXISTS(SELECT 1 FROM links WHERE short = ?)`)

	var exists bool
	err := r.db.QueryRowContext(ctx, query, shortCode).Scan(&exists)
	if err != nil {
		return false, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to check short code existence",
			err,
		)
	}

	return exists, nil
}

// IncrementVisits relies on a single UPDATE so concurrent visits to the same
// code are serialized by the database and never lost.
func (r *SQLLinkRepository) IncrementVisits(ctx context.Context, shortCode string) (*model.Link, error) {
	query := r.dialect.Rebind(`
	UPDATE links
	SET visits = visits + 1
	WHERE short = ?
	RETURNING ` + linkColumns)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, shortCode))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("short code '%s': %w", shortCode, apperrors.ErrURLNotFound)
	}

	if err != nil {
		return nil, apperrors.NewBusinessError(
			"DATABASE_ERROR",
			"failed to increment visits",
			err,
		)
	}

	return link, nil
}

func scanLink(row *sql.Row) (*model.Link, error) {
	link := &model.Link{}
	var createdAt isoTime

	err := row.Scan(
		&link.ID,
		&link.Original,
		&link.Short,
		&link.Visits,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	link.CreatedAt = time.Time(createdAt)
	return link, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// isoTime reads created_at whether the driver hands back text or a time value.
type isoTime time.Time

func (t *isoTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = isoTime(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		return fmt.Errorf("created_at is NULL")
	default:
		return fmt.Errorf("unsupported created_at type %T", src)
	}
}

func (t *isoTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid created_at %q: %w", s, err)
	}
	*t = isoTime(parsed.UTC())
	return nil
}
