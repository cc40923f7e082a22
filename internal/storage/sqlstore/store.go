// Package sqlstore holds the queries shared by the SQLite and PostgreSQL backends.
// Queries are written with ? placeholders and rebound for the target dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/storage"
)

// Dialect selects placeholder style and locking clauses
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db        *sql.DB
	dialect   Dialect
	txTimeout time.Duration
}

// New wraps an open database. A zero txTimeout uses the default.
func New(db *sql.DB, dialect Dialect, txTimeout time.Duration) *Store {
	if txTimeout <= 0 {
		txTimeout = constants.DefaultTxTimeout
	}
	return &Store{db: db, dialect: dialect, txTimeout: txTimeout}
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside a transaction with the store's timeout applied to ctx.
// Errors from fn are returned unchanged; begin and commit failures are transient.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Transient("Database error", fmt.Errorf("begin transaction: %w", err))
	}

	if err := fn(ctx, &txStore{tx: sqlTx, dialect: s.dialect}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return errors.Transient("Database error", fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// txStore implements storage.Tx on top of a live transaction
type txStore struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *txStore) q() queryer {
	return t.tx
}

func (s *Store) q() queryer {
	return s.db
}

// Rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres {
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

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}
