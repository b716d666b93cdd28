package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Row is one result row keyed by column name. Byte slices are converted to
// strings at scan time; temporal values keep their time.Time representation.
type Row map[string]any

// Store wraps a SQL connection pool with the small query surface the
// metadata engine consumes.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

func New(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// EscapeIdentifier quotes a MySQL identifier, doubling embedded backticks.
func EscapeIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// EscapeIdentifier exposes identifier quoting on the store instance for
// collaborators that only hold the interface surface.
func (s *Store) EscapeIdentifier(name string) string {
	return EscapeIdentifier(name)
}

// RawQuery runs a parameterized statement and scans every row.
func (s *Store) RawQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	s.log.Debug().Str("query", query).Msg("raw query")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// BuiltQuery hands a fresh Builder to the callback and runs whatever it
// assembled.
func (s *Store) BuiltQuery(ctx context.Context, build func(*Builder)) ([]Row, error) {
	b := NewBuilder()
	build(b)
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}
	return s.RawQuery(ctx, query, args...)
}

// Tx is the statement surface available inside a transaction.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

// Transaction runs work inside one transaction on a single pooled
// connection. Any error from work rolls everything back; partial writes are
// never observable.
func (s *Store) Transaction(ctx context.Context, work func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := work(&sqlTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
