package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// NewSQLite opens (or creates) the database file at path and applies the
// schema. Foreign keys are enforced so media and profiles cascade with their
// account.
func NewSQLite(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{b: &sqliteBackend{sqlQuerier{db}, db}}, nil
}

type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type sqlQuerier struct {
	q sqlExecer
}

func (s sqlQuerier) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := s.q.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s sqlQuerier) QueryRow(ctx context.Context, q string, args ...any) row {
	return s.q.QueryRowContext(ctx, q, args...)
}

func (s sqlQuerier) Query(ctx context.Context, q string, args ...any) (rows, error) {
	rs, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rs}, nil
}

// sqlRows drops the error from Close so *sql.Rows matches pgx.Rows.
type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() { r.Rows.Close() }

type sqliteBackend struct {
	sqlQuerier
	db *sql.DB
}

func (b *sqliteBackend) InTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(sqlQuerier{tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (b *sqliteBackend) IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func (b *sqliteBackend) IsUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	return errors.As(err, &sqlErr) &&
		(sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

func (b *sqliteBackend) JSONArg(v []byte) any { return string(v) }

func (b *sqliteBackend) Close() { b.db.Close() }
