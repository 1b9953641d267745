package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// NewPostgres connects to dsn, waits for the server to answer and applies the
// schema.
func NewPostgres(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = pool.Ping(ctx); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{b: &pgBackend{pgQuerier{pool}, pool}}, nil
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type pgQuerier struct {
	q pgxQuerier
}

func (p pgQuerier) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	tag, err := p.q.Exec(ctx, rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p pgQuerier) QueryRow(ctx context.Context, q string, args ...any) row {
	return p.q.QueryRow(ctx, rebind(q), args...)
}

func (p pgQuerier) Query(ctx context.Context, q string, args ...any) (rows, error) {
	return p.q.Query(ctx, rebind(q), args...)
}

type pgBackend struct {
	pgQuerier
	pool *pgxpool.Pool
}

func (b *pgBackend) InTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(pgQuerier{tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (b *pgBackend) IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func (b *pgBackend) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (b *pgBackend) JSONArg(v []byte) any { return v }

func (b *pgBackend) Close() { b.pool.Close() }

// rebind turns "?" placeholders into "$1", "$2", ...
func rebind(q string) string {
	if !strings.Contains(q, "?") {
		return q
	}

	var (
		sb strings.Builder
		n  int
	)
	sb.Grow(len(q) + 8)
	for _, r := range q {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
