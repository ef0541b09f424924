package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
)

// SQLSTATE codes the Postgres backend treats specially.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// PostgresStore keeps each document as a JSONB row. Update locks the row with
// SELECT ... FOR UPDATE, so concurrent updates on one id queue behind each
// other; a lock wait longer than lockTimeout is retried under the
// RetryPolicy.
type PostgresStore[T any] struct {
	pool        *pgxpool.Pool
	c           Collection[T]
	opts        options
	lockTimeout time.Duration
}

func NewPostgres[T any](pool *pgxpool.Pool, c Collection[T], lockTimeout time.Duration, opts ...Option) (*PostgresStore[T], error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if lockTimeout <= 0 {
		lockTimeout = 2 * time.Second
	}
	return &PostgresStore[T]{pool: pool, c: c, opts: buildOptions(opts), lockTimeout: lockTimeout}, nil
}

// EnsureSchema creates the collection table and its unique expression
// indexes if they do not exist.
func (s *PostgresStore[T]) EnsureSchema(ctx context.Context) error {
	stmts := []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, s.c.Name)}
	for _, idx := range s.c.Indexes {
		stmts = append(stmts, fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s_%s_key ON %s ((doc->>'%s'))`,
			s.c.Name, idx.Name, s.c.Name, idx.Field,
		))
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema for %s: %w", s.c.Name, err)
		}
	}
	return nil
}

func (s *PostgresStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, s.c.Name), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %s: %w", s.c.Name, id, err)
	}
	return decode[T](raw)
}

func (s *PostgresStore[T]) FindOne(ctx context.Context, index, value string) (*T, error) {
	idx, ok := s.c.index(index)
	if !ok {
		return nil, fmt.Errorf("docstore: unknown index %q on %s", index, s.c.Name)
	}
	var raw []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE doc->>'%s' = $1`, s.c.Name, idx.Field)
	err := s.pool.QueryRow(ctx, query, value).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s by %s: %w", s.c.Name, index, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", s.c.Name, index, err)
	}
	return decode[T](raw)
}

func (s *PostgresStore[T]) List(ctx context.Context) ([]*T, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY id`, s.c.Name))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.c.Name, err)
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.c.Name, err)
		}
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.c.Name, err)
	}
	return out, nil
}

func (s *PostgresStore[T]) Save(ctx context.Context, doc *T) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`, s.c.Name)
	if _, err := s.pool.Exec(ctx, query, s.c.ID(doc), raw); err != nil {
		return s.translate(err, "save")
	}
	return nil
}

func (s *PostgresStore[T]) Remove(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.c.Name), id)
	if err != nil {
		return fmt.Errorf("remove %s %s: %w", s.c.Name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore[T]) Update(ctx context.Context, id string, fn func(doc *T) error) (*T, error) {
	start := time.Now()
	defer s.opts.observer.ObserveStoreUpdate("postgres", s.c.Name, start)

	var result *T
	err := withRetry(ctx, s.opts.retry, func() {
		s.opts.observer.IncrementStoreRetry("postgres", s.c.Name)
	}, func() error {
		doc, err := s.updateOnce(ctx, id, fn)
		if err != nil {
			return err
		}
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore[T]) updateOnce(ctx context.Context, id string, fn func(doc *T) error) (*T, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin update %s: %w", s.c.Name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET LOCAL does not take bind parameters.
	if _, err := tx.Exec(ctx, fmt.Sprintf(`SET LOCAL lock_timeout = %d`, s.lockTimeout.Milliseconds())); err != nil {
		return nil, fmt.Errorf("set lock timeout: %w", err)
	}

	var raw []byte
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1 FOR UPDATE`, s.c.Name), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, s.translate(err, "lock")
	}

	doc, err := decode[T](raw)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if got := s.c.ID(doc); got != id {
		return nil, fmt.Errorf("docstore: update changed %s id %s to %s", s.c.Name, id, got)
	}
	next, err := encode(doc)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE %s SET doc = $2, updated_at = now() WHERE id = $1`, s.c.Name), id, next); err != nil {
		return nil, s.translate(err, "update")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, s.translate(err, "commit")
	}
	return doc, nil
}

// translate maps Postgres errors onto sentinels and the retryable
// contention marker.
func (s *PostgresStore[T]) translate(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s %s: %w", op, s.c.Name, sentinel.ErrConflict)
		case pgLockNotAvailable, pgSerializationFailure, pgDeadlockDetected:
			return errContention
		}
	}
	return fmt.Errorf("%s %s: %w", op, s.c.Name, err)
}
