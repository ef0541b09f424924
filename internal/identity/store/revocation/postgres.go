package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

// Postgres persists revocations next to the document tables.
type Postgres struct {
	pool  *pgxpool.Pool
	ttl   time.Duration
	clock Clock
}

func NewPostgres(pool *pgxpool.Pool, ttl time.Duration) *Postgres {
	return &Postgres{pool: pool, ttl: ttl, clock: time.Now}
}

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS account_revocations (
			account_id TEXT PRIMARY KEY,
			revoked_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create account_revocations: %w", err)
	}
	return nil
}

func (s *Postgres) RevokeAccount(ctx context.Context, accountID id.AccountID, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO account_revocations (account_id, revoked_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET
			revoked_at = EXCLUDED.revoked_at,
			expires_at = EXCLUDED.expires_at`,
		accountID.String(), at, at.Add(s.ttl))
	if err != nil {
		return fmt.Errorf("revoke account: %w", err)
	}
	return nil
}

func (s *Postgres) IsAccountRevoked(ctx context.Context, accountID id.AccountID, issuedAt time.Time) (bool, error) {
	var revokedAt, expiresAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT revoked_at, expires_at FROM account_revocations WHERE account_id = $1`,
		accountID.String(),
	).Scan(&revokedAt, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check account revocation: %w", err)
	}
	if s.clock().After(expiresAt) {
		return false, nil
	}
	return covers(revokedAt, issuedAt), nil
}
