//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	"github.com/shubham1542-dev/Dev-Connector/pkg/testutil/containers"
)

type checker interface {
	RevokeAccount(ctx context.Context, accountID id.AccountID, at time.Time) error
	IsAccountRevoked(ctx context.Context, accountID id.AccountID, issuedAt time.Time) (bool, error)
}

type RevocationIntegrationSuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	postgres *containers.PostgresContainer
}

func TestRevocationIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RevocationIntegrationSuite))
}

func (s *RevocationIntegrationSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.postgres = mgr.GetPostgres(s.T())
}

func (s *RevocationIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))
	s.Require().NoError(s.postgres.TruncateTables(ctx, "account_revocations"))
}

func (s *RevocationIntegrationSuite) TestRedis() {
	s.exercise(NewRedis(s.redis.Client, time.Hour))
}

func (s *RevocationIntegrationSuite) TestPostgres() {
	store := NewPostgres(s.postgres.Pool, time.Hour)
	s.Require().NoError(store.EnsureSchema(context.Background()))
	s.exercise(store)
}

func (s *RevocationIntegrationSuite) exercise(store checker) {
	ctx := context.Background()
	now := time.Now().UTC()
	accountID := id.NewAccountID()

	ok, err := store.IsAccountRevoked(ctx, accountID, now)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(store.RevokeAccount(ctx, accountID, now))

	ok, err = store.IsAccountRevoked(ctx, accountID, now.Add(-time.Minute))
	s.Require().NoError(err)
	s.True(ok)

	ok, err = store.IsAccountRevoked(ctx, accountID, now.Add(5*time.Second))
	s.Require().NoError(err)
	s.False(ok)
}
