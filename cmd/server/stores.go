package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	identitymodels "github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	identityservice "github.com/shubham1542-dev/Dev-Connector/internal/identity/service"
	identitystore "github.com/shubham1542-dev/Dev-Connector/internal/identity/store"
	"github.com/shubham1542-dev/Dev-Connector/internal/identity/store/revocation"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/config"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/metrics"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/postgres"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/redis"
	postmodels "github.com/shubham1542-dev/Dev-Connector/internal/post/models"
	poststore "github.com/shubham1542-dev/Dev-Connector/internal/post/store"
	profilemodels "github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
	profilestore "github.com/shubham1542-dev/Dev-Connector/internal/profile/store"
	httptransport "github.com/shubham1542-dev/Dev-Connector/internal/transport/http"
	authmw "github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/auth"
)

type revocationStore interface {
	identityservice.Revoker
	authmw.RevocationChecker
}

// stores holds every persistence dependency for the configured backend.
type stores struct {
	accounts    docstore.Store[identitymodels.Account]
	profiles    docstore.Store[profilemodels.Profile]
	posts       docstore.Store[postmodels.Post]
	revocations revocationStore
	health      map[string]httptransport.HealthCheck
	closers     []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// backend is the shared connection the collections are opened on. Both
// fields nil means in-memory.
type backend struct {
	pool        *pgxpool.Pool
	redis       *goredis.Client
	lockTimeout time.Duration
	opts        []docstore.Option
}

func openStores(ctx context.Context, cfg config.Server, m *metrics.Metrics, logger *slog.Logger) (*stores, error) {
	s := &stores{health: map[string]httptransport.HealthCheck{}}
	b := backend{
		lockTimeout: cfg.Postgres.LockTimeout,
		opts: []docstore.Option{
			docstore.WithObserver(m),
			docstore.WithRetryPolicy(docstore.RetryPolicy{
				MaxAttempts: cfg.Storage.RetryAttempts,
				BaseDelay:   cfg.Storage.RetryBaseDelay,
				MaxDelay:    cfg.Storage.RetryMaxDelay,
			}),
		},
	}
	// Revocations only need to outlive the tokens they reject.
	ttl := cfg.Auth.TokenTTL

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.health["postgres"] = pool.Ping
		b.pool = pool

		revocations := revocation.NewPostgres(pool, ttl)
		if err := revocations.EnsureSchema(ctx); err != nil {
			s.close()
			return nil, err
		}
		s.revocations = revocations

	case config.BackendRedis:
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.health["redis"] = redis.HealthCheck(client)
		b.redis = client
		s.revocations = revocation.NewRedis(client, ttl)

	default:
		s.revocations = revocation.NewInMemory(ttl)
	}

	var err error
	if s.accounts, err = openCollection(ctx, b, identitystore.Collection()); err != nil {
		s.close()
		return nil, err
	}
	if s.profiles, err = openCollection(ctx, b, profilestore.Collection()); err != nil {
		s.close()
		return nil, err
	}
	if s.posts, err = openCollection(ctx, b, poststore.Collection()); err != nil {
		s.close()
		return nil, err
	}

	logger.InfoContext(ctx, "document store ready", "backend", cfg.Storage.Backend)
	return s, nil
}

func openCollection[T any](ctx context.Context, b backend, c docstore.Collection[T]) (docstore.Store[T], error) {
	switch {
	case b.pool != nil:
		store, err := docstore.NewPostgres(b.pool, c, b.lockTimeout, b.opts...)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure %s schema: %w", c.Name, err)
		}
		return store, nil
	case b.redis != nil:
		store, err := docstore.NewRedis(b.redis, c, b.opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := docstore.NewMemory(c)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
