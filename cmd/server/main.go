package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/shubham1542-dev/Dev-Connector/internal/github"
	identityhandler "github.com/shubham1542-dev/Dev-Connector/internal/identity/handler"
	identityservice "github.com/shubham1542-dev/Dev-Connector/internal/identity/service"
	jwttoken "github.com/shubham1542-dev/Dev-Connector/internal/jwt_token"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/config"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/httpserver"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/logger"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/metrics"
	posthandler "github.com/shubham1542-dev/Dev-Connector/internal/post/handler"
	postservice "github.com/shubham1542-dev/Dev-Connector/internal/post/service"
	profilehandler "github.com/shubham1542-dev/Dev-Connector/internal/profile/handler"
	profileservice "github.com/shubham1542-dev/Dev-Connector/internal/profile/service"
	httptransport "github.com/shubham1542-dev/Dev-Connector/internal/transport/http"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/publisher"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/store/kafka"
	auditmemory "github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/store/memory"
)

const (
	auditPartitions  = 3
	auditReplication = 1
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dev-connector: %v\n", err)
		os.Exit(1)
	}
}

// run wires dependencies, serves HTTP, and blocks until SIGINT/SIGTERM or a
// fatal server error.
func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	tokens, err := jwttoken.NewJWTService(jwttoken.Config{
		SigningKey: cfg.Auth.SigningKey,
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		TTL:        cfg.Auth.TokenTTL,
	})
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, m, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer st.close()

	auditStore, err := openAuditStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	if k, ok := auditStore.(*kafka.Store); ok {
		defer k.Close()
		st.health["kafka"] = k.Ping
	}
	auditor := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.Audit.Buffer),
		publisher.WithLogger(log),
	)
	// Runs before the Kafka client closes so queued events are flushed.
	defer auditor.Close()

	repos := github.New(cfg.GitHub, log, github.WithObserver(m))

	profiles := &lateProfiles{}
	identity, err := identityservice.New(st.accounts, tokens, profiles, st.revocations,
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditor),
		identityservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	profiles.service, err = profileservice.New(st.profiles, identity, repos,
		profileservice.WithLogger(log),
		profileservice.WithAuditPublisher(auditor),
		profileservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	posts, err := postservice.New(st.posts, identity,
		postservice.WithLogger(log),
		postservice.WithAuditPublisher(auditor),
		postservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Identity:    identityhandler.New(identity, log),
		Profiles:    profilehandler.New(profiles.service, log),
		Posts:       posthandler.New(posts, log),
		Verifier:    jwttoken.NewJWTServiceAdapter(tokens),
		Revocations: st.revocations,
		Metrics:     m,
		Gatherer:    registry,
		Health:      st.health,
		Logger:      log,
	})
	srv := httpserver.New(cfg.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting dev-connector",
			"addr", cfg.Addr,
			"environment", cfg.Environment,
			"storage_backend", cfg.Storage.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// openAuditStore uses Kafka when brokers are configured and memory otherwise.
func openAuditStore(ctx context.Context, cfg config.Server, log *slog.Logger) (audit.Store, error) {
	if len(cfg.Audit.KafkaBrokers) == 0 {
		log.Warn("no KAFKA_BROKERS configured, audit events stay in memory")
		return auditmemory.NewInMemoryStore(), nil
	}
	store, err := kafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.Topic)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureTopic(ctx, auditPartitions, auditReplication); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// lateProfiles lets the identity service cascade account deletion to the
// profile service, which is built after it because it looks owners up
// through identity.
type lateProfiles struct {
	service *profileservice.Service
}

func (l *lateProfiles) RemoveByAccount(ctx context.Context, accountID id.AccountID) error {
	return l.service.RemoveByAccount(ctx, accountID)
}
