package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

const (
	// TokenHeader carries the identity token, API-key style.
	TokenHeader = "x-api-key"

	minSigningKeyBytes = 32
	devSigningKey      = "dev-secret-key-change-in-production"
)

// Server captures process configuration. It is built once in main and passed
// explicitly to constructors.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration

	Auth     AuthConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	GitHub   GitHubConfig
	Audit    AuditConfig
}

type AuthConfig struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
}

type StorageConfig struct {
	Backend        string
	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type PostgresConfig struct {
	URL         string
	MaxConns    int32
	LockTimeout time.Duration
}

type GitHubConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type AuditConfig struct {
	KafkaBrokers []string
	Topic        string
	Buffer       int
}

// IsLocal reports whether the process runs in a developer environment.
func (s Server) IsLocal() bool {
	return s.Environment == "local"
}

// FromEnv builds a Server config from environment variables, after loading an
// optional .env file from the working directory.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Server{
		Addr:            env("ADDR", ":5000"),
		Environment:     env("ENVIRONMENT", "local"),
		LogLevel:        env("LOG_LEVEL", "info"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Auth: AuthConfig{
			SigningKey: []byte(os.Getenv("JWT_SIGNING_KEY")),
			Issuer:     env("JWT_ISSUER", "dev-connector"),
			Audience:   env("JWT_AUDIENCE", "dev-connector-api"),
			TokenTTL:   envDuration("TOKEN_TTL", time.Hour),
		},
		Storage: StorageConfig{
			Backend:        strings.ToLower(env("STORAGE_BACKEND", BackendMemory)),
			RetryAttempts:  envInt("STORE_RETRY_ATTEMPTS", 5),
			RetryBaseDelay: envDuration("STORE_RETRY_BASE_DELAY", 5*time.Millisecond),
			RetryMaxDelay:  envDuration("STORE_RETRY_MAX_DELAY", 200*time.Millisecond),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:         os.Getenv("DATABASE_URL"),
			MaxConns:    int32(envInt("DATABASE_MAX_CONNS", 10)),
			LockTimeout: envDuration("DATABASE_LOCK_TIMEOUT", 2*time.Second),
		},
		GitHub: GitHubConfig{
			BaseURL:      env("GITHUB_BASE_URL", "https://api.github.com"),
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			Timeout:      envDuration("GITHUB_TIMEOUT", 5*time.Second),
		},
		Audit: AuditConfig{
			KafkaBrokers: envList("KAFKA_BROKERS"),
			Topic:        env("AUDIT_TOPIC", "dev-connector.audit"),
			Buffer:       envInt("AUDIT_BUFFER", 256),
		},
	}

	if len(cfg.Auth.SigningKey) == 0 && cfg.IsLocal() {
		cfg.Auth.SigningKey = []byte(devSigningKey)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (s Server) Validate() error {
	if len(s.Auth.SigningKey) == 0 {
		return errors.New("JWT_SIGNING_KEY is required")
	}
	if !s.IsLocal() && len(s.Auth.SigningKey) < minSigningKeyBytes {
		return fmt.Errorf("JWT_SIGNING_KEY must be at least %d bytes", minSigningKeyBytes)
	}
	if s.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch s.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if s.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis storage backend")
		}
	case BackendPostgres:
		if s.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", s.Storage.Backend)
	}
	if s.Storage.RetryAttempts < 1 {
		return errors.New("STORE_RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
