package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham1542-dev/Dev-Connector/internal/platform/config"
)

func TestApplyPool(t *testing.T) {
	t.Run("non-zero settings override the URL", func(t *testing.T) {
		opts, err := redis.ParseURL("redis://localhost:6379/0")
		require.NoError(t, err)

		applyPool(opts, config.RedisConfig{PoolSize: 7, MinIdleConns: 2, ReadTimeout: time.Second})

		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 2, opts.MinIdleConns)
		assert.Equal(t, time.Second, opts.ReadTimeout)
	})

	t.Run("zero settings keep the client defaults", func(t *testing.T) {
		opts, err := redis.ParseURL("redis://localhost:6379/0?dial_timeout=9s")
		require.NoError(t, err)

		applyPool(opts, config.RedisConfig{})

		assert.Equal(t, 9*time.Second, opts.DialTimeout)
		assert.Zero(t, opts.PoolSize)
	})
}

func TestOpenRejectsMissingURL(t *testing.T) {
	_, err := Open(context.Background(), config.RedisConfig{})
	require.Error(t, err)
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	require.ErrorContains(t, err, "parse redis URL")
}
