package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewInMemory(time.Hour)
	store.clock = func() time.Time { return now }

	revoked := id.NewAccountID()
	other := id.NewAccountID()
	require.NoError(t, store.RevokeAccount(ctx, revoked, now))

	t.Run("token issued before revocation is rejected", func(t *testing.T) {
		ok, err := store.IsAccountRevoked(ctx, revoked, now.Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("token issued in the same second is rejected", func(t *testing.T) {
		ok, err := store.IsAccountRevoked(ctx, revoked, now.Add(500*time.Millisecond))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("token issued later is accepted", func(t *testing.T) {
		ok, err := store.IsAccountRevoked(ctx, revoked, now.Add(2*time.Second))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other accounts are unaffected", func(t *testing.T) {
		ok, err := store.IsAccountRevoked(ctx, other, now.Add(-time.Minute))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("entry expires after the token ttl", func(t *testing.T) {
		now = now.Add(2 * time.Hour)
		ok, err := store.IsAccountRevoked(ctx, revoked, now.Add(-3*time.Hour))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
