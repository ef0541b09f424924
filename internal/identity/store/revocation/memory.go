// Package revocation records deleted accounts so tokens issued to them before
// the deletion stop authenticating.
package revocation

import (
	"context"
	"sync"
	"time"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

type entry struct {
	revokedAt time.Time
	expiresAt time.Time
}

// InMemory keeps revocations in a map. Entries expire once every token they
// could reject has expired on its own.
type InMemory struct {
	mu      sync.RWMutex
	entries map[id.AccountID]entry
	ttl     time.Duration
	clock   Clock
}

func NewInMemory(ttl time.Duration) *InMemory {
	return &InMemory{entries: make(map[id.AccountID]entry), ttl: ttl, clock: time.Now}
}

func (s *InMemory) RevokeAccount(_ context.Context, accountID id.AccountID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[accountID] = entry{revokedAt: at, expiresAt: at.Add(s.ttl)}
	return nil
}

func (s *InMemory) IsAccountRevoked(_ context.Context, accountID id.AccountID, issuedAt time.Time) (bool, error) {
	s.mu.RLock()
	e, ok := s.entries[accountID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.clock().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, accountID)
		s.mu.Unlock()
		return false, nil
	}
	return covers(e.revokedAt, issuedAt), nil
}

// covers reports whether a revocation at revokedAt applies to a token issued
// at issuedAt. Token iat has second precision, so the comparison is made at
// that precision.
func covers(revokedAt, issuedAt time.Time) bool {
	return !issuedAt.Truncate(time.Second).After(revokedAt.Truncate(time.Second))
}
