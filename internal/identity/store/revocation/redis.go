package revocation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

const keyPrefix = "devconnector:revoked:"

// Redis shares revocations across instances. Keys expire after the token TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) RevokeAccount(ctx context.Context, accountID id.AccountID, at time.Time) error {
	value := strconv.FormatInt(at.UnixNano(), 10)
	if err := s.client.Set(ctx, keyPrefix+accountID.String(), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("revoke account: %w", err)
	}
	return nil
}

func (s *Redis) IsAccountRevoked(ctx context.Context, accountID id.AccountID, issuedAt time.Time) (bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+accountID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check account revocation: %w", err)
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation time: %w", err)
	}
	return covers(time.Unix(0, nanos), issuedAt), nil
}
