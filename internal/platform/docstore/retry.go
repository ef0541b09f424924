package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
)

// RetryPolicy bounds how long an atomic update may wait out contention.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, BaseDelay: 5 * time.Millisecond, MaxDelay: 200 * time.Millisecond}
}

// errContention marks an attempt that lost an optimistic race or timed out
// waiting for a row lock. It is the only error retried.
var errContention = errors.New("docstore: contention")

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.BaseDelay
	eb.MaxInterval = p.MaxDelay
	eb.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
}

// withRetry runs op until it succeeds, returns a non-contention error, or the
// policy is exhausted. Exhaustion is reported as sentinel.ErrUnavailable.
func withRetry(ctx context.Context, p RetryPolicy, onRetry func(), op func() error) error {
	err := backoff.RetryNotify(func() error {
		err := op()
		if err == nil || errors.Is(err, errContention) {
			return err
		}
		return backoff.Permanent(err)
	}, p.backOff(ctx), func(error, time.Duration) {
		onRetry()
	})
	if errors.Is(err, errContention) {
		return fmt.Errorf("%w: gave up after %d attempts", sentinel.ErrUnavailable, p.MaxAttempts)
	}
	return err
}
