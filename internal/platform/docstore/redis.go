package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
)

const redisKeyPrefix = "devconnector"

// RedisStore keeps one JSON string per document, a set of ids per collection
// and one key per unique index value. Writes run inside WATCH/MULTI and are
// retried on redis.TxFailedErr under the configured RetryPolicy.
type RedisStore[T any] struct {
	client *redis.Client
	c      Collection[T]
	opts   options
}

func NewRedis[T any](client *redis.Client, c Collection[T], opts ...Option) (*RedisStore[T], error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &RedisStore[T]{client: client, c: c, opts: buildOptions(opts)}, nil
}

func (s *RedisStore[T]) docKey(id string) string {
	return fmt.Sprintf("%s:%s:doc:%s", redisKeyPrefix, s.c.Name, id)
}

func (s *RedisStore[T]) idsKey() string {
	return fmt.Sprintf("%s:%s:ids", redisKeyPrefix, s.c.Name)
}

func (s *RedisStore[T]) uniqKey(index, value string) string {
	return fmt.Sprintf("%s:%s:uniq:%s:%s", redisKeyPrefix, s.c.Name, index, value)
}

func (s *RedisStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	raw, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", s.c.Name, id, err)
	}
	return decode[T](raw)
}

func (s *RedisStore[T]) FindOne(ctx context.Context, index, value string) (*T, error) {
	if _, ok := s.c.index(index); !ok {
		return nil, fmt.Errorf("docstore: unknown index %q on %s", index, s.c.Name)
	}
	id, err := s.client.Get(ctx, s.uniqKey(index, value)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s by %s: %w", s.c.Name, index, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s by %s: %w", s.c.Name, index, err)
	}
	return s.FindByID(ctx, id)
}

func (s *RedisStore[T]) List(ctx context.Context) ([]*T, error) {
	ids, err := s.client.SMembers(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w", s.c.Name, err)
	}
	if len(ids) == 0 {
		return []*T{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.c.Name, err)
	}

	out := make([]*T, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// removed between SMEMBERS and MGET
			continue
		}
		doc, err := decode[T]([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *RedisStore[T]) Save(ctx context.Context, doc *T) error {
	id := s.c.ID(doc)
	raw, err := encode(doc)
	if err != nil {
		return err
	}

	return s.retry(ctx, func() error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			var old *T
			prev, err := tx.Get(ctx, s.docKey(id)).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return err
			default:
				if old, err = decode[T](prev); err != nil {
					return err
				}
			}
			return s.commit(ctx, tx, id, old, doc, raw)
		}, s.docKey(id))
	})
}

func (s *RedisStore[T]) Remove(ctx context.Context, id string) error {
	return s.retry(ctx, func() error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			prev, err := tx.Get(ctx, s.docKey(id)).Bytes()
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
			}
			if err != nil {
				return err
			}
			old, err := decode[T](prev)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, s.docKey(id))
				pipe.SRem(ctx, s.idsKey(), id)
				for _, idx := range s.c.Indexes {
					if v := idx.Value(old); v != "" {
						pipe.Del(ctx, s.uniqKey(idx.Name, v))
					}
				}
				return nil
			})
			return err
		}, s.docKey(id))
	})
}

func (s *RedisStore[T]) Update(ctx context.Context, id string, fn func(doc *T) error) (*T, error) {
	start := time.Now()
	defer s.opts.observer.ObserveStoreUpdate("redis", s.c.Name, start)

	var result *T
	err := s.retry(ctx, func() error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			prev, err := tx.Get(ctx, s.docKey(id)).Bytes()
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
			}
			if err != nil {
				return err
			}
			old, err := decode[T](prev)
			if err != nil {
				return err
			}
			doc, err := decode[T](prev)
			if err != nil {
				return err
			}
			if err := fn(doc); err != nil {
				return err
			}
			if got := s.c.ID(doc); got != id {
				return fmt.Errorf("docstore: update changed %s id %s to %s", s.c.Name, id, got)
			}
			raw, err := encode(doc)
			if err != nil {
				return err
			}
			if err := s.commit(ctx, tx, id, old, doc, raw); err != nil {
				return err
			}
			result = doc
			return nil
		}, s.docKey(id))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// commit watches the unique keys doc will claim, verifies they are free, and
// writes doc in a MULTI block. Stale unique keys held by old are released.
func (s *RedisStore[T]) commit(ctx context.Context, tx *redis.Tx, id string, old, doc *T, raw []byte) error {
	var claim, release []string
	for _, idx := range s.c.Indexes {
		next := idx.Value(doc)
		if next != "" {
			claim = append(claim, s.uniqKey(idx.Name, next))
		}
		if old != nil {
			if prev := idx.Value(old); prev != "" && prev != next {
				release = append(release, s.uniqKey(idx.Name, prev))
			}
		}
	}

	if len(claim) > 0 {
		if err := tx.Watch(ctx, claim...).Err(); err != nil {
			return err
		}
		owners, err := tx.MGet(ctx, claim...).Result()
		if err != nil {
			return err
		}
		for i, owner := range owners {
			if o, ok := owner.(string); ok && o != id {
				return fmt.Errorf("%s %s: %w", s.c.Name, claim[i], sentinel.ErrConflict)
			}
		}
	}

	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(id), raw, 0)
		pipe.SAdd(ctx, s.idsKey(), id)
		for _, k := range claim {
			pipe.Set(ctx, k, id, 0)
		}
		if len(release) > 0 {
			pipe.Del(ctx, release...)
		}
		return nil
	})
	return err
}

func (s *RedisStore[T]) retry(ctx context.Context, op func() error) error {
	return withRetry(ctx, s.opts.retry, func() {
		s.opts.observer.IncrementStoreRetry("redis", s.c.Name)
	}, func() error {
		err := op()
		if errors.Is(err, redis.TxFailedErr) {
			return errContention
		}
		return err
	})
}
