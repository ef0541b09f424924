package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
)

// MemoryStore keeps encoded documents in a map. Writers on the same id are
// serialized by a per-id mutex; the map itself is guarded by mu.
type MemoryStore[T any] struct {
	c Collection[T]

	mu   sync.RWMutex
	docs map[string][]byte
	// uniq maps index name -> value -> owning document id.
	uniq map[string]map[string]string

	locks keyedMutex
}

func NewMemory[T any](c Collection[T]) (*MemoryStore[T], error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	uniq := make(map[string]map[string]string, len(c.Indexes))
	for _, idx := range c.Indexes {
		uniq[idx.Name] = make(map[string]string)
	}
	return &MemoryStore[T]{
		c:     c,
		docs:  make(map[string][]byte),
		uniq:  uniq,
		locks: keyedMutex{locks: make(map[string]*refMutex)},
	}, nil
}

func (s *MemoryStore[T]) FindByID(_ context.Context, id string) (*T, error) {
	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
	}
	return decode[T](raw)
}

func (s *MemoryStore[T]) FindOne(ctx context.Context, index, value string) (*T, error) {
	if _, ok := s.c.index(index); !ok {
		return nil, fmt.Errorf("docstore: unknown index %q on %s", index, s.c.Name)
	}
	s.mu.RLock()
	id, ok := s.uniq[index][value]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s by %s: %w", s.c.Name, index, sentinel.ErrNotFound)
	}
	return s.FindByID(ctx, id)
}

// List returns documents ordered by id; callers apply their own ordering.
func (s *MemoryStore[T]) List(_ context.Context) ([]*T, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raws := make([][]byte, 0, len(ids))
	for _, id := range ids {
		raws = append(raws, s.docs[id])
	}
	s.mu.RUnlock()

	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *MemoryStore[T]) Save(_ context.Context, doc *T) error {
	id := s.c.ID(doc)
	unlock := s.locks.lock(id)
	defer unlock()

	raw, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(id, doc, raw)
}

func (s *MemoryStore[T]) Remove(_ context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
	}
	old, err := decode[T](raw)
	if err != nil {
		return err
	}
	for _, idx := range s.c.Indexes {
		if v := idx.Value(old); v != "" && s.uniq[idx.Name][v] == id {
			delete(s.uniq[idx.Name], v)
		}
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore[T]) Update(ctx context.Context, id string, fn func(doc *T) error) (*T, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	raw, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", s.c.Name, id, sentinel.ErrNotFound)
	}

	doc, err := decode[T](raw)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if got := s.c.ID(doc); got != id {
		return nil, fmt.Errorf("docstore: update changed %s id %s to %s", s.c.Name, id, got)
	}
	next, err := encode(doc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.putLocked(id, doc, next); err != nil {
		return nil, err
	}
	return doc, nil
}

// putLocked writes raw under id and maintains unique indexes. s.mu must be
// held for writing.
func (s *MemoryStore[T]) putLocked(id string, doc *T, raw []byte) error {
	for _, idx := range s.c.Indexes {
		v := idx.Value(doc)
		if owner, taken := s.uniq[idx.Name][v]; v != "" && taken && owner != id {
			return fmt.Errorf("%s %s=%q: %w", s.c.Name, idx.Name, v, sentinel.ErrConflict)
		}
	}

	if prev, ok := s.docs[id]; ok {
		old, err := decode[T](prev)
		if err != nil {
			return err
		}
		for _, idx := range s.c.Indexes {
			if v := idx.Value(old); v != "" && v != idx.Value(doc) {
				delete(s.uniq[idx.Name], v)
			}
		}
	}
	for _, idx := range s.c.Indexes {
		if v := idx.Value(doc); v != "" {
			s.uniq[idx.Name][v] = id
		}
	}
	s.docs[id] = raw
	return nil
}

// keyedMutex hands out one mutex per key and frees it when the last holder
// releases it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
