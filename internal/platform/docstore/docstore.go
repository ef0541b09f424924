// Package docstore persists JSON documents with atomic single-document
// updates. Each backend serializes concurrent Update calls on the same id and
// lets updates on different ids proceed in parallel.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Store is the persistence contract shared by every backend.
type Store[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	// FindOne looks a document up through a unique index.
	FindOne(ctx context.Context, index, value string) (*T, error)
	List(ctx context.Context) ([]*T, error)
	// Save inserts or replaces the document. A unique index value already
	// held by another document yields sentinel.ErrConflict.
	Save(ctx context.Context, doc *T) error
	Remove(ctx context.Context, id string) error
	// Update applies fn to the persisted document and writes the result back
	// as one indivisible step. If fn returns an error nothing is written and
	// the error is returned unchanged.
	Update(ctx context.Context, id string, fn func(doc *T) error) (*T, error)
}

// Index declares a unique secondary key over documents of type T.
type Index[T any] struct {
	Name string
	// Field is the top-level JSON field holding the value; the Postgres
	// backend indexes it as an expression.
	Field string
	Value func(doc *T) string
}

// Collection describes how documents of type T are keyed.
type Collection[T any] struct {
	Name    string
	ID      func(doc *T) string
	Indexes []Index[T]
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func (c Collection[T]) validate() error {
	if !identifier.MatchString(c.Name) {
		return fmt.Errorf("docstore: invalid collection name %q", c.Name)
	}
	if c.ID == nil {
		return fmt.Errorf("docstore: collection %s has no id function", c.Name)
	}
	for _, idx := range c.Indexes {
		if !identifier.MatchString(idx.Name) || !identifier.MatchString(idx.Field) || idx.Value == nil {
			return fmt.Errorf("docstore: invalid index %q on %s", idx.Name, c.Name)
		}
	}
	return nil
}

func (c Collection[T]) index(name string) (Index[T], bool) {
	for _, idx := range c.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return Index[T]{}, false
}

// Observer receives store-level measurements. *metrics.Metrics implements it.
type Observer interface {
	IncrementStoreRetry(backend, collection string)
	ObserveStoreUpdate(backend, collection string, start time.Time)
}

type nopObserver struct{}

func (nopObserver) IncrementStoreRetry(string, string)           {}
func (nopObserver) ObserveStoreUpdate(string, string, time.Time) {}

type options struct {
	retry    RetryPolicy
	observer Observer
}

// Option configures the Redis and Postgres backends.
type Option func(*options)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *options) { o.retry = p }
}

func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{retry: DefaultRetryPolicy(), observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func encode[T any](doc *T) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

func decode[T any](raw []byte) (*T, error) {
	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
