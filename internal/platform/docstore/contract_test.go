package docstore_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
)

type note struct {
	ID    string   `json:"id"`
	Owner string   `json:"owner"`
	Tags  []string `json:"tags"`
}

func noteCollection(name string) docstore.Collection[note] {
	return docstore.Collection[note]{
		Name: name,
		ID:   func(n *note) string { return n.ID },
		Indexes: []docstore.Index[note]{
			{Name: "owner", Field: "owner", Value: func(n *note) string { return n.Owner }},
		},
	}
}

func newNote(owner string) *note {
	return &note{ID: uuid.NewString(), Owner: owner}
}

// runStoreContract exercises behavior every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) docstore.Store[note]) {
	ctx := context.Background()

	t.Run("save then find by id and by index", func(t *testing.T) {
		store := newStore(t)
		n := newNote("alice-" + uuid.NewString())
		require.NoError(t, store.Save(ctx, n))

		got, err := store.FindByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.Owner, got.Owner)

		got, err = store.FindOne(ctx, "owner", n.Owner)
		require.NoError(t, err)
		assert.Equal(t, n.ID, got.ID)
	})

	t.Run("missing documents are not found", func(t *testing.T) {
		store := newStore(t)
		_, err := store.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		_, err = store.FindOne(ctx, "owner", "nobody")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		err = store.Remove(ctx, uuid.NewString())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		_, err = store.Update(ctx, uuid.NewString(), func(*note) error { return nil })
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("unique index rejects a second owner", func(t *testing.T) {
		store := newStore(t)
		owner := "bob-" + uuid.NewString()
		require.NoError(t, store.Save(ctx, newNote(owner)))

		err := store.Save(ctx, newNote(owner))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("save replaces an existing document", func(t *testing.T) {
		store := newStore(t)
		n := newNote("carol-" + uuid.NewString())
		require.NoError(t, store.Save(ctx, n))

		n.Tags = []string{"go"}
		require.NoError(t, store.Save(ctx, n))

		got, err := store.FindByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, got.Tags)
	})

	t.Run("failed transform writes nothing and returns its error", func(t *testing.T) {
		store := newStore(t)
		n := newNote("dave-" + uuid.NewString())
		n.Tags = []string{"a", "b"}
		require.NoError(t, store.Save(ctx, n))

		boom := errors.New("boom")
		_, err := store.Update(ctx, n.ID, func(doc *note) error {
			doc.Tags = nil
			return boom
		})
		assert.Same(t, boom, err)

		got, err := store.FindByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got.Tags)
	})

	t.Run("remove frees the unique value", func(t *testing.T) {
		store := newStore(t)
		owner := "erin-" + uuid.NewString()
		n := newNote(owner)
		require.NoError(t, store.Save(ctx, n))
		require.NoError(t, store.Remove(ctx, n.ID))

		_, err := store.FindOne(ctx, "owner", owner)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		require.NoError(t, store.Save(ctx, newNote(owner)))
	})

	t.Run("concurrent updates on one document lose nothing", func(t *testing.T) {
		store := newStore(t)
		n := newNote("frank-" + uuid.NewString())
		require.NoError(t, store.Save(ctx, n))

		const writers = 20
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.Update(ctx, n.ID, func(doc *note) error {
					doc.Tags = append(doc.Tags, fmt.Sprintf("t%d", i))
					return nil
				})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		got, err := store.FindByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Len(t, got.Tags, writers)
	})

	t.Run("list returns saved documents", func(t *testing.T) {
		store := newStore(t)
		a, b := newNote("g-"+uuid.NewString()), newNote("h-"+uuid.NewString())
		require.NoError(t, store.Save(ctx, a))
		require.NoError(t, store.Save(ctx, b))

		all, err := store.List(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(all))
		for _, n := range all {
			ids = append(ids, n.ID)
		}
		assert.Contains(t, ids, a.ID)
		assert.Contains(t, ids, b.ID)
	})
}
