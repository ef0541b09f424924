package docstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
)

type MemoryStoreSuite struct {
	suite.Suite
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) TestContract() {
	runStoreContract(s.T(), func(t *testing.T) docstore.Store[note] {
		store, err := docstore.NewMemory(noteCollection("notes"))
		require.NoError(t, err)
		return store
	})
}

func (s *MemoryStoreSuite) TestReturnedDocumentsAreCopies() {
	store, err := docstore.NewMemory(noteCollection("notes"))
	s.Require().NoError(err)
	ctx := context.Background()

	n := newNote("owner")
	n.Tags = []string{"a"}
	s.Require().NoError(store.Save(ctx, n))

	got, err := store.FindByID(ctx, n.ID)
	s.Require().NoError(err)
	got.Tags[0] = "mutated"

	again, err := store.FindByID(ctx, n.ID)
	s.Require().NoError(err)
	s.Equal([]string{"a"}, again.Tags)
}

func (s *MemoryStoreSuite) TestUpdateRejectsIDChange() {
	store, err := docstore.NewMemory(noteCollection("notes"))
	s.Require().NoError(err)
	ctx := context.Background()

	n := newNote("owner")
	s.Require().NoError(store.Save(ctx, n))

	_, err = store.Update(ctx, n.ID, func(doc *note) error {
		doc.ID = "other"
		return nil
	})
	s.Require().Error(err)
}

func (s *MemoryStoreSuite) TestInvalidCollection() {
	s.Run("bad name", func() {
		_, err := docstore.NewMemory(docstore.Collection[note]{Name: "Notes; DROP", ID: func(n *note) string { return n.ID }})
		s.Error(err)
	})
	s.Run("missing id func", func() {
		_, err := docstore.NewMemory(docstore.Collection[note]{Name: "notes"})
		s.Error(err)
	})
}

func TestCanceledContextStopsUpdate(t *testing.T) {
	store, err := docstore.NewMemory(noteCollection("notes"))
	require.NoError(t, err)

	n := newNote("owner")
	require.NoError(t, store.Save(context.Background(), n))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err = store.Update(ctx, n.ID, func(*note) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
