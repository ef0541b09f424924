// Package store declares how posts are persisted in the document store.
package store

import (
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/internal/post/models"
)

func Collection() docstore.Collection[models.Post] {
	return docstore.Collection[models.Post]{
		Name: "posts",
		ID:   func(p *models.Post) string { return p.ID.String() },
	}
}

func NewInMemory() (*docstore.MemoryStore[models.Post], error) {
	return docstore.NewMemory(Collection())
}
