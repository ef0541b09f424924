// Package store declares how accounts are persisted in the document store.
package store

import (
	"github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
)

// EmailIndex is the unique index used to find accounts at login.
const EmailIndex = "email"

func Collection() docstore.Collection[models.Account] {
	return docstore.Collection[models.Account]{
		Name: "accounts",
		ID:   func(a *models.Account) string { return a.ID.String() },
		Indexes: []docstore.Index[models.Account]{
			{Name: EmailIndex, Field: "email", Value: func(a *models.Account) string { return a.Email }},
		},
	}
}

func NewInMemory() (*docstore.MemoryStore[models.Account], error) {
	return docstore.NewMemory(Collection())
}
