// Package store declares how profiles are persisted in the document store.
package store

import (
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
)

// AccountIndex enforces one profile per account.
const AccountIndex = "account_id"

func Collection() docstore.Collection[models.Profile] {
	return docstore.Collection[models.Profile]{
		Name: "profiles",
		ID:   func(p *models.Profile) string { return p.ID.String() },
		Indexes: []docstore.Index[models.Profile]{
			{Name: AccountIndex, Field: "account_id", Value: func(p *models.Profile) string { return p.AccountID.String() }},
		},
	}
}

func NewInMemory() (*docstore.MemoryStore[models.Profile], error) {
	return docstore.NewMemory(Collection())
}
