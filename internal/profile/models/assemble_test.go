package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

func TestAssemble(t *testing.T) {
	t.Run("create keeps only provided fields", func(t *testing.T) {
		got := Assemble(nil, ProfileInput{
			Status:  "Developer",
			Skills:  " go, ,react ,go",
			Twitter: "https://twitter.com/jane",
		})

		assert.Equal(t, "Developer", got.Status)
		assert.Equal(t, []string{"go", "react", "go"}, got.Skills)
		assert.Equal(t, Social{Twitter: "https://twitter.com/jane"}, got.Social)
		assert.Empty(t, got.Company)
		assert.Empty(t, got.Bio)
	})

	t.Run("update overwrites provided fields and leaves the rest", func(t *testing.T) {
		entryID := id.NewEntryID()
		existing := &Profile{
			ID:         id.NewProfileID(),
			AccountID:  id.NewAccountID(),
			Company:    "Acme",
			Bio:        "Hello",
			Status:     "Junior",
			Skills:     []string{"go"},
			Social:     Social{YouTube: "yt", LinkedIn: "li"},
			Experience: []Experience{{ID: entryID, Title: "Dev"}},
		}

		got := Assemble(existing, ProfileInput{
			Status:    "Senior",
			LinkedIn:  "li-new",
			Instagram: "ig",
		})

		assert.Equal(t, existing.ID, got.ID)
		assert.Equal(t, existing.AccountID, got.AccountID)
		assert.Equal(t, "Acme", got.Company)
		assert.Equal(t, "Hello", got.Bio)
		assert.Equal(t, "Senior", got.Status)
		assert.Equal(t, []string{"go"}, got.Skills)
		assert.Equal(t, Social{YouTube: "yt", LinkedIn: "li-new", Instagram: "ig"}, got.Social)
		require.Len(t, got.Experience, 1)
		assert.Equal(t, entryID, got.Experience[0].ID)
	})

	t.Run("existing profile is not modified", func(t *testing.T) {
		existing := &Profile{Status: "Junior", Skills: []string{"go"}, Social: Social{Twitter: "tw"}}

		_ = Assemble(existing, ProfileInput{Status: "Senior", Skills: "rust", Twitter: "tw2"})

		assert.Equal(t, "Junior", existing.Status)
		assert.Equal(t, []string{"go"}, existing.Skills)
		assert.Equal(t, "tw", existing.Social.Twitter)
	})

	t.Run("blank skills keep the stored list", func(t *testing.T) {
		got := Assemble(&Profile{Skills: []string{"go", "sql"}}, ProfileInput{Skills: " , "})
		assert.Equal(t, []string{"go", "sql"}, got.Skills)
	})
}
