package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
)

type resource struct{ owner id.AccountID }

func (r resource) OwnerID() id.AccountID { return r.owner }

func TestAuthorize(t *testing.T) {
	owner := id.NewAccountID()
	stranger := id.NewAccountID()
	owned := resource{owner: owner}

	tests := []struct {
		name     string
		identity id.AccountID
		action   Action
		want     Decision
	}{
		{"owner deletes post", owner, ActionDeletePost, Allowed},
		{"stranger deletes post", stranger, ActionDeletePost, Forbidden},
		{"comment author deletes comment", owner, ActionDeleteComment, Allowed},
		{"other user deletes comment", stranger, ActionDeleteComment, Forbidden},
		{"owner edits profile", owner, ActionEditProfile, Allowed},
		{"stranger edits profile", stranger, ActionEditProfile, Forbidden},
		{"stranger removes experience", stranger, ActionRemoveEntry, Forbidden},
		{"stranger likes", stranger, ActionLike, Allowed},
		{"stranger unlikes", stranger, ActionUnlike, Allowed},
		{"stranger comments", stranger, ActionComment, Allowed},
		{"nil identity likes", id.AccountID{}, ActionLike, Forbidden},
		{"unknown action", owner, Action("post.pin"), Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.identity, owned, tt.action))
		})
	}
}

func TestAuthorize_NilResource(t *testing.T) {
	assert.Equal(t, Forbidden, Authorize(id.NewAccountID(), nil, ActionDeletePost))
}

func TestCheck(t *testing.T) {
	owner := id.NewAccountID()

	assert.NoError(t, Check(owner, resource{owner: owner}, ActionDeletePost))

	err := Check(id.NewAccountID(), resource{owner: owner}, ActionDeletePost)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}
