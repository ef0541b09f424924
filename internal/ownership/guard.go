// Package ownership decides whether an identity may act on an owned resource.
// It is a pure function of already-loaded state and does no I/O.
package ownership

import (
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
)

type Action string

const (
	ActionDeletePost    Action = "post.delete"
	ActionDeleteComment Action = "comment.delete"
	ActionEditProfile   Action = "profile.edit"
	ActionAddEntry      Action = "profile.entry.add"
	ActionRemoveEntry   Action = "profile.entry.remove"
	ActionLike          Action = "post.like"
	ActionUnlike        Action = "post.unlike"
	ActionComment       Action = "comment.create"
)

type Decision int

const (
	Forbidden Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "forbidden"
}

// Owned is implemented by posts, comments and profiles.
type Owned interface {
	OwnerID() id.AccountID
}

// openActions are allowed for any authenticated identity.
var openActions = map[Action]bool{
	ActionLike:    true,
	ActionUnlike:  true,
	ActionComment: true,
}

// Authorize allows open actions for any non-nil identity and every other
// action only when the identity owns the resource. Unknown actions are
// forbidden.
func Authorize(identity id.AccountID, resource Owned, action Action) Decision {
	if identity.IsNil() {
		return Forbidden
	}
	if openActions[action] {
		return Allowed
	}
	switch action {
	case ActionDeletePost, ActionDeleteComment, ActionEditProfile, ActionAddEntry, ActionRemoveEntry:
		if resource != nil && resource.OwnerID() == identity {
			return Allowed
		}
	}
	return Forbidden
}

// Check is Authorize returning a forbidden domain error instead of a
// Decision.
func Check(identity id.AccountID, resource Owned, action Action) error {
	if Authorize(identity, resource, action) == Allowed {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "user not authorized")
}
