// Package domain holds typed identifiers shared across modules. Each id kind
// is a distinct type so an AccountID can never be passed where a PostID is
// expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
)

type (
	AccountID uuid.UUID
	ProfileID uuid.UUID
	PostID    uuid.UUID
	CommentID uuid.UUID
	// EntryID identifies an experience or education entry within a profile.
	EntryID uuid.UUID
)

func NewAccountID() AccountID { return AccountID(uuid.New()) }
func NewProfileID() ProfileID { return ProfileID(uuid.New()) }
func NewPostID() PostID       { return PostID(uuid.New()) }
func NewCommentID() CommentID { return CommentID(uuid.New()) }
func NewEntryID() EntryID     { return EntryID(uuid.New()) }

func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account id")
	return AccountID(u), err
}

func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID(s, "profile id")
	return ProfileID(u), err
}

func ParsePostID(s string) (PostID, error) {
	u, err := parseUUID(s, "post id")
	return PostID(u), err
}

func ParseCommentID(s string) (CommentID, error) {
	u, err := parseUUID(s, "comment id")
	return CommentID(u), err
}

func ParseEntryID(s string) (EntryID, error) {
	u, err := parseUUID(s, "entry id")
	return EntryID(u), err
}

// parseUUID rejects empty, malformed and nil UUIDs at trust boundaries.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}

func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *AccountID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id ProfileID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *ProfileID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id PostID) String() string { return uuid.UUID(id).String() }
func (id PostID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PostID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *PostID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id CommentID) String() string { return uuid.UUID(id).String() }
func (id CommentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CommentID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *CommentID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id EntryID) String() string { return uuid.UUID(id).String() }
func (id EntryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id EntryID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *EntryID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
