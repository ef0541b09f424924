package models

import (
	"time"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

// Post is a short text post. The author's name and avatar are copied at
// creation time.
type Post struct {
	ID           id.PostID    `json:"id"`
	Text         string       `json:"text"`
	AuthorID     id.AccountID `json:"author_id"`
	AuthorName   string       `json:"name"`
	AuthorAvatar string       `json:"avatar_url"`
	CreatedAt    time.Time    `json:"created_at"`
	Likes        []Like       `json:"likes"`
	Comments     []Comment    `json:"comments"`
}

func (p *Post) OwnerID() id.AccountID { return p.AuthorID }

// Like marks that an account likes a post. A post holds at most one like per
// account.
type Like struct {
	AccountID id.AccountID `json:"account_id"`
}

func (l Like) Key() id.AccountID { return l.AccountID }

type Comment struct {
	ID           id.CommentID `json:"id"`
	AuthorID     id.AccountID `json:"author_id"`
	AuthorName   string       `json:"name"`
	AuthorAvatar string       `json:"avatar_url"`
	Text         string       `json:"text"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (c Comment) OwnerID() id.AccountID { return c.AuthorID }

func (c Comment) Key() id.CommentID { return c.ID }
