package models

import (
	"time"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

// Account is a registered user. PasswordHash is persisted but never rendered;
// handlers respond with AccountResponse.
type Account struct {
	ID           id.AccountID `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	AvatarURL    string       `json:"avatar_url"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Registration holds normalized registration input.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Credentials holds normalized login input.
type Credentials struct {
	Email    string
	Password string
}

// TokenResult is returned by register and login.
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
}
