package handler

import (
	"time"

	"github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
)

type TokenResponse struct {
	Token string `json:"token"`
}

// AccountResponse renders an account without its password hash.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"msg"`
}

func FromAccount(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		AvatarURL: a.AvatarURL,
		CreatedAt: a.CreatedAt,
	}
}
