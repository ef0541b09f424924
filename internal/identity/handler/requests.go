package handler

import (
	"strings"

	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/email"
)

const minPasswordLength = 6

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
}

func (r *RegisterRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 100 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 100 characters")
	}
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "please include a valid email")
	}
	if len(r.Password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "please enter a password with 6 or more characters")
	}
	if len(r.Password) > 72 {
		// bcrypt ignores input past 72 bytes
		return dErrors.New(dErrors.CodeValidation, "password must be at most 72 bytes")
	}
	return nil
}

// LoginRequest is the body of POST /api/auth.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
}

func (r *LoginRequest) Validate() error {
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "please include a valid email")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}
