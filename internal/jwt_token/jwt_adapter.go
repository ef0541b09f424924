package jwttoken

import (
	authmw "github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/auth"
)

// JWTServiceAdapter exposes JWTService through the auth middleware's
// TokenVerifier interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) VerifyToken(raw string) (*authmw.VerifiedToken, error) {
	identity, err := a.service.Verify(raw)
	if err != nil {
		return nil, err
	}
	return &authmw.VerifiedToken{AccountID: identity.AccountID, IssuedAt: identity.IssuedAt}, nil
}
