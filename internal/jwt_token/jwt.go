package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
)

// Claims are the JWT claims carried by identity tokens.
type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// Identity is the verified caller.
type Identity struct {
	AccountID id.AccountID
	IssuedAt  time.Time
}

// Config is fixed at construction; the service never reads the environment.
type Config struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	TTL        time.Duration
}

// JWTService signs and verifies HS256 identity tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	ttl        time.Duration
	parser     *jwt.Parser
	now        func() time.Time
}

func NewJWTService(cfg Config) (*JWTService, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("jwt: signing key is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("jwt: token TTL must be positive")
	}
	s := &JWTService{
		signingKey: append([]byte(nil), cfg.SigningKey...),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		ttl:        cfg.TTL,
		now:        time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// IssueToken signs a token for accountID valid for the configured TTL.
func (s *JWTService) IssueToken(accountID id.AccountID) (string, time.Time, error) {
	return s.issue(accountID, s.ttl)
}

func (s *JWTService) issue(accountID id.AccountID, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: accountID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry. Every
// failure is an unauthorized domain error; an empty token is one too.
func (s *JWTService) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "missing token")
	}

	claims := &Claims{}
	parsed, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token has expired")
		}
		return Identity{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	accountID, err := id.ParseAccountID(claims.AccountID)
	if err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token claims")
	}
	return Identity{AccountID: accountID, IssuedAt: claims.IssuedAt.Time}, nil
}
