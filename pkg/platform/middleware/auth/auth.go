package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/httputil"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

// HeaderToken carries the identity token, API-key style.
const HeaderToken = "x-api-key"

// VerifiedToken is what the middleware needs from a verified token.
type VerifiedToken struct {
	AccountID id.AccountID
	IssuedAt  time.Time
}

type TokenVerifier interface {
	VerifyToken(raw string) (*VerifiedToken, error)
}

// RevocationChecker reports whether tokens issued for an account at issuedAt
// have been revoked, e.g. because the account was deleted.
type RevocationChecker interface {
	IsAccountRevoked(ctx context.Context, accountID id.AccountID, issuedAt time.Time) (bool, error)
}

// FailureRecorder counts rejected requests by reason.
type FailureRecorder interface {
	IncrementAuthFailure(reason string)
}

// RequireAuth rejects the request unless the x-api-key header holds a valid,
// unexpired, unrevoked token. Every rejection writes a response and stops the
// chain. Logs carry the reason and request id, never the token or account.
func RequireAuth(verifier TokenVerifier, revocations RevocationChecker, failures FailureRecorder, logger *slog.Logger) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, r *http.Request, status int, reason, code, desc string, err error) {
		ctx := r.Context()
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		attrs := []any{"reason", reason, "request_id", requestcontext.RequestID(ctx)}
		if err != nil && status >= http.StatusInternalServerError {
			attrs = append(attrs, "error", err)
		}
		logger.Log(ctx, level, "unauthorized access", attrs...)
		if failures != nil {
			failures.IncrementAuthFailure(reason)
		}
		httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: code, ErrorDescription: desc})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(HeaderToken))
			if raw == "" {
				reject(w, r, http.StatusUnauthorized, "missing_token", string(dErrors.CodeUnauthorized), "No token, authorization denied", nil)
				return
			}

			token, err := verifier.VerifyToken(raw)
			if err != nil || token == nil {
				reject(w, r, http.StatusUnauthorized, "invalid_token", string(dErrors.CodeUnauthorized), describe(err), err)
				return
			}

			ctx := r.Context()
			if revocations != nil {
				revoked, err := revocations.IsAccountRevoked(ctx, token.AccountID, token.IssuedAt)
				if err != nil {
					reject(w, r, http.StatusInternalServerError, "revocation_check_failed", string(dErrors.CodeInternal), "", err)
					return
				}
				if revoked {
					reject(w, r, http.StatusUnauthorized, "revoked", string(dErrors.CodeUnauthorized), "Token has been revoked", nil)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithAccountID(ctx, token.AccountID)))
		})
	}
}

func describe(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code == dErrors.CodeUnauthorized {
		return de.Message
	}
	return "Token is not valid"
}
