package testutil

import (
	"context"
	"net/http"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

// WithAccountID adds an account ID to the request context, as RequireAuth
// does for authenticated requests.
func WithAccountID(req *http.Request, accountID id.AccountID) *http.Request {
	return req.WithContext(requestcontext.WithAccountID(req.Context(), accountID))
}

// AuthenticateAs returns middleware that marks every request as coming from
// accountID. Handler tests mount it in place of RequireAuth.
func AuthenticateAs(accountID id.AccountID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, WithAccountID(r, accountID))
		})
	}
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
