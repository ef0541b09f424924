// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them directly.
//
//	accountID, ok := requestcontext.AccountID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"

	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
)

type (
	accountIDKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientIPKey    struct{}
	clientLabelKey struct{}
)

// AccountID returns the authenticated account. ok is false on
// unauthenticated requests.
func AccountID(ctx context.Context) (id.AccountID, bool) {
	accountID, ok := ctx.Value(accountIDKey{}).(id.AccountID)
	return accountID, ok && !accountID.IsNil()
}

func WithAccountID(ctx context.Context, accountID id.AccountID) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time, falling back to time.Now() outside
// HTTP requests (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// ClientLabel is a coarse "browser on OS" description derived from the
// User-Agent header.
func ClientLabel(ctx context.Context) string {
	if label, ok := ctx.Value(clientLabelKey{}).(string); ok {
		return label
	}
	return ""
}

// WithClientMetadata injects client IP and label into a context.
func WithClientMetadata(ctx context.Context, clientIP, label string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, clientLabelKey{}, label)
}
