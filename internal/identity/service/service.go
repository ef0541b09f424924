// Package service implements registration, login and account deletion.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/identity/store"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/metrics"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/email"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/publisher"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

var (
	errEmailTaken         = dErrors.New(dErrors.CodeConflict, "user already exists")
	errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	errAccountNotFound    = dErrors.New(dErrors.CodeNotFound, "user not found")
)

// TokenIssuer signs access tokens for an account.
type TokenIssuer interface {
	IssueToken(accountID id.AccountID) (string, time.Time, error)
}

// ProfileRemover deletes the profile owned by an account. A missing profile
// is not an error.
type ProfileRemover interface {
	RemoveByAccount(ctx context.Context, accountID id.AccountID) error
}

// Revoker invalidates tokens issued to an account up to a point in time.
type Revoker interface {
	RevokeAccount(ctx context.Context, accountID id.AccountID, at time.Time) error
}

// AuditPublisher records security and compliance events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	accounts    docstore.Store[models.Account]
	tokens      TokenIssuer
	profiles    ProfileRemover
	revocations Revoker
	auditor     AuditPublisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	bcryptCost  int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBcryptCost lowers the hashing cost in tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func New(accounts docstore.Store[models.Account], tokens TokenIssuer, profiles ProfileRemover, revocations Revoker, opts ...Option) (*Service, error) {
	if accounts == nil || tokens == nil || profiles == nil || revocations == nil {
		return nil, errors.New("identity service: accounts, tokens, profiles and revocations are required")
	}
	s := &Service{
		accounts:    accounts,
		tokens:      tokens,
		profiles:    profiles,
		revocations: revocations,
		logger:      slog.Default(),
		tracer:      otel.Tracer("devconnector/identity"),
		bcryptCost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an account and returns a token for it. The email must not
// belong to another account.
func (s *Service) Register(ctx context.Context, reg models.Registration) (*models.TokenResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Register")
	defer span.End()

	address := email.Normalize(reg.Email)
	if _, err := s.accounts.FindOne(ctx, store.EmailIndex, address); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password"))
	}

	account := &models.Account{
		ID:           id.NewAccountID(),
		Name:         reg.Name,
		Email:        address,
		PasswordHash: string(hash),
		AvatarURL:    email.AvatarURL(address),
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, errEmailTaken
		}
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save account"))
	}
	span.SetAttributes(attribute.String("account.id", account.ID.String()))

	result, err := s.issue(account.ID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	s.metrics.IncrementAccountsRegistered()
	s.emit(ctx, audit.EventAccountRegistered, account.ID, account.ID.String())
	return result, nil
}

// Login checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.TokenResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Login")
	defer span.End()

	account, err := s.accounts.FindOne(ctx, store.EmailIndex, email.Normalize(creds.Email))
	if errors.Is(err, sentinel.ErrNotFound) {
		s.emitWithReason(ctx, audit.EventLoginFailed, id.AccountID{}, "unknown_email")
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		s.emitWithReason(ctx, audit.EventLoginFailed, account.ID, "bad_password")
		return nil, errInvalidCredentials
	}

	result, err := s.issue(account.ID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return result, nil
}

// Account returns the stored account. Callers render it without the hash.
func (s *Service) Account(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID.String())
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, errAccountNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return account, nil
}

// DeleteAccount removes the account's profile, then the account, then
// revokes outstanding tokens. Each step is atomic on its own; a failure after
// the profile is gone is logged and audited as a partial deletion.
func (s *Service) DeleteAccount(ctx context.Context, accountID id.AccountID) error {
	ctx, span := s.tracer.Start(ctx, "identity.DeleteAccount",
		trace.WithAttributes(attribute.String("account.id", accountID.String())))
	defer span.End()

	if err := s.profiles.RemoveByAccount(ctx, accountID); err != nil {
		return s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile"))
	}

	if err := s.accounts.Remove(ctx, accountID.String()); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.partial(ctx, accountID, "account_remove_failed", err)
		return s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete account"))
	}

	if err := s.revocations.RevokeAccount(ctx, accountID, requestcontext.Now(ctx)); err != nil {
		s.partial(ctx, accountID, "token_revocation_failed", err)
		return s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke tokens"))
	}

	s.emit(ctx, audit.EventAccountDeleted, accountID, accountID.String())
	return nil
}

func (s *Service) issue(accountID id.AccountID) (*models.TokenResult, error) {
	token, expiresAt, err := s.tokens.IssueToken(accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &models.TokenResult{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) partial(ctx context.Context, accountID id.AccountID, reason string, err error) {
	s.logger.ErrorContext(ctx, "account deletion incomplete",
		"request_id", requestcontext.RequestID(ctx),
		"reason", reason,
		"error", err,
	)
	s.emitWithReason(ctx, audit.EventAccountDeletionPartial, accountID, reason)
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, accountID id.AccountID, resourceID string) {
	s.publish(ctx, audit.Event{AccountID: accountID, Action: string(event), ResourceID: resourceID})
}

func (s *Service) emitWithReason(ctx context.Context, event audit.AuditEvent, accountID id.AccountID, reason string) {
	s.publish(ctx, audit.Event{AccountID: accountID, Action: string(event), Reason: reason})
}

func (s *Service) publish(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	// Dropped events are already logged by the publisher.
	if err := s.auditor.Emit(ctx, event); err != nil && !errors.Is(err, publisher.ErrBufferFull) {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}
