// Package service manages profiles and their experience and education
// entries. Every change to a stored profile runs inside an atomic store
// update with the ownership check evaluated against the persisted document.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/shubham1542-dev/Dev-Connector/internal/github"
	identitymodels "github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/ownership"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/metrics"
	"github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/profile/store"
	"github.com/shubham1542-dev/Dev-Connector/pkg/collection"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/publisher"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

const ownerLookupConcurrency = 8

var (
	errNoProfile          = dErrors.New(dErrors.CodeNotFound, "there is no profile for this user")
	errProfileNotFound    = dErrors.New(dErrors.CodeNotFound, "profile not found")
	errExperienceNotFound = dErrors.New(dErrors.CodeNotFound, "experience not found")
	errEducationNotFound  = dErrors.New(dErrors.CodeNotFound, "education not found")
)

// AccountLookup resolves the owner shown next to a profile.
type AccountLookup interface {
	Account(ctx context.Context, accountID id.AccountID) (*identitymodels.Account, error)
}

// RepoLister fetches public repositories for a GitHub user.
type RepoLister interface {
	Repos(ctx context.Context, username string) ([]github.Repo, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	profiles docstore.Store[models.Profile]
	accounts AccountLookup
	repos    RepoLister
	auditor  AuditPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
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

func New(profiles docstore.Store[models.Profile], accounts AccountLookup, repos RepoLister, opts ...Option) (*Service, error) {
	if profiles == nil || accounts == nil || repos == nil {
		return nil, errors.New("profile service: profiles, accounts and repos are required")
	}
	s := &Service{
		profiles: profiles,
		accounts: accounts,
		repos:    repos,
		logger:   slog.Default(),
		tracer:   otel.Tracer("devconnector/profile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, accountID id.AccountID) (*models.View, error) {
	p, err := s.byAccount(ctx, accountID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, errNoProfile
		}
		return nil, err
	}
	return s.view(ctx, p)
}

// ByAccount returns the profile owned by accountID.
func (s *Service) ByAccount(ctx context.Context, accountID id.AccountID) (*models.View, error) {
	p, err := s.byAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

// List returns every profile with its owner. Owners are looked up
// concurrently.
func (s *Service) List(ctx context.Context) ([]*models.View, error) {
	ctx, span := s.tracer.Start(ctx, "profile.List")
	defer span.End()

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles"))
	}

	views := make([]*models.View, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ownerLookupConcurrency)
	for i, p := range profiles {
		g.Go(func() error {
			v, err := s.view(gctx, p)
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int("profile.count", len(views)))
	return views, nil
}

func (s *Service) applyInput(ctx context.Context, span trace.Span, accountID id.AccountID, profileID id.ProfileID, in models.ProfileInput) (*models.Profile, error) {
	return s.mutate(ctx, span, "profile_update", audit.EventProfileUpserted, accountID, profileID,
		func(doc *models.Profile) error {
			if err := ownership.Check(accountID, doc, ownership.ActionEditProfile); err != nil {
				return err
			}
			*doc = *models.Assemble(doc, in)
			doc.UpdatedAt = requestcontext.Now(ctx)
			return nil
		})
}

// Upsert creates the caller's profile or applies the provided fields to the
// existing one.
func (s *Service) Upsert(ctx context.Context, accountID id.AccountID, in models.ProfileInput) (*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "profile.Upsert")
	defer span.End()

	existing, err := s.byAccount(ctx, accountID)
	switch {
	case err == nil:
		return s.applyInput(ctx, span, accountID, existing.ID, in)
	case !dErrors.HasCode(err, dErrors.CodeNotFound):
		return nil, s.fail(span, err)
	}

	created := models.Assemble(nil, in)
	created.ID = id.NewProfileID()
	created.AccountID = accountID
	created.Skills = nonNil(created.Skills)
	created.Experience = []models.Experience{}
	created.Education = []models.Education{}
	created.UpdatedAt = requestcontext.Now(ctx)

	if err := s.profiles.Save(ctx, created); err != nil {
		if !errors.Is(err, sentinel.ErrConflict) {
			s.metrics.ObserveMutation("profile_create", "error")
			return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile"))
		}
		// A concurrent request created the profile first; apply on top of it
		// once.
		existing, err := s.byAccount(ctx, accountID)
		if err != nil {
			s.metrics.ObserveMutation("profile_create", "error")
			return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile"))
		}
		return s.applyInput(ctx, span, accountID, existing.ID, in)
	}
	s.metrics.ObserveMutation("profile_create", "ok")
	s.emit(ctx, audit.EventProfileUpserted, accountID, created.ID.String())
	return created, nil
}

// AddExperience inserts a new experience entry at the front of the list.
func (s *Service) AddExperience(ctx context.Context, accountID id.AccountID, exp models.Experience) (*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "profile.AddExperience")
	defer span.End()

	p, err := s.byAccount(ctx, accountID)
	if err != nil {
		return nil, s.fail(span, noProfile(err))
	}
	exp.ID = id.NewEntryID()
	return s.mutate(ctx, span, "experience_add", audit.EventExperienceAdded, accountID, p.ID,
		func(doc *models.Profile) error {
			if err := ownership.Check(accountID, doc, ownership.ActionAddEntry); err != nil {
				return err
			}
			doc.Experience = collection.InsertFront(doc.Experience, exp)
			doc.UpdatedAt = requestcontext.Now(ctx)
			return nil
		})
}

// RemoveExperience deletes exactly the entry with entryID. An unknown id
// leaves the profile unchanged and reports not found.
func (s *Service) RemoveExperience(ctx context.Context, accountID id.AccountID, entryID id.EntryID) (*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "profile.RemoveExperience")
	defer span.End()

	p, err := s.byAccount(ctx, accountID)
	if err != nil {
		return nil, s.fail(span, noProfile(err))
	}
	return s.mutate(ctx, span, "experience_remove", audit.EventExperienceRemoved, accountID, p.ID,
		func(doc *models.Profile) error {
			if err := ownership.Check(accountID, doc, ownership.ActionRemoveEntry); err != nil {
				return err
			}
			next, _, err := collection.RemoveFirst(doc.Experience, entryID, models.Experience.EntryID)
			if err != nil {
				return errExperienceNotFound
			}
			doc.Experience = next
			doc.UpdatedAt = requestcontext.Now(ctx)
			return nil
		})
}

// AddEducation inserts a new education entry at the front of the list.
func (s *Service) AddEducation(ctx context.Context, accountID id.AccountID, edu models.Education) (*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "profile.AddEducation")
	defer span.End()

	p, err := s.byAccount(ctx, accountID)
	if err != nil {
		return nil, s.fail(span, noProfile(err))
	}
	edu.ID = id.NewEntryID()
	return s.mutate(ctx, span, "education_add", audit.EventEducationAdded, accountID, p.ID,
		func(doc *models.Profile) error {
			if err := ownership.Check(accountID, doc, ownership.ActionAddEntry); err != nil {
				return err
			}
			doc.Education = collection.InsertFront(doc.Education, edu)
			doc.UpdatedAt = requestcontext.Now(ctx)
			return nil
		})
}

// RemoveEducation deletes exactly the entry with entryID.
func (s *Service) RemoveEducation(ctx context.Context, accountID id.AccountID, entryID id.EntryID) (*models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "profile.RemoveEducation")
	defer span.End()

	p, err := s.byAccount(ctx, accountID)
	if err != nil {
		return nil, s.fail(span, noProfile(err))
	}
	return s.mutate(ctx, span, "education_remove", audit.EventEducationRemoved, accountID, p.ID,
		func(doc *models.Profile) error {
			if err := ownership.Check(accountID, doc, ownership.ActionRemoveEntry); err != nil {
				return err
			}
			next, _, err := collection.RemoveFirst(doc.Education, entryID, models.Education.EntryID)
			if err != nil {
				return errEducationNotFound
			}
			doc.Education = next
			doc.UpdatedAt = requestcontext.Now(ctx)
			return nil
		})
}

// RemoveByAccount deletes the account's profile if there is one. Account
// deletion calls it before removing the account itself.
func (s *Service) RemoveByAccount(ctx context.Context, accountID id.AccountID) error {
	p, err := s.byAccount(ctx, accountID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.profiles.Remove(ctx, p.ID.String()); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile")
	}
	s.emit(ctx, audit.EventProfileDeleted, accountID, p.ID.String())
	return nil
}

// GitHubRepos lists the newest-created-last repositories for a GitHub user.
func (s *Service) GitHubRepos(ctx context.Context, username string) ([]github.Repo, error) {
	ctx, span := s.tracer.Start(ctx, "profile.GitHubRepos")
	defer span.End()

	repos, err := s.repos.Repos(ctx, username)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return repos, nil
}

// mutate runs fn inside an atomic update of profile profileID and records the
// outcome.
func (s *Service) mutate(ctx context.Context, span trace.Span, kind string, event audit.AuditEvent,
	accountID id.AccountID, profileID id.ProfileID, fn func(doc *models.Profile) error,
) (*models.Profile, error) {
	span.SetAttributes(attribute.String("profile.id", profileID.String()))

	updated, err := s.profiles.Update(ctx, profileID.String(), fn)
	if err != nil {
		err = translate(err)
		s.metrics.ObserveMutation(kind, string(dErrors.CodeOf(err)))
		if dErrors.HasCode(err, dErrors.CodeForbidden) {
			s.publish(ctx, audit.Event{AccountID: accountID, Action: string(audit.EventOwnershipDenied), ResourceID: profileID.String(), Reason: kind})
		}
		return nil, s.fail(span, err)
	}
	s.metrics.ObserveMutation(kind, "ok")
	s.emit(ctx, event, accountID, profileID.String())
	return updated, nil
}

func (s *Service) byAccount(ctx context.Context, accountID id.AccountID) (*models.Profile, error) {
	p, err := s.profiles.FindOne(ctx, store.AccountIndex, accountID.String())
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, errProfileNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return p, nil
}

// view attaches the owner's name and avatar. An owner that no longer exists
// leaves the summary empty.
func (s *Service) view(ctx context.Context, p *models.Profile) (*models.View, error) {
	v := &models.View{Profile: p, Owner: models.Owner{AccountID: p.AccountID}}
	account, err := s.accounts.Account(ctx, p.AccountID)
	switch {
	case err == nil:
		v.Owner.Name = account.Name
		v.Owner.AvatarURL = account.AvatarURL
	case dErrors.HasCode(err, dErrors.CodeNotFound):
	default:
		return nil, err
	}
	return v, nil
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, accountID id.AccountID, resourceID string) {
	s.publish(ctx, audit.Event{AccountID: accountID, Action: string(event), ResourceID: resourceID})
}

func (s *Service) publish(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, event)
	if err != nil && !errors.Is(err, publisher.ErrBufferFull) {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

// translate maps store sentinels onto domain errors. Errors returned by the
// transform are already domain errors and pass through.
func translate(err error) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return errProfileNotFound
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeInternal, "profile is busy, try again")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
}

func noProfile(err error) error {
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return errNoProfile
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
