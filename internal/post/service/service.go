// Package service implements posts, likes and comments. Likes and comments
// are nested in the post document and change only through atomic store
// updates, so concurrent requests on one post never lose each other's
// writes.
package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	identitymodels "github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/ownership"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/docstore"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/metrics"
	"github.com/shubham1542-dev/Dev-Connector/internal/post/models"
	"github.com/shubham1542-dev/Dev-Connector/pkg/collection"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/audit/publisher"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/sentinel"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

var (
	errPostNotFound    = dErrors.New(dErrors.CodeNotFound, "post not found")
	errCommentNotFound = dErrors.New(dErrors.CodeNotFound, "comment does not exist")
	errAlreadyLiked    = dErrors.New(dErrors.CodeConflict, "post already liked")
	errNotLiked        = dErrors.New(dErrors.CodeConflict, "post has not yet been liked")
)

// AccountLookup resolves the author details copied onto posts and comments.
type AccountLookup interface {
	Account(ctx context.Context, accountID id.AccountID) (*identitymodels.Account, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	posts    docstore.Store[models.Post]
	accounts AccountLookup
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

func New(posts docstore.Store[models.Post], accounts AccountLookup, opts ...Option) (*Service, error) {
	if posts == nil || accounts == nil {
		return nil, errors.New("post service: posts and accounts are required")
	}
	s := &Service{
		posts:    posts,
		accounts: accounts,
		logger:   slog.Default(),
		tracer:   otel.Tracer("devconnector/post"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Create(ctx context.Context, accountID id.AccountID, text string) (*models.Post, error) {
	ctx, span := s.tracer.Start(ctx, "post.Create")
	defer span.End()

	author, err := s.author(ctx, accountID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	post := &models.Post{
		ID:           id.NewPostID(),
		Text:         text,
		AuthorID:     accountID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
		CreatedAt:    requestcontext.Now(ctx),
		Likes:        []models.Like{},
		Comments:     []models.Comment{},
	}
	if err := s.posts.Save(ctx, post); err != nil {
		s.metrics.ObserveMutation("post_create", "error")
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save post"))
	}
	s.metrics.ObserveMutation("post_create", "ok")
	s.emit(ctx, audit.EventPostCreated, accountID, post.ID.String(), "")
	return post, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list posts")
	}
	slices.SortStableFunc(posts, func(a, b *models.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})
	return posts, nil
}

func (s *Service) Get(ctx context.Context, postID id.PostID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, postID.String())
	if err != nil {
		return nil, translate(err)
	}
	return post, nil
}

// Delete removes a post on behalf of its author. The author of a post never
// changes, so checking it on the loaded copy is equivalent to checking it
// under the store's lock.
func (s *Service) Delete(ctx context.Context, accountID id.AccountID, postID id.PostID) error {
	ctx, span := s.tracer.Start(ctx, "post.Delete",
		trace.WithAttributes(attribute.String("post.id", postID.String())))
	defer span.End()

	post, err := s.posts.FindByID(ctx, postID.String())
	if err != nil {
		return s.fail(span, translate(err))
	}
	if err := ownership.Check(accountID, post, ownership.ActionDeletePost); err != nil {
		s.denied(ctx, accountID, postID, "post_delete")
		s.metrics.ObserveMutation("post_delete", string(dErrors.CodeForbidden))
		return s.fail(span, err)
	}
	if err := s.posts.Remove(ctx, postID.String()); err != nil {
		s.metrics.ObserveMutation("post_delete", "error")
		return s.fail(span, translate(err))
	}
	s.metrics.ObserveMutation("post_delete", "ok")
	s.emit(ctx, audit.EventPostDeleted, accountID, postID.String(), "")
	return nil
}

// Like adds the caller's like. Liking twice is a conflict and leaves the
// likes unchanged.
func (s *Service) Like(ctx context.Context, accountID id.AccountID, postID id.PostID) ([]models.Like, error) {
	post, err := s.mutate(ctx, "like", audit.EventPostLiked, accountID, postID, func(doc *models.Post) error {
		if err := ownership.Check(accountID, doc, ownership.ActionLike); err != nil {
			return err
		}
		next, err := collection.AddIfAbsent(doc.Likes, models.Like{AccountID: accountID}, models.Like.Key)
		if err != nil {
			return errAlreadyLiked
		}
		doc.Likes = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Unlike removes the caller's like, keeping the order of the others.
func (s *Service) Unlike(ctx context.Context, accountID id.AccountID, postID id.PostID) ([]models.Like, error) {
	post, err := s.mutate(ctx, "unlike", audit.EventPostUnliked, accountID, postID, func(doc *models.Post) error {
		if err := ownership.Check(accountID, doc, ownership.ActionUnlike); err != nil {
			return err
		}
		next, _, err := collection.RemoveFirst(doc.Likes, accountID, models.Like.Key)
		if err != nil {
			return errNotLiked
		}
		doc.Likes = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment puts a new comment at the front of the post's comments.
func (s *Service) AddComment(ctx context.Context, accountID id.AccountID, postID id.PostID, text string) ([]models.Comment, error) {
	author, err := s.author(ctx, accountID)
	if err != nil {
		return nil, err
	}
	comment := models.Comment{
		ID:           id.NewCommentID(),
		AuthorID:     accountID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
		Text:         text,
		CreatedAt:    requestcontext.Now(ctx),
	}
	post, err := s.mutate(ctx, "comment_add", audit.EventCommentAdded, accountID, postID, func(doc *models.Post) error {
		if err := ownership.Check(accountID, doc, ownership.ActionComment); err != nil {
			return err
		}
		doc.Comments = collection.InsertFront(doc.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes a comment on behalf of the comment's author. A
// missing comment is reported before authorship is considered.
func (s *Service) RemoveComment(ctx context.Context, accountID id.AccountID, postID id.PostID, commentID id.CommentID) ([]models.Comment, error) {
	post, err := s.mutate(ctx, "comment_remove", audit.EventCommentRemoved, accountID, postID, func(doc *models.Post) error {
		comment, ok := collection.Find(doc.Comments, commentID, models.Comment.Key)
		if !ok {
			return errCommentNotFound
		}
		if err := ownership.Check(accountID, comment, ownership.ActionDeleteComment); err != nil {
			return err
		}
		next, _, err := collection.RemoveFirst(doc.Comments, commentID, models.Comment.Key)
		if err != nil {
			return errCommentNotFound
		}
		doc.Comments = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// mutate applies fn to post postID as one atomic update and records the
// outcome.
func (s *Service) mutate(ctx context.Context, kind string, event audit.AuditEvent,
	accountID id.AccountID, postID id.PostID, fn func(doc *models.Post) error,
) (*models.Post, error) {
	ctx, span := s.tracer.Start(ctx, "post."+kind,
		trace.WithAttributes(attribute.String("post.id", postID.String())))
	defer span.End()

	updated, err := s.posts.Update(ctx, postID.String(), fn)
	if err != nil {
		err = translate(err)
		s.metrics.ObserveMutation(kind, string(dErrors.CodeOf(err)))
		if dErrors.HasCode(err, dErrors.CodeForbidden) {
			s.denied(ctx, accountID, postID, kind)
		}
		return nil, s.fail(span, err)
	}
	s.metrics.ObserveMutation(kind, "ok")
	s.emit(ctx, event, accountID, postID.String(), "")
	return updated, nil
}

func (s *Service) author(ctx context.Context, accountID id.AccountID) (*identitymodels.Account, error) {
	account, err := s.accounts.Account(ctx, accountID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			// The token outlived its account.
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) denied(ctx context.Context, accountID id.AccountID, postID id.PostID, kind string) {
	s.emit(ctx, audit.EventOwnershipDenied, accountID, postID.String(), kind)
}

func (s *Service) emit(ctx context.Context, event audit.AuditEvent, accountID id.AccountID, resourceID, reason string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{AccountID: accountID, Action: string(event), ResourceID: resourceID, Reason: reason})
	// Dropped events are already logged by the publisher.
	if err != nil && !errors.Is(err, publisher.ErrBufferFull) {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(event), "error", err)
	}
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

func translate(err error) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return errPostNotFound
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeInternal, "post is busy, try again")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update post")
	}
}
