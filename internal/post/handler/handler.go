package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shubham1542-dev/Dev-Connector/internal/post/models"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/httputil"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the post operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, accountID id.AccountID, text string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Get(ctx context.Context, postID id.PostID) (*models.Post, error)
	Delete(ctx context.Context, accountID id.AccountID, postID id.PostID) error
	Like(ctx context.Context, accountID id.AccountID, postID id.PostID) ([]models.Like, error)
	Unlike(ctx context.Context, accountID id.AccountID, postID id.PostID) ([]models.Like, error)
	AddComment(ctx context.Context, accountID id.AccountID, postID id.PostID, text string) ([]models.Comment, error)
	RemoveComment(ctx context.Context, accountID id.AccountID, postID id.PostID, commentID id.CommentID) ([]models.Comment, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the post routes. Every route requires authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/posts", h.HandleCreate)
	r.Get("/posts", h.HandleList)
	r.Get("/posts/{postID}", h.HandleGet)
	r.Delete("/posts/{postID}", h.HandleDelete)
	r.Put("/posts/like/{postID}", h.HandleLike)
	r.Put("/posts/unlike/{postID}", h.HandleUnlike)
	r.Post("/posts/comment/{postID}", h.HandleAddComment)
	r.Delete("/posts/comment/{postID}/{commentID}", h.HandleRemoveComment)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TextRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	post, err := h.service.Create(ctx, accountID, req.Text)
	h.respond(ctx, w, "failed to create post", post, err)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requireAccount(ctx, w); !ok {
		return
	}
	posts, err := h.service.List(ctx)
	h.respond(ctx, w, "failed to list posts", posts, err)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requireAccount(ctx, w); !ok {
		return
	}
	postID, ok := pathPostID(w, r)
	if !ok {
		return
	}
	post, err := h.service.Get(ctx, postID)
	h.respond(ctx, w, "failed to load post", post, err)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}
	postID, ok := pathPostID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, accountID, postID); err != nil {
		h.respond(ctx, w, "failed to delete post", nil, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Post removed"})
}

func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}
	postID, ok := pathPostID(w, r)
	if !ok {
		return
	}
	likes, err := h.service.Like(ctx, accountID, postID)
	h.respond(ctx, w, "failed to like post", likes, err)
}

func (h *Handler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}
	postID, ok := pathPostID(w, r)
	if !ok {
		return
	}
	likes, err := h.service.Unlike(ctx, accountID, postID)
	h.respond(ctx, w, "failed to unlike post", likes, err)
}

func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}
	postID, ok := pathPostID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TextRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	comments, err := h.service.AddComment(ctx, accountID, postID, req.Text)
	h.respond(ctx, w, "failed to add comment", comments, err)
}

func (h *Handler) HandleRemoveComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, ok := requireAccount(ctx, w)
	if !ok {
		return
	}
	postID, ok := pathPostID(w, r)
	if !ok {
		return
	}
	commentID, err := id.ParseCommentID(chi.URLParam(r, "commentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "comment does not exist"))
		return
	}
	comments, err := h.service.RemoveComment(ctx, accountID, postID, commentID)
	h.respond(ctx, w, "failed to remove comment", comments, err)
}

func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, msg string, body any, err error) {
	if err != nil {
		httputil.LogFailure(ctx, h.logger, msg, requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, body)
}

func requireAccount(ctx context.Context, w http.ResponseWriter) (id.AccountID, bool) {
	accountID, ok := requestcontext.AccountID(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	}
	return accountID, ok
}

// pathPostID parses {postID}. A malformed id cannot name a post.
func pathPostID(w http.ResponseWriter, r *http.Request) (id.PostID, bool) {
	postID, err := id.ParsePostID(chi.URLParam(r, "postID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "post not found"))
		return id.PostID{}, false
	}
	return postID, true
}
