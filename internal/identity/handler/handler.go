package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/httputil"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the identity operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, reg models.Registration) (*models.TokenResult, error)
	Login(ctx context.Context, creds models.Credentials) (*models.TokenResult, error)
	Account(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	DeleteAccount(ctx context.Context, accountID id.AccountID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts registration and login.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/users", h.HandleRegister)
	r.Post("/auth", h.HandleLogin)
}

// RegisterAuthenticated mounts routes that need RequireAuth in front of them.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/auth", h.HandleMe)
	r.Delete("/profile", h.HandleDeleteAccount)
}

// HandleRegister handles POST /api/users.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Register(ctx, models.Registration{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		httputil.LogFailure(ctx, h.logger, "registration failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenResponse{Token: res.Token})
}

// HandleLogin handles POST /api/auth.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Login(ctx, models.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		httputil.LogFailure(ctx, h.logger, "login failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TokenResponse{Token: res.Token})
}

// HandleMe handles GET /api/auth.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	accountID, ok := requestcontext.AccountID(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	account, err := h.service.Account(ctx, accountID)
	if err != nil {
		httputil.LogFailure(ctx, h.logger, "failed to load account", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAccount(account))
}

// HandleDeleteAccount handles DELETE /api/profile, which removes the profile
// and the account behind it.
func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	accountID, ok := requestcontext.AccountID(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	if err := h.service.DeleteAccount(ctx, accountID); err != nil {
		httputil.LogFailure(ctx, h.logger, "account deletion failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "account deleted", "request_id", requestID)
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User deleted"})
}
