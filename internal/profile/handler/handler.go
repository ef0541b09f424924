package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shubham1542-dev/Dev-Connector/internal/github"
	"github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/httputil"
	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the profile operations exposed over HTTP.
type Service interface {
	Me(ctx context.Context, accountID id.AccountID) (*models.View, error)
	ByAccount(ctx context.Context, accountID id.AccountID) (*models.View, error)
	List(ctx context.Context) ([]*models.View, error)
	Upsert(ctx context.Context, accountID id.AccountID, in models.ProfileInput) (*models.Profile, error)
	AddExperience(ctx context.Context, accountID id.AccountID, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, accountID id.AccountID, entryID id.EntryID) (*models.Profile, error)
	AddEducation(ctx context.Context, accountID id.AccountID, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, accountID id.AccountID, entryID id.EntryID) (*models.Profile, error)
	GitHubRepos(ctx context.Context, username string) ([]github.Repo, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the read-only profile routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/profile", h.HandleList)
	r.Get("/profile/user/{accountID}", h.HandleByAccount)
	r.Get("/profile/github/{username}", h.HandleGitHubRepos)
}

// RegisterAuthenticated mounts routes that act on the caller's own profile.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/profile/me", h.HandleMe)
	r.Post("/profile", h.HandleUpsert)
	r.Put("/profile/experience", h.HandleAddExperience)
	r.Delete("/profile/experience/{entryID}", h.HandleRemoveExperience)
	r.Put("/profile/education", h.HandleAddEducation)
	r.Delete("/profile/education/{entryID}", h.HandleRemoveEducation)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	views, err := h.service.List(ctx)
	if err != nil {
		httputil.LogFailure(ctx, h.logger, "failed to list profiles", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromViews(views))
}

func (h *Handler) HandleByAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, err := id.ParseAccountID(chi.URLParam(r, "accountID"))
	if err != nil {
		// Malformed ids cannot name a profile.
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "profile not found"))
		return
	}
	view, err := h.service.ByAccount(ctx, accountID)
	if err != nil {
		httputil.LogFailure(ctx, h.logger, "failed to load profile", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromView(view))
}

func (h *Handler) HandleGitHubRepos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repos, err := h.service.GitHubRepos(ctx, chi.URLParam(r, "username"))
	if err != nil {
		httputil.LogFailure(ctx, h.logger, "github lookup failed", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, repos)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, ok := h.requireAccount(ctx, w)
	if !ok {
		return
	}
	view, err := h.service.Me(ctx, accountID)
	if err != nil {
		httputil.LogFailure(ctx, h.logger, "failed to load own profile", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromView(view))
}

func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	accountID, ok := h.requireAccount(ctx, w)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	profile, err := h.service.Upsert(ctx, accountID, req.Input())
	h.writeProfile(ctx, w, "failed to save profile", profile, err)
}

func (h *Handler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	accountID, ok := h.requireAccount(ctx, w)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ExperienceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	profile, err := h.service.AddExperience(ctx, accountID, req.Entry())
	h.writeProfile(ctx, w, "failed to add experience", profile, err)
}

func (h *Handler) HandleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, ok := h.requireAccount(ctx, w)
	if !ok {
		return
	}
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}
	profile, err := h.service.RemoveExperience(ctx, accountID, entryID)
	h.writeProfile(ctx, w, "failed to remove experience", profile, err)
}

func (h *Handler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	accountID, ok := h.requireAccount(ctx, w)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EducationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	profile, err := h.service.AddEducation(ctx, accountID, req.Entry())
	h.writeProfile(ctx, w, "failed to add education", profile, err)
}

func (h *Handler) HandleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, ok := h.requireAccount(ctx, w)
	if !ok {
		return
	}
	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}
	profile, err := h.service.RemoveEducation(ctx, accountID, entryID)
	h.writeProfile(ctx, w, "failed to remove education", profile, err)
}

func (h *Handler) requireAccount(ctx context.Context, w http.ResponseWriter) (id.AccountID, bool) {
	accountID, ok := requestcontext.AccountID(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	}
	return accountID, ok
}

// entryID parses the {entryID} path parameter. A malformed id cannot match
// any entry, so it is reported as not found.
func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (id.EntryID, bool) {
	entryID, err := id.ParseEntryID(chi.URLParam(r, "entryID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "entry not found"))
		return id.EntryID{}, false
	}
	return entryID, true
}

func (h *Handler) writeProfile(ctx context.Context, w http.ResponseWriter, msg string, profile *models.Profile, err error) {
	if err != nil {
		httputil.LogFailure(ctx, h.logger, msg, requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProfile(profile))
}
