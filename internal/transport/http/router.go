package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "github.com/shubham1542-dev/Dev-Connector/internal/identity/handler"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/metrics"
	posthandler "github.com/shubham1542-dev/Dev-Connector/internal/post/handler"
	profilehandler "github.com/shubham1542-dev/Dev-Connector/internal/profile/handler"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/httputil"
	authmw "github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/auth"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/metadata"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/request"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps carries everything the router mounts. Metrics and Gatherer may be nil;
// without a Gatherer there is no /metrics endpoint.
type Deps struct {
	Identity *identityhandler.Handler
	Profiles *profilehandler.Handler
	Posts    *posthandler.Handler

	Verifier    authmw.TokenVerifier
	Revocations authmw.RevocationChecker

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   map[string]HealthCheck
	Logger   *slog.Logger
}

// NewRouter builds the chi router: shared middleware, operational endpoints,
// and the /api tree split into public and token-gated groups.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(d.Logger, d.Metrics))
	r.Use(request.Recoverer(d.Logger))

	r.Get("/health", health(d.Health, d.Logger))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	requireAuth := authmw.RequireAuth(d.Verifier, d.Revocations, d.Metrics, d.Logger)

	r.Route("/api", func(api chi.Router) {
		d.Identity.RegisterPublic(api)
		d.Profiles.RegisterPublic(api)

		api.Group(func(authed chi.Router) {
			authed.Use(requireAuth)
			d.Identity.RegisterAuthenticated(authed)
			d.Profiles.RegisterAuthenticated(authed)
			d.Posts.Register(authed)
		})
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func health(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
