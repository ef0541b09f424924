package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	identityhandler "github.com/shubham1542-dev/Dev-Connector/internal/identity/handler"
	identitymocks "github.com/shubham1542-dev/Dev-Connector/internal/identity/handler/mocks"
	identitymodels "github.com/shubham1542-dev/Dev-Connector/internal/identity/models"
	"github.com/shubham1542-dev/Dev-Connector/internal/platform/metrics"
	posthandler "github.com/shubham1542-dev/Dev-Connector/internal/post/handler"
	postmocks "github.com/shubham1542-dev/Dev-Connector/internal/post/handler/mocks"
	postmodels "github.com/shubham1542-dev/Dev-Connector/internal/post/models"
	profilehandler "github.com/shubham1542-dev/Dev-Connector/internal/profile/handler"
	profilemocks "github.com/shubham1542-dev/Dev-Connector/internal/profile/handler/mocks"
	profilemodels "github.com/shubham1542-dev/Dev-Connector/internal/profile/models"
	id "github.com/shubham1542-dev/Dev-Connector/pkg/domain"
	dErrors "github.com/shubham1542-dev/Dev-Connector/pkg/domain-errors"
	authmw "github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/auth"
	"github.com/shubham1542-dev/Dev-Connector/pkg/platform/middleware/request"
	"github.com/shubham1542-dev/Dev-Connector/pkg/testutil"
)

const goodToken = "good-token"

type stubVerifier struct{ accountID id.AccountID }

func (v stubVerifier) VerifyToken(raw string) (*authmw.VerifiedToken, error) {
	if raw != goodToken {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return &authmw.VerifiedToken{AccountID: v.accountID, IssuedAt: time.Now()}, nil
}

type stubRevocations struct{ revoked bool }

func (r *stubRevocations) IsAccountRevoked(context.Context, id.AccountID, time.Time) (bool, error) {
	return r.revoked, nil
}

type RouterSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	identity    *identitymocks.MockService
	profiles    *profilemocks.MockService
	posts       *postmocks.MockService
	revocations *stubRevocations
	registry    *prometheus.Registry
	healthErr   error
	accountID   id.AccountID
	router      http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.identity = identitymocks.NewMockService(s.ctrl)
	s.profiles = profilemocks.NewMockService(s.ctrl)
	s.posts = postmocks.NewMockService(s.ctrl)
	s.revocations = &stubRevocations{}
	s.registry = prometheus.NewRegistry()
	s.healthErr = nil
	s.accountID = id.NewAccountID()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = NewRouter(Deps{
		Identity:    identityhandler.New(s.identity, logger),
		Profiles:    profilehandler.New(s.profiles, logger),
		Posts:       posthandler.New(s.posts, logger),
		Verifier:    stubVerifier{accountID: s.accountID},
		Revocations: s.revocations,
		Metrics:     metrics.New(s.registry),
		Gatherer:    s.registry,
		Health: map[string]HealthCheck{
			"store": func(context.Context) error { return s.healthErr },
		},
		Logger: logger,
	})
}

func (s *RouterSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RouterSuite) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		testutil.WithToken(req, token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *RouterSuite) TestProtectedRoutesNeverReachServices() {
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth"},
		{http.MethodDelete, "/api/profile"},
		{http.MethodGet, "/api/profile/me"},
		{http.MethodPost, "/api/profile"},
		{http.MethodPut, "/api/profile/experience"},
		{http.MethodDelete, "/api/profile/education/" + id.NewEntryID().String()},
		{http.MethodGet, "/api/posts"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/like/" + id.NewPostID().String()},
		{http.MethodDelete, "/api/posts/comment/" + id.NewPostID().String() + "/" + id.NewCommentID().String()},
	}

	for _, tc := range routes {
		s.Run(tc.method+" "+tc.path+" without token", func() {
			rr := s.do(tc.method, tc.path, "")
			s.Equal(http.StatusUnauthorized, rr.Code)
		})
		s.Run(tc.method+" "+tc.path+" with a bad token", func() {
			rr := s.do(tc.method, tc.path, "forged")
			s.Equal(http.StatusUnauthorized, rr.Code)
		})
	}
	// The mocks carry no expectations, so any service call fails the test.
}

func (s *RouterSuite) TestRevokedTokenIsRejected() {
	s.revocations.revoked = true
	s.posts.EXPECT().List(gomock.Any()).Times(0)

	rr := s.do(http.MethodGet, "/api/posts", goodToken)

	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Contains(rr.Body.String(), "revoked")
}

func (s *RouterSuite) TestValidTokenReachesService() {
	s.posts.EXPECT().List(gomock.Any()).Return([]*postmodels.Post{}, nil)
	s.identity.EXPECT().Account(gomock.Any(), s.accountID).
		Return(&identitymodels.Account{ID: s.accountID, Name: "Jane"}, nil)

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/posts", goodToken).Code)

	rr := s.do(http.MethodGet, "/api/auth", goodToken)
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "Jane")
}

func (s *RouterSuite) TestPublicRoutesNeedNoToken() {
	s.profiles.EXPECT().List(gomock.Any()).Return([]*profilemodels.View{}, nil)
	s.identity.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/profile", "").Code)

	// Validation fails before the service is consulted.
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/auth", "").Code)
}

func (s *RouterSuite) TestRequestIDIsEchoed() {
	rr := s.do(http.MethodGet, "/health", "")
	s.NotEmpty(rr.Header().Get(request.HeaderRequestID))
}

func (s *RouterSuite) TestHealth() {
	s.Run("all dependencies reachable", func() {
		s.healthErr = nil
		rr := s.do(http.MethodGet, "/health", "")
		s.Equal(http.StatusOK, rr.Code)
		s.JSONEq(`{"status":"ok","checks":{"store":"ok"}}`, rr.Body.String())
	})

	s.Run("a failing dependency degrades the service", func() {
		s.healthErr = errors.New("connection refused")
		rr := s.do(http.MethodGet, "/health", "")
		s.Equal(http.StatusServiceUnavailable, rr.Code)
		s.JSONEq(`{"status":"degraded","checks":{"store":"unavailable"}}`, rr.Body.String())
	})
}

func (s *RouterSuite) TestMetricsEndpointExposesRequestLatency() {
	s.do(http.MethodGet, "/api/posts", "")

	rr := s.do(http.MethodGet, "/metrics", "")

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "devconnector_auth_failures_total")
	s.Contains(rr.Body.String(), "devconnector_http_request_duration_seconds")
}
