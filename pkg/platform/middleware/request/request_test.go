package request

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham1542-dev/Dev-Connector/pkg/requestcontext"
)

type recordedObservation struct {
	method, route string
	status        int
}

type fakeObserver struct{ got []recordedObservation }

func (f *fakeObserver) ObserveHTTPRequest(method, route string, status int, _ time.Time) {
	f.got = append(f.got, recordedObservation{method, route, status})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("propagates incoming id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(HeaderRequestID, "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
	})

	t.Run("generates when absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		h.ServeHTTP(httptest.NewRecorder(), r)
		assert.Len(t, seen, 36)
	})
}

func TestLoggerUsesRoutePattern(t *testing.T) {
	logs := &bytes.Buffer{}
	obs := &fakeObserver{}
	r := chi.NewRouter()
	r.Use(Logger(slog.New(slog.NewJSONHandler(logs, nil)), obs))
	r.Get("/api/posts/{postID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/posts/123", nil))

	require.Len(t, obs.got, 1)
	assert.Equal(t, recordedObservation{"GET", "/api/posts/{postID}", http.StatusNotFound}, obs.got[0])
	assert.Contains(t, logs.String(), "request completed")
}

func TestRecoverer(t *testing.T) {
	logs := &bytes.Buffer{}
	h := Recoverer(slog.New(slog.NewJSONHandler(logs, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, rr.Body.String())
	assert.Contains(t, logs.String(), "panic recovered")
}
