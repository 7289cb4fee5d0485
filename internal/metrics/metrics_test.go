package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/pkg/core"
)

func TestHandleGauge(t *testing.T) {
	m := New()

	m.HandleOpened()
	m.HandleOpened()
	m.HandleClosed()

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.handlesInUse))
	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.handlesOpened))
}

func TestObserveQuery(t *testing.T) {
	m := New()

	m.ObserveQuery("query", 3*time.Millisecond, nil)
	m.ObserveQuery("query", time.Millisecond, core.Errorf(core.KindSyntaxError, "query", "bad"))
	m.ObserveQuery("open", time.Millisecond, errors.New("plain"))

	assert.Equal(t, 2, promtestutil.CollectAndCount(m.queryDuration))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.queryFailures.WithLabelValues("query", "syntax_error")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.queryFailures.WithLabelValues("open", "internal")))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/databases/{category}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/databases/a", "/api/databases/b", "/ok"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.requests.WithLabelValues("/api/databases/{category}", "GET", "404")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.requests.WithLabelValues("/ok", "GET", "200")))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.HandleOpened()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "litegate_handles_in_use 1"))
	assert.Contains(t, string(body), "go_goroutines")
}
