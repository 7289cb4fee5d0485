package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/internal/metrics"
	"github.com/leapstack-labs/litegate/internal/testutil"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func newTestServer(t *testing.T, mutate ...func(*Config)) *Server {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "SQL")
	testutil.CreateUsersDatabase(t, filepath.Join(root, "news", "users.sqlite"), 3)
	secondary := filepath.Join(base, "appso")
	testutil.CreateUsersDatabase(t, filepath.Join(secondary, "app.sqlite"), 1)

	logger := testutil.NewTestLogger(t)
	m := metrics.New()
	cfg := Config{
		Addr:         "127.0.0.1:0",
		Catalog:      catalog.New(catalog.Config{Root: root, Cache: true, Logger: logger}),
		Resolver:     catalog.NewResolver(root),
		Gateway:      gateway.New(gateway.Config{Logger: logger, Observer: m}),
		Metrics:      m,
		SecondaryDir: secondary,
		Logger:       logger,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewServer(cfg)
}

func newTestHandler(t *testing.T, mutate ...func(*Config)) http.Handler {
	t.Helper()
	h, err := newTestServer(t, mutate...).Handler()
	require.NoError(t, err)
	return h
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// Middleware Tests
// =============================================================================

func TestCORS_ActualRequest(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h, http.MethodGet, "/databases", http.Header{"Origin": {"http://example.com"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WithoutOrigin(t *testing.T) {
	h := newTestHandler(t)

	for _, target := range []string{"/databases", "/database/news/missing.sqlite"} {
		t.Run(target, func(t *testing.T) {
			rec := serve(h, http.MethodGet, target, nil)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestOptions_EveryRoute(t *testing.T) {
	h := newTestHandler(t)

	for _, target := range []string{
		"/databases",
		"/database/news/users.sqlite",
		"/sql-query",
		"/earliest-date",
		"/appso/app.sqlite/query",
		"/not-a-route",
	} {
		t.Run(target, func(t *testing.T) {
			rec := serve(h, http.MethodOptions, target, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Body.String())
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "OPTIONS")
		})
	}
}

func TestOptions_Preflight(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h, http.MethodOptions, "/sql-query", http.Header{
		"Origin":                         {"http://example.com"},
		"Access-Control-Request-Method":  {"POST"},
		"Access-Control-Request-Headers": {"Content-Type"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h, http.MethodGet, "/healthz", nil)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	rec = serve(h, http.MethodGet, "/healthz", http.Header{RequestIDHeader: {id}})
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	rec = serve(h, http.MethodGet, "/healthz", http.Header{RequestIDHeader: {"not a uuid"}})
	assert.NotEqual(t, "not a uuid", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h, http.MethodGet, "/database/news/users.sqlite", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `litegate_http_requests_total{method="GET",route="/database/*",status="200"} 1`)
	assert.Contains(t, body, `litegate_query_duration_seconds_count{op="tables"} 1`)
	assert.Contains(t, body, "litegate_handles_in_use 0")
}

func TestHandler_RejectsReservedSecondaryRoute(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.SecondaryRoute = "databases" })
	_, err := s.Handler()
	assert.Error(t, err)
}

func TestHandler_WithoutSecondary(t *testing.T) {
	h := newTestHandler(t, func(c *Config) { c.SecondaryDir = "" })

	rec := serve(h, http.MethodGet, "/appso", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestServeListener_Shutdown(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Watch = true })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && strings.Contains(string(body), "ok")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	s := newTestServer(t, func(c *Config) { c.Addr = ln.Addr().String() })
	err = s.Serve(context.Background())
	assert.Error(t, err)
}
