package commands

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/internal/cli/config"
)

func TestServe_WiresConfiguration(t *testing.T) {
	loadProject(t)

	cmd := NewServeCommand()
	cmd.SetContext(context.Background())
	srv, err := newServer(cmd)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	get := func(path string) (int, string) {
		resp, err := http.Get(base + path)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, _ := get("/healthz")
	assert.Equal(t, http.StatusOK, status)

	status, body := get("/database/news/2024.sqlite?action=tables")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "contents")

	// default database from litegate.yaml
	status, body = get("/database?action=data&table=users")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "user1")

	// secondary directory from litegate.yaml
	status, body = get("/appso/app.sqlite?action=info")
	assert.Equal(t, http.StatusOK, status)
	var info struct {
		TotalTables int `json:"totalTables"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &info))
	assert.Equal(t, 1, info.TotalTables)

	// gateway activity reaches the metrics registry
	status, body = get("/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(body, "litegate_handles_opened_total"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_MissingRoot(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	cmd := NewServeCommand()
	cmd.SetContext(context.Background())
	_, err = newServer(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database root does not exist")
}
