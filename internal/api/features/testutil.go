// Package features provides shared test utilities for API feature tests.
package features

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/internal/testutil"
)

// Fixture timestamps, in seconds.
const (
	NewsEarliest    = 1609459200 // 2021-01-01
	ArchiveEarliest = 1557014400 // 2019-05-05
)

// TestFixture holds the database tree and services used by handler tests.
//
// Layout under Root:
//
//	news/users.sqlite      users table with 5 rows
//	news/contents.sqlite   contents dated 2021-01-01
//	archive/old.sqlite     contents dated 2019-05-05
//	archive/broken.sqlite  not a database
type TestFixture struct {
	Root            string
	SecondaryDir    string
	DefaultDatabase string

	Catalog  *catalog.Catalog
	Resolver *catalog.Resolver
	Gateway  *gateway.Gateway
	Logger   *slog.Logger
}

// SetupTestFixture builds the database tree in a temporary directory.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "SQL")
	secondary := filepath.Join(base, "appso")

	testutil.CreateUsersDatabase(t, filepath.Join(root, "news", "users.sqlite"), 5)
	testutil.CreateContentsDatabase(t, filepath.Join(root, "news", "contents.sqlite"), [2]any{NewsEarliest, nil})
	testutil.CreateContentsDatabase(t, filepath.Join(root, "archive", "old.sqlite"), [2]any{nil, ArchiveEarliest})
	testutil.CreateFile(t, filepath.Join(root, "archive", "broken.sqlite"), "this is not a database file at all")

	testutil.CreateUsersDatabase(t, filepath.Join(secondary, "app.sqlite"), 3)
	testutil.CreateUsersDatabase(t, filepath.Join(secondary, "other-app.sqlite"), 0)

	defaultDB := testutil.CreateUsersDatabase(t, filepath.Join(base, "database", "database.sqlite"), 2)

	logger := testutil.NewTestLogger(t)
	return &TestFixture{
		Root:            root,
		SecondaryDir:    secondary,
		DefaultDatabase: defaultDB,
		Catalog:         catalog.New(catalog.Config{Root: root, Logger: logger}),
		Resolver:        catalog.NewResolver(root),
		Gateway:         gateway.New(gateway.Config{Logger: logger}),
		Logger:          logger,
	}
}

// Do sends a request to h and returns the recorded response. A non-nil body
// is encoded as JSON unless it is already a string.
func Do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals a recorded JSON response body.
func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
