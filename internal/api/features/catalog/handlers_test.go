package catalog

import (
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/internal/api/features"
)

func TestList(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Catalog, fixture.Logger))

	rec := features.Do(t, r, http.MethodGet, "/databases", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := features.Decode[struct {
		Databases []struct {
			Category string `json:"category"`
			Files    []struct {
				Name     string `json:"name"`
				Path     string `json:"path"`
				Size     int64  `json:"size"`
				Modified string `json:"modified"`
			} `json:"files"`
		} `json:"databases"`
	}](t, rec)

	require.Len(t, body.Databases, 2)
	assert.Equal(t, "archive", body.Databases[0].Category)
	assert.Equal(t, "news", body.Databases[1].Category)

	news := body.Databases[1].Files
	require.Len(t, news, 2)
	assert.Equal(t, "contents.sqlite", news[0].Name)
	assert.Equal(t, "news/contents.sqlite", news[0].Path)
	assert.Equal(t, "news/users.sqlite", news[1].Path)
	assert.Positive(t, news[1].Size)
	assert.NotEmpty(t, news[1].Modified)
}

func TestList_EmptyRoot(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	require.NoError(t, os.RemoveAll(fixture.Root))
	require.NoError(t, os.MkdirAll(fixture.Root, 0o755))

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Catalog, fixture.Logger))

	rec := features.Do(t, r, http.MethodGet, "/databases", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"databases":[]}`, rec.Body.String())
}

func TestList_MissingRoot(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	require.NoError(t, os.RemoveAll(fixture.Root))

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Catalog, fixture.Logger))

	rec := features.Do(t, r, http.MethodGet, "/databases", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
