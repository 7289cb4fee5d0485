package catalog

import (
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/litegate/internal/api/features/common"
	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/pkg/core"
)

// Handlers provides HTTP handlers for the catalog feature.
type Handlers struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cat *catalog.Catalog, logger *slog.Logger) *Handlers {
	return &Handlers{catalog: cat, logger: logger}
}

// List serves GET /databases.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	common.WriteJSON(w, http.StatusOK, ListResponse{Databases: categories})
}
