package catalog

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/litegate/internal/catalog"
)

// SetupRoutes registers the catalog feature routes.
func SetupRoutes(router chi.Router, cat *catalog.Catalog, logger *slog.Logger) error {
	handlers := NewHandlers(cat, logger)
	router.Get("/databases", handlers.List)
	return nil
}
