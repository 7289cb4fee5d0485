package sqlquery

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/litegate/internal/gateway"
)

// SetupRoutes registers the ad-hoc query routes.
func SetupRoutes(router chi.Router, gw *gateway.Gateway, resolver gateway.Resolver, logger *slog.Logger) error {
	handlers := NewHandlers(gw, resolver, logger)
	router.Post("/sql-query", handlers.Execute)
	return nil
}
