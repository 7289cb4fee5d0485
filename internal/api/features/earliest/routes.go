package earliest

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/litegate/internal/gateway"
)

// SetupRoutes registers the earliest-date route.
func SetupRoutes(router chi.Router, gw *gateway.Gateway, resolver gateway.Resolver, logger *slog.Logger) error {
	handlers := NewHandlers(gw, resolver, logger)
	router.Post("/earliest-date", handlers.EarliestDate)
	return nil
}
