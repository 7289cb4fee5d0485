package database

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/litegate/internal/gateway"
)

// SetupRoutes registers the database feature routes.
func SetupRoutes(
	router chi.Router,
	gw *gateway.Gateway,
	resolver gateway.Resolver,
	defaultDatabase string,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(gw, resolver, defaultDatabase, logger)

	router.Get("/database", handlers.BrowseDefault)
	router.Post("/database", handlers.QueryDefault)
	router.Get("/database/*", handlers.Browse)

	return nil
}
