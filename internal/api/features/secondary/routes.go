package secondary

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/litegate/internal/gateway"
)

// DefaultRoute is the path prefix the secondary directory is served under.
const DefaultRoute = "appso"

// SetupRoutes registers the secondary directory routes under /route.
func SetupRoutes(router chi.Router, gw *gateway.Gateway, dir, route string, logger *slog.Logger) error {
	if route == "" {
		route = DefaultRoute
	}
	handlers := NewHandlers(gw, dir, logger)

	router.Route("/"+route, func(r chi.Router) {
		r.Get("/", handlers.List)
		r.Get("/{database}", handlers.Browse)
		r.Get("/{database}/query", handlers.Query)
		r.Post("/{database}/query", handlers.QueryBody)
	})

	return nil
}
