// Package router sets up HTTP routes for the API server.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	catalogFeature "github.com/leapstack-labs/litegate/internal/api/features/catalog"
	databaseFeature "github.com/leapstack-labs/litegate/internal/api/features/database"
	earliestFeature "github.com/leapstack-labs/litegate/internal/api/features/earliest"
	healthFeature "github.com/leapstack-labs/litegate/internal/api/features/health"
	secondaryFeature "github.com/leapstack-labs/litegate/internal/api/features/secondary"
	sqlqueryFeature "github.com/leapstack-labs/litegate/internal/api/features/sqlquery"
	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/internal/gateway"
)

// Deps holds everything the feature routes need.
type Deps struct {
	Catalog  *catalog.Catalog
	Resolver gateway.Resolver
	Gateway  *gateway.Gateway
	// DefaultDatabase is served by the bare /database routes. Empty
	// answers them with 404.
	DefaultDatabase string
	// SecondaryDir is the flat directory served under /SecondaryRoute.
	// Empty disables the secondary routes.
	SecondaryDir   string
	SecondaryRoute string
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

var routeName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reserved are the top-level segments owned by the fixed features.
var reserved = map[string]bool{
	"databases":     true,
	"database":      true,
	"sql-query":     true,
	"earliest-date": true,
	"healthz":       true,
	"metrics":       true,
}

// SetupRoutes configures all routes for the API server.
func SetupRoutes(router chi.Router, deps Deps) error {
	if err := healthFeature.SetupRoutes(router); err != nil {
		return err
	}

	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	if err := catalogFeature.SetupRoutes(router, deps.Catalog, deps.Logger); err != nil {
		return err
	}

	if err := databaseFeature.SetupRoutes(router, deps.Gateway, deps.Resolver, deps.DefaultDatabase, deps.Logger); err != nil {
		return err
	}

	if err := sqlqueryFeature.SetupRoutes(router, deps.Gateway, deps.Resolver, deps.Logger); err != nil {
		return err
	}

	if err := earliestFeature.SetupRoutes(router, deps.Gateway, deps.Resolver, deps.Logger); err != nil {
		return err
	}

	if deps.SecondaryDir != "" {
		route := deps.SecondaryRoute
		if route == "" {
			route = secondaryFeature.DefaultRoute
		}
		if !routeName.MatchString(route) || reserved[route] {
			return fmt.Errorf("invalid secondary route %q", route)
		}
		if err := secondaryFeature.SetupRoutes(router, deps.Gateway, deps.SecondaryDir, route, deps.Logger); err != nil {
			return err
		}
	}

	return nil
}
