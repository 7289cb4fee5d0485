// Package health serves the liveness probe.
package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/litegate/internal/api/features/common"
)

// Status is the body of GET /healthz.
type Status struct {
	Status string `json:"status"`
}

// Healthz reports that the server is accepting requests.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, Status{Status: "ok"})
}

// SetupRoutes registers the health route.
func SetupRoutes(router chi.Router) error {
	router.Get("/healthz", Healthz)
	return nil
}
