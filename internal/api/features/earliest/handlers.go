package earliest

import (
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/litegate/internal/api/features/common"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/core"
)

const allDatabases = "all"

// Handlers provides HTTP handlers for the earliest-date feature.
type Handlers struct {
	gateway  *gateway.Gateway
	resolver gateway.Resolver
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(gw *gateway.Gateway, resolver gateway.Resolver, logger *slog.Logger) *Handlers {
	return &Handlers{gateway: gw, resolver: resolver, logger: logger}
}

// EarliestDate serves POST /earliest-date.
func (h *Handlers) EarliestDate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	switch {
	case req.Database != "" && req.Database != allDatabases:
		result, err := h.gateway.EarliestDate(r.Context(), h.resolver, req.Database)
		if err != nil {
			common.WriteError(w, r, h.logger, err)
			return
		}
		common.WriteJSON(w, http.StatusOK, result)

	case req.Databases != nil:
		result := h.gateway.EarliestDateAcross(r.Context(), h.resolver, req.Databases)
		common.WriteJSON(w, http.StatusOK, result)

	default:
		common.WriteError(w, r, h.logger,
			core.Errorf(core.KindInvalidArgument, "earliest-date", "database or databases is required"))
	}
}
