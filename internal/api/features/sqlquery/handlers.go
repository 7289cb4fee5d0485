package sqlquery

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/leapstack-labs/litegate/internal/api/features/common"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/core"
	"github.com/leapstack-labs/litegate/pkg/sqlguard"
)

// Handlers provides HTTP handlers for the ad-hoc query feature.
type Handlers struct {
	gateway  *gateway.Gateway
	resolver gateway.Resolver
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(gw *gateway.Gateway, resolver gateway.Resolver, logger *slog.Logger) *Handlers {
	return &Handlers{gateway: gw, resolver: resolver, logger: logger}
}

// Execute serves POST /sql-query. SELECT, PRAGMA and EXPLAIN statements are
// accepted.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	if req.Database == "" || strings.TrimSpace(req.Query) == "" {
		common.WriteError(w, r, h.logger,
			core.Errorf(core.KindInvalidArgument, "sql-query", "database and query are both required"))
		return
	}

	path, err := h.resolver.Resolve(req.Database)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	stmt, err := sqlguard.Check(req.Query, sqlguard.ReadOnly)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	ctx := r.Context()
	var result *core.QueryResult
	err = h.gateway.WithDatabase(ctx, path, func(handle *gateway.Handle) error {
		res, err := handle.Query(ctx, stmt)
		result = res
		return err
	})
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, QueryResponse{
		Columns:       result.Columns,
		Rows:          result.Rows,
		RowCount:      result.RowCount(),
		ExecutionTime: result.ExecutionTimeMillis,
	})
}
