package secondary

import (
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/litegate/internal/api/features/common"
	"github.com/leapstack-labs/litegate/internal/api/features/database"
	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/core"
)

// Handlers provides HTTP handlers for the secondary directory.
type Handlers struct {
	dir      string
	suffix   string
	resolver gateway.Resolver
	browser  *database.Browser
	gateway  *gateway.Gateway
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance serving the files in dir.
func NewHandlers(gw *gateway.Gateway, dir string, logger *slog.Logger) *Handlers {
	resolver := catalog.NewSecondaryResolver(dir)
	return &Handlers{
		dir:      dir,
		suffix:   resolver.Suffix,
		resolver: resolver,
		browser:  database.NewBrowser(gw, logger, true),
		gateway:  gw,
		logger:   logger,
	}
}

// List serves the directory listing.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	if action := r.URL.Query().Get("action"); action != "" && action != actionList {
		common.WriteError(w, r, h.logger,
			core.Errorf(core.KindInvalidArgument, "list", "invalid action: %q", action))
		return
	}

	files, err := catalog.ListFiles(h.dir, "", h.suffix)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, ListResponse{Databases: files, Total: len(files)})
}

// Browse serves the tables, schema, data and info actions for one file.
func (h *Handlers) Browse(w http.ResponseWriter, r *http.Request) {
	name := common.PathParam(r, "database")
	path, err := h.resolver.Resolve(name)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	h.browser.Serve(w, r, name, path)
}

// Query serves GET .../query?sql=.
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolver.Resolve(common.PathParam(r, "database"))
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	sql := r.URL.Query().Get("sql")
	if sql == "" {
		common.WriteError(w, r, h.logger,
			core.Errorf(core.KindInvalidArgument, "query", "sql query parameter is required"))
		return
	}
	h.run(w, r, path, sql)
}

// QueryBody serves POST .../query with a {"sql": ...} body.
func (h *Handlers) QueryBody(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolver.Resolve(common.PathParam(r, "database"))
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	var body common.SQLRequest
	if err := common.DecodeJSON(w, r, &body); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	h.run(w, r, path, body.SQL)
}

func (h *Handlers) run(w http.ResponseWriter, r *http.Request, path, sql string) {
	resp, err := common.RunSelect(r.Context(), h.gateway, path, sql)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, resp)
}
