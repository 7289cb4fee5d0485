package database

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/leapstack-labs/litegate/internal/api/features/common"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/core"
)

// Handlers provides HTTP handlers for the database feature.
type Handlers struct {
	browser         *Browser
	resolver        gateway.Resolver
	gateway         *gateway.Gateway
	defaultDatabase string
	logger          *slog.Logger
}

// NewHandlers creates a new Handlers instance. defaultDatabase is the file
// served by the bare /database routes; empty disables them.
func NewHandlers(gw *gateway.Gateway, resolver gateway.Resolver, defaultDatabase string, logger *slog.Logger) *Handlers {
	return &Handlers{
		browser:         NewBrowser(gw, logger, false),
		resolver:        resolver,
		gateway:         gw,
		defaultDatabase: defaultDatabase,
		logger:          logger,
	}
}

// Browse serves GET /database/{path...}.
func (h *Handlers) Browse(w http.ResponseWriter, r *http.Request) {
	rel := common.PathParam(r, "*")
	path, err := h.resolver.Resolve(rel)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	h.browser.Serve(w, r, rel, path)
}

// BrowseDefault serves GET /database against the default database.
func (h *Handlers) BrowseDefault(w http.ResponseWriter, r *http.Request) {
	path, err := h.defaultPath()
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	h.browser.Serve(w, r, "", path)
}

// QueryDefault serves POST /database, running a SELECT statement against the
// default database.
func (h *Handlers) QueryDefault(w http.ResponseWriter, r *http.Request) {
	path, err := h.defaultPath()
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	var body common.SQLRequest
	if err := common.DecodeJSON(w, r, &body); err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}

	resp, err := common.RunSelect(r.Context(), h.gateway, path, body.SQL)
	if err != nil {
		common.WriteError(w, r, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) defaultPath() (string, error) {
	if h.defaultDatabase == "" {
		return "", core.Errorf(core.KindNotFound, "resolve", "no default database is configured")
	}
	info, err := os.Stat(h.defaultDatabase)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", core.Errorf(core.KindNotFound, "resolve", "database file does not exist")
	case err != nil:
		return "", core.Wrap(core.KindOpenFailure, "resolve", "unable to open database", err)
	case !info.Mode().IsRegular():
		return "", core.Errorf(core.KindNotFound, "resolve", "database file does not exist")
	}
	return h.defaultDatabase, nil
}
