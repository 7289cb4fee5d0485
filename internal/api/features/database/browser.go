package database

import (
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/litegate/internal/api/features/common"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/core"
	"github.com/leapstack-labs/litegate/pkg/sqlguard"
)

// Browser answers the action query parameter against one resolved file.
type Browser struct {
	gateway   *gateway.Gateway
	logger    *slog.Logger
	allowInfo bool
}

// NewBrowser creates a Browser. allowInfo enables action=info.
func NewBrowser(gw *gateway.Gateway, logger *slog.Logger, allowInfo bool) *Browser {
	return &Browser{gateway: gw, logger: logger, allowInfo: allowInfo}
}

// request is a parsed and validated browse request.
type request struct {
	action        string
	table         string
	limit, offset int
}

func (b *Browser) parse(r *http.Request) (request, error) {
	q := r.URL.Query()
	req := request{action: q.Get("action"), table: q.Get("table")}
	if req.action == "" {
		req.action = ActionTables
	}

	switch req.action {
	case ActionTables:
	case ActionInfo:
		if !b.allowInfo {
			return req, core.Errorf(core.KindInvalidArgument, "browse", "invalid action: %q", req.action)
		}
	case ActionSchema:
		if err := sqlguard.ValidateIdentifier(req.table); err != nil {
			return req, err
		}
	case ActionData:
		if err := sqlguard.ValidateIdentifier(req.table); err != nil {
			return req, err
		}
		limit, offset, err := gateway.ParsePageParams(q.Get("limit"), q.Get("offset"))
		if err != nil {
			return req, err
		}
		req.limit, req.offset = limit, offset
	default:
		return req, core.Errorf(core.KindInvalidArgument, "browse", "invalid action: %q", req.action)
	}
	return req, nil
}

// Serve validates the request, opens path read-only and writes the action's
// response. name is the identifier the client used for the database.
func (b *Browser) Serve(w http.ResponseWriter, r *http.Request, name, path string) {
	req, err := b.parse(r)
	if err != nil {
		common.WriteError(w, r, b.logger, err)
		return
	}

	ctx := r.Context()
	var resp any
	err = b.gateway.WithDatabase(ctx, path, func(h *gateway.Handle) error {
		switch req.action {
		case ActionSchema:
			cols, err := h.Columns(ctx, req.table)
			resp = SchemaResponse{Schema: cols}
			return err
		case ActionData:
			page, err := h.Paginate(ctx, req.table, req.limit, req.offset)
			resp = page
			return err
		case ActionInfo:
			infos, err := h.TableInfo(ctx)
			resp = InfoResponse{Database: name, Tables: infos, TotalTables: len(infos)}
			return err
		default:
			tables, err := h.ListTables(ctx)
			resp = TablesResponse{Tables: tables}
			return err
		}
	})
	if err != nil {
		common.WriteError(w, r, b.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, resp)
}
