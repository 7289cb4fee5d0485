package common

import (
	"context"

	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/sqlguard"
)

// RunSelect validates sql in SELECT-only mode, runs it against the database
// at path and returns the row-object response.
func RunSelect(ctx context.Context, gw *gateway.Gateway, path, sql string) (*StatementResponse, error) {
	stmt, err := sqlguard.Check(sql, sqlguard.SelectOnly)
	if err != nil {
		return nil, err
	}

	var resp *StatementResponse
	err = gw.WithDatabase(ctx, path, func(h *gateway.Handle) error {
		records, err := h.QueryRecords(ctx, stmt)
		if err != nil {
			return err
		}
		resp = &StatementResponse{
			Data:          records.Rows,
			Count:         len(records.Rows),
			ExecutionTime: FormatMillis(records.Elapsed.Milliseconds()),
			SQL:           sql,
		}
		return nil
	})
	return resp, err
}
