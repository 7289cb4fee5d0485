package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/litegate/pkg/core"
	"github.com/leapstack-labs/litegate/pkg/sqlguard"
)

// Page size bounds.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ClampLimit bounds a requested page size to [1, MaxLimit]. Zero means
// "unspecified" and yields DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// ClampOffset bounds a requested offset to be non-negative.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ParsePageParams parses raw limit and offset strings, applying defaults for
// empty values and clamping the results. Non-numeric values fail with
// core.KindInvalidArgument.
func ParsePageParams(rawLimit, rawOffset string) (limit, offset int, err error) {
	limit, offset = DefaultLimit, 0

	if s := strings.TrimSpace(rawLimit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, core.Errorf(core.KindInvalidArgument, "paginate", "limit must be an integer: %q", rawLimit)
		}
		limit = n
	}
	if s := strings.TrimSpace(rawOffset); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, core.Errorf(core.KindInvalidArgument, "paginate", "offset must be an integer: %q", rawOffset)
		}
		offset = n
	}
	return ClampLimit(limit), ClampOffset(offset), nil
}

// Paginate returns one page of table's rows together with the table's total
// row count. limit and offset are clamped before use. The page and count
// queries run on the same connection but not in one transaction.
func (h *Handle) Paginate(ctx context.Context, table string, limit, offset int) (*core.Page, error) {
	if err := h.requireTable(ctx, table); err != nil {
		return nil, err
	}
	limit, offset = ClampLimit(limit), ClampOffset(offset)

	rows, err := h.pageRows(ctx, table, limit, offset)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	total, err := h.count(ctx, table)
	if err = h.observe("count", start, err); err != nil {
		return nil, err
	}

	return &core.Page{
		Rows:       rows,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (h *Handle) pageRows(ctx context.Context, table string, limit, offset int) (page []core.Row, err error) {
	start := time.Now()
	defer func() { err = h.observe("data", start, err) }()

	//nolint:gosec // table is validated and cross-checked against sqlite_master
	query := fmt.Sprintf("SELECT * FROM %s LIMIT ? OFFSET ?", sqlguard.QuoteIdentifier(table))
	rows, err := h.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, values, err := scanAll(rows)
	if err != nil {
		return nil, err
	}

	page = make([]core.Row, len(values))
	for i, v := range values {
		page[i] = core.Row{Columns: cols, Values: v}
	}
	return page, nil
}
