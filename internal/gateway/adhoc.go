package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/litegate/pkg/core"
	"github.com/leapstack-labs/litegate/pkg/sqlguard"
)

// Records is the row-object form of an ad-hoc result.
type Records struct {
	Rows    []core.Row
	Elapsed time.Duration
}

// Query executes an accepted statement and returns its columnar result.
// Columns come from the first row, so an empty result has no columns.
// Repeated column names collapse to their first position and keep the last
// value. ExecutionTimeMillis covers execution and fetch only.
func (h *Handle) Query(ctx context.Context, stmt *sqlguard.Statement) (*core.QueryResult, error) {
	cols, values, elapsed, err := h.run(ctx, stmt)
	if err != nil {
		return nil, err
	}

	result := &core.QueryResult{
		Columns:             []string{},
		Rows:                [][]any{},
		ExecutionTimeMillis: elapsed.Milliseconds(),
	}
	if len(values) == 0 {
		return result, nil
	}

	collapsed, index := collapseColumns(cols)
	result.Columns = collapsed
	result.Rows = make([][]any, len(values))
	for i, v := range values {
		row := make([]any, len(collapsed))
		for j, val := range v {
			row[index[j]] = val
		}
		result.Rows[i] = row
	}
	return result, nil
}

// QueryRecords executes an accepted statement and returns each row as an
// ordered record.
func (h *Handle) QueryRecords(ctx context.Context, stmt *sqlguard.Statement) (*Records, error) {
	cols, values, elapsed, err := h.run(ctx, stmt)
	if err != nil {
		return nil, err
	}

	records := &Records{Rows: make([]core.Row, len(values)), Elapsed: elapsed}
	for i, v := range values {
		records.Rows[i] = core.Row{Columns: cols, Values: v}
	}
	return records, nil
}

func (h *Handle) run(ctx context.Context, stmt *sqlguard.Statement) (cols []string, values [][]any, elapsed time.Duration, err error) {
	if stmt == nil {
		return nil, nil, 0, core.Errorf(core.KindUnsafeStatement, "query", "no statement to execute")
	}

	if h.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { err = h.observe("query", start, err) }()

	rows, err := h.db.QueryContext(ctx, stmt.SQL)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, values, err = scanAll(rows)
	if err != nil {
		return nil, nil, 0, err
	}
	return cols, values, time.Since(start), nil
}

// scanAll reads every remaining row. Byte slices are returned as strings.
func scanAll(rows *sql.Rows) ([]string, [][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	values := [][]any{}
	for rows.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return cols, values, nil
}

// collapseColumns removes repeated names, keeping first positions, and
// returns for each input position the output position it maps to.
func collapseColumns(cols []string) ([]string, []int) {
	seen := make(map[string]int, len(cols))
	out := make([]string, 0, len(cols))
	index := make([]int, len(cols))
	for i, c := range cols {
		pos, ok := seen[c]
		if !ok {
			pos = len(out)
			seen[c] = pos
			out = append(out, c)
		}
		index[i] = pos
	}
	return out, index
}
