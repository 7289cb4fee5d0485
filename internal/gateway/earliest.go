package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// MillisecondThreshold separates the two timestamp encodings: values above
// it are milliseconds since the epoch, values at or below it are seconds.
const MillisecondThreshold = 9999999999

// earliestQuery normalizes postDate and createTime to milliseconds, takes the
// smaller of the two per row, then the minimum across rows. NULL, empty, the
// literal string 'NULL' and values that do not cast to a positive integer do
// not count as timestamps.
const earliestQuery = `
	SELECT MIN(MIN(COALESCE(p, c), COALESCE(c, p))) FROM (
		SELECT
			CASE
				WHEN postDate IS NULL OR postDate = '' OR postDate = 'NULL' THEN NULL
				WHEN CAST(postDate AS INTEGER) <= 0 THEN NULL
				WHEN CAST(postDate AS INTEGER) > 9999999999 THEN CAST(postDate AS INTEGER)
				ELSE CAST(postDate AS INTEGER) * 1000
			END AS p,
			CASE
				WHEN createTime IS NULL OR createTime = '' OR createTime = 'NULL' THEN NULL
				WHEN CAST(createTime AS INTEGER) <= 0 THEN NULL
				WHEN CAST(createTime AS INTEGER) > 9999999999 THEN CAST(createTime AS INTEGER)
				ELSE CAST(createTime AS INTEGER) * 1000
			END AS c
		FROM contents
	)
`

// NormalizeTimestamp converts a seconds or milliseconds epoch value to
// milliseconds using MillisecondThreshold.
func NormalizeTimestamp(v int64) int64 {
	if v > MillisecondThreshold {
		return v
	}
	return v * 1000
}

// FormatDate renders a millisecond epoch value as a UTC calendar date.
func FormatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

// EarliestTimestamp returns the earliest normalized timestamp, in
// milliseconds, in the contents table. ok is false when no row carries a
// usable timestamp.
func (h *Handle) EarliestTimestamp(ctx context.Context) (ms int64, ok bool, err error) {
	start := time.Now()
	defer func() { err = h.observe("earliest", start, err) }()

	var v sql.NullInt64
	if err := h.db.QueryRowContext(ctx, earliestQuery).Scan(&v); err != nil {
		return 0, false, fmt.Errorf("failed to query earliest timestamp: %w", err)
	}
	if !v.Valid || v.Int64 == 0 {
		return 0, false, nil
	}
	return v.Int64, true, nil
}

// earliestOutcome is one database's contribution to the aggregation.
type earliestOutcome struct {
	ms      int64
	present bool
	err     error
}

// earliestAt opens path and reads its earliest timestamp.
func (g *Gateway) earliestAt(ctx context.Context, path string) earliestOutcome {
	var out earliestOutcome
	out.err = g.WithDatabase(ctx, path, func(h *Handle) error {
		ms, ok, err := h.EarliestTimestamp(ctx)
		out.ms, out.present = ms, ok
		return err
	})
	return out
}

// EarliestDate computes the earliest date in a single database. Resolution
// failures are returned as errors; open and query failures are reported in
// PerDatabaseFailures with no date.
func (g *Gateway) EarliestDate(ctx context.Context, r Resolver, id string) (core.EarliestDateResult, error) {
	path, err := r.Resolve(id)
	if err != nil {
		return core.EarliestDateResult{}, err
	}

	out := g.earliestAt(ctx, path)
	if out.err != nil {
		g.logger.Warn("earliest date lookup failed", "database", id, "error", out.err)
		return core.EarliestDateResult{PerDatabaseFailures: map[string]string{id: out.err.Error()}}, nil
	}
	return foldEarliest([]earliestOutcome{out}), nil
}

// EarliestDateAcross computes the earliest date across ids. Each database is
// looked up independently and concurrently; a failing database is recorded
// in PerDatabaseFailures and does not affect the others.
func (g *Gateway) EarliestDateAcross(ctx context.Context, r Resolver, ids []string) core.EarliestDateResult {
	outcomes := make([]earliestOutcome, len(ids))

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, id := range ids {
		eg.Go(func() error {
			path, err := r.Resolve(id)
			if err != nil {
				outcomes[i] = earliestOutcome{err: err}
				return nil
			}
			outcomes[i] = g.earliestAt(ctx, path)
			return nil
		})
	}
	_ = eg.Wait()

	result := foldEarliest(outcomes)
	for i, out := range outcomes {
		if out.err == nil {
			continue
		}
		g.logger.Warn("earliest date lookup failed", "database", ids[i], "error", out.err)
		if result.PerDatabaseFailures == nil {
			result.PerDatabaseFailures = make(map[string]string)
		}
		result.PerDatabaseFailures[ids[i]] = out.err.Error()
	}
	return result
}

// foldEarliest reduces outcomes to the minimum present timestamp. The fold is
// order-independent.
func foldEarliest(outcomes []earliestOutcome) core.EarliestDateResult {
	var (
		earliest int64
		found    bool
	)
	for _, out := range outcomes {
		if out.err != nil || !out.present {
			continue
		}
		if !found || out.ms < earliest {
			earliest, found = out.ms, true
		}
	}

	if !found {
		return core.EarliestDateResult{}
	}
	date := FormatDate(earliest)
	return core.EarliestDateResult{EarliestDate: &date}
}
