package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// classify maps an engine error onto the failure taxonomy using the
// engine's message text. Errors that already carry a kind pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.Wrap(core.KindQueryExecution, op, "query cancelled or timed out", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"):
		return core.Wrap(core.KindNoSuchTable, op, "table does not exist", err)
	case strings.Contains(msg, "no such column"):
		return core.Wrap(core.KindNoSuchColumn, op, "column does not exist", err)
	case strings.Contains(msg, "file is not a database"),
		strings.Contains(msg, "unable to open database"),
		strings.Contains(msg, "database disk image is malformed"),
		strings.Contains(msg, "database is locked"):
		return core.Wrap(core.KindOpenFailure, op, "unable to open database", err)
	case strings.Contains(msg, "syntax error"),
		strings.Contains(msg, "incomplete input"),
		strings.Contains(msg, "unrecognized token"),
		strings.Contains(msg, "sql logic error"),
		strings.Contains(msg, "sqlite_error"):
		return core.Wrap(core.KindSyntaxError, op, "SQL syntax error", err)
	default:
		return core.Wrap(core.KindQueryExecution, op, "query failed", err)
	}
}
