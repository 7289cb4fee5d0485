package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/litegate/pkg/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want core.Kind
	}{
		{`SQL logic error: near "FROM": syntax error (1)`, core.KindSyntaxError},
		{"incomplete input", core.KindSyntaxError},
		{`unrecognized token: "'"`, core.KindSyntaxError},
		{"no such table: missing", core.KindNoSuchTable},
		{"no such column: nope", core.KindNoSuchColumn},
		{"unable to open database file", core.KindOpenFailure},
		{"file is not a database (26)", core.KindOpenFailure},
		{"database disk image is malformed", core.KindOpenFailure},
		{"database is locked (5)", core.KindOpenFailure},
		{"SQL logic error: no such function: nope (1)", core.KindSyntaxError},
		{"disk I/O error (10)", core.KindQueryExecution},
		{"interrupted", core.KindQueryExecution},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := classify("query", errors.New(tt.msg))
			assert.Equal(t, tt.want, core.KindOf(err))
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, classify("query", nil))

	orig := core.Errorf(core.KindNoSuchTable, "columns", "no such table %q", "x")
	assert.Same(t, orig, classify("query", orig))

	bad := core.Errorf(core.KindInvalidIdentifier, "identifier", "bad")
	assert.Same(t, bad, classify("query", bad))

	assert.Equal(t, core.KindQueryExecution, core.KindOf(classify("query", context.DeadlineExceeded)))

	err := classify("query", fmt.Errorf("scan: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, core.ErrQueryExecution)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
