package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowMarshalKeepsColumnOrder(t *testing.T) {
	row := Row{
		Columns: []string{"zeta", "alpha", "mid"},
		Values:  []any{int64(1), "a", nil},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":1,"alpha":"a","mid":null}`, string(data))
	assert.Equal(t, `{"zeta":1,"alpha":"a","mid":null}`, string(data))
}

func TestRowDuplicateColumns(t *testing.T) {
	row := Row{
		Columns: []string{"id", "name", "id"},
		Values:  []any{int64(1), "x", int64(2)},
	}

	cols, vals := row.Collapse()
	assert.Equal(t, []string{"id", "name"}, cols)
	assert.Equal(t, []any{int64(2), "x"}, vals)

	v, ok := row.Get("id")
	assert.True(t, ok)
	assert.Equal(t, int64(2), v)

	_, ok = row.Get("missing")
	assert.False(t, ok)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"id":2,"name":"x"}`, string(data))
}

func TestDatabaseFileMarshal(t *testing.T) {
	f := DatabaseFile{
		Name:     "a.sqlite",
		Path:     "cat/a.sqlite",
		Size:     4096,
		Modified: time.Date(2024, 3, 1, 12, 30, 0, 5e6, time.FixedZone("X", 3600)),
	}

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a.sqlite","path":"cat/a.sqlite","size":4096,"modified":"2024-03-01T11:30:00.005Z"}`, string(data))
}
