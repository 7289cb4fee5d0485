package core

import (
	"bytes"
	"encoding/json"
)

// Row is one result row with its column names in result-set order.
// Columns and Values are aligned by index.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column. When a name repeats, the last
// occurrence wins.
func (r Row) Get(name string) (any, bool) {
	for i := len(r.Columns) - 1; i >= 0; i-- {
		if r.Columns[i] == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as a JSON object whose keys keep the
// result-set column order. Repeated names are emitted once, at their first
// position, carrying the last value.
func (r Row) MarshalJSON() ([]byte, error) {
	cols, vals := r.Collapse()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Collapse returns the distinct column names of the row in first-seen order,
// with each name carrying the value of its last occurrence.
func (r Row) Collapse() ([]string, []any) {
	index := make(map[string]int, len(r.Columns))
	cols := make([]string, 0, len(r.Columns))
	vals := make([]any, 0, len(r.Values))

	for i, col := range r.Columns {
		if pos, ok := index[col]; ok {
			vals[pos] = r.Values[i]
			continue
		}
		index[col] = len(cols)
		cols = append(cols, col)
		vals = append(vals, r.Values[i])
	}
	return cols, vals
}
