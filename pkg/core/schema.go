package core

import (
	"encoding/json"
	"time"
)

// =============================================================================
// Schema
// =============================================================================

// TableDescriptor names a user table in a database file.
type TableDescriptor struct {
	Name string `json:"name"`
}

// ColumnDescriptor describes one column as reported by the engine.
// Descriptors are immutable once returned.
type ColumnDescriptor struct {
	Position     int     `json:"position"`
	Name         string  `json:"name"`
	DeclaredType string  `json:"declaredType"`
	NotNull      bool    `json:"notNull"`
	DefaultValue *string `json:"defaultValue"`
	IsPrimaryKey bool    `json:"isPrimaryKey"`
}

// TableInfo summarizes a table for the info action.
type TableInfo struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	SQL   string `json:"sql"`
}

// =============================================================================
// Results
// =============================================================================

// Page is one window of a table's rows.
// TotalCount comes from a COUNT(*) taken in the same request.
type Page struct {
	Rows       []Row `json:"data"`
	TotalCount int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// QueryResult is the columnar result of an ad-hoc statement.
type QueryResult struct {
	Columns             []string `json:"columns"`
	Rows                [][]any  `json:"rows"`
	ExecutionTimeMillis int64    `json:"executionTime"`
}

// RowCount returns the number of rows in the result.
func (r *QueryResult) RowCount() int {
	return len(r.Rows)
}

// EarliestDateResult is the outcome of an earliest-timestamp aggregation.
// EarliestDate is nil when no database produced a usable timestamp.
type EarliestDateResult struct {
	EarliestDate        *string           `json:"earliestDate"`
	PerDatabaseFailures map[string]string `json:"failures,omitempty"`
}

// =============================================================================
// Catalog
// =============================================================================

// DatabaseFile is a SQLite file discovered under a root.
type DatabaseFile struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"-"`
}

// ModifiedISO returns the modification time as a UTC ISO-8601 string with
// millisecond precision.
func (f DatabaseFile) ModifiedISO() string {
	return f.Modified.UTC().Format("2006-01-02T15:04:05.000Z")
}

// MarshalJSON renders Modified in ISO form.
func (f DatabaseFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string `json:"name"`
		Path     string `json:"path"`
		Size     int64  `json:"size"`
		Modified string `json:"modified"`
	}{f.Name, f.Path, f.Size, f.ModifiedISO()})
}

// Category groups the database files of one directory under the root.
type Category struct {
	Category string         `json:"category"`
	Files    []DatabaseFile `json:"files"`
}
