// Package database serves table listing, schema, paging and info actions
// against a single database file.
package database

import "github.com/leapstack-labs/litegate/pkg/core"

// Actions accepted in the action query parameter.
const (
	ActionTables = "tables"
	ActionSchema = "schema"
	ActionData   = "data"
	ActionInfo   = "info"
)

// TablesResponse is returned by action=tables.
type TablesResponse struct {
	Tables []core.TableDescriptor `json:"tables"`
}

// SchemaResponse is returned by action=schema.
type SchemaResponse struct {
	Schema []core.ColumnDescriptor `json:"schema"`
}

// InfoResponse is returned by action=info.
type InfoResponse struct {
	Database    string           `json:"database"`
	Tables      []core.TableInfo `json:"tables"`
	TotalTables int              `json:"totalTables"`
}
