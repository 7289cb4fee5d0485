// Package sqlquery runs ad-hoc read-only statements against a database file.
package sqlquery

// QueryRequest is the body of POST /sql-query.
type QueryRequest struct {
	Database string `json:"database"`
	Query    string `json:"query"`
}

// QueryResponse is the columnar result of POST /sql-query.
type QueryResponse struct {
	Columns       []string `json:"columns"`
	Rows          [][]any  `json:"rows"`
	RowCount      int      `json:"rowCount"`
	ExecutionTime int64    `json:"executionTime"`
}
