// Package common provides the JSON responder and request helpers shared by
// the API features.
package common

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatementResponse is the body returned by the SELECT-only query endpoints.
// Data holds one object per row with keys in result-set order.
type StatementResponse struct {
	Data          any    `json:"data"`
	Count         int    `json:"count"`
	ExecutionTime string `json:"executionTime"`
	SQL           string `json:"sql"`
}

// SQLRequest is the body accepted by the SELECT-only query endpoints.
type SQLRequest struct {
	SQL string `json:"sql"`
}
