// Package earliest serves the earliest-date aggregation.
package earliest

// Request is the body of POST /earliest-date. Database selects the single
// form; Databases the aggregated form. Database "all" is treated as absent.
type Request struct {
	Database  string   `json:"database"`
	Databases []string `json:"databases"`
}
