// Package catalog serves the listing of database files grouped by category.
package catalog

import "github.com/leapstack-labs/litegate/pkg/core"

// ListResponse is returned by GET /databases.
type ListResponse struct {
	Databases []core.Category `json:"databases"`
}
