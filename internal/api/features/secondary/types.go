// Package secondary serves the flat secondary database directory: listing,
// browsing with the info action, and SELECT-only queries.
package secondary

import "github.com/leapstack-labs/litegate/pkg/core"

const actionList = "list"

// ListResponse is returned by the listing route.
type ListResponse struct {
	Databases []core.DatabaseFile `json:"databases"`
	Total     int                 `json:"total"`
}
