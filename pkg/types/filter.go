package types

import "time"

// DemandFilter represents the query parameters of a crane demand search.
// All filters are optional and AND-combined. The proximity triple uses
// pointers so that "absent" and "zero" are distinguishable: the radius
// predicate is applied only when Lat, Lng and RadiusKm are all present.
type DemandFilter struct {
	State              string
	CreatedByUserID    string
	AssignedOperatorID string
	StartDate          *time.Time // inclusive, start of day
	EndDate            *time.Time // inclusive, end of day
	Lat                *float64
	Lng                *float64
	RadiusKm           *float64
	Page               int // zero-based
	Size               int
}

// HasProximity reports whether the radius predicate is active.
func (f DemandFilter) HasProximity() bool {
	return f.Lat != nil && f.Lng != nil && f.RadiusKm != nil
}

// Pagination represents pagination metadata returned alongside lists.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalPages int    `json:"total_pages"`
}
