// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package catalog

import "sort"

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps a query parameter to a Direction. Empty stays empty
// so the catalog's default direction applies; anything else that is not
// "asc" sorts descending.
func ParseDirection(s string) Direction {
	switch s {
	case "":
		return ""
	case string(Asc):
		return Asc
	default:
		return Desc
	}
}

// SortKey extracts the sort value for a row. A nil return means the row has
// no value for the field and sorts after every row that does.
type SortKey[R any] func(R) *float64

// Sort orders rows in place by (field value, identifier). The direction
// applies to the field comparison only; the identifier tie-break is always
// ascending so equal field values page deterministically. Rows with a null
// field value go strictly last regardless of direction: a listing sorted
// descending by a metric should not lead with entities that lack the metric.
func Sort[R any](rows []R, key SortKey[R], dir Direction, id func(R) string) {
	sort.Slice(rows, func(i, j int) bool {
		vi, vj := key(rows[i]), key(rows[j])
		switch {
		case vi == nil && vj == nil:
			return id(rows[i]) < id(rows[j])
		case vi == nil:
			return false
		case vj == nil:
			return true
		}
		if *vi != *vj {
			if dir == Desc {
				return *vi > *vj
			}
			return *vi < *vj
		}
		return id(rows[i]) < id(rows[j])
	})
}
