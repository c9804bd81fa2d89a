// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package catalog

import (
	"context"
	"errors"
	"fmt"
)

// DefaultLimit is the page size applied when a request carries none.
const DefaultLimit = 20

// ErrUnknownSortField is returned when a request names a sort field outside
// the catalog's allow-list. Unknown fields are a client error, never a
// silent fallback to the default.
var ErrUnknownSortField = errors.New("unknown sort field")

// Definition is the per-catalog configuration the assembler runs against:
// the sortable-field allow-list, the default sort, and the identifier used
// as the deterministic tie-break. One value per catalog, declared as data.
type Definition[R any] struct {
	SortFields       map[string]SortKey[R]
	DefaultSort      string
	DefaultDirection Direction
	ID               func(R) string
}

// ListParams are the pagination and ordering parameters common to every
// catalog request. Filter criteria stay catalog-specific and arrive as a
// composed Predicate.
type ListParams struct {
	SortBy    string
	SortOrder Direction
	Limit     int
	Cursor    string
}

// Ranked pairs a row with its position in the globally filtered+sorted
// order. Rank is 1-based and offset-aware: the first item of page two at
// limit 20 has rank 21.
type Ranked[R any] struct {
	Rank int
	Row  R
}

// PageResult is one assembled page plus its pagination metadata.
type PageResult[R any] struct {
	Items         []Ranked[R]
	NextCursor    *string
	HasMore       bool
	TotalEstimate int
}

// Assemble produces one page of a catalog listing. Sort field and cursor are
// validated before fetch runs, so a bad request never pays for a store round
// trip. The fetch callback returns the full enriched candidate set; filtering,
// counting, ordering, and slicing all happen here.
func Assemble[R any](
	ctx context.Context,
	def Definition[R],
	params ListParams,
	filter Predicate[R],
	fetch func(context.Context) ([]R, error),
) (*PageResult[R], error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = def.DefaultSort
	}
	key, ok := def.SortFields[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortField, sortBy)
	}

	dir := params.SortOrder
	if dir == "" {
		dir = def.DefaultDirection
	}

	offset := 0
	if params.Cursor != "" {
		cursor, err := DecodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		offset = cursor.Offset
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = Identity[R]
	}
	filtered := Apply(rows, filter)
	total := len(filtered)

	Sort(filtered, key, dir, def.ID)

	if offset >= total {
		return &PageResult[R]{Items: []Ranked[R]{}, TotalEstimate: total}, nil
	}

	end := offset + limit
	hasMore := end < total
	if end > total {
		end = total
	}

	items := make([]Ranked[R], 0, end-offset)
	for i, row := range filtered[offset:end] {
		items = append(items, Ranked[R]{Rank: offset + i + 1, Row: row})
	}

	result := &PageResult[R]{
		Items:         items,
		HasMore:       hasMore,
		TotalEstimate: total,
	}
	if hasMore {
		token := EncodeCursor(Cursor{
			Offset: offset + limit,
			LastID: def.ID(filtered[end-1]),
		})
		result.NextCursor = &token
	}
	return result, nil
}
