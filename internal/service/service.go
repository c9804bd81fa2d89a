// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package service implements the catalog endpoints' business logic: each
// service composes filter predicates, runs the catalog assembler against the
// row store, and shapes the typed response. Services hold no request state;
// the store client is injected at construction.
package service

import (
	"errors"
	"time"

	"github.com/chartel/chartel/internal/catalog"
	"github.com/chartel/chartel/internal/models"
)

// dateLayout is the calendar-date format used by snapshot columns.
const dateLayout = "2006-01-02"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidRange is returned when a range filter's minimum exceeds its
// maximum. Contradictory bounds are a client error, never silently clamped.
var ErrInvalidRange = errors.New("range filter minimum exceeds maximum")

// ErrInvalidArgument is returned for filter values outside their enum.
var ErrInvalidArgument = errors.New("invalid argument")

// paginate slices a pre-ordered row set by cursor and limit. Used for
// listings whose order comes from the store (rankings) or is trivial
// (name-ordered lookups); catalog listings go through catalog.Assemble
// instead.
func paginate[T any](rows []T, cursorToken string, limit int) ([]T, models.Page, error) {
	offset := 0
	if cursorToken != "" {
		cursor, err := catalog.DecodeCursor(cursorToken)
		if err != nil {
			return nil, models.Page{}, err
		}
		offset = cursor.Offset
	}
	if limit <= 0 {
		limit = catalog.DefaultLimit
	}

	if offset >= len(rows) {
		return []T{}, models.Page{}, nil
	}

	end := offset + limit
	hasMore := end < len(rows)
	if end > len(rows) {
		end = len(rows)
	}

	page := models.Page{HasMore: hasMore}
	if hasMore {
		token := catalog.EncodeCursor(catalog.Cursor{Offset: offset + limit})
		page.NextCursor = &token
	}
	return rows[offset:end], page, nil
}

// timeKey adapts a nullable timestamp into a sortable numeric key.
func timeKey(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	v := float64(t.Unix())
	return &v
}
