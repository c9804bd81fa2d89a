// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package catalog implements the query engine shared by every listing
// endpoint: opaque pagination cursors, composable row predicates, a
// deterministic sort with fixed null handling, period-over-period delta
// arithmetic, and the page assembler that ties them together.
package catalog

import (
	"encoding/base64"
	"errors"

	json "github.com/goccy/go-json"
)

// ErrInvalidCursor is returned when a pagination token cannot be decoded.
var ErrInvalidCursor = errors.New("invalid pagination cursor")

// Cursor is the resumption state for a paginated query. The token is an
// offset into the filtered+sorted result set; LastID records the identifier
// of the last row on the previous page for diagnostics only.
//
// A cursor is valid only for the filter+sort combination that produced it.
// Decoding does not verify this, and pagination is not snapshot-isolated:
// concurrent writes between page fetches can skip or repeat rows. Both are
// documented limitations, not security boundaries.
type Cursor struct {
	Offset int    `json:"offset"`
	LastID string `json:"last_id,omitempty"`
}

// EncodeCursor renders a cursor as a URL-safe opaque token.
func EncodeCursor(c Cursor) string {
	b, err := json.Marshal(c)
	if err != nil {
		// Cursor has no unmarshalable fields; this cannot happen.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a client-supplied token. Tokens are untrusted input:
// garbage, a missing offset, or a negative offset all yield ErrInvalidCursor
// and never panic.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// Some clients re-encode tokens with padding.
		raw, err = base64.URLEncoding.DecodeString(token)
		if err != nil {
			return Cursor{}, ErrInvalidCursor
		}
	}

	var payload struct {
		Offset *int   `json:"offset"`
		LastID string `json:"last_id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	if payload.Offset == nil || *payload.Offset < 0 {
		return Cursor{}, ErrInvalidCursor
	}

	return Cursor{Offset: *payload.Offset, LastID: payload.LastID}, nil
}
