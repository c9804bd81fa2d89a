// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package store provides read access to the hosted row store through a
// chainable query builder. The production implementation speaks the
// PostgREST wire protocol over HTTP; services depend only on the Client
// interface.
package store

import (
	"context"
	"errors"
)

// ErrStoreUnavailable classifies transport failures, upstream 5xx responses,
// and an open circuit breaker. Callers surface it as a server error; the
// client never retries (listing is read-only, the caller can retry the whole
// request).
var ErrStoreUnavailable = errors.New("row store unavailable")

// Client opens queries against named relations (tables and views).
type Client interface {
	From(relation string) Query
}

// Query is a chainable, immutable-per-call read query. Each call returns the
// receiver for chaining; Execute performs exactly one round trip.
type Query interface {
	// Select restricts the returned columns. Default is every column.
	Select(columns ...string) Query
	// Eq adds an equality filter.
	Eq(column, value string) Query
	// Gt adds a > filter.
	Gt(column, value string) Query
	// Gte adds a >= filter.
	Gte(column, value string) Query
	// Lte adds a <= filter.
	Lte(column, value string) Query
	// In adds a set-membership filter. An empty set matches nothing.
	In(column string, values []string) Query
	// Order sorts by column; nulls always sort last.
	Order(column string, descending bool) Query
	// Limit caps the number of returned rows.
	Limit(n int) Query
	// Offset skips rows before the first returned one.
	Offset(n int) Query
	// Count requests an exact result-set count alongside the rows.
	Count() Query
	// Execute runs the query, decoding rows into dest (a pointer to a
	// slice). The returned count is meaningful only when Count was set.
	Execute(ctx context.Context, dest interface{}) (int, error)
}
