// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

// Package storetest provides an in-memory store.Client for tests. It records
// every executed query, so tests can assert not just on results but on call
// counts: that invalid requests reach the store zero times, and that
// enrichment uses one batched lookup instead of one per row.
package storetest

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/chartel/chartel/internal/store"
)

// Call is one executed query, decomposed for assertions.
type Call struct {
	Relation string
	Selects  []string
	// Filters maps column to the applied operator+operand, e.g.
	// "country_code" -> "eq.US". In filters record the value count as
	// "in(3)" plus the values themselves in InValues.
	Filters  map[string]string
	InValues map[string][]string
	Orders   []string
	Limit    int
	Offset   int
	Count    bool
}

// Handler produces the rows (and optional count) for one query.
type Handler func(Call) (rows interface{}, count int, err error)

// Fake is an in-memory store.Client. Register a Handler per relation; an
// unregistered relation returns an empty row set.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

// NewFake returns an empty fake store.
func NewFake() *Fake {
	return &Fake{handlers: make(map[string]Handler)}
}

// On registers the handler for a relation.
func (f *Fake) On(relation string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[relation] = h
}

// Rows registers a fixed row set for a relation, counting all of them.
func (f *Fake) Rows(relation string, rows interface{}, count int) {
	f.On(relation, func(Call) (interface{}, int, error) {
		return rows, count, nil
	})
}

// Calls returns every executed query in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many queries ran against a relation. An empty
// relation counts all queries.
func (f *Fake) CallCount(relation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if relation == "" {
		return len(f.calls)
	}
	n := 0
	for _, c := range f.calls {
		if c.Relation == relation {
			n++
		}
	}
	return n
}

// From implements store.Client.
func (f *Fake) From(relation string) store.Query {
	return &fakeQuery{
		fake: f,
		call: Call{
			Relation: relation,
			Filters:  make(map[string]string),
			InValues: make(map[string][]string),
			Limit:    -1,
			Offset:   -1,
		},
	}
}

type fakeQuery struct {
	fake *Fake
	call Call
}

func (q *fakeQuery) Select(columns ...string) store.Query {
	q.call.Selects = columns
	return q
}

func (q *fakeQuery) Eq(column, value string) store.Query {
	q.call.Filters[column] = "eq." + value
	return q
}

func (q *fakeQuery) Gt(column, value string) store.Query {
	q.call.Filters[column] = "gt." + value
	return q
}

func (q *fakeQuery) Gte(column, value string) store.Query {
	q.call.Filters[column] = "gte." + value
	return q
}

func (q *fakeQuery) Lte(column, value string) store.Query {
	q.call.Filters[column] = "lte." + value
	return q
}

func (q *fakeQuery) In(column string, values []string) store.Query {
	q.call.Filters[column] = fmt.Sprintf("in(%d)", len(values))
	q.call.InValues[column] = append([]string(nil), values...)
	return q
}

func (q *fakeQuery) Order(column string, descending bool) store.Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.call.Orders = append(q.call.Orders, column+"."+dir)
	return q
}

func (q *fakeQuery) Limit(n int) store.Query {
	q.call.Limit = n
	return q
}

func (q *fakeQuery) Offset(n int) store.Query {
	q.call.Offset = n
	return q
}

func (q *fakeQuery) Count() store.Query {
	q.call.Count = true
	return q
}

func (q *fakeQuery) Execute(_ context.Context, dest interface{}) (int, error) {
	q.fake.mu.Lock()
	q.fake.calls = append(q.fake.calls, q.call)
	handler := q.fake.handlers[q.call.Relation]
	q.fake.mu.Unlock()

	if handler == nil {
		if dest != nil {
			if err := json.Unmarshal([]byte("[]"), dest); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	rows, count, err := handler(q.call)
	if err != nil {
		return 0, err
	}
	if dest != nil && rows != nil {
		// Round-trip through JSON so handlers can return any compatible
		// shape without sharing memory with the caller.
		b, err := json.Marshal(rows)
		if err != nil {
			return 0, err
		}
		if err := json.Unmarshal(b, dest); err != nil {
			return 0, err
		}
	}
	return count, nil
}
