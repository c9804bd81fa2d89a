// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package catalog

import (
	"strings"
	"time"
)

// Predicate reports whether a row survives filtering. Predicates are pure:
// they are built once per request and only evaluated, never executed against
// the store.
type Predicate[R any] func(R) bool

// Identity passes every row. Composing zero filters yields this.
func Identity[R any](R) bool { return true }

// All combines predicates with logical AND.
func All[R any](preds ...Predicate[R]) Predicate[R] {
	if len(preds) == 0 {
		return Identity[R]
	}
	return func(r R) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// SanitizeSearchTerm strips the characters that carry syntactic meaning in
// the store's filter grammar so a search term can never be interpreted as
// query syntax.
func SanitizeSearchTerm(term string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', ',':
			return -1
		}
		return r
	}, term)
}

// Search builds a case-insensitive substring match OR-combined over the
// given searchable fields. A term that sanitizes to nothing matches all rows.
func Search[R any](term string, fields ...func(R) string) Predicate[R] {
	needle := strings.ToLower(strings.TrimSpace(SanitizeSearchTerm(term)))
	if needle == "" {
		return Identity[R]
	}
	return func(r R) bool {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(r)), needle) {
				return true
			}
		}
		return false
	}
}

// FieldEquals matches rows whose field equals want exactly.
func FieldEquals[R any](want string, field func(R) string) Predicate[R] {
	return func(r R) bool {
		return field(r) == want
	}
}

// FieldEqualsFold matches rows whose field equals want, case-insensitively.
func FieldEqualsFold[R any](want string, field func(R) string) Predicate[R] {
	return func(r R) bool {
		return strings.EqualFold(field(r), want)
	}
}

// BoolEquals matches rows whose boolean field equals want.
func BoolEquals[R any](want bool, field func(R) bool) Predicate[R] {
	return func(r R) bool {
		return field(r) == want
	}
}

// MetricAtLeast matches rows whose metric is present and >= min. A null
// metric never satisfies a range bound.
func MetricAtLeast[R any](min float64, metric func(R) *float64) Predicate[R] {
	return func(r R) bool {
		v := metric(r)
		return v != nil && *v >= min
	}
}

// MetricAtMost matches rows whose metric is present and <= max. A null
// metric never satisfies a range bound.
func MetricAtMost[R any](max float64, metric func(R) *float64) Predicate[R] {
	return func(r R) bool {
		v := metric(r)
		return v != nil && *v <= max
	}
}

// TimeAtLeast matches rows whose timestamp is present and not before cutoff.
func TimeAtLeast[R any](cutoff time.Time, field func(R) *time.Time) Predicate[R] {
	return func(r R) bool {
		t := field(r)
		return t != nil && !t.Before(cutoff)
	}
}

// Apply returns the rows that satisfy the predicate, preserving input order.
func Apply[R any](rows []R, pred Predicate[R]) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
