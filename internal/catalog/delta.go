// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package catalog

// DeltaResult is a metric value annotated with its change against a
// baseline snapshot. Delta and DeltaPercent are nil whenever the baseline
// is absent; DeltaPercent is additionally nil when the baseline is zero,
// because the division is undefined rather than infinite.
type DeltaResult struct {
	Value        *float64 `json:"value"`
	Baseline     *float64 `json:"baseline,omitempty"`
	Delta        *float64 `json:"delta"`
	DeltaPercent *float64 `json:"delta_percent"`
}

// ComputeDelta derives the signed and percentage change of current against
// baseline. Values are plain floating point; rounding is a presentation
// concern applied once at response assembly, never here.
func ComputeDelta(current, baseline *float64) DeltaResult {
	if current == nil {
		return DeltaResult{}
	}
	res := DeltaResult{Value: current}
	if baseline == nil {
		return res
	}

	res.Baseline = baseline
	delta := *current - *baseline
	res.Delta = &delta
	if *baseline != 0 {
		pct := delta / *baseline * 100
		res.DeltaPercent = &pct
	}
	return res
}

// PercentDelta returns the percentage change of current against baseline,
// or nil when either side is absent or the baseline is zero.
func PercentDelta(current, baseline *float64) *float64 {
	if current == nil || baseline == nil || *baseline == 0 {
		return nil
	}
	pct := (*current - *baseline) / *baseline * 100
	return &pct
}

// Mean averages the non-null values, returning nil when none are present.
// Ratio metrics aggregated over two populations use this independently per
// population: the baseline average covers the baseline snapshot's entities,
// not a re-weighting of the current period's.
func Mean(values []*float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// Float returns a pointer to v. Convenience for literal metric values.
func Float(v float64) *float64 {
	return &v
}
