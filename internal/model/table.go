package model

import "sort"

// Table is a cumulative probability table for one discrete layer.
type Table []float64

// NewTable builds the running sum of a normalized distribution. The entry for
// the last category with positive mass, and every entry after it, is pinned
// to exactly 1.
func NewTable(probabilities []float64) Table {
	table := make(Table, len(probabilities))
	last := len(probabilities) - 1
	for last > 0 && probabilities[last] <= 0 {
		last--
	}

	running := 0.0
	for i, p := range probabilities {
		running += p
		if i >= last {
			running = 1.0
		}
		table[i] = running
	}
	return table
}

// Invert maps a uniform variate in [0, 1) to a category index. Categories
// with zero mass are never selected and rounding residue is absorbed by the
// last category with positive mass.
func (t Table) Invert(u float64) int {
	idx := sort.Search(len(t), func(i int) bool { return t[i] > u })
	if idx >= len(t) {
		idx = len(t) - 1
	}
	return idx
}

// normalize divides weights by their sum. Negative entries and a non-positive
// total are rejected.
func normalize(weights []float64, layer, participant string) ([]float64, error) {
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, NewInvalidDistributionError(layer, participant, "weights must be non-negative")
		}
		total += w
	}
	if total <= 0 {
		return nil, NewInvalidDistributionError(layer, participant, "weights must not all be zero")
	}

	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / total
	}
	return out, nil
}
