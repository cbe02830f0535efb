package generator

import (
	"math"
	"sort"

	"retail-datagen/internal/errors"
)

type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedTable draws values with probability proportional to their weight.
// Weights are checked once at construction so Pick always returns.
type WeightedTable[T any] struct {
	values     []T
	cumulative []float64
	total      float64
}

func NewWeightedTable[T any](choices []Weighted[T]) (*WeightedTable[T], error) {
	if len(choices) == 0 {
		return nil, errors.Configuration("weighted choice needs at least one entry")
	}

	t := &WeightedTable[T]{
		values:     make([]T, len(choices)),
		cumulative: make([]float64, len(choices)),
	}
	for i, c := range choices {
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight <= 0 {
			return nil, errors.Configurationf("weight %v at index %d must be positive and finite", c.Weight, i)
		}
		t.total += c.Weight
		t.values[i] = c.Value
		t.cumulative[i] = t.total
	}

	return t, nil
}

// Pick draws u in [0, total) and returns the first entry whose cumulative
// weight meets or exceeds u.
func (t *WeightedTable[T]) Pick(r *Rand) T {
	u := r.Float64() * t.total
	i := sort.SearchFloat64s(t.cumulative, u)
	if i >= len(t.values) {
		i = len(t.values) - 1
	}
	return t.values[i]
}

// WeightedChoice is the one-shot form of NewWeightedTable followed by Pick.
func WeightedChoice[T any](r *Rand, choices []Weighted[T]) (T, error) {
	t, err := NewWeightedTable(choices)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.Pick(r), nil
}
