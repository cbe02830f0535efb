package generator

import (
	"encoding/binary"
	"math/rand/v2"
	"time"

	"retail-datagen/internal/errors"
)

// Rand is the single random source of a generation run. It is owned by one
// Generator and is not safe for concurrent use.
type Rand struct {
	r *rand.Rand
}

func NewRand(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed))}
}

func (r *Rand) IntN(n int) int {
	return r.r.IntN(n)
}

// IntBetween returns an int in [lo, hi].
func (r *Rand) IntBetween(lo, hi int) int {
	return lo + r.r.IntN(hi-lo+1)
}

func (r *Rand) Float64() float64 {
	return r.r.Float64()
}

// Uniform returns a float in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + r.r.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Read fills p from the seeded stream so byte consumers such as UUID
// generation stay reproducible.
func (r *Rand) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], r.r.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// DateBetween returns an instant uniformly drawn from [start, end] at
// one-second resolution.
func (r *Rand) DateBetween(start, end time.Time) (time.Time, error) {
	if end.Before(start) {
		return time.Time{}, errors.Validation("date range end " + end.Format(time.RFC3339) +
			" is before start " + start.Format(time.RFC3339))
	}
	span := int64(end.Sub(start) / time.Second)
	return start.Add(time.Duration(r.r.Int64N(span+1)) * time.Second), nil
}

// Choice picks a uniformly random element. items must not be empty.
func Choice[T any](r *Rand, items []T) T {
	return items[r.r.IntN(len(items))]
}
