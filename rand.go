package fishpond

import (
	"math/rand"
	"time"
)

// A Source draws uniformly distributed reals.
type Source interface {
	// Uniform returns a number in [lo, hi).
	Uniform(lo, hi float64) float64
}

// Rand adapts a *rand.Rand to a Source.
type Rand struct {
	*rand.Rand
}

// NewRand returns a Source seeded with seed,
// or with the current time if seed is zero.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Rand{rand.New(rand.NewSource(seed))}
}

// Uniform returns a number in [lo, hi).
func (r Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
