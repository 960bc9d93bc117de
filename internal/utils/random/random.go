// Package random provides a seedable, goroutine-safe source for generated
// demo data.
package random

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oneview/server/internal/utils/mathutil"
)

// Source is a mutex-guarded PCG generator.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Source. A zero seed seeds from the clock.
func New(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Uniform returns a float in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

// Uniform2 returns Uniform(lo, hi) rounded to two decimals.
func (s *Source) Uniform2(lo, hi float64) float64 {
	return mathutil.Round2(s.Uniform(lo, hi))
}

// IntRange returns an integer in [lo, hi], both ends inclusive.
func (s *Source) IntRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Int64N(hi-lo+1)
}
