package domain

import (
	"math/rand/v2"
	"sync"
)

// Entropy is the source of randomness for perturbation and seeding.
type Entropy interface {
	// Delta returns a uniform value in [-spread, spread].
	Delta(spread float64) float64
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Chance returns true with probability p.
	Chance(p float64) bool
}

type pcgEntropy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEntropy returns a seeded Entropy. A zero seed draws one from the runtime.
func NewEntropy(seed uint64) Entropy {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &pcgEntropy{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (e *pcgEntropy) Delta(spread float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return (e.rng.Float64()*2 - 1) * spread
}

func (e *pcgEntropy) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}

func (e *pcgEntropy) Chance(p float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64() < p
}
