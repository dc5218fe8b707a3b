// Package random provides the seedable random stream shared by the supply
// and workload models of a single simulator.
package random

import (
	"math/rand/v2"
)

// Stream is a single seedable source of randomness. It is not safe for
// concurrent use; each simulator owns exactly one.
type Stream struct {
	seed uint64
	src  *rand.PCG
	rng  *rand.Rand
}

// New returns a stream seeded with seed.
func New(seed uint64) *Stream {
	src := rand.NewPCG(seed, seed)
	return &Stream{
		seed: seed,
		src:  src,
		rng:  rand.New(src),
	}
}

// Seed rewinds the stream to the start of the sequence for seed.
func (s *Stream) Seed(seed uint64) {
	s.seed = seed
	s.src.Seed(seed, seed)
}

// InitialSeed returns the seed the stream was last seeded with.
func (s *Stream) InitialSeed() uint64 {
	return s.seed
}

// Source exposes the underlying source so distributions can draw from the
// same sequence.
func (s *Stream) Source() rand.Source {
	return s.src
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// IntN returns a uniform value in [0, n).
func (s *Stream) IntN(n int) int {
	return s.rng.IntN(n)
}

// Derive returns a seed for a named subsystem that is independent of the
// parent stream but reproducible from the parent seed.
func Derive(seed uint64, subsystem string) uint64 {
	return seed ^ fnv1a64(subsystem)
}

func fnv1a64(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}
