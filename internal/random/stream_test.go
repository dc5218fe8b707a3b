package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStream_SameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}
}

func TestStream_DifferentSeedsDiverge(t *testing.T) {
	a, b := New(1), New(2)
	same := 0
	for i := 0; i < 20; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestStream_SeedRewinds(t *testing.T) {
	s := New(7)
	first := []float64{s.Float64(), s.Float64(), s.Float64()}

	s.Seed(7)
	second := []float64{s.Float64(), s.Float64(), s.Float64()}

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(7), s.InitialSeed())
}

func TestStream_SourceSharesState(t *testing.T) {
	a, b := New(9), New(9)
	_ = a.Source().Uint64()
	_ = b.Float64()
	// Float64 consumes exactly one Uint64 from the source.
	assert.Equal(t, a.Float64(), b.Float64())
}

func TestStream_IntNRange(t *testing.T) {
	s := New(3)
	for i := 0; i < 1000; i++ {
		v := s.IntN(3)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 3)
	}
}

func TestDerive(t *testing.T) {
	assert.Equal(t, Derive(42, "policy"), Derive(42, "policy"))
	assert.NotEqual(t, Derive(42, "policy"), Derive(42, "supply"))
	assert.NotEqual(t, Derive(42, "policy"), Derive(43, "policy"))
	assert.NotEqual(t, uint64(42), Derive(42, "policy"))
}
