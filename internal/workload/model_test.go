package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guimove/greendc/internal/random"
)

func TestIntensity(t *testing.T) {
	tests := []struct {
		name        string
		hour        int
		variability float64
		burst       bool
		want        float64
	}{
		{"night baseline", 2, 0, false, 0.2},
		{"business start", 8, 0, false, 0.7},
		{"business end inclusive", 18, 0, false, 0.7},
		{"after hours", 19, 0, false, 0.2},
		{"night low noise", 3, -0.1, false, 0.1},
		{"burst at night", 3, 0, true, 0.7},
		{"burst clamps", 12, 0.2, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Intensity(tt.hour, tt.variability, tt.burst), 1e-12)
		})
	}
}

func TestModel_ArrivalsBounded(t *testing.T) {
	m := NewModel(100, random.New(11))
	for i := 0; i < 2400; i++ {
		n := m.Arrivals(i % 24)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 100)
	}
}

func TestModel_ArrivalsRanges(t *testing.T) {
	m := NewModel(100, random.New(12))
	for i := 0; i < 500; i++ {
		// Off hours without a burst fall in [10, 40); a burst lifts that to at most 90.
		n := m.Arrivals(2)
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 90)
	}
}

func TestModel_ArrivalsDrawOrder(t *testing.T) {
	s := random.New(99)
	m := NewModel(100, s)
	got := m.Arrivals(10)

	ref := random.New(99)
	variability := ref.Float64()*(VariabilityMax-VariabilityMin) + VariabilityMin
	burst := ref.Float64() < BurstProbability
	want := int(100 * Intensity(10, variability, burst))

	assert.Equal(t, want, got)
	assert.Equal(t, ref.Float64(), s.Float64())
}

func TestModel_ZeroMax(t *testing.T) {
	m := NewModel(0, random.New(1))
	for hour := 0; hour < 24; hour++ {
		assert.Equal(t, 0, m.Arrivals(hour))
	}
}

func TestModel_TaskComplexity(t *testing.T) {
	m := NewModel(100, random.New(4))
	var sum float64
	const n = 2000
	for i := 0; i < n; i++ {
		c := m.TaskComplexity()
		assert.GreaterOrEqual(t, c, MinComplexity)
		sum += c
	}
	assert.InDelta(t, ComplexityMean, sum/n, 0.05)
}
