// Package workload models hourly task arrivals at the data center.
package workload

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/guimove/greendc/internal/random"
)

const (
	BusinessStartHour = 8
	BusinessEndHour   = 18
	BusinessIntensity = 0.7
	OffHoursIntensity = 0.2

	VariabilityMin   = -0.1
	VariabilityMax   = 0.2
	BurstProbability = 0.05
	BurstIntensity   = 0.5

	ComplexityMean = 1.0
	ComplexityStd  = 0.2
	MinComplexity  = 0.1
)

// Intensity returns the load fraction in [0, 1] for hour given the sampled
// variability and burst outcome.
func Intensity(hour int, variability float64, burst bool) float64 {
	base := OffHoursIntensity
	if hour >= BusinessStartHour && hour <= BusinessEndHour {
		base = BusinessIntensity
	}
	v := base + variability
	if burst {
		v += BurstIntensity
	}
	return math.Min(1, math.Max(0, v))
}

// Model samples task arrivals from a shared random stream.
type Model struct {
	MaxTasksPerHour int

	variability distuv.Uniform
	burst       distuv.Bernoulli
	complexity  distuv.Normal
}

// NewModel creates an arrival model drawing from stream.
func NewModel(maxTasksPerHour int, stream *random.Stream) *Model {
	src := stream.Source()
	return &Model{
		MaxTasksPerHour: maxTasksPerHour,
		variability:     distuv.Uniform{Min: VariabilityMin, Max: VariabilityMax, Src: src},
		burst:           distuv.Bernoulli{P: BurstProbability, Src: src},
		complexity:      distuv.Normal{Mu: ComplexityMean, Sigma: ComplexityStd, Src: src},
	}
}

// Arrivals returns the number of tasks arriving during hour, in
// [0, MaxTasksPerHour]. It draws exactly two values: variability, then the
// burst trial.
func (m *Model) Arrivals(hour int) int {
	variability := m.variability.Rand()
	burst := m.burst.Rand() == 1
	return int(float64(m.MaxTasksPerHour) * Intensity(hour, variability, burst))
}

// TaskComplexity samples a relative task cost, floored at MinComplexity.
// It consumes one normal draw from the shared stream.
func (m *Model) TaskComplexity() float64 {
	return math.Max(MinComplexity, m.complexity.Rand())
}
