// Package policy provides decision policies that map an observation to a
// dispatch action.
package policy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/guimove/greendc/internal/model"
	"github.com/guimove/greendc/internal/random"
)

// Policy names.
const (
	ProcessAllName  = "process-all"
	GreenOnlyName   = "green-only"
	HoldName        = "hold"
	RandomName      = "random"
	CarbonAwareName = "carbon-aware"
)

// ErrUnknownPolicy is returned by New for an unrecognized name.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy chooses one action per hour. Implementations may keep internal
// state and are not safe for concurrent use.
type Policy interface {
	Name() string
	Act(obs model.Observation) model.Action
}

// Params carries the knobs the built-in policies need.
type Params struct {
	Seed            uint64  // random only
	MaxQueueSize    int     // carbon-aware only
	CarbonThreshold float64 // gCO2/kWh, carbon-aware only
	QueueHighWater  float64 // fraction of MaxQueueSize, carbon-aware only
}

var validPolicies = map[string]bool{
	ProcessAllName:  true,
	GreenOnlyName:   true,
	HoldName:        true,
	RandomName:      true,
	CarbonAwareName: true,
}

// IsKnown returns true if name is a recognized policy.
func IsKnown(name string) bool { return validPolicies[name] }

// Names returns the sorted list of policy names.
func Names() []string {
	names := make([]string, 0, len(validPolicies))
	for n := range validPolicies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New creates a policy by name.
func New(name string, p Params) (Policy, error) {
	switch name {
	case ProcessAllName:
		return Fixed{Label: name, Action: model.ProcessAll}, nil
	case GreenOnlyName:
		return Fixed{Label: name, Action: model.ProcessGreen}, nil
	case HoldName:
		return Fixed{Label: name, Action: model.Hold}, nil
	case RandomName:
		return NewRandom(p.Seed), nil
	case CarbonAwareName:
		return &CarbonAware{
			MaxQueueSize:    p.MaxQueueSize,
			CarbonThreshold: p.CarbonThreshold,
			QueueHighWater:  p.QueueHighWater,
		}, nil
	default:
		return nil, fmt.Errorf("%w %q (valid: %v)", ErrUnknownPolicy, name, Names())
	}
}

// Fixed always returns the same action.
type Fixed struct {
	Label  string
	Action model.Action
}

func (f Fixed) Name() string                       { return f.Label }
func (f Fixed) Act(model.Observation) model.Action { return f.Action }

// Random samples actions uniformly from its own stream, so it never perturbs
// the simulator's draws.
type Random struct {
	stream *random.Stream
}

// NewRandom creates a random policy whose sequence is derived from seed.
func NewRandom(seed uint64) *Random {
	return &Random{stream: random.New(random.Derive(seed, "policy"))}
}

func (r *Random) Name() string { return RandomName }

func (r *Random) Act(model.Observation) model.Action {
	return model.Action(r.stream.IntN(model.NumActions))
}

// CarbonAware processes everything when the grid is clean or the queue is
// close to overflowing, and otherwise runs only on green energy.
type CarbonAware struct {
	MaxQueueSize    int
	CarbonThreshold float64
	QueueHighWater  float64
}

func (c *CarbonAware) Name() string { return CarbonAwareName }

func (c *CarbonAware) Act(obs model.Observation) model.Action {
	if c.MaxQueueSize > 0 && float64(obs.Queue()) >= c.QueueHighWater*float64(c.MaxQueueSize) {
		return model.ProcessAll
	}
	if obs.CarbonIntensity() <= c.CarbonThreshold {
		return model.ProcessAll
	}
	return model.ProcessGreen
}
