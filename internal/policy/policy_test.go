package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/greendc/internal/model"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"carbon-aware", "green-only", "hold", "process-all", "random"}, Names())
	for _, n := range Names() {
		assert.True(t, IsKnown(n))
	}
	assert.False(t, IsKnown("oracle"))
}

func TestNew_Fixed(t *testing.T) {
	tests := []struct {
		name string
		want model.Action
	}{
		{ProcessAllName, model.ProcessAll},
		{GreenOnlyName, model.ProcessGreen},
		{HoldName, model.Hold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.name, Params{})
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name())
			for hour := 0; hour < 24; hour++ {
				assert.Equal(t, tt.want, p.Act(model.Observation{float64(hour)}))
			}
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("oracle", Params{})
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestRandom_DeterministicAndValid(t *testing.T) {
	a, b := NewRandom(42), NewRandom(42)
	seen := map[model.Action]bool{}
	for i := 0; i < 300; i++ {
		x, y := a.Act(model.Observation{}), b.Act(model.Observation{})
		assert.Equal(t, x, y)
		assert.True(t, x.Valid())
		seen[x] = true
	}
	assert.Len(t, seen, model.NumActions)
}

func TestCarbonAware(t *testing.T) {
	p, err := New(CarbonAwareName, Params{MaxQueueSize: 500, CarbonThreshold: 450, QueueHighWater: 0.8})
	require.NoError(t, err)

	obs := func(carbon, queue float64) model.Observation {
		var o model.Observation
		o[model.ObsCarbonIntensity] = carbon
		o[model.ObsQueue] = queue
		return o
	}

	assert.Equal(t, model.ProcessAll, p.Act(obs(420, 10)), "clean grid")
	assert.Equal(t, model.ProcessGreen, p.Act(obs(520, 10)), "dirty grid")
	assert.Equal(t, model.ProcessAll, p.Act(obs(520, 400)), "queue at high water")
	assert.Equal(t, model.ProcessGreen, p.Act(obs(520, 399)), "queue below high water")
}
