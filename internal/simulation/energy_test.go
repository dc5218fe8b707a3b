package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guimove/greendc/internal/config"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name                           string
		consumed, solar, wind, battery float64
		capacity                       float64
		want                           EnergyMix
	}{
		{
			name: "surplus charges battery", consumed: 10, solar: 30, wind: 20, battery: 50, capacity: 200,
			want: EnergyMix{Green: 10, Grid: 0, Battery: 90, Charged: 40},
		},
		{
			name: "surplus capped at capacity", consumed: 10, solar: 30, wind: 20, battery: 190, capacity: 200,
			want: EnergyMix{Green: 10, Grid: 0, Battery: 200, Charged: 10},
		},
		{
			name: "battery covers deficit", consumed: 60, solar: 30, wind: 20, battery: 20, capacity: 200,
			want: EnergyMix{Green: 60, Grid: 0, Battery: 10, Drained: 10},
		},
		{
			name: "grid covers remainder", consumed: 100, solar: 30, wind: 20, battery: 20, capacity: 200,
			want: EnergyMix{Green: 70, Grid: 30, Battery: 0, Drained: 20},
		},
		{
			name: "exact match uses no battery", consumed: 50, solar: 30, wind: 20, battery: 20, capacity: 200,
			want: EnergyMix{Green: 50, Grid: 0, Battery: 20},
		},
		{
			name: "nothing available", consumed: 1, capacity: 0,
			want: EnergyMix{Green: 0, Grid: 1, Battery: 0},
		},
		{
			name: "zero consumption without supply", consumed: 0, capacity: 0,
			want: EnergyMix{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.consumed, tt.solar, tt.wind, tt.battery, tt.capacity)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.consumed, got.Green+got.Grid)
		})
	}
}

func TestReward(t *testing.T) {
	w := config.DefaultSimulation().Reward

	assert.InDelta(t, -10.0, Reward(w, 10, 400, 0, 0), 1e-9)
	assert.InDelta(t, 5.0-2.0*3-0.1*20, Reward(w, 5, 0, 3, 20), 1e-9)
	assert.Equal(t, 0.0, Reward(w, 0, 0, 0, 0))

	custom := config.RewardWeights{Throughput: 2, Carbon: 0, Dropped: 0, Queue: 1}
	assert.Equal(t, 2.0*7-3, Reward(custom, 7, 1000, 50, 3))
}
