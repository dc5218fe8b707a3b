package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/greendc/internal/config"
	"github.com/guimove/greendc/internal/model"
	"github.com/guimove/greendc/internal/policy"
)

func TestRunEpisode_FullTrajectory(t *testing.T) {
	sim := newTestSim(t, config.DefaultSimulation())
	p, err := policy.New(policy.CarbonAwareName, policy.Params{MaxQueueSize: 500, CarbonThreshold: 450, QueueHighWater: 0.8})
	require.NoError(t, err)

	var calls int
	res, err := RunEpisode(context.Background(), sim, p, RunOptions{
		Scenario: "test",
		Seed:     42,
		OnStep:   func(model.EpisodeStep) { calls++ },
	})
	require.NoError(t, err)

	require.Len(t, res.Steps, EpisodeHours)
	assert.Equal(t, EpisodeHours, calls)
	assert.Equal(t, "carbon-aware", res.Policy)
	assert.Equal(t, "test", res.Scenario)
	assert.Equal(t, uint64(42), res.Seed)

	var reward, carbon float64
	var tasks int
	for i, step := range res.Steps {
		assert.Equal(t, i, step.Record.Hour)
		assert.Equal(t, i, step.Observation.Hour())
		assert.Equal(t, i == EpisodeHours-1, step.Done)
		for _, v := range step.Normalized {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		reward += step.Reward
		carbon += step.Record.CarbonEmitted
		tasks += step.Record.TasksProcessed
	}
	assert.InDelta(t, reward, res.Totals.Reward, 1e-9)
	assert.InDelta(t, carbon, res.Totals.CarbonEmitted, 1e-9)
	assert.Equal(t, tasks, res.Totals.TasksProcessed)
	assert.True(t, sim.Done())
}

func TestRunEpisode_Cancelled(t *testing.T) {
	sim := newTestSim(t, config.DefaultSimulation())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunEpisode(ctx, sim, policy.Fixed{Label: "hold", Action: model.Hold}, RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEpisode_PaceHonoursCancel(t *testing.T) {
	sim := newTestSim(t, config.DefaultSimulation())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	steps := 0
	start := time.Now()
	_, err := RunEpisode(ctx, sim, policy.Fixed{Label: "hold", Action: model.Hold}, RunOptions{
		Pace: time.Hour,
		OnStep: func(model.EpisodeStep) {
			steps++
			if steps == 1 {
				cancel()
			}
		},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, steps)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestRunEpisode_Paced(t *testing.T) {
	sim := newTestSim(t, config.DefaultSimulation())
	res, err := RunEpisode(context.Background(), sim, policy.Fixed{Label: "all", Action: model.ProcessAll}, RunOptions{
		Pace: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Len(t, res.Steps, EpisodeHours)
	assert.GreaterOrEqual(t, res.Duration, time.Duration(EpisodeHours-1)*time.Millisecond)
}

type failingEnv struct {
	*Simulator
}

func (f failingEnv) Step(model.Action) (StepResult, error) {
	return StepResult{}, errors.New("boom")
}

func TestRunEpisode_StepError(t *testing.T) {
	sim := newTestSim(t, config.DefaultSimulation())
	_, err := RunEpisode(context.Background(), failingEnv{sim}, policy.Fixed{Label: "hold", Action: model.Hold}, RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0: boom")
}

type invalidPolicy struct{}

func (invalidPolicy) Name() string                       { return "invalid" }
func (invalidPolicy) Act(model.Observation) model.Action { return model.Action(5) }

func TestRunEpisode_InvalidPolicyAction(t *testing.T) {
	sim := newTestSim(t, config.DefaultSimulation())
	_, err := RunEpisode(context.Background(), sim, invalidPolicy{}, RunOptions{})
	assert.ErrorIs(t, err, ErrInvalidAction)
}
