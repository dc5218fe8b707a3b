package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guimove/greendc/internal/model"
	"github.com/guimove/greendc/internal/policy"
)

// RunOptions controls how an episode is driven.
type RunOptions struct {
	Scenario string
	Seed     uint64

	// Pace is the wall-clock delay between steps, for live display.
	Pace time.Duration

	// OnStep is called after every step.
	OnStep func(model.EpisodeStep)
}

// RunEpisode resets env and drives it with p until the episode ends. The
// context is checked between steps.
func RunEpisode(ctx context.Context, env Environment, p policy.Policy, opts RunOptions) (*model.EpisodeResult, error) {
	start := time.Now()
	space := env.ObservationSpace()
	result := &model.EpisodeResult{
		Scenario: opts.Scenario,
		Policy:   p.Name(),
		Seed:     opts.Seed,
		Steps:    make([]model.EpisodeStep, 0, EpisodeHours),
	}

	obs, _ := env.Reset()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		action := p.Act(obs)
		res, err := env.Step(action)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", len(result.Steps), err)
		}

		step := model.EpisodeStep{
			Observation: obs,
			Normalized:  space.Normalize(obs),
			Action:      action,
			Reward:      res.Reward,
			Done:        res.Done,
			Record:      res.Record,
		}
		result.Append(step)
		if opts.OnStep != nil {
			opts.OnStep(step)
		}

		logrus.WithFields(logrus.Fields{
			"scenario":  opts.Scenario,
			"hour":      res.Record.Hour,
			"action":    action.String(),
			"processed": res.Record.TasksProcessed,
			"queue":     res.Record.QueueLength,
			"grid_kwh":  res.Record.GridUsed,
			"reward":    res.Reward,
		}).Debug("step")

		if res.Done {
			break
		}
		obs = res.Observation

		if opts.Pace > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Pace):
			}
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
