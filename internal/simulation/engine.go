package simulation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/guimove/greendc/internal/cache"
	"github.com/guimove/greendc/internal/config"
	"github.com/guimove/greendc/internal/model"
	"github.com/guimove/greendc/internal/policy"
	"github.com/guimove/greendc/internal/supply"
)

// ResultCache stores aggregated scenario results between runs.
type ResultCache interface {
	Get(key string, dest any) bool
	Set(key string, value any) error
}

// EpisodeObserver is notified of every completed episode. It must be safe
// for concurrent use.
type EpisodeObserver interface {
	ObserveEpisode(result *model.EpisodeResult)
}

// Engine evaluates scenarios in parallel, one independent simulator per
// episode.
type Engine struct {
	Scorer      *Scorer
	Parallelism int
	Cache       ResultCache
	Observer    EpisodeObserver
}

// NewEngine creates an evaluation engine.
func NewEngine(scorer *Scorer) *Engine {
	return &Engine{
		Scorer:      scorer,
		Parallelism: runtime.NumCPU(),
	}
}

// Scenario is one policy under one data center configuration, evaluated over
// a fixed list of seeds.
type Scenario struct {
	Name         string                  `json:"name"`
	Policy       string                  `json:"policy"`
	PolicyParams policy.Params           `json:"policy_params"`
	Simulation   config.SimulationConfig `json:"simulation"`
	Weather      supply.Weather          `json:"weather"`
	Profile      *supply.Profile         `json:"profile,omitempty"`
	Seeds        []uint64                `json:"seeds"`
	Variant      string                  `json:"variant,omitempty"`
}

// CacheKey fingerprints everything that determines the scenario's outcome.
func (s Scenario) CacheKey() (string, error) {
	return cache.Key("scenario", s)
}

// Seeds returns n consecutive seeds starting at base.
func Seeds(base uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = base + uint64(i)
	}
	return seeds
}

// RunAll evaluates all scenarios and returns ranked recommendations. If
// baseline names a scenario, carbon is compared against it.
func (e *Engine) RunAll(ctx context.Context, scenarios []Scenario, baseline string) ([]model.Recommendation, error) {
	results, err := e.Evaluate(ctx, scenarios)
	if err != nil {
		return nil, err
	}

	var base *model.ScenarioResult
	for i := range results {
		if baseline != "" && results[i].Scenario == baseline {
			base = &results[i]
			break
		}
	}
	return e.Scorer.RankResults(results, base), nil
}

// Evaluate runs every scenario and returns the results of those that
// succeeded, in scenario order.
func (e *Engine) Evaluate(ctx context.Context, scenarios []Scenario) ([]model.ScenarioResult, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no simulation scenarios provided")
	}

	results := make([]model.ScenarioResult, len(scenarios))
	errs := make([]error, len(scenarios))

	g := new(errgroup.Group)
	g.SetLimit(max(1, e.Parallelism))
	for i, sc := range scenarios {
		g.Go(func() error {
			results[i], errs[i] = e.runScenario(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	var successful []model.ScenarioResult
	for i, err := range errs {
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logrus.WithError(err).WithField("scenario", scenarios[i].Name).Warn("scenario failed")
			continue
		}
		successful = append(successful, results[i])
	}

	if len(successful) == 0 {
		return nil, fmt.Errorf("all simulation scenarios failed")
	}
	return successful, nil
}

// cachedScenario is the cache entry of one scenario. Episodes are kept so a
// cache hit can be replayed into the observer.
type cachedScenario struct {
	Result   model.ScenarioResult   `json:"result"`
	Episodes []*model.EpisodeResult `json:"episodes"`
}

// runScenario runs every seed of one scenario, or loads the cached result.
func (e *Engine) runScenario(ctx context.Context, sc Scenario) (model.ScenarioResult, error) {
	if len(sc.Seeds) == 0 {
		return model.ScenarioResult{}, fmt.Errorf("scenario %q has no seeds", sc.Name)
	}

	var key string
	if e.Cache != nil {
		k, err := sc.CacheKey()
		if err != nil {
			return model.ScenarioResult{}, err
		}
		key = k
		var cached cachedScenario
		if e.Cache.Get(key, &cached) && len(cached.Episodes) == cached.Result.Episodes {
			logrus.WithField("scenario", sc.Name).Debug("using cached result")
			// Replay so observers see cached scenarios like fresh ones.
			if e.Observer != nil {
				for _, ep := range cached.Episodes {
					e.Observer.ObserveEpisode(ep)
				}
			}
			cached.Result.Cached = true
			return cached.Result, nil
		}
	}

	start := time.Now()
	episodes := make([]*model.EpisodeResult, 0, len(sc.Seeds))
	for _, seed := range sc.Seeds {
		ep, err := e.runEpisode(ctx, sc, seed)
		if err != nil {
			return model.ScenarioResult{}, err
		}
		episodes = append(episodes, ep)
	}

	result := Aggregate(sc, episodes)
	result.Duration = time.Since(start)

	logrus.WithFields(logrus.Fields{
		"scenario":    sc.Name,
		"episodes":    result.Episodes,
		"mean_reward": result.MeanReward,
		"mean_carbon": result.MeanCarbon,
	}).Info("scenario evaluated")

	if e.Cache != nil {
		if err := e.Cache.Set(key, cachedScenario{Result: result, Episodes: episodes}); err != nil {
			logrus.WithError(err).Warn("caching scenario result")
		}
	}
	return result, nil
}

func (e *Engine) runEpisode(ctx context.Context, sc Scenario, seed uint64) (*model.EpisodeResult, error) {
	sim, err := New(sc.Simulation,
		WithSeed(seed),
		WithWeather(sc.Weather),
		WithProfile(sc.Profile),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	params := sc.PolicyParams
	params.Seed = seed
	if params.MaxQueueSize == 0 {
		params.MaxQueueSize = sc.Simulation.MaxQueueSize
	}
	p, err := policy.New(sc.Policy, params)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	ep, err := RunEpisode(ctx, sim, p, RunOptions{Scenario: sc.Name, Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("scenario %q seed %d: %w", sc.Name, seed, err)
	}
	if e.Observer != nil {
		e.Observer.ObserveEpisode(ep)
	}
	return ep, nil
}

// Aggregate summarizes the episodes of one scenario.
func Aggregate(sc Scenario, episodes []*model.EpisodeResult) model.ScenarioResult {
	r := model.ScenarioResult{
		Scenario: sc.Name,
		Policy:   sc.Policy,
		Variant:  sc.Variant,
		Episodes: len(episodes),
	}
	if len(episodes) == 0 {
		return r
	}

	n := len(episodes)
	rewards := make([]float64, n)
	carbon := make([]float64, n)
	tasks := make([]float64, n)
	dropped := make([]float64, n)
	arrivals := make([]float64, n)
	gridShare := make([]float64, n)
	queue := make([]float64, n)
	for i, ep := range episodes {
		t := ep.Totals
		rewards[i] = t.Reward
		carbon[i] = t.CarbonEmitted
		tasks[i] = float64(t.TasksProcessed)
		dropped[i] = float64(t.DroppedTasks)
		arrivals[i] = float64(t.Arrivals)
		gridShare[i] = t.GridShare()
		queue[i] = float64(t.FinalQueue)
	}

	r.MeanReward, r.StdReward = meanStd(rewards)
	r.MeanCarbon, r.StdCarbon = meanStd(carbon)
	r.MeanTasks = stat.Mean(tasks, nil)
	r.MeanDropped = stat.Mean(dropped, nil)
	r.MeanArrivals = stat.Mean(arrivals, nil)
	r.MeanGridShare = stat.Mean(gridShare, nil)
	r.MeanQueue = stat.Mean(queue, nil)
	return r
}

// meanStd returns the mean and sample standard deviation, with a zero
// deviation for a single sample.
func meanStd(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}
