package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/guimove/greendc/internal/cache"
	"github.com/guimove/greendc/internal/config"
	"github.com/guimove/greendc/internal/metrics"
	"github.com/guimove/greendc/internal/model"
	"github.com/guimove/greendc/internal/policy"
	"github.com/guimove/greendc/internal/report"
	"github.com/guimove/greendc/internal/simulation"
	"github.com/guimove/greendc/internal/supply"
)

// Orchestrator coordinates simulation runs, evaluations and reporting.
type Orchestrator struct {
	Config   config.Config
	Writer   io.Writer
	Recorder *metrics.Recorder

	// Pace is the wall-clock delay between steps of a single run.
	Pace time.Duration
}

// New creates an orchestrator writing to stdout.
func New(cfg config.Config) *Orchestrator {
	return &Orchestrator{
		Config:   cfg,
		Writer:   os.Stdout,
		Recorder: metrics.NewRecorder(),
	}
}

// Variants lists the data center configurations compared by WhatIf. Each
// value produces one scenario with that single parameter changed.
type Variants struct {
	BatteryCapacities []float64
	SolarCapacities   []float64
	WindCapacities    []float64
}

// Len returns the number of variant scenarios.
func (v Variants) Len() int {
	return len(v.BatteryCapacities) + len(v.SolarCapacities) + len(v.WindCapacities)
}

// BaselineScenario is the name of the unmodified configuration in WhatIf.
const BaselineScenario = "baseline"

// Run drives one 24-hour episode of the named policy and reports its
// trajectory.
func (o *Orchestrator) Run(ctx context.Context, policyName string) (*model.EpisodeResult, error) {
	cfg := o.Config

	profile, err := o.loadProfile()
	if err != nil {
		return nil, err
	}

	sim, err := simulation.New(cfg.Simulation,
		simulation.WithWeather(o.weather()),
		simulation.WithProfile(profile),
	)
	if err != nil {
		return nil, err
	}

	params := o.policyParams()
	params.Seed = cfg.Simulation.Seed
	p, err := policy.New(policyName, params)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"policy": p.Name(),
		"seed":   cfg.Simulation.Seed,
	}).Info("running episode")

	ep, err := simulation.RunEpisode(ctx, sim, p, simulation.RunOptions{
		Scenario: p.Name(),
		Seed:     cfg.Simulation.Seed,
		Pace:     o.Pace,
	})
	if err != nil {
		return nil, fmt.Errorf("running episode: %w", err)
	}
	if o.Recorder != nil {
		o.Recorder.ObserveEpisode(ep)
	}

	reporter := report.NewReporter(cfg.Output.Format, o.Writer)
	if err := reporter.ReportEpisode(ctx, ep, o.meta("", 0)); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}
	if err := o.writeMetrics(); err != nil {
		return nil, err
	}
	return ep, nil
}

// Evaluate runs every configured policy over the configured number of
// seeded episodes, ranks them and reports the ranking.
func (o *Orchestrator) Evaluate(ctx context.Context) ([]model.Recommendation, error) {
	cfg := o.Config

	profile, err := o.loadProfile()
	if err != nil {
		return nil, err
	}

	seeds := simulation.Seeds(cfg.Simulation.Seed, cfg.Evaluation.Episodes)
	scenarios := make([]simulation.Scenario, 0, len(cfg.Evaluation.Policies))
	for _, name := range cfg.Evaluation.Policies {
		scenarios = append(scenarios, simulation.Scenario{
			Name:         name,
			Policy:       name,
			PolicyParams: o.policyParams(),
			Simulation:   cfg.Simulation,
			Weather:      o.weather(),
			Profile:      profile,
			Seeds:        seeds,
		})
	}

	logrus.WithFields(logrus.Fields{
		"policies": len(scenarios),
		"episodes": len(seeds),
	}).Info("evaluating policies")

	recs, err := o.engine().RunAll(ctx, scenarios, "")
	if err != nil {
		return nil, fmt.Errorf("running simulations: %w", err)
	}
	recs = o.top(recs)

	reporter := report.NewReporter(cfg.Output.Format, o.Writer)
	meta := o.meta("Policy Evaluation", len(seeds))
	if err := reporter.ReportRanking(ctx, recs, meta); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}
	if err := o.writeMetrics(); err != nil {
		return nil, err
	}
	return recs, nil
}

// WhatIf runs one policy across configuration variants and ranks them, with
// carbon compared against the unmodified configuration.
func (o *Orchestrator) WhatIf(ctx context.Context, policyName string, variants Variants) ([]model.Recommendation, error) {
	cfg := o.Config
	if !policy.IsKnown(policyName) {
		return nil, fmt.Errorf("%w: %q", policy.ErrUnknownPolicy, policyName)
	}
	if variants.Len() == 0 {
		return nil, fmt.Errorf("no variants to compare")
	}

	profile, err := o.loadProfile()
	if err != nil {
		return nil, err
	}

	seeds := simulation.Seeds(cfg.Simulation.Seed, cfg.Evaluation.Episodes)
	base := simulation.Scenario{
		Name:         BaselineScenario,
		Policy:       policyName,
		PolicyParams: o.policyParams(),
		Simulation:   cfg.Simulation,
		Weather:      o.weather(),
		Profile:      profile,
		Seeds:        seeds,
		Variant:      BaselineScenario,
	}
	scenarios := []simulation.Scenario{base}

	add := func(param string, values []float64, apply func(*config.SimulationConfig, float64)) {
		for _, v := range values {
			sc := base
			apply(&sc.Simulation, v)
			sc.Variant = param + "=" + strconv.FormatFloat(v, 'g', -1, 64)
			sc.Name = sc.Variant
			scenarios = append(scenarios, sc)
		}
	}
	add("battery", variants.BatteryCapacities, func(c *config.SimulationConfig, v float64) { c.BatteryCapacityKWh = v })
	add("solar", variants.SolarCapacities, func(c *config.SimulationConfig, v float64) { c.SolarCapacityKW = v })
	add("wind", variants.WindCapacities, func(c *config.SimulationConfig, v float64) { c.WindCapacityKW = v })

	recs, err := o.engine().RunAll(ctx, scenarios, BaselineScenario)
	if err != nil {
		return nil, fmt.Errorf("running simulations: %w", err)
	}
	recs = o.top(recs, BaselineScenario)

	reporter := report.NewReporter(cfg.Output.Format, o.Writer)
	meta := o.meta(fmt.Sprintf("What-If: %s", policyName), len(seeds))
	if err := reporter.ReportRanking(ctx, recs, meta); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}
	if err := o.writeMetrics(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (o *Orchestrator) engine() *simulation.Engine {
	cfg := o.Config

	scorer := simulation.NewScorer(cfg.Scoring.Weights)
	scorer.MaxQueueSize = cfg.Simulation.MaxQueueSize

	engine := simulation.NewEngine(scorer)
	if cfg.Evaluation.Parallelism > 0 {
		engine.Parallelism = cfg.Evaluation.Parallelism
	} else {
		engine.Parallelism = runtime.NumCPU()
	}
	if cfg.Evaluation.CacheDir != "" {
		engine.Cache = cache.NewFileCache(cfg.Evaluation.CacheDir, cfg.Evaluation.CacheTTL)
	}
	if o.Recorder != nil {
		engine.Observer = o.Recorder
	}
	return engine
}

// top cuts recs to the configured TopN. Scenarios named in keep are appended
// after the cut when they fall outside it, with their original rank.
func (o *Orchestrator) top(recs []model.Recommendation, keep ...string) []model.Recommendation {
	n := o.Config.Output.TopN
	if n <= 0 || len(recs) <= n {
		return recs
	}
	out := recs[:n:n]
	for _, rec := range recs[n:] {
		if slices.Contains(keep, rec.Result.Scenario) {
			out = append(out, rec)
		}
	}
	return out
}

func (o *Orchestrator) weather() supply.Weather {
	return supply.Weather{
		CloudCover:      o.Config.Weather.CloudCover,
		WindSpeedFactor: o.Config.Weather.WindSpeedFactor,
	}
}

func (o *Orchestrator) loadProfile() (*supply.Profile, error) {
	path := o.Config.Weather.ProfilePath
	if path == "" {
		return nil, nil
	}
	p, err := supply.LoadProfile(path)
	if err != nil {
		return nil, fmt.Errorf("loading weather profile: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"path":  path,
		"hours": len(p.Hours),
	}).Debug("loaded weather profile")
	return p, nil
}

func (o *Orchestrator) policyParams() policy.Params {
	return policy.Params{
		MaxQueueSize:    o.Config.Simulation.MaxQueueSize,
		CarbonThreshold: o.Config.Policy.CarbonThreshold,
		QueueHighWater:  o.Config.Policy.QueueHighWater,
	}
}

func (o *Orchestrator) meta(title string, episodes int) report.ReportMeta {
	return report.ReportMeta{
		RunID:       uuid.New().String(),
		Title:       title,
		GeneratedAt: time.Now(),
		Seed:        o.Config.Simulation.Seed,
		Episodes:    episodes,
		Simulation:  o.Config.Simulation,
		Weather:     o.Config.Weather,
	}
}

func (o *Orchestrator) writeMetrics() error {
	path := o.Config.Metrics.TextfilePath
	if path == "" || o.Recorder == nil {
		return nil
	}
	if err := o.Recorder.WriteFile(path); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
