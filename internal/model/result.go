package model

import (
	"fmt"
	"strings"
	"time"
)

// EpisodeTotals accumulates a trajectory.
type EpisodeTotals struct {
	Reward         float64 `json:"reward"`
	CarbonEmitted  float64 `json:"carbon_emitted"` // gCO2
	TasksProcessed int     `json:"tasks_processed"`
	DroppedTasks   int     `json:"dropped_tasks"`
	Arrivals       int     `json:"arrivals"`
	GridUsed       float64 `json:"grid_used"`  // kWh
	GreenUsed      float64 `json:"green_used"` // kWh
	EnergyConsumed float64 `json:"energy_consumed"`
	FinalQueue     int     `json:"final_queue"`
	FinalBattery   float64 `json:"final_battery"`
}

// GridShare returns the fraction of consumed energy that came from the grid.
func (t EpisodeTotals) GridShare() float64 {
	if t.EnergyConsumed <= 0 {
		return 0
	}
	return t.GridUsed / t.EnergyConsumed
}

// EpisodeResult is a full 24-hour trajectory under one policy.
type EpisodeResult struct {
	Scenario string        `json:"scenario,omitempty"`
	Policy   string        `json:"policy"`
	Seed     uint64        `json:"seed"`
	Steps    []EpisodeStep `json:"steps"`
	Totals   EpisodeTotals `json:"totals"`
	Duration time.Duration `json:"duration"`
}

// Append records a step and folds it into the totals.
func (r *EpisodeResult) Append(step EpisodeStep) {
	r.Steps = append(r.Steps, step)
	rec := step.Record
	r.Totals.Reward += step.Reward
	r.Totals.CarbonEmitted += rec.CarbonEmitted
	r.Totals.TasksProcessed += rec.TasksProcessed
	r.Totals.DroppedTasks += rec.DroppedTasks
	r.Totals.Arrivals += rec.Arrivals
	r.Totals.GridUsed += rec.GridUsed
	r.Totals.GreenUsed += rec.GreenUsed
	r.Totals.EnergyConsumed += rec.EnergyConsumed
	r.Totals.FinalQueue = rec.QueueLength
	r.Totals.FinalBattery = rec.Battery
}

// ScenarioResult aggregates several seeded episodes of one scenario.
type ScenarioResult struct {
	Scenario string `json:"scenario"`
	Policy   string `json:"policy"`
	Variant  string `json:"variant,omitempty"`
	Episodes int    `json:"episodes"`

	MeanReward    float64 `json:"mean_reward"`
	StdReward     float64 `json:"std_reward"`
	MeanCarbon    float64 `json:"mean_carbon"` // gCO2 per episode
	StdCarbon     float64 `json:"std_carbon"`
	MeanTasks     float64 `json:"mean_tasks"`
	MeanDropped   float64 `json:"mean_dropped"`
	MeanArrivals  float64 `json:"mean_arrivals"`
	MeanGridShare float64 `json:"mean_grid_share"` // 0.0 - 1.0
	MeanQueue     float64 `json:"mean_final_queue"`

	Cached   bool          `json:"cached,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Label returns a human-readable label for the scenario.
func (r ScenarioResult) Label() string {
	if r.Variant == "" {
		return r.Policy
	}
	return fmt.Sprintf("%s [%s]", r.Policy, r.Variant)
}

// ServiceLevel returns the fraction of arrivals that were processed.
func (r ScenarioResult) ServiceLevel() float64 {
	if r.MeanArrivals <= 0 {
		return 1
	}
	return r.MeanTasks / r.MeanArrivals
}

// ScoringWeights configures the relative importance of scoring dimensions.
type ScoringWeights struct {
	Reward      float64 `yaml:"reward" json:"reward" mapstructure:"reward"`
	Carbon      float64 `yaml:"carbon" json:"carbon" mapstructure:"carbon"`
	Throughput  float64 `yaml:"throughput" json:"throughput" mapstructure:"throughput"`
	Reliability float64 `yaml:"reliability" json:"reliability" mapstructure:"reliability"`
}

// DefaultScoringWeights returns the default scoring weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Reward:      0.40,
		Carbon:      0.30,
		Throughput:  0.15,
		Reliability: 0.15,
	}
}

// Recommendation is a ranked scenario presented to the user.
type Recommendation struct {
	Rank   int            `json:"rank"`
	Result ScenarioResult `json:"result"`

	// Scores (0-100)
	OverallScore     float64 `json:"overall_score"`
	RewardScore      float64 `json:"reward_score"`
	CarbonScore      float64 `json:"carbon_score"`
	ThroughputScore  float64 `json:"throughput_score"`
	ReliabilityScore float64 `json:"reliability_score"`

	// Relative to the baseline scenario, when one is given
	CarbonVsBaseline float64 `json:"carbon_vs_baseline_pct,omitempty"` // Negative = less carbon

	Rationale string   `json:"rationale"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Summary joins rationale and warnings on one line.
func (r Recommendation) Summary() string {
	if len(r.Warnings) == 0 {
		return r.Rationale
	}
	return r.Rationale + "; " + strings.Join(r.Warnings, "; ")
}
