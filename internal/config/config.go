package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/guimove/greendc/internal/model"
	"github.com/guimove/greendc/internal/policy"
)

// Config is the top-level configuration for greendc.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Weather    WeatherConfig    `yaml:"weather" mapstructure:"weather"`
	Policy     PolicyConfig     `yaml:"policy" mapstructure:"policy"`
	Evaluation EvaluationConfig `yaml:"evaluation" mapstructure:"evaluation"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

// SimulationConfig holds the initialization parameters of one data center.
type SimulationConfig struct {
	SolarCapacityKW    float64       `yaml:"solar_capacity_kw" mapstructure:"solar_capacity_kw"`
	WindCapacityKW     float64       `yaml:"wind_capacity_kw" mapstructure:"wind_capacity_kw"`
	MaxQueueSize       int           `yaml:"max_queue_size" mapstructure:"max_queue_size"`
	BatteryCapacityKWh float64       `yaml:"battery_capacity_kwh" mapstructure:"battery_capacity_kwh"`
	MaxTasksPerHour    int           `yaml:"max_tasks_per_hour" mapstructure:"max_tasks_per_hour"`
	EnergyPerTaskKWh   float64       `yaml:"energy_per_task_kwh" mapstructure:"energy_per_task_kwh"`
	IdleLoadKWh        float64       `yaml:"idle_load_kwh" mapstructure:"idle_load_kwh"`
	Seed               uint64        `yaml:"seed" mapstructure:"seed"`
	Reward             RewardWeights `yaml:"reward" mapstructure:"reward"`
}

// RewardWeights are the per-unit coefficients of the step reward.
type RewardWeights struct {
	Throughput float64 `yaml:"throughput" mapstructure:"throughput"` // per task processed
	Carbon     float64 `yaml:"carbon" mapstructure:"carbon"`         // per gCO2 emitted
	Dropped    float64 `yaml:"dropped" mapstructure:"dropped"`       // per task dropped
	Queue      float64 `yaml:"queue" mapstructure:"queue"`           // per task left queued
}

type WeatherConfig struct {
	CloudCover      float64 `yaml:"cloud_cover" mapstructure:"cloud_cover"`
	WindSpeedFactor float64 `yaml:"wind_speed_factor" mapstructure:"wind_speed_factor"`
	ProfilePath     string  `yaml:"profile" mapstructure:"profile"` // per-hour overrides, YAML or JSON
}

type PolicyConfig struct {
	Name            string  `yaml:"name" mapstructure:"name"`
	CarbonThreshold float64 `yaml:"carbon_threshold" mapstructure:"carbon_threshold"` // gCO2/kWh
	QueueHighWater  float64 `yaml:"queue_high_water" mapstructure:"queue_high_water"` // fraction of max queue
}

type EvaluationConfig struct {
	Episodes    int           `yaml:"episodes" mapstructure:"episodes"`
	Parallelism int           `yaml:"parallelism" mapstructure:"parallelism"` // 0 = one worker per CPU
	Policies    []string      `yaml:"policies" mapstructure:"policies"`
	CacheDir    string        `yaml:"cache_dir" mapstructure:"cache_dir"` // empty disables the cache
	CacheTTL    time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

type ScoringConfig struct {
	Weights model.ScoringWeights `yaml:"weights" mapstructure:"weights"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	TopN   int    `yaml:"top_n" mapstructure:"top_n"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" mapstructure:"textfile_path"`
}

// DefaultSimulation returns the default data center parameters.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		SolarCapacityKW:    100,
		WindCapacityKW:     100,
		MaxQueueSize:       500,
		BatteryCapacityKWh: 200,
		MaxTasksPerHour:    100,
		EnergyPerTaskKWh:   0.1,
		IdleLoadKWh:        0.5,
		Seed:               42,
		Reward: RewardWeights{
			Throughput: 1.0,
			Carbon:     0.05,
			Dropped:    2.0,
			Queue:      0.1,
		},
	}
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Simulation: DefaultSimulation(),
		Weather: WeatherConfig{
			CloudCover:      0,
			WindSpeedFactor: 0.5,
		},
		Policy: PolicyConfig{
			Name:            policy.CarbonAwareName,
			CarbonThreshold: 450,
			QueueHighWater:  0.8,
		},
		Evaluation: EvaluationConfig{
			Episodes: 10,
			Policies: policy.Names(),
			CacheTTL: 24 * time.Hour,
		},
		Scoring: ScoringConfig{
			Weights: model.DefaultScoringWeights(),
		},
		Output: OutputConfig{
			Format: "table",
			TopN:   5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	var errs field.ErrorList

	errs = append(errs, c.Simulation.Validate(field.NewPath("simulation"))...)

	wp := field.NewPath("weather")
	errs = append(errs, fraction(wp.Child("cloud_cover"), c.Weather.CloudCover)...)
	errs = append(errs, fraction(wp.Child("wind_speed_factor"), c.Weather.WindSpeedFactor)...)

	pp := field.NewPath("policy")
	if !policy.IsKnown(c.Policy.Name) {
		errs = append(errs, field.NotSupported(pp.Child("name"), c.Policy.Name, policy.Names()))
	}
	errs = append(errs, nonNegative(pp.Child("carbon_threshold"), c.Policy.CarbonThreshold)...)
	errs = append(errs, fraction(pp.Child("queue_high_water"), c.Policy.QueueHighWater)...)

	ep := field.NewPath("evaluation")
	if c.Evaluation.Episodes <= 0 {
		errs = append(errs, field.Invalid(ep.Child("episodes"), c.Evaluation.Episodes, "must be positive"))
	}
	if c.Evaluation.Parallelism < 0 {
		errs = append(errs, field.Invalid(ep.Child("parallelism"), c.Evaluation.Parallelism, "must be non-negative"))
	}
	for i, name := range c.Evaluation.Policies {
		if !policy.IsKnown(name) {
			errs = append(errs, field.NotSupported(ep.Child("policies").Index(i), name, policy.Names()))
		}
	}
	if c.Evaluation.CacheTTL < 0 {
		errs = append(errs, field.Invalid(ep.Child("cache_ttl"), c.Evaluation.CacheTTL.String(), "must be non-negative"))
	}

	sp := field.NewPath("scoring", "weights")
	w := c.Scoring.Weights
	errs = append(errs, nonNegative(sp.Child("reward"), w.Reward)...)
	errs = append(errs, nonNegative(sp.Child("carbon"), w.Carbon)...)
	errs = append(errs, nonNegative(sp.Child("throughput"), w.Throughput)...)
	errs = append(errs, nonNegative(sp.Child("reliability"), w.Reliability)...)

	validFormats := []string{"table", "json", "markdown", "csv"}
	if !contains(validFormats, c.Output.Format) {
		errs = append(errs, field.NotSupported(field.NewPath("output", "format"), c.Output.Format, validFormats))
	}
	if c.Output.TopN <= 0 {
		c.Output.TopN = 5
	}

	lp := field.NewPath("logging")
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, field.Invalid(lp.Child("level"), c.Logging.Level, err.Error()))
	}
	logFormats := []string{"text", "json"}
	if !contains(logFormats, c.Logging.Format) {
		errs = append(errs, field.NotSupported(lp.Child("format"), c.Logging.Format, logFormats))
	}

	return errs.ToAggregate()
}

// Validate checks the simulation parameters. Negative capacities and limits
// are rejected, never clamped.
func (s SimulationConfig) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	errs = append(errs, nonNegative(path.Child("solar_capacity_kw"), s.SolarCapacityKW)...)
	errs = append(errs, nonNegative(path.Child("wind_capacity_kw"), s.WindCapacityKW)...)
	errs = append(errs, nonNegative(path.Child("battery_capacity_kwh"), s.BatteryCapacityKWh)...)
	errs = append(errs, nonNegative(path.Child("idle_load_kwh"), s.IdleLoadKWh)...)
	if s.MaxQueueSize < 0 {
		errs = append(errs, field.Invalid(path.Child("max_queue_size"), s.MaxQueueSize, "must be non-negative"))
	}
	if s.MaxTasksPerHour < 0 {
		errs = append(errs, field.Invalid(path.Child("max_tasks_per_hour"), s.MaxTasksPerHour, "must be non-negative"))
	}
	if !(s.EnergyPerTaskKWh > 0) {
		errs = append(errs, field.Invalid(path.Child("energy_per_task_kwh"), s.EnergyPerTaskKWh, "must be positive"))
	}

	rp := path.Child("reward")
	errs = append(errs, nonNegative(rp.Child("throughput"), s.Reward.Throughput)...)
	errs = append(errs, nonNegative(rp.Child("carbon"), s.Reward.Carbon)...)
	errs = append(errs, nonNegative(rp.Child("dropped"), s.Reward.Dropped)...)
	errs = append(errs, nonNegative(rp.Child("queue"), s.Reward.Queue)...)
	return errs
}

func nonNegative(path *field.Path, v float64) field.ErrorList {
	if v >= 0 {
		return nil
	}
	return field.ErrorList{field.Invalid(path, v, "must be non-negative")}
}

func fraction(path *field.Path, v float64) field.ErrorList {
	if v >= 0 && v <= 1 {
		return nil
	}
	return field.ErrorList{field.Invalid(path, v, "must be between 0 and 1")}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
