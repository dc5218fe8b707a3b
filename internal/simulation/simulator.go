package simulation

import (
	"errors"
	"fmt"
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/guimove/greendc/internal/config"
	"github.com/guimove/greendc/internal/model"
	"github.com/guimove/greendc/internal/random"
	"github.com/guimove/greendc/internal/supply"
	"github.com/guimove/greendc/internal/workload"
)

// EpisodeHours is the number of steps in one episode.
const EpisodeHours = 24

var (
	// ErrInvalidAction is returned by Step for an action outside the action space.
	ErrInvalidAction = errors.New("invalid action")
	// ErrEpisodeDone is returned by Step once the episode has terminated and
	// Reset has not been called.
	ErrEpisodeDone = errors.New("episode is done, call Reset")
)

// SupplyModel provides the supply conditions for an hour.
type SupplyModel interface {
	Sample(hour int) supply.Conditions
}

// ArrivalModel provides the number of tasks arriving during an hour.
type ArrivalModel interface {
	Arrivals(hour int) int
}

// Environment is the contract between a simulator and whatever drives it.
type Environment interface {
	Reset() (model.Observation, model.StepRecord)
	Step(action model.Action) (StepResult, error)
	ObservationSpace() model.ObservationSpace
	ActionSpace() model.ActionSpace
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation model.Observation
	Reward      float64
	Done        bool
	Record      model.StepRecord
}

// State is the mutable episode state.
type State struct {
	Hour          int     `json:"hour"`
	QueueLength   int     `json:"queue_length"`
	BatteryCharge float64 `json:"battery_charge"`
}

// Simulator is a single data center running one 24-hour episode at a time.
// It is not safe for concurrent use.
type Simulator struct {
	cfg      config.SimulationConfig
	stream   *random.Stream
	supply   SupplyModel
	arrivals ArrivalModel

	obsSpace model.ObservationSpace
	actSpace model.ActionSpace

	state   State
	current supply.Conditions
	done    bool
}

type options struct {
	seed     *uint64
	weather  *supply.Weather
	profile  *supply.Profile
	supply   SupplyModel
	arrivals ArrivalModel
}

// Option configures a Simulator.
type Option func(*options)

// WithSeed overrides the configured seed.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithWeather sets the base weather for every hour.
func WithWeather(w supply.Weather) Option {
	return func(o *options) { o.weather = &w }
}

// WithProfile sets per-hour weather overrides.
func WithProfile(p *supply.Profile) Option {
	return func(o *options) { o.profile = p }
}

// WithSupplyModel replaces the renewable supply model.
func WithSupplyModel(m SupplyModel) Option {
	return func(o *options) { o.supply = m }
}

// WithArrivalModel replaces the workload arrival model.
func WithArrivalModel(m ArrivalModel) Option {
	return func(o *options) { o.arrivals = m }
}

// New creates a simulator. Invalid parameters are rejected. The simulator
// starts terminated; call Reset before the first Step.
func New(cfg config.SimulationConfig, opts ...Option) (*Simulator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	errs := cfg.Validate(field.NewPath("simulation"))
	if o.weather != nil {
		wp := field.NewPath("weather")
		if o.weather.CloudCover < 0 || o.weather.CloudCover > 1 {
			errs = append(errs, field.Invalid(wp.Child("cloud_cover"), o.weather.CloudCover, "must be between 0 and 1"))
		}
		if o.weather.WindSpeedFactor < 0 || o.weather.WindSpeedFactor > 1 {
			errs = append(errs, field.Invalid(wp.Child("wind_speed_factor"), o.weather.WindSpeedFactor, "must be between 0 and 1"))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid simulator configuration: %w", errs.ToAggregate())
	}

	seed := cfg.Seed
	if o.seed != nil {
		seed = *o.seed
	}
	stream := random.New(seed)

	s := &Simulator{
		cfg:      cfg,
		stream:   stream,
		supply:   o.supply,
		arrivals: o.arrivals,
		obsSpace: model.NewObservationSpace(cfg.MaxQueueSize, cfg.BatteryCapacityKWh),
		actSpace: model.NewActionSpace(),
		done:     true,
	}
	if s.supply == nil {
		m := supply.NewModel(cfg.SolarCapacityKW, cfg.WindCapacityKW, stream)
		if o.weather != nil {
			m.Weather = *o.weather
		}
		m.Profile = o.profile
		s.supply = m
	}
	if s.arrivals == nil {
		s.arrivals = workload.NewModel(cfg.MaxTasksPerHour, stream)
	}
	return s, nil
}

// Reset starts a new episode: hour 0, empty queue, battery at half capacity.
// The random stream continues from where it was. It returns the initial
// observation and an empty record.
func (s *Simulator) Reset() (model.Observation, model.StepRecord) {
	s.state = State{
		Hour:          0,
		QueueLength:   0,
		BatteryCharge: 0.5 * s.cfg.BatteryCapacityKWh,
	}
	s.done = false
	s.current = s.supply.Sample(0)
	return s.Observation(), model.StepRecord{}
}

// ResetWithSeed reseeds the random stream and starts a new episode.
func (s *Simulator) ResetWithSeed(seed uint64) (model.Observation, model.StepRecord) {
	s.stream.Seed(seed)
	return s.Reset()
}

// Step advances the episode by one hour under action.
func (s *Simulator) Step(action model.Action) (StepResult, error) {
	if !action.Valid() {
		return StepResult{}, fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
	}
	if s.done {
		return StepResult{}, ErrEpisodeDone
	}

	hour := s.state.Hour
	c := s.current
	battery := s.state.BatteryCharge

	arrivals := s.arrivals.Arrivals(hour)
	queue := s.state.QueueLength + arrivals
	dropped := 0
	if queue > s.cfg.MaxQueueSize {
		dropped = queue - s.cfg.MaxQueueSize
		queue = s.cfg.MaxQueueSize
	}

	greenAvailable := c.Solar + c.Wind + battery

	var processed int
	var consumed float64
	switch action {
	case model.ProcessAll:
		processed = queue
		consumed = float64(processed) * s.cfg.EnergyPerTaskKWh
	case model.ProcessGreen:
		affordable := math.Floor(greenAvailable / s.cfg.EnergyPerTaskKWh)
		processed = queue
		if affordable < float64(queue) {
			processed = int(affordable)
		}
		consumed = float64(processed) * s.cfg.EnergyPerTaskKWh
	case model.Hold:
		processed = 0
		consumed = s.cfg.IdleLoadKWh
	}

	mix := Reconcile(consumed, c.Solar, c.Wind, battery, s.cfg.BatteryCapacityKWh)
	queue -= processed
	carbon := mix.Grid * c.CarbonIntensity
	reward := Reward(s.cfg.Reward, processed, carbon, dropped, queue)

	rec := model.StepRecord{
		Hour:            hour,
		Solar:           c.Solar,
		Wind:            c.Wind,
		GridUsed:        mix.Grid,
		CarbonEmitted:   carbon,
		TasksProcessed:  processed,
		QueueLength:     queue,
		Battery:         mix.Battery,
		Action:          action.String(),
		CarbonIntensity: c.CarbonIntensity,
		Arrivals:        arrivals,
		DroppedTasks:    dropped,
		EnergyConsumed:  consumed,
		GreenUsed:       mix.Green,
		Reward:          reward,
	}

	s.state = State{
		Hour:          hour + 1,
		QueueLength:   queue,
		BatteryCharge: mix.Battery,
	}
	s.done = s.state.Hour >= EpisodeHours
	s.current = s.supply.Sample(s.state.Hour)

	return StepResult{
		Observation: s.Observation(),
		Reward:      reward,
		Done:        s.done,
		Record:      rec,
	}, nil
}

// Observation returns the current observation vector.
func (s *Simulator) Observation() model.Observation {
	return model.Observation{
		model.ObsHour:            float64(s.state.Hour),
		model.ObsSolar:           s.current.Solar,
		model.ObsWind:            s.current.Wind,
		model.ObsCarbonIntensity: s.current.CarbonIntensity,
		model.ObsQueue:           float64(s.state.QueueLength),
		model.ObsBattery:         s.state.BatteryCharge,
		model.ObsTaskAge:         0,
	}
}

// Conditions returns the supply conditions of the current hour.
func (s *Simulator) Conditions() supply.Conditions { return s.current }

// State returns a copy of the episode state.
func (s *Simulator) State() State { return s.state }

// Done reports whether the episode has terminated.
func (s *Simulator) Done() bool { return s.done }

// Config returns the simulator parameters.
func (s *Simulator) Config() config.SimulationConfig { return s.cfg }

func (s *Simulator) ObservationSpace() model.ObservationSpace { return s.obsSpace }

func (s *Simulator) ActionSpace() model.ActionSpace { return s.actSpace }
