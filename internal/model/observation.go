package model

import "math"

// Observation indices. The order is part of the environment contract.
const (
	ObsHour = iota
	ObsSolar
	ObsWind
	ObsCarbonIntensity
	ObsQueue
	ObsBattery
	ObsTaskAge

	ObservationSize
)

// Observation is the 7-element state vector handed to a policy:
// hour, solar kW, wind kW, carbon intensity, queue length, battery kWh and
// task age. Task age is reserved and always 0.
type Observation [ObservationSize]float64

func (o Observation) Hour() int                { return int(o[ObsHour]) }
func (o Observation) Solar() float64           { return o[ObsSolar] }
func (o Observation) Wind() float64            { return o[ObsWind] }
func (o Observation) CarbonIntensity() float64 { return o[ObsCarbonIntensity] }
func (o Observation) Queue() int               { return int(o[ObsQueue]) }
func (o Observation) Battery() float64         { return o[ObsBattery] }
func (o Observation) TaskAge() float64         { return o[ObsTaskAge] }

// Fixed observation bounds that do not depend on configuration.
const (
	MaxHour            = 24
	MaxRenewableKW     = 500
	MaxCarbonIntensity = 1000
	MaxTaskAge         = 100
)

// SpaceEntry describes one dimension of a space.
type SpaceEntry struct {
	Name        string  `json:"name" yaml:"name"`
	Unit        string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Description string  `json:"description" yaml:"description"`
	Low         float64 `json:"low" yaml:"low"`
	High        float64 `json:"high" yaml:"high"`
}

// ObservationSpace declares the valid range of each observation dimension.
// The ranges are used for clipping and normalization, not enforced on
// generated values.
type ObservationSpace struct {
	Entries [ObservationSize]SpaceEntry `json:"entries"`
}

// NewObservationSpace builds the observation space for a simulator with the
// given queue and battery limits.
func NewObservationSpace(maxQueue int, batteryCapacity float64) ObservationSpace {
	return ObservationSpace{Entries: [ObservationSize]SpaceEntry{
		ObsHour:            {Name: "hour", Unit: "h", Description: "Hour of day", Low: 0, High: MaxHour},
		ObsSolar:           {Name: "solar", Unit: "kW", Description: "Solar generation", Low: 0, High: MaxRenewableKW},
		ObsWind:            {Name: "wind", Unit: "kW", Description: "Wind generation", Low: 0, High: MaxRenewableKW},
		ObsCarbonIntensity: {Name: "carbon_intensity", Unit: "gCO2/kWh", Description: "Grid carbon intensity", Low: 0, High: MaxCarbonIntensity},
		ObsQueue:           {Name: "queue", Unit: "tasks", Description: "Pending tasks", Low: 0, High: float64(maxQueue)},
		ObsBattery:         {Name: "battery", Unit: "kWh", Description: "Battery charge", Low: 0, High: batteryCapacity},
		ObsTaskAge:         {Name: "task_age", Unit: "h", Description: "Oldest task age (reserved, always 0)", Low: 0, High: MaxTaskAge},
	}}
}

// Contains reports whether every dimension of o lies within its range.
func (s ObservationSpace) Contains(o Observation) bool {
	for i, e := range s.Entries {
		if o[i] < e.Low || o[i] > e.High {
			return false
		}
	}
	return true
}

// Clip bounds each dimension of o to its declared range.
func (s ObservationSpace) Clip(o Observation) Observation {
	var out Observation
	for i, e := range s.Entries {
		out[i] = math.Min(e.High, math.Max(e.Low, o[i]))
	}
	return out
}

// Normalize clips o and rescales each dimension to [0, 1]. A dimension with
// an empty range maps to 0.
func (s ObservationSpace) Normalize(o Observation) Observation {
	clipped := s.Clip(o)
	var out Observation
	for i, e := range s.Entries {
		span := e.High - e.Low
		if span <= 0 {
			continue
		}
		out[i] = (clipped[i] - e.Low) / span
	}
	return out
}

// ActionInfo describes one discrete action.
type ActionInfo struct {
	Ordinal     int    `json:"ordinal" yaml:"ordinal"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ActionSpace is the discrete set of dispatch actions.
type ActionSpace struct {
	Actions []ActionInfo `json:"actions"`
}

// Size returns the number of actions.
func (s ActionSpace) Size() int { return len(s.Actions) }

// NewActionSpace describes the three dispatch actions.
func NewActionSpace() ActionSpace {
	return ActionSpace{Actions: []ActionInfo{
		{Ordinal: int(ProcessAll), Name: ProcessAll.String(), Description: "Clear the queue using any energy mix, including grid"},
		{Ordinal: int(ProcessGreen), Name: ProcessGreen.String(), Description: "Clear only what solar, wind and battery can power"},
		{Ordinal: int(Hold), Name: Hold.String(), Description: "Process nothing and pay the idle load"},
	}}
}
