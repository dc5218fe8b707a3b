// Package supply models renewable generation and grid carbon intensity over
// a 24-hour cycle.
package supply

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/guimove/greendc/internal/random"
)

const (
	// Solar generation window, inclusive.
	SolarStartHour = 6
	SolarEndHour   = 18

	SolarPeakHour = 12.0
	SolarSpread   = 2.5
	SolarNoiseStd = 2.0

	WindBaseline           = 0.5
	WindAmplitude          = 0.2
	WindPeriodDiv          = 4.0
	WindGustStd            = 0.1
	DefaultWindSpeedFactor = 0.5

	CarbonBase          = 400.0
	CarbonMorningPeak   = 100.0
	CarbonMorningHour   = 9.0
	CarbonMorningSpread = 1.5
	CarbonEveningPeak   = 150.0
	CarbonEveningHour   = 19.0
	CarbonEveningSpread = 2.0
)

// Weather holds the exogenous inputs for one hour.
type Weather struct {
	CloudCover      float64 `json:"cloud_cover" yaml:"cloud_cover"`
	WindSpeedFactor float64 `json:"wind_speed_factor" yaml:"wind_speed_factor"`
}

// DefaultWeather is a clear day with the baseline wind-speed factor.
func DefaultWeather() Weather {
	return Weather{CloudCover: 0, WindSpeedFactor: DefaultWindSpeedFactor}
}

// Conditions is the supply side of one simulated hour.
type Conditions struct {
	Solar           float64 `json:"solar"`
	Wind            float64 `json:"wind"`
	CarbonIntensity float64 `json:"carbon_intensity"`
}

// Renewable returns solar plus wind output.
func (c Conditions) Renewable() float64 {
	return c.Solar + c.Wind
}

// SolarOutput returns solar generation in kW. Output is zero outside the
// solar window and never negative.
func SolarOutput(capacity, hour, cloudCover, noise float64) float64 {
	if hour < SolarStartHour || hour > SolarEndHour {
		return 0
	}
	z := (hour - SolarPeakHour) / SolarSpread
	out := capacity*math.Exp(-0.5*z*z)*(1-cloudCover) + noise
	return math.Max(0, out)
}

// WindOutput returns wind generation in kW, within [0, capacity].
func WindOutput(capacity, hour, speedFactor, gust float64) float64 {
	base := WindBaseline + WindAmplitude*math.Sin(hour/WindPeriodDiv)
	return capacity * clamp(base+speedFactor+gust, 0, 1)
}

// CarbonIntensity returns grid carbon intensity in gCO2/kWh. It follows a
// duck curve with morning and evening peaks and is deterministic.
func CarbonIntensity(hour float64) float64 {
	return CarbonBase +
		CarbonMorningPeak*gaussian(hour, CarbonMorningHour, CarbonMorningSpread) +
		CarbonEveningPeak*gaussian(hour, CarbonEveningHour, CarbonEveningSpread)
}

// Model samples supply conditions from a shared random stream.
type Model struct {
	SolarCapacity float64
	WindCapacity  float64
	Weather       Weather
	Profile       *Profile

	solarNoise distuv.Normal
	windGust   distuv.Normal
}

// NewModel creates a supply model drawing from stream.
func NewModel(solarCapacity, windCapacity float64, stream *random.Stream) *Model {
	return &Model{
		SolarCapacity: solarCapacity,
		WindCapacity:  windCapacity,
		Weather:       DefaultWeather(),
		solarNoise:    distuv.Normal{Mu: 0, Sigma: SolarNoiseStd, Src: stream.Source()},
		windGust:      distuv.Normal{Mu: 0, Sigma: WindGustStd, Src: stream.Source()},
	}
}

// Sample returns the conditions for hour. It draws exactly two values from
// the stream, solar noise then wind gust, even when solar output is zero.
func (m *Model) Sample(hour int) Conditions {
	w := m.WeatherAt(hour)
	h := float64(hour)
	noise := m.solarNoise.Rand()
	gust := m.windGust.Rand()
	return Conditions{
		Solar:           SolarOutput(m.SolarCapacity, h, w.CloudCover, noise),
		Wind:            WindOutput(m.WindCapacity, h, w.WindSpeedFactor, gust),
		CarbonIntensity: CarbonIntensity(h),
	}
}

// WeatherAt returns the weather for hour, preferring the profile when set.
func (m *Model) WeatherAt(hour int) Weather {
	if m.Profile != nil {
		return m.Profile.Lookup(hour, m.Weather)
	}
	return m.Weather
}

func gaussian(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
