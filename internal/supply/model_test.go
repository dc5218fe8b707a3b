package supply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/guimove/greendc/internal/random"
)

func TestSolarOutput_ZeroOutsideWindow(t *testing.T) {
	for _, hour := range []float64{0, 1, 2, 3, 4, 5, 5.99, 18.01, 19, 20, 21, 22, 23} {
		for _, noise := range []float64{-5, 0, 5} {
			assert.Equal(t, 0.0, SolarOutput(100, hour, 0, noise), "hour %v noise %v", hour, noise)
		}
	}
}

func TestSolarOutput_PeakEqualsCapacity(t *testing.T) {
	assert.Equal(t, 100.0, SolarOutput(100, 12, 0, 0))
	assert.Equal(t, 250.0, SolarOutput(250, 12, 0, 0))
}

func TestSolarOutput_CloudCoverScales(t *testing.T) {
	assert.InDelta(t, 50.0, SolarOutput(100, 12, 0.5, 0), 1e-12)
	assert.Equal(t, 0.0, SolarOutput(100, 12, 1, 0))
}

func TestSolarOutput_NoiseFloor(t *testing.T) {
	assert.Equal(t, 0.0, SolarOutput(100, 12, 1, -3))
	assert.Greater(t, SolarOutput(100, 6, 0, 0), 0.0)
}

func TestWindOutput_Bounds(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, factor := range []float64{0, 0.5, 1} {
			for _, gust := range []float64{-1, -0.1, 0, 0.1, 1} {
				w := WindOutput(100, float64(hour), factor, gust)
				assert.GreaterOrEqual(t, w, 0.0)
				assert.LessOrEqual(t, w, 100.0)
			}
		}
	}
}

func TestWindOutput_NonzeroAtMidnight(t *testing.T) {
	assert.Equal(t, 100.0, WindOutput(100, 0, DefaultWindSpeedFactor, 0))
	assert.InDelta(t, 50.0, WindOutput(100, 0, 0, 0), 1e-12)
	assert.Equal(t, 0.0, WindOutput(100, 0, 0, -2))
}

func TestCarbonIntensity_DuckCurve(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		assert.GreaterOrEqual(t, CarbonIntensity(float64(hour)), CarbonBase)
	}

	assert.Greater(t, CarbonIntensity(9), CarbonIntensity(8))
	assert.Greater(t, CarbonIntensity(9), CarbonIntensity(10))
	assert.Greater(t, CarbonIntensity(9), CarbonIntensity(3))
	assert.Greater(t, CarbonIntensity(19), CarbonIntensity(18))
	assert.Greater(t, CarbonIntensity(19), CarbonIntensity(20))
	assert.Greater(t, CarbonIntensity(19), CarbonIntensity(14))
	assert.InDelta(t, 550.0, CarbonIntensity(19), 1e-3)
	assert.Equal(t, CarbonIntensity(13), CarbonIntensity(13))
}

func TestModel_SampleDrawOrder(t *testing.T) {
	for _, hour := range []int{0, 3, 12, 20} {
		m := NewModel(100, 100, random.New(42))
		got := m.Sample(hour)

		ref := random.New(42)
		noise := distuv.Normal{Mu: 0, Sigma: SolarNoiseStd, Src: ref.Source()}.Rand()
		gust := distuv.Normal{Mu: 0, Sigma: WindGustStd, Src: ref.Source()}.Rand()

		h := float64(hour)
		assert.Equal(t, SolarOutput(100, h, 0, noise), got.Solar, "hour %d", hour)
		assert.Equal(t, WindOutput(100, h, DefaultWindSpeedFactor, gust), got.Wind, "hour %d", hour)
		assert.Equal(t, CarbonIntensity(h), got.CarbonIntensity)
	}
}

func TestModel_SampleConsumesTwoDraws(t *testing.T) {
	a, b := random.New(5), random.New(5)
	m := NewModel(100, 100, a)
	m.Sample(2) // solar is zero at 2am, noise is still drawn

	_ = distuv.Normal{Mu: 0, Sigma: 1, Src: b.Source()}.Rand()
	_ = distuv.Normal{Mu: 0, Sigma: 1, Src: b.Source()}.Rand()

	assert.Equal(t, b.Float64(), a.Float64())
}

func TestModel_SampleBounds(t *testing.T) {
	m := NewModel(100, 80, random.New(1))
	for i := 0; i < 500; i++ {
		c := m.Sample(i % 24)
		assert.GreaterOrEqual(t, c.Solar, 0.0)
		assert.GreaterOrEqual(t, c.Wind, 0.0)
		assert.LessOrEqual(t, c.Wind, 80.0)
		assert.GreaterOrEqual(t, c.CarbonIntensity, CarbonBase)
	}
}

func TestModel_ProfileOverridesWeather(t *testing.T) {
	p, err := ParseProfile([]byte(`
name: overcast
hours:
  - hour: 12
    cloud_cover: 1
    wind_speed_factor: 0
`))
	require.NoError(t, err)

	m := NewModel(100, 100, random.New(3))
	m.Profile = p

	assert.Equal(t, Weather{CloudCover: 1, WindSpeedFactor: 0}, m.WeatherAt(12))
	assert.Equal(t, DefaultWeather(), m.WeatherAt(11))

	c := m.Sample(12)
	assert.Less(t, c.Solar, 10.0)
}

func TestConditions_Renewable(t *testing.T) {
	assert.Equal(t, 30.0, Conditions{Solar: 10, Wind: 20}.Renewable())
}
