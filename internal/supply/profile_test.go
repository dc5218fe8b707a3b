package supply

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile_YAML(t *testing.T) {
	p, err := ParseProfile([]byte(`
name: windy-evening
hours:
  - hour: 18
    wind_speed_factor: 0.9
  - hour: 19
    cloud_cover: 0.4
    wind_speed_factor: 1
`))
	require.NoError(t, err)
	assert.Equal(t, "windy-evening", p.Name)
	assert.Len(t, p.Hours, 2)

	base := Weather{CloudCover: 0.1, WindSpeedFactor: 0.5}
	assert.Equal(t, Weather{CloudCover: 0.1, WindSpeedFactor: 0.9}, p.Lookup(18, base))
	assert.Equal(t, Weather{CloudCover: 0.4, WindSpeedFactor: 1}, p.Lookup(19, base))
	assert.Equal(t, base, p.Lookup(3, base))
}

func TestParseProfile_JSON(t *testing.T) {
	p, err := ParseProfile([]byte(`{"name": "cloudy", "hours": [{"hour": 10, "cloud_cover": 0.75}]}`))
	require.NoError(t, err)
	assert.Equal(t, 0.75, p.Lookup(10, DefaultWeather()).CloudCover)
}

func TestParseProfile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"hour out of range", "hours:\n  - hour: 24\n", "hours[0].hour"},
		{"negative hour", "hours:\n  - hour: -1\n", "hours[0].hour"},
		{"duplicate hour", "hours:\n  - hour: 3\n  - hour: 3\n", "hours[1].hour"},
		{"cloud cover", "hours:\n  - hour: 3\n    cloud_cover: 1.5\n", "hours[0].cloud_cover"},
		{"wind factor", "hours:\n  - hour: 3\n    wind_speed_factor: -0.1\n", "hours[0].wind_speed_factor"},
		{"malformed", "hours: [", "parsing weather profile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseProfile_Empty(t *testing.T) {
	_, err := ParseProfile([]byte("name: nothing\n"))
	assert.ErrorIs(t, err, ErrEmptyProfile)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: test\nhours:\n  - hour: 7\n    cloud_cover: 0.2\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, p.Lookup(7, Weather{}).CloudCover)

	_, err = LoadProfile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestProfile_LookupWithoutValidate(t *testing.T) {
	cc := 0.3
	p := &Profile{Hours: []HourWeather{{Hour: 5, CloudCover: &cc}}}
	assert.Equal(t, 0.3, p.Lookup(5, Weather{}).CloudCover)
	assert.Equal(t, Weather{WindSpeedFactor: 0.5}, p.Lookup(6, Weather{WindSpeedFactor: 0.5}))
}
