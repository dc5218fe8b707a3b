package supply

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ErrEmptyProfile is returned when a weather profile defines no hours.
var ErrEmptyProfile = errors.New("weather profile has no hours")

// HourWeather overrides the weather for a single hour of the day.
type HourWeather struct {
	Hour            int      `yaml:"hour"`
	CloudCover      *float64 `yaml:"cloud_cover,omitempty"`
	WindSpeedFactor *float64 `yaml:"wind_speed_factor,omitempty"`
}

// Profile is a per-hour weather schedule. Hours not listed use the
// model's base weather; unset fields within a listed hour do too.
type Profile struct {
	Name  string        `yaml:"name"`
	Hours []HourWeather `yaml:"hours"`

	byHour map[int]HourWeather
}

// LoadProfile reads a weather profile from a YAML or JSON file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weather profile: %w", err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("weather profile %s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes and validates a weather profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing weather profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks hours and fractions and builds the lookup index.
func (p *Profile) Validate() error {
	if len(p.Hours) == 0 {
		return ErrEmptyProfile
	}

	var errs field.ErrorList
	root := field.NewPath("hours")
	seen := make(map[int]bool, len(p.Hours))
	for i, h := range p.Hours {
		idx := root.Index(i)
		if h.Hour < 0 || h.Hour > 23 {
			errs = append(errs, field.Invalid(idx.Child("hour"), h.Hour, "must be between 0 and 23"))
		} else if seen[h.Hour] {
			errs = append(errs, field.Duplicate(idx.Child("hour"), h.Hour))
		}
		seen[h.Hour] = true
		if h.CloudCover != nil && (*h.CloudCover < 0 || *h.CloudCover > 1) {
			errs = append(errs, field.Invalid(idx.Child("cloud_cover"), *h.CloudCover, "must be between 0 and 1"))
		}
		if h.WindSpeedFactor != nil && (*h.WindSpeedFactor < 0 || *h.WindSpeedFactor > 1) {
			errs = append(errs, field.Invalid(idx.Child("wind_speed_factor"), *h.WindSpeedFactor, "must be between 0 and 1"))
		}
	}
	if len(errs) > 0 {
		return errs.ToAggregate()
	}

	p.byHour = make(map[int]HourWeather, len(p.Hours))
	for _, h := range p.Hours {
		p.byHour[h.Hour] = h
	}
	return nil
}

// Lookup returns the weather for hour, falling back to base for anything the
// profile does not set.
func (p *Profile) Lookup(hour int, base Weather) Weather {
	h, ok := p.find(hour)
	if !ok {
		return base
	}
	w := base
	if h.CloudCover != nil {
		w.CloudCover = *h.CloudCover
	}
	if h.WindSpeedFactor != nil {
		w.WindSpeedFactor = *h.WindSpeedFactor
	}
	return w
}

func (p *Profile) find(hour int) (HourWeather, bool) {
	if p.byHour != nil {
		h, ok := p.byHour[hour]
		return h, ok
	}
	for _, h := range p.Hours {
		if h.Hour == hour {
			return h, true
		}
	}
	return HourWeather{}, false
}
