// Package seed loads the initial itinerary served when nothing has been
// persisted yet.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

//go:embed kyoto.yaml
var defaultTrip []byte

// Trip is the seed document.
type Trip struct {
	Title       string                 `yaml:"title"`
	Destination string                 `yaml:"destination"`
	Days        []string               `yaml:"days"`
	Events      []models.ScheduleEvent `yaml:"events"`
	Weather     []models.WeatherInfo   `yaml:"weather"`
}

// Default returns the embedded seed trip.
func Default() (*Trip, error) {
	return Parse(defaultTrip)
}

// Load reads a seed file. An empty path selects the embedded seed.
func Load(path string) (*Trip, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and checks a seed document.
func Parse(data []byte) (*Trip, error) {
	var trip Trip
	if err := yaml.Unmarshal(data, &trip); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(trip.Days) == 0 {
		return nil, fmt.Errorf("seed has no days")
	}
	for _, day := range trip.Days {
		if _, err := time.Parse(models.DateLayout, day); err != nil {
			return nil, fmt.Errorf("seed day %q: %w", day, err)
		}
	}
	for i, e := range trip.Events {
		if e.ID == "" {
			return nil, fmt.Errorf("seed event #%d has no id", i+1)
		}
		if !e.Category.Valid() {
			return nil, fmt.Errorf("seed event %s: unknown category %q", e.ID, e.Category)
		}
	}
	return &trip, nil
}

// WeatherTable indexes the weather rows by date key.
func (t *Trip) WeatherTable() map[string]models.WeatherInfo {
	table := make(map[string]models.WeatherInfo, len(t.Weather))
	for _, w := range t.Weather {
		table[w.Date] = w
	}
	return table
}
