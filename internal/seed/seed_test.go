package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

func TestDefaultSeed(t *testing.T) {
	trip, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "大阪 & 京都", trip.Destination)
	assert.Equal(t, []string{"2024-11-15", "2024-11-16", "2024-11-17", "2024-11-18", "2024-11-19"}, trip.Days)
	require.Len(t, trip.Events, 6)
	assert.Equal(t, "RES-998877", trip.Events[0].ReservationNumber)
	assert.Equal(t, "Kansai Airport", trip.Events[0].Location.Name)
	assert.Equal(t, models.CategoryTransport, trip.Events[0].Category)
	assert.Equal(t, "https://picsum.photos/400/300", trip.Events[3].CoverPhoto())

	weather := trip.WeatherTable()
	require.Len(t, weather, 5)
	assert.Equal(t, models.WeatherRainy, weather["2024-11-17"].Condition)
	assert.Equal(t, 9.0, weather["2024-11-17"].TempMin)
}

func TestParseRejectsUnknownCategory(t *testing.T) {
	_, err := Parse([]byte("days: [\"2024-11-15\"]\nevents:\n  - {id: \"1\", date: \"2024-11-15\", time: \"10:00\", title: A, category: museum}\n"))

	assert.ErrorContains(t, err, "unknown category")
}

func TestParseRequiresDays(t *testing.T) {
	_, err := Parse([]byte("title: empty\n"))

	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.yaml")
	require.NoError(t, os.WriteFile(path, []byte("days: [\"2025-04-01\"]\n"), 0o600))

	trip, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-04-01"}, trip.Days)
	assert.Empty(t, trip.Events)
}
