package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

func TestNewEventViewPlaceholder(t *testing.T) {
	view := NewEventView(models.ScheduleEvent{ID: "1", Category: models.CategoryFood, Photos: []string{"a.jpg", "b.jpg"}})

	assert.Equal(t, NoLocationPlaceholder, view.LocationLabel)
	assert.False(t, view.HasLocation)
	assert.Equal(t, "a.jpg", view.CoverPhoto)
	assert.Equal(t, "美食", view.CategoryDetail.Label)
	assert.Equal(t, "fa-utensils", view.CategoryDetail.Icon)

	located := NewEventView(models.ScheduleEvent{Location: models.Location{Name: "Kyoto"}})
	assert.Equal(t, "Kyoto", located.LocationLabel)
	assert.True(t, located.HasLocation)
}

func TestNewDayViewResponseNeutralWeather(t *testing.T) {
	resp := NewDayViewResponse("2024-12-01", false, false, nil, nil)

	assert.False(t, resp.Weather.Available)
	assert.Equal(t, "muted", resp.Weather.Tone)
	assert.Nil(t, resp.Weather.TempMin)
	require.NotNil(t, resp.Events)
	assert.Empty(t, resp.Events)
	assert.Zero(t, resp.EventCount)

	rainy := NewDayViewResponse("2024-11-17", true, true, &models.WeatherInfo{Condition: models.WeatherRainy, TempMin: 9, TempMax: 15}, nil)
	assert.True(t, rainy.Weather.Available)
	assert.Equal(t, "fa-cloud-rain", rainy.Weather.Icon)
	assert.Equal(t, 15.0, *rainy.Weather.TempMax)
}

func TestCategoryTable(t *testing.T) {
	table := CategoryTable()
	require.Len(t, table, 5)
	assert.Equal(t, models.CategorySightseeing, table[0].Key)
	assert.Equal(t, "觀光", table[0].Label)
}
