package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryTablesAreExhaustive(t *testing.T) {
	labels := map[string]bool{}
	for _, c := range Categories() {
		assert.True(t, c.Valid(), c)
		assert.NotEqual(t, string(c), c.Label(), "missing label for %s", c)
		assert.NotEqual(t, "gray", c.Color(), "missing color for %s", c)
		assert.NotEqual(t, "fa-circle", c.Icon(), "missing icon for %s", c)
		labels[c.Label()] = true
	}
	assert.Len(t, labels, 5)
	assert.False(t, Category("museum").Valid())
}

func TestWeatherConditionNeutralDefault(t *testing.T) {
	assert.Equal(t, "fa-cloud-rain", WeatherRainy.Icon())
	assert.Equal(t, "fa-sun", WeatherCondition("").Icon())
	assert.Equal(t, "muted", WeatherCondition("").Tone())
	assert.Equal(t, "orange", WeatherSunny.Tone())
}

func TestCloneDoesNotAliasPhotos(t *testing.T) {
	original := ScheduleEvent{ID: "4", Photos: []string{"a.jpg", "b.jpg"}}

	clone := original.Clone()
	clone.Photos[0] = "changed.jpg"

	assert.Equal(t, "a.jpg", original.Photos[0])
	assert.Equal(t, "a.jpg", original.CoverPhoto())
	assert.Empty(t, ScheduleEvent{}.CoverPhoto())
}

func TestPatchOverlay(t *testing.T) {
	base := PatchFromEvent(ScheduleEvent{ID: "1", Title: "A", Time: "10:00", Location: Location{Name: "Kyoto"}})
	title := "B"

	merged := base.Overlay(EventPatch{Title: &title})

	assert.Equal(t, "B", *merged.Title)
	assert.Equal(t, "10:00", *merged.Time)
	assert.Equal(t, "Kyoto", *merged.LocationName)
	assert.Equal(t, "A", *base.Title)
}
