package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

func strPtr(s string) *string { return &s }

func TestMergeEventKeepsPriorLocationWhenPatchIsEmpty(t *testing.T) {
	original := models.ScheduleEvent{ID: "2", Title: "錦市場午餐", Location: models.Location{Name: "Nishiki Market"}}

	for _, name := range []*string{nil, strPtr(""), strPtr("   ")} {
		merged := MergeEvent(original, models.EventPatch{LocationName: name})
		assert.Equal(t, "Nishiki Market", merged.Location.Name)
	}
}

func TestMergeEventOverridesPresentFields(t *testing.T) {
	category := models.CategoryFood
	photos := []string{"a.jpg"}
	original := models.ScheduleEvent{ID: "1", Date: "2024-11-15", Time: "10:00", Title: "A", Category: models.CategoryTransport, Notes: "keep"}

	merged := MergeEvent(original, models.EventPatch{
		Title:        strPtr("B"),
		Time:         strPtr("13:00"),
		LocationName: strPtr("Kyoto Station"),
		Category:     &category,
		Photos:       &photos,
	})

	assert.Equal(t, "1", merged.ID)
	assert.Equal(t, "2024-11-15", merged.Date)
	assert.Equal(t, "13:00", merged.Time)
	assert.Equal(t, "B", merged.Title)
	assert.Equal(t, "Kyoto Station", merged.Location.Name)
	assert.Equal(t, models.CategoryFood, merged.Category)
	assert.Equal(t, "keep", merged.Notes)
	photos[0] = "mutated.jpg"
	assert.Equal(t, "a.jpg", merged.Photos[0])
}

func TestMergeEventCanClearOptionalText(t *testing.T) {
	original := models.ScheduleEvent{ID: "1", Notes: "搭乘 Haruka", ReservationNumber: "RES-998877"}

	merged := MergeEvent(original, models.EventPatch{Notes: strPtr(""), ReservationNumber: strPtr("")})

	assert.Empty(t, merged.Notes)
	assert.Empty(t, merged.ReservationNumber)
}
