package service

import (
	"strings"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

// MergeEvent applies patch over original. The id is never changed. An empty
// or absent location name keeps the original name, so a save can never
// blank a location that was already set.
func MergeEvent(original models.ScheduleEvent, patch models.EventPatch) models.ScheduleEvent {
	merged := original.Clone()
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.Time != nil {
		merged.Time = *patch.Time
	}
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.LocationName != nil && strings.TrimSpace(*patch.LocationName) != "" {
		merged.Location.Name = *patch.LocationName
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}
	if patch.ReservationNumber != nil {
		merged.ReservationNumber = *patch.ReservationNumber
	}
	if patch.Photos != nil {
		merged.Photos = nil
		if len(*patch.Photos) > 0 {
			merged.Photos = make([]string, len(*patch.Photos))
			copy(merged.Photos, *patch.Photos)
		}
	}
	return merged
}
