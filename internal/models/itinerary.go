package models

import "time"

// DateLayout is the layout of a date key.
const DateLayout = "2006-01-02"

// Category classifies an itinerary entry. The set is closed.
type Category string

const (
	CategorySightseeing   Category = "sightseeing"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryAccommodation Category = "accommodation"
	CategoryShopping      Category = "shopping"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySightseeing, CategoryFood, CategoryTransport, CategoryAccommodation, CategoryShopping}
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategorySightseeing, CategoryFood, CategoryTransport, CategoryAccommodation, CategoryShopping:
		return true
	}
	return false
}

// Label returns the display label.
func (c Category) Label() string {
	switch c {
	case CategorySightseeing:
		return "觀光"
	case CategoryFood:
		return "美食"
	case CategoryTransport:
		return "交通"
	case CategoryAccommodation:
		return "住宿"
	case CategoryShopping:
		return "購物"
	}
	return string(c)
}

// Color returns the badge color token.
func (c Category) Color() string {
	switch c {
	case CategorySightseeing:
		return "indigo"
	case CategoryFood:
		return "orange"
	case CategoryTransport:
		return "green"
	case CategoryAccommodation:
		return "pink"
	case CategoryShopping:
		return "blue"
	}
	return "gray"
}

// Icon returns the icon name.
func (c Category) Icon() string {
	switch c {
	case CategorySightseeing:
		return "fa-camera"
	case CategoryFood:
		return "fa-utensils"
	case CategoryTransport:
		return "fa-train-subway"
	case CategoryAccommodation:
		return "fa-bed"
	case CategoryShopping:
		return "fa-bag-shopping"
	}
	return "fa-circle"
}

// Location is where an entry takes place. An empty Name means unset.
type Location struct {
	Name string `json:"name" yaml:"name"`
}

// ScheduleEvent is one itinerary entry.
type ScheduleEvent struct {
	ID                string   `json:"id" yaml:"id"`
	Date              string   `json:"date" yaml:"date"`
	Time              string   `json:"time" yaml:"time"`
	Title             string   `json:"title" yaml:"title"`
	Location          Location `json:"location" yaml:"location"`
	Category          Category `json:"category" yaml:"category"`
	Notes             string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	ReservationNumber string   `json:"reservationNumber,omitempty" yaml:"reservation_number,omitempty"`
	Photos            []string `json:"photos,omitempty" yaml:"photos,omitempty"`
}

// Clone returns a deep copy so callers never share the Photos backing array.
func (e ScheduleEvent) Clone() ScheduleEvent {
	if e.Photos != nil {
		photos := make([]string, len(e.Photos))
		copy(photos, e.Photos)
		e.Photos = photos
	}
	return e
}

// CoverPhoto returns the first photo reference, if any.
func (e ScheduleEvent) CoverPhoto() string {
	if len(e.Photos) == 0 {
		return ""
	}
	return e.Photos[0]
}

// EventPatch is a partial ScheduleEvent. Nil fields are absent. There is no
// ID field: identity is fixed at creation.
type EventPatch struct {
	Date              *string   `json:"date,omitempty"`
	Time              *string   `json:"time,omitempty"`
	Title             *string   `json:"title,omitempty"`
	LocationName      *string   `json:"locationName,omitempty"`
	Category          *Category `json:"category,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	ReservationNumber *string   `json:"reservationNumber,omitempty"`
	Photos            *[]string `json:"photos,omitempty"`
}

// PatchFromEvent returns a patch with every field populated from e.
func PatchFromEvent(e ScheduleEvent) EventPatch {
	e = e.Clone()
	photos := e.Photos
	return EventPatch{
		Date:              &e.Date,
		Time:              &e.Time,
		Title:             &e.Title,
		LocationName:      &e.Location.Name,
		Category:          &e.Category,
		Notes:             &e.Notes,
		ReservationNumber: &e.ReservationNumber,
		Photos:            &photos,
	}
}

// Overlay returns p with every non-nil field of other applied on top.
func (p EventPatch) Overlay(other EventPatch) EventPatch {
	if other.Date != nil {
		p.Date = other.Date
	}
	if other.Time != nil {
		p.Time = other.Time
	}
	if other.Title != nil {
		p.Title = other.Title
	}
	if other.LocationName != nil {
		p.LocationName = other.LocationName
	}
	if other.Category != nil {
		p.Category = other.Category
	}
	if other.Notes != nil {
		p.Notes = other.Notes
	}
	if other.ReservationNumber != nil {
		p.ReservationNumber = other.ReservationNumber
	}
	if other.Photos != nil {
		p.Photos = other.Photos
	}
	return p
}

// WeatherCondition is a forecast summary. The empty value means absent.
type WeatherCondition string

const (
	WeatherSunny  WeatherCondition = "sunny"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRainy  WeatherCondition = "rainy"
)

// Icon returns the icon for the condition, neutral when absent or unknown.
func (w WeatherCondition) Icon() string {
	switch w {
	case WeatherSunny:
		return "fa-sun"
	case WeatherRainy:
		return "fa-cloud-rain"
	case WeatherCloudy:
		return "fa-cloud"
	}
	return "fa-sun"
}

// Tone returns the icon color token; absent conditions render muted.
func (w WeatherCondition) Tone() string {
	switch w {
	case WeatherSunny:
		return "orange"
	case WeatherRainy:
		return "blue"
	case WeatherCloudy:
		return "gray"
	}
	return "muted"
}

// WeatherInfo is the read-only per-day weather summary.
type WeatherInfo struct {
	Date      string           `json:"date" yaml:"date"`
	Condition WeatherCondition `json:"condition,omitempty" yaml:"condition,omitempty"`
	TempMin   float64          `json:"tempMin" yaml:"temp_min"`
	TempMax   float64          `json:"tempMax" yaml:"temp_max"`
}

// TripSnapshot is the persisted form of the itinerary state.
type TripSnapshot struct {
	TripID       string          `json:"tripId"`
	Version      int64           `json:"version"`
	Days         []string        `json:"days"`
	SelectedDate string          `json:"selectedDate"`
	Events       []ScheduleEvent `json:"events"`
	SavedAt      time.Time       `json:"savedAt"`
}

// WorkflowMode is the state of the selection/edit workflow.
type WorkflowMode string

const (
	WorkflowClosed  WorkflowMode = "closed"
	WorkflowViewing WorkflowMode = "viewing"
	WorkflowEditing WorkflowMode = "editing"
)

// WorkflowState is a read-only copy of the workflow.
type WorkflowState struct {
	Mode    WorkflowMode   `json:"mode"`
	Event   *ScheduleEvent `json:"event,omitempty"`
	Draft   *EventPatch    `json:"draft,omitempty"`
	Unsaved bool           `json:"unsaved"`
}
