package dto

import (
	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

// NoLocationPlaceholder is shown for events without a location name.
const NoLocationPlaceholder = "未設定地點"

// CategoryView is the presentation of one category.
type CategoryView struct {
	Key   models.Category `json:"key"`
	Label string          `json:"label"`
	Color string          `json:"color"`
	Icon  string          `json:"icon"`
}

// EventView is an event as rendered in the day list.
type EventView struct {
	models.ScheduleEvent
	LocationLabel  string       `json:"locationLabel"`
	HasLocation    bool         `json:"hasLocation"`
	CoverPhoto     string       `json:"coverPhoto,omitempty"`
	CategoryDetail CategoryView `json:"categoryDetail"`
}

// WeatherView renders a weather summary. Available=false is the neutral
// state for days without a forecast.
type WeatherView struct {
	Available bool                    `json:"available"`
	Condition models.WeatherCondition `json:"condition,omitempty"`
	Icon      string                  `json:"icon"`
	Tone      string                  `json:"tone"`
	TempMin   *float64                `json:"tempMin,omitempty"`
	TempMax   *float64                `json:"tempMax,omitempty"`
}

// DayViewResponse is the payload of the day endpoint.
type DayViewResponse struct {
	Date       string      `json:"date"`
	Selected   bool        `json:"selected"`
	InIndex    bool        `json:"inIndex"`
	Weather    WeatherView `json:"weather"`
	EventCount int         `json:"eventCount"`
	Events     []EventView `json:"events"`
}

// AppendDayResponse reports the appended date.
type AppendDayResponse struct {
	Date         string   `json:"date"`
	Days         []string `json:"days"`
	SelectedDate string   `json:"selectedDate"`
}

// DeleteEventResponse reports the removed event id.
type DeleteEventResponse struct {
	ID string `json:"id"`
}

// NewCategoryView builds the presentation of c.
func NewCategoryView(c models.Category) CategoryView {
	return CategoryView{Key: c, Label: c.Label(), Color: c.Color(), Icon: c.Icon()}
}

// CategoryTable lists every category.
func CategoryTable() []CategoryView {
	categories := models.Categories()
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, NewCategoryView(c))
	}
	return views
}

// NewEventView decorates an event for display.
func NewEventView(e models.ScheduleEvent) EventView {
	view := EventView{
		ScheduleEvent:  e,
		LocationLabel:  e.Location.Name,
		HasLocation:    e.Location.Name != "",
		CoverPhoto:     e.CoverPhoto(),
		CategoryDetail: NewCategoryView(e.Category),
	}
	if !view.HasLocation {
		view.LocationLabel = NoLocationPlaceholder
	}
	return view
}

// NewWeatherView renders info, or the neutral state when info is nil.
func NewWeatherView(info *models.WeatherInfo) WeatherView {
	if info == nil {
		var absent models.WeatherCondition
		return WeatherView{Icon: absent.Icon(), Tone: absent.Tone()}
	}
	minTemp, maxTemp := info.TempMin, info.TempMax
	return WeatherView{
		Available: true,
		Condition: info.Condition,
		Icon:      info.Condition.Icon(),
		Tone:      info.Condition.Tone(),
		TempMin:   &minTemp,
		TempMax:   &maxTemp,
	}
}

// NewDayViewResponse assembles the day payload.
func NewDayViewResponse(date string, selected, inIndex bool, weather *models.WeatherInfo, events []models.ScheduleEvent) DayViewResponse {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, NewEventView(e))
	}
	return DayViewResponse{
		Date:       date,
		Selected:   selected,
		InIndex:    inIndex,
		Weather:    NewWeatherView(weather),
		EventCount: len(views),
		Events:     views,
	}
}
