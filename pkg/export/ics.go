package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// CalendarEntry is one VEVENT. AllDay entries only use the date part of
// Start and End.
type CalendarEntry struct {
	UID         string
	Start       time.Time
	End         time.Time
	Summary     string
	Location    string
	Description string
	Categories  string
	AllDay      bool
}

// ICSExporter renders calendar entries as an iCalendar document.
type ICSExporter struct {
	ProductID string
	now       func() time.Time
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//kyoto-flow//itinerary//EN"
	}
	return &ICSExporter{ProductID: productID, now: time.Now}
}

// Render produces a PUBLISH calendar with one VEVENT per entry.
func (e *ICSExporter) Render(name string, entries []CalendarEntry) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.ProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for _, entry := range entries {
		if entry.UID == "" {
			return nil, fmt.Errorf("ics entry %q has no uid", entry.Summary)
		}
		if entry.End.Before(entry.Start) {
			return nil, fmt.Errorf("ics entry %s ends before it starts", entry.UID)
		}
		event := cal.AddEvent(entry.UID)
		event.SetDtStampTime(stamp)
		if entry.AllDay {
			event.SetAllDayStartAt(entry.Start)
			event.SetAllDayEndAt(entry.End)
		} else {
			event.SetStartAt(entry.Start)
			event.SetEndAt(entry.End)
		}
		event.SetSummary(entry.Summary)
		if entry.Location != "" {
			event.SetLocation(entry.Location)
		}
		if entry.Description != "" {
			event.SetDescription(entry.Description)
		}
		if entry.Categories != "" {
			event.AddCategory(entry.Categories)
		}
	}
	return []byte(cal.Serialize()), nil
}
