package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
	"github.com/noah-isme/kyoto-flow-api/pkg/export"
)

// ExportFormat names an output format.
type ExportFormat string

const (
	ExportICS  ExportFormat = "ics"
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportJSON ExportFormat = "json"
)

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	PDFFontPath   string
	Location      *time.Location
	EventDuration time.Duration
}

// ExportResult is a rendered document.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(title string, sections []export.Section) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, entries []export.CalendarEntry) ([]byte, error)
}

// ExportService renders a trip snapshot into downloadable documents.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	ics    icsRenderer
	cfg    ExportConfig
	logger *zap.Logger
}

// NewExportService constructs an ExportService with the default renderers.
func NewExportService(cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.EventDuration <= 0 {
		cfg.EventDuration = time.Hour
	}
	return &ExportService{
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(cfg.PDFFontPath),
		ics:    export.NewICSExporter(""),
		cfg:    cfg,
		logger: logger,
	}
}

// ParseExportFormat normalises a format name.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	switch format {
	case "":
		return ExportJSON, nil
	case ExportICS, ExportCSV, ExportPDF, ExportJSON:
		return format, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
}

type exportDay struct {
	Date    string                 `json:"date"`
	Events  []models.ScheduleEvent `json:"events"`
	Weather *models.WeatherInfo    `json:"weather,omitempty"`
}

type exportDocument struct {
	TripID  string      `json:"tripId"`
	Title   string      `json:"title"`
	Version int64       `json:"version"`
	Days    []exportDay `json:"days"`
}

// Render produces the document for snapshot. Only days in the index are
// exported, each with its events ordered by time.
func (s *ExportService) Render(format ExportFormat, title string, snapshot models.TripSnapshot) (*ExportResult, error) {
	days := groupByDay(snapshot)
	base := snapshot.TripID
	if base == "" {
		base = "itinerary"
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case ExportICS:
		body, err = s.ics.Render(title, s.calendarEntries(days))
		contentType = "text/calendar; charset=utf-8"
	case ExportCSV:
		body, err = s.csv.Render(tabulate(days, csvHeaders))
		contentType = "text/csv; charset=utf-8"
	case ExportPDF:
		body, err = s.pdf.Render(title, sections(days))
		contentType = "application/pdf"
	case ExportJSON:
		body, err = json.MarshalIndent(exportDocument{TripID: snapshot.TripID, Title: title, Version: snapshot.Version, Days: days}, "", "  ")
		contentType = "application/json; charset=utf-8"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("%s.%s", base, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func groupByDay(snapshot models.TripSnapshot) []exportDay {
	store := NewEventStore(snapshot.Events...)
	days := make([]exportDay, 0, len(snapshot.Days))
	for _, date := range NewDayIndex(snapshot.Days...).Dates() {
		days = append(days, exportDay{Date: date, Events: store.List(date)})
	}
	return days
}

var (
	csvHeaders = []string{"date", "time", "title", "location", "category", "notes", "reservation", "photo"}
	pdfHeaders = []string{"time", "title", "location", "category", "reservation"}
)

func tabulate(days []exportDay, headers []string) export.Dataset {
	data := export.Dataset{Headers: headers}
	for _, day := range days {
		for _, e := range day.Events {
			data.Rows = append(data.Rows, map[string]string{
				"date":        e.Date,
				"time":        e.Time,
				"title":       e.Title,
				"location":    e.Location.Name,
				"category":    e.Category.Label(),
				"notes":       e.Notes,
				"reservation": e.ReservationNumber,
				"photo":       e.CoverPhoto(),
			})
		}
	}
	return data
}

func sections(days []exportDay) []export.Section {
	result := make([]export.Section, 0, len(days))
	for _, day := range days {
		result = append(result, export.Section{Heading: day.Date, Data: tabulate([]exportDay{day}, pdfHeaders)})
	}
	return result
}

func (s *ExportService) calendarEntries(days []exportDay) []export.CalendarEntry {
	var entries []export.CalendarEntry
	for _, day := range days {
		for _, e := range day.Events {
			entry := export.CalendarEntry{
				UID:         e.ID + "@kyoto-flow",
				Summary:     e.Title,
				Location:    e.Location.Name,
				Description: describe(e),
				Categories:  e.Category.Label(),
			}
			start, err := time.ParseInLocation(models.DateLayout+" 15:04", e.Date+" "+e.Time, s.cfg.Location)
			if err == nil {
				entry.Start = start
				entry.End = start.Add(s.cfg.EventDuration)
			} else {
				date, dateErr := time.ParseInLocation(models.DateLayout, e.Date, s.cfg.Location)
				if dateErr != nil {
					s.logger.Warn("skipping event with unusable date", zap.String("event_id", e.ID), zap.String("date", e.Date))
					continue
				}
				entry.AllDay = true
				entry.Start = date
				entry.End = date.AddDate(0, 0, 1)
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

func describe(e models.ScheduleEvent) string {
	parts := make([]string, 0, 2)
	if e.Notes != "" {
		parts = append(parts, e.Notes)
	}
	if e.ReservationNumber != "" {
		parts = append(parts, "Reservation: "+e.ReservationNumber)
	}
	return strings.Join(parts, "\n")
}
