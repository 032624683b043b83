package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
)

func exportSnapshot() models.TripSnapshot {
	return models.TripSnapshot{
		TripID:  "kyoto-flow",
		Version: 2,
		Days:    []string{"2024-11-15", "2024-11-16"},
		Events: []models.ScheduleEvent{
			{ID: "2", Date: "2024-11-15", Time: "13:00", Title: "拉麵", Category: models.CategoryFood, Location: models.Location{Name: "Kyoto Station"}},
			{ID: "1", Date: "2024-11-15", Time: "10:00", Title: "KIX", Category: models.CategoryTransport, ReservationNumber: "RES-1"},
			{ID: "9", Date: "2024-12-01", Time: "10:00", Title: "outside", Category: models.CategoryFood},
			{ID: "5", Date: "2024-11-16", Time: "later", Title: "no time", Category: models.CategorySightseeing},
		},
	}
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat(" ICS ")
	require.NoError(t, err)
	assert.Equal(t, ExportICS, format)

	format, err = ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportJSON, format)

	_, err = ParseExportFormat("xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestExportCSVOrdersByDayAndTime(t *testing.T) {
	svc := NewExportService(ExportConfig{}, nil)

	result, err := svc.Render(ExportCSV, "Trip", exportSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "kyoto-flow.csv", result.Filename)

	records, err := csv.NewReader(bytes.NewReader(result.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus the three events inside the day index")
	assert.Equal(t, "KIX", records[1][2])
	assert.Equal(t, "交通", records[1][4])
	assert.Equal(t, "RES-1", records[1][6])
	assert.Equal(t, "拉麵", records[2][2])
	assert.Equal(t, "2024-11-16", records[3][0])
}

func TestExportICS(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	svc := NewExportService(ExportConfig{Location: jst}, nil)

	result, err := svc.Render(ExportICS, "Trip", exportSnapshot())
	require.NoError(t, err)
	assert.Contains(t, result.ContentType, "text/calendar")

	cal, err := ical.ParseCalendar(strings.NewReader(string(result.Body)))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "1@kyoto-flow", events[0].Id())

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 11, 15, 10, 0, 0, 0, jst)))
	end, err := events[0].GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, end.Sub(start))
	assert.Contains(t, events[0].GetProperty(ical.ComponentPropertyDescription).Value, "RES-1")
}

func TestExportJSONAndPDF(t *testing.T) {
	svc := NewExportService(ExportConfig{}, nil)

	result, err := svc.Render(ExportJSON, "Trip", exportSnapshot())
	require.NoError(t, err)
	var doc exportDocument
	require.NoError(t, json.Unmarshal(result.Body, &doc))
	require.Len(t, doc.Days, 2)
	assert.Equal(t, []string{"1", "2"}, ids(doc.Days[0].Events))

	result, err = svc.Render(ExportPDF, "Trip", exportSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Body, []byte("%PDF")))

	_, err = svc.Render(ExportFormat("xml"), "Trip", exportSnapshot())
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
