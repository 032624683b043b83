package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/kyoto-flow-api/internal/dto"
	"github.com/noah-isme/kyoto-flow-api/internal/middleware"
	"github.com/noah-isme/kyoto-flow-api/internal/models"
	"github.com/noah-isme/kyoto-flow-api/internal/service"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
	"github.com/noah-isme/kyoto-flow-api/pkg/response"
)

type itineraryService interface {
	Overview() service.TripOverview
	SelectDate(req service.SelectDateRequest) (service.TripOverview, error)
	AppendNextDay() (string, service.TripOverview, error)
	DayView(ctx context.Context, date string) service.DayView
	ListEvents(date string) []models.ScheduleEvent
	Weather(ctx context.Context, date string) (models.WeatherInfo, bool)
	Workflow() models.WorkflowState
	SelectEvent(req service.SelectEventRequest) (models.WorkflowState, error)
	CreateEvent(req service.CreateEventRequest) (models.WorkflowState, error)
	EditEvent() (models.WorkflowState, error)
	UpdateDraft(req service.DraftRequest) (models.WorkflowState, error)
	CancelEdit() (models.WorkflowState, error)
	CloseEvent() (models.WorkflowState, error)
	SaveEvent() (models.ScheduleEvent, error)
	DeleteEvent() (string, error)
	Snapshot() models.TripSnapshot
	Title() string
}

type exportRenderer interface {
	Render(format service.ExportFormat, title string, snapshot models.TripSnapshot) (*service.ExportResult, error)
}

// ItineraryHandler wires the itinerary service to HTTP endpoints.
type ItineraryHandler struct {
	service  itineraryService
	exporter exportRenderer
}

// NewItineraryHandler constructs the handler.
func NewItineraryHandler(service itineraryService, exporter exportRenderer) *ItineraryHandler {
	return &ItineraryHandler{service: service, exporter: exporter}
}

// Days godoc
// @Summary List trip days
// @Tags Days
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /days [get]
func (h *ItineraryHandler) Days(c *gin.Context) {
	overview := h.service.Overview()
	h.ok(c, http.StatusOK, overview, overview.Version)
}

// AppendDay godoc
// @Summary Append the day after the last one
// @Tags Days
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /days [post]
func (h *ItineraryHandler) AppendDay(c *gin.Context) {
	date, overview, err := h.service.AppendNextDay()
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, http.StatusCreated, dto.AppendDayResponse{Date: date, Days: overview.Days, SelectedDate: overview.SelectedDate}, overview.Version)
}

// SelectDate godoc
// @Summary Select the displayed day
// @Tags Days
// @Accept json
// @Produce json
// @Param payload body service.SelectDateRequest true "Date key"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /days/selected [put]
func (h *ItineraryHandler) SelectDate(c *gin.Context) {
	var req service.SelectDateRequest
	if !bind(c, &req, false) {
		return
	}
	overview, err := h.service.SelectDate(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.ok(c, http.StatusOK, overview, overview.Version)
}

// Day godoc
// @Summary Day view with weather and events
// @Tags Days
// @Produce json
// @Param date path string true "Date key (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /days/{date} [get]
func (h *ItineraryHandler) Day(c *gin.Context) {
	view := h.service.DayView(c.Request.Context(), strings.TrimSpace(c.Param("date")))
	response.OK(c, dto.NewDayViewResponse(view.Date, view.Selected, view.InIndex, view.Weather, view.Events), middleware.ExtractMeta(c))
}

// Events godoc
// @Summary Events of a day ordered by time
// @Tags Events
// @Produce json
// @Param date query string false "Date key; defaults to the selected day"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *ItineraryHandler) Events(c *gin.Context) {
	events := h.service.ListEvents(strings.TrimSpace(c.Query("date")))
	views := make([]dto.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, dto.NewEventView(e))
	}
	middleware.Set(c, "count", len(views))
	response.OK(c, views, middleware.ExtractMeta(c))
}

// Weather godoc
// @Summary Weather for a day
// @Tags Weather
// @Produce json
// @Param date path string true "Date key (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /weather/{date} [get]
func (h *ItineraryHandler) Weather(c *gin.Context) {
	info, ok := h.service.Weather(c.Request.Context(), strings.TrimSpace(c.Param("date")))
	if !ok {
		response.OK(c, dto.NewWeatherView(nil), middleware.ExtractMeta(c))
		return
	}
	response.OK(c, dto.NewWeatherView(&info), middleware.ExtractMeta(c))
}

// Categories godoc
// @Summary Category presentation table
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *ItineraryHandler) Categories(c *gin.Context) {
	response.OK(c, dto.CategoryTable())
}

// Workflow godoc
// @Summary Current edit workflow state
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workflow [get]
func (h *ItineraryHandler) Workflow(c *gin.Context) {
	response.OK(c, h.service.Workflow(), middleware.ExtractMeta(c))
}

// SelectEvent godoc
// @Summary Open an event for viewing
// @Tags Workflow
// @Accept json
// @Produce json
// @Param payload body service.SelectEventRequest true "Event id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/select [post]
func (h *ItineraryHandler) SelectEvent(c *gin.Context) {
	var req service.SelectEventRequest
	if !bind(c, &req, false) {
		return
	}
	h.workflowResult(c)(h.service.SelectEvent(req))
}

// CreateEvent godoc
// @Summary Start a new event
// @Tags Workflow
// @Accept json
// @Produce json
// @Param payload body service.CreateEventRequest false "Date key; defaults to the selected day"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/new [post]
func (h *ItineraryHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if !bind(c, &req, true) {
		return
	}
	h.workflowResult(c)(h.service.CreateEvent(req))
}

// EditEvent godoc
// @Summary Edit the viewed event
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/edit [post]
func (h *ItineraryHandler) EditEvent(c *gin.Context) {
	h.workflowResult(c)(h.service.EditEvent())
}

// UpdateDraft godoc
// @Summary Update draft fields
// @Tags Workflow
// @Accept json
// @Produce json
// @Param payload body service.DraftRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/draft [patch]
func (h *ItineraryHandler) UpdateDraft(c *gin.Context) {
	var req service.DraftRequest
	if !bind(c, &req, false) {
		return
	}
	h.workflowResult(c)(h.service.UpdateDraft(req))
}

// CancelEdit godoc
// @Summary Discard the draft
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/cancel [post]
func (h *ItineraryHandler) CancelEdit(c *gin.Context) {
	h.workflowResult(c)(h.service.CancelEdit())
}

// CloseEvent godoc
// @Summary Close the viewed event
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/close [post]
func (h *ItineraryHandler) CloseEvent(c *gin.Context) {
	h.workflowResult(c)(h.service.CloseEvent())
}

// SaveEvent godoc
// @Summary Save the draft
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/save [post]
func (h *ItineraryHandler) SaveEvent(c *gin.Context) {
	saved, err := h.service.SaveEvent()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewEventView(saved), middleware.ExtractMeta(c))
}

// DeleteEvent godoc
// @Summary Delete the viewed event
// @Tags Workflow
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workflow/delete [post]
func (h *ItineraryHandler) DeleteEvent(c *gin.Context) {
	id, err := h.service.DeleteEvent()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DeleteEventResponse{ID: id}, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export the itinerary
// @Tags Export
// @Produce json
// @Produce text/calendar
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "ics, csv, pdf or json" default(json)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export [get]
func (h *ItineraryHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.Render(format, h.service.Title(), h.service.Snapshot())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

func (h *ItineraryHandler) ok(c *gin.Context, status int, data interface{}, version int64) {
	middleware.SetVersion(c, version)
	response.JSON(c, status, data, middleware.ExtractMeta(c))
}

func (h *ItineraryHandler) workflowResult(c *gin.Context) func(models.WorkflowState, error) {
	return func(state models.WorkflowState, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, state, middleware.ExtractMeta(c))
	}
}

// bind decodes a JSON body. optional allows an empty body.
func bind(c *gin.Context, dest interface{}, optional bool) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return false
	}
	return true
}
