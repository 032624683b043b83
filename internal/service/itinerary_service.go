package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	"github.com/noah-isme/kyoto-flow-api/internal/seed"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
)

// SnapshotDispatcher hands committed snapshots to persistence.
type SnapshotDispatcher interface {
	Enqueue(id string, payload models.TripSnapshot) error
}

// SelectDateRequest picks the displayed day.
type SelectDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// SelectEventRequest opens an existing event.
type SelectEventRequest struct {
	EventID string `json:"eventId" validate:"required"`
}

// CreateEventRequest starts a new event. An empty date uses the selected day.
type CreateEventRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// DraftRequest carries field edits for the open draft. Only the category is
// checked here; the title is checked on save.
type DraftRequest struct {
	models.EventPatch
	Category *models.Category `json:"category,omitempty" validate:"omitempty,oneof=sightseeing food transport accommodation shopping"`
}

// TripOverview summarises the day index.
type TripOverview struct {
	Title        string   `json:"title"`
	Destination  string   `json:"destination"`
	Days         []string `json:"days"`
	SelectedDate string   `json:"selectedDate"`
	Version      int64    `json:"version"`
}

// DayView is everything shown for one date key.
type DayView struct {
	Date     string
	Selected bool
	InIndex  bool
	Weather  *models.WeatherInfo
	Events   []models.ScheduleEvent
}

// ItineraryConfig carries static trip metadata.
type ItineraryConfig struct {
	TripID string
}

// ItineraryService owns the day index, event store, selected date and edit
// workflow. Every mutation happens under one lock and either fully applies
// or leaves the state untouched.
type ItineraryService struct {
	mu       sync.Mutex
	days     DayIndex
	events   EventStore
	selected string
	workflow *EditWorkflow
	version  int64

	title       string
	destination string
	cfg         ItineraryConfig

	weather    *WeatherService
	dispatcher SnapshotDispatcher
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger

	newID func() (string, error)
	now   func() time.Time
}

// NewItineraryService seeds the state from trip. dispatcher may be nil, in
// which case nothing is persisted.
func NewItineraryService(trip *seed.Trip, weather *WeatherService, dispatcher SnapshotDispatcher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ItineraryConfig) *ItineraryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if trip == nil {
		trip = &seed.Trip{}
	}
	svc := &ItineraryService{
		days:        NewDayIndex(trip.Days...),
		events:      NewEventStore(trip.Events...),
		workflow:    NewEditWorkflow(),
		title:       trip.Title,
		destination: trip.Destination,
		cfg:         cfg,
		weather:     weather,
		dispatcher:  dispatcher,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		newID:       newEventID,
		now:         time.Now,
	}
	svc.selected, _ = svc.days.First()
	svc.metrics.SetSizes(svc.days.Len(), svc.events.Len())
	return svc
}

func newEventID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Restore replaces the seeded state with a persisted snapshot.
func (s *ItineraryService) Restore(snapshot models.TripSnapshot) error {
	if len(snapshot.Days) == 0 {
		return appErrors.Clone(appErrors.ErrEmptyDayIndex, "snapshot has no days")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = NewDayIndex(snapshot.Days...)
	s.events = NewEventStore(snapshot.Events...)
	s.version = snapshot.Version
	s.workflow = NewEditWorkflow()
	if s.days.Contains(snapshot.SelectedDate) {
		s.selected = snapshot.SelectedDate
	} else {
		s.selected, _ = s.days.First()
	}
	s.metrics.SetSizes(s.days.Len(), s.events.Len())
	s.logger.Info("itinerary restored", zap.Int64("version", s.version), zap.Int("days", s.days.Len()), zap.Int("events", s.events.Len()))
	return nil
}

// Overview returns the day index and the selected date.
func (s *ItineraryService) Overview() TripOverview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overviewLocked()
}

// SelectDate changes the displayed day. The date must be part of the index.
func (s *ItineraryService) SelectDate(req SelectDateRequest) (TripOverview, error) {
	if err := s.validate(req, "invalid date selection"); err != nil {
		return TripOverview{}, err
	}

	s.mu.Lock()
	if !s.days.Contains(req.Date) {
		s.mu.Unlock()
		return TripOverview{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("day %s is not part of the trip", req.Date))
	}
	s.selected = req.Date
	snapshot := s.commitLocked("select_date")
	overview := s.overviewLocked()
	s.mu.Unlock()

	s.persist(snapshot)
	return overview, nil
}

// AppendNextDay adds the day after the last one and selects it.
func (s *ItineraryService) AppendNextDay() (string, TripOverview, error) {
	s.mu.Lock()
	next, date, err := s.days.AppendNextDay()
	if err != nil {
		s.mu.Unlock()
		s.reject("append_day", err)
		return "", TripOverview{}, err
	}
	s.days = next
	s.selected = date
	snapshot := s.commitLocked("append_day")
	overview := s.overviewLocked()
	s.mu.Unlock()

	s.logger.Info("day appended", zap.String("date", date))
	s.persist(snapshot)
	return date, overview, nil
}

// ListEvents returns the events on date ordered by time. An empty date
// means the selected day.
func (s *ItineraryService) ListEvents(date string) []models.ScheduleEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if date == "" {
		date = s.selected
	}
	return s.events.List(date)
}

// Weather returns the forecast for date, if any.
func (s *ItineraryService) Weather(ctx context.Context, date string) (models.WeatherInfo, bool) {
	return s.weather.Lookup(ctx, date)
}

// DayView assembles the events and weather for date. An empty date means
// the selected day. Unknown dates yield an empty view.
func (s *ItineraryService) DayView(ctx context.Context, date string) DayView {
	s.mu.Lock()
	if date == "" {
		date = s.selected
	}
	view := DayView{
		Date:     date,
		Selected: date == s.selected,
		InIndex:  s.days.Contains(date),
		Events:   s.events.List(date),
	}
	s.mu.Unlock()

	if info, ok := s.weather.Lookup(ctx, date); ok {
		view.Weather = &info
	}
	return view
}

// Workflow returns the current edit workflow state.
func (s *ItineraryService) Workflow() models.WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workflow.State()
}

// SelectEvent opens an existing event for viewing.
func (s *ItineraryService) SelectEvent(req SelectEventRequest) (models.WorkflowState, error) {
	if err := s.validate(req, "invalid event selection"); err != nil {
		return models.WorkflowState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events.Get(req.EventID)
	if !ok {
		return models.WorkflowState{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("event %s not found", req.EventID))
	}
	if err := s.workflow.Select(event); err != nil {
		s.reject("select", err)
		return models.WorkflowState{}, err
	}
	return s.workflow.State(), nil
}

// CreateEvent starts editing a new event with a fresh id.
func (s *ItineraryService) CreateEvent(req CreateEventRequest) (models.WorkflowState, error) {
	if err := s.validate(req, "invalid event payload"); err != nil {
		return models.WorkflowState{}, err
	}
	id, err := s.newID()
	if err != nil {
		return models.WorkflowState{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate event id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	date := req.Date
	if date == "" {
		date = s.selected
	}
	if err := s.workflow.CreateNew(id, date); err != nil {
		s.reject("create", err)
		return models.WorkflowState{}, err
	}
	return s.workflow.State(), nil
}

// EditEvent switches the viewed event into editing.
func (s *ItineraryService) EditEvent() (models.WorkflowState, error) {
	return s.transition("edit", (*EditWorkflow).Edit)
}

// UpdateDraft applies field edits to the draft.
func (s *ItineraryService) UpdateDraft(req DraftRequest) (models.WorkflowState, error) {
	if err := s.validate(req, "invalid draft payload"); err != nil {
		return models.WorkflowState{}, err
	}
	patch := req.EventPatch
	patch.Category = req.Category
	return s.transition("update_draft", func(w *EditWorkflow) error {
		return w.UpdateDraft(patch)
	})
}

// CancelEdit discards the draft.
func (s *ItineraryService) CancelEdit() (models.WorkflowState, error) {
	return s.transition("cancel", (*EditWorkflow).Cancel)
}

// CloseEvent leaves viewing without changes.
func (s *ItineraryService) CloseEvent() (models.WorkflowState, error) {
	return s.transition("close", (*EditWorkflow).Close)
}

// SaveEvent commits the draft into the store.
func (s *ItineraryService) SaveEvent() (models.ScheduleEvent, error) {
	s.mu.Lock()
	next, saved, err := s.workflow.Save(s.events)
	if err != nil {
		s.mu.Unlock()
		s.reject("save", err)
		return models.ScheduleEvent{}, err
	}
	s.events = next
	snapshot := s.commitLocked("save")
	s.mu.Unlock()

	s.logger.Info("event saved", zap.String("event_id", saved.ID), zap.String("date", saved.Date))
	s.persist(snapshot)
	return saved, nil
}

// DeleteEvent removes the viewed event.
func (s *ItineraryService) DeleteEvent() (string, error) {
	s.mu.Lock()
	next, id, err := s.workflow.Delete(s.events)
	if err != nil {
		s.mu.Unlock()
		s.reject("delete", err)
		return "", err
	}
	s.events = next
	snapshot := s.commitLocked("delete")
	s.mu.Unlock()

	s.logger.Info("event deleted", zap.String("event_id", id))
	s.persist(snapshot)
	return id, nil
}

// Snapshot returns the full current state.
func (s *ItineraryService) Snapshot() models.TripSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Title returns the trip title.
func (s *ItineraryService) Title() string {
	return s.title
}

func (s *ItineraryService) transition(op string, fn func(*EditWorkflow) error) (models.WorkflowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.workflow); err != nil {
		s.reject(op, err)
		return models.WorkflowState{}, err
	}
	return s.workflow.State(), nil
}

func (s *ItineraryService) validate(req interface{}, message string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

func (s *ItineraryService) reject(op string, err error) {
	var appErr *appErrors.Error
	reason := "unknown"
	if errors.As(err, &appErr) {
		reason = appErr.Code
	}
	s.metrics.RecordRejected(op, reason)
	s.logger.Debug("operation refused", zap.String("op", op), zap.String("reason", reason))
}

func (s *ItineraryService) commitLocked(op string) models.TripSnapshot {
	s.version++
	s.metrics.RecordMutation(op, s.days.Len(), s.events.Len())
	return s.snapshotLocked()
}

func (s *ItineraryService) snapshotLocked() models.TripSnapshot {
	return models.TripSnapshot{
		TripID:       s.cfg.TripID,
		Version:      s.version,
		Days:         s.days.Dates(),
		SelectedDate: s.selected,
		Events:       s.events.All(),
		SavedAt:      s.now().UTC(),
	}
}

func (s *ItineraryService) overviewLocked() TripOverview {
	return TripOverview{
		Title:        s.title,
		Destination:  s.destination,
		Days:         s.days.Dates(),
		SelectedDate: s.selected,
		Version:      s.version,
	}
}

func (s *ItineraryService) persist(snapshot models.TripSnapshot) {
	if s.dispatcher == nil {
		return
	}
	id := fmt.Sprintf("%s@%d", snapshot.TripID, snapshot.Version)
	if err := s.dispatcher.Enqueue(id, snapshot); err != nil {
		s.logger.Warn("failed to enqueue snapshot", zap.String("job_id", id), zap.Error(err))
	}
}
