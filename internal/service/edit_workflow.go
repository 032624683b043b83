package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
)

// Defaults for a freshly created event.
const (
	DefaultEventTime     = "12:00"
	DefaultEventTitle    = "新行程"
	DefaultEventCategory = models.CategorySightseeing
)

// EditWorkflow tracks which event is open and whether it is being edited.
//
//	Closed  --Select-->    Viewing
//	Closed  --CreateNew--> Editing
//	Viewing --Edit-->      Editing
//	Viewing --Delete-->    Closed
//	Viewing --Close-->     Closed
//	Editing --Cancel-->    Viewing
//	Editing --Save-->      Closed (title must not be blank)
//
// Any other transition returns ErrInvalidTransition and changes nothing.
type EditWorkflow struct {
	mode    models.WorkflowMode
	current models.ScheduleEvent
	draft   models.EventPatch
	unsaved bool
}

// NewEditWorkflow returns a workflow in the Closed state.
func NewEditWorkflow() *EditWorkflow {
	return &EditWorkflow{mode: models.WorkflowClosed}
}

// Mode returns the current state.
func (w *EditWorkflow) Mode() models.WorkflowMode {
	return w.mode
}

// State returns a copy of the workflow for readers.
func (w *EditWorkflow) State() models.WorkflowState {
	state := models.WorkflowState{Mode: w.mode, Unsaved: w.unsaved}
	if w.mode == models.WorkflowClosed {
		return state
	}
	event := w.current.Clone()
	state.Event = &event
	if w.mode == models.WorkflowEditing {
		draft := models.PatchFromEvent(previewDraft(w.current, w.draft))
		state.Draft = &draft
	}
	return state
}

// Select opens an existing event for viewing.
func (w *EditWorkflow) Select(event models.ScheduleEvent) error {
	if err := w.require("select", models.WorkflowClosed); err != nil {
		return err
	}
	w.open(event, models.WorkflowViewing, false)
	return nil
}

// CreateNew synthesizes an event on date and goes straight to Editing.
func (w *EditWorkflow) CreateNew(id, date string) error {
	if err := w.require("create", models.WorkflowClosed); err != nil {
		return err
	}
	event := models.ScheduleEvent{
		ID:       id,
		Date:     date,
		Time:     DefaultEventTime,
		Title:    DefaultEventTitle,
		Category: DefaultEventCategory,
	}
	w.open(event, models.WorkflowEditing, true)
	return nil
}

// Edit starts editing the viewed event with a fresh draft.
func (w *EditWorkflow) Edit() error {
	if err := w.require("edit", models.WorkflowViewing); err != nil {
		return err
	}
	w.draft = models.PatchFromEvent(w.current)
	w.mode = models.WorkflowEditing
	return nil
}

// UpdateDraft overlays patch onto the draft. No validation happens here.
func (w *EditWorkflow) UpdateDraft(patch models.EventPatch) error {
	if err := w.require("update draft", models.WorkflowEditing); err != nil {
		return err
	}
	w.draft = w.draft.Overlay(patch)
	return nil
}

// Cancel discards the draft and returns to Viewing.
func (w *EditWorkflow) Cancel() error {
	if err := w.require("cancel", models.WorkflowEditing); err != nil {
		return err
	}
	w.draft = models.PatchFromEvent(w.current)
	w.mode = models.WorkflowViewing
	return nil
}

// Save merges the draft over the current event and upserts it into store.
// A blank title leaves both the workflow and the store untouched.
func (w *EditWorkflow) Save(store EventStore) (EventStore, models.ScheduleEvent, error) {
	if err := w.require("save", models.WorkflowEditing); err != nil {
		return store, models.ScheduleEvent{}, err
	}
	if w.draft.Title == nil || strings.TrimSpace(*w.draft.Title) == "" {
		return store, models.ScheduleEvent{}, appErrors.ErrTitleRequired
	}
	saved := MergeEvent(w.current, w.draft)
	next := store.Upsert(saved)
	w.reset()
	return next, saved, nil
}

// Delete removes the viewed event from store and closes the workflow.
func (w *EditWorkflow) Delete(store EventStore) (EventStore, string, error) {
	if err := w.require("delete", models.WorkflowViewing); err != nil {
		return store, "", err
	}
	id := w.current.ID
	next := store.Remove(id)
	w.reset()
	return next, id, nil
}

// Close leaves Viewing without changes.
func (w *EditWorkflow) Close() error {
	if err := w.require("close", models.WorkflowViewing); err != nil {
		return err
	}
	w.reset()
	return nil
}

func (w *EditWorkflow) open(event models.ScheduleEvent, mode models.WorkflowMode, unsaved bool) {
	w.current = event.Clone()
	w.draft = models.PatchFromEvent(event)
	w.mode = mode
	w.unsaved = unsaved
}

func (w *EditWorkflow) reset() {
	w.mode = models.WorkflowClosed
	w.current = models.ScheduleEvent{}
	w.draft = models.EventPatch{}
	w.unsaved = false
}

func (w *EditWorkflow) require(op string, mode models.WorkflowMode) error {
	if w.mode == mode {
		return nil
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot %s while %s", op, w.mode))
}

// previewDraft shows the draft as it would read if saved now, without
// the location fallback so that a cleared field stays visible while editing.
func previewDraft(current models.ScheduleEvent, draft models.EventPatch) models.ScheduleEvent {
	preview := MergeEvent(current, draft)
	if draft.LocationName != nil {
		preview.Location.Name = *draft.LocationName
	}
	return preview
}
