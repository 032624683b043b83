package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
)

func TestWorkflowStartsClosed(t *testing.T) {
	w := NewEditWorkflow()

	state := w.State()
	assert.Equal(t, models.WorkflowClosed, state.Mode)
	assert.Nil(t, state.Event)
	assert.Nil(t, state.Draft)
}

func TestWorkflowCreateNewSkipsViewing(t *testing.T) {
	w := NewEditWorkflow()

	require.NoError(t, w.CreateNew("1731650000000", "2024-11-16"))

	state := w.State()
	assert.Equal(t, models.WorkflowEditing, state.Mode)
	assert.True(t, state.Unsaved)
	require.NotNil(t, state.Draft)
	assert.Equal(t, "2024-11-16", *state.Draft.Date)
	assert.Equal(t, "12:00", *state.Draft.Time)
	assert.Equal(t, models.CategorySightseeing, *state.Draft.Category)
	assert.Equal(t, DefaultEventTitle, *state.Draft.Title)
	assert.Empty(t, *state.Draft.LocationName)
	assert.Empty(t, *state.Draft.Notes)
	assert.Empty(t, *state.Draft.ReservationNumber)
}

func TestWorkflowCreateNewThenSaveScenario(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "16:30", "A"))
	w := NewEditWorkflow()

	require.NoError(t, w.CreateNew("new-id", "2024-11-16"))
	require.NoError(t, w.UpdateDraft(models.EventPatch{Title: strPtr("B")}))
	next, saved, err := w.Save(store)

	require.NoError(t, err)
	assert.Equal(t, models.WorkflowClosed, w.Mode())
	assert.Equal(t, 2, next.Len())
	got, ok := next.Get("new-id")
	require.True(t, ok)
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, "2024-11-16", got.Date)
	assert.Equal(t, saved, got)
	assert.Equal(t, 1, store.Len())
}

func TestWorkflowSaveWithEmptyTitleIsRefused(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "16:30", "A"))
	w := NewEditWorkflow()
	require.NoError(t, w.Select(ev("1", "2024-11-15", "16:30", "A")))
	require.NoError(t, w.Edit())

	for _, title := range []string{"", "  "} {
		require.NoError(t, w.UpdateDraft(models.EventPatch{Title: strPtr(title), Time: strPtr("08:00")}))
		next, _, err := w.Save(store)

		assert.True(t, errors.Is(err, appErrors.ErrTitleRequired))
		assert.Equal(t, models.WorkflowEditing, w.Mode())
		assert.Equal(t, store.All(), next.All())
	}
	state := w.State()
	assert.Equal(t, "08:00", *state.Draft.Time, "draft survives a refused save")
}

func TestWorkflowSavePreservesPriorLocation(t *testing.T) {
	original := models.ScheduleEvent{ID: "2", Date: "2024-11-15", Time: "13:00", Title: "拉麵", Location: models.Location{Name: "Kyoto Station"}, Category: models.CategoryFood}
	store := NewEventStore(original)
	w := NewEditWorkflow()
	require.NoError(t, w.Select(original))
	require.NoError(t, w.Edit())
	require.NoError(t, w.UpdateDraft(models.EventPatch{LocationName: strPtr(""), Title: strPtr("拉麵小路")}))

	next, saved, err := w.Save(store)

	require.NoError(t, err)
	assert.Equal(t, "Kyoto Station", saved.Location.Name)
	got, _ := next.Get("2")
	assert.Equal(t, "拉麵小路", got.Title)
	assert.Equal(t, "Kyoto Station", got.Location.Name)
}

func TestWorkflowCancelDiscardsDraft(t *testing.T) {
	original := ev("1", "2024-11-15", "10:00", "A")
	w := NewEditWorkflow()
	require.NoError(t, w.Select(original))
	require.NoError(t, w.Edit())
	require.NoError(t, w.UpdateDraft(models.EventPatch{Title: strPtr("changed")}))

	require.NoError(t, w.Cancel())

	state := w.State()
	assert.Equal(t, models.WorkflowViewing, state.Mode)
	assert.Equal(t, "A", state.Event.Title)

	require.NoError(t, w.Edit())
	assert.Equal(t, "A", *w.State().Draft.Title)
}

func TestWorkflowDeleteRemovesAndCloses(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "10:00", "A"), ev("2", "2024-11-15", "11:00", "B"))
	w := NewEditWorkflow()
	require.NoError(t, w.Select(ev("1", "2024-11-15", "10:00", "A")))

	next, removed, err := w.Delete(store)

	require.NoError(t, err)
	assert.Equal(t, "1", removed)
	assert.Equal(t, []string{"2"}, ids(next.All()))
	assert.Equal(t, models.WorkflowClosed, w.Mode())
}

func TestWorkflowRejectsInvalidTransitions(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "10:00", "A"))
	event := ev("1", "2024-11-15", "10:00", "A")

	closed := NewEditWorkflow()
	assert.True(t, errors.Is(closed.Edit(), appErrors.ErrInvalidTransition))
	assert.True(t, errors.Is(closed.Cancel(), appErrors.ErrInvalidTransition))
	assert.True(t, errors.Is(closed.Close(), appErrors.ErrInvalidTransition))
	_, _, err := closed.Save(store)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
	_, _, err = closed.Delete(store)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	viewing := NewEditWorkflow()
	require.NoError(t, viewing.Select(event))
	assert.True(t, errors.Is(viewing.Select(event), appErrors.ErrInvalidTransition))
	assert.True(t, errors.Is(viewing.CreateNew("x", "2024-11-15"), appErrors.ErrInvalidTransition))
	assert.True(t, errors.Is(viewing.UpdateDraft(models.EventPatch{}), appErrors.ErrInvalidTransition))
	_, _, err = viewing.Save(store)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	editing := NewEditWorkflow()
	require.NoError(t, editing.Select(event))
	require.NoError(t, editing.Edit())
	assert.True(t, errors.Is(editing.Close(), appErrors.ErrInvalidTransition), "editing exits only via cancel or save")
	_, _, err = editing.Delete(store)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
	assert.Equal(t, models.WorkflowEditing, editing.Mode())
}

func TestWorkflowStateDoesNotAliasInternals(t *testing.T) {
	w := NewEditWorkflow()
	require.NoError(t, w.Select(models.ScheduleEvent{ID: "4", Title: "清水寺", Photos: []string{"a.jpg"}}))
	require.NoError(t, w.Edit())

	state := w.State()
	*state.Draft.Title = "mutated"
	state.Event.Photos[0] = "mutated.jpg"

	again := w.State()
	assert.Equal(t, "清水寺", *again.Draft.Title)
	assert.Equal(t, "a.jpg", again.Event.Photos[0])
}
