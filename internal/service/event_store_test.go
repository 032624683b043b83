package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

func ev(id, date, at, title string) models.ScheduleEvent {
	return models.ScheduleEvent{ID: id, Date: date, Time: at, Title: title, Category: models.CategorySightseeing}
}

func ids(events []models.ScheduleEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestEventStoreListSortsByTimeAndFiltersByDate(t *testing.T) {
	store := NewEventStore(
		ev("4", "2024-11-15", "16:30", "清水寺夕陽"),
		ev("1", "2024-11-15", "10:00", "抵達關西機場"),
		ev("5", "2024-11-16", "09:00", "伏見稻荷大社"),
		ev("3", "2024-11-15", "15:00", "Check-in"),
	)

	assert.Equal(t, []string{"1", "3", "4"}, ids(store.List("2024-11-15")))
	assert.Equal(t, []string{"5"}, ids(store.List("2024-11-16")))
}

func TestEventStoreListIsStableForEqualTimes(t *testing.T) {
	store := NewEventStore(
		ev("b", "2024-11-15", "12:00", "B"),
		ev("a", "2024-11-15", "12:00", "A"),
		ev("c", "2024-11-15", "09:00", "C"),
		ev("d", "2024-11-15", "12:00", "D"),
	)

	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(store.List("2024-11-15")))
}

func TestEventStoreListUnknownDateIsEmpty(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "16:30", "A"))

	events := store.List("2024-11-17")

	require.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventStoreUpsertReplacesOrAppends(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "10:00", "A"))

	updated := store.Upsert(ev("1", "2024-11-15", "11:00", "A2"))
	appended := updated.Upsert(ev("2", "2024-11-15", "12:00", "B"))

	assert.Equal(t, 1, store.Len())
	got, _ := store.Get("1")
	assert.Equal(t, "A", got.Title, "receiver must not change")
	assert.Equal(t, 1, updated.Len())
	got, _ = updated.Get("1")
	assert.Equal(t, "A2", got.Title)
	assert.Equal(t, []string{"1", "2"}, ids(appended.All()))
}

func TestEventStoreUpsertIsIdempotent(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "10:00", "A"))
	e := ev("2", "2024-11-15", "12:00", "B")

	once := store.Upsert(e)
	twice := once.Upsert(e)

	assert.Equal(t, once.All(), twice.All())
}

func TestEventStoreRemoveTwiceIsNoop(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "10:00", "A"), ev("2", "2024-11-15", "11:00", "B"))

	first := store.Remove("1")
	second := first.Remove("1")

	assert.Equal(t, []string{"2"}, ids(first.All()))
	assert.Equal(t, first.All(), second.All())
	assert.Equal(t, 2, store.Len())
}

func TestEventStoreIDsStayUnique(t *testing.T) {
	store := NewEventStore(ev("1", "2024-11-15", "10:00", "A"), ev("1", "2024-11-16", "10:00", "dup"))
	ops := []func(EventStore) EventStore{
		func(s EventStore) EventStore { return s.Upsert(ev("2", "2024-11-15", "09:00", "B")) },
		func(s EventStore) EventStore { return s.Upsert(ev("1", "2024-11-15", "08:00", "A2")) },
		func(s EventStore) EventStore { return s.Remove("2") },
		func(s EventStore) EventStore { return s.Upsert(ev("2", "2024-11-16", "09:00", "B2")) },
		func(s EventStore) EventStore { return s.Upsert(ev("2", "2024-11-16", "09:00", "B3")) },
	}
	for _, op := range ops {
		store = op(store)
		seen := map[string]bool{}
		for _, e := range store.All() {
			require.False(t, seen[e.ID], "duplicate id %s", e.ID)
			seen[e.ID] = true
		}
	}
	assert.Equal(t, 2, store.Len())
}

func TestEventStoreReturnsCopies(t *testing.T) {
	store := NewEventStore(models.ScheduleEvent{ID: "4", Date: "2024-11-15", Time: "16:30", Photos: []string{"cover.jpg"}})

	listed := store.List("2024-11-15")
	listed[0].Photos[0] = "mutated.jpg"
	listed[0].Title = "mutated"

	got, ok := store.Get("4")
	require.True(t, ok)
	assert.Equal(t, "cover.jpg", got.Photos[0])
	assert.Empty(t, got.Title)
}
