package service

import (
	"sort"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
)

// EventStore is an immutable collection of itinerary events. Mutating
// operations return a new store and never touch the receiver.
type EventStore struct {
	events []models.ScheduleEvent
}

// NewEventStore builds a store from events. A repeated id replaces the
// earlier entry in place.
func NewEventStore(events ...models.ScheduleEvent) EventStore {
	store := EventStore{}
	for _, e := range events {
		store = store.Upsert(e)
	}
	return store
}

// List returns the events on date ordered by time. Equal times keep
// insertion order.
func (s EventStore) List(date string) []models.ScheduleEvent {
	result := make([]models.ScheduleEvent, 0)
	for _, e := range s.events {
		if e.Date == date {
			result = append(result, e.Clone())
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time < result[j].Time
	})
	return result
}

// Upsert replaces the event with the same id or appends it.
func (s EventStore) Upsert(event models.ScheduleEvent) EventStore {
	next := make([]models.ScheduleEvent, 0, len(s.events)+1)
	replaced := false
	for _, e := range s.events {
		if e.ID == event.ID {
			next = append(next, event.Clone())
			replaced = true
			continue
		}
		next = append(next, e)
	}
	if !replaced {
		next = append(next, event.Clone())
	}
	return EventStore{events: next}
}

// Remove drops the event with id. Unknown ids are a no-op.
func (s EventStore) Remove(id string) EventStore {
	next := make([]models.ScheduleEvent, 0, len(s.events))
	for _, e := range s.events {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return EventStore{events: next}
}

// Get returns a copy of the event with id.
func (s EventStore) Get(id string) (models.ScheduleEvent, bool) {
	for _, e := range s.events {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return models.ScheduleEvent{}, false
}

// All returns copies of every event in insertion order.
func (s EventStore) All() []models.ScheduleEvent {
	result := make([]models.ScheduleEvent, len(s.events))
	for i, e := range s.events {
		result[i] = e.Clone()
	}
	return result
}

// Len returns the number of events.
func (s EventStore) Len() int {
	return len(s.events)
}
