package service

import (
	"time"

	"github.com/noah-isme/kyoto-flow-api/internal/models"
	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
)

// DayIndex is the ordered, duplicate-free list of selectable date keys.
// Order is display order and is never re-sorted.
type DayIndex struct {
	dates []string
}

// NewDayIndex keeps the first occurrence of each date key.
func NewDayIndex(dates ...string) DayIndex {
	seen := make(map[string]struct{}, len(dates))
	result := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		result = append(result, d)
	}
	return DayIndex{dates: result}
}

// AppendNextDay appends the calendar day after the last entry. The index
// must be non-empty and its last key must parse as YYYY-MM-DD.
func (d DayIndex) AppendNextDay() (DayIndex, string, error) {
	last, ok := d.Last()
	if !ok {
		return d, "", appErrors.ErrEmptyDayIndex
	}
	parsed, err := time.Parse(models.DateLayout, last)
	if err != nil {
		return d, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "last day is not a valid date key")
	}
	next := parsed.AddDate(0, 0, 1).Format(models.DateLayout)

	dates := make([]string, len(d.dates), len(d.dates)+1)
	copy(dates, d.dates)
	return NewDayIndex(append(dates, next)...), next, nil
}

// Contains reports whether date is part of the index.
func (d DayIndex) Contains(date string) bool {
	for _, existing := range d.dates {
		if existing == date {
			return true
		}
	}
	return false
}

// First returns the first date key.
func (d DayIndex) First() (string, bool) {
	if len(d.dates) == 0 {
		return "", false
	}
	return d.dates[0], true
}

// Last returns the last date key.
func (d DayIndex) Last() (string, bool) {
	if len(d.dates) == 0 {
		return "", false
	}
	return d.dates[len(d.dates)-1], true
}

// Dates returns a copy of the keys in display order.
func (d DayIndex) Dates() []string {
	result := make([]string, len(d.dates))
	copy(result, d.dates)
	return result
}

// Len returns the number of days.
func (d DayIndex) Len() int {
	return len(d.dates)
}
