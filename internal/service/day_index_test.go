package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/kyoto-flow-api/pkg/errors"
)

func TestAppendNextDay(t *testing.T) {
	days := NewDayIndex("2024-11-15", "2024-11-16")

	next, added, err := days.AppendNextDay()

	require.NoError(t, err)
	assert.Equal(t, "2024-11-17", added)
	assert.Equal(t, []string{"2024-11-15", "2024-11-16", "2024-11-17"}, next.Dates())
	assert.Equal(t, []string{"2024-11-15", "2024-11-16"}, days.Dates())
}

func TestAppendNextDayCrossesMonthAndYear(t *testing.T) {
	cases := map[string]string{
		"2024-11-30": "2024-12-01",
		"2024-12-31": "2025-01-01",
		"2024-02-28": "2024-02-29",
		"2025-02-28": "2025-03-01",
	}
	for last, want := range cases {
		_, got, err := NewDayIndex(last).AppendNextDay()
		require.NoError(t, err)
		assert.Equal(t, want, got, last)
	}
}

func TestAppendNextDayOnEmptyIndex(t *testing.T) {
	days := NewDayIndex()

	next, _, err := days.AppendNextDay()

	assert.True(t, errors.Is(err, appErrors.ErrEmptyDayIndex))
	assert.Equal(t, 0, next.Len())
}

func TestAppendNextDayRejectsMalformedKey(t *testing.T) {
	_, _, err := NewDayIndex("Nov 15").AppendNextDay()

	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestDayIndexDeduplicatesAndKeepsOrder(t *testing.T) {
	days := NewDayIndex("2024-11-16", "2024-11-15", "2024-11-16")

	assert.Equal(t, []string{"2024-11-16", "2024-11-15"}, days.Dates())
	assert.True(t, days.Contains("2024-11-15"))
	assert.False(t, days.Contains("2024-11-17"))
	first, ok := days.First()
	assert.True(t, ok)
	assert.Equal(t, "2024-11-16", first)
}
