package ical

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDailyFillsWindow(t *testing.T) {
	rec := RawEvent{
		Summary:     "Morning walk",
		IsRecurrent: true,
		RRule:       "FREQ=DAILY",
	}
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	events := Expand(rec, "2025-01-01T07:30:00+01:00", today)
	require.Len(t, events, 31)

	assert.Equal(t, "2025-01-01T07:30:00+01:00", events[0].Start)
	assert.Equal(t, "2025-01-31T07:30:00+01:00", events[30].Start)
	for _, ev := range events {
		assert.Equal(t, "07:30:00", ev.Start[11:19])
		assert.True(t, ev.IsRecurrent)
	}
}

func TestExpandWeeklyByDay(t *testing.T) {
	rec := RawEvent{
		Summary:     "Gym",
		IsRecurrent: true,
		RRule:       "FREQ=WEEKLY;BYDAY=MO,WE",
	}
	// 2025-01-01 is a Wednesday.
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	events := Expand(rec, "2025-01-01T18:00:00+01:00", today)

	wanted := 0
	for i := 0; i <= 30; i++ {
		wd := today.AddDate(0, 0, i).Weekday()
		if wd == time.Monday || wd == time.Wednesday {
			wanted++
		}
	}
	require.Len(t, events, wanted)

	for _, ev := range events {
		day, err := time.Parse("2006-01-02", ev.Start[:10])
		require.NoError(t, err)
		assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday}, day.Weekday())
	}
}

func TestExpandPerOccurrenceUIDs(t *testing.T) {
	rec := RawEvent{
		Summary:     "Standup",
		IsRecurrent: true,
		RRule:       "FREQ=DAILY",
	}
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	events := Expand(rec, "2025-06-01T09:00:00+01:00", today)
	require.NotEmpty(t, events)

	seen := map[string]bool{}
	for _, ev := range events {
		assert.False(t, seen[ev.UID], "duplicate uid %s", ev.UID)
		seen[ev.UID] = true
		assert.Equal(t, DeriveUID("Standup", ev.Start), ev.UID)
	}
}

func TestExpandUnsupportedRules(t *testing.T) {
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []string{
		"FREQ=MONTHLY",
		"FREQ=YEARLY;BYMONTH=1",
		"FREQ=WEEKLY",
		"INTERVAL=2",
		"",
		"garbage",
	}

	for _, rule := range tests {
		t.Run(fmt.Sprintf("rule %q", rule), func(t *testing.T) {
			rec := RawEvent{Summary: "X", IsRecurrent: true, RRule: rule}
			assert.Empty(t, Expand(rec, "2025-01-01T09:00:00+01:00", today))
		})
	}
}

func TestExpandDefaultsTimeOfDay(t *testing.T) {
	rec := RawEvent{
		Summary:     "All day-ish",
		IsRecurrent: true,
		RRule:       "FREQ=DAILY",
	}
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// A start too short to carry a time-of-day falls back to midnight.
	events := Expand(rec, "oops", today)
	require.NotEmpty(t, events)
	assert.Equal(t, "2025-01-01T00:00:00+01:00", events[0].Start)
}
