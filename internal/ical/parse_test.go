package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(lines ...string) string {
	return strings.Join(lines, "\r\n")
}

func TestParseRecordsExtractsFields(t *testing.T) {
	raw := feed(
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Team lunch",
		"DTSTART;TZID=Europe/Paris:20251201T120000",
		"DTEND;TZID=Europe/Paris:20251201T130000",
		"LOCATION:Cafeteria",
		"DESCRIPTION:Bring appetite",
		"UID:abc123@calendar",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	records := ParseRecords(raw)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Team lunch", rec.Summary)
	assert.Equal(t, "20251201T120000", rec.Start)
	assert.Equal(t, "20251201T130000", rec.End)
	assert.Equal(t, "Cafeteria", rec.Location)
	assert.Equal(t, "Bring appetite", rec.Description)
	assert.Equal(t, "abc123@calendar", rec.UID)
	assert.False(t, rec.IsRecurrent)
}

func TestParseRecordsDropsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "missing start",
			raw: feed(
				"BEGIN:VEVENT",
				"SUMMARY:No start",
				"LOCATION:Nowhere",
				"END:VEVENT",
			),
		},
		{
			name: "missing summary",
			raw: feed(
				"BEGIN:VEVENT",
				"DTSTART:20251201T120000",
				"END:VEVENT",
			),
		},
		{
			name: "unterminated record at end of input",
			raw: feed(
				"BEGIN:VEVENT",
				"SUMMARY:Never closed",
				"DTSTART:20251201T120000",
			),
		},
		{
			name: "fields outside any record",
			raw: feed(
				"SUMMARY:Orphan",
				"DTSTART:20251201T120000",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseRecords(tt.raw))
		})
	}
}

func TestParseRecordsRecurrenceFlag(t *testing.T) {
	raw := feed(
		"BEGIN:VEVENT",
		"SUMMARY:Weekly sync",
		"DTSTART:20251201T090000",
		"RRULE:FREQ=WEEKLY;BYDAY=MO",
		"END:VEVENT",
	)

	records := ParseRecords(raw)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsRecurrent)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", records[0].RRule)
}

func TestParseRecordsBareNewlines(t *testing.T) {
	raw := "BEGIN:VEVENT\nSUMMARY:Unix feed\nDTSTART:20251201T120000\nEND:VEVENT\n"

	records := ParseRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "Unix feed", records[0].Summary)
}

func TestParseRecordsValueAfterFirstColon(t *testing.T) {
	raw := feed(
		"BEGIN:VEVENT",
		"SUMMARY:Call: follow-up",
		"DTSTART:20251201T120000",
		"END:VEVENT",
	)

	records := ParseRecords(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "Call: follow-up", records[0].Summary)
}

func TestParseFeedSingularEvent(t *testing.T) {
	raw := feed(
		"BEGIN:VEVENT",
		"SUMMARY:Dentist",
		"DTSTART:20251201T080000Z",
		"END:VEVENT",
	)
	today := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	events := ParseFeed(raw, today)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "2025-12-01T09:00:00+01:00", ev.Start)
	assert.Equal(t, DeriveUID("Dentist", ev.Start), ev.UID)
	assert.False(t, ev.IsRecurrent)
}

func TestParseFeedMixedRecords(t *testing.T) {
	raw := feed(
		"BEGIN:VEVENT",
		"SUMMARY:Daily standup",
		"DTSTART:20251201T090000",
		"RRULE:FREQ=DAILY",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:One-off",
		"DTSTART:20251205T140000",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"SUMMARY:Broken",
		"END:VEVENT",
	)
	today := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	events := ParseFeed(raw, today)
	// 31 daily occurrences plus the singular event; the broken record is gone.
	assert.Len(t, events, 32)
}
