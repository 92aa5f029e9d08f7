package ical

import (
	"regexp"
	"strings"
	"time"

	"kioskcal/internal/store"
)

const (
	beginEvent = "BEGIN:VEVENT"
	endEvent   = "END:VEVENT"
)

// RawEvent is one VEVENT as read off the feed, before normalization and
// recurrence expansion. Start and End hold the feed-native tokens.
type RawEvent struct {
	Summary     string
	Start       string
	End         string
	Location    string
	Description string
	UID         string
	IsRecurrent bool
	RRule       string
}

var lineSplit = regexp.MustCompile(`\r?\n`)

// ParseRecords scans the raw feed text line by line and returns the VEVENT
// records that carry at least a summary and a start. Records missing either
// are dropped silently, as is a record left open at end of input. Field
// lines have the form NAME[;params]:value; everything after the first colon
// is the value, whatever parameters sit before it.
func ParseRecords(raw string) []RawEvent {
	var records []RawEvent
	var current *RawEvent

	for _, line := range lineSplit.Split(raw, -1) {
		line = strings.TrimSpace(line)

		switch {
		case line == beginEvent:
			current = &RawEvent{}
		case line == endEvent && current != nil:
			if current.Summary != "" && current.Start != "" {
				records = append(records, *current)
			}
			current = nil
		case current != nil:
			parseField(current, line)
		}
	}

	return records
}

func parseField(ev *RawEvent, line string) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return
	}
	value := line[colon+1:]

	name := line[:colon]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}

	switch name {
	case "SUMMARY":
		ev.Summary = value
	case "DTSTART":
		ev.Start = value
	case "DTEND":
		ev.End = value
	case "LOCATION":
		ev.Location = value
	case "DESCRIPTION":
		ev.Description = value
	case "UID":
		if ev.UID == "" {
			ev.UID = value
		}
	case "RRULE":
		if !ev.IsRecurrent {
			ev.IsRecurrent = true
			ev.RRule = value
		}
	}
}

// ParseFeed turns a raw feed into the occurrences to persist. Singular
// records become one event with a uid derived from (summary, start);
// recurring records are expanded into one occurrence per matching day of
// the forward window anchored at today.
func ParseFeed(raw string, today time.Time) []store.Event {
	records := ParseRecords(raw)

	events := make([]store.Event, 0, len(records))
	for _, rec := range records {
		start := NormalizeDateTime(rec.Start)

		if rec.IsRecurrent {
			events = append(events, Expand(rec, start, today)...)
			continue
		}

		events = append(events, store.Event{
			UID:         DeriveUID(rec.Summary, start),
			Summary:     rec.Summary,
			Start:       start,
			Location:    rec.Location,
			Description: rec.Description,
			IsRecurrent: false,
		})
	}

	return events
}
