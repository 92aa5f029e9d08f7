package ical

import (
	"fmt"
	"strings"
	"time"

	"kioskcal/internal/store"
)

// Recurring events are materialized for today plus the next windowDays
// calendar days. Bounding the expansion keeps the events table sized to what
// the dashboard could plausibly show soon; the recurring sync rolls the
// window forward.
const windowDays = 30

var weekdayCodes = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// Expand produces one occurrence per day of [today, today+30] that matches
// the record's recurrence rule. Only FREQ=DAILY and FREQ=WEEKLY with a BYDAY
// list are understood; any other rule yields no occurrences. Each occurrence
// keeps the template's time-of-day (taken from its normalized start) and
// gets its own uid, so occurrences on different days never share completed
// marks.
func Expand(rec RawEvent, normalizedStart string, today time.Time) []store.Event {
	matches := ruleMatcher(rec.RRule)
	if matches == nil {
		return nil
	}

	timeOfDay := "00:00:00"
	if len(normalizedStart) >= 19 {
		timeOfDay = normalizedStart[11:19]
	}

	var events []store.Event
	for i := 0; i <= windowDays; i++ {
		day := today.AddDate(0, 0, i)
		if !matches(day.Weekday()) {
			continue
		}

		start := fmt.Sprintf("%04d-%02d-%02dT%s%s",
			day.Year(), day.Month(), day.Day(), timeOfDay, localOffset)

		events = append(events, store.Event{
			UID:         DeriveUID(rec.Summary, start),
			Summary:     rec.Summary,
			Start:       start,
			Location:    rec.Location,
			Description: rec.Description,
			IsRecurrent: true,
		})
	}

	return events
}

// ruleMatcher parses the raw RRULE token into a weekday predicate, or nil if
// the rule is outside the supported subset. UNTIL, COUNT and INTERVAL are
// not honored.
func ruleMatcher(rule string) func(time.Weekday) bool {
	parts := map[string]string{}
	for _, kv := range strings.Split(rule, ";") {
		if k, v, ok := strings.Cut(kv, "="); ok {
			parts[k] = v
		}
	}

	switch parts["FREQ"] {
	case "DAILY":
		return func(time.Weekday) bool { return true }
	case "WEEKLY":
		byDay := parts["BYDAY"]
		if byDay == "" {
			return nil
		}
		allowed := map[time.Weekday]bool{}
		for _, code := range strings.Split(byDay, ",") {
			wd, ok := weekdayCodes[strings.TrimSpace(code)]
			if !ok {
				continue
			}
			allowed[wd] = true
		}
		return func(wd time.Weekday) bool { return allowed[wd] }
	default:
		return nil
	}
}
