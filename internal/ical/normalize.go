package ical

import (
	"fmt"
	"strconv"
	"strings"
)

// The feed's times are rendered in the dashboard's fixed UTC+1 offset.
const localOffset = "+01:00"

// NormalizeDateTime converts a feed-native date-time token into the canonical
// YYYY-MM-DDTHH:MM:SS+01:00 form.
//
// Two shapes are recognized:
//
//	20251201T080000 / 20251201T080000Z  — full date-time, positional fields
//	20251222                            — date-only (all-day event)
//
// A trailing Z means UTC; the hour is shifted forward one to land in the
// fixed offset, carrying into the day when it passes midnight. The carry
// stops at day-of-month: a rollover on the last day of a month produces an
// out-of-range day (e.g. Jan 32) rather than advancing the month. Kept
// as-is to match the identifiers already persisted by earlier syncs.
//
// Any other length is returned unchanged; malformed tokens are the feed's
// problem, not a reason to fail the sync.
func NormalizeDateTime(raw string) string {
	if len(raw) >= 15 {
		year := raw[0:4]
		month := raw[4:6]
		day := raw[6:8]
		hour := raw[9:11]
		minute := raw[11:13]
		second := raw[13:15]

		if strings.HasSuffix(raw, "Z") {
			h, err1 := strconv.Atoi(hour)
			d, err2 := strconv.Atoi(day)
			if err1 == nil && err2 == nil {
				h++
				if h >= 24 {
					h -= 24
					d++
				}
				hour = fmt.Sprintf("%02d", h)
				day = fmt.Sprintf("%02d", d)
			}
		}

		return fmt.Sprintf("%s-%s-%sT%s:%s:%s%s", year, month, day, hour, minute, second, localOffset)
	}

	if len(raw) == 8 {
		return fmt.Sprintf("%s-%s-%sT00:00:00%s", raw[0:4], raw[4:6], raw[6:8], localOffset)
	}

	return raw
}
