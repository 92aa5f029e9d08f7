package ical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDateTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "local date-time",
			raw:  "20251201T080000",
			want: "2025-12-01T08:00:00+01:00",
		},
		{
			name: "utc date-time shifts one hour",
			raw:  "20251201T080000Z",
			want: "2025-12-01T09:00:00+01:00",
		},
		{
			name: "utc rollover carries into next day",
			raw:  "20250101T235900Z",
			want: "2025-01-02T00:59:00+01:00",
		},
		{
			name: "date-only becomes all-day",
			raw:  "20251222",
			want: "2025-12-22T00:00:00+01:00",
		},
		{
			name: "unrecognized shape passes through",
			raw:  "tomorrow-ish",
			want: "tomorrow-ish",
		},
		{
			name: "empty passes through",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDateTime(tt.raw))
		})
	}
}
