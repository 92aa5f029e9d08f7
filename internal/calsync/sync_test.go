package calsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskcal/internal/ical"
	"kioskcal/internal/store"
)

type fakeFetcher struct {
	body    string
	err     error
	calls   int
	lastURL string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls++
	f.lastURL = url
	return f.body, f.err
}

// fakeStore keeps events and completed marks in memory, mimicking the two
// tables of the real store.
type fakeStore struct {
	events    []store.Event
	completed map[[2]string]bool

	deleteErr error
	insertErr error
	deletes   int
	inserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{completed: map[[2]string]bool{}}
}

func (s *fakeStore) DeleteAllEvents(context.Context) error {
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.events = nil
	return nil
}

func (s *fakeStore) InsertEvents(_ context.Context, events []store.Event) error {
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	s.events = append(s.events, events...)
	return nil
}

func (s *fakeStore) markCompleted(eventID, date string) {
	s.completed[[2]string{eventID, date}] = true
}

const sampleFeed = "BEGIN:VEVENT\r\n" +
	"SUMMARY:Dentist\r\n" +
	"DTSTART:20250601T100000\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"SUMMARY:Standup\r\n" +
	"DTSTART:20250601T090000\r\n" +
	"RRULE:FREQ=DAILY\r\n" +
	"END:VEVENT\r\n"

func newTestService(fetcher *fakeFetcher, st *fakeStore) *Service {
	svc := New("https://calendar.example.com/ical", "team@group.calendar", "key123", fetcher, st)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 15, 4, 5, 0, time.UTC)
	}
	return svc
}

func TestSyncReplacesEvents(t *testing.T) {
	fetcher := &fakeFetcher{body: sampleFeed}
	st := newFakeStore()
	st.events = []store.Event{{UID: "evt_stale", Summary: "Old"}}

	svc := newTestService(fetcher, st)

	count, err := svc.Sync(context.Background())
	require.NoError(t, err)

	// One singular event plus 31 daily occurrences.
	assert.Equal(t, 32, count)
	assert.Len(t, st.events, 32)
	assert.Equal(t, 1, st.deletes)
	assert.Equal(t, 1, st.inserts)
	assert.Equal(t, "https://calendar.example.com/ical/team@group.calendar/public/basic.ics", fetcher.lastURL)
}

func TestSyncNoOpWithoutConfig(t *testing.T) {
	tests := []struct {
		name       string
		calendarID string
		apiKey     string
	}{
		{name: "missing calendar id", calendarID: "", apiKey: "key"},
		{name: "missing api key", calendarID: "cal", apiKey: ""},
		{name: "missing both", calendarID: "", apiKey: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{body: sampleFeed}
			st := newFakeStore()
			svc := New("https://calendar.example.com/ical", tt.calendarID, tt.apiKey, fetcher, st)

			count, err := svc.Sync(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
			assert.Zero(t, fetcher.calls)
			assert.Zero(t, st.deletes)
			assert.Zero(t, st.inserts)
		})
	}
}

func TestSyncFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	st := newFakeStore()
	svc := newTestService(fetcher, st)

	_, err := svc.Sync(context.Background())
	require.Error(t, err)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "fetch", syncErr.Step)
	// The table must not be cleared when the fetch already failed.
	assert.Zero(t, st.deletes)
}

func TestSyncPersistenceFailure(t *testing.T) {
	fetcher := &fakeFetcher{body: sampleFeed}
	st := newFakeStore()
	st.insertErr = errors.New("disk full")
	svc := newTestService(fetcher, st)

	_, err := svc.Sync(context.Background())

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "insert", syncErr.Step)
}

func TestSyncPreservesCompletedMarks(t *testing.T) {
	fetcher := &fakeFetcher{body: sampleFeed}
	st := newFakeStore()
	svc := newTestService(fetcher, st)

	count, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Positive(t, count)

	// Mark the singular event done for today, then sync again.
	uid := ical.DeriveUID("Dentist", "2025-06-01T10:00:00+01:00")
	st.markCompleted(uid, "2025-06-01")

	_, err = svc.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, st.completed[[2]string{uid, "2025-06-01"}],
		"completed mark must survive the full table replacement")

	// The re-synced event carries the same derived uid, so the mark still joins.
	found := false
	for _, ev := range st.events {
		if ev.UID == uid {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSyncSerializesConcurrentCalls(t *testing.T) {
	fetcher := &fakeFetcher{body: sampleFeed}
	st := newFakeStore()
	svc := newTestService(fetcher, st)

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := svc.Sync(context.Background())
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	// Each run fully replaces the table; interleaving would leave more.
	assert.Len(t, st.events, 32)
}
