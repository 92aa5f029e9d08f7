// Package calsync replaces the persisted events table with the current
// contents of the remote iCalendar feed: fetch, parse, expand recurrences,
// delete-all, bulk-insert. It owns the events table exclusively and never
// touches completed marks, which survive the replacement through the
// deterministic uids derived during parsing.
package calsync

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"kioskcal/internal/ical"
	"kioskcal/internal/store"
)

// SyncError wraps a failed sync step. Fetch and persistence failures come
// through here; malformed feed content never does.
type SyncError struct {
	Step string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Step, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves the raw feed text for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// EventWriter is the slice of the store the sync service needs.
type EventWriter interface {
	DeleteAllEvents(ctx context.Context) error
	InsertEvents(ctx context.Context, events []store.Event) error
}

type Service struct {
	feedHost   string
	calendarID string
	apiKey     string
	fetcher    Fetcher
	store      EventWriter

	// Serializes overlapping triggers (startup, schedule, on-demand) so the
	// delete-then-insert replacement is never interleaved.
	mu sync.Mutex

	now func() time.Time
}

func New(feedHost, calendarID, apiKey string, fetcher Fetcher, st EventWriter) *Service {
	return &Service{
		feedHost:   feedHost,
		calendarID: calendarID,
		apiKey:     apiKey,
		fetcher:    fetcher,
		store:      st,
		now:        time.Now,
	}
}

// FeedURL is the public iCal endpoint for the configured calendar.
func (s *Service) FeedURL() string {
	return fmt.Sprintf("%s/%s/public/basic.ics", s.feedHost, s.calendarID)
}

// Sync replaces the events table with the feed's current occurrences and
// returns how many were inserted. An unconfigured deployment (missing
// calendar ID or API key) is a no-op returning 0, not an error. Runs to
// completion once started; a failure between delete and insert leaves the
// table empty until the next successful run.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if s.calendarID == "" || s.apiKey == "" {
		log.Printf("sync skipped: CALENDAR_ID or GOOGLE_API_KEY not configured")
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.fetcher.Fetch(ctx, s.FeedURL())
	if err != nil {
		return 0, &SyncError{Step: "fetch", Err: err}
	}

	today := midnight(s.now())
	events := ical.ParseFeed(raw, today)

	if err := s.store.DeleteAllEvents(ctx); err != nil {
		return 0, &SyncError{Step: "delete", Err: err}
	}
	if err := s.store.InsertEvents(ctx, events); err != nil {
		return 0, &SyncError{Step: "insert", Err: err}
	}

	return len(events), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
