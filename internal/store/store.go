package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	// Event table, owned by the sync service. DeleteAllEvents followed by
	// InsertEvents is the full-replacement contract of a sync run.
	DeleteAllEvents(ctx context.Context) error
	InsertEvents(ctx context.Context, events []Event) error
	ListEventsStartingWith(ctx context.Context, datePrefix string) ([]Event, error)

	// Completed marks, owned by the dashboard UI. Never touched by sync.
	GetCompletedIDs(ctx context.Context, date string) ([]string, error)
	SetCompleted(ctx context.Context, eventID, date string) error
	ClearCompleted(ctx context.Context, eventID, date string) error

	GetWelcomeMessage(ctx context.Context, day, slot string) (string, error)
	ListWelcomeMessages(ctx context.Context) ([]WelcomeMessage, error)
	ReplaceWelcomeMessages(ctx context.Context, messages []WelcomeMessage) error

	ListColorRules(ctx context.Context) ([]ColorRule, error)
	ReplaceColorRules(ctx context.Context, rules []ColorRule) error

	GetTheme(ctx context.Context) (*Theme, error)
	SaveTheme(ctx context.Context, theme *Theme) error

	Close() error
}

// supported DSN formats:
//
//	Local sqlite: "file:./calendar.db" or ":memory:"
//	TursoDB: "libsql://[db-name]-[org].turso.io?authToken=..."
//
// NOTE: all formats are handled by the libsql driver which supports both local and remote.
func NewStore(dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "file:"), strings.HasPrefix(dsn, ":memory:"), strings.HasPrefix(dsn, "libsql://"):
		return NewSQLStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN: %s (expected file:, :memory:, or libsql://)", dsn)
	}
}
