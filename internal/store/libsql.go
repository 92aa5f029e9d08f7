package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

type SQLStore struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL,
		summary TEXT NOT NULL,
		start TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		is_recurrent INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS completed_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		event_date TEXT NOT NULL,
		completed_at TEXT DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(event_id, event_date)
	)`,
	`CREATE TABLE IF NOT EXISTS welcome_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day TEXT NOT NULL,
		slot TEXT NOT NULL,
		message TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event_color_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword TEXT NOT NULL,
		color TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS config (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		primaryColor TEXT,
		secondaryColor TEXT,
		fontFamily TEXT,
		eventBgColor TEXT,
		eventTextColor TEXT
	)`,
}

// Local sqlite: "file:./calendar.db" or ":memory:"
// TursoDB: "libsql://[db-name]-[org].turso.io?authToken=..."
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// returns the database connection for migrations and tests
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// --- Event operations ---

func (s *SQLStore) DeleteAllEvents(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}

func (s *SQLStore) InsertEvents(ctx context.Context, events []Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert events: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (uid, summary, start, location, description, is_recurrent)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert events: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err := stmt.ExecContext(ctx,
			ev.UID,
			ev.Summary,
			ev.Start,
			ev.Location,
			ev.Description,
			boolToInt(ev.IsRecurrent),
		)
		if err != nil {
			return fmt.Errorf("insert event %q: %w", ev.UID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert events: %w", err)
	}
	return nil
}

func (s *SQLStore) ListEventsStartingWith(ctx context.Context, datePrefix string) ([]Event, error) {
	query := `
		SELECT id, uid, summary, start, location, description, is_recurrent
		FROM events WHERE start LIKE ? ORDER BY is_recurrent ASC, start ASC
	`
	rows, err := s.db.QueryContext(ctx, query, datePrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var recurrent int
		err := rows.Scan(
			&ev.ID,
			&ev.UID,
			&ev.Summary,
			&ev.Start,
			&ev.Location,
			&ev.Description,
			&recurrent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.IsRecurrent = recurrent == 1
		events = append(events, ev)
	}
	return events, rows.Err()
}

// --- Completed mark operations ---

func (s *SQLStore) GetCompletedIDs(ctx context.Context, date string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id FROM completed_events WHERE event_date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("query completed events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completed event: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) SetCompleted(ctx context.Context, eventID, date string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO completed_events (event_id, event_date) VALUES (?, ?)`,
		eventID, date)
	if err != nil {
		return fmt.Errorf("insert completed event: %w", err)
	}
	return nil
}

func (s *SQLStore) ClearCompleted(ctx context.Context, eventID, date string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM completed_events WHERE event_id = ? AND event_date = ?`,
		eventID, date)
	if err != nil {
		return fmt.Errorf("delete completed event: %w", err)
	}
	return nil
}

// --- Welcome message operations ---

func (s *SQLStore) GetWelcomeMessage(ctx context.Context, day, slot string) (string, error) {
	var message string
	err := s.db.QueryRowContext(ctx,
		`SELECT message FROM welcome_messages WHERE day = ? AND slot = ?`,
		day, slot).Scan(&message)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query welcome message: %w", err)
	}
	return message, nil
}

func (s *SQLStore) ListWelcomeMessages(ctx context.Context) ([]WelcomeMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, slot, message FROM welcome_messages`)
	if err != nil {
		return nil, fmt.Errorf("query welcome messages: %w", err)
	}
	defer rows.Close()

	var messages []WelcomeMessage
	for rows.Next() {
		var m WelcomeMessage
		if err := rows.Scan(&m.Day, &m.Slot, &m.Message); err != nil {
			return nil, fmt.Errorf("scan welcome message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *SQLStore) ReplaceWelcomeMessages(ctx context.Context, messages []WelcomeMessage) error {
	return s.replaceAll(ctx, "welcome_messages",
		`INSERT INTO welcome_messages (day, slot, message) VALUES (?, ?, ?)`,
		len(messages),
		func(i int) []any {
			return []any{messages[i].Day, messages[i].Slot, messages[i].Message}
		})
}

// --- Color rule operations ---

func (s *SQLStore) ListColorRules(ctx context.Context) ([]ColorRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT keyword, color, description FROM event_color_rules ORDER BY keyword`)
	if err != nil {
		return nil, fmt.Errorf("query color rules: %w", err)
	}
	defer rows.Close()

	var rules []ColorRule
	for rows.Next() {
		var r ColorRule
		if err := rows.Scan(&r.Keyword, &r.Color, &r.Description); err != nil {
			return nil, fmt.Errorf("scan color rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *SQLStore) ReplaceColorRules(ctx context.Context, rules []ColorRule) error {
	return s.replaceAll(ctx, "event_color_rules",
		`INSERT INTO event_color_rules (keyword, color, description) VALUES (?, ?, ?)`,
		len(rules),
		func(i int) []any {
			return []any{rules[i].Keyword, rules[i].Color, rules[i].Description}
		})
}

// --- Theme operations ---

func (s *SQLStore) GetTheme(ctx context.Context) (*Theme, error) {
	query := `
		SELECT primaryColor, secondaryColor, fontFamily, eventBgColor, eventTextColor
		FROM config ORDER BY id DESC LIMIT 1
	`
	var t Theme
	err := s.db.QueryRowContext(ctx, query).Scan(
		&t.PrimaryColor,
		&t.SecondaryColor,
		&t.FontFamily,
		&t.EventBgColor,
		&t.EventTextColor,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan theme: %w", err)
	}
	return &t, nil
}

func (s *SQLStore) SaveTheme(ctx context.Context, theme *Theme) error {
	query := `
		INSERT INTO config (primaryColor, secondaryColor, fontFamily, eventBgColor, eventTextColor)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		theme.PrimaryColor,
		theme.SecondaryColor,
		theme.FontFamily,
		theme.EventBgColor,
		theme.EventTextColor,
	)
	if err != nil {
		return fmt.Errorf("insert theme: %w", err)
	}
	return nil
}

// replaceAll swaps a table's full contents inside one transaction so readers
// never observe the emptied table.
func (s *SQLStore) replaceAll(ctx context.Context, table, insertSQL string, n int, args func(int) []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace %s: %w", table, err)
	}
	return nil
}

// boolToInt converts a boolean to SQLite integer (0 or 1).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
