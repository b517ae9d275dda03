// Package journal records control interaction events to a local SQLite
// database. Every click wasted on an evasive button, every dodge, every
// abandoned confirm walk lands here, so `grudge stats` can show the user
// what the controls cost them. Writes are best-effort: callers log
// failures and move on, the UI never blocks on the journal.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wilbur182/grudge/internal/config"
	_ "modernc.org/sqlite"
)

// Event kinds recorded per todo control.
const (
	EventClick    = "click"
	EventEscape   = "escape"
	EventConfirm  = "confirm"
	EventCancel   = "cancel"
	EventComplete = "complete"
)

// Journal is an append-mostly event log backed by SQLite.
type Journal struct {
	db   *sql.DB
	path string
}

// Stats aggregates the full event history.
type Stats struct {
	Clicks                 int64
	Escapes                int64
	Confirms               int64
	Cancels                int64
	Completions            int64
	AvgClicksPerCompletion float64
}

// DefaultPath returns the standard journal location.
func DefaultPath() string {
	return filepath.Join(config.StateDir(), "journal.db")
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	j := &Journal{db: db, path: path}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// initSchema creates tables if they don't exist.
func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS control_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		todo_id TEXT NOT NULL,
		event TEXT NOT NULL,
		detail INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_control_events_todo ON control_events(todo_id);
	CREATE INDEX IF NOT EXISTS idx_control_events_event ON control_events(event);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends one event. detail carries the event's number: the click
// count for clicks and completions, the escape magnitude for escapes, the
// dialog stage for confirms and cancels.
func (j *Journal) Record(todoID, event string, detail int) error {
	_, err := j.db.Exec(
		`INSERT INTO control_events (todo_id, event, detail) VALUES (?, ?, ?)`,
		todoID, event, detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", event, err)
	}
	return nil
}

// Stats computes aggregate counts across the whole history.
func (j *Journal) Stats() (Stats, error) {
	var s Stats

	rows, err := j.db.Query(`SELECT event, COUNT(*) FROM control_events GROUP BY event`)
	if err != nil {
		return s, fmt.Errorf("failed to query event counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event string
		var count int64
		if err := rows.Scan(&event, &count); err != nil {
			return s, fmt.Errorf("failed to scan event count: %w", err)
		}
		switch event {
		case EventClick:
			s.Clicks = count
		case EventEscape:
			s.Escapes = count
		case EventConfirm:
			s.Confirms = count
		case EventCancel:
			s.Cancels = count
		case EventComplete:
			s.Completions = count
		}
	}
	if err := rows.Err(); err != nil {
		return s, fmt.Errorf("failed to read event counts: %w", err)
	}

	if s.Completions > 0 {
		row := j.db.QueryRow(
			`SELECT AVG(detail) FROM control_events WHERE event = ?`, EventComplete,
		)
		if err := row.Scan(&s.AvgClicksPerCompletion); err != nil {
			return s, fmt.Errorf("failed to compute click average: %w", err)
		}
	}
	return s, nil
}

// EventsForTodo returns how many events of each kind one todo has racked up.
func (j *Journal) EventsForTodo(todoID string) (map[string]int64, error) {
	rows, err := j.db.Query(
		`SELECT event, COUNT(*) FROM control_events WHERE todo_id = ? GROUP BY event`,
		todoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query todo events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var event string
		var count int64
		if err := rows.Scan(&event, &count); err != nil {
			return nil, fmt.Errorf("failed to scan todo event: %w", err)
		}
		counts[event] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read todo events: %w", err)
	}
	return counts, nil
}

// Prune deletes events for todos no longer in keep. Called after a todo is
// deleted so the journal doesn't grow forever.
func (j *Journal) Prune(keep []string) error {
	if len(keep) == 0 {
		if _, err := j.db.Exec(`DELETE FROM control_events`); err != nil {
			return fmt.Errorf("failed to prune journal: %w", err)
		}
		return nil
	}

	args := make([]any, len(keep))
	placeholders := ""
	for i, id := range keep {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args[i] = id
	}
	query := `DELETE FROM control_events WHERE todo_id NOT IN (` + placeholders + `)`
	if _, err := j.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to prune journal: %w", err)
	}
	return nil
}
