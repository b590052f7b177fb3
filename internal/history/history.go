// Package history keeps a local log of past submissions in SQLite.
// Only request metadata is stored: the text body, the template and the
// API key never touch the database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one submission outcome.
type Entry struct {
	ID           int64
	Timestamp    time.Time
	Endpoint     string
	Provider     string // "" means heuristic
	SpeakerNotes bool
	Outcome      string // "succeeded" or "failed"
	Message      string // failure message, "" on success
	DurationMs   int64
	ArtifactSize int64
}

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	m := &Manager{db: db}
	if err := m.initSchema(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		endpoint TEXT NOT NULL,
		provider TEXT NOT NULL,
		speaker_notes INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		message TEXT,
		duration_ms INTEGER NOT NULL,
		artifact_size INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_timestamp ON submissions(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_submissions_outcome ON submissions(outcome);
	`

	if _, err := m.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Save records one submission outcome.
func (m *Manager) Save(e Entry) error {
	query := `
		INSERT INTO submissions (
			timestamp, endpoint, provider, speaker_notes,
			outcome, message, duration_ms, artifact_size
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	notes := 0
	if e.SpeakerNotes {
		notes = 1
	}

	_, err := m.db.Exec(query,
		ts.Local().Format("2006-01-02 15:04:05"),
		e.Endpoint,
		e.Provider,
		notes,
		e.Outcome,
		e.Message,
		e.DurationMs,
		e.ArtifactSize,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (m *Manager) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := m.db.Query(`
		SELECT id, timestamp, endpoint, provider, speaker_notes,
		       outcome, message, duration_ms, artifact_size
		FROM submissions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		var notes int
		if err := rows.Scan(&e.ID, &ts, &e.Endpoint, &e.Provider, &notes,
			&e.Outcome, &e.Message, &e.DurationMs, &e.ArtifactSize); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.SpeakerNotes = notes != 0
		e.Timestamp, _ = time.ParseInLocation("2006-01-02 15:04:05", ts, time.Local)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes all entries.
func (m *Manager) Clear() error {
	if _, err := m.db.Exec(`DELETE FROM submissions`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (m *Manager) Close() error {
	return m.db.Close()
}
