package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nbtree/nbtree/internal/migrations"
)

// timeLayout is the SQLite-friendly local time format used for storage.
const timeLayout = "2006-01-02 15:04:05"

// Entry is one recorded action invocation.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Action    string
	Chord     string
	Context   string
	Outcome   string
	Notebook  string
}

// ActionCount aggregates how often an action fired.
type ActionCount struct {
	Action string
	Count  int
}

// Manager stores action invocations in SQLite.
type Manager struct {
	db *sql.DB
}

// NewManager opens (creating if needed) the history database at dbPath and
// brings its schema up to date.
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
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Record appends an invocation. A zero Timestamp means now.
func (m *Manager) Record(e Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
		INSERT INTO invocations (timestamp, action, chord, context, outcome, notebook)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := m.db.Exec(query,
		ts.Local().Format(timeLayout),
		e.Action,
		e.Chord,
		e.Context,
		e.Outcome,
		e.Notebook,
	)
	if err != nil {
		return fmt.Errorf("failed to save invocation: %w", err)
	}
	return nil
}

// Recent returns the newest invocations, most recent first. A limit of 0
// returns everything.
func (m *Manager) Recent(limit int) ([]Entry, error) {
	query := `
		SELECT id, timestamp, action, chord, context, outcome, COALESCE(notebook, '')
		FROM invocations
		ORDER BY timestamp DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ForAction returns the newest invocations of one action.
func (m *Manager) ForAction(action string, limit int) ([]Entry, error) {
	query := `
		SELECT id, timestamp, action, chord, context, outcome, COALESCE(notebook, '')
		FROM invocations
		WHERE action = ?
		ORDER BY timestamp DESC, id DESC
	`
	args := []any{action}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for action: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// CountByAction aggregates invocation counts per action, busiest first.
func (m *Manager) CountByAction() ([]ActionCount, error) {
	rows, err := m.db.Query(`
		SELECT action, COUNT(*) AS n
		FROM invocations
		GROUP BY action
		ORDER BY n DESC, action ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate history: %w", err)
	}
	defer rows.Close()

	var counts []ActionCount
	for rows.Next() {
		var c ActionCount
		if err := rows.Scan(&c.Action, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan action count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry

	for rows.Next() {
		var e Entry
		var timestamp string

		if err := rows.Scan(&e.ID, &timestamp, &e.Action, &e.Chord, &e.Context, &e.Outcome, &e.Notebook); err != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", err)
		}

		parsed, err := time.ParseInLocation(timeLayout, timestamp, time.Local)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsed = time.Now()
			}
		}
		e.Timestamp = parsed

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Count returns the number of stored invocations.
func (m *Manager) Count() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM invocations").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Delete removes one invocation by id.
func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM invocations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invocation: %w", err)
	}
	return nil
}

// Clear removes all stored invocations.
func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM invocations")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
