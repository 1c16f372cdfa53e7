package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add notebook column index",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_invocations_notebook ON invocations(notebook);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_invocations_notebook;
		`,
	},
	{
		Version: 2,
		Name:    "Add composite index for per-action history queries",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_invocations_action_timestamp ON invocations(action, timestamp DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_invocations_action_timestamp;
		`,
	},
}

// InitSchema creates the tables the history store needs. It must run before
// migrations so the migrations have tables to alter.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		chord TEXT NOT NULL,
		context TEXT NOT NULL,
		outcome TEXT NOT NULL,
		notebook TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_invocations_timestamp ON invocations(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_invocations_action ON invocations(action);
	CREATE INDEX IF NOT EXISTS idx_invocations_context ON invocations(context);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(db *sql.DB) error {
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		_, err := db.Exec(migration.Up)
		if err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		_, err = db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
