package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event actions recorded in the wipe history
const (
	ActionWipe   = "WIPE"    // File overwritten, renamed, and removed
	ActionRmdir  = "RMDIR"   // Directory renamed and removed
	ActionError  = "ERROR"   // Target failed; error_message holds the cause
	ActionDryRun = "DRY_RUN" // Dry-run mode, nothing touched
)

// WipeDB manages the SQLite database for wipe history
type WipeDB struct {
	db *sql.DB
}

// WipeEvent is one history row to be recorded
type WipeEvent struct {
	Action     string
	Path       string
	ObjectType string // "file" or "directory"
	Size       int64
	Rounds     int
	Passes     int
	Duration   time.Duration
	ErrorMsg   string
}

// WipeRecord is one history row read back from the database
type WipeRecord struct {
	ID         int64
	Timestamp  time.Time
	Action     string
	Path       string
	FileName   string
	ObjectType string
	Size       int64
	Rounds     int
	Passes     int
	DurationMs int64
	ErrorMsg   string
	CreatedAt  time.Time
}

// NewWipeDB creates a new database connection and initializes schema
func NewWipeDB(dbPath string) (*WipeDB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// file: prefix with _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// A plain query instead of Ping() so the file is created eagerly
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	// WAL keeps the history readable while a run is writing
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	wdb := &WipeDB{db: db}
	if err = wdb.initSchema(); err != nil {
		return nil, err
	}

	err = nil
	return wdb, nil
}

// initSchema creates tables and indexes if they don't exist
func (d *WipeDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS wipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		path TEXT NOT NULL,
		file_name TEXT,
		object_type TEXT NOT NULL,
		size INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		passes INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_timestamp ON wipes(timestamp);
	CREATE INDEX IF NOT EXISTS idx_action ON wipes(action);
	CREATE INDEX IF NOT EXISTS idx_path ON wipes(path);
	CREATE INDEX IF NOT EXISTS idx_size ON wipes(size);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordWipe inserts one wipe event into the history
func (d *WipeDB) RecordWipe(ev WipeEvent) error {
	query := `
	INSERT INTO wipes (
		timestamp, action, path, file_name, object_type, size,
		rounds, passes, duration_ms, error_message
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := d.db.Exec(
		query,
		time.Now(),
		ev.Action,
		ev.Path,
		filepath.Base(ev.Path),
		ev.ObjectType,
		ev.Size,
		ev.Rounds,
		ev.Passes,
		ev.Duration.Milliseconds(),
		ev.ErrorMsg,
	)

	return err
}

// Close closes the database connection
func (d *WipeDB) Close() error {
	return d.db.Close()
}
