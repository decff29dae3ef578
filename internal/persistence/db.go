// Package persistence provides SQLite-based storage of runs: one row
// per run plus the full per-tick aggregate time series the reporting
// collaborator consumes.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/gridsweep/internal/config"
	"github.com/talgya/gridsweep/internal/engine"
)

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		outcome TEXT NOT NULL DEFAULT 'running',
		config_json TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		agents INTEGER NOT NULL,
		initial_dirty INTEGER NOT NULL DEFAULT 0,
		cleaned INTEGER NOT NULL DEFAULT 0,
		ticks INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS ticks (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		clean_percent REAL NOT NULL,
		explored_percent REAL NOT NULL,
		avg_battery REAL NOT NULL,
		movements INTEGER NOT NULL,
		cleans INTEGER NOT NULL,
		charges INTEGER NOT NULL,
		stranded INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ticks_run ON ticks(run_id);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run is one simulation run's metadata row.
type Run struct {
	ID           string  `db:"id" json:"id"`
	StartedAt    string  `db:"started_at" json:"started_at"`
	FinishedAt   *string `db:"finished_at" json:"finished_at,omitempty"`
	Outcome      string  `db:"outcome" json:"outcome"`
	ConfigJSON   string  `db:"config_json" json:"-"`
	Seed         int64   `db:"seed" json:"seed"`
	Width        int     `db:"width" json:"width"`
	Height       int     `db:"height" json:"height"`
	Agents       int     `db:"agents" json:"agents"`
	InitialDirty int     `db:"initial_dirty" json:"initial_dirty"`
	Cleaned      int     `db:"cleaned" json:"cleaned"`
	Ticks        uint64  `db:"ticks" json:"ticks"`
}

// CreateRun inserts a new run row and returns its ID.
func (db *DB) CreateRun(cfg config.Config, initialDirty int) (string, error) {
	id := uuid.NewString()
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	_, err = db.conn.Exec(`INSERT INTO runs
		(id, started_at, config_json, seed, width, height, agents, initial_dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), string(cfgJSON),
		cfg.Seed, cfg.Width, cfg.Height, cfg.Agents, initialDirty,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	slog.Info("run created", "run_id", id)
	return id, nil
}

// SaveTicks appends per-tick stats rows for a run. Already-saved rows
// are skipped by primary key, so periodic checkpoints can re-send a
// window safely.
func (db *DB) SaveTicks(runID string, series []engine.TickStats) error {
	if len(series) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO ticks
		(run_id, tick, clean_percent, explored_percent, avg_battery,
		 movements, cleans, charges, stranded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range series {
		_, err := stmt.Exec(
			runID, t.Tick, t.CleanPercent, t.ExploredPercent, t.AvgBattery,
			t.Movements, t.Cleans, t.Charges, t.Stranded,
		)
		if err != nil {
			return fmt.Errorf("insert tick %d: %w", t.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveEvents appends events for a run.
func (db *DB) SaveEvents(runID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, description, category) VALUES (?, ?, ?, ?)",
			runID, e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FinishRun records the outcome and final counters on the run row.
func (db *DB) FinishRun(runID string, sum engine.Summary) error {
	_, err := db.conn.Exec(`UPDATE runs
		SET finished_at = ?, outcome = ?, cleaned = ?, ticks = ?
		WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), sum.Outcome, sum.Cleaned, sum.Ticks, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	slog.Info("run saved", "run_id", runID, "outcome", sum.Outcome, "ticks", sum.Ticks)
	return nil
}

// GetRun loads a run row by ID.
func (db *DB) GetRun(runID string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", runID)
	return r, err
}

// LatestRun returns the most recently started run.
func (db *DB) LatestRun() (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT * FROM runs ORDER BY started_at DESC, id DESC LIMIT 1")
	return r, err
}

// LoadSeries returns a run's full per-tick time series in tick order.
func (db *DB) LoadSeries(runID string) ([]engine.TickStats, error) {
	var series []engine.TickStats
	err := db.conn.Select(&series,
		`SELECT tick, clean_percent, explored_percent, avg_battery,
		        movements, cleans, charges, stranded
		 FROM ticks WHERE run_id = ? ORDER BY tick`,
		runID,
	)
	return series, err
}

// LoadEvents returns a run's events in tick order.
func (db *DB) LoadEvents(runID string) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events WHERE run_id = ? ORDER BY tick, id",
		runID,
	)
	return events, err
}
