// Package storage provides SQLite-based archival of completed simulation
// runs. The engine never touches it; only callers that opt in (such as
// the sweep command) persist reports here.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/archfinn-io/archfinn/results"
)

// Store handles SQLite database operations for run archival.
type Store struct {
	db *sql.DB
}

// Run summarizes an archived run.
type Run struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Seed      int64     `json:"seed"`
	Outcome   string    `json:"outcome"`
	FinalTick int       `json:"final_tick"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a Store backed by the database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		final_tick INTEGER NOT NULL,
		report TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveReport archives a completed run report.
func (s *Store) SaveReport(r *results.Report) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO runs (id, scenario, seed, outcome, final_tick, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Scenario, r.Seed, r.Outcome, r.FinalTick, string(doc),
		r.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns archived run summaries, most recent first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, scenario, seed, outcome, final_tick, created_at
		 FROM runs ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Seed, &r.Outcome, &r.FinalTick, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetReport retrieves the full archived report for a run.
func (s *Store) GetReport(id string) (*results.Report, error) {
	var doc string
	err := s.db.QueryRow(`SELECT report FROM runs WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	var report results.Report
	if err := json.Unmarshal([]byte(doc), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
