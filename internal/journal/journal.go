// Package journal keeps a local SQLite record of each pipeline run and the
// per-identifier outcomes of retrieval passes, so past passes can be
// inspected without re-parsing logs.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarml/lamost-pipeline/internal/models"
)

type Journal struct {
	db *sql.DB
}

// Open connects to (or creates) the journal database and ensures its schema.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		component TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		notes TEXT
	);`
	outcomesTable := `
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		class_label TEXT NOT NULL,
		obsid TEXT NOT NULL,
		outcome TEXT NOT NULL,
		attempts INTEGER NOT NULL,
		checksum TEXT,
		bytes INTEGER,
		error_message TEXT,
		created_at DATETIME NOT NULL
	);`

	if _, err := db.Exec(runsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}
	if _, err := db.Exec(outcomesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create outcomes table: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// StartRun records a new run for the given component and returns its ID.
func (j *Journal) StartRun(component string) (string, error) {
	runID := uuid.NewString()
	_, err := j.db.Exec(`INSERT INTO runs (id, component, started_at) VALUES (?, ?, ?)`,
		runID, component, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return runID, nil
}

// FinishRun stamps the run's end time and attaches a free-form summary note.
func (j *Journal) FinishRun(runID, notes string) error {
	_, err := j.db.Exec(`UPDATE runs SET finished_at = ?, notes = ? WHERE id = ?`,
		time.Now().UTC(), notes, runID)
	return err
}

// RecordOutcome appends one identifier's terminal result for a run.
func (j *Journal) RecordOutcome(runID, classLabel, obsid string, rec models.OutcomeRecord) error {
	_, err := j.db.Exec(
		`INSERT INTO outcomes (run_id, class_label, obsid, outcome, attempts, checksum, bytes, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, classLabel, obsid, string(rec.Outcome), rec.Attempts, rec.Checksum, rec.Bytes, rec.ErrorMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record outcome for obsid %s: %w", obsid, err)
	}
	return nil
}

// FailedObsIDs returns the identifiers that ended in a failed outcome for
// one class of a run, in insertion order.
func (j *Journal) FailedObsIDs(runID, classLabel string) ([]string, error) {
	rows, err := j.db.Query(
		`SELECT obsid FROM outcomes WHERE run_id = ? AND class_label = ? AND outcome = ? ORDER BY id`,
		runID, classLabel, string(models.OutcomeFailed))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obsids []string
	for rows.Next() {
		var obsid string
		if err := rows.Scan(&obsid); err != nil {
			return nil, err
		}
		obsids = append(obsids, obsid)
	}
	return obsids, rows.Err()
}

// CountByOutcome tallies a run's outcomes per class.
func (j *Journal) CountByOutcome(runID, classLabel string) (map[models.Outcome]int, error) {
	rows, err := j.db.Query(
		`SELECT outcome, COUNT(*) FROM outcomes WHERE run_id = ? AND class_label = ? GROUP BY outcome`,
		runID, classLabel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[models.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}
