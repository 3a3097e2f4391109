// Package history persists run reports to a local SQLite database so
// repeated smoke runs against a deployment can be compared over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/homeshare-india/smokecheck/packages/smoke"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	base_url TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL,
	tests_run INTEGER NOT NULL,
	tests_passed INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(id),
	seq INTEGER NOT NULL,
	name TEXT NOT NULL,
	method TEXT NOT NULL,
	endpoint TEXT NOT NULL,
	expected_status INTEGER NOT NULL,
	actual_status TEXT NOT NULL,
	success INTEGER NOT NULL,
	preview TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Store is a run-history store backed by SQLite.
type Store struct {
	db           *sql.DB
	writeTimeout time.Duration
}

// Open opens (and if needed initializes) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{
		db:           db,
		writeTimeout: 10 * time.Second,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReport appends one run and its case results.
func (s *Store) SaveReport(report *smoke.Report) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, base_url, started_at, duration_ms, tests_run, tests_passed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID, report.BaseURL, report.StartedAt,
		report.Duration.Milliseconds(), report.TestsRun, report.TestsPassed)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, r := range report.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (run_id, seq, name, method, endpoint, expected_status, actual_status, success, preview, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, r.Name, r.Method, r.Endpoint,
			r.ExpectedStatus, r.StatusLabel(), r.Success, r.Preview,
			r.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("failed to insert result %q: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// RunSummary is a stored run row.
type RunSummary struct {
	ID          string
	BaseURL     string
	StartedAt   time.Time
	DurationMs  int64
	TestsRun    int
	TestsPassed int
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*RunSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, base_url, started_at, duration_ms, tests_run, tests_passed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunSummary
	for rows.Next() {
		run := &RunSummary{}
		if err := rows.Scan(&run.ID, &run.BaseURL, &run.StartedAt,
			&run.DurationMs, &run.TestsRun, &run.TestsPassed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}
