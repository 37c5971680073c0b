// Package recorder persists simulation runs to SQLite so they can be
// inspected after the fact. A run is a row of metadata plus one sample
// row per tick with aggregate activity.
package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// schema is the recorder's table layout.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    topology TEXT NOT NULL,   -- e.g. 'grid 8x8', 'line 16'
    neurons INTEGER NOT NULL,
    synapses INTEGER NOT NULL,
    ticks INTEGER DEFAULT 0,
    total_spikes INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tick_samples (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    tick INTEGER NOT NULL,
    spikes INTEGER NOT NULL,
    armed INTEGER NOT NULL,   -- synapses armed at end of tick
    mean_v REAL NOT NULL,
    max_v REAL NOT NULL,
    PRIMARY KEY (run_id, tick)
);
`

// Run is a recorded simulation run.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Topology    string
	Neurons     int
	Synapses    int
	Ticks       int
	TotalSpikes int
}

// TickSample is one tick's aggregate activity.
type TickSample struct {
	Tick   int
	Spikes int
	Armed  int
	MeanV  float64
	MaxV   float64
}

// Recorder writes runs and tick samples to a SQLite database.
type Recorder struct {
	db *sql.DB
}

// Open creates a Recorder backed by the database at path, creating the
// file and schema as needed.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open recorder database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize recorder schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Begin registers a new run and returns its ID.
func (r *Recorder) Begin(ctx context.Context, topology string, neurons, synapses int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, topology, neurons, synapses) VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), topology, neurons, synapses)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordTick stores one tick's aggregate sample for a run.
func (r *Recorder) RecordTick(ctx context.Context, runID string, s TickSample) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tick_samples (run_id, tick, spikes, armed, mean_v, max_v) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, s.Tick, s.Spikes, s.Armed, s.MeanV, s.MaxV)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", s.Tick, err)
	}
	return nil
}

// Finish marks a run complete and stores its final totals.
func (r *Recorder) Finish(ctx context.Context, runID string, ticks, totalSpikes int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, ticks = ?, total_spikes = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), ticks, totalSpikes, runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns all recorded runs, most recent first.
func (r *Recorder) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, topology, neurons, synapses, ticks, total_spikes
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &started, &finished, &run.Topology,
			&run.Neurons, &run.Synapses, &run.Ticks, &run.TotalSpikes); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			run.StartedAt = t
		}
		if finished.Valid {
			if t, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
				run.FinishedAt = &t
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Samples returns the tick samples of a run in tick order.
func (r *Recorder) Samples(ctx context.Context, runID string) ([]TickSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tick, spikes, armed, mean_v, max_v FROM tick_samples WHERE run_id = ? ORDER BY tick`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("samples for %s: %w", runID, err)
	}
	defer rows.Close()

	var samples []TickSample
	for rows.Next() {
		var s TickSample
		if err := rows.Scan(&s.Tick, &s.Spikes, &s.Armed, &s.MeanV, &s.MaxV); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
