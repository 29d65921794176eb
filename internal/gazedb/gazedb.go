// Package gazedb stores analysis runs in a sqlite database so results
// from repeated accuracy tests can be compared later.
package gazedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/gaze.report/internal/analysis"
	"github.com/banshee-data/gaze.report/internal/monitoring"
	"github.com/banshee-data/gaze.report/internal/samples"
	"github.com/banshee-data/gaze.report/internal/timeutil"
)

type DB struct {
	*sql.DB
	clock timeutil.Clock
}

// Open opens (or creates) the sqlite database at path and migrates it to
// the latest schema.
func Open(ctx context.Context, path string) (*DB, error) {
	return OpenWithClock(ctx, path, timeutil.RealClock{})
}

// OpenWithClock is Open with an explicit clock for run timestamps.
func OpenWithClock(ctx context.Context, path string, clock timeutil.Clock) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// sqlite pragmas are per connection.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{DB: sqlDB, clock: clock}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	monitoring.Logf("initialized run store at %s", path)
	return db, nil
}

// Run is one stored analysis run.
type Run struct {
	ID             string
	StartedAt      time.Time
	SummaryPath    string
	SamplesPath    string
	MatchThreshold float64
	MeanOffset     samples.OptionalFloat
	OffsetCount    int
	SampleCount    int
	Matched        int
	Unmatched      int
	NoObservation  int
}

// RunInput identifies the inputs of a run.
type RunInput struct {
	SummaryPath    string
	SamplesPath    string
	MatchThreshold float64
}

// RecordRun stores r with every sample and correction in one transaction
// and returns the new run ID.
func (db *DB) RecordRun(ctx context.Context, in RunInput, r *analysis.Result) (string, error) {
	runID := uuid.NewString()
	startedAt := timeutil.FormatRunStamp(db.clock.Now())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, started_at, summary_path, samples_path, match_threshold,
			mean_offset, offset_count, sample_count, matched_count,
			unmatched_count, no_obs_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, startedAt, in.SummaryPath, in.SamplesPath, in.MatchThreshold,
		nullFloat(r.MeanOffset), r.OffsetCount, len(r.Samples), r.Matched(),
		r.Unmatched, r.NoObservation,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (
			run_id, row_index, raw_label, normalized_label, yaw, pitch,
			status, target_key, fuzzy, score, shifted_x, shifted_y
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range r.Samples {
		var key sql.NullString
		var score, sx, sy sql.NullFloat64
		if s.Status == analysis.StatusMatched {
			key = sql.NullString{String: s.Match.Key, Valid: true}
			score = sql.NullFloat64{Float64: s.Match.Score, Valid: true}
			sx = sql.NullFloat64{Float64: s.Shifted.X, Valid: true}
			sy = sql.NullFloat64{Float64: s.Shifted.Y, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			runID, s.Index, s.Label, s.Normalized, nullFloat(s.Yaw), nullFloat(s.Pitch),
			s.Status.String(), key, s.Match.Fuzzy, score, sx, sy,
		); err != nil {
			return "", fmt.Errorf("failed to insert sample %d: %w", s.Index, err)
		}
	}

	for i, c := range r.Corrections.Entries() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO corrections (run_id, position, raw_label, target_key, score) VALUES (?, ?, ?, ?, ?)`,
			runID, i, c.Raw, c.Key, c.Score,
		); err != nil {
			return "", fmt.Errorf("failed to insert correction %q: %w", c.Raw, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the stored runs, oldest first.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, started_at, summary_path, samples_path, match_threshold,
		       mean_offset, offset_count, sample_count, matched_count,
		       unmatched_count, no_obs_count
		FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		var meanOffset sql.NullFloat64
		if err := rows.Scan(
			&run.ID, &startedAt, &run.SummaryPath, &run.SamplesPath, &run.MatchThreshold,
			&meanOffset, &run.OffsetCount, &run.SampleCount, &run.Matched,
			&run.Unmatched, &run.NoObservation,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(timeutil.RunStampLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("run %s has bad timestamp %q: %w", run.ID, startedAt, err)
		}
		if meanOffset.Valid {
			run.MeanOffset = samples.Some(meanOffset.Float64)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StatusCounts returns the number of stored samples per status for runID.
func (db *DB) StatusCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM samples WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan sample count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Corrections returns the stored correction log of runID in order.
func (db *DB) Corrections(ctx context.Context, runID string) ([]analysis.Correction, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT raw_label, target_key, score FROM corrections WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer rows.Close()

	var out []analysis.Correction
	for rows.Next() {
		var c analysis.Correction
		if err := rows.Scan(&c.Raw, &c.Key, &c.Score); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullFloat(o samples.OptionalFloat) sql.NullFloat64 {
	v, ok := o.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}
