package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunCommitted = "committed"
	RunFailed    = "failed"
	RunStale     = "stale"
)

// ErrRunNotFound is returned by GetRun for unknown IDs.
var ErrRunNotFound = errors.New("analysis run not found")

// AnalysisRun is one row of the run log: a matchup analysis and how it
// ended.
type AnalysisRun struct {
	RunID        string `json:"run_id"`
	Generation   uint64 `json:"generation"`
	Pitcher      string `json:"pitcher"`
	Batter       string `json:"batter"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	SceneID      string `json:"scene_id,omitempty"`
	PitchCount   int    `json:"pitch_count"`
	DurationMs   int64  `json:"duration_ms"`
	StartedAtNs  int64  `json:"started_at_ns"`
}

// InsertRun stores run. An empty RunID is replaced by a new UUID and a zero
// StartedAtNs by the current time.
func (db *DB) InsertRun(run *AnalysisRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAtNs == 0 {
		run.StartedAtNs = time.Now().UnixNano()
	}
	_, err := db.Exec(`
		INSERT INTO analysis_runs (
			run_id, generation, pitcher, batter, status, error_message,
			scene_id, pitch_count, duration_ms, started_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, int64(run.Generation), run.Pitcher, run.Batter, run.Status,
		nullString(run.ErrorMessage), nullString(run.SceneID),
		run.PitchCount, run.DurationMs, run.StartedAtNs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns
// every run.
func (db *DB) ListRuns(limit int) ([]AnalysisRun, error) {
	query := `SELECT run_id, generation, pitcher, batter, status, error_message,
		scene_id, pitch_count, duration_ms, started_at_ns
		FROM analysis_runs ORDER BY started_at_ns DESC, generation DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []AnalysisRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun looks up one run by ID.
func (db *DB) GetRun(runID string) (*AnalysisRun, error) {
	row := db.QueryRow(`SELECT run_id, generation, pitcher, batter, status, error_message,
		scene_id, pitch_count, duration_ms, started_at_ns
		FROM analysis_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*AnalysisRun, error) {
	var run AnalysisRun
	var generation int64
	var errMsg, sceneID sql.NullString
	err := s.Scan(&run.RunID, &generation, &run.Pitcher, &run.Batter, &run.Status,
		&errMsg, &sceneID, &run.PitchCount, &run.DurationMs, &run.StartedAtNs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Generation = uint64(generation)
	run.ErrorMessage = errMsg.String
	run.SceneID = sceneID.String
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// RunStats summarises the run log.
type RunStats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	LastRunNs     int64          `json:"last_run_ns,omitempty"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
}

// RunStats counts runs per status.
func (db *DB) RunStats() (*RunStats, error) {
	stats := &RunStats{ByStatus: map[string]int{}}
	rows, err := db.Query(`SELECT status, COUNT(*) FROM analysis_runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var last sql.NullInt64
	var avg sql.NullFloat64
	err = db.QueryRow(`SELECT MAX(started_at_ns), AVG(duration_ms) FROM analysis_runs`).Scan(&last, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise runs: %w", err)
	}
	stats.LastRunNs = last.Int64
	stats.AvgDurationMs = avg.Float64
	return stats, nil
}
