package model

import "time"

// RunSummary captures metrics from a single engine run.
type RunSummary struct {
	RunID             string        `json:"run_id"`
	FilePath          string        `json:"file_path"`
	FileSHA256        string        `json:"file_sha256"`
	ReportDate        time.Time     `json:"report_date"`
	RowsRead          int64         `json:"rows_read"`
	RowsWorkable      int64         `json:"rows_workable"`
	RowsExcluded      int64         `json:"rows_excluded"`
	RowsSkipped       int64         `json:"rows_skipped"`
	RiskClaims        int           `json:"risk_claims"`
	SnapshotSaved     bool          `json:"snapshot_saved"`
	Cached            bool          `json:"cached"`
	DurationLoad      time.Duration `json:"duration_load"`
	DurationAggregate time.Duration `json:"duration_aggregate"`
	DurationRisk      time.Duration `json:"duration_risk"`
	DurationSnapshot  time.Duration `json:"duration_snapshot"`
	DurationTotal     time.Duration `json:"duration_total"`
}

// RunResult is everything a completed run exposes to its consumers.
type RunResult struct {
	Summary   RunSummary `json:"summary"`
	Aggregate Aggregate  `json:"aggregate"`
	Risk      RiskReport `json:"risk"`
	Delta     Delta      `json:"delta"`
}
