// Package ingest runs one engine pass over a claims export: preflight, load,
// analyze, then the snapshot and delta step.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/cache"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/risk"
	"github.com/gyeh/claimstats/internal/snapshot"
)

// Pipeline phases, as reported by PipelineError.
const (
	PhasePreflight = "preflight"
	PhaseLoad      = "load"
	PhaseAggregate = "aggregate"
	PhaseRisk      = "risk"
	PhaseSnapshot  = "snapshot"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Request names the export to process and the date it is reported for.
type Request struct {
	FilePath   string
	ReportDate time.Time
	// Force bypasses the result cache.
	Force bool
}

// Runner holds the dependencies shared across runs. Snapshots and Cache may
// be nil.
type Runner struct {
	Snapshots *snapshot.Service
	Cache     *cache.Results
	Policy    risk.Policy
	Options   aggregate.Options
	Log       zerolog.Logger
}

// Run executes the full pipeline: preflight → load → analyze → snapshot.
func (r *Runner) Run(ctx context.Context, req Request) (*model.RunResult, error) {
	totalStart := time.Now()
	log := r.Log

	// Phase 1: Preflight
	log.Info().Str("file", req.FilePath).Msg("starting preflight")
	pf, err := Preflight(r.Cache, log, req.FilePath, req.ReportDate, req.Force)
	if err != nil {
		return nil, &PipelineError{Phase: PhasePreflight, Err: err}
	}

	if pf.Cached != nil {
		log.Info().
			Str("sha256", pf.FileSHA256).
			Str("report_date", pf.ReportDate.Format(time.DateOnly)).
			Msg("export already processed for this date, returning cached result (use --force to recompute)")
		res := *pf.Cached
		res.Summary.Cached = true
		res.Summary.DurationTotal = time.Since(totalStart)
		return &res, nil
	}

	// Phase 2: Load
	log.Info().Msg("starting load")
	lr, err := Load(ctx, log, pf.FilePath)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}

	// Phase 3: Aggregate and risk
	log.Info().Int("rows", len(lr.Records)).Msg("starting analysis")
	ar, err := Analyze(ctx, log, lr.Records, r.Options, r.Policy)
	if err != nil {
		return nil, err
	}

	// Phase 4: Snapshot and delta
	svc := r.Snapshots
	if svc == nil {
		svc = snapshot.NewService(nil, snapshot.Baseline{}, log)
	}
	tr := Trend(ctx, svc, log, ar.Aggregate, pf.ReportDate, pf.RunID)

	result := &model.RunResult{
		Summary: model.RunSummary{
			RunID:             pf.RunID.String(),
			FilePath:          pf.FilePath,
			FileSHA256:        pf.FileSHA256,
			ReportDate:        pf.ReportDate,
			RowsRead:          ar.Stats.RowsRead,
			RowsWorkable:      ar.Stats.RowsWorkable,
			RowsExcluded:      ar.Stats.RowsExcluded,
			RowsSkipped:       ar.Stats.RowsSkipped + lr.BlankRows,
			RiskClaims:        len(ar.Risk.Claims),
			SnapshotSaved:     tr.Saved,
			DurationLoad:      lr.Duration,
			DurationAggregate: ar.DurationAggregate,
			DurationRisk:      ar.DurationRisk,
			DurationSnapshot:  tr.Duration,
		},
		Aggregate: ar.Aggregate,
		Risk:      ar.Risk,
		Delta:     tr.Delta,
	}
	result.Summary.DurationTotal = time.Since(totalStart)

	if r.Cache != nil {
		r.Cache.Put(pf.CacheKey, *result)
	}

	log.Info().
		Int64("rows_read", result.Summary.RowsRead).
		Int64("rows_workable", result.Summary.RowsWorkable).
		Int64("rows_excluded", result.Summary.RowsExcluded).
		Int64("rows_skipped", result.Summary.RowsSkipped).
		Int("risk_claims", result.Summary.RiskClaims).
		Bool("snapshot_saved", result.Summary.SnapshotSaved).
		Str("total_duration", result.Summary.DurationTotal.String()).
		Msg("engine run complete")

	return result, nil
}
