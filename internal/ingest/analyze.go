package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/risk"
)

// AnalyzeResult holds the outputs of both engines.
type AnalyzeResult struct {
	Aggregate         model.Aggregate
	Stats             aggregate.Stats
	Risk              model.RiskReport
	DurationAggregate time.Duration
	DurationRisk      time.Duration
}

// Analyze runs the aggregation pipeline and the risk engine concurrently over
// the same records. Neither engine mutates the records.
func Analyze(ctx context.Context, log zerolog.Logger, records []model.ExposureRecord, opts aggregate.Options, policy risk.Policy) (*AnalyzeResult, error) {
	var res AnalyzeResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return &PipelineError{Phase: PhaseAggregate, Err: err}
		}
		start := time.Now()
		res.Aggregate, res.Stats = aggregate.Build(records, opts)
		res.DurationAggregate = time.Since(start)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return &PipelineError{Phase: PhaseRisk, Err: err}
		}
		start := time.Now()
		res.Risk = risk.Classify(records, policy)
		res.DurationRisk = time.Since(start)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("claims", res.Aggregate.Totals.Claims).
		Int("exposures", res.Aggregate.Totals.Exposures).
		Int64("rows_workable", res.Stats.RowsWorkable).
		Int64("rows_excluded", res.Stats.RowsExcluded).
		Int64("rows_skipped", res.Stats.RowsSkipped).
		Dur("aggregate_duration", res.DurationAggregate).
		Msg("aggregation complete")
	log.Info().
		Int("risk_claims", res.Risk.Summary.TotalClaims).
		Str("total_exposure", res.Risk.Summary.TotalExposure.StringFixed(2)).
		Dur("risk_duration", res.DurationRisk).
		Msg("risk classification complete")

	return &res, nil
}
