package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/snapshot"
)

// TrendResult holds the delta and whether the snapshot was written.
type TrendResult struct {
	Snapshot model.Snapshot
	Delta    model.Delta
	Saved    bool
	Duration time.Duration
}

// Trend reads the comparison point, computes the delta, then upserts this
// run's snapshot. Snapshot I/O failures are logged and never fail the run.
func Trend(ctx context.Context, svc *snapshot.Service, log zerolog.Logger, agg model.Aggregate, date time.Time, runID uuid.UUID) *TrendResult {
	start := time.Now()

	snap := snapshot.FromAggregate(agg, date, runID)
	res := &TrendResult{Snapshot: snap}
	res.Delta = svc.Delta(ctx, snap)

	if svc.Enabled() {
		if err := svc.Save(ctx, snap); err != nil {
			log.Warn().Err(err).Str("date", snap.Date.Format(time.DateOnly)).Msg("snapshot write failed (non-fatal)")
		} else {
			res.Saved = true
		}
	}

	res.Duration = time.Since(start)
	log.Info().
		Bool("used_baseline", res.Delta.UsedBaseline).
		Str("previous_date", res.Delta.PreviousDate.Format(time.DateOnly)).
		Int("count_change", res.Delta.CountChange).
		Str("reserves_change", res.Delta.ReservesChange.StringFixed(2)).
		Bool("saved", res.Saved).
		Dur("duration", res.Duration).
		Msg("snapshot complete")
	return res
}
