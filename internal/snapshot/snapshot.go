// Package snapshot persists one aggregate snapshot per report date and
// computes period-over-period deltas against the latest earlier snapshot.
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
)

// Store reads and writes dated snapshots.
type Store interface {
	// Save upserts the snapshot keyed by its date.
	Save(ctx context.Context, snap model.Snapshot) error
	// Previous returns the most recent snapshot strictly before the given
	// date, or nil if there is none.
	Previous(ctx context.Context, before time.Time) (*model.Snapshot, error)
	// List returns up to limit snapshots, most recent first, without their
	// type-group breakdown.
	List(ctx context.Context, limit int) ([]model.Snapshot, error)
}

// Baseline is the fixed comparison point used when no earlier snapshot
// exists or the store cannot be read.
type Baseline struct {
	Date     time.Time
	Claims   int
	Reserves decimal.Decimal
}

// Snapshot returns the baseline as a snapshot with only the delta fields set.
func (b Baseline) Snapshot() model.Snapshot {
	return model.Snapshot{
		Date:     b.Date,
		Claims:   b.Claims,
		Reserves: b.Reserves,
	}
}

// FromAggregate builds the snapshot persisted for a run.
func FromAggregate(agg model.Aggregate, date time.Time, runID uuid.UUID) model.Snapshot {
	snap := model.Snapshot{
		Date:      normalize.TruncateDay(date),
		RunID:     runID,
		Claims:    agg.Totals.Claims,
		Exposures: agg.Totals.Exposures,
		Reserves:  agg.Totals.Reserves,
		LowEval:   agg.Totals.LowEval,
		HighEval:  agg.Totals.HighEval,
		CP1Count:  agg.CP1.Yes,
		CP1Rate:   agg.CP1.Rate,
	}

	for _, b := range agg.AgeBuckets {
		switch b.Bucket {
		case model.Age365Plus:
			snap.Age365Plus = b.Claims
		case model.Age181To365:
			snap.Age181To365 = b.Claims
		case model.Age61To180:
			snap.Age61To180 = b.Claims
		case model.AgeUnder60:
			snap.AgeUnder60 = b.Claims
		}
	}

	snap.TypeGroups = make([]model.SnapshotTypeGroup, 0, len(agg.TypeGroups))
	for _, g := range agg.TypeGroups {
		snap.TypeGroups = append(snap.TypeGroups, model.SnapshotTypeGroup{
			TypeGroup:    g.TypeGroup,
			UniqueClaims: g.UniqueClaims,
			Exposures:    g.Exposures,
			Reserves:     g.Reserves,
		})
	}
	return snap
}

// ComputeDelta compares the current snapshot against a prior one. A zero
// prior value yields a 0% change.
func ComputeDelta(current, prior model.Snapshot) model.Delta {
	d := model.Delta{
		PreviousDate:   prior.Date,
		CountChange:    current.Claims - prior.Claims,
		ReservesChange: current.Reserves.Sub(prior.Reserves),
	}
	if prior.Claims != 0 {
		d.CountChangePct = float64(d.CountChange) / float64(prior.Claims) * 100
	}
	if !prior.Reserves.IsZero() {
		d.ReservesChangePct = d.ReservesChange.Div(prior.Reserves).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return d
}

// Service wraps a Store with the baseline fallback. A nil store disables
// persistence and every comparison uses the baseline.
type Service struct {
	store    Store
	baseline Baseline
	log      zerolog.Logger
}

// NewService creates a Service. store may be nil.
func NewService(store Store, baseline Baseline, log zerolog.Logger) *Service {
	return &Service{store: store, baseline: baseline, log: log}
}

// Enabled reports whether snapshots are persisted.
func (s *Service) Enabled() bool {
	return s.store != nil
}

// Save upserts the snapshot. It is a no-op without a store.
func (s *Service) Save(ctx context.Context, snap model.Snapshot) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, snap)
}

// PreviousOrBaseline returns the latest snapshot before date. Read failures
// are logged and fall back to the baseline, as does an empty history.
func (s *Service) PreviousOrBaseline(ctx context.Context, date time.Time) (model.Snapshot, bool) {
	if s.store == nil {
		return s.baseline.Snapshot(), true
	}
	prev, err := s.store.Previous(ctx, normalize.TruncateDay(date))
	if err != nil {
		s.log.Warn().Err(err).Msg("snapshot read failed, using baseline")
		return s.baseline.Snapshot(), true
	}
	if prev == nil {
		s.log.Info().Time("baseline_date", s.baseline.Date).Msg("no prior snapshot, using baseline")
		return s.baseline.Snapshot(), true
	}
	return *prev, false
}

// Delta reads the comparison point for current and computes the change.
func (s *Service) Delta(ctx context.Context, current model.Snapshot) model.Delta {
	prior, usedBaseline := s.PreviousOrBaseline(ctx, current.Date)
	d := ComputeDelta(current, prior)
	d.UsedBaseline = usedBaseline
	return d
}

// List returns stored snapshots, most recent first.
func (s *Service) List(ctx context.Context, limit int) ([]model.Snapshot, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, limit)
}
