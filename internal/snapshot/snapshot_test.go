package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/claimstats/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeStore struct {
	prev    *model.Snapshot
	readErr error
	saved   []model.Snapshot
	before  time.Time
}

func (f *fakeStore) Save(_ context.Context, snap model.Snapshot) error {
	f.saved = append(f.saved, snap)
	return nil
}

func (f *fakeStore) Previous(_ context.Context, before time.Time) (*model.Snapshot, error) {
	f.before = before
	return f.prev, f.readErr
}

func (f *fakeStore) List(_ context.Context, _ int) ([]model.Snapshot, error) {
	return f.saved, nil
}

func TestComputeDelta(t *testing.T) {
	prior := model.Snapshot{Date: day("2026-03-01"), Claims: 200, Reserves: decimal.NewFromInt(1_000_000)}
	current := model.Snapshot{Date: day("2026-04-01"), Claims: 210, Reserves: decimal.NewFromInt(950_000)}

	d := ComputeDelta(current, prior)
	assert.Equal(t, 10, d.CountChange)
	assert.InDelta(t, 5.0, d.CountChangePct, 1e-9)
	assert.True(t, decimal.NewFromInt(-50_000).Equal(d.ReservesChange))
	assert.InDelta(t, -5.0, d.ReservesChangePct, 1e-9)
	assert.Equal(t, prior.Date, d.PreviousDate)
}

func TestComputeDelta_ZeroPrior(t *testing.T) {
	current := model.Snapshot{Claims: 12, Reserves: decimal.NewFromInt(5000)}

	d := ComputeDelta(current, model.Snapshot{})
	assert.Equal(t, 12, d.CountChange)
	assert.Zero(t, d.CountChangePct)
	assert.True(t, decimal.NewFromInt(5000).Equal(d.ReservesChange))
	assert.Zero(t, d.ReservesChangePct)
}

func TestFromAggregate(t *testing.T) {
	agg := model.Aggregate{
		Totals: model.Totals{
			Claims:    3,
			Exposures: 5,
			Reserves:  decimal.NewFromInt(900),
			LowEval:   decimal.NewFromInt(100),
			HighEval:  decimal.NewFromInt(400),
		},
		AgeBuckets: []model.AgeBucketTotal{
			{Bucket: model.Age365Plus, Claims: 1},
			{Bucket: model.Age181To365, Claims: 0},
			{Bucket: model.Age61To180, Claims: 1},
			{Bucket: model.AgeUnder60, Claims: 1},
		},
		TypeGroups: []model.TypeGroupSummary{
			{TypeGroup: "LIT", UniqueClaims: 2, Exposures: 3, Reserves: decimal.NewFromInt(700)},
		},
		CP1: model.CP1Summary{Yes: 2, No: 3, Rate: "40.0"},
	}
	runID := uuid.New()

	snap := FromAggregate(agg, time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC), runID)
	assert.Equal(t, day("2026-04-01"), snap.Date)
	assert.Equal(t, runID, snap.RunID)
	assert.Equal(t, 3, snap.Claims)
	assert.Equal(t, 5, snap.Exposures)
	assert.Equal(t, 2, snap.CP1Count)
	assert.Equal(t, "40.0", snap.CP1Rate)
	assert.Equal(t, 1, snap.Age365Plus)
	assert.Equal(t, 0, snap.Age181To365)
	assert.Equal(t, 1, snap.Age61To180)
	assert.Equal(t, 1, snap.AgeUnder60)
	require.Len(t, snap.TypeGroups, 1)
	assert.Equal(t, "LIT", snap.TypeGroups[0].TypeGroup)
	assert.True(t, decimal.NewFromInt(700).Equal(snap.TypeGroups[0].Reserves))
}

func TestService_UsesPreviousSnapshot(t *testing.T) {
	prev := model.Snapshot{Date: day("2026-03-31"), Claims: 100, Reserves: decimal.NewFromInt(1000)}
	store := &fakeStore{prev: &prev}
	svc := NewService(store, Baseline{Date: day("2025-12-31"), Claims: 1}, zerolog.Nop())

	d := svc.Delta(context.Background(), model.Snapshot{Date: day("2026-04-01"), Claims: 110, Reserves: decimal.NewFromInt(1100)})
	assert.False(t, d.UsedBaseline)
	assert.Equal(t, prev.Date, d.PreviousDate)
	assert.InDelta(t, 10.0, d.CountChangePct, 1e-9)
	assert.InDelta(t, 10.0, d.ReservesChangePct, 1e-9)
	assert.Equal(t, day("2026-04-01"), store.before)
}

func TestService_FallsBackToBaseline(t *testing.T) {
	baseline := Baseline{Date: day("2025-12-31"), Claims: 50, Reserves: decimal.NewFromInt(500)}
	current := model.Snapshot{Date: day("2026-04-01"), Claims: 100, Reserves: decimal.NewFromInt(1000)}

	tests := []struct {
		name  string
		store Store
	}{
		{"no store", nil},
		{"empty history", &fakeStore{}},
		{"read error", &fakeStore{readErr: errors.New("connection reset")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.store, baseline, zerolog.Nop())
			d := svc.Delta(context.Background(), current)
			assert.True(t, d.UsedBaseline)
			assert.Equal(t, baseline.Date, d.PreviousDate)
			assert.Equal(t, 50, d.CountChange)
			assert.InDelta(t, 100.0, d.CountChangePct, 1e-9)
		})
	}
}

func TestService_ZeroBaselineNeverDivides(t *testing.T) {
	svc := NewService(nil, Baseline{}, zerolog.Nop())
	d := svc.Delta(context.Background(), model.Snapshot{Claims: 7, Reserves: decimal.NewFromInt(70)})
	assert.True(t, d.UsedBaseline)
	assert.Zero(t, d.CountChangePct)
	assert.Zero(t, d.ReservesChangePct)
}

func TestService_SaveWithoutStore(t *testing.T) {
	svc := NewService(nil, Baseline{}, zerolog.Nop())
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.Save(context.Background(), model.Snapshot{}))
	list, err := svc.List(context.Background(), 10)
	assert.NoError(t, err)
	assert.Empty(t, list)
}
