package snapshot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/claimstats/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot(date string, claims int, reserves int64) model.Snapshot {
	return model.Snapshot{
		Date:      day(date),
		RunID:     uuid.New(),
		Claims:    claims,
		Exposures: claims + 1,
		Reserves:  decimal.NewFromInt(reserves),
		LowEval:   decimal.RequireFromString("10.25"),
		HighEval:  decimal.RequireFromString("99.75"),
		CP1Count:  2,
		CP1Rate:   "12.5",
		TypeGroups: []model.SnapshotTypeGroup{
			{TypeGroup: "LIT", UniqueClaims: 2, Exposures: 2, Reserves: decimal.RequireFromString("400.50")},
		},
	}
}

func TestSQLiteStore_PreviousStrictlyBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, s.Save(ctx, sampleSnapshot("2026-03-01", 10, 100)))
	require.NoError(t, s.Save(ctx, sampleSnapshot("2026-03-15", 20, 200)))
	require.NoError(t, s.Save(ctx, sampleSnapshot("2026-04-01", 30, 300)))

	prev, err := s.Previous(ctx, day("2026-04-01"))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, day("2026-03-15"), prev.Date)
	assert.Equal(t, 20, prev.Claims)
	assert.True(t, decimal.NewFromInt(200).Equal(prev.Reserves))
	assert.True(t, decimal.RequireFromString("10.25").Equal(prev.LowEval))
	require.Len(t, prev.TypeGroups, 1)
	assert.True(t, decimal.RequireFromString("400.50").Equal(prev.TypeGroups[0].Reserves))

	none, err := s.Previous(ctx, day("2026-03-01"))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSQLiteStore_UpsertByDate(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	first := sampleSnapshot("2026-04-01", 30, 300)
	second := sampleSnapshot("2026-04-01", 31, 310)
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 31, list[0].Claims)
	assert.Equal(t, second.RunID, list[0].RunID)
	assert.Nil(t, list[0].TypeGroups)
}

func TestSQLiteStore_ListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	for _, d := range []string{"2026-01-01", "2026-03-01", "2026-02-01"} {
		require.NoError(t, s.Save(ctx, sampleSnapshot(d, 1, 1)))
	}

	list, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, day("2026-03-01"), list[0].Date)
	assert.Equal(t, day("2026-02-01"), list[1].Date)
}

func TestSQLiteStore_WithService(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	svc := NewService(s, Baseline{}, zerolog.Nop())

	require.NoError(t, svc.Save(ctx, sampleSnapshot("2026-03-01", 100, 1000)))
	d := svc.Delta(ctx, sampleSnapshot("2026-04-01", 120, 900))
	assert.False(t, d.UsedBaseline)
	assert.Equal(t, 20, d.CountChange)
	assert.InDelta(t, 20.0, d.CountChangePct, 1e-9)
	assert.InDelta(t, -10.0, d.ReservesChangePct, 1e-9)
}
