package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/claimstats/internal/model"
)

func TestMigrationNames_Sorted(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_snapshots.sql", "002_snapshot_type_groups.sql"}, names)
}

func TestApplyMigrations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS claimstats").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS claimstats.snapshot_type_groups").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err = ApplyMigrations(context.Background(), mock, zerolog.Nop())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrations_StopsOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE SCHEMA").WillReturnError(errors.New("permission denied"))

	err = ApplyMigrations(context.Background(), mock, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_snapshots.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTypeGroupSource(t *testing.T) {
	date := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	src := NewTypeGroupSource(date, []model.SnapshotTypeGroup{
		{TypeGroup: "LIT", UniqueClaims: 3, Exposures: 4, Reserves: decimal.RequireFromString("1250.50")},
		{TypeGroup: "EBI", UniqueClaims: 1, Exposures: 1, Reserves: decimal.Zero},
	})

	var rows [][]any
	for src.Next() {
		vals, err := src.Values()
		require.NoError(t, err)
		rows = append(rows, vals)
	}
	require.NoError(t, src.Err())
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(TypeGroupColumns))
	assert.Equal(t, date, rows[0][0])
	assert.Equal(t, "LIT", rows[0][1])
	assert.Equal(t, 3, rows[0][2])
	assert.False(t, src.Next())
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1250.50", "-42.07", "123456789.99"} {
		d := decimal.RequireFromString(s)
		assert.True(t, d.Equal(Decimal(Numeric(d))), s)
	}
	assert.True(t, Decimal(Numeric(decimal.Zero)).IsZero())
}
