package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/model"
	embedsql "github.com/gyeh/claimstats/internal/sql"
)

// PostgresStore keeps snapshots in claimstats.snapshots with the type-group
// breakdown in claimstats.snapshot_type_groups.
type PostgresStore struct {
	pool db.Pool
	log  zerolog.Logger
}

// NewPostgresStore creates a store over an existing pool. Migrations must
// already be applied.
func NewPostgresStore(pool db.Pool, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, log: log}
}

// Save upserts the snapshot row and replaces its type-group rows in one
// transaction.
func (s *PostgresStore) Save(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, embedsql.UpsertSnapshot,
		snap.Date,
		pgtype.UUID{Bytes: snap.RunID, Valid: true},
		snap.Claims,
		snap.Exposures,
		db.Numeric(snap.Reserves),
		db.Numeric(snap.LowEval),
		db.Numeric(snap.HighEval),
		snap.CP1Count,
		snap.CP1Rate,
		snap.Age365Plus,
		snap.Age181To365,
		snap.Age61To180,
		snap.AgeUnder60,
	); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	if _, err := tx.Exec(ctx, embedsql.DeleteSnapshotTypeGroups, snap.Date); err != nil {
		return fmt.Errorf("clear snapshot type groups: %w", err)
	}

	var copied int64
	if len(snap.TypeGroups) > 0 {
		copied, err = tx.CopyFrom(ctx, db.TypeGroupTable, db.TypeGroupColumns,
			db.NewTypeGroupSource(snap.Date, snap.TypeGroups))
		if err != nil {
			return fmt.Errorf("copy snapshot type groups: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.log.Info().
		Str("date", snap.Date.Format(time.DateOnly)).
		Int64("type_groups", copied).
		Msg("snapshot saved")
	return nil
}

// Previous returns the latest snapshot strictly before the given date.
func (s *PostgresStore) Previous(ctx context.Context, before time.Time) (*model.Snapshot, error) {
	row := s.pool.QueryRow(ctx, embedsql.PreviousSnapshot, before)
	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query previous snapshot: %w", err)
	}

	groups, err := s.typeGroups(ctx, snap.Date)
	if err != nil {
		return nil, err
	}
	snap.TypeGroups = groups
	return &snap, nil
}

// List returns up to limit snapshots, most recent first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]model.Snapshot, error) {
	rows, err := s.pool.Query(ctx, embedsql.ListSnapshots, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) typeGroups(ctx context.Context, date time.Time) ([]model.SnapshotTypeGroup, error) {
	rows, err := s.pool.Query(ctx, embedsql.SnapshotTypeGroups, date)
	if err != nil {
		return nil, fmt.Errorf("query snapshot type groups: %w", err)
	}
	defer rows.Close()

	groups := make([]model.SnapshotTypeGroup, 0)
	for rows.Next() {
		var (
			g        model.SnapshotTypeGroup
			reserves pgtype.Numeric
		)
		if err := rows.Scan(&g.TypeGroup, &g.UniqueClaims, &g.Exposures, &reserves); err != nil {
			return nil, fmt.Errorf("scan snapshot type group: %w", err)
		}
		g.Reserves = db.Decimal(reserves)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query snapshot type groups: %w", err)
	}
	return groups, nil
}

func scanSnapshot(row pgx.Row) (model.Snapshot, error) {
	var (
		snap                        model.Snapshot
		runID                       pgtype.UUID
		reserves, lowEval, highEval pgtype.Numeric
	)
	err := row.Scan(
		&snap.Date,
		&runID,
		&snap.Claims,
		&snap.Exposures,
		&reserves,
		&lowEval,
		&highEval,
		&snap.CP1Count,
		&snap.CP1Rate,
		&snap.Age365Plus,
		&snap.Age181To365,
		&snap.Age61To180,
		&snap.AgeUnder60,
	)
	if err != nil {
		return model.Snapshot{}, err
	}
	snap.RunID = uuid.UUID(runID.Bytes)
	snap.Reserves = db.Decimal(reserves)
	snap.LowEval = db.Decimal(lowEval)
	snap.HighEval = db.Decimal(highEval)
	return snap, nil
}
