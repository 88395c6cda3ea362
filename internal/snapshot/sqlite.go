package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/gyeh/claimstats/internal/model"
)

// SQLiteStore keeps snapshots in a local SQLite file for single-user runs.
// Dates are stored as YYYY-MM-DD text and the type-group breakdown as JSON.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: exec %s: %w", pragma, err)
		}
	}
	return &SQLiteStore{db: db, log: log}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	report_date  TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL,
	claims       INTEGER NOT NULL DEFAULT 0,
	exposures    INTEGER NOT NULL DEFAULT 0,
	reserves     TEXT NOT NULL DEFAULT '0',
	low_eval     TEXT NOT NULL DEFAULT '0',
	high_eval    TEXT NOT NULL DEFAULT '0',
	cp1_count    INTEGER NOT NULL DEFAULT 0,
	cp1_rate     TEXT NOT NULL DEFAULT '0.0',
	age_365_plus INTEGER NOT NULL DEFAULT 0,
	age_181_365  INTEGER NOT NULL DEFAULT 0,
	age_61_180   INTEGER NOT NULL DEFAULT 0,
	age_under_60 INTEGER NOT NULL DEFAULT 0,
	type_groups  TEXT NOT NULL DEFAULT '[]',
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate creates the snapshot table if needed.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the snapshot keyed by date.
func (s *SQLiteStore) Save(ctx context.Context, snap model.Snapshot) error {
	groups := snap.TypeGroups
	if groups == nil {
		groups = []model.SnapshotTypeGroup{}
	}
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("sqlite: marshal type groups: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO snapshots (
	report_date, run_id, claims, exposures, reserves, low_eval, high_eval,
	cp1_count, cp1_rate, age_365_plus, age_181_365, age_61_180, age_under_60,
	type_groups, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(report_date) DO UPDATE SET
	run_id = excluded.run_id,
	claims = excluded.claims,
	exposures = excluded.exposures,
	reserves = excluded.reserves,
	low_eval = excluded.low_eval,
	high_eval = excluded.high_eval,
	cp1_count = excluded.cp1_count,
	cp1_rate = excluded.cp1_rate,
	age_365_plus = excluded.age_365_plus,
	age_181_365 = excluded.age_181_365,
	age_61_180 = excluded.age_61_180,
	age_under_60 = excluded.age_under_60,
	type_groups = excluded.type_groups,
	updated_at = excluded.updated_at`,
		snap.Date.Format(time.DateOnly),
		snap.RunID.String(),
		snap.Claims,
		snap.Exposures,
		snap.Reserves.String(),
		snap.LowEval.String(),
		snap.HighEval.String(),
		snap.CP1Count,
		snap.CP1Rate,
		snap.Age365Plus,
		snap.Age181To365,
		snap.Age61To180,
		snap.AgeUnder60,
		string(groupsJSON),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert snapshot: %w", err)
	}

	s.log.Info().Str("date", snap.Date.Format(time.DateOnly)).Msg("snapshot saved")
	return nil
}

const sqliteSelect = `
SELECT report_date, run_id, claims, exposures, reserves, low_eval, high_eval,
	cp1_count, cp1_rate, age_365_plus, age_181_365, age_61_180, age_under_60, type_groups
FROM snapshots`

// Previous returns the latest snapshot strictly before the given date.
// ISO dates compare correctly as text.
func (s *SQLiteStore) Previous(ctx context.Context, before time.Time) (*model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		sqliteSelect+` WHERE report_date < ? ORDER BY report_date DESC LIMIT 1`,
		before.Format(time.DateOnly))
	snap, err := scanSQLiteSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: query previous snapshot: %w", err)
	}
	return &snap, nil
}

// List returns up to limit snapshots, most recent first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelect+` ORDER BY report_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.Snapshot
	for rows.Next() {
		snap, err := scanSQLiteSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan snapshot: %w", err)
		}
		snap.TypeGroups = nil
		out = append(out, snap)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSnapshot(row rowScanner) (model.Snapshot, error) {
	var (
		snap                        model.Snapshot
		date, runID                 string
		reserves, lowEval, highEval string
		groupsJSON                  string
	)
	err := row.Scan(
		&date,
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
		&groupsJSON,
	)
	if err != nil {
		return model.Snapshot{}, err
	}

	if snap.Date, err = time.Parse(time.DateOnly, date); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse report date %q: %w", date, err)
	}
	if snap.RunID, err = uuid.Parse(runID); err != nil {
		return model.Snapshot{}, fmt.Errorf("parse run id %q: %w", runID, err)
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&snap.Reserves, reserves},
		{&snap.LowEval, lowEval},
		{&snap.HighEval, highEval},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return model.Snapshot{}, fmt.Errorf("parse amount %q: %w", f.src, err)
		}
	}
	if err := json.Unmarshal([]byte(groupsJSON), &snap.TypeGroups); err != nil {
		return model.Snapshot{}, fmt.Errorf("unmarshal type groups: %w", err)
	}
	return snap, nil
}
