package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the persisted aggregate for one reporting date.
type Snapshot struct {
	Date        time.Time           `json:"date"`
	RunID       uuid.UUID           `json:"run_id"`
	Claims      int                 `json:"claims"`
	Exposures   int                 `json:"exposures"`
	Reserves    decimal.Decimal     `json:"reserves"`
	LowEval     decimal.Decimal     `json:"low_eval"`
	HighEval    decimal.Decimal     `json:"high_eval"`
	CP1Count    int                 `json:"cp1_count"`
	CP1Rate     string              `json:"cp1_rate"`
	Age365Plus  int                 `json:"age_365_plus"`
	Age181To365 int                 `json:"age_181_365"`
	Age61To180  int                 `json:"age_61_180"`
	AgeUnder60  int                 `json:"age_under_60"`
	TypeGroups  []SnapshotTypeGroup `json:"type_groups"`
}

// SnapshotTypeGroup is the per-type-group breakdown stored with a snapshot.
type SnapshotTypeGroup struct {
	TypeGroup    string          `json:"type_group"`
	UniqueClaims int             `json:"unique_claims"`
	Exposures    int             `json:"exposures"`
	Reserves     decimal.Decimal `json:"reserves"`
}

// Delta is the period-over-period change against a prior snapshot or the
// fixed baseline.
type Delta struct {
	PreviousDate      time.Time       `json:"previous_date"`
	UsedBaseline      bool            `json:"used_baseline"`
	CountChange       int             `json:"count_change"`
	CountChangePct    float64         `json:"count_change_pct"`
	ReservesChange    decimal.Decimal `json:"reserves_change"`
	ReservesChangePct float64         `json:"reserves_change_pct"`
}
