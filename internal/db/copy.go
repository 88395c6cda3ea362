package db

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/gyeh/claimstats/internal/model"
)

// TypeGroupColumns is the COPY column order for snapshot type-group rows.
var TypeGroupColumns = []string{"report_date", "type_group", "unique_claims", "exposures", "reserves"}

// TypeGroupTable is the COPY target for snapshot type-group rows.
var TypeGroupTable = pgx.Identifier{"claimstats", "snapshot_type_groups"}

// TypeGroupSource implements pgx.CopyFromSource over the type-group
// breakdown of one snapshot.
type TypeGroupSource struct {
	date   time.Time
	groups []model.SnapshotTypeGroup
	idx    int
}

// NewTypeGroupSource creates a CopyFromSource for the given snapshot date.
func NewTypeGroupSource(date time.Time, groups []model.SnapshotTypeGroup) *TypeGroupSource {
	return &TypeGroupSource{date: date, groups: groups, idx: -1}
}

// Next advances to the next row. Returns false when the groups are exhausted.
func (s *TypeGroupSource) Next() bool {
	s.idx++
	return s.idx < len(s.groups)
}

// Values returns the current row's values in TypeGroupColumns order.
func (s *TypeGroupSource) Values() ([]any, error) {
	g := s.groups[s.idx]
	return []any{s.date, g.TypeGroup, g.UniqueClaims, g.Exposures, Numeric(g.Reserves)}, nil
}

// Err returns any error encountered during iteration.
func (s *TypeGroupSource) Err() error {
	return nil
}

var _ pgx.CopyFromSource = (*TypeGroupSource)(nil)

// Numeric converts a decimal to the pgx numeric type without going through
// float64.
func Numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// Decimal converts a scanned numeric back to a decimal. NULL and NaN read as
// zero.
func Decimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
