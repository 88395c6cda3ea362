package model

import "github.com/shopspring/decimal"

// Negotiation recency buckets (days since last negotiation).
const (
	Recency0To30         = "0-30"
	Recency31To60        = "31-60"
	Recency61To90        = "61-90"
	Recency90Plus        = "90+"
	RecencyNoNegotiation = "no-negotiation"
)

// AllRecencyBuckets lists the recency buckets in report order.
var AllRecencyBuckets = []string{Recency0To30, Recency31To60, Recency61To90, Recency90Plus, RecencyNoNegotiation}

// BI status rollup buckets.
const (
	BIStatusInProgress = "in-progress"
	BIStatusSettled    = "settled"
	BIStatusOther      = "other"
)

// AllBIStatusBuckets lists the BI status buckets in report order.
var AllBIStatusBuckets = []string{BIStatusInProgress, BIStatusSettled, BIStatusOther}

// Aggregate is the full output of one aggregation pass. All slices are in a
// deterministic order so identical input produces identical output.
type Aggregate struct {
	Totals             Totals             `json:"totals"`
	AgeBuckets         []AgeBucketTotal   `json:"age_buckets"`
	TypeGroups         []TypeGroupSummary `json:"type_groups"`
	CP1                CP1Summary         `json:"cp1"`
	Phases             []PhaseSummary     `json:"phases"`
	NegotiationRecency []AmountBucket     `json:"negotiation_recency"`
	BIStatus           []AmountBucket     `json:"bi_status"`
	DemandTypes        []AmountBucket     `json:"demand_types"`
	Severity           map[string]int     `json:"severity"`
	MultiPacks         MultiPackSummary   `json:"multi_packs"`
	Samples            []ExposureRecord   `json:"samples,omitempty"`
}

// Totals are the grand totals. Claims and Exposures cover every coverage;
// the money fields and Financial* counts cover BI/UM/UI only.
type Totals struct {
	Claims             int             `json:"claims"`
	Exposures          int             `json:"exposures"`
	FinancialClaims    int             `json:"financial_claims"`
	FinancialExposures int             `json:"financial_exposures"`
	Reserves           decimal.Decimal `json:"reserves"`
	LowEval            decimal.Decimal `json:"low_eval"`
	HighEval           decimal.Decimal `json:"high_eval"`
	NoEvalCount        int             `json:"no_eval_count"`
	NoEvalReserves     decimal.Decimal `json:"no_eval_reserves"`
}

// AgeBucketTotal counts every coverage; Reserves covers BI/UM/UI only.
type AgeBucketTotal struct {
	Bucket    AgeBucket       `json:"bucket"`
	Claims    int             `json:"claims"`
	Exposures int             `json:"exposures"`
	Reserves  decimal.Decimal `json:"reserves"`
}

// TypeGroupSummary rolls up one type group. UniqueClaims and Exposures cover
// every coverage; the remaining fields cover BI/UM/UI only.
type TypeGroupSummary struct {
	TypeGroup          string          `json:"type_group"`
	UniqueClaims       int             `json:"unique_claims"`
	Exposures          int             `json:"exposures"`
	FinancialExposures int             `json:"financial_exposures"`
	Reserves           decimal.Decimal `json:"reserves"`
	LowEval            decimal.Decimal `json:"low_eval"`
	HighEval           decimal.Decimal `json:"high_eval"`
	NoEvalCount        int             `json:"no_eval_count"`
}

// CP1Breakdown is a yes/no tally with its rate as a one-decimal percentage.
type CP1Breakdown struct {
	Key  string `json:"key"`
	Yes  int    `json:"yes"`
	No   int    `json:"no"`
	Rate string `json:"rate"`
}

// CP1Summary holds the all-coverage CP1 tally and its rollups.
type CP1Summary struct {
	Yes         int            `json:"yes"`
	No          int            `json:"no"`
	Rate        string         `json:"rate"`
	ByCoverage  []CP1Breakdown `json:"by_coverage"`
	ByTypeGroup []CP1Breakdown `json:"by_type_group"`
	ByAge       []CP1Breakdown `json:"by_age"` // BI only
	ByBIStatus  []CP1Breakdown `json:"by_bi_status"`
}

// AmountBucket is a labelled exposure count with summed reserves.
type AmountBucket struct {
	Key       string          `json:"key"`
	Exposures int             `json:"exposures"`
	Reserves  decimal.Decimal `json:"reserves"`
}

// PhaseSummary rolls up one evaluation phase of litigated exposures, broken
// down by demand type.
type PhaseSummary struct {
	Phase       string          `json:"phase"`
	Exposures   int             `json:"exposures"`
	Reserves    decimal.Decimal `json:"reserves"`
	DemandTypes []AmountBucket  `json:"demand_types"`
}

// PackMember is one exposure inside a multi-pack group.
type PackMember struct {
	ClaimNumber string          `json:"claim_number"`
	Claimant    string          `json:"claimant,omitempty"`
	Coverage    string          `json:"coverage"`
	Reserves    decimal.Decimal `json:"reserves"`
}

// MultiPackGroup is a set of two or more exposures sharing a base claim number.
type MultiPackGroup struct {
	BaseClaim string          `json:"base_claim"`
	PackSize  int             `json:"pack_size"`
	Reserves  decimal.Decimal `json:"reserves"`
	Claims    []PackMember    `json:"claims"`
}

// PackSizeSummary aggregates all groups of one pack size.
type PackSizeSummary struct {
	PackSize int             `json:"pack_size"`
	Groups   int             `json:"groups"`
	Claims   int             `json:"claims"`
	Reserves decimal.Decimal `json:"reserves"`
}

// MultiPackSummary is the post-pass multi-pack grouping.
type MultiPackSummary struct {
	Groups []MultiPackGroup  `json:"groups"`
	BySize []PackSizeSummary `json:"by_size"`
}
