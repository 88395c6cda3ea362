package model

import "github.com/shopspring/decimal"

// RiskTier is the discrete tier assigned from a risk score.
type RiskTier string

const (
	TierCritical RiskTier = "CRITICAL"
	TierHigh     RiskTier = "HIGH"
	TierModerate RiskTier = "MODERATE"
)

// AllRiskTiers lists tiers from most to least severe.
var AllRiskTiers = []RiskTier{TierCritical, TierHigh, TierModerate}

// RiskPattern identifies one rule of the risk scoring model. The identifiers
// are consumed by weight backtesting and must stay stable.
type RiskPattern string

const (
	PatternHighRiskState      RiskPattern = "HIGH_RISK_STATE"
	PatternReservesNearLimit  RiskPattern = "RESERVES_NEAR_LIMIT"
	PatternReservesOverLimit  RiskPattern = "RESERVES_EXCEED_LIMIT"
	PatternLitigation         RiskPattern = "IN_LITIGATION"
	PatternCP1                RiskPattern = "CP1_FLAGGED"
	PatternAged365            RiskPattern = "AGED_365_PLUS"
	PatternSurgery            RiskPattern = "SURGERY"
	PatternFatality           RiskPattern = "FATALITY"
	PatternHospitalization    RiskPattern = "HOSPITALIZATION"
	PatternAggravatingFactors RiskPattern = "AGGRAVATING_FACTORS"
	PatternEvalOverLimit      RiskPattern = "HIGH_EVAL_EXCEEDS_LIMIT"
)

// AllRiskPatterns lists every pattern in evaluation order.
var AllRiskPatterns = []RiskPattern{
	PatternHighRiskState,
	PatternReservesNearLimit,
	PatternReservesOverLimit,
	PatternLitigation,
	PatternCP1,
	PatternAged365,
	PatternSurgery,
	PatternFatality,
	PatternHospitalization,
	PatternAggravatingFactors,
	PatternEvalOverLimit,
}

// RiskClaim is one BI claim that passed the risk gate.
type RiskClaim struct {
	ClaimNumber         string          `json:"claim_number"`
	Claimant            string          `json:"claimant,omitempty"`
	State               string          `json:"state"`
	TypeGroup           string          `json:"type_group"`
	Adjuster            string          `json:"adjuster,omitempty"`
	Reserves            decimal.Decimal `json:"reserves"`
	HighEval            decimal.Decimal `json:"high_eval"`
	PolicyLimit         decimal.Decimal `json:"policy_limit"`
	ReserveToLimitRatio float64         `json:"reserve_to_limit_ratio"`
	Days                int             `json:"days"`
	RiskScore           int             `json:"risk_score"`
	Tier                RiskTier        `json:"tier"`
	PatternMatches      []RiskPattern   `json:"pattern_matches"`
	Reasons             []string        `json:"reasons"`
}

// TierTotal is the count and reserves of one tier.
type TierTotal struct {
	Tier     RiskTier        `json:"tier"`
	Claims   int             `json:"claims"`
	Reserves decimal.Decimal `json:"reserves"`
}

// StateRisk is the count and reserves of flagged claims in one state.
type StateRisk struct {
	State    string          `json:"state"`
	Claims   int             `json:"claims"`
	Reserves decimal.Decimal `json:"reserves"`
}

// PatternCount is how many flagged claims triggered one pattern.
type PatternCount struct {
	Pattern RiskPattern `json:"pattern"`
	Claims  int         `json:"claims"`
}

// RiskSummary is the portfolio-level view of the flagged claims.
type RiskSummary struct {
	TotalClaims        int             `json:"total_claims"`
	Tiers              []TierTotal     `json:"tiers"`
	TotalExposure      decimal.Decimal `json:"total_exposure"`
	PotentialOverLimit decimal.Decimal `json:"potential_over_limit"`
	ByState            []StateRisk     `json:"by_state"`
	ByPattern          []PatternCount  `json:"by_pattern"`
}

// RiskReport bundles the flagged claims with their summary.
type RiskReport struct {
	Claims  []RiskClaim `json:"claims"`
	Summary RiskSummary `json:"summary"`
}
