package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimstats/internal/model"
)

// Policy holds the tables and thresholds of the scoring model. It is plain
// data so callers can substitute their own.
type Policy struct {
	// StateLimits maps a state abbreviation to its BI policy limit.
	StateLimits map[string]decimal.Decimal
	// DefaultLimit applies to states missing from StateLimits.
	DefaultLimit decimal.Decimal
	// HighRiskStates maps a state to its multiplier; the pattern weight is
	// the multiplier times ten.
	HighRiskStates map[string]float64
	// Weights holds the fixed weight of every other pattern.
	Weights map[model.RiskPattern]int

	NearLimitRatio    float64
	EvalLimitMultiple float64
	MinAggravating    int
	GateMinPatterns   int
	GateMinScore      int
	CriticalScore     int
	HighScore         int
}

// DefaultPolicy returns the production scoring tables.
func DefaultPolicy() Policy {
	return Policy{
		StateLimits: map[string]decimal.Decimal{
			"AZ": decimal.NewFromInt(25000),
			"CA": decimal.NewFromInt(15000),
			"CO": decimal.NewFromInt(25000),
			"FL": decimal.NewFromInt(10000),
			"GA": decimal.NewFromInt(25000),
			"IL": decimal.NewFromInt(25000),
			"LA": decimal.NewFromInt(15000),
			"MI": decimal.NewFromInt(50000),
			"NJ": decimal.NewFromInt(15000),
			"NM": decimal.NewFromInt(25000),
			"NV": decimal.NewFromInt(25000),
			"NY": decimal.NewFromInt(25000),
			"OH": decimal.NewFromInt(25000),
			"OK": decimal.NewFromInt(25000),
			"PA": decimal.NewFromInt(15000),
			"TX": decimal.NewFromInt(30000),
			"UT": decimal.NewFromInt(25000),
			"WA": decimal.NewFromInt(25000),
		},
		DefaultLimit: decimal.NewFromInt(25000),
		HighRiskStates: map[string]float64{
			"CA": 2.0,
			"LA": 2.0,
			"FL": 1.8,
			"NV": 1.6,
			"TX": 1.5,
			"NY": 1.5,
			"GA": 1.4,
			"NM": 1.3,
		},
		Weights: map[model.RiskPattern]int{
			model.PatternReservesNearLimit:  25,
			model.PatternReservesOverLimit:  35,
			model.PatternLitigation:         20,
			model.PatternCP1:                15,
			model.PatternAged365:            15,
			model.PatternSurgery:            20,
			model.PatternFatality:           40,
			model.PatternHospitalization:    15,
			model.PatternAggravatingFactors: 15,
			model.PatternEvalOverLimit:      20,
		},
		NearLimitRatio:    0.8,
		EvalLimitMultiple: 1.5,
		MinAggravating:    3,
		GateMinPatterns:   2,
		GateMinScore:      40,
		CriticalScore:     80,
		HighScore:         50,
	}
}

// LimitFor returns the policy limit for a state, falling back to DefaultLimit.
func (p Policy) LimitFor(state string) decimal.Decimal {
	if l, ok := p.StateLimits[strings.ToUpper(state)]; ok {
		return l
	}
	return p.DefaultLimit
}

// StateWeight returns the high-risk-state weight, or 0 if the state is not
// high risk.
func (p Policy) StateWeight(state string) int {
	m, ok := p.HighRiskStates[strings.ToUpper(state)]
	if !ok || m <= 0 {
		return 0
	}
	return int(m*10 + 0.5)
}

// Tier maps a score to its tier.
func (p Policy) Tier(score int) model.RiskTier {
	switch {
	case score >= p.CriticalScore:
		return model.TierCritical
	case score >= p.HighScore:
		return model.TierHigh
	default:
		return model.TierModerate
	}
}

// Validate checks the policy for values that would corrupt scoring.
func (p Policy) Validate() error {
	if !p.DefaultLimit.IsPositive() {
		return fmt.Errorf("default policy limit must be positive, got %s", p.DefaultLimit)
	}
	for state, l := range p.StateLimits {
		if !l.IsPositive() {
			return fmt.Errorf("policy limit for %s must be positive, got %s", state, l)
		}
	}
	for state, m := range p.HighRiskStates {
		if m < 0 {
			return fmt.Errorf("high-risk multiplier for %s must not be negative, got %g", state, m)
		}
	}
	for pattern, w := range p.Weights {
		if !KnownPattern(pattern) || pattern == model.PatternHighRiskState {
			return fmt.Errorf("unknown weighted pattern %q", pattern)
		}
		if w < 0 {
			return fmt.Errorf("weight for %s must not be negative, got %d", pattern, w)
		}
	}
	if p.HighScore > p.CriticalScore {
		return fmt.Errorf("high tier score %d above critical tier score %d", p.HighScore, p.CriticalScore)
	}
	return nil
}

// KnownPattern reports whether the pattern is part of the scoring model.
func KnownPattern(pattern model.RiskPattern) bool {
	for _, known := range model.AllRiskPatterns {
		if known == pattern {
			return true
		}
	}
	return false
}
