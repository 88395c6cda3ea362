// Package risk scores workable BI exposures against a weighted set of risk
// patterns and tiers the claims that pass the gate.
package risk

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimstats/internal/filter"
	"github.com/gyeh/claimstats/internal/model"
)

const unknownState = "Unknown"

// Assessment is the raw scoring result for one exposure, before gating.
type Assessment struct {
	PolicyLimit decimal.Decimal
	Ratio       float64
	Score       int
	Patterns    []model.RiskPattern
	Reasons     []string
}

func (a *Assessment) hit(p model.RiskPattern, weight int, reason string) {
	a.Score += weight
	a.Patterns = append(a.Patterns, p)
	a.Reasons = append(a.Reasons, reason)
}

// Score evaluates every pattern against one exposure.
func Score(e *model.ExposureRecord, p Policy) Assessment {
	limit := p.LimitFor(e.State)
	a := Assessment{PolicyLimit: limit}
	if limit.IsPositive() {
		a.Ratio = e.Reserves.Div(limit).InexactFloat64()
	}

	if w := p.StateWeight(e.State); w > 0 {
		a.hit(model.PatternHighRiskState, w,
			fmt.Sprintf("High-risk venue %s (x%.1f)", e.State, p.HighRiskStates[e.State]))
	}

	switch {
	case limit.IsPositive() && e.Reserves.GreaterThan(limit):
		a.hit(model.PatternReservesOverLimit, p.Weights[model.PatternReservesOverLimit],
			fmt.Sprintf("Reserves exceed $%s limit by $%s", limit.StringFixed(0), e.Reserves.Sub(limit).StringFixed(0)))
	case limit.IsPositive() && a.Ratio >= p.NearLimitRatio:
		a.hit(model.PatternReservesNearLimit, p.Weights[model.PatternReservesNearLimit],
			fmt.Sprintf("Reserves at %.0f%% of $%s limit", a.Ratio*100, limit.StringFixed(0)))
	}

	if e.InLitigation || filter.IsLitigationGroup(e.TypeGroup) {
		a.hit(model.PatternLitigation, p.Weights[model.PatternLitigation], "In litigation")
	}
	if e.CP1 {
		a.hit(model.PatternCP1, p.Weights[model.PatternCP1], "CP1 flagged")
	}
	if e.AgeBucket == model.Age365Plus {
		a.hit(model.PatternAged365, p.Weights[model.PatternAged365], "Open 365+ days")
	}
	if e.HasFlag(model.FlagSurgery) {
		a.hit(model.PatternSurgery, p.Weights[model.PatternSurgery], "Surgery")
	}
	if e.HasFlag(model.FlagFatality) {
		a.hit(model.PatternFatality, p.Weights[model.PatternFatality], "Fatality")
	}
	if e.HasFlag(model.FlagHospitalization) {
		a.hit(model.PatternHospitalization, p.Weights[model.PatternHospitalization], "Hospitalization")
	}
	if n := e.AggravatingFactors(); p.MinAggravating > 0 && n >= p.MinAggravating {
		a.hit(model.PatternAggravatingFactors, p.Weights[model.PatternAggravatingFactors],
			fmt.Sprintf("%d aggravating factors", n))
	}
	if evalCap := limit.Mul(decimal.NewFromFloat(p.EvalLimitMultiple)); limit.IsPositive() && e.HighEval.GreaterThan(evalCap) {
		a.hit(model.PatternEvalOverLimit, p.Weights[model.PatternEvalOverLimit],
			fmt.Sprintf("High eval $%s exceeds %.1fx limit", e.HighEval.StringFixed(0), p.EvalLimitMultiple))
	}

	return a
}

// Passes reports whether an assessment clears the gate: enough distinct
// patterns or a high enough score.
func (p Policy) Passes(a Assessment) bool {
	return len(a.Patterns) >= p.GateMinPatterns || a.Score >= p.GateMinScore
}

// Classify scores every workable BI exposure and returns the gated claims,
// highest score first, with the portfolio summary.
func Classify(records []model.ExposureRecord, p Policy) model.RiskReport {
	claims := make([]model.RiskClaim, 0)
	for i := range records {
		e := &records[i]
		if e.ClaimNumber == "" || !filter.IsWorkable(e) || !filter.IsBodilyInjury(e.Coverage) {
			continue
		}
		a := Score(e, p)
		if !p.Passes(a) {
			continue
		}
		claims = append(claims, model.RiskClaim{
			ClaimNumber:         e.ClaimNumber,
			Claimant:            e.Claimant,
			State:               e.State,
			TypeGroup:           e.TypeGroup,
			Adjuster:            e.Adjuster,
			Reserves:            e.Reserves,
			HighEval:            e.HighEval,
			PolicyLimit:         a.PolicyLimit,
			ReserveToLimitRatio: a.Ratio,
			Days:                e.Days,
			RiskScore:           a.Score,
			Tier:                p.Tier(a.Score),
			PatternMatches:      a.Patterns,
			Reasons:             a.Reasons,
		})
	}

	sort.SliceStable(claims, func(i, j int) bool {
		if claims[i].RiskScore != claims[j].RiskScore {
			return claims[i].RiskScore > claims[j].RiskScore
		}
		return claims[i].ClaimNumber < claims[j].ClaimNumber
	})

	return model.RiskReport{
		Claims:  claims,
		Summary: Summarize(claims),
	}
}

// Summarize builds the portfolio view of gated claims.
func Summarize(claims []model.RiskClaim) model.RiskSummary {
	s := model.RiskSummary{
		TotalClaims:        len(claims),
		TotalExposure:      decimal.Zero,
		PotentialOverLimit: decimal.Zero,
	}

	tiers := make(map[model.RiskTier]*model.TierTotal)
	for _, t := range model.AllRiskTiers {
		tiers[t] = &model.TierTotal{Tier: t, Reserves: decimal.Zero}
	}
	states := make(map[string]*model.StateRisk)
	patterns := make(map[model.RiskPattern]int)

	for _, c := range claims {
		s.TotalExposure = s.TotalExposure.Add(c.Reserves)
		if c.Reserves.GreaterThan(c.PolicyLimit) {
			s.PotentialOverLimit = s.PotentialOverLimit.Add(c.Reserves.Sub(c.PolicyLimit))
		}

		if t, ok := tiers[c.Tier]; ok {
			t.Claims++
			t.Reserves = t.Reserves.Add(c.Reserves)
		}

		state := c.State
		if state == "" {
			state = unknownState
		}
		sr, ok := states[state]
		if !ok {
			sr = &model.StateRisk{State: state, Reserves: decimal.Zero}
			states[state] = sr
		}
		sr.Claims++
		sr.Reserves = sr.Reserves.Add(c.Reserves)

		for _, p := range c.PatternMatches {
			patterns[p]++
		}
	}

	for _, t := range model.AllRiskTiers {
		s.Tiers = append(s.Tiers, *tiers[t])
	}

	s.ByState = make([]model.StateRisk, 0, len(states))
	for _, sr := range states {
		s.ByState = append(s.ByState, *sr)
	}
	sort.Slice(s.ByState, func(i, j int) bool {
		if s.ByState[i].Claims != s.ByState[j].Claims {
			return s.ByState[i].Claims > s.ByState[j].Claims
		}
		return s.ByState[i].State < s.ByState[j].State
	})

	// Ties keep the pattern evaluation order.
	s.ByPattern = make([]model.PatternCount, 0, len(patterns))
	for _, p := range model.AllRiskPatterns {
		if n := patterns[p]; n > 0 {
			s.ByPattern = append(s.ByPattern, model.PatternCount{Pattern: p, Claims: n})
		}
	}
	sort.SliceStable(s.ByPattern, func(i, j int) bool {
		return s.ByPattern[i].Claims > s.ByPattern[j].Claims
	})

	return s
}
