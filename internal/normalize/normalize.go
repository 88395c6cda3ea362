package normalize

import (
	"github.com/gyeh/claimstats/internal/model"
)

// ToExposure converts a RawRecord into a normalized ExposureRecord.
// Malformed cells degrade to zero values; this never fails.
func ToExposure(raw model.RawRecord) model.ExposureRecord {
	days, _ := ParseDays(raw.Days())
	cp1, evaluated := ParseCP1(raw.OverallCP1(), raw.ExposureCP1(), raw.ClaimCP1())

	e := model.ExposureRecord{
		ClaimNumber:      raw.ClaimNumber(),
		Claimant:         raw.Claimant(),
		Coverage:         NormalizeCode(raw.Coverage()),
		ExposureCategory: raw.ExposureCategory(),
		TypeGroup:        raw.TypeGroup(),
		Days:             days,
		AgeBucket:        ParseAgeBucket(raw.AgeLabel(), days),

		Reserves: ParseCurrency(raw.OpenReserves()),
		LowEval:  ParseCurrency(raw.LowEval()),
		HighEval: ParseCurrency(raw.HighEval()),

		CP1:          cp1,
		CP1Evaluated: evaluated,

		EvaluationPhase: raw.EvaluationPhase(),
		DemandType:      raw.DemandType(),
		Team:            raw.Team(),
		Adjuster:        raw.Adjuster(),
		BIStatus:        raw.BIStatus(),

		InLitigation: ParseBool(raw.InLitigation()),
		State:        NormalizeCode(raw.State()),
	}

	if n, ok := ParseDays(raw.DaysSinceNegotiation()); ok {
		e.DaysSinceNegotiation = &n
	}

	for _, f := range model.AllSeverityFlags {
		if ParseBool(raw.Severity(f)) {
			if e.Severity == nil {
				e.Severity = make(map[string]bool)
			}
			e.Severity[f.Key] = true
		}
	}

	return e
}
