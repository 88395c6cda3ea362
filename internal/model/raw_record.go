package model

import "strings"

// RawRecord is one row of the source export: column name to raw cell value.
// Missing columns read as the empty string.
type RawRecord map[string]string

// Get returns the trimmed value of the named column.
func (r RawRecord) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Has reports whether the column is present and non-blank.
func (r RawRecord) Has(col string) bool {
	return r.Get(col) != ""
}

func (r RawRecord) ClaimNumber() string          { return r.Get(ColClaimNumber) }
func (r RawRecord) Claimant() string             { return r.Get(ColClaimant) }
func (r RawRecord) Coverage() string             { return strings.ToUpper(r.Get(ColCoverage)) }
func (r RawRecord) ExposureCategory() string     { return r.Get(ColExposureCategory) }
func (r RawRecord) TypeGroup() string            { return r.Get(ColTypeGroup) }
func (r RawRecord) Days() string                 { return r.Get(ColDays) }
func (r RawRecord) AgeLabel() string             { return r.Get(ColAge) }
func (r RawRecord) OpenReserves() string         { return r.Get(ColOpenReserves) }
func (r RawRecord) LowEval() string              { return r.Get(ColLowEval) }
func (r RawRecord) HighEval() string             { return r.Get(ColHighEval) }
func (r RawRecord) OverallCP1() string           { return r.Get(ColOverallCP1) }
func (r RawRecord) ExposureCP1() string          { return r.Get(ColExposureCP1) }
func (r RawRecord) ClaimCP1() string             { return r.Get(ColClaimCP1) }
func (r RawRecord) EvaluationPhase() string      { return r.Get(ColEvaluationPhase) }
func (r RawRecord) DemandType() string           { return r.Get(ColDemandType) }
func (r RawRecord) Team() string                 { return r.Get(ColTeam) }
func (r RawRecord) Adjuster() string             { return r.Get(ColAdjuster) }
func (r RawRecord) BIStatus() string             { return r.Get(ColBIStatus) }
func (r RawRecord) DaysSinceNegotiation() string { return r.Get(ColDaysSinceNegotiation) }
func (r RawRecord) InLitigation() string         { return r.Get(ColInLitigation) }
func (r RawRecord) State() string                { return strings.ToUpper(r.Get(ColState)) }

// Severity returns the raw value of a severity flag column.
func (r RawRecord) Severity(f SeverityFlag) string {
	return r.Get(f.Column)
}
