package model

import "github.com/shopspring/decimal"

// AgeBucket is one of the four claim-age ranges used in reporting.
type AgeBucket string

const (
	Age365Plus  AgeBucket = "365+"
	Age181To365 AgeBucket = "181-365"
	Age61To180  AgeBucket = "61-180"
	AgeUnder60  AgeBucket = "<60"
)

// AllAgeBuckets lists the buckets oldest first, the order used in reports.
var AllAgeBuckets = []AgeBucket{Age365Plus, Age181To365, Age61To180, AgeUnder60}

// ExposureRecord is the normalized view of one export row (one coverage line
// of a claim). It is built once per run and never mutated.
type ExposureRecord struct {
	ClaimNumber      string          `json:"claim_number"`
	Claimant         string          `json:"claimant,omitempty"`
	Coverage         string          `json:"coverage"`
	ExposureCategory string          `json:"exposure_category,omitempty"`
	TypeGroup        string          `json:"type_group"`
	Days             int             `json:"days"`
	AgeBucket        AgeBucket       `json:"age_bucket"`
	Reserves         decimal.Decimal `json:"reserves"`
	LowEval          decimal.Decimal `json:"low_eval"`
	HighEval         decimal.Decimal `json:"high_eval"`

	// CP1 is the derived escalation flag; CP1Evaluated is false when every
	// CP1 column was blank, in which case the row is left out of CP1 rates.
	CP1          bool `json:"cp1"`
	CP1Evaluated bool `json:"cp1_evaluated"`

	EvaluationPhase string `json:"evaluation_phase,omitempty"`
	DemandType      string `json:"demand_type,omitempty"`
	Team            string `json:"team,omitempty"`
	Adjuster        string `json:"adjuster,omitempty"`
	BIStatus        string `json:"bi_status,omitempty"`

	// DaysSinceNegotiation is nil when the source value is blank or unparseable.
	DaysSinceNegotiation *int `json:"days_since_negotiation,omitempty"`

	InLitigation bool            `json:"in_litigation"`
	State        string          `json:"state,omitempty"`
	Severity     map[string]bool `json:"severity,omitempty"`
}

// HasFlag reports whether the severity flag with the given key is set.
func (e *ExposureRecord) HasFlag(key string) bool {
	return e.Severity[key]
}

// NoEvaluation is true when both low and high evaluations are exactly zero.
func (e *ExposureRecord) NoEvaluation() bool {
	return e.LowEval.IsZero() && e.HighEval.IsZero()
}

// AggravatingFactors counts the set severity flags other than fatality,
// surgery and hospitalization, which are scored on their own.
func (e *ExposureRecord) AggravatingFactors() int {
	n := 0
	for key, set := range e.Severity {
		if !set {
			continue
		}
		switch key {
		case FlagFatality, FlagSurgery, FlagHospitalization:
			continue
		}
		n++
	}
	return n
}
