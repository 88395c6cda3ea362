package model

// Column names in the claims export. These are a contract with the upstream
// export generator and are matched exactly.
const (
	ColClaimNumber          = "Claim#"
	ColClaimant             = "Claimant"
	ColCoverage             = "Coverage"
	ColExposureCategory     = "Exposure Category"
	ColTypeGroup            = "Type Group"
	ColDays                 = "Days"
	ColAge                  = "Age"
	ColOpenReserves         = "Open Reserves"
	ColLowEval              = "Low"
	ColHighEval             = "High"
	ColOverallCP1           = "Overall CP1 Flag"
	ColExposureCP1          = "Exposure CP1 Flag"
	ColClaimCP1             = "Claim CP1 Flag"
	ColEvaluationPhase      = "Evaluation Phase"
	ColDemandType           = "Demand Type"
	ColTeam                 = "Team"
	ColAdjuster             = "Adjuster"
	ColBIStatus             = "BI Status"
	ColDaysSinceNegotiation = "Days Since Negotiation Date"
	ColInLitigation         = "In Litigation"
	ColState                = "Accident Location State"
)

// SeverityFlag is one yes/no injury or severity column in the export.
type SeverityFlag struct {
	Key    string // e.g. "fatality"
	Column string // export column, e.g. "Fatality"
}

// Severity flag keys.
const (
	FlagFatality            = "fatality"
	FlagSurgery             = "surgery"
	FlagHospitalization     = "hospitalization"
	FlagMedsVsLimits        = "meds_vs_limits"
	FlagLossOfConsciousness = "loss_of_consciousness"
	FlagLifeCarePlanner     = "life_care_planner"
	FlagInjections          = "injections"
	FlagEmergencyRoom       = "emergency_room"
	FlagAmbulance           = "ambulance"
	FlagFractures           = "fractures"
	FlagBrainInjury         = "brain_injury"
	FlagSpinalInjury        = "spinal_injury"
	FlagPermanentImpairment = "permanent_impairment"
	FlagScarring            = "scarring"
	FlagLostWages           = "lost_wages"
	FlagPregnancy           = "pregnancy"
	FlagMinorClaimant       = "minor_claimant"
)

// AllSeverityFlags lists the severity columns in canonical order.
var AllSeverityFlags = []SeverityFlag{
	{Key: FlagFatality, Column: "Fatality"},
	{Key: FlagSurgery, Column: "Surgery"},
	{Key: FlagHospitalization, Column: "Hospitalization"},
	{Key: FlagMedsVsLimits, Column: "Meds vs Limits"},
	{Key: FlagLossOfConsciousness, Column: "Loss of Consciousness"},
	{Key: FlagLifeCarePlanner, Column: "Life Care Planner"},
	{Key: FlagInjections, Column: "Injections"},
	{Key: FlagEmergencyRoom, Column: "Emergency Room"},
	{Key: FlagAmbulance, Column: "Ambulance"},
	{Key: FlagFractures, Column: "Fractures"},
	{Key: FlagBrainInjury, Column: "Brain Injury"},
	{Key: FlagSpinalInjury, Column: "Spinal Injury"},
	{Key: FlagPermanentImpairment, Column: "Permanent Impairment"},
	{Key: FlagScarring, Column: "Scarring"},
	{Key: FlagLostWages, Column: "Lost Wages"},
	{Key: FlagPregnancy, Column: "Pregnancy"},
	{Key: FlagMinorClaimant, Column: "Minor Claimant"},
}

// SeverityFlagByKey returns the SeverityFlag for the given key, or ok=false.
func SeverityFlagByKey(key string) (SeverityFlag, bool) {
	for _, f := range AllSeverityFlags {
		if f.Key == key {
			return f, true
		}
	}
	return SeverityFlag{}, false
}

// KnownColumns returns every column the engine reads, in a stable order.
func KnownColumns() []string {
	cols := []string{
		ColClaimNumber, ColClaimant, ColCoverage, ColExposureCategory, ColTypeGroup,
		ColDays, ColAge, ColOpenReserves, ColLowEval, ColHighEval,
		ColOverallCP1, ColExposureCP1, ColClaimCP1, ColEvaluationPhase, ColDemandType,
		ColTeam, ColAdjuster, ColBIStatus, ColDaysSinceNegotiation, ColInLitigation, ColState,
	}
	for _, f := range AllSeverityFlags {
		cols = append(cols, f.Column)
	}
	return cols
}
