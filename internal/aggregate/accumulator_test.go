package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
)

func exposures(rows ...model.RawRecord) []model.ExposureRecord {
	out := make([]model.ExposureRecord, len(rows))
	for i, r := range rows {
		out[i] = normalize.ToExposure(r)
	}
	return out
}

func litRow(claim string) model.RawRecord {
	return model.RawRecord{
		model.ColClaimNumber:  claim,
		model.ColCoverage:     "BI",
		model.ColBIStatus:     "In Progress",
		model.ColOpenReserves: "$50,000",
		model.ColLowEval:      "$0",
		model.ColHighEval:     "$0",
		model.ColOverallCP1:   "Yes",
		model.ColAge:          "365+ Days",
		model.ColTypeGroup:    "LIT",
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuild_MultiPackScenario(t *testing.T) {
	agg, stats := Build(exposures(litRow("65-158035-1"), litRow("65-158035-2")), Options{})

	assert.Equal(t, int64(2), stats.RowsWorkable)

	require.Len(t, agg.MultiPacks.Groups, 1)
	g := agg.MultiPacks.Groups[0]
	assert.Equal(t, "65-158035", g.BaseClaim)
	assert.Equal(t, 2, g.PackSize)
	assert.Len(t, g.Claims, 2)
	assert.True(t, dec("100000").Equal(g.Reserves))

	require.Len(t, agg.MultiPacks.BySize, 1)
	size := agg.MultiPacks.BySize[0]
	assert.Equal(t, 2, size.PackSize)
	assert.Equal(t, 1, size.Groups)
	assert.Equal(t, 2, size.Claims)
	assert.True(t, g.Reserves.Equal(size.Reserves))

	assert.Equal(t, model.Age365Plus, agg.AgeBuckets[0].Bucket)
	assert.Equal(t, 2, agg.AgeBuckets[0].Exposures)
	assert.Equal(t, 2, agg.Totals.NoEvalCount)
	assert.True(t, dec("100000").Equal(agg.Totals.NoEvalReserves))

	var age365 model.CP1Breakdown
	for _, b := range agg.CP1.ByAge {
		if b.Key == string(model.Age365Plus) {
			age365 = b
		}
	}
	assert.Equal(t, 2, age365.Yes)
	assert.Equal(t, 0, age365.No)
	assert.Equal(t, "100.0", age365.Rate)
}

func TestBuild_SettledPendingDocsExcludedEverywhere(t *testing.T) {
	row := litRow("65-200000-1")
	row[model.ColBIStatus] = "Settled Pending Docs"

	agg, stats := Build(exposures(row), Options{})

	assert.Equal(t, int64(1), stats.RowsExcluded)
	assert.Equal(t, 0, agg.Totals.Claims)
	assert.Equal(t, 0, agg.Totals.Exposures)
	assert.True(t, agg.Totals.Reserves.IsZero())
	assert.Empty(t, agg.TypeGroups)
	assert.Equal(t, 0, agg.CP1.Yes+agg.CP1.No)
	assert.Equal(t, "0.0", agg.CP1.Rate)
	for _, b := range agg.AgeBuckets {
		assert.Zero(t, b.Exposures)
	}
	assert.Empty(t, agg.Samples)
}

func TestBuild_InventoryCoversAllCoverages(t *testing.T) {
	pd := model.RawRecord{
		model.ColClaimNumber:  "70-1-1",
		model.ColCoverage:     "PD",
		model.ColOpenReserves: "$9,000",
		model.ColTypeGroup:    "EBI",
		model.ColOverallCP1:   "No",
		model.ColDays:         "20",
	}
	bi := model.RawRecord{
		model.ColClaimNumber:  "70-1-2",
		model.ColCoverage:     "BI",
		model.ColOpenReserves: "$1,000",
		model.ColLowEval:      "500",
		model.ColHighEval:     "1500",
		model.ColTypeGroup:    "EBI",
		model.ColOverallCP1:   "Yes",
		model.ColDays:         "200",
	}

	agg, _ := Build(exposures(pd, bi), Options{})

	assert.Equal(t, 2, agg.Totals.Claims)
	assert.Equal(t, 2, agg.Totals.Exposures)
	assert.Equal(t, 1, agg.Totals.FinancialClaims)
	assert.Equal(t, 1, agg.Totals.FinancialExposures)
	assert.True(t, dec("1000").Equal(agg.Totals.Reserves), "PD reserves are not financial")
	assert.True(t, dec("500").Equal(agg.Totals.LowEval))
	assert.True(t, dec("1500").Equal(agg.Totals.HighEval))
	assert.Equal(t, 0, agg.Totals.NoEvalCount)

	assert.Equal(t, 1, agg.CP1.Yes)
	assert.Equal(t, 1, agg.CP1.No)
	assert.Equal(t, "50.0", agg.CP1.Rate)

	require.Len(t, agg.CP1.ByCoverage, 1)
	assert.Equal(t, "BI", agg.CP1.ByCoverage[0].Key)

	require.Len(t, agg.TypeGroups, 1)
	assert.Equal(t, 2, agg.TypeGroups[0].Exposures)
	assert.Equal(t, 1, agg.TypeGroups[0].FinancialExposures)

	// multi-pack grouping only considers financial coverages
	assert.Empty(t, agg.MultiPacks.Groups)
}

func TestBuild_TypeGroupUniqueClaims(t *testing.T) {
	a := litRow("80-1")
	b := litRow("80-1")
	b[model.ColCoverage] = "UM"
	c := litRow("80-2")
	c[model.ColTypeGroup] = "EBI"
	d := litRow("80-3")
	d[model.ColTypeGroup] = "EBI"

	agg, _ := Build(exposures(a, b, c, d), Options{})

	require.Len(t, agg.TypeGroups, 2)
	assert.Equal(t, "EBI", agg.TypeGroups[0].TypeGroup, "sorted by unique claims, not rows")
	assert.Equal(t, 2, agg.TypeGroups[0].UniqueClaims)
	assert.Equal(t, "LIT", agg.TypeGroups[1].TypeGroup)
	assert.Equal(t, 1, agg.TypeGroups[1].UniqueClaims)
	assert.Equal(t, 2, agg.TypeGroups[1].Exposures)

	assert.Equal(t, 3, agg.Totals.Claims)
	assert.Equal(t, 4, agg.Totals.Exposures)
}

func TestBuild_NoEvaluationRequiresBothZero(t *testing.T) {
	low := litRow("90-1")
	low[model.ColHighEval] = "$10,000"
	high := litRow("90-2")
	high[model.ColLowEval] = "$5,000"
	both := litRow("90-3")

	agg, _ := Build(exposures(low, high, both), Options{})
	assert.Equal(t, 1, agg.Totals.NoEvalCount)
}

func TestBuild_PhasesLitigationOnly(t *testing.T) {
	lit := litRow("91-1")
	lit[model.ColEvaluationPhase] = "Negotiation"
	lit[model.ColDemandType] = "Policy Limits"
	lit2 := litRow("91-2")
	lit2[model.ColTypeGroup] = "lit"
	lit2[model.ColEvaluationPhase] = "Negotiation"
	ebi := litRow("91-3")
	ebi[model.ColTypeGroup] = "EBI"
	ebi[model.ColEvaluationPhase] = "Negotiation"
	ebi[model.ColDemandType] = "Policy Limits"

	agg, _ := Build(exposures(lit, lit2, ebi), Options{})

	require.Len(t, agg.Phases, 1)
	p := agg.Phases[0]
	assert.Equal(t, "Negotiation", p.Phase)
	assert.Equal(t, 2, p.Exposures)
	require.Len(t, p.DemandTypes, 2)
	assert.Equal(t, "Policy Limits", p.DemandTypes[0].Key)
	assert.Equal(t, unknownKey, p.DemandTypes[1].Key)

	// demand-type rollup skips blank demand types but covers every type group
	require.Len(t, agg.DemandTypes, 1)
	assert.Equal(t, 2, agg.DemandTypes[0].Exposures)
}

func TestBuild_NegotiationRecencyAndStatus(t *testing.T) {
	mk := func(claim, days, status string) model.RawRecord {
		r := litRow(claim)
		r[model.ColDaysSinceNegotiation] = days
		r[model.ColBIStatus] = status
		return r
	}
	agg, _ := Build(exposures(
		mk("92-1", "0", "In Progress"),
		mk("92-2", "30", "In Progress"),
		mk("92-3", "31", "Settled"),
		mk("92-4", "90", ""),
		mk("92-5", "91", "Negotiating"),
		mk("92-6", "", ""),
		mk("92-7", "n/a", ""),
	), Options{})

	got := map[string]int{}
	for _, b := range agg.NegotiationRecency {
		got[b.Key] = b.Exposures
	}
	assert.Equal(t, map[string]int{
		model.Recency0To30:         2,
		model.Recency31To60:        1,
		model.Recency61To90:        1,
		model.Recency90Plus:        1,
		model.RecencyNoNegotiation: 2,
	}, got)

	require.Len(t, agg.BIStatus, 3)
	assert.Equal(t, model.BIStatusInProgress, agg.BIStatus[0].Key)
	assert.Equal(t, 2, agg.BIStatus[0].Exposures)
	assert.Equal(t, 1, agg.BIStatus[1].Exposures)
	assert.Equal(t, 4, agg.BIStatus[2].Exposures)
}

func TestBuild_SeverityCounts(t *testing.T) {
	a := litRow("93-1")
	a["Fatality"] = "Yes"
	a["Surgery"] = "Y"
	b := litRow("93-2")
	b["Surgery"] = "yes"
	pd := litRow("93-3")
	pd[model.ColCoverage] = "PD"
	pd["Surgery"] = "yes"

	agg, _ := Build(exposures(a, b, pd), Options{})

	assert.Equal(t, 1, agg.Severity[model.FlagFatality])
	assert.Equal(t, 2, agg.Severity[model.FlagSurgery])
	assert.Equal(t, 0, agg.Severity[model.FlagHospitalization])
	assert.Len(t, agg.Severity, len(model.AllSeverityFlags))
}

func TestBuild_CP1RateBounds(t *testing.T) {
	noCP1 := litRow("94-1")
	delete(noCP1, model.ColOverallCP1)

	agg, _ := Build(exposures(noCP1), Options{})
	assert.Equal(t, "0.0", agg.CP1.Rate)
	assert.Equal(t, 0, agg.CP1.Yes+agg.CP1.No)
}

func TestBuild_SampleLimitAndSkippedRows(t *testing.T) {
	rows := []model.RawRecord{litRow("95-1"), litRow("95-2"), litRow("95-3"), {model.ColCoverage: "BI"}}
	agg, stats := Build(exposures(rows...), Options{SampleLimit: 2})

	assert.Len(t, agg.Samples, 2)
	assert.Equal(t, "95-1", agg.Samples[0].ClaimNumber)
	assert.Equal(t, int64(1), stats.RowsSkipped)
	assert.Equal(t, int64(4), stats.RowsRead)
}

func TestBuild_Idempotent(t *testing.T) {
	rows := []model.RawRecord{
		litRow("96-1-1"), litRow("96-1-2"), litRow("96-1-3"),
		litRow("97-2-1"), litRow("97-2-2"),
	}
	rows[3][model.ColTypeGroup] = "EBI"
	rows[4][model.ColDemandType] = "Time Limit"

	first, _ := Build(exposures(rows...), Options{})
	second, _ := Build(exposures(rows...), Options{})

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestMerge_MatchesSinglePass(t *testing.T) {
	rows := []model.RawRecord{
		litRow("98-1-1"), litRow("98-1-2"), litRow("98-2-1"), litRow("98-2-2"), litRow("98-3"),
	}
	rows[4][model.ColCoverage] = "PD"
	recs := exposures(rows...)

	whole, wholeStats := Build(recs, Options{})

	left := New(Options{})
	for i := range recs[:2] {
		left.Add(&recs[i])
	}
	right := New(Options{})
	for i := 2; i < len(recs); i++ {
		right.Add(&recs[i])
	}
	left.Merge(right)

	merged := left.Result()
	assert.Equal(t, wholeStats, left.Stats())

	a, err := json.Marshal(whole)
	require.NoError(t, err)
	b, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestCP1Rate(t *testing.T) {
	assert.Equal(t, "0.0", CP1Rate(0, 0))
	assert.Equal(t, "100.0", CP1Rate(3, 0))
	assert.Equal(t, "33.3", CP1Rate(1, 2))
	assert.Equal(t, "66.7", CP1Rate(2, 1))
}

func TestRecencyBucket(t *testing.T) {
	v := func(n int) *int { return &n }
	assert.Equal(t, model.RecencyNoNegotiation, RecencyBucket(nil))
	assert.Equal(t, model.Recency0To30, RecencyBucket(v(30)))
	assert.Equal(t, model.Recency31To60, RecencyBucket(v(60)))
	assert.Equal(t, model.Recency61To90, RecencyBucket(v(61)))
	assert.Equal(t, model.Recency90Plus, RecencyBucket(v(365)))
}
