// Package aggregate implements the single-pass aggregation over normalized
// exposure records. An Accumulator is a fold: Add one record at a time, Merge
// partial accumulators, then take the Result.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimstats/internal/filter"
	"github.com/gyeh/claimstats/internal/model"
)

// DefaultSampleLimit bounds the retained sample rows when no limit is set.
const DefaultSampleLimit = 500

const unknownKey = "Unknown"

// Options tunes an aggregation pass.
type Options struct {
	// SampleLimit bounds Aggregate.Samples; 0 keeps every financial row.
	SampleLimit int
}

// Stats counts how rows were handled during a pass.
type Stats struct {
	RowsRead     int64
	RowsWorkable int64
	RowsExcluded int64
	RowsSkipped  int64
}

type claimSet map[string]struct{}

func (s claimSet) add(cn string) { s[cn] = struct{}{} }

func (s claimSet) merge(o claimSet) {
	for cn := range o {
		s[cn] = struct{}{}
	}
}

type amount struct {
	exposures int
	reserves  decimal.Decimal
}

func (a *amount) add(reserves decimal.Decimal) {
	a.exposures++
	a.reserves = a.reserves.Add(reserves)
}

func (a *amount) merge(o *amount) {
	a.exposures += o.exposures
	a.reserves = a.reserves.Add(o.reserves)
}

type ageAcc struct {
	claims    claimSet
	exposures int
	reserves  decimal.Decimal
}

type groupAcc struct {
	claims       claimSet
	exposures    int
	finExposures int
	reserves     decimal.Decimal
	lowEval      decimal.Decimal
	highEval     decimal.Decimal
	noEval       int
}

type phaseAcc struct {
	amount
	demand map[string]*amount
}

// Accumulator folds exposure records into aggregate totals. The zero value is
// not usable; create one with New.
type Accumulator struct {
	opts  Options
	stats Stats

	claims       claimSet
	finClaims    claimSet
	exposures    int
	finExposures int

	reserves       decimal.Decimal
	lowEval        decimal.Decimal
	highEval       decimal.Decimal
	noEval         int
	noEvalReserves decimal.Decimal

	ages   map[model.AgeBucket]*ageAcc
	groups map[string]*groupAcc

	cp1           tally
	cp1ByCoverage map[string]*tally
	cp1ByType     map[string]*tally
	cp1ByAge      map[model.AgeBucket]*tally
	cp1ByStatus   map[string]*tally

	phases   map[string]*phaseAcc
	recency  map[string]*amount
	biStatus map[string]*amount
	demand   map[string]*amount
	severity map[string]int

	packs   []model.PackMember
	samples []model.ExposureRecord
}

// New returns an empty Accumulator.
func New(opts Options) *Accumulator {
	return &Accumulator{
		opts:          opts,
		claims:        make(claimSet),
		finClaims:     make(claimSet),
		ages:          make(map[model.AgeBucket]*ageAcc),
		groups:        make(map[string]*groupAcc),
		cp1ByCoverage: make(map[string]*tally),
		cp1ByType:     make(map[string]*tally),
		cp1ByAge:      make(map[model.AgeBucket]*tally),
		cp1ByStatus:   make(map[string]*tally),
		phases:        make(map[string]*phaseAcc),
		recency:       make(map[string]*amount),
		biStatus:      make(map[string]*amount),
		demand:        make(map[string]*amount),
		severity:      make(map[string]int),
	}
}

// Build folds all records in order and returns the aggregate and row stats.
func Build(records []model.ExposureRecord, opts Options) (model.Aggregate, Stats) {
	acc := New(opts)
	for i := range records {
		acc.Add(&records[i])
	}
	return acc.Result(), acc.Stats()
}

// Stats returns the row counters accumulated so far.
func (a *Accumulator) Stats() Stats {
	return a.stats
}

// Add folds one record. Rows without a claim number or that are not
// workable contribute nothing.
func (a *Accumulator) Add(e *model.ExposureRecord) {
	a.stats.RowsRead++
	if e.ClaimNumber == "" {
		a.stats.RowsSkipped++
		return
	}
	if !filter.IsWorkable(e) {
		a.stats.RowsExcluded++
		return
	}
	a.stats.RowsWorkable++

	// Inventory totals cover every coverage.
	typeGroup := keyOrUnknown(e.TypeGroup)
	a.claims.add(e.ClaimNumber)
	a.exposures++

	age := a.age(e.AgeBucket)
	age.claims.add(e.ClaimNumber)
	age.exposures++

	group := a.group(typeGroup)
	group.claims.add(e.ClaimNumber)
	group.exposures++

	if e.CP1Evaluated {
		a.cp1.add(e.CP1)
	}

	if !filter.IsFinancialCoverage(e.Coverage) {
		return
	}

	a.finClaims.add(e.ClaimNumber)
	a.finExposures++
	a.reserves = a.reserves.Add(e.Reserves)
	a.lowEval = a.lowEval.Add(e.LowEval)
	a.highEval = a.highEval.Add(e.HighEval)
	noEval := e.NoEvaluation()
	if noEval {
		a.noEval++
		a.noEvalReserves = a.noEvalReserves.Add(e.Reserves)
	}

	age.reserves = age.reserves.Add(e.Reserves)

	group.finExposures++
	group.reserves = group.reserves.Add(e.Reserves)
	group.lowEval = group.lowEval.Add(e.LowEval)
	group.highEval = group.highEval.Add(e.HighEval)
	if noEval {
		group.noEval++
	}

	statusBucket := filter.BIStatusBucket(e.BIStatus)
	if e.CP1Evaluated {
		tallyFor(a.cp1ByCoverage, e.Coverage).add(e.CP1)
		tallyFor(a.cp1ByType, typeGroup).add(e.CP1)
		tallyFor(a.cp1ByStatus, statusBucket).add(e.CP1)
		if filter.IsBodilyInjury(e.Coverage) {
			t, ok := a.cp1ByAge[e.AgeBucket]
			if !ok {
				t = &tally{}
				a.cp1ByAge[e.AgeBucket] = t
			}
			t.add(e.CP1)
		}
	}

	if filter.IsLitigationGroup(e.TypeGroup) {
		phase := keyOrUnknown(e.EvaluationPhase)
		p, ok := a.phases[phase]
		if !ok {
			p = &phaseAcc{demand: make(map[string]*amount)}
			a.phases[phase] = p
		}
		p.add(e.Reserves)
		amountFor(p.demand, keyOrUnknown(e.DemandType)).add(e.Reserves)
	}

	amountFor(a.recency, RecencyBucket(e.DaysSinceNegotiation)).add(e.Reserves)
	amountFor(a.biStatus, statusBucket).add(e.Reserves)
	if e.DemandType != "" {
		amountFor(a.demand, e.DemandType).add(e.Reserves)
	}

	for key, set := range e.Severity {
		if set {
			a.severity[key]++
		}
	}

	a.packs = append(a.packs, model.PackMember{
		ClaimNumber: e.ClaimNumber,
		Claimant:    e.Claimant,
		Coverage:    e.Coverage,
		Reserves:    e.Reserves,
	})
	if a.opts.SampleLimit == 0 || len(a.samples) < a.opts.SampleLimit {
		a.samples = append(a.samples, *e)
	}
}

// Merge folds another accumulator into a. Records in o are treated as
// coming after those already in a.
func (a *Accumulator) Merge(o *Accumulator) {
	a.stats.RowsRead += o.stats.RowsRead
	a.stats.RowsWorkable += o.stats.RowsWorkable
	a.stats.RowsExcluded += o.stats.RowsExcluded
	a.stats.RowsSkipped += o.stats.RowsSkipped

	a.claims.merge(o.claims)
	a.finClaims.merge(o.finClaims)
	a.exposures += o.exposures
	a.finExposures += o.finExposures
	a.reserves = a.reserves.Add(o.reserves)
	a.lowEval = a.lowEval.Add(o.lowEval)
	a.highEval = a.highEval.Add(o.highEval)
	a.noEval += o.noEval
	a.noEvalReserves = a.noEvalReserves.Add(o.noEvalReserves)

	for b, oa := range o.ages {
		age := a.age(b)
		age.claims.merge(oa.claims)
		age.exposures += oa.exposures
		age.reserves = age.reserves.Add(oa.reserves)
	}
	for k, og := range o.groups {
		g := a.group(k)
		g.claims.merge(og.claims)
		g.exposures += og.exposures
		g.finExposures += og.finExposures
		g.reserves = g.reserves.Add(og.reserves)
		g.lowEval = g.lowEval.Add(og.lowEval)
		g.highEval = g.highEval.Add(og.highEval)
		g.noEval += og.noEval
	}

	a.cp1.merge(&o.cp1)
	mergeTallies(a.cp1ByCoverage, o.cp1ByCoverage)
	mergeTallies(a.cp1ByType, o.cp1ByType)
	mergeTallies(a.cp1ByStatus, o.cp1ByStatus)
	for b, ot := range o.cp1ByAge {
		t, ok := a.cp1ByAge[b]
		if !ok {
			t = &tally{}
			a.cp1ByAge[b] = t
		}
		t.merge(ot)
	}

	for k, op := range o.phases {
		p, ok := a.phases[k]
		if !ok {
			p = &phaseAcc{demand: make(map[string]*amount)}
			a.phases[k] = p
		}
		p.merge(&op.amount)
		mergeAmounts(p.demand, op.demand)
	}
	mergeAmounts(a.recency, o.recency)
	mergeAmounts(a.biStatus, o.biStatus)
	mergeAmounts(a.demand, o.demand)
	for k, n := range o.severity {
		a.severity[k] += n
	}

	a.packs = append(a.packs, o.packs...)
	for _, s := range o.samples {
		if a.opts.SampleLimit != 0 && len(a.samples) >= a.opts.SampleLimit {
			break
		}
		a.samples = append(a.samples, s)
	}
}

// Result builds the aggregate. Every slice is in a deterministic order.
func (a *Accumulator) Result() model.Aggregate {
	agg := model.Aggregate{
		Totals: model.Totals{
			Claims:             len(a.claims),
			Exposures:          a.exposures,
			FinancialClaims:    len(a.finClaims),
			FinancialExposures: a.finExposures,
			Reserves:           a.reserves,
			LowEval:            a.lowEval,
			HighEval:           a.highEval,
			NoEvalCount:        a.noEval,
			NoEvalReserves:     a.noEvalReserves,
		},
		CP1: model.CP1Summary{
			Yes:         a.cp1.yes,
			No:          a.cp1.no,
			Rate:        CP1Rate(a.cp1.yes, a.cp1.no),
			ByCoverage:  breakdowns(a.cp1ByCoverage),
			ByTypeGroup: breakdowns(a.cp1ByType),
		},
		Severity:   make(map[string]int, len(model.AllSeverityFlags)),
		MultiPacks: GroupMultiPacks(a.packs),
		Samples:    a.samples,
	}

	for _, b := range model.AllAgeBuckets {
		total := model.AgeBucketTotal{Bucket: b, Reserves: decimal.Zero}
		if acc, ok := a.ages[b]; ok {
			total.Claims = len(acc.claims)
			total.Exposures = acc.exposures
			total.Reserves = acc.reserves
		}
		agg.AgeBuckets = append(agg.AgeBuckets, total)

		cp1 := model.CP1Breakdown{Key: string(b), Rate: CP1Rate(0, 0)}
		if t, ok := a.cp1ByAge[b]; ok {
			cp1 = model.CP1Breakdown{Key: string(b), Yes: t.yes, No: t.no, Rate: CP1Rate(t.yes, t.no)}
		}
		agg.CP1.ByAge = append(agg.CP1.ByAge, cp1)
	}

	for _, s := range model.AllBIStatusBuckets {
		cp1 := model.CP1Breakdown{Key: s, Rate: CP1Rate(0, 0)}
		if t, ok := a.cp1ByStatus[s]; ok {
			cp1 = model.CP1Breakdown{Key: s, Yes: t.yes, No: t.no, Rate: CP1Rate(t.yes, t.no)}
		}
		agg.CP1.ByBIStatus = append(agg.CP1.ByBIStatus, cp1)
	}

	agg.TypeGroups = a.typeGroupSummaries()
	agg.Phases = a.phaseSummaries()
	agg.NegotiationRecency = fixedBuckets(a.recency, model.AllRecencyBuckets)
	agg.BIStatus = fixedBuckets(a.biStatus, model.AllBIStatusBuckets)
	agg.DemandTypes = rankedBuckets(a.demand)

	for _, f := range model.AllSeverityFlags {
		agg.Severity[f.Key] = a.severity[f.Key]
	}

	return agg
}

// RecencyBucket buckets days since the last negotiation. A nil value means
// there was no negotiation or the value could not be parsed.
func RecencyBucket(days *int) string {
	if days == nil {
		return model.RecencyNoNegotiation
	}
	switch d := *days; {
	case d <= 30:
		return model.Recency0To30
	case d <= 60:
		return model.Recency31To60
	case d <= 90:
		return model.Recency61To90
	default:
		return model.Recency90Plus
	}
}

func (a *Accumulator) typeGroupSummaries() []model.TypeGroupSummary {
	out := make([]model.TypeGroupSummary, 0, len(a.groups))
	for k, g := range a.groups {
		out = append(out, model.TypeGroupSummary{
			TypeGroup:          k,
			UniqueClaims:       len(g.claims),
			Exposures:          g.exposures,
			FinancialExposures: g.finExposures,
			Reserves:           g.reserves,
			LowEval:            g.lowEval,
			HighEval:           g.highEval,
			NoEvalCount:        g.noEval,
		})
	}
	// Ranked by unique claims, not exposure rows.
	sort.Slice(out, func(i, j int) bool {
		if out[i].UniqueClaims != out[j].UniqueClaims {
			return out[i].UniqueClaims > out[j].UniqueClaims
		}
		return out[i].TypeGroup < out[j].TypeGroup
	})
	return out
}

func (a *Accumulator) phaseSummaries() []model.PhaseSummary {
	out := make([]model.PhaseSummary, 0, len(a.phases))
	for k, p := range a.phases {
		out = append(out, model.PhaseSummary{
			Phase:       k,
			Exposures:   p.exposures,
			Reserves:    p.reserves,
			DemandTypes: rankedBuckets(p.demand),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exposures != out[j].Exposures {
			return out[i].Exposures > out[j].Exposures
		}
		return out[i].Phase < out[j].Phase
	})
	return out
}

func (a *Accumulator) age(b model.AgeBucket) *ageAcc {
	acc, ok := a.ages[b]
	if !ok {
		acc = &ageAcc{claims: make(claimSet)}
		a.ages[b] = acc
	}
	return acc
}

func (a *Accumulator) group(k string) *groupAcc {
	g, ok := a.groups[k]
	if !ok {
		g = &groupAcc{claims: make(claimSet)}
		a.groups[k] = g
	}
	return g
}

func keyOrUnknown(v string) string {
	if v == "" {
		return unknownKey
	}
	return v
}

func tallyFor(m map[string]*tally, k string) *tally {
	t, ok := m[k]
	if !ok {
		t = &tally{}
		m[k] = t
	}
	return t
}

func amountFor(m map[string]*amount, k string) *amount {
	am, ok := m[k]
	if !ok {
		am = &amount{}
		m[k] = am
	}
	return am
}

func mergeTallies(dst, src map[string]*tally) {
	for k, t := range src {
		tallyFor(dst, k).merge(t)
	}
}

func mergeAmounts(dst, src map[string]*amount) {
	for k, am := range src {
		amountFor(dst, k).merge(am)
	}
}

// breakdowns orders by evaluated rows descending, then key.
func breakdowns(m map[string]*tally) []model.CP1Breakdown {
	out := make([]model.CP1Breakdown, 0, len(m))
	for k, t := range m {
		out = append(out, model.CP1Breakdown{Key: k, Yes: t.yes, No: t.no, Rate: CP1Rate(t.yes, t.no)})
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Yes+out[i].No, out[j].Yes+out[j].No
		if ti != tj {
			return ti > tj
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func fixedBuckets(m map[string]*amount, keys []string) []model.AmountBucket {
	out := make([]model.AmountBucket, 0, len(keys))
	for _, k := range keys {
		b := model.AmountBucket{Key: k, Reserves: decimal.Zero}
		if am, ok := m[k]; ok {
			b.Exposures = am.exposures
			b.Reserves = am.reserves
		}
		out = append(out, b)
	}
	return out
}

func rankedBuckets(m map[string]*amount) []model.AmountBucket {
	out := make([]model.AmountBucket, 0, len(m))
	for k, am := range m {
		out = append(out, model.AmountBucket{Key: k, Exposures: am.exposures, Reserves: am.reserves})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exposures != out[j].Exposures {
			return out[i].Exposures > out[j].Exposures
		}
		return out[i].Key < out[j].Key
	})
	return out
}
