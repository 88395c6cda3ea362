// mkfixture creates a small representative claims export from a larger one.
// Two-pass: first scans all rows to find diverse candidates, then selects the best N.
// Usage: go run ./cmd/mkfixture --in testdata/claims.xlsx --out testdata/claims-small.csv --rows 200
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/filter"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
	"github.com/gyeh/claimstats/internal/source"
)

func main() {
	in := flag.String("in", "testdata/claims.xlsx", "input export (.csv, .xlsx or .parquet)")
	out := flag.String("out", "testdata/claims-small.csv", "output export (.csv, .xlsx or .parquet)")
	maxRows := flag.Int("rows", 200, "max rows to output")
	checkOnly := flag.Bool("check", false, "only print stats, don't write")
	flag.Parse()

	tbl, err := source.Load(context.Background(), *in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load input: %v\n", err)
		os.Exit(1)
	}

	if *checkOnly {
		records := make([]model.ExposureRecord, len(tbl.Records))
		for i, raw := range tbl.Records {
			records[i] = normalize.ToExposure(raw)
		}
		agg, stats := aggregate.Build(records, aggregate.Options{SampleLimit: 1})
		fmt.Printf("Format: %s, columns: %d\n", tbl.Format, len(tbl.Columns))
		fmt.Printf("Rows: %d read, %d workable, %d excluded, %d skipped, %d blank\n",
			stats.RowsRead, stats.RowsWorkable, stats.RowsExcluded, stats.RowsSkipped, tbl.BlankRows)
		fmt.Printf("Claims: %d, exposures: %d, reserves: %s\n",
			agg.Totals.Claims, agg.Totals.Exposures, agg.Totals.Reserves.StringFixed(2))
		return
	}

	// Pass 1: bucket every row by interesting traits.
	type bucket struct {
		name string
		rows []model.RawRecord
		want int
	}
	buckets := []*bucket{
		{name: "litigation", want: 30},
		{name: "cp1", want: 20},
		{name: "aged_365", want: 20},
		{name: "severity", want: 30},
		{name: "excluded", want: 20},
		{name: "non_financial", want: 10},
		{name: "general", want: 0},
	}
	bucketMap := make(map[string]*bucket)
	for _, b := range buckets {
		bucketMap[b.name] = b
	}
	offer := func(name string, raw model.RawRecord) bool {
		b := bucketMap[name]
		if len(b.rows) >= b.want {
			return false
		}
		b.rows = append(b.rows, raw)
		return true
	}

	for _, raw := range tbl.Records {
		e := normalize.ToExposure(raw)

		placed := false
		switch {
		case !filter.IsWorkable(&e):
			placed = offer("excluded", raw)
		case !filter.IsFinancialCoverage(e.Coverage):
			placed = offer("non_financial", raw)
		case e.InLitigation || filter.IsLitigationGroup(e.TypeGroup):
			placed = offer("litigation", raw)
		case e.CP1:
			placed = offer("cp1", raw)
		case e.AgeBucket == model.Age365Plus:
			placed = offer("aged_365", raw)
		case len(e.Severity) > 0:
			placed = offer("severity", raw)
		}
		if !placed && len(bucketMap["general"].rows) < *maxRows {
			bucketMap["general"].rows = append(bucketMap["general"].rows, raw)
		}
	}
	fmt.Printf("Scanned %d rows\n", len(tbl.Records))

	// Merge buckets in priority order
	var selected []model.RawRecord
	for _, b := range buckets {
		for _, raw := range b.rows {
			if len(selected) >= *maxRows {
				break
			}
			selected = append(selected, raw)
		}
	}

	if err := writeExport(*out, selected); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(selected), *out)
	for _, b := range buckets {
		fmt.Printf("  %-14s %d\n", b.name, len(b.rows))
	}
}
