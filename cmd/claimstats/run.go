package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/cache"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/snapshot"
)

var (
	runFiles   []string
	runForce   bool
	runJSON    bool
	runTopRisk int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate and risk-score one or more claims exports",
	Long: "Runs the engine over each --file in order for the same report date. Exports with identical " +
		"content are served from the in-process result cache unless --force is set.",
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringArrayVar(&runFiles, "file", nil, "Path to claims export: .csv, .xlsx or .parquet (required, repeatable)")
	f.StringVar(&cfg.ReportDate, "date", "", "Report date YYYY-MM-DD (default today)")
	f.IntVar(&cfg.SampleLimit, "sample-limit", cfg.SampleLimit, "Max financial rows kept as samples (0 = all)")
	f.BoolVar(&cfg.SkipSnapshot, "skip-snapshot", false, "Do not read or write snapshots; compare against the baseline")
	f.BoolVar(&runForce, "force", false, "Recompute even if the same export was already processed for this date")
	f.BoolVar(&runJSON, "json", false, "Write the full result as JSON to stdout")
	f.IntVar(&runTopRisk, "top", 10, "Number of risk claims listed in the text report")
	_ = runCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()
	flagLimit := cfg.SampleLimit
	loadPolicyFile(log)
	if cmd.Flags().Changed("sample-limit") {
		cfg.SampleLimit = flagLimit
	}

	if cfg.ReportDate == "" {
		cfg.ReportDate = time.Now().Format(time.DateOnly)
	}
	for _, path := range runFiles {
		cfg.FilePath = path
		if err := cfg.Validate(); err != nil {
			log.Error().Err(err).Msg("config validation failed")
			os.Exit(exitcode.UsageError)
		}
	}
	reportDate, err := cfg.Date()
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var store snapshot.Store
	if !cfg.SkipSnapshot {
		s, closeStore, err := openStore(ctx, log)
		if err != nil {
			log.Warn().Err(err).Msg("snapshot store unavailable, comparing against baseline (non-fatal)")
		} else {
			store = s
			defer closeStore()
		}
	}
	if store == nil {
		log.Info().Msg("running without a snapshot store")
	}

	runner := &ingest.Runner{
		Snapshots: snapshot.NewService(store, cfg.Baseline, log),
		Cache:     cache.New(cache.DefaultTTL),
		Policy:    cfg.Policy,
		Options:   aggregate.Options{SampleLimit: cfg.SampleLimit},
		Log:       log,
	}

	results := make([]*model.RunResult, 0, len(runFiles))
	for _, path := range runFiles {
		res, err := runner.Run(ctx, ingest.Request{FilePath: path, ReportDate: reportDate, Force: runForce})
		if err != nil {
			var pe *ingest.PipelineError
			if errors.As(err, &pe) {
				log.Error().Err(pe.Err).Str("phase", pe.Phase).Str("file", path).Msg("run failed")
				switch pe.Phase {
				case ingest.PhasePreflight, ingest.PhaseLoad:
					os.Exit(exitcode.SourceError)
				default:
					os.Exit(exitcode.EngineError)
				}
			}
			log.Error().Err(err).Str("file", path).Msg("run failed")
			os.Exit(exitcode.EngineError)
		}
		results = append(results, res)
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		var out any = results
		if len(results) == 1 {
			out = results[0]
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return nil
	}

	for _, res := range results {
		printResult(res, runTopRisk)
	}
	return nil
}

func printResult(res *model.RunResult, top int) {
	s := res.Summary
	t := res.Aggregate.Totals
	d := res.Delta

	fmt.Println("=== claimstats run ===")
	fmt.Printf("File:        %s\n", s.FilePath)
	fmt.Printf("SHA-256:     %s\n", s.FileSHA256)
	fmt.Printf("Report date: %s\n", s.ReportDate.Format(time.DateOnly))
	fmt.Printf("Rows:        %d read, %d workable, %d excluded, %d skipped\n",
		s.RowsRead, s.RowsWorkable, s.RowsExcluded, s.RowsSkipped)
	if s.Cached {
		fmt.Println("(cached result)")
	}
	fmt.Println()
	fmt.Printf("Claims:      %d (%d exposures)\n", t.Claims, t.Exposures)
	fmt.Printf("Financial:   %d claims, %d exposures\n", t.FinancialClaims, t.FinancialExposures)
	fmt.Printf("Reserves:    $%s\n", t.Reserves.StringFixed(2))
	fmt.Printf("Evaluation:  $%s - $%s (%d exposures without eval)\n",
		t.LowEval.StringFixed(2), t.HighEval.StringFixed(2), t.NoEvalCount)
	fmt.Printf("CP1 rate:    %s%%\n", res.Aggregate.CP1.Rate)

	fmt.Println()
	fmt.Println("Age buckets:")
	for _, b := range res.Aggregate.AgeBuckets {
		fmt.Printf("  %-10s %6d claims %6d exposures  $%s\n", b.Bucket, b.Claims, b.Exposures, b.Reserves.StringFixed(2))
	}

	fmt.Println()
	label := "previous snapshot"
	if d.UsedBaseline {
		label = "baseline"
	}
	fmt.Printf("Change vs %s (%s): %+d claims (%.1f%%), %s reserves (%.1f%%)\n",
		label, d.PreviousDate.Format(time.DateOnly),
		d.CountChange, d.CountChangePct, signed(d.ReservesChange.StringFixed(2)), d.ReservesChangePct)
	fmt.Printf("Snapshot saved: %t\n", s.SnapshotSaved)

	r := res.Risk.Summary
	fmt.Println()
	fmt.Printf("Risk claims: %d, exposure $%s, potential over limit $%s\n",
		r.TotalClaims, r.TotalExposure.StringFixed(2), r.PotentialOverLimit.StringFixed(2))
	for _, tier := range r.Tiers {
		fmt.Printf("  %-9s %5d  $%s\n", tier.Tier, tier.Claims, tier.Reserves.StringFixed(2))
	}
	for i, c := range res.Risk.Claims {
		if i >= top {
			break
		}
		fmt.Printf("  %3d  %-14s %-3s %-8s $%12s  %v\n", c.RiskScore, c.ClaimNumber, c.State, c.Tier, c.Reserves.StringFixed(2), c.PatternMatches)
	}
	fmt.Printf("\nCompleted in %.1fs\n\n", s.DurationTotal.Seconds())
}

func signed(v string) string {
	if len(v) > 0 && v[0] != '-' {
		return "+" + v
	}
	return v
}
