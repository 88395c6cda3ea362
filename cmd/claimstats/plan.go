package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/filter"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/normalize"
	"github.com/gyeh/claimstats/internal/source"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and row counts (no snapshot reads or writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to claims export (required)")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.SourceError)
	}

	stat, err := os.Stat(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat file")
		os.Exit(exitcode.SourceError)
	}

	format, err := source.DetectFormat(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("unsupported export")
		os.Exit(exitcode.SourceError)
	}

	lr, err := ingest.Load(ctx, log, cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load export")
		os.Exit(exitcode.SourceError)
	}
	report := source.CheckColumns(lr.Columns)

	var financial, bodilyInjury int64
	for i := range lr.Records {
		e := &lr.Records[i]
		if e.ClaimNumber == "" || !filter.IsWorkable(e) {
			continue
		}
		if filter.IsFinancialCoverage(e.Coverage) {
			financial++
		}
		if filter.IsBodilyInjury(e.Coverage) {
			bodilyInjury++
		}
	}
	agg, stats := aggregate.Build(lr.Records, aggregate.Options{SampleLimit: 1})

	fmt.Println("=== claimstats plan ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("Format:     %s\n", format)
	fmt.Printf("SHA-256:    %s\n", sha)
	fmt.Printf("Size:       %d bytes\n", stat.Size())
	fmt.Printf("Total rows: %d (%d blank)\n", stats.RowsRead, lr.BlankRows)
	fmt.Println()
	fmt.Printf("Columns:    %d known present, %d known missing, %d unrecognized\n",
		len(report.Present), len(report.Missing), len(report.Unknown))
	for _, c := range report.Missing {
		fmt.Printf("  missing:      %s\n", c)
	}
	for _, c := range report.Unknown {
		fmt.Printf("  unrecognized: %s\n", c)
	}
	fmt.Println()
	fmt.Printf("Workable:   %d rows (%d unique claims)\n", stats.RowsWorkable, agg.Totals.Claims)
	fmt.Printf("  financial (BI/UM/UI): %d\n", financial)
	fmt.Printf("  bodily injury:        %d\n", bodilyInjury)
	fmt.Printf("Excluded:   %d rows\n", stats.RowsExcluded)
	fmt.Printf("Skipped:    %d rows without a claim number\n", stats.RowsSkipped)
	fmt.Println("Column validation: OK")

	return nil
}
