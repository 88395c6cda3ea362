package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/snapshot"
)

var snapshotsLimit int

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored snapshots, most recent first",
	RunE:  runSnapshots,
}

func init() {
	snapshotsCmd.Flags().IntVar(&snapshotsLimit, "limit", 30, "Maximum number of snapshots to list")
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateWithStore(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if snapshotsLimit <= 0 {
		log.Error().Int("limit", snapshotsLimit).Msg("--limit must be positive")
		os.Exit(exitcode.UsageError)
	}

	store, closeStore, err := openStore(ctx, log)
	if err != nil {
		log.Error().Err(err).Msg("snapshot store connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer closeStore()

	snaps, err := snapshot.NewService(store, cfg.Baseline, log).List(ctx, snapshotsLimit)
	if err != nil {
		log.Error().Err(err).Msg("list snapshots failed")
		os.Exit(exitcode.SnapshotError)
	}

	if len(snaps) == 0 {
		fmt.Println("No snapshots stored.")
		return nil
	}

	fmt.Printf("%-10s  %8s  %9s  %16s  %6s  %6s  %s\n", "DATE", "CLAIMS", "EXPOSURES", "RESERVES", "CP1%", "365+", "RUN")
	for _, s := range snaps {
		fmt.Printf("%-10s  %8d  %9d  %16s  %6s  %6d  %s\n",
			s.Date.Format(time.DateOnly), s.Claims, s.Exposures, s.Reserves.StringFixed(2), s.CP1Rate, s.Age365Plus, s.RunID)
	}
	return nil
}
