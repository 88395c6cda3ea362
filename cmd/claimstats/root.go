package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/snapshot"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "claimstats",
	Short: "Claims exposure aggregation and BI risk classification",
	Long: "Reads a claims export (CSV, XLSX or Parquet), rolls it up into inventory and financial totals, " +
		"scores bodily-injury exposures against the risk model and tracks day-over-day deltas in a snapshot store.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("CLAIMSTATS_DB_URL"), "Postgres connection string for snapshots (or set CLAIMSTATS_DB_URL)")
	pf.StringVar(&cfg.SQLitePath, "sqlite", "", "SQLite database file for snapshots (alternative to --dsn)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&cfg.PolicyFile, "config", "", "YAML file overriding policy limits, weights, thresholds and baseline")
}

// loadPolicyFile merges the --config file into cfg, exiting on error.
func loadPolicyFile(log zerolog.Logger) {
	if cfg.PolicyFile == "" {
		return
	}
	if err := cfg.LoadFromFile(cfg.PolicyFile); err != nil {
		log.Error().Err(err).Str("config", cfg.PolicyFile).Msg("failed to load config file")
		os.Exit(exitcode.UsageError)
	}
	log.Debug().Str("config", cfg.PolicyFile).Msg("config file loaded")
}

// openStore connects the configured snapshot store. It returns a nil store
// when neither --dsn nor --sqlite is set.
func openStore(ctx context.Context, log zerolog.Logger) (snapshot.Store, func(), error) {
	switch {
	case cfg.DSN != "":
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return snapshot.NewPostgresStore(pool, log), pool.Close, nil
	case cfg.SQLitePath != "":
		s, err := snapshot.NewSQLite(cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("sqlite migrate: %w", err)
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
