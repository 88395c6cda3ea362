package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/logging"
	"github.com/gyeh/claimstats/internal/snapshot"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply snapshot store schema migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateWithStore(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	if cfg.SQLitePath != "" {
		s, err := snapshot.NewSQLite(cfg.SQLitePath, log)
		if err != nil {
			log.Error().Err(err).Msg("sqlite open failed")
			os.Exit(exitcode.DBConnError)
		}
		defer s.Close()
		if err := s.Migrate(ctx); err != nil {
			log.Error().Err(err).Msg("migration failed")
			os.Exit(exitcode.SnapshotError)
		}
		log.Info().Str("sqlite", cfg.SQLitePath).Msg("sqlite schema applied")
		return nil
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(exitcode.SnapshotError)
	}

	log.Info().Msg("all migrations applied successfully")
	return nil
}
