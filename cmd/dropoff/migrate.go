package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/dropoff/internal/db"
	"github.com/gyeh/dropoff/internal/exitcode"
	"github.com/gyeh/dropoff/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, logLevel)
	ctx, stop := signalContext()
	defer stop()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or " + dsnEnv + " is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("migration failed")
		os.Exit(exitcode.DBConnError)
	}

	log.Info().Msg("all migrations applied successfully")
	return nil
}
