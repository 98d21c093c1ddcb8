package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/dropoff/internal/exitcode"
	"github.com/gyeh/dropoff/internal/logging"
	"github.com/gyeh/dropoff/internal/pipeline"
)

var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Clean and join the raw inputs, writing the integrated table",
	RunE:  runIntegrate,
}

func init() {
	addInputFlags(integrateCmd)
	rootCmd.AddCommand(integrateCmd)
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, logLevel)
	ctx, stop := signalContext()
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	rec, closeDB := openRecorder(ctx, log)
	defer closeDB()

	summary, err := pipeline.RunIntegrate(ctx, log, &cfg, rec)
	if err != nil {
		closeDB()
		exitOnError(log, "integrate", err)
	}

	fmt.Printf("Integrate complete: %d rows (%d with logs) written to %s (%.1fs)\n",
		summary.RowsIntegrated, summary.RowsWithLogs, cfg.OutDir, summary.DurationTotal.Seconds())
	return nil
}
