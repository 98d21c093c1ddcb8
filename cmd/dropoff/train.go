package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/dropoff/internal/exitcode"
	"github.com/gyeh/dropoff/internal/logging"
	"github.com/gyeh/dropoff/internal/pipeline"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and evaluate classifiers on an integrated Parquet table",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&cfg.IntegratedPath, "integrated", "", "Path to integrated Parquet written by `dropoff integrate` (required)")
	_ = trainCmd.MarkFlagRequired("integrated")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, logLevel)
	ctx, stop := signalContext()
	defer stop()

	if err := cfg.ValidateIntegrated(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	rec, closeDB := openRecorder(ctx, log)
	defer closeDB()

	summary, err := pipeline.RunTrain(ctx, log, &cfg, rec)
	if err != nil {
		closeDB()
		exitOnError(log, "train", err)
	}

	printSummary(summary)
	return nil
}
