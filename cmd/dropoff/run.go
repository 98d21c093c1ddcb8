package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/dropoff/internal/exitcode"
	"github.com/gyeh/dropoff/internal/logging"
	"github.com/gyeh/dropoff/internal/model"
	"github.com/gyeh/dropoff/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline from raw inputs to predictions",
	RunE:  runRun,
}

func init() {
	addInputFlags(runCmd)
	runCmd.Flags().BoolVar(&cfg.WriteParquet, "parquet", false, "Also write the integrated table as Parquet")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, logLevel)
	ctx, stop := signalContext()
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	rec, closeDB := openRecorder(ctx, log)
	defer closeDB()

	summary, err := pipeline.Run(ctx, log, &cfg, rec)
	if err != nil {
		closeDB()
		exitOnError(log, "run", err)
	}

	printSummary(summary)
	return nil
}

func printSummary(s *model.RunSummary) {
	fmt.Printf("Run %s complete (%.1fs)\n", s.RunID, s.DurationTotal.Seconds())
	fmt.Printf("  integrated rows: %d (%d with logs)\n", s.RowsIntegrated, s.RowsWithLogs)
	fmt.Printf("  balanced rows:   %d\n", s.RowsBalanced)
	fmt.Printf("  feature dim:     %d\n", s.FeatureDim)
	for _, m := range s.Metrics {
		marker := " "
		if m.Model == s.SelectedModel {
			marker = "*"
		}
		fmt.Printf("  %s %-18s auc=%.4f accuracy=%.4f\n", marker, m.Model, m.AUC, m.Accuracy)
	}
	fmt.Printf("  outputs in %s\n", cfg.OutDir)
}
