package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/dropoff/internal/exitcode"
	"github.com/gyeh/dropoff/internal/logging"
	"github.com/gyeh/dropoff/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and input profile (no writes)",
	RunE:  runPlan,
}

func init() {
	addInputFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, logLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	reports, err := pipeline.Plan(&cfg)
	if err != nil {
		exitOnError(log, "plan", err)
	}

	fmt.Println("=== dropoff plan ===")
	failed := false
	for _, r := range reports {
		fmt.Printf("\n[%s]\n", r.Dataset)
		fmt.Printf("File:    %s\n", r.File.Path)
		fmt.Printf("SHA-256: %s\n", r.File.SHA256)
		fmt.Printf("Size:    %d bytes\n", r.File.Size)
		fmt.Printf("Rows:    %d\n", r.Rows)

		cols := append([]string(nil), r.Columns...)
		sort.Strings(cols)
		fmt.Println("Nulls per column:")
		for _, c := range cols {
			fmt.Printf("  %-24s %d\n", c, r.NullCounts[c])
		}

		if r.SchemaErr != nil {
			failed = true
			fmt.Printf("Schema validation: FAILED (%v)\n", r.SchemaErr)
		} else {
			fmt.Println("Schema validation: OK")
		}
	}

	if failed {
		os.Exit(exitcode.InputError)
	}
	return nil
}
