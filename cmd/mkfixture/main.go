// mkfixture writes a reproducible synthetic demographics CSV, visits CSV and
// event-log XML for local runs and tests.
// Usage: go run ./cmd/mkfixture --out testdata --patients 500 --seed 42
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gyeh/dropoff/internal/fixture"
)

func main() {
	def := fixture.DefaultConfig()
	out := flag.String("out", "testdata", "output directory")
	patients := flag.Int("patients", def.Patients, "number of patients")
	logs := flag.Int("logs", def.LogsPerPatient, "max log events per patient")
	missing := flag.Float64("missing", def.MissingRate, "probability a nullable cell is empty")
	seed := flag.Int64("seed", def.Seed, "random seed")
	flag.Parse()

	if *patients < 1 || *missing < 0 || *missing > 1 {
		fmt.Fprintln(os.Stderr, "patients must be positive and missing in [0, 1]")
		os.Exit(1)
	}

	paths, ds, err := fixture.WriteAll(*out, fixture.Config{
		Patients:       *patients,
		LogsPerPatient: *logs,
		MissingRate:    *missing,
		Seed:           *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}

	var dropOffs, critical int
	dropCol := len(ds.Visits[0]) - 1
	for _, rec := range ds.Visits[1:] {
		if rec[dropCol] == "1" {
			dropOffs++
		}
	}
	for _, l := range ds.Logs {
		if strings.EqualFold(l.LogType, "critical") {
			critical++
		}
	}

	fmt.Printf("Wrote %d demographics rows to %s\n", len(ds.Demographics)-1, paths.Demographics)
	fmt.Printf("Wrote %d visit rows (%d drop-offs) to %s\n", len(ds.Visits)-1, dropOffs, paths.Visits)
	fmt.Printf("Wrote %d log events (%d critical) to %s\n", len(ds.Logs), critical, paths.Logs)
}
