package main

import (
	"testing"

	"github.com/gyeh/dropoff/internal/exitcode"
	"github.com/gyeh/dropoff/internal/pipeline"
)

func TestPhaseExitCode(t *testing.T) {
	tests := map[string]int{
		pipeline.PhaseLoad:      exitcode.InputError,
		pipeline.PhaseClean:     exitcode.InputError,
		pipeline.PhaseAggregate: exitcode.TransformError,
		pipeline.PhaseIntegrate: exitcode.TransformError,
		pipeline.PhaseEncode:    exitcode.TransformError,
		pipeline.PhaseSegment:   exitcode.TransformError,
		pipeline.PhaseBalance:   exitcode.TransformError,
		pipeline.PhaseTrain:     exitcode.TrainError,
		pipeline.PhaseExport:    exitcode.ExportError,
		pipeline.PhasePersist:   exitcode.DBConnError,
	}
	for phase, want := range tests {
		if got := phaseExitCode(phase); got != want {
			t.Errorf("phaseExitCode(%q) = %d, want %d", phase, got, want)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"run": false, "integrate": false, "train": false, "plan": false, "migrate": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
