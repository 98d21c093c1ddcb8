package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/dropoff/internal/config"
	"github.com/gyeh/dropoff/internal/csvread"
	"github.com/gyeh/dropoff/internal/integrate"
	"github.com/gyeh/dropoff/internal/logagg"
	"github.com/gyeh/dropoff/internal/model"
	"github.com/gyeh/dropoff/internal/normalize"
	"github.com/gyeh/dropoff/internal/xmlread"
)

// Integrate loads and cleans the three raw inputs, aggregates the event log
// and joins everything into one integrated row per patient visit.
func Integrate(ctx context.Context, log zerolog.Logger, cfg *config.Config, sum *model.RunSummary) ([]model.IntegratedRow, error) {
	// Phase 1: Load
	start := time.Now()
	for _, in := range []struct {
		path string
		sha  *string
	}{
		{cfg.DemographicsPath, &sum.DemographicsSHA256},
		{cfg.VisitsPath, &sum.VisitsSHA256},
		{cfg.LogsPath, &sum.LogsSHA256},
	} {
		fp, err := normalize.FingerprintFile(in.path)
		if err != nil {
			return nil, fail(PhaseLoad, err)
		}
		*in.sha = fp.SHA256
	}

	demoTable, err := csvread.Open(cfg.DemographicsPath, "demographics")
	if err != nil {
		return nil, fail(PhaseLoad, err)
	}
	visitTable, err := csvread.Open(cfg.VisitsPath, "visits")
	if err != nil {
		return nil, fail(PhaseLoad, err)
	}
	logRecords, err := xmlread.Open(cfg.LogsPath)
	if err != nil {
		return nil, fail(PhaseLoad, err)
	}
	sum.DurationLoad = time.Since(start)
	log.Info().
		Int("demographics", demoTable.Len()).
		Int("visits", visitTable.Len()).
		Int("log_records", len(logRecords)).
		Dur("duration", sum.DurationLoad).
		Msg("inputs loaded")

	// Phase 2: Clean
	if err := checkCtx(ctx, PhaseClean); err != nil {
		return nil, err
	}
	start = time.Now()
	demo, err := normalize.Demographics(demoTable)
	if err != nil {
		return nil, fail(PhaseClean, fmt.Errorf("clean demographics: %w", err))
	}
	visits, err := normalize.Visits(visitTable)
	if err != nil {
		return nil, fail(PhaseClean, fmt.Errorf("clean visits: %w", err))
	}
	events, err := normalize.Events(logRecords)
	if err != nil {
		return nil, fail(PhaseClean, fmt.Errorf("clean logs: %w", err))
	}
	sum.RowsDemographics = int64(len(demo))
	sum.RowsVisits = int64(len(visits))
	sum.LogEvents = int64(len(events))
	log.Info().
		Int64("demographics", sum.RowsDemographics).
		Int64("visits", sum.RowsVisits).
		Int64("log_events", sum.LogEvents).
		Dur("duration", time.Since(start)).
		Msg("inputs cleaned")

	// Phase 3: Aggregate
	if err := checkCtx(ctx, PhaseAggregate); err != nil {
		return nil, err
	}
	features := logagg.Aggregate(events)
	log.Info().Int("patients_with_logs", len(features)).Msg("event log aggregated")

	// Phase 4: Integrate
	if err := checkCtx(ctx, PhaseIntegrate); err != nil {
		return nil, err
	}
	start = time.Now()
	res := integrate.Join(demo, visits, features)
	sum.RowsIntegrated = int64(len(res.Rows))
	sum.RowsWithLogs = int64(res.RowsWithLogs)
	sum.DurationIntegrate = time.Since(start)

	ev := log.Info()
	if len(res.Rows) == 0 {
		ev = log.Warn()
	}
	ev.
		Int64("rows", sum.RowsIntegrated).
		Int64("rows_with_logs", sum.RowsWithLogs).
		Int("unmatched_demographics", res.UnmatchedDemo).
		Int("unmatched_visits", res.UnmatchedVisits).
		Dur("duration", sum.DurationIntegrate).
		Msg("integration complete")

	return res.Rows, nil
}
