// Package pipeline runs the drop-off phases end to end: load, clean,
// aggregate, integrate, encode, segment, balance, train, export and persist.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/dropoff/internal/config"
	"github.com/gyeh/dropoff/internal/db"
	"github.com/gyeh/dropoff/internal/export"
	"github.com/gyeh/dropoff/internal/logging"
	"github.com/gyeh/dropoff/internal/model"
	"github.com/gyeh/dropoff/internal/parquetread"
)

// Phase names carried by PipelineError.
const (
	PhaseLoad      = "load"
	PhaseClean     = "clean"
	PhaseAggregate = "aggregate"
	PhaseIntegrate = "integrate"
	PhaseEncode    = "encode"
	PhaseSegment   = "segment"
	PhaseBalance   = "balance"
	PhaseTrain     = "train"
	PhaseExport    = "export"
	PhasePersist   = "persist"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func fail(phase string, err error) error {
	return &PipelineError{Phase: phase, Err: err}
}

// Recorder persists run results. *db.Store implements it; a nil Recorder
// disables persistence.
type Recorder interface {
	StartRun(ctx context.Context, command string, sum *model.RunSummary) error
	FinishRun(ctx context.Context, sum *model.RunSummary, status string) error
	SaveMetrics(ctx context.Context, runID uuid.UUID, metrics []model.ModelMetrics) error
	CopyIntegrated(ctx context.Context, runID uuid.UUID, rows []model.IntegratedRow) (int64, error)
	CopyPredictions(ctx context.Context, runID uuid.UUID, modelName string, preds []model.Prediction) (int64, error)
}

var _ Recorder = (*db.Store)(nil)

// Run executes every phase from raw inputs to exported predictions.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, rec Recorder) (*model.RunSummary, error) {
	return execute(ctx, log, cfg, rec, "run", func(sum *model.RunSummary, log zerolog.Logger) error {
		rows, err := Integrate(ctx, log, cfg, sum)
		if err != nil {
			return err
		}
		if err := writeIntegrated(log, cfg, sum, rows, cfg.WriteParquet); err != nil {
			return err
		}
		res, err := Train(ctx, log, cfg, rows, sum)
		if err != nil {
			return err
		}
		if err := writeResults(log, cfg, sum, res); err != nil {
			return err
		}
		return persist(ctx, log, rec, sum, rows, res)
	})
}

// RunIntegrate stops after integration and writes the integrated table as
// CSV and Parquet.
func RunIntegrate(ctx context.Context, log zerolog.Logger, cfg *config.Config, rec Recorder) (*model.RunSummary, error) {
	return execute(ctx, log, cfg, rec, "integrate", func(sum *model.RunSummary, log zerolog.Logger) error {
		rows, err := Integrate(ctx, log, cfg, sum)
		if err != nil {
			return err
		}
		if err := writeIntegrated(log, cfg, sum, rows, true); err != nil {
			return err
		}
		return persist(ctx, log, rec, sum, rows, nil)
	})
}

// RunTrain reads a previously integrated Parquet table and runs the phases
// from encoding onward.
func RunTrain(ctx context.Context, log zerolog.Logger, cfg *config.Config, rec Recorder) (*model.RunSummary, error) {
	return execute(ctx, log, cfg, rec, "train", func(sum *model.RunSummary, log zerolog.Logger) error {
		start := time.Now()
		rows, err := parquetread.ReadAll(cfg.IntegratedPath, cfg.FeatureColumns())
		if err != nil {
			return fail(PhaseLoad, fmt.Errorf("read integrated: %w", err))
		}
		sum.RowsIntegrated = int64(len(rows))
		sum.DurationLoad = time.Since(start)
		log.Info().
			Str("file", filepath.Base(cfg.IntegratedPath)).
			Int64("rows", sum.RowsIntegrated).
			Dur("duration", sum.DurationLoad).
			Msg("integrated table loaded")

		res, err := Train(ctx, log, cfg, rows, sum)
		if err != nil {
			return err
		}
		if err := writeResults(log, cfg, sum, res); err != nil {
			return err
		}
		return persist(ctx, log, rec, sum, nil, res)
	})
}

// execute wraps a command body with run identity, run registration and the
// final summary log.
func execute(ctx context.Context, log zerolog.Logger, cfg *config.Config, rec Recorder, command string,
	body func(sum *model.RunSummary, log zerolog.Logger) error) (*model.RunSummary, error) {
	totalStart := time.Now()
	sum := &model.RunSummary{
		RunID:            uuid.New(),
		DemographicsPath: cfg.DemographicsPath,
		VisitsPath:       cfg.VisitsPath,
		LogsPath:         cfg.LogsPath,
	}
	log = logging.ForRun(log, sum.RunID)
	log.Info().Str("command", command).Msg("pipeline starting")

	if rec != nil {
		if err := rec.StartRun(ctx, command, sum); err != nil {
			return nil, fail(PhasePersist, err)
		}
	}

	err := body(sum, log)
	sum.DurationTotal = time.Since(totalStart)

	if rec != nil {
		status := db.StatusSucceeded
		if err != nil {
			status = db.StatusFailed
		}
		// the run row must be closed out even when ctx was cancelled
		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if ferr := rec.FinishRun(finishCtx, sum, status); ferr != nil {
			if err == nil {
				return nil, fail(PhasePersist, ferr)
			}
			log.Warn().Err(ferr).Msg("could not mark run failed")
		}
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("command", command).
		Int64("rows_integrated", sum.RowsIntegrated).
		Int64("rows_balanced", sum.RowsBalanced).
		Str("selected_model", sum.SelectedModel).
		Str("total_duration", sum.DurationTotal.String()).
		Msg("pipeline complete")
	return sum, nil
}

func checkCtx(ctx context.Context, phase string) error {
	if err := ctx.Err(); err != nil {
		return fail(phase, err)
	}
	return nil
}

func writeIntegrated(log zerolog.Logger, cfg *config.Config, sum *model.RunSummary, rows []model.IntegratedRow, parquet bool) error {
	start := time.Now()
	csvPath := filepath.Join(cfg.OutDir, export.IntegratedFile)
	if err := export.IntegratedCSV(csvPath, rows); err != nil {
		return fail(PhaseExport, fmt.Errorf("export integrated: %w", err))
	}
	if parquet {
		if err := export.IntegratedParquet(filepath.Join(cfg.OutDir, export.IntegratedParquetFile), rows); err != nil {
			return fail(PhaseExport, fmt.Errorf("export integrated parquet: %w", err))
		}
	}
	dur := time.Since(start)
	sum.DurationExport += dur
	log.Info().
		Str("path", csvPath).
		Int("rows", len(rows)).
		Bool("parquet", parquet).
		Dur("duration", dur).
		Msg("integrated table exported")
	return nil
}

func writeResults(log zerolog.Logger, cfg *config.Config, sum *model.RunSummary, res *TrainResult) error {
	start := time.Now()
	predPath := filepath.Join(cfg.OutDir, export.PredictionsFile)
	if err := export.PredictionsCSV(predPath, res.Selected.Predictions); err != nil {
		return fail(PhaseExport, fmt.Errorf("export predictions: %w", err))
	}
	if err := export.MetricsCSV(filepath.Join(cfg.OutDir, export.MetricsFile), sum.Metrics); err != nil {
		return fail(PhaseExport, fmt.Errorf("export metrics: %w", err))
	}
	dur := time.Since(start)
	sum.DurationExport += dur
	log.Info().
		Str("path", predPath).
		Str("model", res.Selected.Model).
		Int("rows", len(res.Selected.Predictions)).
		Dur("duration", dur).
		Msg("predictions exported")
	return nil
}

func persist(ctx context.Context, log zerolog.Logger, rec Recorder, sum *model.RunSummary, rows []model.IntegratedRow, res *TrainResult) error {
	if rec == nil {
		return nil
	}
	if err := checkCtx(ctx, PhasePersist); err != nil {
		return err
	}
	start := time.Now()
	var copied int64
	if len(rows) > 0 {
		n, err := rec.CopyIntegrated(ctx, sum.RunID, rows)
		if err != nil {
			return fail(PhasePersist, err)
		}
		copied += n
	}
	if res != nil {
		if err := rec.SaveMetrics(ctx, sum.RunID, sum.Metrics); err != nil {
			return fail(PhasePersist, err)
		}
		for _, m := range res.Models {
			n, err := rec.CopyPredictions(ctx, sum.RunID, m.Model, m.Predictions)
			if err != nil {
				return fail(PhasePersist, err)
			}
			copied += n
		}
	}
	log.Info().
		Int64("rows_copied", copied).
		Dur("duration", time.Since(start)).
		Msg("results persisted")
	return nil
}
