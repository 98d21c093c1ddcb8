package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/dropoff/internal/model"
	embedsql "github.com/gyeh/dropoff/internal/sql"
)

// Run statuses stored in dropoff.runs.status.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Store writes pipeline results for one run.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an open pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// StartRun registers the run and its input fingerprints.
func (s *Store) StartRun(ctx context.Context, command string, sum *model.RunSummary) error {
	_, err := s.pool.Exec(ctx, embedsql.InsertRun,
		sum.RunID, command,
		sum.DemographicsPath, sum.DemographicsSHA256,
		sum.VisitsPath, sum.VisitsSHA256,
		sum.LogsPath, sum.LogsSHA256,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records final counts and status.
func (s *Store) FinishRun(ctx context.Context, sum *model.RunSummary, status string) error {
	tag, err := s.pool.Exec(ctx, embedsql.FinishRun,
		sum.RunID, status,
		sum.RowsDemographics, sum.RowsVisits, sum.LogEvents, sum.RowsWithLogs,
		sum.RowsIntegrated, sum.RowsBalanced, sum.FeatureDim,
		sum.SelectedModel, sum.DurationTotal.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("finish run: run %s not registered", sum.RunID)
	}
	return nil
}

// SaveMetrics upserts one row per classifier in a single batch.
func (s *Store) SaveMetrics(ctx context.Context, runID uuid.UUID, metrics []model.ModelMetrics) error {
	batch := &pgx.Batch{}
	for _, m := range metrics {
		batch.Queue(embedsql.InsertModelMetric,
			runID, m.Model, m.AUC, m.Accuracy, m.TrainRows, m.TestRows, m.Duration.Milliseconds())
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save metrics: %w", err)
	}
	return nil
}

// CopyIntegrated bulk-loads the integrated table tagged with runID.
func (s *Store) CopyIntegrated(ctx context.Context, runID uuid.UUID, rows []model.IntegratedRow) (int64, error) {
	ptrs := make([]*model.IntegratedRow, len(rows))
	for i := range rows {
		ptrs[i] = &rows[i]
	}
	cols := append([]string{"run_id"}, model.IntegratedColumns()...)
	return copyRows(ctx, s.pool, pgx.Identifier{"dropoff", "integrated_patients"}, cols, ptrs, runID)
}

// CopyPredictions bulk-loads one classifier's scored rows.
func (s *Store) CopyPredictions(ctx context.Context, runID uuid.UUID, modelName string, preds []model.Prediction) (int64, error) {
	ptrs := make([]*model.Prediction, len(preds))
	for i := range preds {
		ptrs[i] = &preds[i]
	}
	return copyRows(ctx, s.pool, pgx.Identifier{"dropoff", "predictions"}, model.PredictionCopyColumns(), ptrs, runID, modelName)
}

// DeleteRun removes a run and, by cascade, everything recorded for it.
func (s *Store) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, embedsql.DeleteRun, runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}
