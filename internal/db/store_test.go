package db_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/dropoff/internal/db"
	"github.com/gyeh/dropoff/internal/model"
)

const (
	testPort     = 15433
	testDB       = "dropofftest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

func TestMain(m *testing.M) {
	if os.Getenv("DROPOFF_PG_TESTS") != "1" {
		fmt.Fprintln(os.Stderr, "SKIP: set DROPOFF_PG_TESTS=1 to run Postgres tests")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS dropoff CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := db.ApplyMigrations(ctx, pool, zerolog.Nop()); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func count(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	pool := setupDB(t)
	if err := db.ApplyMigrations(context.Background(), pool, zerolog.Nop()); err != nil {
		t.Fatalf("second apply: %v", err)
	}
}

func TestStore_RunLifecycle(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	store := db.NewStore(pool)

	sum := &model.RunSummary{
		RunID:              uuid.New(),
		DemographicsPath:   "demographics.csv",
		DemographicsSHA256: "abc",
	}
	if err := store.StartRun(ctx, "run", sum); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	rows := []model.IntegratedRow{
		{PatientID: "1", Gender: "Male", ChronicConditions: 5, LogCount: 2, CriticalLogs: 1, MostRecentDepartment: "ER"},
		{PatientID: "2", Gender: "Female", DropOff: 1, MostRecentDepartment: model.UnknownCategory},
	}
	n, err := store.CopyIntegrated(ctx, sum.RunID, rows)
	if err != nil || n != 2 {
		t.Fatalf("CopyIntegrated: n=%d err=%v", n, err)
	}

	preds := []model.Prediction{{PatientID: "2", DropOff: 1, Prediction: 1, ProbDropoff: 0.9, Segment: 1}}
	if n, err := store.CopyPredictions(ctx, sum.RunID, "logistic", preds); err != nil || n != 1 {
		t.Fatalf("CopyPredictions: n=%d err=%v", n, err)
	}

	metrics := []model.ModelMetrics{
		{Model: "logistic", AUC: 0.8, Accuracy: 0.7, TrainRows: 7, TestRows: 3, Duration: time.Second},
		{Model: "random_forest", AUC: 0.6, Accuracy: 0.6, TrainRows: 7, TestRows: 3},
	}
	if err := store.SaveMetrics(ctx, sum.RunID, metrics); err != nil {
		t.Fatalf("SaveMetrics: %v", err)
	}
	// re-saving upserts rather than duplicating
	if err := store.SaveMetrics(ctx, sum.RunID, metrics[:1]); err != nil {
		t.Fatalf("SaveMetrics again: %v", err)
	}

	sum.RowsIntegrated = 2
	sum.SelectedModel = "logistic"
	if err := store.FinishRun(ctx, sum, db.StatusSucceeded); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	t.Run("integrated_rows", func(t *testing.T) {
		got := count(t, pool, "SELECT count(*) FROM dropoff.integrated_patients WHERE run_id = $1", sum.RunID)
		if got != 2 {
			t.Errorf("integrated rows: got %d, want 2", got)
		}
		var chronic, critical int64
		err := pool.QueryRow(ctx,
			"SELECT chronic_conditions, critical_logs FROM dropoff.integrated_patients WHERE patient_id = '1'").
			Scan(&chronic, &critical)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if chronic != 5 || critical != 1 {
			t.Errorf("patient 1: chronic=%d critical=%d", chronic, critical)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		if got := count(t, pool, "SELECT count(*) FROM dropoff.model_metrics WHERE run_id = $1", sum.RunID); got != 2 {
			t.Errorf("metrics rows: got %d, want 2", got)
		}
	})

	t.Run("run_status", func(t *testing.T) {
		var status, selected string
		var visitsPath *string
		err := pool.QueryRow(ctx,
			"SELECT status, selected_model, visits_path FROM dropoff.runs WHERE run_id = $1", sum.RunID).
			Scan(&status, &selected, &visitsPath)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if status != db.StatusSucceeded || selected != "logistic" {
			t.Errorf("run: status=%q selected=%q", status, selected)
		}
		if visitsPath != nil {
			t.Errorf("empty visits path should be stored as NULL, got %q", *visitsPath)
		}
	})

	t.Run("delete_cascades", func(t *testing.T) {
		if err := store.DeleteRun(ctx, sum.RunID); err != nil {
			t.Fatalf("DeleteRun: %v", err)
		}
		if got := count(t, pool, "SELECT count(*) FROM dropoff.predictions WHERE run_id = $1", sum.RunID); got != 0 {
			t.Errorf("predictions left after delete: %d", got)
		}
	})
}

func TestStore_FinishUnknownRun(t *testing.T) {
	pool := setupDB(t)
	err := db.NewStore(pool).FinishRun(context.Background(), &model.RunSummary{RunID: uuid.New()}, db.StatusFailed)
	if err == nil {
		t.Error("expected error finishing an unregistered run")
	}
}
