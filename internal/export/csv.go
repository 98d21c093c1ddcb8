// Package export writes pipeline outputs to the output directory.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gyeh/dropoff/internal/model"
)

// Output file names inside the output directory.
const (
	IntegratedFile        = "integrated.csv"
	IntegratedParquetFile = "integrated.parquet"
	PredictionsFile       = "predictions.csv"
	MetricsFile           = "metrics.csv"
)

// IntegratedCSV writes the integrated table with a header row, replacing any
// existing file.
func IntegratedCSV(path string, rows []model.IntegratedRow) error {
	return writeCSV(path, model.IntegratedColumns(), len(rows), func(i int) []string {
		return rows[i].Record()
	})
}

// PredictionsCSV writes drop_off, prediction, prob_dropoff and
// patient_segment for each scored row.
func PredictionsCSV(path string, preds []model.Prediction) error {
	return writeCSV(path, model.PredictionColumns(), len(preds), func(i int) []string {
		return preds[i].Record()
	})
}

// MetricsColumns is the header of the metrics export.
func MetricsColumns() []string {
	return []string{"model", "auc", "accuracy", "train_rows", "test_rows"}
}

// MetricsCSV writes one line per trained classifier.
func MetricsCSV(path string, metrics []model.ModelMetrics) error {
	return writeCSV(path, MetricsColumns(), len(metrics), func(i int) []string {
		m := metrics[i]
		return []string{
			m.Model,
			strconv.FormatFloat(m.AUC, 'f', 6, 64),
			strconv.FormatFloat(m.Accuracy, 'f', 6, 64),
			strconv.Itoa(m.TrainRows),
			strconv.Itoa(m.TestRows),
		}
	})
}

func writeCSV(path string, header []string, n int, record func(i int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			f.Close()
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
