package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/dropoff/internal/model"
)

// IntegratedParquet writes the integrated table in the layout read back by
// parquetread.ReadAll.
func IntegratedParquet(path string, rows []model.IntegratedRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	writer := parquet.NewGenericWriter[model.IntegratedRow](f)
	if _, err := writer.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}
