package parquetread

import (
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/dropoff/internal/csvread"
	"github.com/gyeh/dropoff/internal/model"
)

// Dataset names the integrated table in schema errors.
const Dataset = "integrated"

// ValidateSchema checks that the Parquet schema carries patient_id, drop_off
// and every selected feature column.
func ValidateSchema(schema *parquet.Schema, cols []model.FeatureColumn) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	required := append([]string{"patient_id", "drop_off"}, model.FeatureColumnNames(cols)...)
	for _, col := range required {
		if !columns[col] {
			return &csvread.SchemaError{Dataset: Dataset, Column: col}
		}
	}
	return nil
}
