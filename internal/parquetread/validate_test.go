package parquetread

import (
	"errors"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/dropoff/internal/csvread"
	"github.com/gyeh/dropoff/internal/model"
)

type partialRow struct {
	PatientID string  `parquet:"patient_id"`
	DropOff   int64   `parquet:"drop_off"`
	Age       float64 `parquet:"age"`
}

func TestValidateSchema(t *testing.T) {
	full := parquet.SchemaOf(model.IntegratedRow{})
	if err := ValidateSchema(full, model.AllFeatureColumns); err != nil {
		t.Errorf("full schema: %v", err)
	}

	partial := parquet.SchemaOf(partialRow{})
	age, _ := model.FeatureColumnByName("age")
	if err := ValidateSchema(partial, []model.FeatureColumn{age}); err != nil {
		t.Errorf("partial schema with age only: %v", err)
	}

	gender, _ := model.FeatureColumnByName("gender")
	err := ValidateSchema(partial, []model.FeatureColumn{age, gender})
	var se *csvread.SchemaError
	if !errors.As(err, &se) || se.Column != "gender" || se.Dataset != Dataset {
		t.Errorf("expected missing gender SchemaError, got %v", err)
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open("does-not-exist.parquet"); err == nil {
		t.Error("expected error for missing file")
	}
}
