package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("seed: 7\nclusters: 4\nfeature_columns:\n  - age\n  - gender\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Params.Seed != 7 || c.Params.Clusters != 4 {
		t.Errorf("unexpected params: %+v", c.Params)
	}
	if c.Params.TrainFraction != 0.7 {
		t.Errorf("TrainFraction default: got %g, want 0.7", c.Params.TrainFraction)
	}

	cols := c.FeatureColumns()
	if len(cols) != 2 {
		t.Fatalf("expected 2 feature columns, got %d", len(cols))
	}
	// canonical order puts categorical gender before numeric age
	if cols[0].Name != "gender" || cols[1].Name != "age" {
		t.Errorf("unexpected column order: %v", cols)
	}
}

func TestLoadFromFile_UnknownFeatureColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("feature_columns:\n  - age\n  - BOGUS\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown feature column")
	}
}

func TestLoadFromFile_BadExportModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("export_model: svm\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown export model")
	}
}

func TestLoadFromFile_EmptyDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("{}\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if !reflect.DeepEqual(c.Params, Defaults()) {
		t.Errorf("expected defaults, got %+v", c.Params)
	}
	if got := len(c.FeatureColumns()); got != 24 {
		t.Errorf("expected 24 default feature columns, got %d", got)
	}
}

func TestLoadFromFile_ExplicitZeros(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("seed: 0\nlogistic_l2: 0\nkmeans_tolerance: 0\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Params.Seed != 0 || c.Params.LogisticL2 != 0 || c.Params.KMeansTolerance != 0 {
		t.Errorf("explicit zeros replaced: %+v", c.Params)
	}
	// later validation must not refill them
	if err := c.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if c.Params.Seed != 0 || c.Params.LogisticL2 != 0 || c.Params.KMeansTolerance != 0 {
		t.Errorf("ApplyDefaults refilled explicit zeros: %+v", c.Params)
	}
	if c.Params.ForestTrees != Defaults().ForestTrees {
		t.Errorf("unset ForestTrees: got %d", c.Params.ForestTrees)
	}
}

func TestLoadFromFile_ZeroCountRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("forest_trees: 0\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for forest_trees: 0")
	}
}

func TestApplyDefaults_ZeroMeansUnsetInCode(t *testing.T) {
	var c Config
	if err := c.ApplyDefaults(); err != nil {
		t.Fatalf("ApplyDefaults: %v", err)
	}
	if !reflect.DeepEqual(c.Params, Defaults()) {
		t.Errorf("expected defaults, got %+v", c.Params)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_MissingInput(t *testing.T) {
	dir := t.TempDir()
	demo := filepath.Join(dir, "demographics.csv")
	os.WriteFile(demo, []byte("patient_id\n"), 0644)

	c := Config{DemographicsPath: demo, VisitsPath: filepath.Join(dir, "missing.csv"), LogsPath: demo}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing visits file")
	}

	c = Config{DemographicsPath: demo, LogsPath: demo}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unset visits path")
	}
}
