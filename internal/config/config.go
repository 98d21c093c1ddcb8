package config

import (
	"fmt"
	"os"

	"github.com/gyeh/dropoff/internal/model"

	"gopkg.in/yaml.v3"
)

// Model names accepted by Params.ExportModel.
const (
	ModelLogistic         = "logistic"
	ModelRandomForest     = "random_forest"
	ModelGradientBoosting = "gradient_boosting"
	ModelBest             = "best"
)

// Config holds all runtime configuration for a dropoff run.
type Config struct {
	DSN              string
	DemographicsPath string
	VisitsPath       string
	LogsPath         string
	IntegratedPath   string // parquet input for `dropoff train`
	OutDir           string
	LogFormat        string // "text" or "json"
	WriteParquet     bool
	Params           Params

	paramsLoaded bool // Params came from a config file; zeros are explicit
}

// Params are the pipeline tuning knobs. When Params are set in code, zero values
// are replaced by Defaults(). Values read from a config file are taken as
// written, so `seed: 0` or `logistic_l2: 0` stay zero.
type Params struct {
	Seed             int64    `yaml:"seed"`
	Clusters         int      `yaml:"clusters"`
	KMeansMaxIter    int      `yaml:"kmeans_max_iter"`
	KMeansTolerance  float64  `yaml:"kmeans_tolerance"`
	TrainFraction    float64  `yaml:"train_fraction"`
	MajorityFraction float64  `yaml:"majority_fraction"` // 0 = match the minority count
	ForestTrees      int      `yaml:"forest_trees"`
	TreeMaxDepth     int      `yaml:"tree_max_depth"`
	BoostRounds      int      `yaml:"boost_rounds"`
	BoostStep        float64  `yaml:"boost_step"`
	LogisticMaxIter  int      `yaml:"logistic_max_iter"`
	LogisticL2       float64  `yaml:"logistic_l2"`
	ExportModel      string   `yaml:"export_model"`
	FeatureColumns   []string `yaml:"feature_columns"` // subset of model.AllFeatureColumns
}

// Defaults returns the parameter values used when nothing is configured.
func Defaults() Params {
	return Params{
		Seed:            42,
		Clusters:        3,
		KMeansMaxIter:   20,
		KMeansTolerance: 1e-4,
		TrainFraction:   0.7,
		ForestTrees:     20,
		TreeMaxDepth:    5,
		BoostRounds:     20,
		BoostStep:       0.1,
		LogisticMaxIter: 100,
		LogisticL2:      1e-4,
		ExportModel:     ModelBest,
	}
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Params `yaml:",inline"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	yc := yamlConfig{Params: Defaults()}
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Params = yc.Params
	c.paramsLoaded = true
	return c.ApplyDefaults()
}

// ApplyDefaults fills zero-valued params from Defaults() and validates them.
// Params loaded from a file are only validated.
func (c *Config) ApplyDefaults() error {
	if c.paramsLoaded {
		return c.validateParams()
	}
	d := Defaults()
	p := &c.Params
	if p.Seed == 0 {
		p.Seed = d.Seed
	}
	if p.Clusters == 0 {
		p.Clusters = d.Clusters
	}
	if p.KMeansMaxIter == 0 {
		p.KMeansMaxIter = d.KMeansMaxIter
	}
	if p.KMeansTolerance == 0 {
		p.KMeansTolerance = d.KMeansTolerance
	}
	if p.TrainFraction == 0 {
		p.TrainFraction = d.TrainFraction
	}
	if p.ForestTrees == 0 {
		p.ForestTrees = d.ForestTrees
	}
	if p.TreeMaxDepth == 0 {
		p.TreeMaxDepth = d.TreeMaxDepth
	}
	if p.BoostRounds == 0 {
		p.BoostRounds = d.BoostRounds
	}
	if p.BoostStep == 0 {
		p.BoostStep = d.BoostStep
	}
	if p.LogisticMaxIter == 0 {
		p.LogisticMaxIter = d.LogisticMaxIter
	}
	if p.LogisticL2 == 0 {
		p.LogisticL2 = d.LogisticL2
	}
	if p.ExportModel == "" {
		p.ExportModel = d.ExportModel
	}
	return c.validateParams()
}

func (c *Config) validateParams() error {
	p := c.Params
	if p.Clusters < 1 {
		return fmt.Errorf("clusters must be positive, got %d", p.Clusters)
	}
	for _, n := range []struct {
		name string
		v    int
	}{
		{"kmeans_max_iter", p.KMeansMaxIter},
		{"forest_trees", p.ForestTrees},
		{"tree_max_depth", p.TreeMaxDepth},
		{"boost_rounds", p.BoostRounds},
		{"logistic_max_iter", p.LogisticMaxIter},
	} {
		if n.v < 1 {
			return fmt.Errorf("%s must be positive, got %d", n.name, n.v)
		}
	}
	if p.KMeansTolerance < 0 || p.LogisticL2 < 0 {
		return fmt.Errorf("kmeans_tolerance and logistic_l2 must not be negative")
	}
	if p.BoostStep <= 0 {
		return fmt.Errorf("boost_step must be positive, got %g", p.BoostStep)
	}
	if p.TrainFraction <= 0 || p.TrainFraction >= 1 {
		return fmt.Errorf("train_fraction must be in (0, 1), got %g", p.TrainFraction)
	}
	if p.MajorityFraction < 0 || p.MajorityFraction > 1 {
		return fmt.Errorf("majority_fraction must be in [0, 1], got %g", p.MajorityFraction)
	}
	switch p.ExportModel {
	case ModelLogistic, ModelRandomForest, ModelGradientBoosting, ModelBest:
	default:
		return fmt.Errorf("unknown export_model %q", p.ExportModel)
	}
	for _, name := range p.FeatureColumns {
		if _, ok := model.FeatureColumnByName(name); !ok {
			return fmt.Errorf("unknown feature column %q in config", name)
		}
	}
	return nil
}

// FeatureColumns resolves the configured feature subset, keeping canonical order.
// An empty list selects every column in model.AllFeatureColumns.
func (c *Config) FeatureColumns() []model.FeatureColumn {
	if len(c.Params.FeatureColumns) == 0 {
		return model.AllFeatureColumns
	}
	want := make(map[string]bool, len(c.Params.FeatureColumns))
	for _, name := range c.Params.FeatureColumns {
		want[name] = true
	}
	var cols []model.FeatureColumn
	for _, fc := range model.AllFeatureColumns {
		if want[fc.Name] {
			cols = append(cols, fc)
		}
	}
	return cols
}

// Validate checks that the three raw inputs are set and readable.
func (c *Config) Validate() error {
	for _, in := range []struct{ flag, path string }{
		{"--demographics", c.DemographicsPath},
		{"--visits", c.VisitsPath},
		{"--logs", c.LogsPath},
	} {
		if err := checkFile(in.flag, in.path); err != nil {
			return err
		}
	}
	return c.ApplyDefaults()
}

// ValidateIntegrated checks the parquet input used by `dropoff train`.
func (c *Config) ValidateIntegrated() error {
	if err := checkFile("--integrated", c.IntegratedPath); err != nil {
		return err
	}
	return c.ApplyDefaults()
}

// ValidateWithDSN checks both input files and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DROPOFF_DB_URL is required")
	}
	return nil
}

func checkFile(flag, path string) error {
	if path == "" {
		return fmt.Errorf("%s is required", flag)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}
