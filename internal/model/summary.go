package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// LabeledPoint is an encoded patient row ready for clustering and training.
type LabeledPoint struct {
	PatientID string
	Features  []float64
	Label     float64 // drop_off as 0 or 1
	Segment   int
}

// Prediction is one held-out row scored by a classifier.
type Prediction struct {
	PatientID   string
	DropOff     int64
	Prediction  int64
	ProbDropoff float64
	Segment     int64
}

// PredictionColumns is the header of the predictions export.
func PredictionColumns() []string {
	return []string{"drop_off", "prediction", "prob_dropoff", "patient_segment"}
}

// Record formats the prediction as CSV fields in PredictionColumns() order.
func (p *Prediction) Record() []string {
	return []string{
		strconv.FormatInt(p.DropOff, 10),
		strconv.FormatInt(p.Prediction, 10),
		strconv.FormatFloat(p.ProbDropoff, 'f', -1, 64),
		strconv.FormatInt(p.Segment, 10),
	}
}

// PredictionCopyColumns returns the COPY columns for dropoff.predictions.
// run_id and model lead; the rest match CopyValues.
func PredictionCopyColumns() []string {
	return []string{"run_id", "model", "patient_id", "drop_off", "prediction", "prob_dropoff", "patient_segment"}
}

// CopyValues returns the prediction in PredictionCopyColumns() order, minus
// the leading run_id and model.
func (p *Prediction) CopyValues() []any {
	return []any{p.PatientID, p.DropOff, p.Prediction, p.ProbDropoff, p.Segment}
}

// ModelMetrics holds the held-out evaluation of one classifier.
type ModelMetrics struct {
	Model     string
	AUC       float64
	Accuracy  float64
	TrainRows int
	TestRows  int
	Duration  time.Duration
}

// RunSummary captures counts and timings from a single pipeline run.
type RunSummary struct {
	RunID uuid.UUID

	DemographicsPath   string
	DemographicsSHA256 string
	VisitsPath         string
	VisitsSHA256       string
	LogsPath           string
	LogsSHA256         string

	RowsDemographics int64
	RowsVisits       int64
	LogEvents        int64
	RowsWithLogs     int64
	RowsIntegrated   int64
	RowsBalanced     int64
	FeatureDim       int

	Metrics       []ModelMetrics
	SelectedModel string
	Predictions   []Prediction

	DurationLoad      time.Duration
	DurationIntegrate time.Duration
	DurationEncode    time.Duration
	DurationTrain     time.Duration
	DurationExport    time.Duration
	DurationTotal     time.Duration
}
