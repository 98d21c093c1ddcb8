// Package classify trains and evaluates the drop-off classifiers.
package classify

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/gyeh/dropoff/internal/model"
)

// Classifier names, in declaration order.
const (
	NameLogistic         = "logistic"
	NameRandomForest     = "random_forest"
	NameGradientBoosting = "gradient_boosting"
)

var (
	// ErrEmptySplit is returned when a train or test split has no rows.
	ErrEmptySplit = errors.New("empty train or test split")
	// ErrSingleClass is returned when a split holds only one outcome class.
	ErrSingleClass = errors.New("split contains a single outcome class")
)

// Classifier is a binary classifier over dense feature vectors.
type Classifier interface {
	Name() string
	Fit(X [][]float64, y []float64) error
	// PredictProba returns the probability of the positive class.
	PredictProba(x []float64) float64
}

// Options configures the three classifiers.
type Options struct {
	Seed            int64
	ForestTrees     int
	TreeMaxDepth    int
	BoostRounds     int
	BoostStep       float64
	LogisticMaxIter int
	LogisticL2      float64
}

// All returns fresh, unfitted classifiers in declaration order.
func All(o Options) []Classifier {
	return []Classifier{
		&Logistic{MaxIter: o.LogisticMaxIter, L2: o.LogisticL2},
		&RandomForest{Trees: o.ForestTrees, MaxDepth: o.TreeMaxDepth, Seed: o.Seed},
		&GradientBoosting{Rounds: o.BoostRounds, Step: o.BoostStep, MaxDepth: o.TreeMaxDepth},
	}
}

// Label thresholds a probability at 0.5.
func Label(prob float64) int64 {
	if prob >= 0.5 {
		return 1
	}
	return 0
}

// Split shuffles points with seed and cuts them into train and test sets,
// the train set holding round(fraction × n) rows.
func Split(points []model.LabeledPoint, fraction float64, seed int64) (train, test []model.LabeledPoint, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("train fraction must be in (0,1), got %v", fraction)
	}
	n := len(points)
	cut := int(math.Round(fraction * float64(n)))
	if cut == 0 || cut == n {
		return nil, nil, fmt.Errorf("%w: %d rows at fraction %v", ErrEmptySplit, n, fraction)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)
	train = make([]model.LabeledPoint, 0, cut)
	test = make([]model.LabeledPoint, 0, n-cut)
	for i, j := range perm {
		if i < cut {
			train = append(train, points[j])
		} else {
			test = append(test, points[j])
		}
	}
	return train, test, nil
}

// Matrix unpacks labeled points into a feature matrix and label vector.
func Matrix(points []model.LabeledPoint) ([][]float64, []float64) {
	X := make([][]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		X[i] = p.Features
		y[i] = p.Label
	}
	return X, y
}

func checkTraining(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmptySplit
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%d rows but %d labels", len(X), len(y))
	}
	dim := len(X[0])
	for i, row := range X {
		if len(row) != dim {
			return 0, fmt.Errorf("row %d has %d features, want %d", i, len(row), dim)
		}
	}
	return dim, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus is log(1+exp(z)) without overflow.
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}
