package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes one numeric column with the mean and sample standard
// deviation of the fitting data.
type Scaler struct {
	Column string
	Mean   float64
	Std    float64
}

// FitScaler computes the column statistics. Fewer than two values leave Std at 0.
func FitScaler(column string, values []float64) Scaler {
	s := Scaler{Column: column}
	switch len(values) {
	case 0:
		return s
	case 1:
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	if math.IsNaN(s.Std) {
		s.Std = 0
	}
	return s
}

// Apply returns (x - mean) / std, or 0 for a constant column.
func (s Scaler) Apply(x float64) float64 {
	if s.Std == 0 {
		return 0
	}
	return (x - s.Mean) / s.Std
}
