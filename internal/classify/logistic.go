package classify

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Logistic is L2-regularised logistic regression fitted with L-BFGS. The
// objective is mean cross-entropy plus L2/2·‖w‖²; the bias is not penalised.
type Logistic struct {
	MaxIter int
	L2      float64

	Weights []float64
	Bias    float64
	// Converged is false when the optimizer stopped early, e.g. at MaxIter.
	// The best point found is kept either way.
	Converged bool
	StopErr   error
}

func (l *Logistic) Name() string { return NameLogistic }

func (l *Logistic) Fit(X [][]float64, y []float64) error {
	dim, err := checkTraining(X, y)
	if err != nil {
		return err
	}
	n := float64(len(X))

	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			w, b := theta[:dim], theta[dim]
			var loss float64
			for i, x := range X {
				z := floats.Dot(w, x) + b
				loss += softplus(z) - y[i]*z
			}
			return loss/n + 0.5*l.L2*floats.Dot(w, w)
		},
		Grad: func(grad, theta []float64) {
			w, b := theta[:dim], theta[dim]
			for j := range grad {
				grad[j] = 0
			}
			for i, x := range X {
				r := (sigmoid(floats.Dot(w, x)+b) - y[i]) / n
				floats.AddScaled(grad[:dim], r, x)
				grad[dim] += r
			}
			floats.AddScaled(grad[:dim], l.L2, w)
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   l.MaxIter,
	}
	res, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{})
	if res == nil {
		return err
	}
	l.Weights = append([]float64(nil), res.X[:dim]...)
	l.Bias = res.X[dim]
	l.Converged = err == nil
	l.StopErr = err
	return nil
}

func (l *Logistic) PredictProba(x []float64) float64 {
	return sigmoid(floats.Dot(l.Weights, x) + l.Bias)
}
