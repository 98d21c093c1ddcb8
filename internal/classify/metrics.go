package classify

import (
	"fmt"

	"github.com/gyeh/dropoff/internal/model"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Evaluation is a classifier scored on held-out rows.
type Evaluation struct {
	AUC         float64
	Accuracy    float64
	Predictions []model.Prediction
}

// Evaluate scores c on test. Both outcome classes must be present.
func Evaluate(c Classifier, test []model.LabeledPoint) (*Evaluation, error) {
	if len(test) == 0 {
		return nil, ErrEmptySplit
	}

	ev := &Evaluation{Predictions: make([]model.Prediction, len(test))}
	scores := make([]float64, len(test))
	classes := make([]bool, len(test))
	var correct int
	for i, p := range test {
		prob := c.PredictProba(p.Features)
		label := Label(prob)
		truth := Label(p.Label)
		if label == truth {
			correct++
		}
		scores[i] = prob
		classes[i] = truth == 1
		ev.Predictions[i] = model.Prediction{
			PatientID:   p.PatientID,
			DropOff:     truth,
			Prediction:  label,
			ProbDropoff: prob,
			Segment:     int64(p.Segment),
		}
	}
	ev.Accuracy = float64(correct) / float64(len(test))

	auc, err := AUC(scores, classes)
	if err != nil {
		return nil, err
	}
	ev.AUC = auc
	return ev, nil
}

// AUC returns the area under the ROC curve of scores against classes.
// The inputs are not modified.
func AUC(scores []float64, classes []bool) (float64, error) {
	var pos int
	for _, c := range classes {
		if c {
			pos++
		}
	}
	if pos == 0 || pos == len(classes) {
		return 0, fmt.Errorf("%w: %d positive of %d", ErrSingleClass, pos, len(classes))
	}

	y := append([]float64(nil), scores...)
	cl := append([]bool(nil), classes...)
	stat.SortWeightedLabeled(y, cl, nil)
	tpr, fpr, _ := stat.ROC(nil, y, cl, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
