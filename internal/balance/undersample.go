// Package balance resamples labeled points to counter outcome imbalance.
package balance

import (
	"math"
	"math/rand"

	"github.com/gyeh/dropoff/internal/model"
)

// Stats describes one undersampling pass.
type Stats struct {
	Minority     int // drop_off = 1, all kept
	Majority     int // drop_off = 0 before sampling
	MajorityKept int
	Fraction     float64
}

// Undersample keeps every minority (label 1) point and a simple random draw
// without replacement of round(fraction × majority) majority (label 0) points,
// then shuffles the combined set. A fraction <= 0 targets the minority count.
// Fractions above 1 are capped at 1.
func Undersample(points []model.LabeledPoint, fraction float64, seed int64) ([]model.LabeledPoint, Stats) {
	var minority, majority []model.LabeledPoint
	for _, p := range points {
		if p.Label >= 0.5 {
			minority = append(minority, p)
		} else {
			majority = append(majority, p)
		}
	}

	st := Stats{Minority: len(minority), Majority: len(majority)}
	if fraction <= 0 {
		if len(majority) > 0 {
			fraction = float64(len(minority)) / float64(len(majority))
		}
	}
	st.Fraction = math.Min(fraction, 1)
	st.MajorityKept = int(math.Round(st.Fraction * float64(len(majority))))

	rng := rand.New(rand.NewSource(seed))
	out := make([]model.LabeledPoint, 0, len(minority)+st.MajorityKept)
	out = append(out, minority...)
	for _, i := range rng.Perm(len(majority))[:st.MajorityKept] {
		out = append(out, majority[i])
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, st
}
