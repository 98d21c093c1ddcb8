package balance

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/gyeh/dropoff/internal/model"
)

func points(minority, majority int) []model.LabeledPoint {
	var out []model.LabeledPoint
	for i := 0; i < minority; i++ {
		out = append(out, model.LabeledPoint{PatientID: "m" + strconv.Itoa(i), Label: 1})
	}
	for i := 0; i < majority; i++ {
		out = append(out, model.LabeledPoint{PatientID: "j" + strconv.Itoa(i), Label: 0})
	}
	return out
}

func count(pts []model.LabeledPoint) (minority, majority int, ids map[string]int) {
	ids = make(map[string]int)
	for _, p := range pts {
		ids[p.PatientID]++
		if p.Label == 1 {
			minority++
		} else {
			majority++
		}
	}
	return minority, majority, ids
}

func TestUndersample(t *testing.T) {
	tests := []struct {
		name         string
		minority     int
		majority     int
		fraction     float64
		wantMajority int
	}{
		{"match minority", 10, 90, 0, 10},
		{"explicit fraction", 10, 90, 0.5, 45},
		{"rounds to nearest", 3, 7, 0.25, 2},
		{"capped at one", 5, 20, 3, 20},
		{"no majority", 4, 0, 0, 0},
		{"no minority", 0, 8, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, st := Undersample(points(tt.minority, tt.majority), tt.fraction, 42)
			minority, majority, ids := count(out)
			if minority != tt.minority {
				t.Errorf("minority: got %d, want all %d", minority, tt.minority)
			}
			if majority != tt.wantMajority || st.MajorityKept != tt.wantMajority {
				t.Errorf("majority: got %d (stats %d), want %d", majority, st.MajorityKept, tt.wantMajority)
			}
			for id, n := range ids {
				if n > 1 {
					t.Errorf("%s drawn %d times", id, n)
				}
			}
		})
	}
}

func TestUndersample_Deterministic(t *testing.T) {
	in := points(20, 200)
	a, _ := Undersample(in, 0, 7)
	b, _ := Undersample(in, 0, 7)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should give the same sample and order")
	}
	c, _ := Undersample(in, 0, 8)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should give a different sample")
	}
}

func TestUndersample_Shuffled(t *testing.T) {
	out, _ := Undersample(points(50, 50), 1, 3)
	// without a shuffle all minority rows would lead
	for i := 0; i < 50; i++ {
		if out[i].Label == 0 {
			return
		}
	}
	t.Error("combined set was not shuffled")
}
