package fixture

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/gyeh/dropoff/internal/csvread"
	"github.com/gyeh/dropoff/internal/normalize"
	"github.com/gyeh/dropoff/internal/xmlread"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Patients = 30
	a, b := Generate(cfg), Generate(cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("same config produced different datasets")
	}
	cfg.Seed++
	if reflect.DeepEqual(a, Generate(cfg)) {
		t.Error("different seeds produced identical datasets")
	}
}

func TestWriteAll_CleansWithoutErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Patients = 50
	paths, ds, err := WriteAll(t.TempDir(), cfg)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	demoTable, err := csvread.Open(paths.Demographics, "demographics")
	if err != nil {
		t.Fatalf("open demographics: %v", err)
	}
	demo, err := normalize.Demographics(demoTable)
	if err != nil {
		t.Fatalf("clean demographics: %v", err)
	}
	if len(demo) != cfg.Patients {
		t.Errorf("demographics: %d rows, want %d", len(demo), cfg.Patients)
	}
	for _, d := range demo {
		if d.ChronicConditions > 5 {
			t.Errorf("patient %s: chronic_conditions %d not clamped", d.PatientID, d.ChronicConditions)
		}
		switch d.Gender {
		case "Male", "Female", "Other":
		default:
			t.Errorf("patient %s: gender %q not canonical", d.PatientID, d.Gender)
		}
	}

	visitTable, err := csvread.Open(paths.Visits, "visits")
	if err != nil {
		t.Fatalf("open visits: %v", err)
	}
	visits, err := normalize.Visits(visitTable)
	if err != nil {
		t.Fatalf("clean visits: %v", err)
	}
	if len(visits) != len(ds.Visits)-1 {
		t.Errorf("visits: %d rows, want %d", len(visits), len(ds.Visits)-1)
	}

	recs, err := xmlread.Open(paths.Logs)
	if err != nil {
		t.Fatalf("open logs: %v", err)
	}
	events, err := normalize.Events(recs)
	if err != nil {
		t.Fatalf("clean logs: %v", err)
	}
	if len(events) != len(ds.Logs) {
		t.Errorf("logs: %d events, want %d", len(events), len(ds.Logs))
	}
}

func TestGenerator_MoneyParses(t *testing.T) {
	g := &generator{rng: rand.New(rand.NewSource(1))}
	var formatted int
	for _, v := range []float64{12.5, 999.99, 1000, 1234.5, 9876.54} {
		for i := 0; i < 20; i++ {
			s := g.money(v)
			if strings.HasPrefix(s, "$") {
				formatted++
			}
			got, err := normalize.ParseNumber(s)
			if err != nil || math.Abs(got-v) > 0.005 {
				t.Errorf("money(%v) = %q parses to %v, %v", v, s, got, err)
			}
		}
	}
	if formatted == 0 {
		t.Error("expected some currency-formatted amounts")
	}
}
