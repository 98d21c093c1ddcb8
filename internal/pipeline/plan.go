package pipeline

import (
	"github.com/gyeh/dropoff/internal/config"
	"github.com/gyeh/dropoff/internal/csvread"
	"github.com/gyeh/dropoff/internal/model"
	"github.com/gyeh/dropoff/internal/normalize"
	"github.com/gyeh/dropoff/internal/xmlread"
)

// InputReport profiles one raw input without transforming it.
type InputReport struct {
	Dataset    string
	File       normalize.Fingerprint
	Rows       int
	Columns    []string
	NullCounts map[string]int
	SchemaErr  error // nil when every required column is present
}

// Plan fingerprints and profiles the three inputs. Read failures are
// returned as PhaseLoad errors; missing columns are reported, not returned.
func Plan(cfg *config.Config) ([]InputReport, error) {
	var reports []InputReport

	for _, in := range []struct {
		dataset  string
		path     string
		required func(*csvread.Table) error
	}{
		{"demographics", cfg.DemographicsPath, func(t *csvread.Table) error {
			if _, err := t.RequireOneOf(model.DemographicsIDColumns...); err != nil {
				return err
			}
			return t.Require(model.DemographicsColumns...)
		}},
		{"visits", cfg.VisitsPath, func(t *csvread.Table) error {
			return t.Require(model.VisitsColumns...)
		}},
	} {
		fp, err := normalize.FingerprintFile(in.path)
		if err != nil {
			return nil, fail(PhaseLoad, err)
		}
		t, err := csvread.Open(in.path, in.dataset)
		if err != nil {
			return nil, fail(PhaseLoad, err)
		}
		reports = append(reports, InputReport{
			Dataset:    in.dataset,
			File:       fp,
			Rows:       t.Len(),
			Columns:    t.Header,
			NullCounts: t.NullCounts(),
			SchemaErr:  in.required(t),
		})
	}

	fp, err := normalize.FingerprintFile(cfg.LogsPath)
	if err != nil {
		return nil, fail(PhaseLoad, err)
	}
	recs, err := xmlread.Open(cfg.LogsPath)
	if err != nil {
		return nil, fail(PhaseLoad, err)
	}
	reports = append(reports, InputReport{
		Dataset:    "logs",
		File:       fp,
		Rows:       len(recs),
		Columns:    model.LogFields,
		NullCounts: logNullCounts(recs),
	})
	return reports, nil
}

func logNullCounts(recs []xmlread.Record) map[string]int {
	counts := make(map[string]int, len(model.LogFields))
	for _, f := range model.LogFields {
		counts[f] = 0
	}
	for _, r := range recs {
		for field, v := range map[string]string{
			"department":    r.Department,
			"event":         r.Event,
			"log_type":      r.LogType,
			"patient_id":    r.PatientID,
			"staff_on_duty": r.StaffOnDuty,
			"timestamp":     r.Timestamp,
		} {
			if v == "" {
				counts[field]++
			}
		}
	}
	return counts
}
