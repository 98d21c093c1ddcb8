// Package logagg reduces the event log to one feature row per patient.
package logagg

import (
	"strings"
	"time"

	"github.com/gyeh/dropoff/internal/model"
)

type acc struct {
	features model.LogFeatures
	events   map[string]struct{}
	latest   time.Time
	hasTime  bool
}

// Aggregate computes, per patient, the event count, the count of events whose
// log_type is "critical" (case-insensitive), the number of distinct non-empty
// event descriptions, and the department of the latest timestamped event.
// A record without a description still counts toward log_count.
//
// Ties on the latest timestamp go to the event that appears first in the log.
// Events without a timestamp count toward the totals but never win recency; a
// patient with no timestamped events gets model.UnknownCategory.
//
// Rows are returned in order of each patient's first appearance.
func Aggregate(events []model.LogEvent) []model.LogFeatures {
	byPatient := make(map[string]*acc)
	var order []string

	for _, ev := range events {
		a, ok := byPatient[ev.PatientID]
		if !ok {
			a = &acc{
				features: model.NoLogFeatures(ev.PatientID),
				events:   make(map[string]struct{}),
			}
			byPatient[ev.PatientID] = a
			order = append(order, ev.PatientID)
		}

		a.features.LogCount++
		if strings.EqualFold(strings.TrimSpace(ev.LogType), model.CriticalLogType) {
			a.features.CriticalLogs++
		}
		if e := strings.TrimSpace(ev.Event); e != "" {
			a.events[e] = struct{}{}
		}

		if ev.Timestamp == nil {
			continue
		}
		// strictly later only: the first event at the max timestamp keeps the slot
		if !a.hasTime || ev.Timestamp.After(a.latest) {
			a.latest = *ev.Timestamp
			a.hasTime = true
			a.features.MostRecentDepartment = ev.Department
		}
	}

	out := make([]model.LogFeatures, len(order))
	for i, id := range order {
		a := byPatient[id]
		a.features.UniqueEvents = int64(len(a.events))
		out[i] = a.features
	}
	return out
}

// Index maps patient id to its aggregated features.
func Index(features []model.LogFeatures) map[string]model.LogFeatures {
	idx := make(map[string]model.LogFeatures, len(features))
	for _, f := range features {
		idx[f.PatientID] = f
	}
	return idx
}
