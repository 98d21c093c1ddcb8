package normalize

import (
	"errors"

	"github.com/gyeh/dropoff/internal/model"
	"github.com/gyeh/dropoff/internal/xmlread"
)

var errMissingPatientID = errors.New("patient_id is required")

// Events casts raw log records. A record without a patient id or with an
// unparseable timestamp fails the whole batch; an empty timestamp is kept as nil.
func Events(recs []xmlread.Record) ([]model.LogEvent, error) {
	out := make([]model.LogEvent, len(recs))
	for i, rec := range recs {
		if rec.PatientID == "" {
			return nil, &ValueError{Dataset: "logs", Row: i + 1, Column: "patient_id", Err: errMissingPatientID}
		}
		ts, err := ParseLogTimestamp(rec.Timestamp)
		if err != nil {
			return nil, &ValueError{Dataset: "logs", Row: i + 1, Column: "timestamp", Value: rec.Timestamp, Err: err}
		}
		out[i] = model.LogEvent{
			Seq:         i,
			PatientID:   rec.PatientID,
			Department:  Category(rec.Department, rec.Department != ""),
			Event:       rec.Event,
			LogType:     rec.LogType,
			StaffOnDuty: rec.StaffOnDuty,
			Timestamp:   ts,
		}
	}
	return out, nil
}
