package normalize

import (
	"github.com/gyeh/dropoff/internal/csvread"
	"github.com/gyeh/dropoff/internal/model"
)

// Visits validates the visits schema and applies fixed-value imputation:
// numeric nulls become model.DefaultNumeric and categorical nulls become
// model.UnknownCategory. A null drop_off is read as 0 (no drop-off).
func Visits(t *csvread.Table) ([]model.Visit, error) {
	if err := t.Require(model.VisitsColumns...); err != nil {
		return nil, err
	}

	out := make([]model.Visit, t.Len())
	for r := range t.Rows {
		c := cells{t: t, row: r}
		id, _ := t.Cell(r, "patient_id")
		v := model.Visit{
			PatientID:         id,
			VisitCount:        c.countOr("visit_count", model.DefaultNumeric),
			TotalSpend:        c.numberOr("total_spend", model.DefaultNumeric),
			WaitTime:          c.numberOr("wait_time", model.DefaultNumeric),
			VisitType:         Category(t.Cell(r, "visit_type")),
			AppointmentDay:    Category(t.Cell(r, "appointment_day")),
			Department:        Category(t.Cell(r, "department")),
			SatisfactionScore: c.numberOr("satisfaction_score", model.DefaultNumeric),
			StaffID:           Category(t.Cell(r, "staff_id")),
			VisitDuration:     c.numberOr("visit_duration", model.DefaultNumeric),
			PrescriptionGiven: c.flagOr("prescription_given", model.DefaultNumeric),
			FollowUpScheduled: c.flagOr("follow_up_scheduled", model.DefaultNumeric),
			DropOff:           c.flagOr("drop_off", model.DefaultNumeric),
		}
		if c.err != nil {
			return nil, c.err
		}
		out[r] = v
	}
	return out, nil
}
