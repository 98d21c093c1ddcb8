// Package integrate builds the per-patient wide table.
package integrate

import (
	"github.com/gyeh/dropoff/internal/logagg"
	"github.com/gyeh/dropoff/internal/model"
)

// Result is the integrated table with join diagnostics.
type Result struct {
	Rows            []model.IntegratedRow
	UnmatchedDemo   int // demographic rows with no visit
	UnmatchedVisits int // visit rows with no demographic row
	RowsWithLogs    int // integrated rows that found log features
}

// Join inner-joins demographics with visits on patient id, then left-joins the
// aggregated log features, filling absent log columns with zero counts and
// model.UnknownCategory.
//
// Output order follows demographics, then visits within a patient. Duplicate
// ids are not collapsed: two visit rows for one patient yield two integrated
// rows. Empty ids never match.
func Join(demo []model.Demographic, visits []model.Visit, logs []model.LogFeatures) *Result {
	visitsByID := make(map[string][]int, len(visits))
	for i, v := range visits {
		if v.PatientID == "" {
			continue
		}
		visitsByID[v.PatientID] = append(visitsByID[v.PatientID], i)
	}

	logsByID := logagg.Index(logs)

	res := &Result{}
	matchedVisits := make(map[string]bool, len(visitsByID))
	for i := range demo {
		d := &demo[i]
		idxs := visitsByID[d.PatientID]
		if d.PatientID == "" || len(idxs) == 0 {
			res.UnmatchedDemo++
			continue
		}
		matchedVisits[d.PatientID] = true

		lf, ok := logsByID[d.PatientID]
		if !ok {
			lf = model.NoLogFeatures(d.PatientID)
		}
		for _, vi := range idxs {
			if ok {
				res.RowsWithLogs++
			}
			res.Rows = append(res.Rows, row(d, &visits[vi], lf))
		}
	}

	for _, v := range visits {
		if !matchedVisits[v.PatientID] {
			res.UnmatchedVisits++
		}
	}
	return res
}

func row(d *model.Demographic, v *model.Visit, lf model.LogFeatures) model.IntegratedRow {
	return model.IntegratedRow{
		PatientID: d.PatientID,

		Age:                d.Age,
		Gender:             d.Gender,
		ZipCode:            d.ZipCode,
		InsuranceType:      d.InsuranceType,
		MaritalStatus:      d.MaritalStatus,
		EducationLevel:     d.EducationLevel,
		EmploymentStatus:   d.EmploymentStatus,
		ChronicConditions:  d.ChronicConditions,
		HasMobileApp:       d.HasMobileApp,
		LanguagePreference: d.LanguagePreference,
		AvgMonthlyIncome:   d.AvgMonthlyIncome,

		VisitCount:        v.VisitCount,
		TotalSpend:        v.TotalSpend,
		WaitTime:          v.WaitTime,
		VisitType:         v.VisitType,
		AppointmentDay:    v.AppointmentDay,
		Department:        v.Department,
		SatisfactionScore: v.SatisfactionScore,
		StaffID:           v.StaffID,
		VisitDuration:     v.VisitDuration,
		PrescriptionGiven: v.PrescriptionGiven,
		FollowUpScheduled: v.FollowUpScheduled,
		DropOff:           v.DropOff,

		LogCount:             lf.LogCount,
		CriticalLogs:         lf.CriticalLogs,
		UniqueEvents:         lf.UniqueEvents,
		MostRecentDepartment: lf.MostRecentDepartment,
	}
}
