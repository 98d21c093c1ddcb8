package model

import "strconv"

// IntegratedRow is the canonical per-patient wide row: demographics joined with
// a visit and the patient's aggregated log features. The parquet tags define the
// on-disk layout shared by `dropoff integrate` and `dropoff train`.
type IntegratedRow struct {
	PatientID string `parquet:"patient_id"`

	// Demographics
	Age                float64 `parquet:"age"`
	Gender             string  `parquet:"gender"`
	ZipCode            string  `parquet:"zip_code"`
	InsuranceType      string  `parquet:"insurance_type"`
	MaritalStatus      string  `parquet:"marital_status"`
	EducationLevel     string  `parquet:"education_level"`
	EmploymentStatus   string  `parquet:"employment_status"`
	ChronicConditions  int64   `parquet:"chronic_conditions"`
	HasMobileApp       int64   `parquet:"has_mobile_app"`
	LanguagePreference string  `parquet:"language_preference"`
	AvgMonthlyIncome   float64 `parquet:"avg_monthly_income"`

	// Visit
	VisitCount        int64   `parquet:"visit_count"`
	TotalSpend        float64 `parquet:"total_spend"`
	WaitTime          float64 `parquet:"wait_time"`
	VisitType         string  `parquet:"visit_type"`
	AppointmentDay    string  `parquet:"appointment_day"`
	Department        string  `parquet:"department"`
	SatisfactionScore float64 `parquet:"satisfaction_score"`
	StaffID           string  `parquet:"staff_id"`
	VisitDuration     float64 `parquet:"visit_duration"`
	PrescriptionGiven int64   `parquet:"prescription_given"`
	FollowUpScheduled int64   `parquet:"follow_up_scheduled"`
	DropOff           int64   `parquet:"drop_off"`

	// Log aggregates
	LogCount             int64  `parquet:"log_count"`
	CriticalLogs         int64  `parquet:"critical_logs"`
	UniqueEvents         int64  `parquet:"unique_events"`
	MostRecentDepartment string `parquet:"most_recent_department"`
}

// IntegratedColumns returns the ordered column names used for the CSV export
// and for COPY into dropoff.integrated_patients (after run_id).
func IntegratedColumns() []string {
	return []string{
		"patient_id",
		"age",
		"gender",
		"zip_code",
		"insurance_type",
		"marital_status",
		"education_level",
		"employment_status",
		"chronic_conditions",
		"has_mobile_app",
		"language_preference",
		"avg_monthly_income",
		"visit_count",
		"total_spend",
		"wait_time",
		"visit_type",
		"appointment_day",
		"department",
		"satisfaction_score",
		"staff_id",
		"visit_duration",
		"prescription_given",
		"follow_up_scheduled",
		"drop_off",
		"log_count",
		"critical_logs",
		"unique_events",
		"most_recent_department",
	}
}

// CopyValues returns the row values in the same order as IntegratedColumns(),
// suitable for pgx CopyFromSource.
func (r *IntegratedRow) CopyValues() []any {
	return []any{
		r.PatientID,
		r.Age,
		r.Gender,
		r.ZipCode,
		r.InsuranceType,
		r.MaritalStatus,
		r.EducationLevel,
		r.EmploymentStatus,
		r.ChronicConditions,
		r.HasMobileApp,
		r.LanguagePreference,
		r.AvgMonthlyIncome,
		r.VisitCount,
		r.TotalSpend,
		r.WaitTime,
		r.VisitType,
		r.AppointmentDay,
		r.Department,
		r.SatisfactionScore,
		r.StaffID,
		r.VisitDuration,
		r.PrescriptionGiven,
		r.FollowUpScheduled,
		r.DropOff,
		r.LogCount,
		r.CriticalLogs,
		r.UniqueEvents,
		r.MostRecentDepartment,
	}
}

// Record formats the row as CSV fields in IntegratedColumns() order.
func (r *IntegratedRow) Record() []string {
	vals := r.CopyValues()
	rec := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case string:
			rec[i] = x
		case int64:
			rec[i] = strconv.FormatInt(x, 10)
		case float64:
			rec[i] = strconv.FormatFloat(x, 'f', -1, 64)
		}
	}
	return rec
}

// Categorical returns the value of a categorical feature column.
func (r *IntegratedRow) Categorical(name string) (string, bool) {
	switch name {
	case "gender":
		return r.Gender, true
	case "insurance_type":
		return r.InsuranceType, true
	case "marital_status":
		return r.MaritalStatus, true
	case "education_level":
		return r.EducationLevel, true
	case "employment_status":
		return r.EmploymentStatus, true
	case "language_preference":
		return r.LanguagePreference, true
	case "visit_type":
		return r.VisitType, true
	case "appointment_day":
		return r.AppointmentDay, true
	case "department":
		return r.Department, true
	case "most_recent_department":
		return r.MostRecentDepartment, true
	}
	return "", false
}

// Numeric returns the value of a numeric feature column.
func (r *IntegratedRow) Numeric(name string) (float64, bool) {
	switch name {
	case "age":
		return r.Age, true
	case "chronic_conditions":
		return float64(r.ChronicConditions), true
	case "has_mobile_app":
		return float64(r.HasMobileApp), true
	case "avg_monthly_income":
		return r.AvgMonthlyIncome, true
	case "visit_count":
		return float64(r.VisitCount), true
	case "total_spend":
		return r.TotalSpend, true
	case "wait_time":
		return r.WaitTime, true
	case "satisfaction_score":
		return r.SatisfactionScore, true
	case "visit_duration":
		return r.VisitDuration, true
	case "prescription_given":
		return float64(r.PrescriptionGiven), true
	case "follow_up_scheduled":
		return float64(r.FollowUpScheduled), true
	case "log_count":
		return float64(r.LogCount), true
	case "critical_logs":
		return float64(r.CriticalLogs), true
	case "unique_events":
		return float64(r.UniqueEvents), true
	}
	return 0, false
}
