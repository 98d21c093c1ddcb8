package model

import "time"

// Demographic is one cleaned patient attribute row.
type Demographic struct {
	PatientID          string
	Age                float64
	Gender             string // Male, Female or Other
	ZipCode            string
	InsuranceType      string
	MaritalStatus      string
	EducationLevel     string
	EmploymentStatus   string
	ChronicConditions  int64 // capped at MaxChronicConditions
	HasMobileApp       int64
	LanguagePreference string
	AvgMonthlyIncome   float64
}

// Visit is one cleaned visit row. Many visits may reference the same patient.
type Visit struct {
	PatientID         string
	VisitCount        int64
	TotalSpend        float64
	WaitTime          float64
	VisitType         string
	AppointmentDay    string
	Department        string
	SatisfactionScore float64
	StaffID           string
	VisitDuration     float64
	PrescriptionGiven int64
	FollowUpScheduled int64
	DropOff           int64 // 0 or 1; null is read as 0
}

// LogEvent is one parsed event log entry.
type LogEvent struct {
	Seq         int // position in the source file, used for tie-breaks
	PatientID   string
	Department  string
	Event       string
	LogType     string
	StaffOnDuty string
	Timestamp   *time.Time // nil when the source cell was empty
}

// LogFeatures is the per-patient aggregate of the event log.
type LogFeatures struct {
	PatientID            string
	LogCount             int64
	CriticalLogs         int64
	UniqueEvents         int64
	MostRecentDepartment string
}

// NoLogFeatures returns the fill values for a patient absent from the logs.
func NoLogFeatures(patientID string) LogFeatures {
	return LogFeatures{
		PatientID:            patientID,
		MostRecentDepartment: UnknownCategory,
	}
}
