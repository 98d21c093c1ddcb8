package model

// Imputation sentinels applied when a categorical or numeric cell is null.
const (
	UnknownCategory = "Unknown"
	DefaultNumeric  = 0
)

// Kind distinguishes how a feature column is encoded.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

// FeatureColumn is one column of the integrated table that can feed the encoder.
type FeatureColumn struct {
	Name string // integrated table column, e.g. "insurance_type"
	Kind Kind
}

// AllFeatureColumns lists the encodable columns in canonical (vector) order:
// categorical columns first, then numeric columns.
var AllFeatureColumns = []FeatureColumn{
	{Name: "gender", Kind: Categorical},
	{Name: "insurance_type", Kind: Categorical},
	{Name: "marital_status", Kind: Categorical},
	{Name: "education_level", Kind: Categorical},
	{Name: "employment_status", Kind: Categorical},
	{Name: "language_preference", Kind: Categorical},
	{Name: "visit_type", Kind: Categorical},
	{Name: "appointment_day", Kind: Categorical},
	{Name: "department", Kind: Categorical},
	{Name: "most_recent_department", Kind: Categorical},
	{Name: "age", Kind: Numeric},
	{Name: "chronic_conditions", Kind: Numeric},
	{Name: "has_mobile_app", Kind: Numeric},
	{Name: "avg_monthly_income", Kind: Numeric},
	{Name: "visit_count", Kind: Numeric},
	{Name: "total_spend", Kind: Numeric},
	{Name: "wait_time", Kind: Numeric},
	{Name: "satisfaction_score", Kind: Numeric},
	{Name: "visit_duration", Kind: Numeric},
	{Name: "prescription_given", Kind: Numeric},
	{Name: "follow_up_scheduled", Kind: Numeric},
	{Name: "log_count", Kind: Numeric},
	{Name: "critical_logs", Kind: Numeric},
	{Name: "unique_events", Kind: Numeric},
}

// FeatureColumnByName returns the FeatureColumn for the given name, or ok=false.
func FeatureColumnByName(name string) (FeatureColumn, bool) {
	for _, c := range AllFeatureColumns {
		if c.Name == name {
			return c, true
		}
	}
	return FeatureColumn{}, false
}

// FeatureColumnNames returns the names of the given columns, or of
// AllFeatureColumns when cols is nil.
func FeatureColumnNames(cols []FeatureColumn) []string {
	if cols == nil {
		cols = AllFeatureColumns
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// SegmentColumn is the categorical feature appended after clustering.
const SegmentColumn = "patient_segment"

// Raw input columns. Demographics accept "id" as an alias for the identifier.
var (
	DemographicsIDColumns = []string{"patient_id", "id"}

	DemographicsColumns = []string{
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
	}

	VisitsColumns = []string{
		"patient_id",
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
	}

	LogFields = []string{
		"department",
		"event",
		"log_type",
		"patient_id",
		"staff_on_duty",
		"timestamp",
	}
)

// MaxChronicConditions caps the chronic-condition count; there is no floor.
const MaxChronicConditions = 5

// CriticalLogType is the log_type value counted into critical_logs. Matching
// ignores case and surrounding whitespace.
const CriticalLogType = "critical"

// LogTimestampLayout is the event log timestamp format (yyyy-MM-dd HH:mm).
const LogTimestampLayout = "2006-01-02 15:04"
