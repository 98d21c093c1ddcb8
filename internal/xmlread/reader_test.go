package xmlread

import (
	"strings"
	"testing"
)

const sample = `<?xml version="1.0"?>
<logs>
  <log>
    <department>Cardiology</department>
    <event>Check-in</event>
    <log_type>info</log_type>
    <patient_id> 1 </patient_id>
    <staff_on_duty>S-10</staff_on_duty>
    <timestamp>2024-03-01 09:15</timestamp>
  </log>
  <log patient_id="2" department="Radiology" timestamp="2024-03-02 10:00">
    <event>Scan</event>
    <log_type>critical</log_type>
  </log>
</logs>`

func TestRead_ElementsAndAttributes(t *testing.T) {
	recs, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	first := recs[0]
	if first.PatientID != "1" || first.Department != "Cardiology" || first.Timestamp != "2024-03-01 09:15" {
		t.Errorf("unexpected first record: %+v", first)
	}

	second := recs[1]
	if second.PatientID != "2" || second.Department != "Radiology" || second.LogType != "critical" {
		t.Errorf("attribute fallback not applied: %+v", second)
	}
	if second.StaffOnDuty != "" {
		t.Errorf("absent field should be empty, got %q", second.StaffOnDuty)
	}
}

func TestRead_Malformed(t *testing.T) {
	if _, err := Read(strings.NewReader("<logs><log><event>x</log></logs>")); err == nil {
		t.Fatal("expected error for malformed xml")
	}
}

func TestRead_NoRecords(t *testing.T) {
	recs, err := Read(strings.NewReader("<logs></logs>"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}
