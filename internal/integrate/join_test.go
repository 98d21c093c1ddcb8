package integrate

import (
	"testing"

	"github.com/gyeh/dropoff/internal/model"
)

func TestJoin(t *testing.T) {
	demo := []model.Demographic{
		{PatientID: "1", Gender: "Male", ChronicConditions: 5},
		{PatientID: "2", Gender: "Female"},
		{PatientID: "3", Gender: "Other"}, // no visit
		{PatientID: "", Gender: "Other"},  // null id
	}
	visits := []model.Visit{
		{PatientID: "2", DropOff: 1, Department: "ER"},
		{PatientID: "1", DropOff: 0, Department: "Cardiology"},
		{PatientID: "4", DropOff: 1}, // no demographics
		{PatientID: ""},
	}
	logs := []model.LogFeatures{
		{PatientID: "1", LogCount: 2, CriticalLogs: 1, UniqueEvents: 2, MostRecentDepartment: "ICU"},
		{PatientID: "9", LogCount: 4},
	}

	res := Join(demo, visits, logs)
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 integrated rows, got %d", len(res.Rows))
	}
	if res.UnmatchedDemo != 2 || res.UnmatchedVisits != 2 || res.RowsWithLogs != 1 {
		t.Errorf("diagnostics: %+v", res)
	}

	p1 := res.Rows[0]
	if p1.PatientID != "1" || p1.Department != "Cardiology" || p1.LogCount != 2 || p1.CriticalLogs != 1 || p1.MostRecentDepartment != "ICU" {
		t.Errorf("patient 1 row: %+v", p1)
	}

	p2 := res.Rows[1]
	if p2.LogCount != 0 || p2.CriticalLogs != 0 || p2.UniqueEvents != 0 || p2.MostRecentDepartment != model.UnknownCategory {
		t.Errorf("patient 2 without logs should be zero-filled: %+v", p2)
	}
	if p2.DropOff != 1 {
		t.Errorf("patient 2 drop_off: got %d", p2.DropOff)
	}
}

func TestJoin_UniquePerPatient(t *testing.T) {
	demo := []model.Demographic{{PatientID: "a"}, {PatientID: "b"}, {PatientID: "c"}}
	visits := []model.Visit{{PatientID: "c"}, {PatientID: "a"}, {PatientID: "b"}}

	seen := make(map[string]int)
	for _, r := range Join(demo, visits, nil).Rows {
		seen[r.PatientID]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if seen[id] != 1 {
			t.Errorf("patient %s: %d rows, want exactly 1", id, seen[id])
		}
	}
}

func TestJoin_RepeatedVisitsNotCollapsed(t *testing.T) {
	demo := []model.Demographic{{PatientID: "a"}}
	visits := []model.Visit{{PatientID: "a", VisitCount: 1}, {PatientID: "a", VisitCount: 2}}
	rows := Join(demo, visits, nil).Rows
	if len(rows) != 2 || rows[0].VisitCount != 1 || rows[1].VisitCount != 2 {
		t.Errorf("expected both visit rows in file order, got %+v", rows)
	}
}

func TestJoin_Empty(t *testing.T) {
	res := Join(nil, []model.Visit{{PatientID: "1"}}, nil)
	if len(res.Rows) != 0 || res.UnmatchedVisits != 1 {
		t.Errorf("empty join: %+v", res)
	}
}
