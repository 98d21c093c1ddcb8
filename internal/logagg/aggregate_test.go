package logagg

import (
	"testing"
	"time"

	"github.com/gyeh/dropoff/internal/model"
)

func ts(s string) *time.Time {
	t, err := time.Parse(model.LogTimestampLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestAggregate_Counts(t *testing.T) {
	events := []model.LogEvent{
		{Seq: 0, PatientID: "1", Department: "ER", Event: "check-in", LogType: "info", Timestamp: ts("2024-01-01 08:00")},
		{Seq: 1, PatientID: "2", Department: "Lab", Event: "draw", LogType: "critical", Timestamp: ts("2024-01-01 09:00")},
		{Seq: 2, PatientID: "1", Department: "Cardiology", Event: "alarm", LogType: "Critical", Timestamp: ts("2024-01-02 08:00")},
		{Seq: 3, PatientID: "1", Department: "ER", Event: "check-in", LogType: "info", Timestamp: ts("2024-01-01 12:00")},
	}

	got := Aggregate(events)
	if len(got) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(got))
	}

	p1 := got[0]
	if p1.PatientID != "1" {
		t.Fatalf("first-appearance order broken: %+v", got)
	}
	if p1.LogCount != 3 || p1.CriticalLogs != 1 || p1.UniqueEvents != 2 {
		t.Errorf("patient 1 counts: %+v", p1)
	}
	if p1.MostRecentDepartment != "Cardiology" {
		t.Errorf("patient 1 most recent department: got %q", p1.MostRecentDepartment)
	}

	p2 := got[1]
	if p2.LogCount != 1 || p2.CriticalLogs != 1 || p2.UniqueEvents != 1 || p2.MostRecentDepartment != "Lab" {
		t.Errorf("patient 2: %+v", p2)
	}
}

func TestAggregate_TieGoesToFirstEvent(t *testing.T) {
	events := []model.LogEvent{
		{Seq: 0, PatientID: "7", Department: "Oncology", Event: "a", Timestamp: ts("2024-05-05 10:30")},
		{Seq: 1, PatientID: "7", Department: "Radiology", Event: "b", Timestamp: ts("2024-05-05 10:30")},
	}
	got := Aggregate(events)
	if got[0].MostRecentDepartment != "Oncology" {
		t.Errorf("tie-break: got %q, want Oncology", got[0].MostRecentDepartment)
	}
}

func TestAggregate_NullTimestamps(t *testing.T) {
	events := []model.LogEvent{
		{Seq: 0, PatientID: "9", Department: "ER", Event: "x"},
		{Seq: 1, PatientID: "9", Department: "ICU", Event: "y"},
	}
	got := Aggregate(events)
	if got[0].LogCount != 2 {
		t.Errorf("untimed events still count: %+v", got[0])
	}
	if got[0].MostRecentDepartment != model.UnknownCategory {
		t.Errorf("no timestamp should leave Unknown, got %q", got[0].MostRecentDepartment)
	}
}

func TestIndex(t *testing.T) {
	idx := Index(Aggregate([]model.LogEvent{{PatientID: "3", Event: "e"}}))
	if f, ok := idx["3"]; !ok || f.LogCount != 1 {
		t.Errorf("Index: %+v", idx)
	}
}

func TestAggregate_EmptyEventNotDistinct(t *testing.T) {
	events := []model.LogEvent{
		{Seq: 0, PatientID: "1", Department: "ER", LogType: " CRITICAL ", Timestamp: ts("2024-01-01 08:00")},
		{Seq: 1, PatientID: "1", Department: "ER", Event: "Admit", LogType: "info", Timestamp: ts("2024-01-01 07:00")},
		{Seq: 2, PatientID: "1", Department: "Lab", Event: "  ", LogType: "info"},
	}
	got := Aggregate(events)[0]
	if got.LogCount != 3 {
		t.Errorf("LogCount: got %d, want 3", got.LogCount)
	}
	if got.UniqueEvents != 1 {
		t.Errorf("UniqueEvents: got %d, want 1", got.UniqueEvents)
	}
	if got.CriticalLogs != 1 {
		t.Errorf("CriticalLogs: got %d, want 1", got.CriticalLogs)
	}
	if got.MostRecentDepartment != "ER" {
		t.Errorf("MostRecentDepartment: got %q, want ER", got.MostRecentDepartment)
	}
}

func TestAggregate_OnlyEmptyEvents(t *testing.T) {
	got := Aggregate([]model.LogEvent{{PatientID: "4"}, {PatientID: "4"}})[0]
	if got.LogCount != 2 || got.UniqueEvents != 0 {
		t.Errorf("got %+v, want LogCount 2 and UniqueEvents 0", got)
	}
}
