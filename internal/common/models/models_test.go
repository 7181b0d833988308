package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeCalendarReindexesLegacyNames(t *testing.T) {
	employees := []Employee{NewEmployee(2, "Ariel", 0, false, false), NewEmployee(3, "Robert", 0, false, false)}
	raw := json.RawMessage(`{
		"Ariel": {"9": {"5": {"status": "hadir", "lateHours": 0}}},
		"3": {"9": {"6": {"status": "telat", "lateHours": 2}}},
		"Hantu": {"9": {"7": {"status": "libur", "lateHours": 0}}}
	}`)
	doc, err := DecodeCalendar(raw, employees)
	if err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	cal := doc.Calendar
	if rec := cal.Lookup(2, 9, 5); rec == nil || rec.Status != StatusHadir {
		t.Fatalf("expected Ariel's record under id 2, got %+v", rec)
	}
	if rec := cal.Lookup(3, 9, 6); rec == nil || rec.LateHours != 2 {
		t.Fatalf("expected id-keyed record to survive, got %+v", rec)
	}
	if len(cal) != 2 {
		t.Fatalf("expected 2 id-keyed entries, got %d", len(cal))
	}
	if _, ok := doc.Legacy["Hantu"]; !ok || len(doc.Legacy) != 1 {
		t.Fatalf("expected unknown name kept as legacy history, got %v", doc.Legacy)
	}
}

func TestCalendarDocumentWritesLegacyBack(t *testing.T) {
	raw := json.RawMessage(`{"ArielLama": {"2": {"9": {"status": "hadir", "lateHours": 1}}}}`)
	doc, err := DecodeCalendar(raw, []Employee{NewEmployee(2, "Ariel", 0, false, false)})
	if err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	doc.Calendar.Day(2, 2, 10).Status = StatusTelat

	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var stored map[string]map[string]map[string]DayRecord
	if err := json.Unmarshal(encoded, &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec, ok := stored["ArielLama"]["2"]["9"]; !ok || rec.Status != StatusHadir || rec.LateHours != 1 {
		t.Fatalf("expected legacy history to be written back, got %s", encoded)
	}
	if stored["2"]["2"]["10"].Status != StatusTelat {
		t.Fatalf("expected id-keyed record, got %s", encoded)
	}

	// Setelah karyawan dengan nama itu ada di roster, riwayatnya diindeks ulang.
	again, err := DecodeCalendar(encoded, []Employee{NewEmployee(5, "ArielLama", 0, false, false)})
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}
	if rec := again.Calendar.Lookup(5, 2, 9); rec == nil || rec.LateHours != 1 || len(again.Legacy) != 0 {
		t.Fatalf("expected legacy history re-keyed to id 5, got %+v %v", rec, again.Legacy)
	}
}

func TestCalendarRoundTripsWithIntKeys(t *testing.T) {
	cal := AttendanceCalendar{}
	cal.Day(1, 0, 31).Status = StatusLibur
	raw, err := json.Marshal(cal)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := DecodeCalendar(raw, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec := back.Calendar.Lookup(1, 0, 31); rec == nil || rec.Status != StatusLibur {
		t.Fatalf("expected libur on Jan 31, got %+v", rec)
	}
	if back.Legacy != nil {
		t.Fatalf("expected no legacy entries, got %v", back.Legacy)
	}
}

func TestMigrateEmployeeFillsShiftDateAndDropsLegacyCategories(t *testing.T) {
	raw := json.RawMessage(`[{
		"id": 2, "name": "Ariel",
		"workTasks": [{"id": "a", "text": "Restock"}, {"id": "b", "taskType": "cleaning", "text": "Sapu"}],
		"completedTasksHistory": [{"id": "c", "text": "Packing", "completed": true, "completedAt": "2026-03-02T10:00:00Z"}]
	}]`)
	employees, err := DecodeEmployees(raw, time.UTC)
	if err != nil {
		t.Fatalf("decode employees: %v", err)
	}
	emp := employees[0]
	if len(emp.WorkTasks) != 1 || emp.WorkTasks[0].TaskType != TaskTypeWork {
		t.Fatalf("expected only the work task to remain, got %+v", emp.WorkTasks)
	}
	if emp.CompletedTasksHistory[0].ShiftDate != "2026-03-02" {
		t.Fatalf("expected shiftDate from completedAt, got %q", emp.CompletedTasksHistory[0].ShiftDate)
	}
	if emp.Status != StatusBelum || emp.Shifts == nil {
		t.Fatalf("expected defaults to be filled, got %+v", emp)
	}
}

func TestEmployeeCloneIsDeep(t *testing.T) {
	emp := NewEmployee(1, "Desta", 0, true, true)
	emp.WorkTasks = append(emp.WorkTasks, Task{ID: "t1", PauseHistory: []PauseRecord{{Reason: "makan"}}})
	cp := emp.Clone()
	cp.WorkTasks[0].PauseHistory[0].Reason = "ubah"
	if emp.WorkTasks[0].PauseHistory[0].Reason != "makan" {
		t.Fatalf("expected clone not to share pause history")
	}
}
