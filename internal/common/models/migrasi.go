package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MigrateEmployee memperbaiki data lama saat dibaca: slice nil, tugas dengan
// kategori yang sudah dihapus, dan riwayat tanpa shiftDate. Mengembalikan true
// bila ada perubahan.
func MigrateEmployee(e *Employee, loc *time.Location) bool {
	changed := false
	if e.Shifts == nil || e.BreakHistory == nil || e.IzinHistory == nil || e.WorkTasks == nil || e.CompletedTasksHistory == nil || e.Status == "" {
		e.EnsureSlices()
		changed = true
	}
	if kept := workOnly(e.WorkTasks); len(kept) != len(e.WorkTasks) {
		e.WorkTasks = kept
		changed = true
	}
	if kept := workOnly(e.CompletedTasksHistory); len(kept) != len(e.CompletedTasksHistory) {
		e.CompletedTasksHistory = kept
		changed = true
	}
	for i := range e.CompletedTasksHistory {
		t := &e.CompletedTasksHistory[i]
		if t.ShiftDate != "" || t.CompletedAt == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, t.CompletedAt)
		if err != nil {
			continue
		}
		if loc != nil {
			ts = ts.In(loc)
		}
		t.ShiftDate = ts.Format("2006-01-02")
		changed = true
	}
	return changed
}

func workOnly(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsWork() {
			continue
		}
		t.TaskType = TaskTypeWork
		if t.PauseHistory == nil {
			t.PauseHistory = []PauseRecord{}
		}
		out = append(out, t)
	}
	return out
}

// DecodeEmployees membaca dokumen employees dan menjalankan migrasi.
func DecodeEmployees(raw json.RawMessage, loc *time.Location) ([]Employee, error) {
	var employees []Employee
	if len(raw) == 0 || string(raw) == "null" {
		return []Employee{}, nil
	}
	if err := json.Unmarshal(raw, &employees); err != nil {
		return nil, fmt.Errorf("gagal membaca data karyawan: %w", err)
	}
	for i := range employees {
		MigrateEmployee(&employees[i], loc)
	}
	return employees, nil
}
