package sinkron

import (
	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

// ReconcileEmployee menggabungkan catatan lokal dengan snapshot yang datang
// dari store untuk karyawan yang sama. local boleh nil bila perangkat ini belum
// punya catatannya.
func ReconcileEmployee(local *models.Employee, incoming models.Employee) models.Employee {
	if local == nil {
		out := incoming.Clone()
		out.EnsureSlices()
		out.WorkTasks = withoutHistory(out.WorkTasks, historyIDs(out.CompletedTasksHistory))
		return out
	}

	var merged models.Employee
	switch {
	case local.CheckedIn && incoming.CheckedIn:
		merged = local.Clone()
		// Field yang boleh diubah admin dari perangkat lain.
		merged.LateHours = incoming.LateHours
		merged.CheckInTime = incoming.CheckInTime
		merged.Shift = incoming.Shift
		merged.Status = incoming.Status
		merged.Overtime = incoming.Overtime
		merged.BaseSalary = incoming.BaseSalary
		merged.IzinTime = incoming.IzinTime
		merged.ShiftEndAdjustment = incoming.ShiftEndAdjustment

		merged.CompletedTasksHistory = unionHistory(local.CompletedTasksHistory, incoming.CompletedTasksHistory, keyCompletedAt)
		merged.WorkTasks = unionTasks(local.WorkTasks, incoming.WorkTasks, historyIDs(merged.CompletedTasksHistory))

	case local.CheckedIn != incoming.CheckedIn:
		// Shift dimulai atau diakhiri di perangkat lain: snapshot menang.
		merged = incoming.Clone()
		merged.CompletedTasksHistory = unionHistory(incoming.CompletedTasksHistory, local.CompletedTasksHistory, keyShiftDate)
		merged.WorkTasks = withoutHistory(merged.WorkTasks, historyIDs(merged.CompletedTasksHistory))

	default:
		merged = incoming.Clone()
		merged.CompletedTasksHistory = unionHistory(incoming.CompletedTasksHistory, local.CompletedTasksHistory, keyShiftDate)
		merged.WorkTasks = unionTasks(local.WorkTasks, incoming.WorkTasks, historyIDs(merged.CompletedTasksHistory))
	}
	merged.EnsureSlices()
	return merged
}

// ReconcileRoster menggabungkan seluruh roster. Keanggotaan dan urutan
// mengikuti snapshot; isBackup selalu diambil dari roster statis bila id
// tersebut dikenal.
func ReconcileRoster(local, incoming []models.Employee, staticBackup func(id int) (bool, bool)) []models.Employee {
	out := make([]models.Employee, 0, len(incoming))
	for _, inc := range incoming {
		var merged models.Employee
		if idx := models.FindEmployee(local, inc.ID); idx >= 0 {
			merged = ReconcileEmployee(&local[idx], inc)
		} else {
			merged = ReconcileEmployee(nil, inc)
		}
		if staticBackup != nil {
			if isBackup, known := staticBackup(inc.ID); known {
				merged.IsBackup = isBackup
			}
		}
		out = append(out, merged)
	}
	return out
}

type historyKey func(t models.Task) string

func keyCompletedAt(t models.Task) string { return t.ID + "|" + t.CompletedAt }
func keyShiftDate(t models.Task) string   { return t.ID + "|" + t.ShiftDate }

// unionHistory mempertahankan urutan primary lalu menambahkan entri
// secondary yang belum ada.
func unionHistory(primary, secondary []models.Task, key historyKey) []models.Task {
	seen := map[string]bool{}
	out := make([]models.Task, 0, len(primary)+len(secondary))
	for _, list := range [][]models.Task{primary, secondary} {
		for _, t := range list {
			k := key(t)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, t.Clone())
		}
	}
	return out
}

func historyIDs(history []models.Task) map[string]bool {
	ids := make(map[string]bool, len(history))
	for _, t := range history {
		ids[t.ID] = true
	}
	return ids
}

func withoutHistory(tasks []models.Task, history map[string]bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if history[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// unionTasks menggabungkan workTasks berdasarkan id. Selesai di salah satu
// sisi berarti selesai, progress diambil yang terbesar, dan jeda aktif di
// sisi mana pun dipertahankan.
func unionTasks(local, incoming []models.Task, history map[string]bool) []models.Task {
	incomingByID := map[string]models.Task{}
	for _, t := range incoming {
		if history[t.ID] {
			continue
		}
		incomingByID[t.ID] = t
	}
	out := make([]models.Task, 0, len(local)+len(incomingByID))
	used := map[string]bool{}
	for _, l := range local {
		if history[l.ID] {
			continue
		}
		merged := l.Clone()
		if inc, ok := incomingByID[l.ID]; ok {
			used[l.ID] = true
			if inc.Completed && !l.Completed {
				merged.Completed = true
				merged.CompletedAt = inc.CompletedAt
				merged.EndTime = inc.EndTime
				merged.Duration = inc.Duration
			}
			if inc.Progress > merged.Progress {
				merged.Progress = inc.Progress
			}
			if inc.Paused && !l.Paused {
				merged.Paused = true
				merged.PauseStartTime = inc.PauseStartTime
				merged.PauseHistory = append([]models.PauseRecord{}, inc.PauseHistory...)
			}
			if merged.StartTime == "" && inc.StartTime != "" {
				merged.StartTime = inc.StartTime
			}
		}
		if merged.Completed {
			merged.Progress = 100
		}
		out = append(out, merged)
	}
	for _, inc := range incoming {
		if history[inc.ID] || used[inc.ID] {
			continue
		}
		used[inc.ID] = true
		out = append(out, inc.Clone())
	}
	return out
}
