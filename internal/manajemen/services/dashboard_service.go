package services

import (
	"math"
	"slices"
	"time"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// Periode leaderboard.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodTotal = "total"
)

type LeaderboardEntry struct {
	EmployeeID int           `json:"employeeId"`
	Name       string        `json:"name"`
	Count      int           `json:"count"`
	AvgMinutes int           `json:"avgMin"`
	Tasks      []models.Task `json:"tasks"`
}

// Leaderboard mengurutkan karyawan berdasarkan jumlah tugas selesai pada
// periode, lalu rata-rata durasi tercepat.
func (s *ManagementService) Leaderboard(period string) ([]LeaderboardEntry, error) {
	now := s.Session.Now()
	since, err := periodStart(period, now)
	if err != nil {
		return nil, err
	}
	var out []LeaderboardEntry
	s.Session.View(func(st *sinkron.State) {
		for _, emp := range st.Employees {
			out = append(out, rankEmployee(emp, period, since, now))
		}
	})
	slices.SortStableFunc(out, func(a, b LeaderboardEntry) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return a.AvgMinutes - b.AvgMinutes
	})
	return out, nil
}

func periodStart(period string, now time.Time) (time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodToday:
		return midnight, nil
	case PeriodWeek:
		return midnight.AddDate(0, 0, -int(now.Weekday())), nil
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodTotal, "":
		return time.Time{}, nil
	}
	return time.Time{}, apperror.Validation("periode %q tidak dikenal", period)
}

func rankEmployee(emp models.Employee, period string, since, now time.Time) LeaderboardEntry {
	entry := LeaderboardEntry{EmployeeID: emp.ID, Name: emp.Name, Tasks: []models.Task{}}
	all := append(models.CloneTasks(emp.WorkTasks), models.CloneTasks(emp.CompletedTasksHistory)...)
	completedAt := map[string]time.Time{}
	total, timed := 0, 0
	for _, task := range all {
		if !task.Completed {
			continue
		}
		at, err := time.Parse(time.RFC3339, task.CompletedAt)
		if period != PeriodTotal && period != "" {
			if err != nil || at.Before(since) {
				continue
			}
			if period == PeriodToday && utils.DateKey(at.In(now.Location())) != utils.DateKey(now) {
				continue
			}
		}
		completedAt[task.ID] = at
		entry.Tasks = append(entry.Tasks, task)
		if task.Duration != "" {
			total += workMinutes(task)
			timed++
		}
	}
	entry.Count = len(entry.Tasks)
	if timed > 0 {
		entry.AvgMinutes = int(math.Round(float64(total) / float64(timed)))
	}
	slices.SortStableFunc(entry.Tasks, func(a, b models.Task) int {
		return completedAt[b.ID].Compare(completedAt[a.ID])
	})
	return entry
}

// workMinutes adalah durasi tugas dikurangi jeda yang sudah ditutup.
func workMinutes(task models.Task) int {
	minutes := utils.ParseDuration(task.Duration)
	for _, p := range task.PauseHistory {
		if p.EndTime != "" {
			minutes -= utils.MinutesBetween(p.StartTime, p.EndTime)
		}
	}
	return max(0, minutes)
}
