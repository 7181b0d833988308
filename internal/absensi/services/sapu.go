package services

import (
	"time"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// MarkAbsentIfNoShow menandai libur setiap karyawan yang belum check-in
// setelah noShowHours sejak shift berjalan dimulai. Mengembalikan id yang
// berubah.
func MarkAbsentIfNoShow(employees []models.Employee, cal models.AttendanceCalendar, cfg config.ShiftConfig, noShowHours int, now time.Time) []int {
	shift := DetectCurrentShift(cfg, now)
	if shift == "" {
		return nil
	}
	if hoursSinceShiftStart(Window(cfg, shift), now) < noShowHours {
		return nil
	}
	date := ShiftDate(cfg, now)
	dateKey := utils.DateKey(date)

	var changed []int
	for i := range employees {
		emp := &employees[i]
		if emp.CheckedIn || emp.Status != models.StatusBelum {
			continue
		}
		emp.Status = models.StatusLibur
		emp.LastShiftDate = dateKey
		rec := cal.Day(emp.ID, models.MonthIndex(date), date.Day())
		if rec.Status == models.StatusBelum {
			rec.Status = models.StatusLibur
			rec.LateHours = 0
			rec.Shift = shift
		}
		changed = append(changed, emp.ID)
	}
	return changed
}

// Rollover mengembalikan karyawan yang tidak sedang check-in ke status belum
// saat tanggal shift berganti.
func Rollover(employees []models.Employee, cfg config.ShiftConfig, now time.Time) []int {
	dateKey := utils.DateKey(ShiftDate(cfg, now))
	var changed []int
	for i := range employees {
		emp := &employees[i]
		if emp.CheckedIn || emp.LastShiftDate == dateKey {
			continue
		}
		if emp.LastShiftDate != "" {
			emp.Status = models.StatusBelum
			emp.LateHours = 0
			emp.Overtime = false
			emp.HasBreakToday = false
			emp.ShiftEndAdjustment = 0
		}
		emp.LastShiftDate = dateKey
		changed = append(changed, emp.ID)
	}
	return changed
}

// Elapsed adalah durasi istirahat atau izin yang sedang berjalan.
type Elapsed struct {
	EmployeeID int    `json:"employeeId"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Minutes    int    `json:"minutes"`
	Display    string `json:"display"`
}

// RunningElapsed menghitung istirahat dan izin yang masih berjalan.
func RunningElapsed(employees []models.Employee, now time.Time) []Elapsed {
	clock := utils.FormatClock(now)
	var out []Elapsed
	for _, emp := range employees {
		if emp.BreakTime != "" {
			m := utils.MinutesBetween(emp.BreakTime, clock)
			out = append(out, Elapsed{EmployeeID: emp.ID, Name: emp.Name, Kind: ActivityBreak, Minutes: m, Display: utils.FormatDuration(m)})
		}
		if emp.IzinTime != "" {
			m := utils.MinutesBetween(emp.IzinTime, clock)
			out = append(out, Elapsed{EmployeeID: emp.ID, Name: emp.Name, Kind: ActivityIzin, Minutes: m, Display: utils.FormatDuration(m)})
		}
	}
	return out
}

// BreakReminders mengembalikan istirahat yang tepat mencapai batas pada menit
// ini. Tick per menit membuat pengingat hanya muncul sekali.
func BreakReminders(elapsed []Elapsed, limitMinutes int) []Elapsed {
	var out []Elapsed
	for _, e := range elapsed {
		if e.Kind == ActivityBreak && e.Minutes == limitMinutes {
			out = append(out, e)
		}
	}
	return out
}
