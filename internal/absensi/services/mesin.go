package services

import (
	"strings"
	"time"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// Activity types yang dicatat di kalender.
const (
	ActivityBreak = "break"
	ActivityIzin  = "izin"
)

// CheckInResult merangkum hasil check-in untuk notifikasi dan respons API.
type CheckInResult struct {
	Shift      string `json:"shift"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	LateHours  int    `json:"lateHours"`
	IsOvertime bool   `json:"isOvertime"`
}

// CheckIn memulai shift baru. Check-in kedua dengan shift berbeda pada
// tanggal shift yang sama dicatat sebagai lembur.
func CheckIn(emp *models.Employee, cal models.AttendanceCalendar, cfg config.ShiftConfig, now time.Time) (CheckInResult, error) {
	shift := shiftForCheckIn(cfg, now)
	date := ShiftDate(cfg, now)
	dateKey := utils.DateKey(date)
	clock := utils.FormatClock(now)

	if emp.CheckedIn && emp.Shift == shift && emp.LastShiftDate == dateKey {
		return CheckInResult{}, apperror.Guard("%s sudah check-in untuk shift %s", emp.Name, shift)
	}

	today := emp.ShiftsOn(dateKey)
	isOvertime := false
	for _, s := range today {
		if s.Shift != shift {
			isOvertime = true
			break
		}
	}

	status, lateHours := models.StatusHadir, 0
	if !emp.IsBackup {
		tolerance := 0
		if isOvertime && emp.HadBreakOn(dateKey) {
			tolerance = 1
		}
		var late bool
		late, lateHours = CalculateLateness(Window(cfg, shift), now, tolerance)
		if late {
			status = models.StatusTelat
		}
	}

	entryStatus := status
	if isOvertime {
		entryStatus = models.StatusLembur
	}
	emp.Shifts = append(emp.Shifts, models.ShiftEntry{
		Shift:       shift,
		CheckInTime: clock,
		Date:        dateKey,
		Status:      entryStatus,
		LateHours:   lateHours,
		IsOvertime:  isOvertime,
	})
	emp.CheckedIn = true
	emp.Shift = shift
	emp.CheckInTime = clock
	emp.ShiftEndTime = ""
	emp.Status = entryStatus
	emp.LateHours = lateHours
	emp.Overtime = isOvertime
	emp.HasBreakToday = false
	emp.BreakTime = ""
	emp.BreakDuration = 0
	if len(today) == 0 {
		emp.ShiftEndAdjustment = 0
	}
	emp.LastShiftDate = dateKey
	resetTaskTracking(emp.WorkTasks)

	rec := cal.Day(emp.ID, models.MonthIndex(date), date.Day())
	switch {
	case isOvertime:
		base := rec.Status
		if base == models.StatusLembur {
			base = rec.OvertimeBaseStatus
		}
		if base != models.StatusHadir && base != models.StatusTelat {
			base = firstShiftStatus(today)
		}
		rec.OvertimeBaseStatus = base
		rec.Status = models.StatusLembur
		rec.LateHours += lateHours
		rec.OvertimeShift = shift
		rec.OvertimeCheckIn = clock
		rec.EndShift = ""
	case len(today) == 0 || rec.StartShift == "":
		rec.Status = status
		rec.LateHours = lateHours
		rec.Shift = shift
		rec.StartShift = clock
		rec.EndShift = ""
	}

	return CheckInResult{Shift: shift, Date: dateKey, Status: entryStatus, LateHours: lateHours, IsOvertime: isOvertime}, nil
}

func firstShiftStatus(today []models.ShiftEntry) string {
	if len(today) > 0 && (today[0].Status == models.StatusHadir || today[0].Status == models.StatusTelat) {
		return today[0].Status
	}
	return models.StatusHadir
}

// resetTaskTracking mengosongkan jejak waktu tugas; daftar tugasnya tetap.
func resetTaskTracking(tasks []models.Task) {
	for i := range tasks {
		t := &tasks[i]
		t.StartTime = ""
		t.EndTime = ""
		t.Duration = ""
		t.Completed = false
		t.CompletedAt = ""
		t.Progress = 0
		t.Paused = false
		t.PauseStartTime = ""
		t.PauseHistory = []models.PauseRecord{}
		t.OnTaskBreak = false
	}
}

// StartBreak memulai istirahat. Hanya satu istirahat per shift.
func StartBreak(emp *models.Employee, now time.Time) error {
	switch {
	case !emp.CheckedIn:
		return apperror.Guard("%s belum check-in", emp.Name)
	case emp.HasBreakToday:
		return apperror.Guard("%s sudah istirahat pada shift ini", emp.Name)
	case emp.BreakTime != "":
		return apperror.Guard("%s sedang istirahat", emp.Name)
	}
	emp.BreakTime = utils.FormatClock(now)
	emp.BreakDuration = 1
	return nil
}

// EndBreak mengakhiri istirahat. Kelebihan dari limitMinutes dihitung sebagai
// jam terlambat tambahan.
func EndBreak(emp *models.Employee, cal models.AttendanceCalendar, cfg config.ShiftConfig, limitMinutes int, now time.Time) (models.BreakRecord, error) {
	if emp.BreakTime == "" {
		return models.BreakRecord{}, apperror.Guard("%s tidak sedang istirahat", emp.Name)
	}
	end := utils.FormatClock(now)
	elapsed := utils.MinutesBetween(emp.BreakTime, end)
	date := shiftDateOf(emp, cfg, now)
	record := models.BreakRecord{
		StartTime: emp.BreakTime,
		EndTime:   end,
		Duration:  elapsed,
		Date:      utils.DateKey(date),
		Shift:     emp.Shift,
	}
	if elapsed > limitMinutes {
		record.IsLate = true
		record.LateDuration = (elapsed - limitMinutes + 59) / 60
		emp.LateHours += record.LateDuration
		emp.Status = models.StatusTelat
		emp.ShiftEndAdjustment++

		rec := cal.Day(emp.ID, models.MonthIndex(date), date.Day())
		rec.LateHours += record.LateDuration
		if rec.Status == models.StatusHadir {
			rec.Status = models.StatusTelat
		}
	}
	emp.HasBreakToday = true
	emp.BreakTime = ""
	emp.BreakDuration = 0
	emp.BreakHistory = append(emp.BreakHistory, record)
	addActivity(cal, emp.ID, date, ActivityBreak, now)
	return record, nil
}

// StartIzin mencatat izin sementara. Status kalender tidak diubah.
func StartIzin(emp *models.Employee, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	switch {
	case reason == "":
		return apperror.Validation("alasan izin wajib diisi")
	case !emp.CheckedIn:
		return apperror.Guard("%s belum check-in", emp.Name)
	case emp.IzinTime != "":
		return apperror.Guard("%s sedang izin", emp.Name)
	}
	emp.IzinTime = utils.FormatClock(now)
	emp.IzinReason = reason
	return nil
}

func EndIzin(emp *models.Employee, cal models.AttendanceCalendar, cfg config.ShiftConfig, now time.Time) (models.IzinRecord, error) {
	if emp.IzinTime == "" {
		return models.IzinRecord{}, apperror.Guard("%s tidak sedang izin", emp.Name)
	}
	end := utils.FormatClock(now)
	date := shiftDateOf(emp, cfg, now)
	record := models.IzinRecord{
		StartTime: emp.IzinTime,
		EndTime:   end,
		Duration:  utils.MinutesBetween(emp.IzinTime, end),
		Reason:    emp.IzinReason,
		Date:      utils.DateKey(date),
		Shift:     emp.Shift,
	}
	emp.IzinHistory = append(emp.IzinHistory, record)
	emp.IzinTime = ""
	emp.IzinReason = ""
	addActivity(cal, emp.ID, date, ActivityIzin, now)
	return record, nil
}

// CheckOut mengakhiri shift: semua tugas kerja dipindah ke riwayat, entri
// shift terakhir ditutup dan jam selesai ditulis ke kalender.
func CheckOut(emp *models.Employee, cal models.AttendanceCalendar, cfg config.ShiftConfig, limitMinutes int, now time.Time) error {
	if !emp.CheckedIn {
		return apperror.Guard("%s belum check-in", emp.Name)
	}
	if emp.BreakTime != "" {
		if _, err := EndBreak(emp, cal, cfg, limitMinutes, now); err != nil {
			return err
		}
	}
	if emp.IzinTime != "" {
		if _, err := EndIzin(emp, cal, cfg, now); err != nil {
			return err
		}
	}

	clock := utils.FormatClock(now)
	date := shiftDateOf(emp, cfg, now)
	dateKey := utils.DateKey(date)

	archived := map[string]bool{}
	for _, t := range emp.CompletedTasksHistory {
		archived[t.ID+"|"+t.ShiftDate] = true
	}
	for _, t := range emp.WorkTasks {
		t.TaskType = models.TaskTypeWork
		t.EndShiftTime = clock
		if t.ShiftDate == "" {
			t.ShiftDate = dateKey
		}
		key := t.ID + "|" + t.ShiftDate
		if archived[key] {
			continue
		}
		archived[key] = true
		emp.CompletedTasksHistory = append(emp.CompletedTasksHistory, t.Clone())
	}
	emp.WorkTasks = []models.Task{}

	if n := len(emp.Shifts); n > 0 && emp.Shifts[n-1].EndTime == "" {
		emp.Shifts[n-1].EndTime = clock
	}
	emp.CheckedIn = false
	emp.Shift = ""
	emp.ShiftEndTime = clock

	rec := cal.Day(emp.ID, models.MonthIndex(date), date.Day())
	rec.EndShift = clock
	return nil
}

// shiftDateOf memakai tanggal entri shift terakhir bila karyawan sedang
// check-in, sehingga checkout lewat tengah malam tetap ke tanggal yang benar.
func shiftDateOf(emp *models.Employee, cfg config.ShiftConfig, now time.Time) time.Time {
	if emp.CheckedIn && len(emp.Shifts) > 0 {
		last := emp.Shifts[len(emp.Shifts)-1]
		if d, err := time.ParseInLocation("2006-01-02", last.Date, now.Location()); err == nil {
			return d
		}
	}
	return ShiftDate(cfg, now)
}

func addActivity(cal models.AttendanceCalendar, empID int, date time.Time, kind string, now time.Time) {
	rec := cal.Day(empID, models.MonthIndex(date), date.Day())
	rec.Activities = append(rec.Activities, models.Activity{Type: kind, Timestamp: now.Format(time.RFC3339)})
}
