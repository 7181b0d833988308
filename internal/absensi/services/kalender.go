package services

import (
	"fmt"
	"sort"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

// EditDay mengubah status dan jam terlambat satu hari di kalender. Hari lembur
// tetap menyimpan status dasar shift pertamanya.
func EditDay(cal models.AttendanceCalendar, empID, month, day int, status string, lateHours int) (*models.DayRecord, error) {
	if !models.ValidStatus(status) {
		return nil, apperror.Validation("status %q tidak dikenal", status)
	}
	if month < 0 || month > 11 || day < 1 || day > 31 {
		return nil, apperror.Validation("tanggal tidak valid")
	}
	if lateHours < 0 {
		return nil, apperror.Validation("jam terlambat tidak boleh negatif")
	}
	rec := cal.Day(empID, month, day)
	if status == models.StatusLembur {
		if rec.OvertimeBaseStatus == "" {
			rec.OvertimeBaseStatus = models.StatusHadir
			if rec.Status == models.StatusTelat {
				rec.OvertimeBaseStatus = models.StatusTelat
			}
		}
	} else {
		rec.OvertimeBaseStatus = ""
		rec.OvertimeShift = ""
		rec.OvertimeCheckIn = ""
	}
	rec.Status = status
	rec.LateHours = lateHours
	return rec, nil
}

// FixOvertimeData memperbaiki hari berstatus lembur yang ternyata hanya punya
// satu shift pada riwayat karyawan. Mengembalikan jumlah hari yang diperbaiki.
func FixOvertimeData(employees []models.Employee, cal models.AttendanceCalendar, year int) int {
	fixed := 0
	for _, emp := range employees {
		for month, days := range cal[emp.ID] {
			for day, rec := range days {
				if rec == nil || rec.Status != models.StatusLembur {
					continue
				}
				dateKey := fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
				if len(emp.ShiftsOn(dateKey)) > 1 {
					continue
				}
				base := rec.OvertimeBaseStatus
				if base == "" {
					base = models.StatusHadir
				}
				rec.Status = base
				rec.OvertimeBaseStatus = ""
				rec.OvertimeShift = ""
				rec.OvertimeCheckIn = ""
				fixed++
			}
		}
	}
	return fixed
}

// MonthlyStat adalah rekap satu karyawan dalam satu bulan.
type MonthlyStat struct {
	EmployeeID     int            `json:"employeeId"`
	Name           string         `json:"name"`
	Counts         map[string]int `json:"counts"`
	TotalLateHours int            `json:"totalLateHours"`
	WorkingDays    int            `json:"workingDays"`
}

// MonthlyStats menghitung jumlah hari per status dan total jam terlambat dari
// hari telat dan lembur.
func MonthlyStats(employees []models.Employee, cal models.AttendanceCalendar, month int) []MonthlyStat {
	out := make([]MonthlyStat, 0, len(employees))
	for _, emp := range employees {
		stat := MonthlyStat{EmployeeID: emp.ID, Name: emp.Name, Counts: map[string]int{}}
		for _, rec := range cal[emp.ID][month] {
			if rec == nil {
				continue
			}
			stat.Counts[rec.Status]++
			switch rec.Status {
			case models.StatusTelat, models.StatusLembur:
				stat.TotalLateHours += rec.LateHours
			}
			switch rec.Status {
			case models.StatusHadir, models.StatusTelat, models.StatusLembur:
				stat.WorkingDays++
			}
		}
		out = append(out, stat)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}
