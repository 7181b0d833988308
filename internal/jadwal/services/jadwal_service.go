package services

import (
	"context"
	"log"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/logbook"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
)

const actionKey = "jadwal"

type JadwalService struct {
	Session *sinkron.Session
	Logbook *logbook.Logbook
}

func NewJadwalService(session *sinkron.Session, lb *logbook.Logbook) *JadwalService {
	return &JadwalService{Session: session, Logbook: lb}
}

// ScheduleView adalah jadwal bulan aktif beserta penghitung keadilannya.
type ScheduleView struct {
	Period    models.Period               `json:"period"`
	MonthName string                      `json:"monthName"`
	Schedule  models.ShiftSchedule        `json:"schedule"`
	Stats     map[string]*Counters        `json:"stats"`
	Weeks     [][]models.ShiftScheduleDay `json:"weeks"`
}

func (s *JadwalService) Get() ScheduleView {
	var view ScheduleView
	var roster Roster
	s.Session.View(func(st *sinkron.State) {
		view.Period = st.Period
		view.Schedule = st.Schedule
		view.Schedule.Data = append([]models.ShiftScheduleDay{}, st.Schedule.Data...)
		roster = RosterOf(st.Employees)
	})
	if m := view.Period.CurrentMonth; m >= 0 && m < len(models.MonthNames) {
		view.MonthName = models.MonthNames[m]
	}
	leave := make([]string, len(view.Schedule.Data))
	for i, d := range view.Schedule.Data {
		leave[i] = d.Libur
	}
	view.Stats = Rotate(Input{Regulars: roster.Regulars, Backups: roster.Backups, Leave: leave}).Stats
	for start := 0; start < len(view.Schedule.Data); start += daysPerWeek {
		view.Weeks = append(view.Weeks, view.Schedule.Data[start:min(start+daysPerWeek, len(view.Schedule.Data))])
	}
	return view
}

// Generate menyusun ulang jadwal periode aktif dari data libur di kalender.
func (s *JadwalService) Generate(ctx context.Context) (models.ShiftSchedule, error) {
	var schedule models.ShiftSchedule
	err := s.Session.Run(ctx, actionKey, func(st *sinkron.State) error {
		if m := st.Period.CurrentMonth; m < 0 || m > 11 {
			return apperror.Validation("periode bulan %d tidak valid", m)
		}
		schedule = s.regenerate(st)
		st.SaveNow()
		return nil
	})
	if err != nil {
		return schedule, err
	}
	log.Printf("Jadwal %s %d disusun ulang", models.MonthNames[schedule.Month], schedule.Year)
	s.Logbook.Action("admin", "menyusun ulang jadwal %s %d", models.MonthNames[schedule.Month], schedule.Year)
	return schedule, nil
}

func (s *JadwalService) regenerate(st *sinkron.State) models.ShiftSchedule {
	year, month := st.Period.CurrentYear, st.Period.CurrentMonth
	leave := LeaveFromCalendar(st.Employees, st.Calendar, year, month)
	st.Schedule, _ = GenerateMonth(RosterOf(st.Employees), year, month, leave)
	st.Touch(sinkron.DocSchedule)
	return st.Schedule
}

// UpdateLibur mengganti orang yang libur pada tanggal day lalu menghitung
// ulang jadwal sebulan penuh. Kalender ikut diperbarui: orang baru menjadi
// libur dan orang lama kembali belum.
func (s *JadwalService) UpdateLibur(ctx context.Context, day int, name string) (models.ShiftSchedule, error) {
	var schedule models.ShiftSchedule
	var previous string
	err := s.Session.Run(ctx, actionKey, func(st *sinkron.State) error {
		if name == "" {
			name = models.NoLeave
		}
		if name != models.NoLeave && findByName(st.Employees, name) == nil {
			return apperror.NotFound("karyawan %s tidak ditemukan", name)
		}
		year, month := st.Period.CurrentYear, st.Period.CurrentMonth
		if month < 0 || month > 11 {
			return apperror.Validation("periode bulan %d tidak valid", month)
		}
		if day < 1 || day > DaysIn(year, month) {
			return apperror.Validation("tanggal %d di luar bulan %s", day, models.MonthNames[month])
		}
		if st.Schedule.Year != year || st.Schedule.Month != month || len(st.Schedule.Data) != DaysIn(year, month) {
			s.regenerate(st)
		}

		previous = st.Schedule.Data[day-1].Libur
		if emp := findByName(st.Employees, previous); emp != nil && previous != name {
			rec := st.Calendar.Day(emp.ID, month, day)
			rec.Status = models.StatusBelum
			rec.LateHours = 0
		}
		if emp := findByName(st.Employees, name); emp != nil {
			rec := st.Calendar.Day(emp.ID, month, day)
			rec.Status = models.StatusLibur
			rec.LateHours = 0
		}

		leave := make([]string, len(st.Schedule.Data))
		for i, d := range st.Schedule.Data {
			leave[i] = d.Libur
		}
		leave[day-1] = name
		st.Schedule, _ = GenerateMonth(RosterOf(st.Employees), year, month, leave)
		schedule = st.Schedule
		st.Touch(sinkron.DocSchedule, sinkron.DocCalendar)
		st.SaveNow()
		return nil
	})
	if err != nil {
		log.Printf("Gagal mengubah libur tanggal %d: %v", day, err)
		return schedule, err
	}
	s.Logbook.Action("admin", "libur tanggal %d: %s -> %s", day, previous, name)
	return schedule, nil
}

// SetPeriod memindah bulan aktif (0-11). Jadwal disusun ulang bila bulan
// tersimpan berbeda.
func (s *JadwalService) SetPeriod(ctx context.Context, month, year int) (models.Period, error) {
	if month < 0 || month > 11 {
		return models.Period{}, apperror.Validation("bulan %d tidak valid", month)
	}
	if year < 2000 || year > 2100 {
		return models.Period{}, apperror.Validation("tahun %d tidak valid", year)
	}
	var period models.Period
	err := s.Session.Run(ctx, actionKey, func(st *sinkron.State) error {
		st.Period = models.Period{CurrentMonth: month, CurrentYear: year}
		st.Touch(sinkron.DocPeriod)
		if st.Schedule.Month != month || st.Schedule.Year != year || len(st.Schedule.Data) == 0 {
			s.regenerate(st)
		}
		period = st.Period
		return nil
	})
	return period, err
}

// Navigate menggeser periode sebanyak delta bulan.
func (s *JadwalService) Navigate(ctx context.Context, delta int) (models.Period, error) {
	var current models.Period
	s.Session.View(func(st *sinkron.State) {
		current = st.Period
	})
	total := current.CurrentYear*12 + current.CurrentMonth + delta
	return s.SetPeriod(ctx, total%12, total/12)
}

func findByName(employees []models.Employee, name string) *models.Employee {
	for i := range employees {
		if employees[i].Name == name {
			return &employees[i]
		}
	}
	return nil
}
