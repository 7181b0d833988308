package services

import (
	"context"
	"fmt"
	"log"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/logbook"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// AbsensiService menjalankan aksi absensi lewat session bersama.
type AbsensiService struct {
	Session *sinkron.Session
	Logbook *logbook.Logbook
}

func NewAbsensiService(session *sinkron.Session, lb *logbook.Logbook) *AbsensiService {
	return &AbsensiService{Session: session, Logbook: lb}
}

// ActionKey adalah kunci double-click guard untuk aksi milik satu karyawan.
func ActionKey(empID int) string {
	return fmt.Sprintf("karyawan:%d", empID)
}

// ShiftInfo menjelaskan shift yang sedang berjalan.
type ShiftInfo struct {
	Shift string `json:"shift"`
	Name  string `json:"name"`
	Date  string `json:"date"`
	Clock string `json:"clock"`
}

func (s *AbsensiService) CurrentShift() ShiftInfo {
	now := s.Session.Now()
	cfg := s.Session.Roster().Shifts
	info := ShiftInfo{Shift: DetectCurrentShift(cfg, now), Date: utils.DateKey(ShiftDate(cfg, now)), Clock: utils.FormatClock(now)}
	if info.Shift != "" {
		info.Name = Window(cfg, info.Shift).Name
	}
	return info
}

func (s *AbsensiService) CheckIn(ctx context.Context, empID int) (CheckInResult, error) {
	var res CheckInResult
	var name string
	err := s.Session.Run(ctx, ActionKey(empID), func(st *sinkron.State) error {
		emp, err := st.Employee(empID)
		if err != nil {
			return err
		}
		res, err = CheckIn(emp, st.Calendar, s.Session.Roster().Shifts, s.Session.Now())
		if err != nil {
			return err
		}
		name = emp.Name
		st.TouchEmployee(empID)
		st.Touch(sinkron.DocCalendar)
		st.SaveNow()
		return nil
	})
	if err != nil {
		s.rejected("check-in", empID, err)
		return res, err
	}

	n := s.Session.Notifier()
	switch {
	case res.IsOvertime:
		n.Notify(fmt.Sprintf("%s mulai lembur shift %s", name, res.Shift), notifikasi.SeverityInfo)
		n.NotifyBrowser("Lembur", fmt.Sprintf("%s check-in lembur pukul %s", name, utils.FormatClock(s.Session.Now())))
	case res.Status == models.StatusTelat:
		n.Notify(fmt.Sprintf("%s check-in terlambat %d jam", name, res.LateHours), notifikasi.SeverityWarning)
	default:
		n.Notify(fmt.Sprintf("%s check-in tepat waktu", name), notifikasi.SeveritySuccess)
	}
	s.Logbook.Success(name, "check-in shift %s (%s, terlambat %d jam)", res.Shift, res.Status, res.LateHours)
	return res, nil
}

func (s *AbsensiService) StartBreak(ctx context.Context, empID int) error {
	var name string
	err := s.Session.Run(ctx, ActionKey(empID), func(st *sinkron.State) error {
		emp, err := st.Employee(empID)
		if err != nil {
			return err
		}
		if err := StartBreak(emp, s.Session.Now()); err != nil {
			return err
		}
		name = emp.Name
		st.TouchEmployee(empID)
		return nil
	})
	if err != nil {
		s.rejected("mulai istirahat", empID, err)
		return err
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s mulai istirahat", name), notifikasi.SeverityInfo)
	s.Logbook.Action(name, "mulai istirahat")
	return nil
}

func (s *AbsensiService) EndBreak(ctx context.Context, empID int) (models.BreakRecord, error) {
	var record models.BreakRecord
	var name string
	err := s.Session.Run(ctx, ActionKey(empID), func(st *sinkron.State) error {
		emp, err := st.Employee(empID)
		if err != nil {
			return err
		}
		roster := s.Session.Roster()
		record, err = EndBreak(emp, st.Calendar, roster.Shifts, roster.Timings.BreakLimitMinutes, s.Session.Now())
		if err != nil {
			return err
		}
		name = emp.Name
		st.TouchEmployee(empID)
		st.Touch(sinkron.DocCalendar)
		return nil
	})
	if err != nil {
		s.rejected("selesai istirahat", empID, err)
		return record, err
	}
	n := s.Session.Notifier()
	if record.IsLate {
		n.Notify(fmt.Sprintf("%s terlambat kembali dari istirahat (%s)", name, utils.FormatDuration(record.Duration)), notifikasi.SeverityWarning)
		n.PlayTone(400, 500)
		s.Logbook.Warn(name, "kembali istirahat terlambat %d jam", record.LateDuration)
	} else {
		n.Notify(fmt.Sprintf("%s selesai istirahat", name), notifikasi.SeveritySuccess)
		s.Logbook.Action(name, "selesai istirahat (%s)", utils.FormatDuration(record.Duration))
	}
	return record, nil
}

func (s *AbsensiService) StartIzin(ctx context.Context, empID int, reason string) error {
	var name string
	err := s.Session.Run(ctx, ActionKey(empID), func(st *sinkron.State) error {
		emp, err := st.Employee(empID)
		if err != nil {
			return err
		}
		if err := StartIzin(emp, reason, s.Session.Now()); err != nil {
			return err
		}
		name = emp.Name
		st.TouchEmployee(empID)
		return nil
	})
	if err != nil {
		s.rejected("mulai izin", empID, err)
		return err
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s izin: %s", name, reason), notifikasi.SeverityInfo)
	s.Logbook.Action(name, "mulai izin: %s", reason)
	return nil
}

func (s *AbsensiService) EndIzin(ctx context.Context, empID int) (models.IzinRecord, error) {
	var record models.IzinRecord
	var name string
	err := s.Session.Run(ctx, ActionKey(empID), func(st *sinkron.State) error {
		emp, err := st.Employee(empID)
		if err != nil {
			return err
		}
		record, err = EndIzin(emp, st.Calendar, s.Session.Roster().Shifts, s.Session.Now())
		if err != nil {
			return err
		}
		name = emp.Name
		st.TouchEmployee(empID)
		st.Touch(sinkron.DocCalendar)
		return nil
	})
	if err != nil {
		s.rejected("selesai izin", empID, err)
		return record, err
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s kembali dari izin", name), notifikasi.SeveritySuccess)
	s.Logbook.Action(name, "selesai izin (%s)", utils.FormatDuration(record.Duration))
	return record, nil
}

func (s *AbsensiService) CheckOut(ctx context.Context, empID int) error {
	var name string
	var archived int
	err := s.Session.Run(ctx, ActionKey(empID), func(st *sinkron.State) error {
		emp, err := st.Employee(empID)
		if err != nil {
			return err
		}
		roster := s.Session.Roster()
		archived = len(emp.WorkTasks)
		if err := CheckOut(emp, st.Calendar, roster.Shifts, roster.Timings.BreakLimitMinutes, s.Session.Now()); err != nil {
			return err
		}
		name = emp.Name
		st.TouchEmployee(empID)
		st.Touch(sinkron.DocCalendar)
		st.SaveNow()
		return nil
	})
	if err != nil {
		s.rejected("check-out", empID, err)
		return err
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s check-out", name), notifikasi.SeveritySuccess)
	s.Logbook.Success(name, "check-out, %d tugas diarsipkan", archived)
	return nil
}

// Sweep menjalankan rollover harian dan penandaan libur otomatis.
func (s *AbsensiService) Sweep(ctx context.Context) ([]int, error) {
	var marked []int
	err := s.Session.Run(ctx, "sweep", func(st *sinkron.State) error {
		roster := s.Session.Roster()
		now := s.Session.Now()
		for _, id := range Rollover(st.Employees, roster.Shifts, now) {
			st.TouchEmployee(id)
		}
		marked = MarkAbsentIfNoShow(st.Employees, st.Calendar, roster.Shifts, roster.Timings.NoShowHours, now)
		for _, id := range marked {
			st.TouchEmployee(id)
		}
		if len(marked) > 0 {
			st.Touch(sinkron.DocCalendar)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range marked {
		s.Logbook.Warn("sistem", "karyawan %d ditandai libur karena tidak check-in", id)
	}
	return marked, nil
}

// Reminders menghitung istirahat/izin yang berjalan dan mengirim pengingat
// saat istirahat mencapai batas.
func (s *AbsensiService) Reminders() []Elapsed {
	var elapsed []Elapsed
	s.Session.View(func(st *sinkron.State) {
		elapsed = RunningElapsed(st.Employees, s.Session.Now())
	})
	n := s.Session.Notifier()
	for _, e := range BreakReminders(elapsed, s.Session.Roster().Timings.BreakLimitMinutes) {
		n.NotifyBrowser("Waktu istirahat habis", fmt.Sprintf("%s sudah istirahat %s", e.Name, e.Display))
		n.PlayTone(600, 300)
	}
	return elapsed
}

func (s *AbsensiService) rejected(action string, empID int, err error) {
	if apperror.IsGuard(err) {
		log.Printf("Aksi %s untuk karyawan %d diabaikan: %v", action, empID, err)
		return
	}
	log.Printf("Gagal %s untuk karyawan %d: %v", action, empID, err)
}
