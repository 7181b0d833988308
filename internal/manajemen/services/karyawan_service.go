package services

import (
	"context"
	"log"
	"strings"

	absensi "github.com/c14220110/absensi-dashboard/internal/absensi/services"
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
)

const adminKey = "admin"

// KaryawanInput adalah data karyawan yang bisa diubah admin. ID nol berarti
// id dipilih otomatis saat menambah.
type KaryawanInput struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	BaseSalary int64  `json:"baseSalary"`
	IsAdmin    bool   `json:"isAdmin"`
	IsBackup   bool   `json:"isBackup"`
}

func (s *ManagementService) validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	limits := s.Session.Roster().Validation
	if n := len([]rune(name)); n < limits.EmployeeNameMin || n > limits.EmployeeNameMax {
		return "", apperror.Validation("nama karyawan harus %d-%d karakter", limits.EmployeeNameMin, limits.EmployeeNameMax)
	}
	return name, nil
}

func (s *ManagementService) AddKaryawan(ctx context.Context, in KaryawanInput) (models.Employee, error) {
	name, err := s.validateName(in.Name)
	if err != nil {
		return models.Employee{}, err
	}
	if in.BaseSalary < 0 {
		return models.Employee{}, apperror.Validation("gaji pokok tidak boleh negatif")
	}
	var added models.Employee
	err = s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		id := in.ID
		if id < 0 {
			return apperror.Validation("id karyawan tidak valid")
		}
		if id == 0 {
			for _, e := range st.Employees {
				id = max(id, e.ID)
			}
			id++
		} else if models.FindEmployee(st.Employees, id) >= 0 {
			return apperror.Validation("id karyawan %d sudah dipakai", id)
		}
		added = models.NewEmployee(id, name, in.BaseSalary, in.IsAdmin, in.IsBackup)
		st.Employees = append(st.Employees, added)
		st.Calendar.EnsureEmployee(id)
		st.ReplaceEmployees()
		st.Touch(sinkron.DocCalendar)
		st.SaveNow()
		return nil
	})
	if err != nil {
		log.Printf("Gagal menambahkan karyawan %s: %v", name, err)
		return added, err
	}
	s.Logbook.Success("admin", "tambah karyawan %s (id %d)", added.Name, added.ID)
	return added, nil
}

func (s *ManagementService) UpdateKaryawan(ctx context.Context, id int, in KaryawanInput) (models.Employee, error) {
	name, err := s.validateName(in.Name)
	if err != nil {
		return models.Employee{}, err
	}
	if in.BaseSalary < 0 {
		return models.Employee{}, apperror.Validation("gaji pokok tidak boleh negatif")
	}
	var updated models.Employee
	err = s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		emp, err := st.Employee(id)
		if err != nil {
			return err
		}
		emp.Name = name
		emp.BaseSalary = in.BaseSalary
		emp.IsAdmin = in.IsAdmin
		emp.IsBackup = in.IsBackup
		updated = emp.Clone()
		st.TouchEmployee(id)
		return nil
	})
	if err != nil {
		return updated, err
	}
	s.Logbook.Action("admin", "ubah karyawan %d menjadi %s", id, name)
	return updated, nil
}

// DeleteKaryawan menghapus karyawan beserta seluruh kalendernya.
func (s *ManagementService) DeleteKaryawan(ctx context.Context, id int) error {
	var name string
	err := s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		idx := models.FindEmployee(st.Employees, id)
		if idx < 0 {
			return apperror.NotFound("karyawan %d tidak ditemukan", id)
		}
		name = st.Employees[idx].Name
		st.Employees = append(st.Employees[:idx:idx], st.Employees[idx+1:]...)
		delete(st.Calendar, id)
		st.ReplaceEmployees()
		st.Touch(sinkron.DocCalendar)
		st.SaveNow()
		return nil
	})
	if err != nil {
		return err
	}
	s.Logbook.Warn("admin", "hapus karyawan %s (id %d)", name, id)
	return nil
}

// ResetKaryawan mengosongkan status shift yang sedang berjalan. Riwayat
// shift, istirahat, izin dan tugas tetap disimpan.
func (s *ManagementService) ResetKaryawan(ctx context.Context, id int) error {
	var name string
	err := s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		emp, err := st.Employee(id)
		if err != nil {
			return err
		}
		emp.CheckedIn = false
		emp.Shift = ""
		emp.CheckInTime = ""
		emp.ShiftEndTime = ""
		emp.Status = models.StatusBelum
		emp.LateHours = 0
		emp.Overtime = false
		emp.ShiftEndAdjustment = 0
		emp.BreakTime = ""
		emp.BreakDuration = 0
		emp.HasBreakToday = false
		emp.IzinTime = ""
		emp.IzinReason = ""
		name = emp.Name
		st.TouchEmployee(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.Logbook.Warn("admin", "reset status %s", name)
	return nil
}

// KalenderInput mengubah satu hari di kalender. Field nil dibiarkan.
type KalenderInput struct {
	EmployeeID int     `json:"employeeId"`
	Month      int     `json:"month"`
	Day        int     `json:"day"`
	Status     *string `json:"status"`
	LateHours  *int    `json:"lateHours"`
}

func (s *ManagementService) EditKalender(ctx context.Context, in KalenderInput) (models.DayRecord, error) {
	var out models.DayRecord
	err := s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		if _, err := st.Employee(in.EmployeeID); err != nil {
			return err
		}
		status, lateHours := models.StatusBelum, 0
		if rec := st.Calendar.Lookup(in.EmployeeID, in.Month, in.Day); rec != nil {
			status, lateHours = rec.Status, rec.LateHours
		}
		if in.Status != nil {
			status = *in.Status
		}
		if in.LateHours != nil {
			lateHours = *in.LateHours
		}
		rec, err := absensi.EditDay(st.Calendar, in.EmployeeID, in.Month, in.Day, status, lateHours)
		if err != nil {
			return err
		}
		out = *rec
		st.Touch(sinkron.DocCalendar)
		st.SaveNow()
		return nil
	})
	if err != nil {
		return out, err
	}
	s.Logbook.Action("admin", "ubah kalender karyawan %d tanggal %d/%d: %s, telat %d jam", in.EmployeeID, in.Day, in.Month+1, out.Status, out.LateHours)
	return out, nil
}

// FixLembur memperbaiki hari lembur palsu pada tahun periode aktif.
func (s *ManagementService) FixLembur(ctx context.Context) (int, error) {
	var fixed int
	err := s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		fixed = absensi.FixOvertimeData(st.Employees, st.Calendar, st.Period.CurrentYear)
		if fixed > 0 {
			st.Touch(sinkron.DocCalendar)
			st.SaveNow()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("Perbaikan data lembur: %d hari diperbaiki", fixed)
	s.Logbook.Action("admin", "perbaiki data lembur: %d hari", fixed)
	return fixed, nil
}

func (s *ManagementService) Statistik(month int) ([]absensi.MonthlyStat, error) {
	if month < 0 || month > 11 {
		return nil, apperror.Validation("bulan %d tidak valid", month)
	}
	var stats []absensi.MonthlyStat
	s.Session.View(func(st *sinkron.State) {
		stats = absensi.MonthlyStats(st.Employees, st.Calendar, month)
	})
	return stats, nil
}

func (s *ManagementService) ListKaryawan() []models.Employee {
	return s.Session.Snapshot().Employees
}
