package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
)

const exportVersion = "1.0"

// Backup adalah isi file attendance-backup-YYYY-MM-DD.json.
type Backup struct {
	Employees        []models.Employee          `json:"employees"`
	Attentions       []models.Attention         `json:"attentions"`
	YearlyAttendance models.CalendarDocument    `json:"yearlyAttendance"`
	ProductivityData []models.ProductivityEntry `json:"productivityData"`
	MbakTasks        []models.MbakTask          `json:"mbakTasks"`
	CurrentMonth     int                        `json:"currentMonth"`
	CurrentYear      int                        `json:"currentYear"`
	ExportedAt       string                     `json:"exportedAt"`
	Version          string                     `json:"version"`
}

// BackupFilename mengikuti tanggal ekspor.
func BackupFilename(at time.Time) string {
	return fmt.Sprintf("attendance-backup-%s.json", at.Format("2006-01-02"))
}

func (s *ManagementService) Export() Backup {
	snap := s.Session.Snapshot()
	b := Backup{
		Employees:        snap.Employees,
		Attentions:       snap.Attentions,
		YearlyAttendance: snap.CalendarDocument(),
		ProductivityData: snap.Productivity,
		MbakTasks:        snap.MbakTasks,
		CurrentMonth:     snap.Period.CurrentMonth,
		CurrentYear:      snap.Period.CurrentYear,
		ExportedAt:       s.Session.Now().UTC().Format(time.RFC3339),
		Version:          exportVersion,
	}
	s.Logbook.Action("admin", "ekspor data (%d karyawan)", len(b.Employees))
	return b
}

// decodedBackup menampung field yang ada di file impor. Field nil berarti
// tidak ada di file dan state lama dipertahankan.
type decodedBackup struct {
	employees    []models.Employee
	attentions   []models.Attention
	calendarRaw  json.RawMessage
	productivity []models.ProductivityEntry
	mbak         []models.MbakTask
	month        *int
	year         *int
}

func decodeBackup(raw []byte, loc *time.Location) (decodedBackup, error) {
	var out decodedBackup
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, apperror.Validation("file tidak valid: %v", err)
	}
	present := func(key string) (json.RawMessage, bool) {
		v, ok := fields[key]
		return v, ok && len(v) > 0 && string(v) != "null"
	}
	var err error
	if v, ok := present("employees"); ok {
		if out.employees, err = models.DecodeEmployees(v, loc); err != nil {
			return out, apperror.Validation("employees tidak valid: %v", err)
		}
	}
	if v, ok := present("attentions"); ok {
		if err := json.Unmarshal(v, &out.attentions); err != nil {
			return out, apperror.Validation("attentions tidak valid: %v", err)
		}
		for i := range out.attentions {
			if out.attentions[i].ReadBy == nil {
				out.attentions[i].ReadBy = []int{}
			}
		}
		if out.attentions == nil {
			out.attentions = []models.Attention{}
		}
	}
	if v, ok := present("yearlyAttendance"); ok {
		out.calendarRaw = v
	}
	if v, ok := present("productivityData"); ok {
		if err := json.Unmarshal(v, &out.productivity); err != nil {
			return out, apperror.Validation("productivityData tidak valid: %v", err)
		}
		if out.productivity == nil {
			out.productivity = []models.ProductivityEntry{}
		}
	}
	if v, ok := present("mbakTasks"); ok {
		if err := json.Unmarshal(v, &out.mbak); err != nil {
			return out, apperror.Validation("mbakTasks tidak valid: %v", err)
		}
		if out.mbak == nil {
			out.mbak = []models.MbakTask{}
		}
	}
	for key, dst := range map[string]**int{"currentMonth": &out.month, "currentYear": &out.year} {
		if v, ok := present(key); ok {
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return out, apperror.Validation("%s tidak valid: %v", key, err)
			}
			*dst = &n
		}
	}
	if out.month != nil && (*out.month < 0 || *out.month > 11) {
		return out, apperror.Validation("currentMonth %d tidak valid", *out.month)
	}
	return out, nil
}

// Import menimpa state dengan isi file backup. Hanya key yang ada di file
// yang diganti; semua dokumen lalu ditulis ulang.
func (s *ManagementService) Import(ctx context.Context, raw []byte) error {
	in, err := decodeBackup(raw, s.Session.Location())
	if err != nil {
		log.Printf("Gagal import data: %v", err)
		s.Session.Notifier().Notify("Gagal import data - file tidak valid", notifikasi.SeverityError)
		return err
	}
	err = s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		employees := st.Employees
		if in.employees != nil {
			employees = in.employees
		}
		calendar := st.CalendarDocument()
		if in.calendarRaw != nil {
			cal, err := models.DecodeCalendar(in.calendarRaw, employees)
			if err != nil {
				return apperror.Validation("yearlyAttendance tidak valid: %v", err)
			}
			calendar = cal
		}

		st.Employees = employees
		st.Calendar = calendar.Calendar
		st.CalendarLegacy = calendar.Legacy
		for _, e := range st.Employees {
			st.Calendar.EnsureEmployee(e.ID)
		}
		if in.attentions != nil {
			st.Attentions = in.attentions
		}
		if in.productivity != nil {
			st.Productivity = in.productivity
		}
		if in.mbak != nil {
			st.MbakTasks = in.mbak
		}
		if in.month != nil {
			st.Period.CurrentMonth = *in.month
		}
		if in.year != nil {
			st.Period.CurrentYear = *in.year
		}
		st.ReplaceEmployees()
		st.Touch(sinkron.DocAttentions, sinkron.DocCalendar, sinkron.DocProductivity, sinkron.DocMbak, sinkron.DocPeriod)
		st.SaveNow()
		return nil
	})
	if err != nil {
		log.Printf("Gagal import data: %v", err)
		s.Session.Notifier().Notify("Gagal import data - file tidak valid", notifikasi.SeverityError)
		return err
	}
	s.Session.Notifier().Notify("Data berhasil di-import", notifikasi.SeveritySuccess)
	s.Logbook.Warn("admin", "import data menimpa state")
	return nil
}

// ClearAll mengembalikan seluruh dokumen ke kondisi awal.
func (s *ManagementService) ClearAll(ctx context.Context, password string) error {
	if err := s.confirmAdmin(password); err != nil {
		log.Printf("Hapus semua data ditolak: password salah")
		return err
	}
	fresh := s.Session.DefaultState()
	err := s.Session.Run(ctx, adminKey, func(st *sinkron.State) error {
		st.Employees = fresh.Employees
		st.Calendar = fresh.Calendar
		st.CalendarLegacy = nil
		st.Attentions = fresh.Attentions
		st.Productivity = fresh.Productivity
		st.MbakTasks = fresh.MbakTasks
		st.Orders = fresh.Orders
		st.Period = fresh.Period
		st.Schedule = fresh.Schedule
		st.ReplaceEmployees()
		st.Touch(sinkron.DocAttentions, sinkron.DocCalendar, sinkron.DocProductivity, sinkron.DocMbak,
			sinkron.DocOrders, sinkron.DocPeriod, sinkron.DocSchedule)
		st.SaveNow()
		return nil
	})
	if err != nil {
		return err
	}
	s.Session.Notifier().Notify("Semua data berhasil dihapus", notifikasi.SeveritySuccess)
	s.Logbook.Error("admin", "hapus semua data")
	return nil
}
