package services

import (
	"context"
	"fmt"
	"log"

	absensi "github.com/c14220110/absensi-dashboard/internal/absensi/services"
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/logbook"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// TugasService mengelola workTasks setiap karyawan.
type TugasService struct {
	Session *sinkron.Session
	Logbook *logbook.Logbook
}

func NewTugasService(session *sinkron.Session, lb *logbook.Logbook) *TugasService {
	return &TugasService{Session: session, Logbook: lb}
}

// edit menjalankan fn terhadap satu karyawan lalu menandainya untuk disimpan.
// Key kosong dipakai untuk aksi ringan seperti slider progress yang tidak
// perlu double-click guard.
func (s *TugasService) edit(ctx context.Context, key string, empID int, fn func(st *sinkron.State, emp *models.Employee) error) (string, error) {
	var name string
	err := s.Session.Run(ctx, key, func(st *sinkron.State) error {
		emp, err := st.Employee(empID)
		if err != nil {
			return err
		}
		if err := fn(st, emp); err != nil {
			return err
		}
		name = emp.Name
		st.TouchEmployee(empID)
		return nil
	})
	return name, err
}

func (s *TugasService) List(empID int) ([]models.Task, []models.Task, error) {
	var active, history []models.Task
	var err error
	s.Session.View(func(st *sinkron.State) {
		var emp *models.Employee
		emp, err = st.Employee(empID)
		if err != nil {
			return
		}
		active = models.CloneTasks(emp.WorkTasks)
		history = models.CloneTasks(emp.CompletedTasksHistory)
	})
	return active, history, err
}

func (s *TugasService) AddTask(ctx context.Context, empID int, text string) (models.Task, error) {
	var task models.Task
	name, err := s.edit(ctx, "", empID, func(_ *sinkron.State, emp *models.Employee) error {
		var err error
		task, err = AddTask(emp, text, s.Session.Now())
		return err
	})
	if err != nil {
		return task, s.rejected("tambah tugas", empID, err)
	}
	s.Logbook.Action(name, "tambah tugas: %s", task.Text)
	return task, nil
}

func (s *TugasService) StartTask(ctx context.Context, empID int, taskID string) error {
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(_ *sinkron.State, emp *models.Employee) error {
		return StartTask(emp, taskID, s.Session.Now())
	})
	if err != nil {
		return s.rejected("mulai tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s mulai tugas", name), notifikasi.SeverityInfo)
	s.Logbook.Action(name, "mulai tugas %s", taskID)
	return nil
}

func (s *TugasService) PauseTask(ctx context.Context, empID int, taskID, reason string) error {
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(_ *sinkron.State, emp *models.Employee) error {
		return PauseTask(emp, taskID, reason, s.Session.Now())
	})
	if err != nil {
		return s.rejected("jeda tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s menjeda tugas: %s", name, reason), notifikasi.SeverityWarning)
	s.Logbook.Action(name, "jeda tugas %s: %s", taskID, reason)
	return nil
}

func (s *TugasService) ResumeTask(ctx context.Context, empID int, taskID string) error {
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(_ *sinkron.State, emp *models.Employee) error {
		return ResumeTask(emp, taskID, s.Session.Now())
	})
	if err != nil {
		return s.rejected("lanjutkan tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s melanjutkan tugas", name), notifikasi.SeverityInfo)
	s.Logbook.Action(name, "lanjutkan tugas %s", taskID)
	return nil
}

// EndTask menyelesaikan tugas, memindahkannya ke riwayat dan mencatat
// produktivitas.
func (s *TugasService) EndTask(ctx context.Context, empID int, taskID string) (models.Task, error) {
	var task models.Task
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(st *sinkron.State, emp *models.Employee) error {
		now := s.Session.Now()
		shiftDate := emp.LastShiftDate
		if !emp.CheckedIn || shiftDate == "" {
			shiftDate = utils.DateKey(absensi.ShiftDate(s.Session.Roster().Shifts, now))
		}
		var err error
		task, err = EndTask(emp, taskID, shiftDate, now)
		if err != nil {
			return err
		}
		st.Productivity = TrackProductivity(st.Productivity, empID, now)
		st.Touch(sinkron.DocProductivity)
		return nil
	})
	if err != nil {
		return task, s.rejected("selesai tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s menyelesaikan tugas: %s (%s)", name, task.Text, task.Duration), notifikasi.SeveritySuccess)
	s.Logbook.Success(name, "selesai tugas %s (%s)", task.Text, task.Duration)
	return task, nil
}

func (s *TugasService) PauseAll(ctx context.Context, empID int, reason string) (int, error) {
	var count int
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(_ *sinkron.State, emp *models.Employee) error {
		var err error
		count, err = PauseAll(emp, reason, s.Session.Now())
		return err
	})
	if err != nil {
		return 0, s.rejected("jeda semua tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s menjeda %d tugas: %s", name, count, reason), notifikasi.SeverityWarning)
	s.Logbook.Action(name, "jeda %d tugas: %s", count, reason)
	return count, nil
}

func (s *TugasService) ResumeAll(ctx context.Context, empID int) (int, error) {
	var count int
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(_ *sinkron.State, emp *models.Employee) error {
		var err error
		count, err = ResumeAll(emp, s.Session.Now())
		return err
	})
	if err != nil {
		return 0, s.rejected("lanjutkan semua tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s melanjutkan %d tugas", name, count), notifikasi.SeverityInfo)
	s.Logbook.Action(name, "lanjutkan %d tugas", count)
	return count, nil
}

func (s *TugasService) ToggleCompletion(ctx context.Context, empID int, taskID string) (bool, error) {
	var completed bool
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(st *sinkron.State, emp *models.Employee) error {
		var err error
		now := s.Session.Now()
		completed, err = ToggleCompletion(emp, taskID, now)
		if err != nil {
			return err
		}
		if completed {
			st.Productivity = TrackProductivity(st.Productivity, empID, now)
			st.Touch(sinkron.DocProductivity)
		}
		return nil
	})
	if err != nil {
		return false, s.rejected("centang tugas", empID, err)
	}
	if completed {
		s.Session.Notifier().Notify(fmt.Sprintf("%s menyelesaikan tugas", name), notifikasi.SeveritySuccess)
		s.Logbook.Success(name, "centang selesai tugas %s", taskID)
	}
	return completed, nil
}

func (s *TugasService) UpdateProgress(ctx context.Context, empID int, taskID string, progress int) error {
	_, err := s.edit(ctx, "", empID, func(_ *sinkron.State, emp *models.Employee) error {
		return UpdateProgress(emp, taskID, progress)
	})
	if err != nil {
		return s.rejected("ubah progress", empID, err)
	}
	return nil
}

func (s *TugasService) UpdatePriority(ctx context.Context, empID int, taskID, priority string) error {
	_, err := s.edit(ctx, "", empID, func(_ *sinkron.State, emp *models.Employee) error {
		return UpdatePriority(emp, taskID, priority)
	})
	if err != nil {
		return s.rejected("ubah prioritas", empID, err)
	}
	return nil
}

func (s *TugasService) DeleteTask(ctx context.Context, empID int, taskID string) error {
	var removed models.Task
	name, err := s.edit(ctx, "", empID, func(_ *sinkron.State, emp *models.Employee) error {
		var err error
		removed, err = DeleteTask(emp, taskID)
		return err
	})
	if err != nil {
		return s.rejected("hapus tugas", empID, err)
	}
	s.Logbook.Action(name, "hapus tugas: %s", removed.Text)
	return nil
}

func (s *TugasService) ReorderTask(ctx context.Context, empID int, taskID, targetID string) error {
	_, err := s.edit(ctx, "", empID, func(_ *sinkron.State, emp *models.Employee) error {
		return ReorderTask(emp, taskID, targetID)
	})
	if err != nil {
		return s.rejected("pindah tugas", empID, err)
	}
	s.Session.Notifier().Notify("Tugas berhasil dipindahkan", notifikasi.SeverityInfo)
	return nil
}

func (s *TugasService) StartTaskBreak(ctx context.Context, empID int, taskID string, progress int) error {
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(_ *sinkron.State, emp *models.Employee) error {
		return StartTaskBreak(emp, taskID, progress, s.Session.Now())
	})
	if err != nil {
		return s.rejected("break tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s break tugas, progress %d%%", name, progress), notifikasi.SeverityWarning)
	s.Logbook.Action(name, "break tugas %s (progress %d%%)", taskID, progress)
	return nil
}

func (s *TugasService) EndTaskBreak(ctx context.Context, empID int, taskID string) error {
	name, err := s.edit(ctx, absensi.ActionKey(empID), empID, func(_ *sinkron.State, emp *models.Employee) error {
		return EndTaskBreak(emp, taskID, s.Session.Now())
	})
	if err != nil {
		return s.rejected("selesai break tugas", empID, err)
	}
	s.Session.Notifier().Notify(fmt.Sprintf("%s melanjutkan tugas", name), notifikasi.SeverityInfo)
	return nil
}

// Nag mengirim peringatan untuk tugas yang sudah berjalan kelipatan satu jam.
func (s *TugasService) Nag() []string {
	var messages []string
	now := s.Session.Now()
	s.Session.View(func(st *sinkron.State) {
		for _, emp := range st.Employees {
			for _, task := range emp.WorkTasks {
				if hours, ok := NagDue(task, now); ok {
					messages = append(messages, fmt.Sprintf("Tugas %q dari %s sudah berjalan %d jam", task.Text, emp.Name, hours))
				}
			}
		}
	})
	for _, msg := range messages {
		s.Session.Notifier().Notify(msg, notifikasi.SeverityWarning)
	}
	return messages
}

func (s *TugasService) rejected(action string, empID int, err error) error {
	if apperror.IsGuard(err) {
		log.Printf("Aksi %s untuk karyawan %d diabaikan: %v", action, empID, err)
	} else {
		log.Printf("Gagal %s untuk karyawan %d: %v", action, empID, err)
	}
	return err
}
