package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

const maxTaskText = 500

func findTask(emp *models.Employee, taskID string) (*models.Task, error) {
	idx := emp.TaskIndex(taskID)
	if idx < 0 {
		return nil, apperror.NotFound("tugas %s tidak ditemukan", taskID)
	}
	return &emp.WorkTasks[idx], nil
}

// AddTask menambahkan tugas kerja baru di akhir daftar.
func AddTask(emp *models.Employee, text string, now time.Time) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, apperror.Validation("teks tugas wajib diisi")
	}
	if len([]rune(text)) > maxTaskText {
		return models.Task{}, apperror.Validation("teks tugas maksimal %d karakter", maxTaskText)
	}
	task := models.Task{
		ID:           uuid.NewString(),
		TaskType:     models.TaskTypeWork,
		Text:         text,
		Priority:     models.PriorityNormal,
		CreatedAt:    now.Format(time.RFC3339),
		PauseHistory: []models.PauseRecord{},
	}
	emp.WorkTasks = append(emp.WorkTasks, task)
	return task, nil
}

// StartTask memulai (atau memulai ulang) timer tugas. Riwayat jeda direset.
func StartTask(emp *models.Employee, taskID string, now time.Time) error {
	task, err := findTask(emp, taskID)
	if err != nil {
		return err
	}
	if task.Completed {
		return apperror.Guard("tugas sudah selesai")
	}
	if task.Running() {
		return apperror.Guard("tugas sudah berjalan")
	}
	task.StartTime = utils.FormatClockSeconds(now)
	task.EndTime = ""
	task.Duration = ""
	task.Paused = false
	task.PauseStartTime = ""
	task.OnTaskBreak = false
	task.PauseHistory = []models.PauseRecord{}
	return nil
}

func pause(task *models.Task, reason string, now time.Time) {
	clock := utils.FormatClockSeconds(now)
	task.Paused = true
	task.PauseStartTime = clock
	task.PauseHistory = append(task.PauseHistory, models.PauseRecord{StartTime: clock, Reason: reason})
}

// closePause mengisi jam selesai jeda terakhir yang masih terbuka.
func closePause(task *models.Task, now time.Time) {
	if n := len(task.PauseHistory); n > 0 && task.PauseHistory[n-1].EndTime == "" {
		task.PauseHistory[n-1].EndTime = utils.FormatClockSeconds(now)
	}
}

func PauseTask(emp *models.Employee, taskID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperror.Validation("alasan jeda wajib diisi")
	}
	task, err := findTask(emp, taskID)
	if err != nil {
		return err
	}
	if !task.Running() {
		return apperror.Guard("tugas tidak sedang berjalan")
	}
	pause(task, reason, now)
	return nil
}

func ResumeTask(emp *models.Employee, taskID string, now time.Time) error {
	task, err := findTask(emp, taskID)
	if err != nil {
		return err
	}
	if !task.Paused || task.Completed {
		return apperror.Guard("tugas tidak sedang dijeda")
	}
	closePause(task, now)
	task.Paused = false
	task.PauseStartTime = ""
	return nil
}

// EndTask menyelesaikan tugas yang sudah dimulai lalu memindahkannya ke
// completedTasksHistory.
func EndTask(emp *models.Employee, taskID, shiftDate string, now time.Time) (models.Task, error) {
	idx := emp.TaskIndex(taskID)
	if idx < 0 {
		return models.Task{}, apperror.NotFound("tugas %s tidak ditemukan", taskID)
	}
	task := emp.WorkTasks[idx].Clone()
	if task.StartTime == "" {
		return models.Task{}, apperror.Guard("tugas belum dimulai")
	}
	closePause(&task, now)
	task.EndTime = utils.FormatClockSeconds(now)
	task.Duration = utils.FormatDuration(utils.SecondsBetween(task.StartTime, task.EndTime) / 60)
	task.Completed = true
	task.Progress = 100
	task.Paused = false
	task.PauseStartTime = ""
	task.OnTaskBreak = false
	task.CompletedAt = now.Format(time.RFC3339)
	task.TaskType = models.TaskTypeWork
	task.ShiftDate = shiftDate

	emp.WorkTasks = append(emp.WorkTasks[:idx:idx], emp.WorkTasks[idx+1:]...)
	emp.CompletedTasksHistory = append(emp.CompletedTasksHistory, task)
	return task, nil
}

// PauseAll menjeda semua tugas yang berjalan dan belum dijeda. Mengembalikan
// Guard bila tidak ada yang bisa dijeda.
func PauseAll(emp *models.Employee, reason string, now time.Time) (int, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return 0, apperror.Validation("alasan jeda wajib diisi")
	}
	count := 0
	for i := range emp.WorkTasks {
		if t := &emp.WorkTasks[i]; t.Running() {
			pause(t, reason, now)
			count++
		}
	}
	if count == 0 {
		return 0, apperror.Guard("tidak ada tugas yang sedang berjalan untuk dijeda")
	}
	return count, nil
}

func ResumeAll(emp *models.Employee, now time.Time) (int, error) {
	count := 0
	for i := range emp.WorkTasks {
		t := &emp.WorkTasks[i]
		if !t.Paused || t.Completed {
			continue
		}
		closePause(t, now)
		t.Paused = false
		t.PauseStartTime = ""
		count++
	}
	if count == 0 {
		return 0, apperror.Guard("tidak ada tugas yang dijeda untuk dilanjutkan")
	}
	return count, nil
}

// ToggleCompletion membalik status selesai tanpa memindahkan tugas ke
// riwayat.
func ToggleCompletion(emp *models.Employee, taskID string, now time.Time) (bool, error) {
	task, err := findTask(emp, taskID)
	if err != nil {
		return false, err
	}
	task.Completed = !task.Completed
	if task.Completed {
		task.Progress = 100
		task.CompletedAt = now.Format(time.RFC3339)
	} else {
		task.CompletedAt = ""
	}
	return task.Completed, nil
}

func UpdateProgress(emp *models.Employee, taskID string, progress int) error {
	if progress < 0 || progress > 100 {
		return apperror.Validation("progress harus di antara 0 dan 100")
	}
	task, err := findTask(emp, taskID)
	if err != nil {
		return err
	}
	task.Progress = progress
	return nil
}

func UpdatePriority(emp *models.Employee, taskID, priority string) error {
	if !models.ValidPriority(priority) {
		return apperror.Validation("prioritas %q tidak dikenal", priority)
	}
	task, err := findTask(emp, taskID)
	if err != nil {
		return err
	}
	task.Priority = priority
	return nil
}

func DeleteTask(emp *models.Employee, taskID string) (models.Task, error) {
	idx := emp.TaskIndex(taskID)
	if idx < 0 {
		return models.Task{}, apperror.NotFound("tugas %s tidak ditemukan", taskID)
	}
	removed := emp.WorkTasks[idx]
	emp.WorkTasks = append(emp.WorkTasks[:idx:idx], emp.WorkTasks[idx+1:]...)
	return removed, nil
}

// ReorderTask memindah tugas ke posisi tugas target, seperti drag and drop.
func ReorderTask(emp *models.Employee, taskID, targetID string) error {
	from := emp.TaskIndex(taskID)
	to := emp.TaskIndex(targetID)
	if from < 0 || to < 0 {
		return apperror.NotFound("tugas tidak ditemukan")
	}
	if from == to {
		return nil
	}
	moved := emp.WorkTasks[from]
	rest := append(emp.WorkTasks[:from:from], emp.WorkTasks[from+1:]...)
	out := make([]models.Task, 0, len(emp.WorkTasks))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	emp.WorkTasks = out
	return nil
}

// StartTaskBreak menjeda tugas sambil mencatat progress terakhir.
func StartTaskBreak(emp *models.Employee, taskID string, progress int, now time.Time) error {
	if progress <= 0 || progress > 100 {
		return apperror.Validation("isi progress sebelum break")
	}
	task, err := findTask(emp, taskID)
	if err != nil {
		return err
	}
	if task.OnTaskBreak {
		return apperror.Guard("tugas sudah dalam break")
	}
	if task.StartTime == "" || task.Completed {
		return apperror.Guard("tugas tidak sedang berjalan")
	}
	task.Progress = progress
	task.OnTaskBreak = true
	task.PauseHistory = append(task.PauseHistory, models.PauseRecord{
		StartTime: utils.FormatClockSeconds(now),
		Reason:    fmt.Sprintf("Break - Progress %d%%", progress),
	})
	return nil
}

func EndTaskBreak(emp *models.Employee, taskID string, now time.Time) error {
	task, err := findTask(emp, taskID)
	if err != nil {
		return err
	}
	if !task.OnTaskBreak {
		return apperror.Guard("tugas tidak sedang break")
	}
	closePause(task, now)
	task.OnTaskBreak = false
	return nil
}

// NagDue melaporkan tugas yang sudah berjalan lebih dari satu jam, tepat pada
// kelipatan jam penuh.
func NagDue(task models.Task, now time.Time) (int, bool) {
	if task.StartTime == "" || task.EndTime != "" || task.Completed || task.Paused || task.OnTaskBreak {
		return 0, false
	}
	minutes := utils.MinutesBetween(task.StartTime, utils.FormatClockSeconds(now))
	if minutes > 60 && minutes%60 == 0 {
		return minutes / 60, true
	}
	return 0, false
}

// TrackProductivity menambah hitungan tugas selesai pada jam now.
func TrackProductivity(entries []models.ProductivityEntry, empID int, now time.Time) []models.ProductivityEntry {
	date := utils.DateKey(now)
	for i := range entries {
		e := &entries[i]
		if e.EmpID == empID && e.Hour == now.Hour() && e.Date == date {
			e.Count++
			e.Work++
			return entries
		}
	}
	return append(entries, models.ProductivityEntry{EmpID: empID, Hour: now.Hour(), Date: date, Count: 1, Work: 1})
}
