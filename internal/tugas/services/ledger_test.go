package services

import (
	"testing"
	"time"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

func clockAt(h, m, s int) time.Time {
	return time.Date(2026, time.March, 2, h, m, s, 0, time.UTC)
}

func employeeWithTasks(t *testing.T, texts ...string) (*models.Employee, []models.Task) {
	t.Helper()
	emp := models.NewEmployee(2, "Ariel", 0, false, false)
	var tasks []models.Task
	for _, text := range texts {
		task, err := AddTask(&emp, text, clockAt(9, 0, 0))
		if err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
		tasks = append(tasks, task)
	}
	return &emp, tasks
}

func TestAddTaskDefaults(t *testing.T) {
	emp, tasks := employeeWithTasks(t, "  Restock  ")
	task := tasks[0]
	if task.ID == "" || task.Text != "Restock" || task.Priority != models.PriorityNormal || task.Completed || task.Progress != 0 {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.TaskType != models.TaskTypeWork || task.StartTime != "" {
		t.Fatalf("expected unstarted work task, got %+v", task)
	}
	if _, err := AddTask(emp, "   ", clockAt(9, 0, 0)); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEndTaskMovesToHistory(t *testing.T) {
	emp, tasks := employeeWithTasks(t, "Restock", "Packing")
	id := tasks[0].ID
	if _, err := EndTask(emp, id, "2026-03-02", clockAt(9, 30, 0)); !apperror.IsGuard(err) {
		t.Fatalf("ending an unstarted task should be rejected, got %v", err)
	}
	if err := StartTask(emp, id, clockAt(9, 15, 0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := StartTask(emp, id, clockAt(9, 16, 0)); !apperror.IsGuard(err) {
		t.Fatalf("expected guard on double start, got %v", err)
	}
	if err := PauseTask(emp, id, "makan", clockAt(9, 20, 0)); err != nil {
		t.Fatalf("pause: %v", err)
	}

	done, err := EndTask(emp, id, "2026-03-02", clockAt(10, 5, 30))
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if done.Duration != "50m" || !done.Completed || done.Progress != 100 || done.ShiftDate != "2026-03-02" {
		t.Fatalf("unexpected completed task %+v", done)
	}
	if done.PauseHistory[0].EndTime != "10:05:30" {
		t.Fatalf("open pause should be closed on end, got %+v", done.PauseHistory)
	}
	if emp.TaskIndex(id) >= 0 {
		t.Fatalf("ended task must leave workTasks")
	}
	if len(emp.WorkTasks) != 1 || len(emp.CompletedTasksHistory) != 1 {
		t.Fatalf("unexpected lists %d/%d", len(emp.WorkTasks), len(emp.CompletedTasksHistory))
	}
}

func TestEndTaskDurationWithHours(t *testing.T) {
	emp, tasks := employeeWithTasks(t, "Stock opname")
	_ = StartTask(emp, tasks[0].ID, clockAt(23, 30, 0))
	done, err := EndTask(emp, tasks[0].ID, "2026-03-02", clockAt(1, 0, 0).AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if done.Duration != "1j 30m" {
		t.Fatalf("expected midnight wrap duration, got %s", done.Duration)
	}
}

func TestPauseAllAndResumeAll(t *testing.T) {
	emp, tasks := employeeWithTasks(t, "A", "B", "C")
	if _, err := PauseAll(emp, "rapat", clockAt(10, 0, 0)); !apperror.IsGuard(err) {
		t.Fatalf("expected guard with nothing running, got %v", err)
	}
	_ = StartTask(emp, tasks[0].ID, clockAt(9, 0, 0))
	_ = StartTask(emp, tasks[1].ID, clockAt(9, 0, 0))
	if _, err := PauseAll(emp, " ", clockAt(10, 0, 0)); !apperror.IsValidation(err) {
		t.Fatalf("expected validation without reason, got %v", err)
	}
	n, err := PauseAll(emp, "rapat", clockAt(10, 0, 0))
	if err != nil || n != 2 {
		t.Fatalf("expected 2 paused, got %d (%v)", n, err)
	}
	if emp.WorkTasks[2].Paused {
		t.Fatalf("unstarted task must not be paused")
	}
	n, err = ResumeAll(emp, clockAt(10, 30, 0))
	if err != nil || n != 2 {
		t.Fatalf("expected 2 resumed, got %d (%v)", n, err)
	}
	if got := emp.WorkTasks[0].PauseHistory; len(got) != 1 || got[0].EndTime != "10:30:00" || got[0].Reason != "rapat" {
		t.Fatalf("unexpected pause history %+v", got)
	}
	if _, err := ResumeAll(emp, clockAt(10, 31, 0)); !apperror.IsGuard(err) {
		t.Fatalf("expected guard with nothing paused, got %v", err)
	}
}

func TestToggleCompletionKeepsTaskActive(t *testing.T) {
	emp, tasks := employeeWithTasks(t, "Cek email")
	id := tasks[0].ID
	done, err := ToggleCompletion(emp, id, clockAt(11, 0, 0))
	if err != nil || !done {
		t.Fatalf("toggle: %v %v", done, err)
	}
	if emp.WorkTasks[0].Progress != 100 || len(emp.CompletedTasksHistory) != 0 {
		t.Fatalf("toggle must not move the task, got %+v", emp)
	}
	done, _ = ToggleCompletion(emp, id, clockAt(11, 5, 0))
	if done || emp.WorkTasks[0].CompletedAt != "" {
		t.Fatalf("expected task reopened, got %+v", emp.WorkTasks[0])
	}
}

func TestProgressPriorityDeleteReorder(t *testing.T) {
	emp, tasks := employeeWithTasks(t, "A", "B", "C")
	if err := UpdateProgress(emp, tasks[0].ID, 40); err != nil || emp.WorkTasks[0].Progress != 40 {
		t.Fatalf("progress: %v", err)
	}
	if err := UpdateProgress(emp, tasks[0].ID, 140); !apperror.IsValidation(err) {
		t.Fatalf("expected validation, got %v", err)
	}
	if err := UpdatePriority(emp, tasks[1].ID, models.PriorityUrgent); err != nil {
		t.Fatalf("priority: %v", err)
	}
	if err := UpdatePriority(emp, tasks[1].ID, "asap"); !apperror.IsValidation(err) {
		t.Fatalf("expected validation, got %v", err)
	}

	if err := ReorderTask(emp, tasks[2].ID, tasks[0].ID); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	order := []string{emp.WorkTasks[0].Text, emp.WorkTasks[1].Text, emp.WorkTasks[2].Text}
	if order[0] != "C" || order[1] != "A" || order[2] != "B" {
		t.Fatalf("unexpected order %v", order)
	}
	if err := ReorderTask(emp, tasks[2].ID, tasks[1].ID); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	order = []string{emp.WorkTasks[0].Text, emp.WorkTasks[1].Text, emp.WorkTasks[2].Text}
	if order[0] != "A" || order[1] != "B" || order[2] != "C" {
		t.Fatalf("unexpected order %v", order)
	}

	if _, err := DeleteTask(emp, tasks[1].ID); err != nil || len(emp.WorkTasks) != 2 {
		t.Fatalf("delete: %v", err)
	}
	if _, err := DeleteTask(emp, "nope"); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTaskBreakRecordsProgress(t *testing.T) {
	emp, tasks := employeeWithTasks(t, "Restock")
	id := tasks[0].ID
	_ = StartTask(emp, id, clockAt(9, 0, 0))
	if err := StartTaskBreak(emp, id, 0, clockAt(10, 0, 0)); !apperror.IsValidation(err) {
		t.Fatalf("expected progress required, got %v", err)
	}
	if err := StartTaskBreak(emp, id, 60, clockAt(10, 0, 0)); err != nil {
		t.Fatalf("task break: %v", err)
	}
	task := emp.WorkTasks[0]
	if !task.OnTaskBreak || task.Progress != 60 || task.PauseHistory[0].Reason != "Break - Progress 60%" {
		t.Fatalf("unexpected task %+v", task)
	}
	if _, ok := NagDue(task, clockAt(11, 0, 0)); ok {
		t.Fatalf("task on break must not nag")
	}
	if err := EndTaskBreak(emp, id, clockAt(10, 15, 0)); err != nil {
		t.Fatalf("end task break: %v", err)
	}
	if emp.WorkTasks[0].OnTaskBreak || emp.WorkTasks[0].PauseHistory[0].EndTime != "10:15:00" {
		t.Fatalf("unexpected task after break %+v", emp.WorkTasks[0])
	}
	if err := EndTaskBreak(emp, id, clockAt(10, 16, 0)); !apperror.IsGuard(err) {
		t.Fatalf("expected guard, got %v", err)
	}
}

func TestNagDue(t *testing.T) {
	task := models.Task{StartTime: "09:00:00"}
	cases := []struct {
		now   time.Time
		hours int
		ok    bool
	}{
		{clockAt(10, 0, 0), 0, false},
		{clockAt(10, 30, 0), 0, false},
		{clockAt(11, 0, 0), 2, true},
		{clockAt(12, 0, 20), 3, true},
	}
	for _, tc := range cases {
		hours, ok := NagDue(task, tc.now)
		if hours != tc.hours || ok != tc.ok {
			t.Fatalf("at %s: got (%d, %v), want (%d, %v)", tc.now.Format("15:04"), hours, ok, tc.hours, tc.ok)
		}
	}
}

func TestTrackProductivity(t *testing.T) {
	var entries []models.ProductivityEntry
	entries = TrackProductivity(entries, 2, clockAt(9, 10, 0))
	entries = TrackProductivity(entries, 2, clockAt(9, 50, 0))
	entries = TrackProductivity(entries, 3, clockAt(9, 50, 0))
	entries = TrackProductivity(entries, 2, clockAt(10, 5, 0))
	if len(entries) != 3 {
		t.Fatalf("expected 3 buckets, got %+v", entries)
	}
	if entries[0].Count != 2 || entries[0].Work != 2 || entries[0].Date != "2026-03-02" || entries[0].Hour != 9 {
		t.Fatalf("unexpected bucket %+v", entries[0])
	}
}
