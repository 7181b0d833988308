package models

// TaskType adalah kategori tugas. Hanya tugas kerja yang tersisa.
type TaskType string

const TaskTypeWork TaskType = "work"

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task adalah satu tugas di workTasks atau completedTasksHistory.
// StartTime dan EndTime memakai format "15:04:05".
type Task struct {
	ID             string        `json:"id"`
	TaskType       TaskType      `json:"taskType,omitempty"`
	Text           string        `json:"text"`
	Priority       string        `json:"priority"`
	Progress       int           `json:"progress"`
	StartTime      string        `json:"startTime,omitempty"`
	EndTime        string        `json:"endTime,omitempty"`
	Duration       string        `json:"duration,omitempty"`
	Completed      bool          `json:"completed"`
	CompletedAt    string        `json:"completedAt,omitempty"`
	CreatedAt      string        `json:"createdAt"`
	Paused         bool          `json:"paused"`
	PauseStartTime string        `json:"pauseStartTime,omitempty"`
	PauseHistory   []PauseRecord `json:"pauseHistory"`
	OnTaskBreak    bool          `json:"onTaskBreak,omitempty"`
	ShiftDate      string        `json:"shiftDate,omitempty"`
	EndShiftTime   string        `json:"endShiftTime,omitempty"`
}

type PauseRecord struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime,omitempty"`
	Reason    string `json:"reason"`
}

// Running melaporkan tugas yang sudah dimulai, belum selesai dan tidak dijeda.
func (t *Task) Running() bool {
	return t.StartTime != "" && !t.Completed && !t.Paused
}

// IsWork bernilai true untuk tugas kerja, termasuk data lama tanpa kategori.
func (t *Task) IsWork() bool {
	return t.TaskType == "" || t.TaskType == TaskTypeWork
}

func (t Task) Clone() Task {
	out := t
	out.PauseHistory = append([]PauseRecord{}, t.PauseHistory...)
	return out
}

func CloneTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}
