package models

// Status kehadiran harian.
const (
	StatusBelum  = "belum"
	StatusHadir  = "hadir"
	StatusTelat  = "telat"
	StatusLembur = "lembur"
	StatusIzin   = "izin"
	StatusLibur  = "libur"
	StatusSakit  = "sakit"
	StatusAlpha  = "alpha"
)

// Statuses berisi semua status yang boleh ditulis admin ke kalender.
var Statuses = []string{StatusBelum, StatusHadir, StatusTelat, StatusLembur, StatusIzin, StatusLibur, StatusSakit, StatusAlpha}

func ValidStatus(s string) bool {
	for _, status := range Statuses {
		if status == s {
			return true
		}
	}
	return false
}

const (
	ShiftPagi  = "pagi"
	ShiftMalam = "malam"
)

// Employee adalah satu anggota tim beserta status shift yang sedang berjalan.
// Field jam memakai format "15:04"; string kosong berarti belum ada.
type Employee struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	BaseSalary         int64  `json:"baseSalary"`
	IsAdmin            bool   `json:"isAdmin"`
	IsBackup           bool   `json:"isBackup"`
	CheckedIn          bool   `json:"checkedIn"`
	Shift              string `json:"shift,omitempty"`
	CheckInTime        string `json:"checkInTime,omitempty"`
	ShiftEndTime       string `json:"shiftEndTime,omitempty"`
	Status             string `json:"status"`
	LateHours          int    `json:"lateHours"`
	Overtime           bool   `json:"overtime"`
	ShiftEndAdjustment int    `json:"shiftEndAdjustment"`

	Shifts []ShiftEntry `json:"shifts"`

	BreakTime     string        `json:"breakTime,omitempty"`
	BreakDuration int           `json:"breakDuration"`
	HasBreakToday bool          `json:"hasBreakToday"`
	BreakHistory  []BreakRecord `json:"breakHistory"`

	IzinTime    string       `json:"izinTime,omitempty"`
	IzinReason  string       `json:"izinReason,omitempty"`
	IzinHistory []IzinRecord `json:"izinHistory"`

	WorkTasks             []Task `json:"workTasks"`
	CompletedTasksHistory []Task `json:"completedTasksHistory"`

	// LastShiftDate adalah tanggal shift terakhir yang diproses rollover harian.
	LastShiftDate string `json:"lastShiftDate,omitempty"`
}

// ShiftEntry dicatat satu kali untuk setiap check-in.
type ShiftEntry struct {
	Shift       string `json:"shift"`
	CheckInTime string `json:"checkInTime"`
	EndTime     string `json:"endTime,omitempty"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	LateHours   int    `json:"lateHours"`
	IsOvertime  bool   `json:"isOvertime"`
}

type BreakRecord struct {
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Duration     int    `json:"duration"`
	IsLate       bool   `json:"isLate"`
	LateDuration int    `json:"lateDuration"`
	Date         string `json:"date"`
	Shift        string `json:"shift"`
}

type IzinRecord struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
	Reason    string `json:"reason"`
	Date      string `json:"date"`
	Shift     string `json:"shift"`
}

// NewEmployee membuat karyawan baru tanpa riwayat.
func NewEmployee(id int, name string, baseSalary int64, isAdmin, isBackup bool) Employee {
	return Employee{
		ID:                    id,
		Name:                  name,
		BaseSalary:            baseSalary,
		IsAdmin:               isAdmin,
		IsBackup:              isBackup,
		Status:                StatusBelum,
		Shifts:                []ShiftEntry{},
		BreakHistory:          []BreakRecord{},
		IzinHistory:           []IzinRecord{},
		WorkTasks:             []Task{},
		CompletedTasksHistory: []Task{},
	}
}

// ShiftsOn mengembalikan entri shift pada tanggal tertentu.
func (e *Employee) ShiftsOn(date string) []ShiftEntry {
	var out []ShiftEntry
	for _, s := range e.Shifts {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

// HadBreakOn melaporkan apakah ada istirahat tercatat pada tanggal tersebut.
func (e *Employee) HadBreakOn(date string) bool {
	for _, b := range e.BreakHistory {
		if b.Date == date {
			return true
		}
	}
	return false
}

// TaskIndex mencari posisi tugas aktif berdasarkan id, -1 bila tidak ada.
func (e *Employee) TaskIndex(taskID string) int {
	for i := range e.WorkTasks {
		if e.WorkTasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

// Clone membuat salinan dalam sehingga slice tidak berbagi backing array.
func (e Employee) Clone() Employee {
	out := e
	out.Shifts = append([]ShiftEntry{}, e.Shifts...)
	out.BreakHistory = append([]BreakRecord{}, e.BreakHistory...)
	out.IzinHistory = append([]IzinRecord{}, e.IzinHistory...)
	out.WorkTasks = CloneTasks(e.WorkTasks)
	out.CompletedTasksHistory = CloneTasks(e.CompletedTasksHistory)
	return out
}

// EnsureSlices mengganti slice nil dengan slice kosong agar JSON berisi [].
func (e *Employee) EnsureSlices() {
	if e.Shifts == nil {
		e.Shifts = []ShiftEntry{}
	}
	if e.BreakHistory == nil {
		e.BreakHistory = []BreakRecord{}
	}
	if e.IzinHistory == nil {
		e.IzinHistory = []IzinRecord{}
	}
	if e.WorkTasks == nil {
		e.WorkTasks = []Task{}
	}
	if e.CompletedTasksHistory == nil {
		e.CompletedTasksHistory = []Task{}
	}
	if e.Status == "" {
		e.Status = StatusBelum
	}
}

func FindEmployee(employees []Employee, id int) int {
	for i := range employees {
		if employees[i].ID == id {
			return i
		}
	}
	return -1
}
