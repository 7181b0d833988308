package sinkron

import (
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

// Nama dokumen di koleksi attendance.
const (
	DocEmployees    = "employees"
	DocAttentions   = "attentions"
	DocCalendar     = "yearlyAttendance"
	DocProductivity = "productivityData"
	DocPeriod       = "currentPeriod"
	DocSchedule     = "shiftSchedule"
	DocOrders       = "orders"
	DocMbak         = "mbakData"
)

// Documents berisi semua dokumen yang dimuat saat bootstrap.
var Documents = []string{DocEmployees, DocAttentions, DocCalendar, DocProductivity, DocPeriod, DocSchedule, DocOrders, DocMbak}

// State adalah salinan lokal seluruh data bersama. Hanya boleh diubah di dalam
// Session.Run.
type State struct {
	Employees    []models.Employee
	Calendar     models.AttendanceCalendar
	Productivity []models.ProductivityEntry
	Period       models.Period
	Schedule     models.ShiftSchedule
	Orders       []models.Order
	Attentions   []models.Attention
	MbakTasks    []models.MbakTask

	// CalendarLegacy berisi riwayat lama milik nama yang tidak ada di roster.
	CalendarLegacy models.LegacyCalendar

	touchedEmployees  map[int]bool
	touchedAttentions map[string]bool
	dirty             map[string]bool
	immediate         bool
}

func newState() *State {
	st := &State{
		Employees:    []models.Employee{},
		Calendar:     models.AttendanceCalendar{},
		Productivity: []models.ProductivityEntry{},
		Orders:       []models.Order{},
		Attentions:   []models.Attention{},
		MbakTasks:    []models.MbakTask{},
	}
	st.resetMarks()
	return st
}

func (st *State) resetMarks() {
	st.touchedEmployees = map[int]bool{}
	st.touchedAttentions = map[string]bool{}
	st.dirty = map[string]bool{}
	st.immediate = false
}

// Employee mengembalikan pointer ke karyawan dengan id tersebut.
func (st *State) Employee(id int) (*models.Employee, error) {
	idx := models.FindEmployee(st.Employees, id)
	if idx < 0 {
		return nil, apperror.NotFound("karyawan %d tidak ditemukan", id)
	}
	return &st.Employees[idx], nil
}

// TouchEmployee menandai karyawan untuk ditulis lewat transaksi per karyawan.
func (st *State) TouchEmployee(id int) {
	st.touchedEmployees[id] = true
}

// ReplaceEmployees menandai seluruh roster untuk ditimpa sekaligus. Dipakai
// operasi admin seperti tambah dan hapus karyawan.
func (st *State) ReplaceEmployees() {
	st.dirty[DocEmployees] = true
}

func (st *State) TouchAttention(id string) {
	st.touchedAttentions[id] = true
}

// Touch menandai dokumen untuk disimpan lewat debounce.
func (st *State) Touch(docs ...string) {
	for _, doc := range docs {
		st.dirty[doc] = true
	}
}

// SaveNow meminta dokumen yang ditandai pada aksi ini ditulis tanpa debounce.
func (st *State) SaveNow() {
	st.immediate = true
}

// Attention mencari pengumuman berdasarkan id.
func (st *State) Attention(id string) (*models.Attention, error) {
	for i := range st.Attentions {
		if st.Attentions[i].ID == id {
			return &st.Attentions[i], nil
		}
	}
	return nil, apperror.NotFound("pengumuman %s tidak ditemukan", id)
}

// Clone membuat salinan dalam untuk dibaca di luar kunci session.
func (st *State) Clone() *State {
	out := newState()
	for _, e := range st.Employees {
		out.Employees = append(out.Employees, e.Clone())
	}
	out.Calendar = st.Calendar.Clone()
	if st.CalendarLegacy != nil {
		out.CalendarLegacy = models.LegacyCalendar{}
		for k, v := range st.CalendarLegacy {
			out.CalendarLegacy[k] = v
		}
	}
	out.Productivity = append(out.Productivity, st.Productivity...)
	out.Period = st.Period
	out.Schedule = st.Schedule
	out.Schedule.Data = append([]models.ShiftScheduleDay(nil), st.Schedule.Data...)
	for _, o := range st.Orders {
		o.Notes = append([]models.OrderNote{}, o.Notes...)
		out.Orders = append(out.Orders, o)
	}
	for _, a := range st.Attentions {
		a.ReadBy = append([]int{}, a.ReadBy...)
		out.Attentions = append(out.Attentions, a)
	}
	out.MbakTasks = append(out.MbakTasks, st.MbakTasks...)
	return out
}

// CalendarDocument menggabungkan kalender dan riwayat lama seperti yang ditulis
// ke store.
func (st *State) CalendarDocument() models.CalendarDocument {
	return models.CalendarDocument{Calendar: st.Calendar, Legacy: st.CalendarLegacy}
}

// Payload mengembalikan isi dokumen doc sesuai bentuk yang disimpan.
func (st *State) Payload(doc string) any {
	switch doc {
	case DocEmployees:
		return st.Employees
	case DocAttentions:
		return st.Attentions
	case DocCalendar:
		return st.CalendarDocument()
	case DocProductivity:
		return st.Productivity
	case DocPeriod:
		return st.Period
	case DocSchedule:
		return st.Schedule
	case DocOrders:
		return st.Orders
	case DocMbak:
		return st.MbakTasks
	}
	return nil
}
