package models

// NoLeave adalah isi kolom libur bila tidak ada yang libur.
const NoLeave = "Tidak Ada"

// ShiftScheduleDay adalah satu baris jadwal bulanan.
type ShiftScheduleDay struct {
	Day        int      `json:"day"`
	Date       string   `json:"date"`
	DayName    string   `json:"dayName"`
	Libur      string   `json:"libur"`
	Pagi       []string `json:"pagi"`
	Malam      []string `json:"malam"`
	Keterangan string   `json:"keterangan"`
}

type ShiftSchedule struct {
	Month int                `json:"month"`
	Year  int                `json:"year"`
	Data  []ShiftScheduleDay `json:"data"`
}

// Period adalah bulan yang sedang ditampilkan (bulan 0-11).
type Period struct {
	CurrentMonth int `json:"currentMonth"`
	CurrentYear  int `json:"currentYear"`
}

// ProductivityEntry menghitung tugas selesai per karyawan per jam.
type ProductivityEntry struct {
	EmpID int    `json:"empId"`
	Hour  int    `json:"hour"`
	Date  string `json:"date"`
	Count int    `json:"count"`
	Work  int    `json:"work"`
}

// DayNames memakai urutan time.Weekday.
var DayNames = []string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var MonthNames = []string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"}
