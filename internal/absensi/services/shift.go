package services

import (
	"time"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// DetectCurrentShift mengembalikan shift yang sedang berjalan pada jam now,
// atau string kosong di luar kedua jendela shift.
func DetectCurrentShift(cfg config.ShiftConfig, now time.Time) string {
	switch {
	case inWindow(cfg.Pagi, now.Hour()):
		return models.ShiftPagi
	case inWindow(cfg.Malam, now.Hour()):
		return models.ShiftMalam
	}
	return ""
}

func inWindow(w config.ShiftWindow, hour int) bool {
	if w.CrossesMidnight() {
		return hour >= w.Start || hour < w.End
	}
	return hour >= w.Start && hour < w.End
}

// shiftForCheckIn sama dengan DetectCurrentShift, tetapi check-in di luar
// jendela shift dihitung sebagai datang awal untuk shift pagi.
func shiftForCheckIn(cfg config.ShiftConfig, now time.Time) string {
	if shift := DetectCurrentShift(cfg, now); shift != "" {
		return shift
	}
	return models.ShiftPagi
}

// Window mengembalikan konfigurasi jam untuk nama shift.
func Window(cfg config.ShiftConfig, shift string) config.ShiftWindow {
	if shift == models.ShiftMalam {
		return cfg.Malam
	}
	return cfg.Pagi
}

// afterMidnight melaporkan jam dini hari yang masih milik shift malam.
func afterMidnight(w config.ShiftWindow, now time.Time) bool {
	return w.CrossesMidnight() && now.Hour() < w.End
}

// ShiftDate mengembalikan tanggal shift untuk now. Jam dini hari sebelum shift
// malam berakhir masih milik tanggal sebelumnya.
func ShiftDate(cfg config.ShiftConfig, now time.Time) time.Time {
	if afterMidnight(cfg.Malam, now) {
		now = now.AddDate(0, 0, -1)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// CalculateLateness menghitung keterlambatan terhadap MaxCheckIn ditambah
// toleranceHours. Terlambat bila lewat paling sedikit satu menit penuh;
// lateHours dibulatkan ke atas per jam.
func CalculateLateness(w config.ShiftWindow, now time.Time, toleranceHours int) (bool, int) {
	maxCheckIn := w.MaxCheckIn + toleranceHours
	var lateSeconds int
	if afterMidnight(w, now) {
		lateSeconds = (24-maxCheckIn)*3600 + utils.SecondsSinceMidnight(now)
	} else {
		lateSeconds = utils.SecondsSinceMidnight(now) - maxCheckIn*3600
	}
	if lateSeconds < 60 {
		return false, 0
	}
	return true, (lateSeconds + 3599) / 3600
}

// hoursSinceShiftStart menghitung jam penuh sejak shift dimulai.
func hoursSinceShiftStart(w config.ShiftWindow, now time.Time) int {
	if afterMidnight(w, now) {
		return (24 - w.Start) + now.Hour()
	}
	return now.Hour() - w.Start
}
