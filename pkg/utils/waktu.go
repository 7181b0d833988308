package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60
	secondsPerDay = 24 * 60 * 60
)

// Clock adalah jam dinding tanpa tanggal hasil parsing "HH:MM[:SS]".
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// Minutes mengembalikan jumlah menit sejak tengah malam.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Seconds mengembalikan jumlah detik sejak tengah malam.
func (c Clock) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// ParseTime mem-parsing "HH:MM" atau "HH:MM:SS". Input tidak valid
// menghasilkan Clock nol, tidak pernah error.
func ParseTime(s string) Clock {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}
	}
	values := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Clock{}
		}
		values[i] = n
	}
	if values[0] > 23 || values[1] > 59 || values[2] > 59 {
		return Clock{}
	}
	return Clock{Hour: values[0], Minute: values[1], Second: values[2]}
}

// MinutesBetween menghitung end - start dalam menit. Selisih negatif dianggap
// melewati tengah malam sehingga ditambah 1440.
func MinutesBetween(start, end string) int {
	diff := ParseTime(end).Minutes() - ParseTime(start).Minutes()
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff
}

// SecondsBetween sama dengan MinutesBetween tetapi dalam detik.
func SecondsBetween(start, end string) int {
	diff := ParseTime(end).Seconds() - ParseTime(start).Seconds()
	if diff < 0 {
		diff += secondsPerDay
	}
	return diff
}

// FormatDuration menghasilkan "Xj Ym", atau "Ym" bila jam nol.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dj %dm", h, m)
}

// ParseDuration membaca kembali string hasil FormatDuration menjadi menit.
func ParseDuration(s string) int {
	total := 0
	for _, field := range strings.Fields(s) {
		switch {
		case strings.HasSuffix(field, "j"):
			if n, err := strconv.Atoi(strings.TrimSuffix(field, "j")); err == nil {
				total += n * 60
			}
		case strings.HasSuffix(field, "m"):
			if n, err := strconv.Atoi(strings.TrimSuffix(field, "m")); err == nil {
				total += n
			}
		}
	}
	return total
}

func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

func FormatClockSeconds(t time.Time) string {
	return t.Format("15:04:05")
}

// DateKey adalah format tanggal yang dipakai di seluruh riwayat.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func SecondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
