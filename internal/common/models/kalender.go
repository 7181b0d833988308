package models

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"
)

// DayRecord adalah catatan kehadiran satu karyawan pada satu tanggal.
type DayRecord struct {
	Status             string     `json:"status"`
	LateHours          int        `json:"lateHours"`
	Shift              string     `json:"shift,omitempty"`
	StartShift         string     `json:"startShift,omitempty"`
	EndShift           string     `json:"endShift,omitempty"`
	OvertimeBaseStatus string     `json:"overtimeBaseStatus,omitempty"`
	OvertimeShift      string     `json:"overtimeShift,omitempty"`
	OvertimeCheckIn    string     `json:"overtimeCheckIn,omitempty"`
	Activities         []Activity `json:"activities,omitempty"`
}

type Activity struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// AttendanceCalendar: id karyawan -> bulan (0-11) -> tanggal (1-31).
type AttendanceCalendar map[int]map[int]map[int]*DayRecord

// MonthIndex mengubah time.Month menjadi indeks 0-11.
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// Lookup mengembalikan catatan tanpa membuatnya.
func (c AttendanceCalendar) Lookup(empID, month, day int) *DayRecord {
	if c == nil {
		return nil
	}
	return c[empID][month][day]
}

// Day mengembalikan catatan dan membuatnya bila belum ada.
func (c AttendanceCalendar) Day(empID, month, day int) *DayRecord {
	months, ok := c[empID]
	if !ok {
		months = map[int]map[int]*DayRecord{}
		c[empID] = months
	}
	days, ok := months[month]
	if !ok {
		days = map[int]*DayRecord{}
		months[month] = days
	}
	rec, ok := days[day]
	if !ok || rec == nil {
		rec = &DayRecord{Status: StatusBelum}
		days[day] = rec
	}
	return rec
}

// EnsureEmployee menyiapkan kalender kosong untuk karyawan baru.
func (c AttendanceCalendar) EnsureEmployee(empID int) {
	if _, ok := c[empID]; !ok {
		c[empID] = map[int]map[int]*DayRecord{}
	}
}

func (c AttendanceCalendar) Clone() AttendanceCalendar {
	out := AttendanceCalendar{}
	for id, months := range c {
		out[id] = map[int]map[int]*DayRecord{}
		for m, days := range months {
			out[id][m] = map[int]*DayRecord{}
			for d, rec := range days {
				if rec == nil {
					continue
				}
				cp := *rec
				cp.Activities = append([]Activity(nil), rec.Activities...)
				out[id][m][d] = &cp
			}
		}
	}
	return out
}

// LegacyCalendar menyimpan entri kalender lama yang dikunci dengan nama yang
// tidak ada di roster. Isinya ditulis balik apa adanya.
type LegacyCalendar map[string]json.RawMessage

// CalendarDocument adalah bentuk tersimpan dokumen yearlyAttendance.
type CalendarDocument struct {
	Calendar AttendanceCalendar
	Legacy   LegacyCalendar
}

func (d CalendarDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Calendar)+len(d.Legacy))
	for key, raw := range d.Legacy {
		out[key] = raw
	}
	for id, months := range d.Calendar {
		out[strconv.Itoa(id)] = months
	}
	return json.Marshal(out)
}

// UnmarshalJSON membaca dokumen tanpa roster; semua kunci nama masuk Legacy.
func (d *CalendarDocument) UnmarshalJSON(raw []byte) error {
	doc, err := DecodeCalendar(raw, nil)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// DecodeCalendar membaca dokumen yearlyAttendance. Data lama yang dikunci
// dengan nama karyawan diindeks ulang memakai id dari roster; nama yang tidak
// dikenal disimpan di Legacy.
func DecodeCalendar(raw json.RawMessage, employees []Employee) (CalendarDocument, error) {
	doc := CalendarDocument{Calendar: AttendanceCalendar{}}
	if len(raw) == 0 || string(raw) == "null" {
		return doc, nil
	}
	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return CalendarDocument{}, fmt.Errorf("gagal membaca kalender: %w", err)
	}
	ids := map[string]int{}
	for _, emp := range employees {
		ids[emp.Name] = emp.ID
	}
	for key, value := range byKey {
		id, err := strconv.Atoi(key)
		if err != nil {
			var ok bool
			id, ok = ids[key]
			if !ok {
				if doc.Legacy == nil {
					doc.Legacy = LegacyCalendar{}
				}
				doc.Legacy[key] = value
				log.Printf("Kalender untuk %q disimpan sebagai data lama: karyawan tidak ditemukan", key)
				continue
			}
		}
		var months map[string]map[string]*DayRecord
		if err := json.Unmarshal(value, &months); err != nil {
			return CalendarDocument{}, fmt.Errorf("gagal membaca kalender %s: %w", key, err)
		}
		for mKey, days := range months {
			month, err := strconv.Atoi(mKey)
			if err != nil || month < 0 || month > 11 {
				continue
			}
			for dKey, rec := range days {
				day, err := strconv.Atoi(dKey)
				if err != nil || day < 1 || day > 31 || rec == nil {
					continue
				}
				*doc.Calendar.Day(id, month, day) = *rec
			}
		}
	}
	return doc, nil
}
