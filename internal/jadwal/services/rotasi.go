package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

// Peran mingguan.
const (
	RolePagi   = "pagi"
	RoleMalam  = "malam"
	RoleDouble = "double"
)

const (
	daysPerWeek      = 7
	excludeLeaveDays = 4
)

// Input adalah seluruh data yang dibutuhkan Rotate. Leave berisi nama yang
// libur per hari (indeks 0 = tanggal 1); string kosong atau models.NoLeave
// berarti tidak ada yang libur.
type Input struct {
	Regulars []string
	Backups  []string
	Leave    []string
}

// Counters adalah penghitung keadilan per orang. Selalu dihitung ulang dari
// nol pada setiap Rotate.
type Counters struct {
	Libur         int `json:"libur"`
	Pagi          int `json:"pagi"`
	Malam         int `json:"malam"`
	Double        int `json:"double"`
	WeeksAsPagi   int `json:"weeksAsPagi"`
	WeeksAsMalam  int `json:"weeksAsMalam"`
	WeeksAsDouble int `json:"weeksAsDouble"`
	SoloPagi      int `json:"soloPagi"`
	SoloMalam     int `json:"soloMalam"`
}

// Solo adalah jumlah minggu seseorang menjadi satu-satunya di shiftnya.
func (c Counters) Solo() int {
	return c.SoloPagi + c.SoloMalam
}

// DayPlan adalah hasil satu hari sebelum diberi tanggal.
type DayPlan struct {
	Libur      string
	Pagi       []string
	Malam      []string
	Keterangan string
}

type Result struct {
	Weeks []map[string]string
	Days  []DayPlan
	Stats map[string]*Counters
}

// Rotate menghitung pembagian shift untuk seluruh hari di in.Leave.
// Hasilnya deterministik untuk input yang sama.
func Rotate(in Input) Result {
	everyone := append(append([]string{}, in.Regulars...), in.Backups...)
	stats := map[string]*Counters{}
	for _, name := range everyone {
		stats[name] = &Counters{}
	}
	counter := func(name string) *Counters {
		c, ok := stats[name]
		if !ok {
			c = &Counters{}
			stats[name] = c
		}
		return c
	}
	backup := ""
	if len(in.Backups) > 0 {
		backup = in.Backups[0]
	}

	res := Result{Stats: stats}
	for start, weekIdx := 0, 0; start < len(in.Leave); start, weekIdx = start+daysPerWeek, weekIdx+1 {
		end := min(start+daysPerWeek, len(in.Leave))
		week := in.Leave[start:end]

		leaveDays := map[string]int{}
		for _, name := range week {
			if onLeave(name) {
				leaveDays[name]++
			}
		}
		var available []string
		for _, name := range in.Regulars {
			if leaveDays[name] < excludeLeaveDays {
				available = append(available, name)
			}
		}

		roles := assignWeek(available, backup, weekIdx, counter)
		res.Weeks = append(res.Weeks, roles)

		for _, libur := range week {
			res.Days = append(res.Days, materialize(everyone, roles, libur, backup, counter))
		}
	}
	return res
}

func assignWeek(available []string, backup string, weekIdx int, counter func(string) *Counters) map[string]string {
	roles := map[string]string{}
	switch len(available) {
	case 0:
		if backup != "" {
			roles[backup] = RoleDouble
			counter(backup).WeeksAsDouble++
		}
	case 1:
		roles[available[0]] = RolePagi
		counter(available[0]).WeeksAsPagi++
		if backup != "" {
			roles[backup] = RoleMalam
			counter(backup).WeeksAsMalam++
		}
	case 2:
		first, second := available[0], available[1]
		if weekIdx%2 != 0 {
			first, second = second, first
		}
		roles[first] = RolePagi
		roles[second] = RoleMalam
		counter(first).WeeksAsPagi++
		counter(second).WeeksAsMalam++
	default:
		solo := pickSolo(available, weekIdx, counter)
		soloRole, crewRole := RoleMalam, RolePagi
		if weekIdx%2 != 0 {
			soloRole, crewRole = RolePagi, RoleMalam
		}
		for _, name := range available {
			role := crewRole
			if name == solo {
				role = soloRole
			}
			roles[name] = role
			c := counter(name)
			if role == RolePagi {
				c.WeeksAsPagi++
			} else {
				c.WeeksAsMalam++
			}
		}
		if soloRole == RolePagi {
			counter(solo).SoloPagi++
		} else {
			counter(solo).SoloMalam++
		}
	}
	return roles
}

// pickSolo memilih orang dengan minggu solo paling sedikit. Bila seri,
// kandidat diurutkan alfabetis lalu dipilih bergiliran berdasarkan indeks
// minggu.
func pickSolo(available []string, weekIdx int, counter func(string) *Counters) string {
	least := -1
	var candidates []string
	for _, name := range available {
		solo := counter(name).Solo()
		switch {
		case least < 0 || solo < least:
			least = solo
			candidates = []string{name}
		case solo == least:
			candidates = append(candidates, name)
		}
	}
	slices.SortFunc(candidates, func(a, b string) int {
		return cmp.Compare(a, b)
	})
	return candidates[weekIdx%len(candidates)]
}

func materialize(everyone []string, roles map[string]string, libur, backup string, counter func(string) *Counters) DayPlan {
	day := DayPlan{Libur: models.NoLeave, Pagi: []string{}, Malam: []string{}}
	if onLeave(libur) {
		day.Libur = libur
		counter(libur).Libur++
	}
	for _, name := range everyone {
		if name == day.Libur {
			continue
		}
		switch roles[name] {
		case RolePagi:
			day.Pagi = append(day.Pagi, name)
		case RoleMalam:
			day.Malam = append(day.Malam, name)
		case RoleDouble:
			day.Pagi = append(day.Pagi, name)
			day.Malam = append(day.Malam, name)
		}
	}

	var notes []string
	if role, ok := roles[day.Libur]; ok && day.Libur != backup {
		if backup != "" {
			switch role {
			case RolePagi:
				day.Pagi = appendUnique(day.Pagi, backup)
			case RoleMalam:
				day.Malam = appendUnique(day.Malam, backup)
			case RoleDouble:
				day.Pagi = appendUnique(day.Pagi, backup)
				day.Malam = appendUnique(day.Malam, backup)
			}
			notes = append(notes, fmt.Sprintf("%s menggantikan %s (%s)", backup, day.Libur, role))
		} else {
			notes = append(notes, fmt.Sprintf("Shift %s kosong, %s libur", role, day.Libur))
		}
	}
	if len(day.Pagi) == 0 || len(day.Malam) == 0 {
		notes = append(notes, "Ada shift tanpa penjaga")
	}
	if roles[backup] == RoleDouble && backup != day.Libur {
		notes = append(notes, backup+" double shift")
	}
	day.Keterangan = strings.Join(notes, "; ")

	for _, name := range day.Pagi {
		counter(name).Pagi++
	}
	for _, name := range day.Malam {
		counter(name).Malam++
	}
	for _, name := range day.Pagi {
		if slices.Contains(day.Malam, name) {
			counter(name).Double++
		}
	}
	return day
}

func onLeave(name string) bool {
	return name != "" && name != models.NoLeave
}

func appendUnique(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}

// Roster adalah pembagian nama reguler dan cadangan sesuai urutan karyawan.
type Roster struct {
	Regulars []string
	Backups  []string
}

func RosterOf(employees []models.Employee) Roster {
	var r Roster
	for _, e := range employees {
		if e.IsBackup {
			r.Backups = append(r.Backups, e.Name)
		} else {
			r.Regulars = append(r.Regulars, e.Name)
		}
	}
	return r
}

// LeaveFromCalendar membaca siapa yang libur tiap tanggal pada bulan tersebut
// (bulan 0-11). Bila lebih dari satu orang libur, yang terakhir di urutan
// karyawan dipakai.
func LeaveFromCalendar(employees []models.Employee, cal models.AttendanceCalendar, year, month int) []string {
	leave := make([]string, DaysIn(year, month))
	for i := range leave {
		leave[i] = models.NoLeave
		for _, e := range employees {
			if rec := cal.Lookup(e.ID, month, i+1); rec != nil && rec.Status == models.StatusLibur {
				leave[i] = e.Name
			}
		}
	}
	return leave
}

// DaysIn mengembalikan jumlah hari pada bulan 0-11.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// GenerateMonth menyusun jadwal satu bulan penuh dari roster dan data libur.
func GenerateMonth(roster Roster, year, month int, leave []string) (models.ShiftSchedule, map[string]*Counters) {
	days := DaysIn(year, month)
	normalized := make([]string, days)
	for i := range normalized {
		normalized[i] = models.NoLeave
		if i < len(leave) && onLeave(leave[i]) {
			normalized[i] = leave[i]
		}
	}
	res := Rotate(Input{Regulars: roster.Regulars, Backups: roster.Backups, Leave: normalized})

	schedule := models.ShiftSchedule{Month: month, Year: year, Data: make([]models.ShiftScheduleDay, 0, days)}
	for i, plan := range res.Days {
		date := time.Date(year, time.Month(month+1), i+1, 0, 0, 0, 0, time.UTC)
		schedule.Data = append(schedule.Data, models.ShiftScheduleDay{
			Day:        i + 1,
			Date:       fmt.Sprintf("%d/%d/%d", date.Day(), int(date.Month()), date.Year()),
			DayName:    models.DayNames[date.Weekday()],
			Libur:      plan.Libur,
			Pagi:       plan.Pagi,
			Malam:      plan.Malam,
			Keterangan: plan.Keterangan,
		})
	}
	return schedule, res.Stats
}
