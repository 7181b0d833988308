// Command jadwal mencetak rotasi shift satu bulan ke terminal tanpa
// menyentuh data dashboard.
//
//	jadwal -roster roster.yaml -year 2026 -month 10 -libur 3:2,10:3
//
// -libur berisi pasangan tanggal:id-karyawan yang libur.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/jadwal/services"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	weekendStyle = cellStyle.Foreground(lipgloss.Color("#AAAAAA"))
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

func rosterOf(r config.Roster) services.Roster {
	var out services.Roster
	for _, e := range r.Employees {
		if e.IsBackup {
			out.Backups = append(out.Backups, e.Name)
		} else {
			out.Regulars = append(out.Regulars, e.Name)
		}
	}
	return out
}

// parseLibur membaca "3:2,10:3" menjadi daftar nama libur per tanggal.
func parseLibur(raw string, r config.Roster, days int) ([]string, error) {
	leave := make([]string, days)
	for i := range leave {
		leave[i] = models.NoLeave
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		dayRaw, idRaw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("format libur %q harus tanggal:id", pair)
		}
		day, err := strconv.Atoi(dayRaw)
		if err != nil || day < 1 || day > days {
			return nil, fmt.Errorf("tanggal %q di luar 1-%d", dayRaw, days)
		}
		id, err := strconv.Atoi(idRaw)
		if err != nil {
			return nil, fmt.Errorf("id karyawan %q tidak valid", idRaw)
		}
		idx := slices.IndexFunc(r.Employees, func(e config.RosterEmployee) bool { return e.ID == id })
		if idx < 0 {
			return nil, fmt.Errorf("karyawan %d tidak ada di roster", id)
		}
		leave[day-1] = r.Employees[idx].Name
	}
	return leave, nil
}

func render(schedule models.ShiftSchedule, stats map[string]*services.Counters, names []string) string {
	rows := make([][]string, 0, len(schedule.Data))
	weekend := map[int]bool{}
	for i, d := range schedule.Data {
		rows = append(rows, []string{
			strconv.Itoa(d.Day),
			d.DayName,
			d.Libur,
			strings.Join(d.Pagi, ", "),
			strings.Join(d.Malam, ", "),
			d.Keterangan,
		})
		if d.DayName == models.DayNames[time.Saturday] || d.DayName == models.DayNames[time.Sunday] {
			weekend[i] = true
		}
	}
	days := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Tgl", "Hari", "Libur", "Pagi", "Malam", "Keterangan").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case weekend[row-dataOffset()]:
				return weekendStyle
			}
			return cellStyle
		})

	statRows := make([][]string, 0, len(names))
	for _, name := range names {
		c := stats[name]
		if c == nil {
			c = &services.Counters{}
		}
		statRows = append(statRows, []string{
			name,
			strconv.Itoa(c.Libur),
			strconv.Itoa(c.Pagi),
			strconv.Itoa(c.Malam),
			strconv.Itoa(c.Double),
			strconv.Itoa(c.Solo()),
		})
	}
	summary := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Nama", "Libur", "Pagi", "Malam", "Double", "Solo").
		Rows(statRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	title := titleStyle.Render(fmt.Sprintf("Jadwal Shift %s %d", models.MonthNames[schedule.Month], schedule.Year))
	return lipgloss.JoinVertical(lipgloss.Left, title, days.String(), "", summary.String())
}

// dataOffset adalah indeks baris data pertama pada StyleFunc; baris header
// memakai table.HeaderRow.
func dataOffset() int {
	if table.HeaderRow < 0 {
		return 0
	}
	return table.HeaderRow + 1
}

func main() {
	now := time.Now()
	rosterPath := flag.String("roster", "", "file roster YAML (kosong = roster bawaan)")
	year := flag.Int("year", now.Year(), "tahun")
	month := flag.Int("month", int(now.Month()), "bulan 1-12")
	libur := flag.String("libur", "", "daftar tanggal:id karyawan libur, mis. 3:2,10:3")
	flag.Parse()

	if *month < 1 || *month > 12 {
		log.Fatalf("Bulan %d tidak valid, gunakan 1-12", *month)
	}
	roster, err := config.LoadRoster(*rosterPath)
	if err != nil {
		log.Fatalf("Roster tidak valid: %v", err)
	}
	m := *month - 1
	leave, err := parseLibur(*libur, roster, services.DaysIn(*year, m))
	if err != nil {
		log.Fatalf("Libur tidak valid: %v", err)
	}

	r := rosterOf(roster)
	schedule, stats := services.GenerateMonth(r, *year, m, leave)
	names := append(append([]string{}, r.Regulars...), r.Backups...)
	fmt.Fprintln(os.Stdout, render(schedule, stats, names))
}
