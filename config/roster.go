package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RosterEmployee adalah satu anggota tim pada file roster.
type RosterEmployee struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name"`
	BaseSalary int64  `yaml:"base_salary"`
	IsAdmin    bool   `yaml:"is_admin"`
	IsBackup   bool   `yaml:"is_backup"`
}

// ShiftWindow mendefinisikan jam mulai, jam selesai dan batas check-in.
// End boleh lebih kecil dari Start untuk shift yang melewati tengah malam.
type ShiftWindow struct {
	Name       string `yaml:"name"`
	Start      int    `yaml:"start"`
	End        int    `yaml:"end"`
	MaxCheckIn int    `yaml:"max_check_in"`
}

// CrossesMidnight melaporkan apakah shift berakhir pada hari berikutnya.
func (w ShiftWindow) CrossesMidnight() bool {
	return w.End <= w.Start
}

type ShiftConfig struct {
	Pagi  ShiftWindow `yaml:"pagi"`
	Malam ShiftWindow `yaml:"malam"`
}

type Timings struct {
	AutoSaveDelay     time.Duration `yaml:"auto_save_delay"`
	SettleDelay       time.Duration `yaml:"settle_delay"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	OrderBackup       time.Duration `yaml:"order_backup"`
	NoShowHours       int           `yaml:"no_show_hours"`
	BreakLimitMinutes int           `yaml:"break_limit_minutes"`
	AdminTokenTTL     time.Duration `yaml:"admin_token_ttl"`
	DeviceTokenTTL    time.Duration `yaml:"device_token_ttl"`
}

type Validation struct {
	OrderUsernameMin    int `yaml:"order_username_min"`
	OrderUsernameMax    int `yaml:"order_username_max"`
	OrderDescriptionMin int `yaml:"order_description_min"`
	OrderDescriptionMax int `yaml:"order_description_max"`
	EmployeeNameMin     int `yaml:"employee_name_min"`
	EmployeeNameMax     int `yaml:"employee_name_max"`
}

// Roster memodelkan file roster.yaml.
type Roster struct {
	Employees  []RosterEmployee `yaml:"employees"`
	Shifts     ShiftConfig      `yaml:"shifts"`
	Timings    Timings          `yaml:"timings"`
	Validation Validation       `yaml:"validation"`
}

// DefaultRoster adalah tim awal bila file roster tidak tersedia.
func DefaultRoster() Roster {
	return Roster{
		Employees: []RosterEmployee{
			{ID: 1, Name: "Desta", BaseSalary: 8000000, IsAdmin: true, IsBackup: true},
			{ID: 2, Name: "Ariel", BaseSalary: 7000000},
			{ID: 3, Name: "Robert", BaseSalary: 6500000},
		},
		Shifts: ShiftConfig{
			Pagi:  ShiftWindow{Name: "Shift Pagi", Start: 9, End: 17, MaxCheckIn: 10},
			Malam: ShiftWindow{Name: "Shift Malam", Start: 17, End: 1, MaxCheckIn: 18},
		},
		Timings: Timings{
			AutoSaveDelay:     500 * time.Millisecond,
			SettleDelay:       500 * time.Millisecond,
			SweepInterval:     time.Minute,
			OrderBackup:       5 * time.Minute,
			NoShowHours:       3,
			BreakLimitMinutes: 60,
			AdminTokenTTL:     12 * time.Hour,
			DeviceTokenTTL:    24 * time.Hour,
		},
		Validation: Validation{
			OrderUsernameMin:    2,
			OrderUsernameMax:    100,
			OrderDescriptionMin: 5,
			OrderDescriptionMax: 1000,
			EmployeeNameMin:     2,
			EmployeeNameMax:     50,
		},
	}
}

// LoadRoster membaca file roster, menerapkan override environment lalu
// menormalkan nilai yang kosong. Path kosong atau file yang tidak ada
// menghasilkan DefaultRoster.
func LoadRoster(path string) (Roster, error) {
	roster := DefaultRoster()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return roster, fmt.Errorf("gagal membaca roster %s: %w", path, err)
		default:
			var fromFile Roster
			if err := yaml.Unmarshal(data, &fromFile); err != nil {
				return roster, fmt.Errorf("gagal mem-parsing roster %s: %w", path, err)
			}
			roster.merge(fromFile)
		}
	}
	roster.applyEnvOverrides()
	roster.normalize()
	if err := roster.Validate(); err != nil {
		return roster, err
	}
	return roster, nil
}

func (r *Roster) merge(other Roster) {
	if len(other.Employees) > 0 {
		r.Employees = other.Employees
	}
	if other.Shifts.Pagi != (ShiftWindow{}) {
		r.Shifts.Pagi = other.Shifts.Pagi
	}
	if other.Shifts.Malam != (ShiftWindow{}) {
		r.Shifts.Malam = other.Shifts.Malam
	}
	t := other.Timings
	if t.AutoSaveDelay > 0 {
		r.Timings.AutoSaveDelay = t.AutoSaveDelay
	}
	if t.SettleDelay > 0 {
		r.Timings.SettleDelay = t.SettleDelay
	}
	if t.SweepInterval > 0 {
		r.Timings.SweepInterval = t.SweepInterval
	}
	if t.OrderBackup > 0 {
		r.Timings.OrderBackup = t.OrderBackup
	}
	if t.NoShowHours > 0 {
		r.Timings.NoShowHours = t.NoShowHours
	}
	if t.BreakLimitMinutes > 0 {
		r.Timings.BreakLimitMinutes = t.BreakLimitMinutes
	}
	if t.AdminTokenTTL > 0 {
		r.Timings.AdminTokenTTL = t.AdminTokenTTL
	}
	if t.DeviceTokenTTL > 0 {
		r.Timings.DeviceTokenTTL = t.DeviceTokenTTL
	}
	if other.Validation != (Validation{}) {
		r.Validation = other.Validation
	}
}

func (r *Roster) applyEnvOverrides() {
	if value := strings.TrimSpace(os.Getenv("ABSENSI_AUTOSAVE_DELAY")); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			r.Timings.AutoSaveDelay = d
		}
	}
	if value := strings.TrimSpace(os.Getenv("ABSENSI_SWEEP_INTERVAL")); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			r.Timings.SweepInterval = d
		}
	}
	if value := strings.TrimSpace(os.Getenv("ABSENSI_NO_SHOW_HOURS")); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			r.Timings.NoShowHours = n
		}
	}
}

func (r *Roster) normalize() {
	def := DefaultRoster()
	for i := range r.Employees {
		r.Employees[i].Name = strings.TrimSpace(r.Employees[i].Name)
	}
	if r.Shifts.Pagi.Name == "" {
		r.Shifts.Pagi.Name = def.Shifts.Pagi.Name
	}
	if r.Shifts.Malam.Name == "" {
		r.Shifts.Malam.Name = def.Shifts.Malam.Name
	}
	if r.Timings.AutoSaveDelay <= 0 {
		r.Timings.AutoSaveDelay = def.Timings.AutoSaveDelay
	}
	if r.Timings.SettleDelay < 0 {
		r.Timings.SettleDelay = 0
	}
	if r.Timings.SweepInterval <= 0 {
		r.Timings.SweepInterval = def.Timings.SweepInterval
	}
	if r.Timings.OrderBackup <= 0 {
		r.Timings.OrderBackup = def.Timings.OrderBackup
	}
	if r.Timings.NoShowHours <= 0 {
		r.Timings.NoShowHours = def.Timings.NoShowHours
	}
	if r.Timings.BreakLimitMinutes <= 0 {
		r.Timings.BreakLimitMinutes = def.Timings.BreakLimitMinutes
	}
	if r.Timings.AdminTokenTTL <= 0 {
		r.Timings.AdminTokenTTL = def.Timings.AdminTokenTTL
	}
	if r.Timings.DeviceTokenTTL <= 0 {
		r.Timings.DeviceTokenTTL = def.Timings.DeviceTokenTTL
	}
}

// Validate memastikan id unik, nama terisi dan jam shift masuk akal.
func (r Roster) Validate() error {
	seen := map[int]bool{}
	for _, emp := range r.Employees {
		if emp.ID <= 0 {
			return fmt.Errorf("roster: id karyawan %q harus positif", emp.Name)
		}
		if seen[emp.ID] {
			return fmt.Errorf("roster: id karyawan %d duplikat", emp.ID)
		}
		seen[emp.ID] = true
		if emp.Name == "" {
			return fmt.Errorf("roster: nama karyawan %d kosong", emp.ID)
		}
	}
	for _, w := range []ShiftWindow{r.Shifts.Pagi, r.Shifts.Malam} {
		if w.Start < 0 || w.Start > 23 || w.End < 0 || w.End > 23 || w.MaxCheckIn < 0 || w.MaxCheckIn > 23 {
			return fmt.Errorf("roster: jam shift %s di luar 0-23", w.Name)
		}
	}
	return nil
}

// Backups mengembalikan anggota cadangan sesuai urutan roster.
func (r Roster) Backups() []RosterEmployee {
	var out []RosterEmployee
	for _, emp := range r.Employees {
		if emp.IsBackup {
			out = append(out, emp)
		}
	}
	return out
}

// IsBackup melaporkan status cadangan statis untuk id karyawan.
func (r Roster) IsBackup(id int) bool {
	for _, emp := range r.Employees {
		if emp.ID == id {
			return emp.IsBackup
		}
	}
	return false
}
