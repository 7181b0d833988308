package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadRosterDefaultsWhenMissing(t *testing.T) {
	roster, err := LoadRoster(filepath.Join(t.TempDir(), "tidak-ada.yaml"))
	if err != nil {
		t.Fatalf("LoadRoster returned error: %v", err)
	}
	if len(roster.Employees) != 3 {
		t.Fatalf("expected 3 default employees, got %d", len(roster.Employees))
	}
	if !roster.IsBackup(1) || roster.IsBackup(2) {
		t.Fatalf("expected Desta to be the only backup")
	}
	if roster.Shifts.Malam.MaxCheckIn != 18 || !roster.Shifts.Malam.CrossesMidnight() {
		t.Fatalf("unexpected night shift %+v", roster.Shifts.Malam)
	}
	if roster.Timings.AutoSaveDelay != 500*time.Millisecond {
		t.Fatalf("expected 500ms autosave, got %s", roster.Timings.AutoSaveDelay)
	}
}

func TestLoadRosterParsesYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	rosterYAML := strings.TrimSpace(`
employees:
  - id: 1
    name: Desta
    is_backup: true
  - id: 2
    name: Ariel
  - id: 3
    name: Robert
  - id: 4
    name: Sinta
shifts:
  pagi:
    start: 8
    end: 16
    max_check_in: 9
timings:
  auto_save_delay: 250ms
  no_show_hours: 2
`)
	if err := os.WriteFile(path, []byte(rosterYAML), 0644); err != nil {
		t.Fatal(err)
	}
	roster, err := LoadRoster(path)
	if err != nil {
		t.Fatalf("LoadRoster returned error: %v", err)
	}
	if len(roster.Employees) != 4 || roster.Employees[3].Name != "Sinta" {
		t.Fatalf("unexpected employees %+v", roster.Employees)
	}
	if roster.Shifts.Pagi.Start != 8 || roster.Shifts.Pagi.Name != "Shift Pagi" {
		t.Fatalf("expected custom pagi with default name, got %+v", roster.Shifts.Pagi)
	}
	if roster.Shifts.Malam.Start != 17 {
		t.Fatalf("expected default malam, got %+v", roster.Shifts.Malam)
	}
	if roster.Timings.AutoSaveDelay != 250*time.Millisecond || roster.Timings.NoShowHours != 2 {
		t.Fatalf("unexpected timings %+v", roster.Timings)
	}
	if roster.Timings.SweepInterval != time.Minute {
		t.Fatalf("expected default sweep interval, got %s", roster.Timings.SweepInterval)
	}
}

func TestLoadRosterRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	body := "employees:\n  - id: 2\n    name: A\n  - id: 2\n    name: B\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRoster(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRosterEnvOverride(t *testing.T) {
	t.Setenv("ABSENSI_NO_SHOW_HOURS", "4")
	roster, err := LoadRoster("")
	if err != nil {
		t.Fatalf("LoadRoster returned error: %v", err)
	}
	if roster.Timings.NoShowHours != 4 {
		t.Fatalf("expected env override 4, got %d", roster.Timings.NoShowHours)
	}
}

func TestFromEnvNormalizes(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "Cassandra")
	t.Setenv("STORE_POLL_INTERVAL", "bukan-durasi")
	c := fromEnv()
	if c.Port != defaultPort || c.StoreDriver != StoreMemory {
		t.Fatalf("unexpected normalized config %+v", c)
	}
	if c.StorePollInterval != defaultPollInterval || c.FirestoreDatabase != "(default)" {
		t.Fatalf("unexpected store defaults %+v", c)
	}
	if c.Location() == nil {
		t.Fatalf("expected a location")
	}
}
