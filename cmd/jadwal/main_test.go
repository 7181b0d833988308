package main

import (
	"strings"
	"testing"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/jadwal/services"
)

func TestParseLibur(t *testing.T) {
	roster := config.DefaultRoster()
	leave, err := parseLibur("3:2, 10:3", roster, 31)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if leave[2] != "Ariel" || leave[9] != "Robert" || leave[0] != models.NoLeave {
		t.Fatalf("unexpected leave %v", leave[:10])
	}

	for _, raw := range []string{"3", "0:2", "32:2", "3:x", "3:99"} {
		if _, err := parseLibur(raw, roster, 31); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestRenderContainsEveryDay(t *testing.T) {
	roster := config.DefaultRoster()
	r := rosterOf(roster)
	leave, _ := parseLibur("3:2", roster, services.DaysIn(2026, 9))
	schedule, stats := services.GenerateMonth(r, 2026, 9, leave)

	out := render(schedule, stats, append(append([]string{}, r.Regulars...), r.Backups...))
	if !strings.Contains(out, "Jadwal Shift Oktober 2026") {
		t.Fatalf("missing title:\n%s", out)
	}
	for _, want := range []string{"Ariel", "Robert", "Desta", "Sabtu", "31"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if len(schedule.Data) != 31 {
		t.Fatalf("expected 31 days, got %d", len(schedule.Data))
	}
}
