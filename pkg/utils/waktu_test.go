package utils

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	c := ParseTime("09:15")
	if c.Hour != 9 || c.Minute != 15 || c.Second != 0 {
		t.Fatalf("expected 09:15:00, got %+v", c)
	}
	c = ParseTime("23:59:30")
	if c.Seconds() != 23*3600+59*60+30 {
		t.Fatalf("unexpected seconds %d", c.Seconds())
	}
	for _, bad := range []string{"", "abc", "9", "25:00", "10:61", "1:2:3:4"} {
		if got := ParseTime(bad); got != (Clock{}) {
			t.Fatalf("expected zero clock for %q, got %+v", bad, got)
		}
	}
}

func TestMinutesBetweenWrapsPastMidnight(t *testing.T) {
	if got := MinutesBetween("09:00", "09:45"); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
	if got := MinutesBetween("23:30", "00:15"); got != 45 {
		t.Fatalf("expected 45 across midnight, got %d", got)
	}
	// same-day negative gap still wraps forward
	if got := MinutesBetween("10:00", "09:59"); got != 1439 {
		t.Fatalf("expected 1439, got %d", got)
	}
}

func TestSecondsBetween(t *testing.T) {
	if got := SecondsBetween("09:00:00", "09:45:10"); got != 45*60+10 {
		t.Fatalf("unexpected seconds %d", got)
	}
	if got := SecondsBetween("23:59:50", "00:00:10"); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{0: "0m", 45: "45m", 60: "1j 0m", 135: "2j 15m", -5: "0m"}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
	if got := ParseDuration("2j 15m"); got != 135 {
		t.Fatalf("expected 135, got %d", got)
	}
	if got := ParseDuration("45m"); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
}

func TestClockFormatting(t *testing.T) {
	ts := time.Date(2026, time.March, 2, 7, 5, 9, 0, time.UTC)
	if FormatClock(ts) != "07:05" || FormatClockSeconds(ts) != "07:05:09" {
		t.Fatalf("unexpected clock format %s %s", FormatClock(ts), FormatClockSeconds(ts))
	}
	if DateKey(ts) != "2026-03-02" {
		t.Fatalf("unexpected date key %s", DateKey(ts))
	}
	if SecondsSinceMidnight(ts) != 7*3600+5*60+9 {
		t.Fatalf("unexpected seconds since midnight %d", SecondsSinceMidnight(ts))
	}
}
