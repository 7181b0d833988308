package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "logs", "absensi.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Action("Ariel", "check-in ke-%d", i)
	}
	book.Success("Ariel", "selesai\nbaris")
	lines, total := book.Tail(3)
	if total != 6 {
		t.Fatalf("total lines = %d, want 6", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "check-in ke-3") || !strings.Contains(lines[2], "[Ariel] selesai baris") {
		t.Fatalf("unexpected tail %q", lines)
	}
	if !strings.Contains(lines[2], " OK ") {
		t.Fatalf("expected success level in %q", lines[2])
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Warn("", "tidak ada file")
	if lines, total := book.Tail(10); lines != nil || total != 0 {
		t.Fatalf("expected empty tail from nil logbook")
	}
}
