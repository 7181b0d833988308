// Package logbook mencatat jejak aksi karyawan dan admin ke file teks
// append-only yang bisa ditampilkan di panel admin.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "OK"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
)

type Logbook struct {
	path  string
	mu    sync.Mutex
	clock func() time.Time
}

// New membuat logbook pada path. Direktori induk dibuat bila belum ada.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path, clock: time.Now}, nil
}

func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append menulis satu baris. Logbook nil diabaikan sehingga pemanggil tidak
// perlu memeriksa.
func (l *Logbook) Append(level Level, actor, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if actor == "" {
		actor = "-"
	}
	line := fmt.Sprintf("%s %-5s [%s] %s\n",
		l.clock().Format(time.RFC3339),
		string(level),
		actor,
		strings.ReplaceAll(strings.TrimSpace(message), "\n", " "),
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail mengembalikan maxLines baris terakhir dan jumlah seluruh baris.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}

// Action mencatat aksi yang dimulai oleh actor.
func (l *Logbook) Action(actor, format string, args ...any) {
	l.Append(LevelInfo, actor, fmt.Sprintf(format, args...))
}

// Success mencatat aksi yang selesai dengan baik.
func (l *Logbook) Success(actor, format string, args ...any) {
	l.Append(LevelSuccess, actor, fmt.Sprintf(format, args...))
}

func (l *Logbook) Warn(actor, format string, args ...any) {
	l.Append(LevelWarn, actor, fmt.Sprintf(format, args...))
}

func (l *Logbook) Error(actor, format string, args ...any) {
	l.Append(LevelError, actor, fmt.Sprintf(format, args...))
}
