package services

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

// OrderInput adalah isi form pesanan.
type OrderInput struct {
	Username    string `json:"username"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

func runeLen(s string) int { return len([]rune(s)) }

// normalize memangkas spasi, mengisi default lalu memvalidasi input.
func (in OrderInput) normalize(limits config.Validation) (OrderInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Description = strings.TrimSpace(in.Description)
	in.Platform = strings.ToLower(strings.TrimSpace(in.Platform))
	if in.Username == "" || in.Description == "" {
		return in, apperror.Validation("username dan deskripsi harus diisi")
	}
	if n := runeLen(in.Username); n < limits.OrderUsernameMin || n > limits.OrderUsernameMax {
		return in, apperror.Validation("username harus %d-%d karakter", limits.OrderUsernameMin, limits.OrderUsernameMax)
	}
	if n := runeLen(in.Description); n < limits.OrderDescriptionMin || n > limits.OrderDescriptionMax {
		return in, apperror.Validation("deskripsi harus %d-%d karakter", limits.OrderDescriptionMin, limits.OrderDescriptionMax)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return in, apperror.Validation("jumlah pesanan tidak boleh negatif")
	}
	if in.Status == "" {
		in.Status = models.OrderPending
	}
	if !models.ValidOrderStatus(in.Status) {
		return in, apperror.Validation("status pesanan %q tidak dikenal", in.Status)
	}
	if in.Priority == "" {
		in.Priority = models.OrderPriorityMedium
	}
	if !models.ValidOrderPriority(in.Priority) {
		return in, apperror.Validation("prioritas pesanan %q tidak dikenal", in.Priority)
	}
	if in.DueDate != "" {
		if _, ok := parseDueDate(in.DueDate); !ok {
			return in, apperror.Validation("tanggal jatuh tempo %q tidak valid", in.DueDate)
		}
	}
	return in, nil
}

// parseDueDate menerima "2006-01-02" atau RFC3339.
func parseDueDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func stamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

func findOrder(orders []models.Order, id string) (int, error) {
	for i := range orders {
		if orders[i].ID == id {
			return i, nil
		}
	}
	return -1, apperror.NotFound("pesanan %s tidak ditemukan", id)
}

// NewOrder membuat pesanan baru yang diletakkan paling atas.
func NewOrder(orders []models.Order, in OrderInput, createdBy string, now time.Time) ([]models.Order, models.Order) {
	order := models.Order{
		ID:          uuid.NewString(),
		Username:    in.Username,
		Platform:    in.Platform,
		Description: in.Description,
		Quantity:    in.Quantity,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   stamp(now),
		CreatedBy:   createdBy,
		UpdatedAt:   stamp(now),
		Notes:       []models.OrderNote{},
	}
	if order.Status == models.OrderCompleted {
		order.CompletedAt = stamp(now)
	}
	return append([]models.Order{order}, orders...), order
}

// EditOrder mengganti field form tanpa menyentuh status, catatan dan waktu
// selesai.
func EditOrder(orders []models.Order, id string, in OrderInput, now time.Time) (models.Order, error) {
	idx, err := findOrder(orders, id)
	if err != nil {
		return models.Order{}, err
	}
	o := &orders[idx]
	o.Username = in.Username
	o.Platform = in.Platform
	o.Description = in.Description
	o.Quantity = in.Quantity
	o.Priority = in.Priority
	o.DueDate = in.DueDate
	o.UpdatedAt = stamp(now)
	return *o, nil
}

// SetOrderStatus mengubah status. Status process dengan catatan menambah
// catatan proses; completed mengisi completedAt.
func SetOrderStatus(orders []models.Order, id, status, note, author string, now time.Time) (models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return models.Order{}, apperror.Validation("status pesanan %q tidak dikenal", status)
	}
	idx, err := findOrder(orders, id)
	if err != nil {
		return models.Order{}, err
	}
	o := &orders[idx]
	o.Status = status
	o.UpdatedAt = stamp(now)
	if status == models.OrderCompleted {
		o.CompletedAt = stamp(now)
	}
	if status == models.OrderProcess && strings.TrimSpace(note) != "" {
		o.Notes = append(o.Notes, newNote(note, author, now))
	}
	return *o, nil
}

func newNote(text, author string, now time.Time) models.OrderNote {
	return models.OrderNote{ID: uuid.NewString(), Text: strings.TrimSpace(text), CreatedAt: stamp(now), CreatedBy: author}
}

func AddOrderNote(orders []models.Order, id, text, author string, now time.Time) (models.OrderNote, error) {
	if strings.TrimSpace(text) == "" {
		return models.OrderNote{}, apperror.Validation("catatan tidak boleh kosong")
	}
	idx, err := findOrder(orders, id)
	if err != nil {
		return models.OrderNote{}, err
	}
	note := newNote(text, author, now)
	orders[idx].Notes = append(orders[idx].Notes, note)
	orders[idx].UpdatedAt = stamp(now)
	return note, nil
}

func RemoveOrder(orders []models.Order, id string) ([]models.Order, models.Order, error) {
	idx, err := findOrder(orders, id)
	if err != nil {
		return orders, models.Order{}, err
	}
	removed := orders[idx]
	return slices.Delete(orders, idx, idx+1), removed, nil
}

// OrderFilter menyaring daftar pesanan. Field kosong atau "all" berarti
// tidak disaring.
type OrderFilter struct {
	Status   string
	Platform string
	Search   string
}

func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []models.Order{}
	for _, o := range orders {
		if f.Status != "" && f.Status != "all" && o.Status != f.Status {
			continue
		}
		if f.Platform != "" && f.Platform != "all" && o.Platform != strings.ToLower(f.Platform) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(o.Username), search) && !strings.Contains(strings.ToLower(o.Description), search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

type OrderStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Process   int `json:"process"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// SummarizeOrders menghitung jumlah per status. Pesanan yang belum selesai
// dan jatuh temponya sudah lewat dihitung terlambat.
func SummarizeOrders(orders []models.Order, now time.Time) OrderStats {
	stats := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case models.OrderPending:
			stats.Pending++
		case models.OrderProcess:
			stats.Process++
		case models.OrderCompleted:
			stats.Completed++
			continue
		}
		if due, ok := parseDueDate(o.DueDate); ok && due.Before(now) {
			stats.Overdue++
		}
	}
	return stats
}
