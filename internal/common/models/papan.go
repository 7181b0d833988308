package models

const (
	OrderPending   = "pending"
	OrderProcess   = "process"
	OrderCompleted = "completed"
)

func ValidOrderStatus(s string) bool {
	return s == OrderPending || s == OrderProcess || s == OrderCompleted
}

// Prioritas pesanan. Berbeda dengan prioritas tugas yang memakai "normal".
const (
	OrderPriorityLow    = "low"
	OrderPriorityMedium = "medium"
	OrderPriorityHigh   = "high"
	OrderPriorityUrgent = "urgent"
)

func ValidOrderPriority(p string) bool {
	switch p {
	case OrderPriorityLow, OrderPriorityMedium, OrderPriorityHigh, OrderPriorityUrgent:
		return true
	}
	return false
}

type Order struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Platform    string      `json:"platform"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	DueDate     string      `json:"dueDate,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	CreatedBy   string      `json:"createdBy"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
	CompletedAt string      `json:"completedAt,omitempty"`
	Notes       []OrderNote `json:"notes"`
}

type OrderNote struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
}

// Attention adalah pengumuman yang harus dibaca seluruh tim.
type Attention struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Image     string `json:"image,omitempty"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	ReadBy    []int  `json:"readBy"`
}

type MbakTask struct {
	ID          string `json:"id"`
	Task        string `json:"task"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	CompletedAt string `json:"completedAt,omitempty"`
}
