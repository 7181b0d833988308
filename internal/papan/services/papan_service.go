package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/c14220110/absensi-dashboard/internal/common/logbook"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
)

// Nada saat pesanan mulai diproses.
const (
	processToneHz = 800
	processToneMs = 500
)

// PapanService mengelola papan pesanan, pengumuman dan task mbak.
type PapanService struct {
	Session *sinkron.Session
	Logbook *logbook.Logbook
}

func NewPapanService(session *sinkron.Session, lb *logbook.Logbook) *PapanService {
	return &PapanService{Session: session, Logbook: lb}
}

// author memakai nama dari token, atau nama admin pertama.
func author(st *sinkron.State, actor string) string {
	if actor != "" {
		return actor
	}
	for _, e := range st.Employees {
		if e.IsAdmin {
			return e.Name
		}
	}
	return "Admin"
}

func (s *PapanService) Orders(f OrderFilter) ([]models.Order, OrderStats) {
	var list []models.Order
	var stats OrderStats
	now := s.Session.Now()
	s.Session.View(func(st *sinkron.State) {
		list = FilterOrders(st.Orders, f)
		stats = SummarizeOrders(st.Orders, now)
	})
	for i := range list {
		list[i].Notes = append([]models.OrderNote{}, list[i].Notes...)
	}
	return list, stats
}

func (s *PapanService) AddOrder(ctx context.Context, in OrderInput, actor string) (models.Order, error) {
	in, err := in.normalize(s.Session.Roster().Validation)
	if err != nil {
		return models.Order{}, err
	}
	var order models.Order
	err = s.Session.Run(ctx, "papan:order", func(st *sinkron.State) error {
		st.Orders, order = NewOrder(st.Orders, in, author(st, actor), s.Session.Now())
		st.Touch(sinkron.DocOrders)
		st.SaveNow()
		return nil
	})
	if err != nil {
		return order, err
	}
	s.Session.Notifier().Notify(fmt.Sprintf("Order %s berhasil ditambahkan", order.Username), notifikasi.SeveritySuccess)
	s.Logbook.Action(order.CreatedBy, "tambah order %s (%s)", order.Username, order.Platform)
	return order, nil
}

func (s *PapanService) UpdateOrder(ctx context.Context, id string, in OrderInput) (models.Order, error) {
	in, err := in.normalize(s.Session.Roster().Validation)
	if err != nil {
		return models.Order{}, err
	}
	var order models.Order
	err = s.Session.Run(ctx, "papan:order:"+id, func(st *sinkron.State) error {
		var err error
		if order, err = EditOrder(st.Orders, id, in, s.Session.Now()); err != nil {
			return err
		}
		st.Touch(sinkron.DocOrders)
		st.SaveNow()
		return nil
	})
	return order, err
}

func (s *PapanService) UpdateOrderStatus(ctx context.Context, id, status, note, actor string) (models.Order, error) {
	var order models.Order
	var previous string
	err := s.Session.Run(ctx, "papan:order:"+id, func(st *sinkron.State) error {
		idx, err := findOrder(st.Orders, id)
		if err != nil {
			return err
		}
		previous = st.Orders[idx].Status
		if order, err = SetOrderStatus(st.Orders, id, status, note, author(st, actor), s.Session.Now()); err != nil {
			return err
		}
		st.Touch(sinkron.DocOrders)
		st.SaveNow()
		return nil
	})
	if err != nil {
		log.Printf("Gagal update status order %s: %v", id, err)
		return order, err
	}

	n := s.Session.Notifier()
	if status == models.OrderProcess && previous != models.OrderProcess {
		n.PlayTone(processToneHz, processToneMs)
		n.Notify(fmt.Sprintf("Order dari %s MULAI DIPROSES!", order.Username), notifikasi.SeverityInfo)
		n.NotifyBrowser("ORDER MULAI DIPROSES!", fmt.Sprintf("%s - %s\nPlatform: %s", order.Username, order.Description, strings.ToUpper(order.Platform)))
	} else {
		n.Notify(fmt.Sprintf("Order diupdate ke %s", status), notifikasi.SeveritySuccess)
	}
	s.Logbook.Action(actor, "status order %s: %s -> %s", order.Username, previous, status)
	return order, nil
}

func (s *PapanService) AddOrderNote(ctx context.Context, id, text, actor string) (models.OrderNote, error) {
	var note models.OrderNote
	err := s.Session.Run(ctx, "", func(st *sinkron.State) error {
		var err error
		if note, err = AddOrderNote(st.Orders, id, text, author(st, actor), s.Session.Now()); err != nil {
			return err
		}
		st.Touch(sinkron.DocOrders)
		st.SaveNow()
		return nil
	})
	return note, err
}

func (s *PapanService) DeleteOrder(ctx context.Context, id string) error {
	var removed models.Order
	err := s.Session.Run(ctx, "papan:order:"+id, func(st *sinkron.State) error {
		var err error
		if st.Orders, removed, err = RemoveOrder(st.Orders, id); err != nil {
			return err
		}
		st.Touch(sinkron.DocOrders)
		st.SaveNow()
		return nil
	})
	if err != nil {
		return err
	}
	s.Session.Notifier().Notify("Order dihapus", notifikasi.SeverityInfo)
	s.Logbook.Warn("admin", "hapus order %s", removed.Username)
	return nil
}

// BackupOrders menulis ulang dokumen pesanan; dipanggil job berkala.
func (s *PapanService) BackupOrders(ctx context.Context) error {
	if err := s.Session.SaveNow(ctx, sinkron.DocOrders); err != nil {
		log.Printf("Backup order gagal: %v", err)
		return err
	}
	return nil
}

func (s *PapanService) Attentions() []models.Attention {
	return s.Session.Snapshot().Attentions
}

func (s *PapanService) AddAttention(ctx context.Context, text, image string) (models.Attention, error) {
	a, err := NewAttention(text, image, s.Session.Now())
	if err != nil {
		return a, err
	}
	err = s.Session.Run(ctx, "", func(st *sinkron.State) error {
		st.Attentions = append(st.Attentions, a)
		st.TouchAttention(a.ID)
		return nil
	})
	if err != nil {
		log.Printf("Gagal menyimpan pengumuman: %v", err)
		return a, err
	}
	s.Logbook.Action("admin", "tambah pengumuman: %s", a.Text)
	return a, nil
}

func (s *PapanService) UpdateAttention(ctx context.Context, id, text, image string) (models.Attention, error) {
	var out models.Attention
	err := s.Session.Run(ctx, "papan:att:"+id, func(st *sinkron.State) error {
		a, err := st.Attention(id)
		if err != nil {
			return err
		}
		if _, err := NewAttention(text, image, s.Session.Now()); err != nil {
			return err
		}
		a.Text = strings.TrimSpace(text)
		a.Image = image
		out = *a
		out.ReadBy = slices.Clone(a.ReadBy)
		st.TouchAttention(id)
		return nil
	})
	return out, err
}

func (s *PapanService) DeleteAttention(ctx context.Context, id string) error {
	return s.Session.Run(ctx, "papan:att:"+id, func(st *sinkron.State) error {
		idx := slices.IndexFunc(st.Attentions, func(a models.Attention) bool { return a.ID == id })
		if idx < 0 {
			_, err := st.Attention(id)
			return err
		}
		st.Attentions = slices.Delete(st.Attentions, idx, idx+1)
		st.TouchAttention(id)
		return nil
	})
}

// ToggleAttentionRead mengembalikan true bila empID sekarang tercatat
// sudah membaca.
func (s *PapanService) ToggleAttentionRead(ctx context.Context, id string, empID int) (bool, error) {
	var read bool
	err := s.Session.Run(ctx, fmt.Sprintf("papan:att:%s:%d", id, empID), func(st *sinkron.State) error {
		if _, err := st.Employee(empID); err != nil {
			return err
		}
		a, err := st.Attention(id)
		if err != nil {
			return err
		}
		read = ToggleRead(a, empID, st.Employees)
		st.TouchAttention(id)
		return nil
	})
	return read, err
}

func (s *PapanService) MbakTasks() []models.MbakTask {
	return s.Session.Snapshot().MbakTasks
}

func (s *PapanService) AddMbak(ctx context.Context, text string) (models.MbakTask, error) {
	task, err := NewMbakTask(text, s.Session.Now())
	if err != nil {
		return task, err
	}
	err = s.Session.Run(ctx, "papan:mbak", func(st *sinkron.State) error {
		st.MbakTasks = append(st.MbakTasks, task)
		st.Touch(sinkron.DocMbak)
		st.SaveNow()
		return nil
	})
	if err != nil {
		return task, err
	}
	s.Session.Notifier().Notify("Task Mbak berhasil ditambahkan!", notifikasi.SeveritySuccess)
	return task, nil
}

func (s *PapanService) ToggleMbak(ctx context.Context, id string) (models.MbakTask, error) {
	var task models.MbakTask
	err := s.Session.Run(ctx, "papan:mbak:"+id, func(st *sinkron.State) error {
		var err error
		if task, err = ToggleMbak(st.MbakTasks, id, s.Session.Now()); err != nil {
			return err
		}
		st.Touch(sinkron.DocMbak)
		st.SaveNow()
		return nil
	})
	return task, err
}

func (s *PapanService) DeleteMbak(ctx context.Context, id string) error {
	return s.Session.Run(ctx, "papan:mbak:"+id, func(st *sinkron.State) error {
		idx, err := findMbak(st.MbakTasks, id)
		if err != nil {
			return err
		}
		st.MbakTasks = slices.Delete(st.MbakTasks, idx, idx+1)
		st.Touch(sinkron.DocMbak)
		st.SaveNow()
		return nil
	})
}
