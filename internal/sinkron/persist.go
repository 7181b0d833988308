package sinkron

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

// plan adalah salinan perubahan satu aksi yang akan ditulis setelah kunci
// session dilepas.
type plan struct {
	employees  []models.Employee
	attentions []attentionWrite
	docs       []string
	immediate  bool
}

type attentionWrite struct {
	id   string
	item *models.Attention
}

func (p plan) empty() bool {
	return len(p.employees) == 0 && len(p.attentions) == 0 && len(p.docs) == 0
}

func (p plan) changedDocs() []string {
	docs := append([]string(nil), p.docs...)
	if len(p.employees) > 0 {
		docs = append(docs, DocEmployees)
	}
	if len(p.attentions) > 0 {
		docs = append(docs, DocAttentions)
	}
	return docs
}

func (s *Session) planLocked(st *State) plan {
	p := plan{immediate: st.immediate}
	for doc := range st.dirty {
		p.docs = append(p.docs, doc)
	}
	sort.Strings(p.docs)

	if !st.dirty[DocEmployees] {
		ids := make([]int, 0, len(st.touchedEmployees))
		for id := range st.touchedEmployees {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if idx := models.FindEmployee(st.Employees, id); idx >= 0 {
				p.employees = append(p.employees, st.Employees[idx].Clone())
			}
		}
	}
	if !st.dirty[DocAttentions] {
		ids := make([]string, 0, len(st.touchedAttentions))
		for id := range st.touchedAttentions {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			w := attentionWrite{id: id}
			if a, err := st.Attention(id); err == nil {
				item := *a
				item.ReadBy = append([]int{}, a.ReadBy...)
				w.item = &item
			}
			p.attentions = append(p.attentions, w)
		}
	}
	return p
}

func (s *Session) persist(ctx context.Context, p plan) {
	for _, emp := range p.employees {
		if err := s.gw.RunTransaction(ctx, storage.Collection, DocEmployees, spliceEmployee(emp)); err != nil {
			s.reportFailure(DocEmployees, err)
		}
	}
	for _, w := range p.attentions {
		if err := s.gw.RunTransaction(ctx, storage.Collection, DocAttentions, spliceAttention(w)); err != nil {
			s.reportFailure(DocAttentions, err)
		}
	}
	for _, doc := range p.docs {
		// Roster dan pengumuman yang ditimpa utuh selalu ditulis langsung.
		if p.immediate || doc == DocEmployees || doc == DocAttentions {
			_ = s.saver.SaveNow(ctx, doc)
			continue
		}
		s.saver.Schedule(doc)
	}
}

// spliceEmployee mengganti satu karyawan di dokumen roster terbaru tanpa
// menyentuh karyawan lain.
func spliceEmployee(emp models.Employee) storage.TxFunc {
	return func(current json.RawMessage) (any, error) {
		list, err := rawList(current)
		if err != nil {
			return nil, fmt.Errorf("dokumen employees rusak: %w", err)
		}
		encoded, err := json.Marshal(emp)
		if err != nil {
			return nil, err
		}
		for i, raw := range list {
			var probe struct {
				ID int `json:"id"`
			}
			if json.Unmarshal(raw, &probe) == nil && probe.ID == emp.ID {
				list[i] = encoded
				return list, nil
			}
		}
		return append(list, encoded), nil
	}
}

// spliceAttention mengganti atau menghapus satu pengumuman.
func spliceAttention(w attentionWrite) storage.TxFunc {
	return func(current json.RawMessage) (any, error) {
		list, err := rawList(current)
		if err != nil {
			return nil, fmt.Errorf("dokumen attentions rusak: %w", err)
		}
		var encoded json.RawMessage
		if w.item != nil {
			if encoded, err = json.Marshal(w.item); err != nil {
				return nil, err
			}
		}
		out := make([]json.RawMessage, 0, len(list)+1)
		found := false
		for _, raw := range list {
			var probe struct {
				ID string `json:"id"`
			}
			if json.Unmarshal(raw, &probe) == nil && probe.ID == w.id {
				found = true
				if encoded != nil {
					out = append(out, encoded)
				}
				continue
			}
			out = append(out, raw)
		}
		if !found && encoded != nil {
			out = append(out, encoded)
		}
		return out, nil
	}
}

func rawList(current json.RawMessage) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if len(current) == 0 || string(current) == "null" {
		return list, nil
	}
	if err := json.Unmarshal(current, &list); err != nil {
		return nil, err
	}
	return list, nil
}
