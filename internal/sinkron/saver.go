package sinkron

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

// Saver menulis dokumen dengan debounce trailing-edge per dokumen. Tulisan yang
// sudah dikirim tidak pernah dibatalkan.
type Saver struct {
	gw      storage.Gateway
	delay   time.Duration
	payload func(doc string) (json.RawMessage, error)
	// beforeWrite dipanggil tepat sebelum tulisan dikirim, sebelum store
	// sempat memantulkan snapshot-nya.
	beforeWrite func(doc string, raw json.RawMessage)
	onError     func(doc string, err error)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewSaver membuat saver. payload dipanggil saat timer berbunyi sehingga yang
// ditulis selalu state terbaru.
func NewSaver(gw storage.Gateway, delay time.Duration, payload func(doc string) (json.RawMessage, error)) *Saver {
	return &Saver{
		gw:      gw,
		delay:   delay,
		payload: payload,
		timers:  map[string]*time.Timer{},
	}
}

// Schedule menunda penulisan doc sampai delay setelah panggilan terakhir.
func (sv *Saver) Schedule(doc string) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if t, ok := sv.timers[doc]; ok {
		t.Stop()
	}
	sv.timers[doc] = time.AfterFunc(sv.delay, func() {
		sv.mu.Lock()
		delete(sv.timers, doc)
		sv.mu.Unlock()
		_ = sv.write(context.Background(), doc)
	})
}

// SaveNow membatalkan timer yang menunggu untuk doc lalu menulis langsung.
func (sv *Saver) SaveNow(ctx context.Context, doc string) error {
	sv.cancel(doc)
	return sv.write(ctx, doc)
}

// Pending melaporkan apakah doc sedang menunggu debounce.
func (sv *Saver) Pending(doc string) bool {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	_, ok := sv.timers[doc]
	return ok
}

// Flush menulis semua dokumen yang masih menunggu. Dipanggil saat shutdown.
func (sv *Saver) Flush(ctx context.Context) error {
	sv.mu.Lock()
	docs := make([]string, 0, len(sv.timers))
	for doc, t := range sv.timers {
		t.Stop()
		docs = append(docs, doc)
	}
	sv.timers = map[string]*time.Timer{}
	sv.mu.Unlock()
	sort.Strings(docs)

	var firstErr error
	for _, doc := range docs {
		if err := sv.write(ctx, doc); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (sv *Saver) cancel(doc string) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if t, ok := sv.timers[doc]; ok {
		t.Stop()
		delete(sv.timers, doc)
	}
}

func (sv *Saver) write(ctx context.Context, doc string) error {
	raw, err := sv.payload(doc)
	if err == nil {
		if sv.beforeWrite != nil {
			sv.beforeWrite(doc, raw)
		}
		err = sv.gw.SetDocument(ctx, storage.Collection, doc, raw)
	}
	if err != nil && sv.onError != nil {
		sv.onError(doc, err)
	}
	return err
}
