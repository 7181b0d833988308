package storage

import "sync"

// Broadcaster menyimpan pelanggan per kunci dokumen dan meneruskan setiap
// perubahan ke mereka. Callback dipanggil di luar lock.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]map[int]func(Document)
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[string]map[int]func(Document){}}
}

// Add mendaftarkan fn untuk key dan mengembalikan fungsi pelepas.
func (b *Broadcaster) Add(key string, fn func(Document)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[key] == nil {
		b.subs[key] = map[int]func(Document){}
	}
	id := b.next
	b.next++
	b.subs[key][id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[key], id)
			if len(b.subs[key]) == 0 {
				delete(b.subs, key)
			}
		})
	}
}

// Publish mengirim doc ke semua pelanggan key.
func (b *Broadcaster) Publish(key string, doc Document) {
	b.mu.RLock()
	fns := make([]func(Document), 0, len(b.subs[key]))
	for _, fn := range b.subs[key] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()
	for _, fn := range fns {
		fn(doc)
	}
}

// Count mengembalikan jumlah pelanggan aktif untuk key.
func (b *Broadcaster) Count(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[key])
}

// Keys mengembalikan kunci yang sedang punya pelanggan.
func (b *Broadcaster) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.subs))
	for k := range b.subs {
		out = append(out, k)
	}
	return out
}
