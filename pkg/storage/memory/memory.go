// Package memory menyediakan document store di memori untuk satu proses dan
// untuk pengujian.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

type Store struct {
	mu    sync.Mutex
	docs  map[string]storage.Document
	subs  *storage.Broadcaster
	clock func() time.Time
}

type Option func(*Store)

// WithClock mengganti sumber waktu lastUpdated.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		docs:  map[string]storage.Document{},
		subs:  storage.NewBroadcaster(),
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[storage.Key(collection, id)]
	if !ok {
		return storage.Document{}, storage.ErrNotFound
	}
	return copyDoc(doc), nil
}

func (s *Store) SetDocument(ctx context.Context, collection, id string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := storage.Sanitize(data)
	if err != nil {
		return err
	}
	key := storage.Key(collection, id)
	s.mu.Lock()
	doc := storage.Document{Data: raw, LastUpdated: s.clock()}
	s.docs[key] = doc
	s.mu.Unlock()
	s.subs.Publish(key, copyDoc(doc))
	return nil
}

func (s *Store) RunTransaction(ctx context.Context, collection, id string, fn storage.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := storage.Key(collection, id)
	s.mu.Lock()
	var current json.RawMessage
	if doc, ok := s.docs[key]; ok {
		current = append(json.RawMessage(nil), doc.Data...)
	}
	next, err := fn(current)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	raw, err := storage.Sanitize(next)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	doc := storage.Document{Data: raw, LastUpdated: s.clock()}
	s.docs[key] = doc
	s.mu.Unlock()
	s.subs.Publish(key, copyDoc(doc))
	return nil
}

func (s *Store) Subscribe(collection, id string, fn func(storage.Document)) func() {
	return s.subs.Add(storage.Key(collection, id), fn)
}

func copyDoc(doc storage.Document) storage.Document {
	return storage.Document{Data: append(json.RawMessage(nil), doc.Data...), LastUpdated: doc.LastUpdated}
}
