// Package storage mendefinisikan kontrak penyimpanan dokumen bersama.
// Setiap dokumen disimpan sebagai {data, lastUpdated} di dalam satu koleksi.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Collection adalah koleksi tempat semua dokumen dashboard disimpan.
const Collection = "attendance"

var (
	ErrNotFound = errors.New("dokumen tidak ditemukan")
	// ErrConflict dikembalikan bila transaksi tetap bentrok setelah dicoba ulang.
	ErrConflict = errors.New("transaksi bentrok")
)

// Document adalah isi dokumen beserta waktu tulis terakhir.
type Document struct {
	Data        json.RawMessage
	LastUpdated time.Time
}

// TxFunc menerima data saat ini (nil bila dokumen belum ada) dan
// mengembalikan data baru yang akan ditulis.
type TxFunc func(current json.RawMessage) (any, error)

// Gateway adalah abstraksi document store.
type Gateway interface {
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	// SetDocument menimpa seluruh dokumen.
	SetDocument(ctx context.Context, collection, id string, data any) error
	// RunTransaction menjalankan read-modify-write optimistis dan mencoba
	// ulang saat bentrok.
	RunTransaction(ctx context.Context, collection, id string, fn TxFunc) error
	// Subscribe memanggil fn setiap kali dokumen berubah, termasuk tulisan
	// milik pelanggan sendiri. Fungsi yang dikembalikan menghentikan langganan.
	Subscribe(collection, id string, fn func(Document)) (unsubscribe func())
}

// Logger dipakai implementasi untuk pesan diagnostik.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// NopLogger membuang semua pesan.
func NopLogger() Logger { return nopLogger{} }

// Key menggabungkan koleksi dan id dokumen.
func Key(collection, id string) string {
	return collection + "/" + id
}
