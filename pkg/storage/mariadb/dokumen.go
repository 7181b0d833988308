package mariadb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

const (
	schemaDokumen = `CREATE TABLE IF NOT EXISTS Dokumen (
		koleksi      VARCHAR(64)  NOT NULL,
		id_dokumen   VARCHAR(128) NOT NULL,
		data         LONGTEXT     NOT NULL,
		last_updated DATETIME(3)  NOT NULL,
		versi        BIGINT       NOT NULL DEFAULT 1,
		PRIMARY KEY (koleksi, id_dokumen)
	)`

	queryGet       = "SELECT data, last_updated, versi FROM Dokumen WHERE koleksi = ? AND id_dokumen = ?"
	queryForUpdate = "SELECT data FROM Dokumen WHERE koleksi = ? AND id_dokumen = ? FOR UPDATE"
	queryVersi     = "SELECT versi FROM Dokumen WHERE koleksi = ? AND id_dokumen = ?"
	queryUpsert    = `INSERT INTO Dokumen (koleksi, id_dokumen, data, last_updated, versi)
		VALUES (?, ?, ?, ?, 1)
		ON DUPLICATE KEY UPDATE data = VALUES(data), last_updated = VALUES(last_updated), versi = versi + 1`

	defaultPollInterval = 2 * time.Second
	maxTxAttempts       = 5

	errDeadlock    = 1213
	errLockTimeout = 1205
)

// DocumentStore menyimpan dokumen dashboard di tabel Dokumen. Perubahan dari
// proses lain dideteksi dengan polling kolom versi.
type DocumentStore struct {
	DB *sql.DB

	subs     *storage.Broadcaster
	poll     time.Duration
	logger   storage.Logger
	clock    func() time.Time
	mu       sync.Mutex
	versions map[string]int64
	start    sync.Once
	stop     chan struct{}
	stopOnce sync.Once
}

type Option func(*DocumentStore)

func WithPollInterval(d time.Duration) Option {
	return func(s *DocumentStore) {
		if d > 0 {
			s.poll = d
		}
	}
}

func WithLogger(logger storage.Logger) Option {
	return func(s *DocumentStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *DocumentStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewDocumentStore(db *sql.DB, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		DB:       db,
		subs:     storage.NewBroadcaster(),
		poll:     defaultPollInterval,
		logger:   storage.NopLogger(),
		clock:    time.Now,
		versions: map[string]int64{},
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EnsureSchema membuat tabel Dokumen bila belum ada.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schemaDokumen); err != nil {
		return fmt.Errorf("gagal membuat tabel Dokumen: %v", err)
	}
	return nil
}

func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (storage.Document, error) {
	doc, _, err := s.read(ctx, collection, id)
	return doc, err
}

func (s *DocumentStore) read(ctx context.Context, collection, id string) (storage.Document, int64, error) {
	var (
		data    string
		updated time.Time
		versi   int64
	)
	err := s.DB.QueryRowContext(ctx, queryGet, collection, id).Scan(&data, &updated, &versi)
	if err == sql.ErrNoRows {
		return storage.Document{}, 0, storage.ErrNotFound
	}
	if err != nil {
		return storage.Document{}, 0, fmt.Errorf("gagal membaca dokumen %s: %w", storage.Key(collection, id), err)
	}
	return storage.Document{Data: json.RawMessage(data), LastUpdated: updated}, versi, nil
}

func (s *DocumentStore) SetDocument(ctx context.Context, collection, id string, data any) error {
	raw, err := storage.Sanitize(data)
	if err != nil {
		return err
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("gagal memulai transaksi: %v", err)
	}
	now := s.clock()
	versi, err := upsert(ctx, tx, collection, id, raw, now)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("gagal commit dokumen %s: %w", storage.Key(collection, id), err)
	}
	s.publish(collection, id, storage.Document{Data: raw, LastUpdated: now}, versi)
	return nil
}

// RunTransaction mengunci baris dokumen dengan SELECT ... FOR UPDATE dan
// mencoba ulang bila terjadi deadlock atau lock timeout.
func (s *DocumentStore) RunTransaction(ctx context.Context, collection, id string, fn storage.TxFunc) error {
	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.runOnce(ctx, collection, id, fn)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
		s.logger.Printf("mariadb: transaksi %s bentrok (percobaan %d): %v", storage.Key(collection, id), attempt+1, err)
	}
	return fmt.Errorf("%w: %v", storage.ErrConflict, lastErr)
}

func (s *DocumentStore) runOnce(ctx context.Context, collection, id string, fn storage.TxFunc) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("gagal memulai transaksi: %w", err)
	}

	var current json.RawMessage
	var data string
	err = tx.QueryRowContext(ctx, queryForUpdate, collection, id).Scan(&data)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		tx.Rollback()
		return fmt.Errorf("gagal mengunci dokumen %s: %w", storage.Key(collection, id), err)
	default:
		current = json.RawMessage(data)
	}

	next, err := fn(current)
	if err != nil {
		tx.Rollback()
		return err
	}
	raw, err := storage.Sanitize(next)
	if err != nil {
		tx.Rollback()
		return err
	}
	now := s.clock()
	versi, err := upsert(ctx, tx, collection, id, raw, now)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("gagal commit dokumen %s: %w", storage.Key(collection, id), err)
	}
	s.publish(collection, id, storage.Document{Data: raw, LastUpdated: now}, versi)
	return nil
}

func upsert(ctx context.Context, tx *sql.Tx, collection, id string, raw json.RawMessage, now time.Time) (int64, error) {
	if _, err := tx.ExecContext(ctx, queryUpsert, collection, id, string(raw), now); err != nil {
		return 0, fmt.Errorf("gagal menyimpan dokumen %s: %w", storage.Key(collection, id), err)
	}
	var versi int64
	if err := tx.QueryRowContext(ctx, queryVersi, collection, id).Scan(&versi); err != nil {
		return 0, fmt.Errorf("gagal membaca versi dokumen %s: %w", storage.Key(collection, id), err)
	}
	return versi, nil
}

func retryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == errDeadlock || me.Number == errLockTimeout
	}
	return false
}

// publish mencatat versi terbaru lalu memberi tahu pelanggan bila versi
// tersebut belum pernah dikirim.
func (s *DocumentStore) publish(collection, id string, doc storage.Document, versi int64) {
	key := storage.Key(collection, id)
	s.mu.Lock()
	if versi <= s.versions[key] {
		s.mu.Unlock()
		return
	}
	s.versions[key] = versi
	s.mu.Unlock()
	s.subs.Publish(key, doc)
}

// Subscribe mendaftarkan pelanggan dan memastikan loop polling berjalan.
// Pelanggan pertama menerima isi dokumen saat ini pada polling berikutnya.
func (s *DocumentStore) Subscribe(collection, id string, fn func(storage.Document)) func() {
	unsubscribe := s.subs.Add(storage.Key(collection, id), fn)
	s.start.Do(func() { go s.pollLoop() })
	return unsubscribe
}

// Close menghentikan loop polling.
func (s *DocumentStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *DocumentStore) pollLoop() {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.PollOnce(context.Background())
		}
	}
}

// PollOnce memeriksa semua dokumen yang punya pelanggan satu kali.
func (s *DocumentStore) PollOnce(ctx context.Context) {
	for _, key := range s.subs.Keys() {
		collection, id, ok := splitKey(key)
		if !ok {
			continue
		}
		doc, versi, err := s.read(ctx, collection, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			s.logger.Printf("mariadb: polling %s gagal: %v", key, err)
			continue
		}
		s.publish(collection, id, doc, versi)
	}
}

func splitKey(key string) (string, string, bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
