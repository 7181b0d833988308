// Package firestore menyimpan dokumen dashboard di Cloud Firestore melalui
// REST API. Setiap dokumen punya dua field: data (nilai Firestore asli, map
// atau array) dan lastUpdated (string ISO), sama dengan yang ditulis klien
// browser.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	fsapi "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

const (
	defaultPollInterval = 2 * time.Second
	maxTxAttempts       = 5
	defaultEndpoint     = "https://firestore.googleapis.com/v1/"

	// isoMillis sama dengan Date.toISOString di browser.
	isoMillis = "2006-01-02T15:04:05.000Z"
)

// Store mengimplementasikan storage.Gateway di atas Firestore.
type Store struct {
	srv      *fsapi.Service
	httpc    *http.Client
	endpoint string
	project  string
	database string

	subs     *storage.Broadcaster
	poll     time.Duration
	logger   storage.Logger
	clock    func() time.Time
	mu       sync.Mutex
	seen     map[string]string
	start    sync.Once
	stop     chan struct{}
	stopOnce sync.Once
}

type Option func(*Store)

func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.poll = d
		}
	}
}

func WithLogger(logger storage.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHTTPClient memberi klien terautentikasi untuk membaca dokumen.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.httpc = c
		}
	}
}

func WithEndpoint(endpoint string) Option {
	return func(s *Store) {
		if endpoint != "" {
			s.endpoint = endpoint
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService membuat klien Firestore dari file kredensial service account.
// Path kosong memakai Application Default Credentials. Klien HTTP yang
// dikembalikan dipakai untuk membaca dokumen apa adanya.
func NewService(ctx context.Context, credentialsFile string) (*fsapi.Service, *http.Client, error) {
	var creds *google.Credentials
	var err error
	if credentialsFile == "" {
		creds, err = google.FindDefaultCredentials(ctx, fsapi.DatastoreScope)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to find default credentials: %w", err)
		}
	} else {
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to read credentials file %s: %w", credentialsFile, err)
		}
		creds, err = google.CredentialsFromJSON(ctx, b, fsapi.DatastoreScope)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to parse credentials file: %w", err)
		}
	}
	httpc := oauth2.NewClient(ctx, creds.TokenSource)
	srv, err := fsapi.NewService(ctx, option.WithHTTPClient(httpc))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to retrieve Firestore client: %w", err)
	}
	return srv, httpc, nil
}

func New(srv *fsapi.Service, project, database string, opts ...Option) *Store {
	if database == "" {
		database = "(default)"
	}
	s := &Store{
		srv:      srv,
		httpc:    http.DefaultClient,
		endpoint: defaultEndpoint,
		project:  project,
		database: database,
		subs:     storage.NewBroadcaster(),
		poll:     defaultPollInterval,
		logger:   storage.NopLogger(),
		clock:    time.Now,
		seen:     map[string]string{},
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) databasePath() string {
	return fmt.Sprintf("projects/%s/databases/%s", s.project, s.database)
}

func (s *Store) documentPath(collection, id string) string {
	return fmt.Sprintf("%s/documents/%s/%s", s.databasePath(), collection, id)
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (storage.Document, error) {
	body, err := s.fetch(ctx, s.documentPath(collection, id), "")
	if err != nil {
		return storage.Document{}, translate(err, storage.Key(collection, id))
	}
	out, _, err := decodeDocument(body)
	return out, err
}

// fetch membaca dokumen lewat GET biasa. Tipe Value hasil generator membuang
// false, 0 dan "" saat decode sehingga isi dokumen dibaca sendiri.
func (s *Store) fetch(ctx context.Context, name, transaction string) ([]byte, error) {
	u := s.endpoint + name
	if transaction != "" {
		u += "?transaction=" + url.QueryEscape(transaction)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gagal membaca respons firestore: %w", err)
	}
	return body, nil
}

func (s *Store) SetDocument(ctx context.Context, collection, id string, data any) error {
	raw, err := storage.Sanitize(data)
	if err != nil {
		return err
	}
	now := s.clock()
	doc, err := encodeDocument(raw, now)
	if err != nil {
		return err
	}
	saved, err := s.srv.Projects.Databases.Documents.Patch(s.documentPath(collection, id), doc).Context(ctx).Do()
	if err != nil {
		return translate(err, storage.Key(collection, id))
	}
	s.publish(collection, id, storage.Document{Data: raw, LastUpdated: now}, saved.UpdateTime)
	return nil
}

// RunTransaction memakai beginTransaction/commit dan mencoba ulang saat
// Firestore membatalkan transaksi karena bentrok.
func (s *Store) RunTransaction(ctx context.Context, collection, id string, fn storage.TxFunc) error {
	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.runOnce(ctx, collection, id, fn)
		if err == nil {
			return nil
		}
		if !aborted(err) {
			return err
		}
		lastErr = err
		s.logger.Printf("firestore: transaksi %s dibatalkan (percobaan %d): %v", storage.Key(collection, id), attempt+1, err)
	}
	return fmt.Errorf("%w: %v", storage.ErrConflict, lastErr)
}

func (s *Store) runOnce(ctx context.Context, collection, id string, fn storage.TxFunc) error {
	docs := s.srv.Projects.Databases.Documents
	begun, err := docs.BeginTransaction(s.databasePath(), &fsapi.BeginTransactionRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gagal memulai transaksi: %w", err)
	}
	rollback := func() {
		if _, err := docs.Rollback(s.databasePath(), &fsapi.RollbackRequest{Transaction: begun.Transaction}).Context(ctx).Do(); err != nil {
			s.logger.Printf("firestore: rollback gagal: %v", err)
		}
	}

	var current json.RawMessage
	existing, err := s.fetch(ctx, s.documentPath(collection, id), begun.Transaction)
	switch {
	case isNotFound(err):
	case err != nil:
		rollback()
		return fmt.Errorf("gagal membaca dokumen %s: %w", storage.Key(collection, id), err)
	default:
		decoded, _, err := decodeDocument(existing)
		if err != nil {
			rollback()
			return err
		}
		current = decoded.Data
	}

	next, err := fn(current)
	if err != nil {
		rollback()
		return err
	}
	raw, err := storage.Sanitize(next)
	if err != nil {
		rollback()
		return err
	}
	now := s.clock()
	doc, err := encodeDocument(raw, now)
	if err != nil {
		rollback()
		return err
	}
	doc.Name = s.documentPath(collection, id)
	resp, err := docs.Commit(s.databasePath(), &fsapi.CommitRequest{
		Transaction: begun.Transaction,
		Writes:      []*fsapi.Write{{Update: doc}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gagal commit dokumen %s: %w", storage.Key(collection, id), err)
	}
	updateTime := resp.CommitTime
	if len(resp.WriteResults) > 0 && resp.WriteResults[0].UpdateTime != "" {
		updateTime = resp.WriteResults[0].UpdateTime
	}
	s.publish(collection, id, storage.Document{Data: raw, LastUpdated: now}, updateTime)
	return nil
}

func (s *Store) publish(collection, id string, doc storage.Document, updateTime string) {
	key := storage.Key(collection, id)
	s.mu.Lock()
	if updateTime != "" && s.seen[key] == updateTime {
		s.mu.Unlock()
		return
	}
	s.seen[key] = updateTime
	s.mu.Unlock()
	s.subs.Publish(key, doc)
}

// Subscribe mendaftarkan pelanggan; perubahan dideteksi dari updateTime
// dokumen pada setiap polling.
func (s *Store) Subscribe(collection, id string, fn func(storage.Document)) func() {
	unsubscribe := s.subs.Add(storage.Key(collection, id), fn)
	s.start.Do(func() { go s.pollLoop() })
	return unsubscribe
}

func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) pollLoop() {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.pollOnce(context.Background())
		}
	}
}

func (s *Store) pollOnce(ctx context.Context) {
	for _, key := range s.subs.Keys() {
		collection, id, ok := splitKey(key)
		if !ok {
			continue
		}
		body, err := s.fetch(ctx, s.documentPath(collection, id), "")
		if isNotFound(err) {
			continue
		}
		if err != nil {
			s.logger.Printf("firestore: polling %s gagal: %v", key, err)
			continue
		}
		decoded, updateTime, err := decodeDocument(body)
		if err != nil {
			s.logger.Printf("firestore: dokumen %s rusak: %v", key, err)
			continue
		}
		s.publish(collection, id, decoded, updateTime)
	}
}

// wireDocument adalah bentuk JSON REST dokumen. Semua field Value berupa
// pointer agar nilai kosong tetap bisa dibedakan dari field yang tidak ada.
type wireDocument struct {
	Name       string                `json:"name"`
	Fields     map[string]*wireValue `json:"fields"`
	UpdateTime string                `json:"updateTime"`
}

type wireValue struct {
	NullValue      *string    `json:"nullValue"`
	BooleanValue   *bool      `json:"booleanValue"`
	IntegerValue   *string    `json:"integerValue"`
	DoubleValue    *float64   `json:"doubleValue"`
	StringValue    *string    `json:"stringValue"`
	TimestampValue *string    `json:"timestampValue"`
	BytesValue     *string    `json:"bytesValue"`
	ReferenceValue *string    `json:"referenceValue"`
	GeoPointValue  *geoPoint  `json:"geoPointValue"`
	MapValue       *wireMap   `json:"mapValue"`
	ArrayValue     *wireArray `json:"arrayValue"`
}

type wireMap struct {
	Fields map[string]*wireValue `json:"fields"`
}

type wireArray struct {
	Values []*wireValue `json:"values"`
}

type geoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// encodeDocument menulis data sebagai nilai Firestore asli. Nilai nol diberi
// ForceSendFields supaya tidak hilang oleh omitempty.
func encodeDocument(raw json.RawMessage, now time.Time) (*fsapi.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("gagal meng-encode dokumen firestore: %w", err)
	}
	data, err := toValue(generic)
	if err != nil {
		return nil, fmt.Errorf("gagal meng-encode dokumen firestore: %w", err)
	}
	return &fsapi.Document{Fields: map[string]fsapi.Value{
		"data":        *data,
		"lastUpdated": {StringValue: now.UTC().Format(isoMillis)},
	}}, nil
}

func toValue(v any) (*fsapi.Value, error) {
	switch x := v.(type) {
	case nil:
		return &fsapi.Value{NullValue: "NULL_VALUE"}, nil
	case bool:
		return &fsapi.Value{BooleanValue: x, ForceSendFields: []string{"BooleanValue"}}, nil
	case string:
		return &fsapi.Value{StringValue: x, ForceSendFields: []string{"StringValue"}}, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return &fsapi.Value{IntegerValue: i, ForceSendFields: []string{"IntegerValue"}}, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("angka %s tidak valid: %w", x, err)
		}
		return &fsapi.Value{DoubleValue: f, ForceSendFields: []string{"DoubleValue"}}, nil
	case []any:
		arr := &fsapi.ArrayValue{Values: make([]*fsapi.Value, 0, len(x))}
		for _, item := range x {
			iv, err := toValue(item)
			if err != nil {
				return nil, err
			}
			arr.Values = append(arr.Values, iv)
		}
		return &fsapi.Value{ArrayValue: arr}, nil
	case map[string]any:
		m := &fsapi.MapValue{Fields: make(map[string]fsapi.Value, len(x))}
		for k, item := range x {
			iv, err := toValue(item)
			if err != nil {
				return nil, err
			}
			m.Fields[k] = *iv
		}
		return &fsapi.Value{MapValue: m}, nil
	}
	return nil, fmt.Errorf("tipe %T tidak didukung", v)
}

func decodeDocument(body []byte) (storage.Document, string, error) {
	var wire wireDocument
	if err := json.Unmarshal(body, &wire); err != nil {
		return storage.Document{}, "", fmt.Errorf("gagal membaca dokumen firestore: %w", err)
	}
	out := storage.Document{Data: json.RawMessage("null")}
	if v := wire.Fields["data"]; v != nil {
		data, err := fromValue(v)
		if err != nil {
			return storage.Document{}, "", fmt.Errorf("field data pada %s tidak valid: %w", wire.Name, err)
		}
		// Versi server sebelumnya menyimpan data sebagai teks JSON.
		if text, ok := data.(string); ok {
			trimmed := bytes.TrimSpace([]byte(text))
			if len(trimmed) == 0 || (trimmed[0] != '[' && trimmed[0] != '{') || !json.Valid(trimmed) {
				return storage.Document{}, "", fmt.Errorf("field data pada %s bukan map atau array", wire.Name)
			}
			out.Data = json.RawMessage(trimmed)
		} else {
			encoded, err := json.Marshal(data)
			if err != nil {
				return storage.Document{}, "", fmt.Errorf("field data pada %s tidak valid: %w", wire.Name, err)
			}
			out.Data = encoded
		}
	}
	if v := wire.Fields["lastUpdated"]; v != nil {
		stamp := v.StringValue
		if stamp == nil {
			stamp = v.TimestampValue
		}
		if stamp != nil {
			if ts, err := time.Parse(time.RFC3339Nano, *stamp); err == nil {
				out.LastUpdated = ts
			}
		}
	}
	return out, wire.UpdateTime, nil
}

func fromValue(v *wireValue) (any, error) {
	switch {
	case v == nil || v.NullValue != nil:
		return nil, nil
	case v.MapValue != nil:
		out := make(map[string]any, len(v.MapValue.Fields))
		for k, f := range v.MapValue.Fields {
			item, err := fromValue(f)
			if err != nil {
				return nil, err
			}
			out[k] = item
		}
		return out, nil
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for _, f := range v.ArrayValue.Values {
			item, err := fromValue(f)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case v.StringValue != nil:
		return *v.StringValue, nil
	case v.BooleanValue != nil:
		return *v.BooleanValue, nil
	case v.IntegerValue != nil:
		if _, err := strconv.ParseInt(*v.IntegerValue, 10, 64); err != nil {
			return nil, fmt.Errorf("integerValue %q tidak valid", *v.IntegerValue)
		}
		return json.Number(*v.IntegerValue), nil
	case v.DoubleValue != nil:
		return *v.DoubleValue, nil
	case v.TimestampValue != nil:
		return *v.TimestampValue, nil
	case v.BytesValue != nil:
		return *v.BytesValue, nil
	case v.ReferenceValue != nil:
		return *v.ReferenceValue, nil
	case v.GeoPointValue != nil:
		return map[string]any{"latitude": v.GeoPointValue.Latitude, "longitude": v.GeoPointValue.Longitude}, nil
	}
	return nil, nil
}

func translate(err error, key string) error {
	if isNotFound(err) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("firestore %s: %w", key, err)
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func aborted(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusConflict
}

func splitKey(key string) (string, string, bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
