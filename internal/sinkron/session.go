// Package sinkron menyimpan salinan lokal data bersama, menerapkan aksi
// pengguna secara berurutan, menulisnya ke store, dan menggabungkan snapshot
// yang ditulis perangkat lain.
package sinkron

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

// Phase adalah fase session saat ini.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActionInFlight
	PhaseApplyingRemoteSnapshot
)

func (p Phase) String() string {
	switch p {
	case PhaseActionInFlight:
		return "action-in-flight"
	case PhaseApplyingRemoteSnapshot:
		return "applying-remote-snapshot"
	}
	return "idle"
}

const drainRetry = 50 * time.Millisecond

type Logger interface {
	Printf(format string, args ...any)
}

type Option func(*Session)

func WithLogger(logger Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithNotifier(n notifikasi.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock mengganti sumber waktu domain (periode default, dsb).
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithSettleDelay mengatur jeda setelah aksi selesai sebelum snapshot yang
// tertunda diterapkan.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.settle = d
		}
	}
}

func WithSaveDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.saveDelay = d
		}
	}
}

// WithChangeHook dipanggil di luar kunci setiap kali state lokal berubah.
func WithChangeHook(fn func(docs []string)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// Session memegang state lokal dan fase sinkronisasinya.
type Session struct {
	gw        storage.Gateway
	roster    config.Roster
	logger    Logger
	notifier  notifikasi.Notifier
	clock     func() time.Time
	loc       *time.Location
	settle    time.Duration
	saveDelay time.Duration
	onChange  func(docs []string)
	saver     *Saver

	mu           sync.Mutex
	state        *State
	phase        Phase
	active       int
	inFlight     map[string]bool
	settleUntil  time.Time
	pending      map[string]storage.Document
	pendingOrder []string
	drainTimer   *time.Timer
	written      map[string][sha256.Size]byte
	unsubs       []func()
}

func New(gw storage.Gateway, roster config.Roster, opts ...Option) *Session {
	s := &Session{
		gw:        gw,
		roster:    roster,
		logger:    log.Default(),
		notifier:  notifikasi.Nop{},
		clock:     time.Now,
		loc:       time.Local,
		settle:    roster.Timings.SettleDelay,
		saveDelay: roster.Timings.AutoSaveDelay,
		state:     newState(),
		inFlight:  map[string]bool{},
		pending:   map[string]storage.Document{},
		written:   map[string][sha256.Size]byte{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.saver = NewSaver(gw, s.saveDelay, s.encode)
	s.saver.beforeWrite = s.noteWritten
	s.saver.onError = s.reportFailure
	return s
}

func (s *Session) Roster() config.Roster {
	return s.roster
}

func (s *Session) Location() *time.Location {
	return s.loc
}

func (s *Session) Notifier() notifikasi.Notifier {
	return s.notifier
}

// Now mengembalikan waktu sekarang pada zona waktu session.
func (s *Session) Now() time.Time {
	return s.clock().In(s.loc)
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Pending mengembalikan jumlah snapshot yang masih menunggu diterapkan.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// StaticBackup melaporkan flag isBackup dari roster statis.
func (s *Session) StaticBackup(id int) (bool, bool) {
	for _, emp := range s.roster.Employees {
		if emp.ID == id {
			return emp.IsBackup, true
		}
	}
	return false, false
}

// Load memuat semua dokumen, mengisi default untuk dokumen yang belum ada,
// lalu berlangganan perubahan.
func (s *Session) Load(ctx context.Context) error {
	st := newState()
	var missing []string
	for _, doc := range Documents {
		d, err := s.gw.GetDocument(ctx, storage.Collection, doc)
		if errors.Is(err, storage.ErrNotFound) {
			s.defaults(st, doc)
			missing = append(missing, doc)
			continue
		}
		if err != nil {
			return fmt.Errorf("gagal memuat dokumen %s: %w", doc, err)
		}
		if err := s.decodeInto(st, doc, d.Data); err != nil {
			return fmt.Errorf("gagal membaca dokumen %s: %w", doc, err)
		}
	}
	for _, e := range st.Employees {
		st.Calendar.EnsureEmployee(e.ID)
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	for _, doc := range missing {
		if err := s.saver.SaveNow(ctx, doc); err != nil {
			return fmt.Errorf("gagal menulis dokumen awal %s: %w", doc, err)
		}
	}
	for _, doc := range Documents {
		doc := doc
		s.unsubs = append(s.unsubs, s.gw.Subscribe(storage.Collection, doc, func(d storage.Document) {
			s.HandleSnapshot(doc, d)
		}))
	}
	log.Printf("Session dimuat: %d karyawan, %d dokumen baru", len(st.Employees), len(missing))
	return nil
}

// Close menghentikan langganan dan menulis dokumen yang masih menunggu.
func (s *Session) Close(ctx context.Context) error {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.mu.Lock()
	if s.drainTimer != nil {
		s.drainTimer.Stop()
	}
	s.mu.Unlock()
	return s.saver.Flush(ctx)
}

// View menjalankan fn di bawah kunci session. fn tidak boleh mengubah state.
func (s *Session) View(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Snapshot mengembalikan salinan dalam seluruh state.
func (s *Session) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Run menerapkan satu aksi pengguna. Aksi kedua dengan key yang sama ditolak
// selama aksi pertama belum selesai disimpan. Perubahan lokal tetap
// dipertahankan walaupun penyimpanan gagal.
func (s *Session) Run(ctx context.Context, key string, fn func(st *State) error) error {
	s.mu.Lock()
	if key != "" && s.inFlight[key] {
		s.mu.Unlock()
		s.logger.Printf("Aksi %s diabaikan: aksi sebelumnya masih diproses", key)
		return apperror.Guard("aksi sebelumnya masih diproses")
	}
	if key != "" {
		s.inFlight[key] = true
	}
	s.active++
	s.phase = PhaseActionInFlight

	st := s.state
	st.resetMarks()
	err := fn(st)
	var p plan
	if err == nil {
		p = s.planLocked(st)
	}
	st.resetMarks()
	s.mu.Unlock()

	if err == nil {
		s.persist(context.WithoutCancel(ctx), p)
	}

	s.mu.Lock()
	if key != "" {
		delete(s.inFlight, key)
	}
	s.active--
	s.settleUntil = time.Now().Add(s.settle)
	if s.active == 0 {
		s.phase = PhaseIdle
	}
	s.scheduleDrainLocked()
	s.mu.Unlock()

	if err == nil && !p.empty() {
		s.changed(p.changedDocs())
	}
	return err
}

// SaveNow menulis dokumen segera tanpa menunggu debounce.
func (s *Session) SaveNow(ctx context.Context, doc string) error {
	return s.saver.SaveNow(ctx, doc)
}

// HandleSnapshot menerima snapshot dari store. Selama ada aksi berjalan atau
// dalam jeda settle, snapshot terakhir per dokumen diantrekan.
func (s *Session) HandleSnapshot(doc string, d storage.Document) {
	s.mu.Lock()
	if s.shouldQueueLocked(doc) {
		if _, ok := s.pending[doc]; !ok {
			s.pendingOrder = append(s.pendingOrder, doc)
		}
		s.pending[doc] = d
		s.scheduleDrainLocked()
		s.mu.Unlock()
		return
	}
	applied := s.applyLocked(doc, d)
	s.mu.Unlock()
	if applied {
		s.changed([]string{doc})
	}
}

// Flush langsung menerapkan snapshot yang tertunda bila tidak ada aksi yang
// berjalan, tanpa menunggu jeda settle.
func (s *Session) Flush() {
	s.mu.Lock()
	var applied []string
	if s.active == 0 {
		applied = s.drainLocked()
	}
	s.mu.Unlock()
	if len(applied) > 0 {
		s.changed(applied)
	}
}

func (s *Session) shouldQueueLocked(doc string) bool {
	if s.active > 0 || time.Now().Before(s.settleUntil) {
		return true
	}
	return doc != DocEmployees && doc != DocAttentions && s.saver.Pending(doc)
}

func (s *Session) scheduleDrainLocked() {
	if len(s.pending) == 0 {
		return
	}
	wait := time.Until(s.settleUntil)
	if wait < drainRetry {
		wait = drainRetry
	}
	if s.drainTimer != nil {
		s.drainTimer.Stop()
	}
	s.drainTimer = time.AfterFunc(wait, s.drain)
}

func (s *Session) drain() {
	s.mu.Lock()
	var applied []string
	if s.active == 0 && !time.Now().Before(s.settleUntil) {
		applied = s.drainLocked()
	}
	s.scheduleDrainLocked()
	s.mu.Unlock()
	if len(applied) > 0 {
		s.changed(applied)
	}
}

func (s *Session) drainLocked() []string {
	var applied, keep []string
	for _, doc := range s.pendingOrder {
		if doc != DocEmployees && doc != DocAttentions && s.saver.Pending(doc) {
			keep = append(keep, doc)
			continue
		}
		d := s.pending[doc]
		delete(s.pending, doc)
		if s.applyLocked(doc, d) {
			applied = append(applied, doc)
		}
	}
	s.pendingOrder = keep
	return applied
}

func (s *Session) applyLocked(doc string, d storage.Document) bool {
	if doc != DocEmployees {
		if sum, ok := s.written[doc]; ok && sum == sha256.Sum256(d.Data) {
			return false
		}
	}
	s.phase = PhaseApplyingRemoteSnapshot
	defer func() { s.phase = PhaseIdle }()
	if err := s.decodeInto(s.state, doc, d.Data); err != nil {
		s.logger.Printf("Gagal menerapkan snapshot %s: %v", doc, err)
		return false
	}
	if doc == DocEmployees {
		for _, e := range s.state.Employees {
			s.state.Calendar.EnsureEmployee(e.ID)
		}
	}
	return true
}

func (s *Session) decodeInto(st *State, doc string, raw json.RawMessage) error {
	switch doc {
	case DocEmployees:
		incoming, err := models.DecodeEmployees(raw, s.loc)
		if err != nil {
			return err
		}
		st.Employees = ReconcileRoster(st.Employees, incoming, s.StaticBackup)
	case DocCalendar:
		cal, err := models.DecodeCalendar(raw, st.Employees)
		if err != nil {
			return err
		}
		st.Calendar = cal.Calendar
		st.CalendarLegacy = cal.Legacy
	case DocAttentions:
		var list []models.Attention
		if err := unmarshalList(raw, &list); err != nil {
			return err
		}
		for i := range list {
			if list[i].ReadBy == nil {
				list[i].ReadBy = []int{}
			}
		}
		st.Attentions = list
	case DocProductivity:
		var list []models.ProductivityEntry
		if err := unmarshalList(raw, &list); err != nil {
			return err
		}
		st.Productivity = list
	case DocOrders:
		var list []models.Order
		if err := unmarshalList(raw, &list); err != nil {
			return err
		}
		for i := range list {
			if list[i].Notes == nil {
				list[i].Notes = []models.OrderNote{}
			}
		}
		st.Orders = list
	case DocMbak:
		var list []models.MbakTask
		if err := unmarshalList(raw, &list); err != nil {
			return err
		}
		st.MbakTasks = list
	case DocPeriod:
		var p models.Period
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		st.Period = p
	case DocSchedule:
		var sched models.ShiftSchedule
		if err := json.Unmarshal(raw, &sched); err != nil {
			return err
		}
		st.Schedule = sched
	default:
		return fmt.Errorf("dokumen tidak dikenal: %s", doc)
	}
	return nil
}

func unmarshalList[T any](raw json.RawMessage, out *[]T) error {
	var list []T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &list); err != nil {
			return err
		}
	}
	if list == nil {
		list = []T{}
	}
	*out = list
	return nil
}

func (s *Session) defaults(st *State, doc string) {
	now := s.Now()
	switch doc {
	case DocEmployees:
		st.Employees = st.Employees[:0]
		for _, emp := range s.roster.Employees {
			st.Employees = append(st.Employees, models.NewEmployee(emp.ID, emp.Name, emp.BaseSalary, emp.IsAdmin, emp.IsBackup))
		}
	case DocCalendar:
		st.Calendar = models.AttendanceCalendar{}
		st.CalendarLegacy = nil
	case DocPeriod:
		st.Period = models.Period{CurrentMonth: int(now.Month()) - 1, CurrentYear: now.Year()}
	case DocSchedule:
		st.Schedule = models.ShiftSchedule{Month: int(now.Month()) - 1, Year: now.Year(), Data: []models.ShiftScheduleDay{}}
	}
}

// DefaultState mengembalikan state awal seperti bootstrap pada store kosong.
func (s *Session) DefaultState() *State {
	st := newState()
	for _, doc := range Documents {
		s.defaults(st, doc)
	}
	for _, e := range st.Employees {
		st.Calendar.EnsureEmployee(e.ID)
	}
	return st
}

// encode dipanggil saver saat menulis; hasilnya sudah disanitasi sehingga
// sama persis dengan yang dipantulkan store.
func (s *Session) encode(doc string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.Sanitize(s.state.Payload(doc))
}

func (s *Session) noteWritten(doc string, raw json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written[doc] = sha256.Sum256(raw)
}

func (s *Session) reportFailure(doc string, err error) {
	s.logger.Printf("Gagal menyimpan %s: %v", doc, err)
	s.notifier.Notify(fmt.Sprintf("Gagal menyimpan data %s", doc), notifikasi.SeverityError)
}

func (s *Session) changed(docs []string) {
	if s.onChange != nil && len(docs) > 0 {
		s.onChange(docs)
	}
}
