package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/pkg/storage"
	"github.com/c14220110/absensi-dashboard/pkg/storage/memory"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newService(t *testing.T, clock *fixedClock) (*AbsensiService, *memory.Store, *notifikasi.Recorder) {
	t.Helper()
	store := memory.New()
	rec := &notifikasi.Recorder{}
	session := sinkron.New(store, config.DefaultRoster(),
		sinkron.WithClock(clock.Now),
		sinkron.WithLocation(time.UTC),
		sinkron.WithSettleDelay(0),
		sinkron.WithSaveDelay(10*time.Millisecond),
		sinkron.WithNotifier(rec),
	)
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = session.Close(context.Background()) })
	return NewAbsensiService(session, nil), store, rec
}

func TestServiceCheckInPersistsImmediately(t *testing.T) {
	clock := &fixedClock{now: at(0, 9, 15, 0)}
	svc, store, rec := newService(t, clock)

	res, err := svc.CheckIn(context.Background(), 2)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if res.Status != models.StatusHadir {
		t.Fatalf("expected hadir, got %+v", res)
	}

	doc, err := store.GetDocument(context.Background(), storage.Collection, sinkron.DocCalendar)
	if err != nil {
		t.Fatalf("get calendar: %v", err)
	}
	var cal map[string]map[string]map[string]models.DayRecord
	if err := json.Unmarshal(doc.Data, &cal); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if cal["2"]["2"]["2"].Status != models.StatusHadir {
		t.Fatalf("expected calendar saved without debounce, got %s", doc.Data)
	}
	if !rec.Has(notifikasi.EventNotify) {
		t.Fatalf("expected check-in notification")
	}

	_, err = svc.CheckIn(context.Background(), 2)
	if !apperror.IsGuard(err) {
		t.Fatalf("expected guard on duplicate check-in, got %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), 99); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceLateBreakPlaysTone(t *testing.T) {
	clock := &fixedClock{now: at(0, 9, 0, 0)}
	svc, _, rec := newService(t, clock)
	ctx := context.Background()
	_, _ = svc.CheckIn(ctx, 3)
	clock.now = at(0, 12, 0, 0)
	if err := svc.StartBreak(ctx, 3); err != nil {
		t.Fatalf("start break: %v", err)
	}
	clock.now = at(0, 13, 0, 0)
	if got := svc.Reminders(); len(got) != 1 || !rec.Has(notifikasi.EventBrowser) {
		t.Fatalf("expected break reminder, got %+v", got)
	}
	clock.now = at(0, 13, 20, 0)
	record, err := svc.EndBreak(ctx, 3)
	if err != nil {
		t.Fatalf("end break: %v", err)
	}
	if !record.IsLate || !rec.Has(notifikasi.EventTone) {
		t.Fatalf("expected late return with tone, got %+v", record)
	}
}

func TestServiceSweepMarksNoShow(t *testing.T) {
	clock := &fixedClock{now: at(0, 12, 30, 0)}
	svc, _, _ := newService(t, clock)
	marked, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(marked) != 3 {
		t.Fatalf("expected whole roster marked, got %v", marked)
	}
	var status string
	svc.Session.View(func(st *sinkron.State) {
		e, _ := st.Employee(2)
		status = e.Status
	})
	if status != models.StatusLibur {
		t.Fatalf("expected libur, got %s", status)
	}
}

func TestCurrentShift(t *testing.T) {
	clock := &fixedClock{now: at(1, 0, 30, 0)}
	svc, _, _ := newService(t, clock)
	info := svc.CurrentShift()
	if info.Shift != models.ShiftMalam || info.Date != "2026-03-02" || info.Name != "Shift Malam" {
		t.Fatalf("unexpected shift info %+v", info)
	}
}
