package services

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/pkg/storage"
	"github.com/c14220110/absensi-dashboard/pkg/storage/memory"
)

func newService(t *testing.T) (*JadwalService, *memory.Store) {
	t.Helper()
	store := memory.New()
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	session := sinkron.New(store, config.DefaultRoster(),
		sinkron.WithClock(func() time.Time { return now }),
		sinkron.WithLocation(time.UTC),
		sinkron.WithSettleDelay(0),
		sinkron.WithSaveDelay(10*time.Millisecond),
	)
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = session.Close(context.Background()) })
	return NewJadwalService(session, nil), store
}

func calendarStatus(svc *JadwalService, empID, month, day int) string {
	var status string
	svc.Session.View(func(st *sinkron.State) {
		if rec := st.Calendar.Lookup(empID, month, day); rec != nil {
			status = rec.Status
		}
	})
	return status
}

func TestUpdateLiburRecomputesAndSyncsCalendar(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	schedule, err := svc.UpdateLibur(ctx, 3, "Robert")
	if err != nil {
		t.Fatalf("update libur: %v", err)
	}
	if len(schedule.Data) != 31 || !slices.Contains(schedule.Data[2].Malam, "Desta") {
		t.Fatalf("expected Desta covering Robert, got %+v", schedule.Data[2])
	}
	if got := calendarStatus(svc, 3, 2, 3); got != models.StatusLibur {
		t.Fatalf("expected Robert libur in calendar, got %q", got)
	}

	schedule, err = svc.UpdateLibur(ctx, 3, "Ariel")
	if err != nil {
		t.Fatalf("update libur: %v", err)
	}
	if got := calendarStatus(svc, 3, 2, 3); got != models.StatusBelum {
		t.Fatalf("expected Robert back to belum, got %q", got)
	}
	if got := calendarStatus(svc, 2, 2, 3); got != models.StatusLibur {
		t.Fatalf("expected Ariel libur, got %q", got)
	}
	day := schedule.Data[2]
	if !slices.Contains(day.Pagi, "Desta") || !slices.Contains(day.Malam, "Robert") {
		t.Fatalf("unexpected day after swap %+v", day)
	}

	doc, err := store.GetDocument(ctx, storage.Collection, sinkron.DocSchedule)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	var saved models.ShiftSchedule
	if err := json.Unmarshal(doc.Data, &saved); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if saved.Data[2].Libur != "Ariel" {
		t.Fatalf("expected schedule written immediately, got %s", doc.Data)
	}

	view := svc.Get()
	if view.Stats["Ariel"].Libur != 1 || len(view.Weeks) != 5 || view.MonthName != "Maret" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestUpdateLiburRejectsBadInput(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.UpdateLibur(ctx, 3, "Siapa"); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.UpdateLibur(ctx, 40, "Ariel"); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateLibur(ctx, 5, ""); err != nil {
		t.Fatalf("clearing leave should succeed, got %v", err)
	}
}

func TestGenerateReadsCalendarLeave(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	err := svc.Session.Run(ctx, "uji", func(st *sinkron.State) error {
		st.Calendar.Day(2, 2, 10).Status = models.StatusLibur
		return nil
	})
	if err != nil {
		t.Fatalf("seed calendar: %v", err)
	}
	schedule, err := svc.Generate(ctx)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if schedule.Data[9].Libur != "Ariel" || schedule.Data[8].Libur != models.NoLeave {
		t.Fatalf("unexpected leave column %+v %+v", schedule.Data[8], schedule.Data[9])
	}
}

func TestNavigateAcrossYear(t *testing.T) {
	svc, _ := newService(t)
	period, err := svc.Navigate(context.Background(), -3)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if period.CurrentMonth != 11 || period.CurrentYear != 2025 {
		t.Fatalf("unexpected period %+v", period)
	}
	view := svc.Get()
	if view.Schedule.Month != 11 || view.Schedule.Year != 2025 || len(view.Schedule.Data) != 31 {
		t.Fatalf("expected December schedule, got %d/%d (%d days)", view.Schedule.Month, view.Schedule.Year, len(view.Schedule.Data))
	}
	if _, err := svc.SetPeriod(context.Background(), 12, 2026); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
