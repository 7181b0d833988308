package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/c14220110/absensi-dashboard/config"
	absensiServices "github.com/c14220110/absensi-dashboard/internal/absensi/services"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	papanServices "github.com/c14220110/absensi-dashboard/internal/papan/services"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	tugasServices "github.com/c14220110/absensi-dashboard/internal/tugas/services"
	"github.com/c14220110/absensi-dashboard/pkg/storage"
	"github.com/c14220110/absensi-dashboard/pkg/storage/memory"
)

func newRunner(t *testing.T, rec *notifikasi.Recorder) *Runner {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	ariel := models.NewEmployee(2, "Ariel", 7000000, false, false)
	ariel.CheckedIn = true
	ariel.Status = models.StatusHadir
	ariel.BreakTime = "11:00"
	ariel.WorkTasks = []models.Task{{ID: "t1", Text: "Restock", StartTime: "10:00:00"}}
	_ = store.SetDocument(ctx, storage.Collection, sinkron.DocEmployees, []models.Employee{ariel})

	now := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	session := sinkron.New(store, config.DefaultRoster(),
		sinkron.WithClock(func() time.Time { return now }),
		sinkron.WithLocation(time.UTC),
		sinkron.WithSettleDelay(0),
		sinkron.WithNotifier(rec),
	)
	if err := session.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = session.Close(context.Background()) })
	return &Runner{
		Absensi: absensiServices.NewAbsensiService(session, nil),
		Tugas:   tugasServices.NewTugasService(session, nil),
		Papan:   papanServices.NewPapanService(session, nil),
	}
}

func TestTickSendsRemindersAndElapsed(t *testing.T) {
	rec := &notifikasi.Recorder{}
	r := newRunner(t, rec)
	var published []absensiServices.Elapsed
	r.Publish = func(eventType string, data interface{}) {
		if eventType == EventElapsed {
			published = data.([]absensiServices.Elapsed)
		}
	}

	r.Tick(context.Background())

	if len(published) != 1 || published[0].EmployeeID != 2 || published[0].Minutes != 60 {
		t.Fatalf("unexpected elapsed %+v", published)
	}
	var browser, nag bool
	for _, m := range rec.Messages() {
		switch {
		case m.Kind == notifikasi.EventBrowser:
			browser = true
		case m.Kind == notifikasi.EventNotify && m.Severity == notifikasi.SeverityWarning:
			nag = true
		}
	}
	if !browser || !nag {
		t.Fatalf("expected break reminder and task nag, got %+v", rec.Messages())
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	r := newRunner(t, &notifikasi.Recorder{})
	var mu sync.Mutex
	ticks := 0
	r.Publish = func(string, interface{}) {
		mu.Lock()
		ticks++
		mu.Unlock()
	}
	r.Interval = 5 * time.Millisecond
	r.BackupInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
	mu.Lock()
	defer mu.Unlock()
	if ticks == 0 {
		t.Fatal("expected at least one tick")
	}
}
