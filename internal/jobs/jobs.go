package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	absensiServices "github.com/c14220110/absensi-dashboard/internal/absensi/services"
	papanServices "github.com/c14220110/absensi-dashboard/internal/papan/services"
	tugasServices "github.com/c14220110/absensi-dashboard/internal/tugas/services"
)

// EventElapsed dikirim ke browser tiap menit berisi durasi istirahat/izin
// yang sedang berjalan.
const EventElapsed = "elapsed"

// Runner menjalankan pekerjaan berkala dashboard. Publish boleh nil.
type Runner struct {
	Absensi *absensiServices.AbsensiService
	Tugas   *tugasServices.TugasService
	Papan   *papanServices.PapanService
	Publish func(eventType string, data interface{})

	Interval       time.Duration
	BackupInterval time.Duration

	wg sync.WaitGroup
}

// Start menjalankan dua ticker sampai ctx dibatalkan.
func (r *Runner) Start(ctx context.Context) {
	r.loop(ctx, r.Interval, time.Minute, r.Tick)
	r.loop(ctx, r.BackupInterval, 5*time.Minute, r.Backup)
}

// Wait menunggu semua ticker berhenti.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) loop(ctx context.Context, every, fallback time.Duration, fn func(context.Context)) {
	if every <= 0 {
		every = fallback
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}

// Tick menjalankan sweep absen, pengingat istirahat dan peringatan tugas.
func (r *Runner) Tick(ctx context.Context) {
	if r.Absensi != nil {
		if _, err := r.Absensi.Sweep(ctx); err != nil {
			log.Printf("Job sweep gagal: %v", err)
		}
		elapsed := r.Absensi.Reminders()
		if r.Publish != nil {
			r.Publish(EventElapsed, elapsed)
		}
	}
	if r.Tugas != nil {
		r.Tugas.Nag()
	}
}

func (r *Runner) Backup(ctx context.Context) {
	if r.Papan == nil {
		return
	}
	if err := r.Papan.BackupOrders(ctx); err != nil {
		log.Printf("Job backup order gagal: %v", err)
	}
}
