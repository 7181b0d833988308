package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/c14220110/absensi-dashboard/config"
	absensiServices "github.com/c14220110/absensi-dashboard/internal/absensi/services"
	"github.com/c14220110/absensi-dashboard/internal/common/logbook"
	"github.com/c14220110/absensi-dashboard/internal/common/notifikasi"
	jadwalServices "github.com/c14220110/absensi-dashboard/internal/jadwal/services"
	"github.com/c14220110/absensi-dashboard/internal/jobs"
	manajemenServices "github.com/c14220110/absensi-dashboard/internal/manajemen/services"
	papanServices "github.com/c14220110/absensi-dashboard/internal/papan/services"
	"github.com/c14220110/absensi-dashboard/internal/routes"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	tugasServices "github.com/c14220110/absensi-dashboard/internal/tugas/services"
	"github.com/c14220110/absensi-dashboard/pkg/storage"
	"github.com/c14220110/absensi-dashboard/pkg/storage/firestore"
	"github.com/c14220110/absensi-dashboard/pkg/storage/mariadb"
	"github.com/c14220110/absensi-dashboard/pkg/storage/memory"
	"github.com/c14220110/absensi-dashboard/ws"
)

// EventState dikirim ke browser setiap kali dokumen lokal berubah.
const EventState = "state"

// openStore memilih document store sesuai STORE_DRIVER. Fungsi close yang
// dikembalikan menghentikan polling store.
func openStore(ctx context.Context, cfg *config.Config) (storage.Gateway, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMariaDB:
		db := mariadb.Connect()
		store := mariadb.NewDocumentStore(db,
			mariadb.WithPollInterval(cfg.StorePollInterval),
			mariadb.WithLogger(log.Default()),
		)
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, func() {
			store.Close()
			_ = db.Close()
		}, nil
	case config.StoreFirestore:
		srv, httpc, err := firestore.NewService(ctx, cfg.FirestoreCredentials)
		if err != nil {
			return nil, nil, err
		}
		store := firestore.New(srv, cfg.FirestoreProject, cfg.FirestoreDatabase,
			firestore.WithHTTPClient(httpc),
			firestore.WithPollInterval(cfg.StorePollInterval),
			firestore.WithLogger(log.Default()),
		)
		return store, store.Close, nil
	}
	log.Println("Warning: memakai store memori, data hilang saat server berhenti.")
	return memory.New(), func() {}, nil
}

func main() {
	cfg := config.LoadConfig()
	roster, err := config.LoadRoster(cfg.RosterFile)
	if err != nil {
		log.Fatalf("Roster tidak valid: %v", err)
	}
	lb, err := logbook.New(cfg.LogbookPath)
	if err != nil {
		log.Fatalf("Gagal membuka logbook %s: %v", cfg.LogbookPath, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Gagal membuka store %s: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	hub := ws.HubInstance
	session := sinkron.New(store, roster,
		sinkron.WithLocation(cfg.Location()),
		sinkron.WithNotifier(notifikasi.NewHubNotifier(hub)),
		sinkron.WithChangeHook(func(docs []string) {
			hub.Publish(EventState, docs)
		}),
	)
	if err := session.Load(ctx); err != nil {
		log.Fatalf("Gagal memuat data dashboard: %v", err)
	}

	// Inisialisasi service, semuanya berbagi session yang sama
	svc := routes.Services{
		Absensi:    absensiServices.NewAbsensiService(session, lb),
		Tugas:      tugasServices.NewTugasService(session, lb),
		Jadwal:     jadwalServices.NewJadwalService(session, lb),
		Management: manajemenServices.NewManagementService(session, lb, cfg.AdminPasswordHash),
		Papan:      papanServices.NewPapanService(session, lb),
	}

	runner := &jobs.Runner{
		Absensi:        svc.Absensi,
		Tugas:          svc.Tugas,
		Papan:          svc.Papan,
		Publish:        hub.Publish,
		Interval:       roster.Timings.SweepInterval,
		BackupInterval: roster.Timings.OrderBackup,
	}
	runner.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	routes.Init(e, svc, hub)

	go func() {
		log.Printf("Server berjalan pada port %s (store: %s)...", cfg.Port, cfg.StoreDriver)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server berhenti: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Mematikan server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Gagal mematikan server: %v", err)
	}
	runner.Wait()
	if err := session.Close(shutdownCtx); err != nil {
		log.Printf("Gagal menyimpan perubahan terakhir: %v", err)
	}
	lb.Success("sistem", "server dimatikan")
}
