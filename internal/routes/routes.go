package routes

import (
	"github.com/labstack/echo/v4"

	absensiControllers "github.com/c14220110/absensi-dashboard/internal/absensi/controllers"
	absensiRoutes "github.com/c14220110/absensi-dashboard/internal/absensi/routes"
	absensiServices "github.com/c14220110/absensi-dashboard/internal/absensi/services"
	"github.com/c14220110/absensi-dashboard/internal/common/middlewares"
	jadwalControllers "github.com/c14220110/absensi-dashboard/internal/jadwal/controllers"
	jadwalRoutes "github.com/c14220110/absensi-dashboard/internal/jadwal/routes"
	jadwalServices "github.com/c14220110/absensi-dashboard/internal/jadwal/services"
	manajemenControllers "github.com/c14220110/absensi-dashboard/internal/manajemen/controllers"
	manajemenRoutes "github.com/c14220110/absensi-dashboard/internal/manajemen/routes"
	manajemenServices "github.com/c14220110/absensi-dashboard/internal/manajemen/services"
	papanControllers "github.com/c14220110/absensi-dashboard/internal/papan/controllers"
	papanRoutes "github.com/c14220110/absensi-dashboard/internal/papan/routes"
	papanServices "github.com/c14220110/absensi-dashboard/internal/papan/services"
	tugasControllers "github.com/c14220110/absensi-dashboard/internal/tugas/controllers"
	tugasRoutes "github.com/c14220110/absensi-dashboard/internal/tugas/routes"
	tugasServices "github.com/c14220110/absensi-dashboard/internal/tugas/services"
	"github.com/c14220110/absensi-dashboard/ws"
)

// Services berisi service yang sudah terhubung ke session yang sama.
type Services struct {
	Absensi    *absensiServices.AbsensiService
	Tugas      *tugasServices.TugasService
	Jadwal     *jadwalServices.JadwalService
	Management *manajemenServices.ManagementService
	Papan      *papanServices.PapanService
}

// Init menginisialisasi semua routes menggunakan Echo framework
func Init(e *echo.Echo, svc Services, hub *ws.Hub) {
	// Inisialisasi controller dengan service yang sesuai
	absensiController := absensiControllers.NewAbsensiController(svc.Absensi)
	tugasController := tugasControllers.NewTugasController(svc.Tugas)
	jadwalController := jadwalControllers.NewJadwalController(svc.Jadwal)
	managementController := manajemenControllers.NewManagementController(svc.Management)
	karyawanController := manajemenControllers.NewKaryawanController(svc.Management)
	dashboardController := manajemenControllers.NewDashboardController(svc.Management)
	papanController := papanControllers.NewPapanController(svc.Papan)

	// Login tidak pakai JWT
	public := e.Group("/api")
	manajemenRoutes.RegisterLoginRoutes(public, managementController)

	api := e.Group("/api", middlewares.JWTMiddleware())
	admin := middlewares.RequireAdmin()
	self := middlewares.RequireSelfOrAdmin("id")

	absensiRoutes.RegisterAbsensiRoutes(api, absensiController, self)
	tugasRoutes.RegisterTugasRoutes(api, tugasController, self)
	jadwalRoutes.RegisterJadwalRoutes(api, jadwalController, admin)
	manajemenRoutes.RegisterManagementRoutes(api, managementController, karyawanController, dashboardController, admin)
	papanRoutes.RegisterPapanRoutes(api, papanController, admin)

	// Browser mengirim token lewat ?token= karena websocket tidak bisa
	// menambah header Authorization.
	api.GET("/ws", ws.ServeWS(hub))
}
