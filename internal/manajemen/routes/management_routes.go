package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/manajemen/controllers"
)

// RegisterLoginRoutes tidak dilindungi middleware JWT.
func RegisterLoginRoutes(public *echo.Group, mc *controllers.ManagementController) {
	public.POST("/login", mc.Login)
}

func RegisterManagementRoutes(api *echo.Group, mc *controllers.ManagementController, kc *controllers.KaryawanController, dc *controllers.DashboardController, admin echo.MiddlewareFunc) {
	api.GET("/state", mc.State)
	api.GET("/leaderboard", dc.Leaderboard)
	api.GET("/karyawan", kc.List)

	management := api.Group("/admin", admin)
	management.GET("/logbook", mc.Logbook)
	management.GET("/statistik", kc.Statistik)
	management.GET("/export", mc.Export)
	management.POST("/import", mc.Import)
	management.POST("/clear", mc.Clear)

	management.POST("/karyawan", kc.Add)
	management.PUT("/karyawan/:id", kc.Update)
	management.DELETE("/karyawan/:id", kc.Delete)
	management.POST("/karyawan/:id/reset", kc.Reset)
	management.PUT("/kalender", kc.EditKalender)
	management.POST("/kalender/fix-lembur", kc.FixLembur)
}
