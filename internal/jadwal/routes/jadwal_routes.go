package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/jadwal/controllers"
)

func RegisterJadwalRoutes(api *echo.Group, jc *controllers.JadwalController, admin echo.MiddlewareFunc) {
	api.GET("/jadwal", jc.GetSchedule)
	api.PUT("/periode", jc.SetPeriod)
	api.POST("/jadwal/generate", jc.Generate, admin)
	api.PUT("/jadwal/libur", jc.UpdateLibur, admin)
}
