package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/absensi/controllers"
)

// RegisterAbsensiRoutes mendaftarkan endpoint absensi di bawah grup /api.
// Aksi per karyawan dijaga self, yang menolak token karyawan lain.
func RegisterAbsensiRoutes(api *echo.Group, ac *controllers.AbsensiController, self echo.MiddlewareFunc) {
	absensi := api.Group("/absensi")
	absensi.GET("/shift", ac.CurrentShift)

	emp := absensi.Group("/:id", self)
	emp.POST("/checkin", ac.CheckIn)
	emp.POST("/checkout", ac.CheckOut)
	emp.POST("/break/start", ac.StartBreak)
	emp.POST("/break/end", ac.EndBreak)
	emp.POST("/izin/start", ac.StartIzin)
	emp.POST("/izin/end", ac.EndIzin)
}
