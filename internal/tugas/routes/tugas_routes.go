package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/tugas/controllers"
)

func RegisterTugasRoutes(api *echo.Group, tc *controllers.TugasController, self echo.MiddlewareFunc) {
	tugas := api.Group("/tugas/:id", self)
	tugas.GET("", tc.List)
	tugas.POST("", tc.Add)
	tugas.POST("/pause-all", tc.PauseAll)
	tugas.POST("/resume-all", tc.ResumeAll)
	tugas.POST("/:taskId/start", tc.Start)
	tugas.POST("/:taskId/pause", tc.Pause)
	tugas.POST("/:taskId/resume", tc.Resume)
	tugas.POST("/:taskId/end", tc.End)
	tugas.POST("/:taskId/toggle", tc.Toggle)
	tugas.POST("/:taskId/break/start", tc.StartBreak)
	tugas.POST("/:taskId/break/end", tc.EndBreak)
	tugas.PUT("/:taskId/progress", tc.Progress)
	tugas.PUT("/:taskId/priority", tc.Priority)
	tugas.PUT("/:taskId/reorder", tc.Reorder)
	tugas.DELETE("/:taskId", tc.Delete)
}
