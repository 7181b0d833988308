package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/manajemen/services"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

type DashboardController struct {
	Service *services.ManagementService
}

func NewDashboardController(service *services.ManagementService) *DashboardController {
	return &DashboardController{Service: service}
}

// Leaderboard membaca ?period=today|week|month|total.
func (dc *DashboardController) Leaderboard(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = services.PeriodTotal
	}
	board, err := dc.Service.Leaderboard(period)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Leaderboard", map[string]interface{}{
		"period":  period,
		"entries": board,
	})
}
