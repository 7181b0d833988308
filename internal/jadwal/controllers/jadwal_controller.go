package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/jadwal/services"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

type JadwalController struct {
	Service *services.JadwalService
}

func NewJadwalController(service *services.JadwalService) *JadwalController {
	return &JadwalController{Service: service}
}

type LiburRequest struct {
	Day  int    `json:"day"`
	Name string `json:"name"`
}

// PeriodRequest memakai bulan 0-11. Bila Delta diisi, periode digeser relatif
// terhadap bulan aktif dan Month/Year diabaikan.
type PeriodRequest struct {
	Month *int `json:"month"`
	Year  *int `json:"year"`
	Delta int  `json:"delta"`
}

func (jc *JadwalController) GetSchedule(c echo.Context) error {
	return utils.Respond(c, http.StatusOK, "Jadwal shift", jc.Service.Get())
}

func (jc *JadwalController) Generate(c echo.Context) error {
	schedule, err := jc.Service.Generate(c.Request().Context())
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Jadwal berhasil disusun ulang", schedule)
}

func (jc *JadwalController) UpdateLibur(c echo.Context) error {
	var req LiburRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	schedule, err := jc.Service.UpdateLibur(c.Request().Context(), req.Day, req.Name)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Libur berhasil diperbarui", schedule)
}

func (jc *JadwalController) SetPeriod(c echo.Context) error {
	var req PeriodRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	ctx := c.Request().Context()
	if req.Delta != 0 {
		period, err := jc.Service.Navigate(ctx, req.Delta)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.Respond(c, http.StatusOK, "Periode diperbarui", period)
	}
	if req.Month == nil || req.Year == nil {
		return utils.Respond(c, http.StatusBadRequest, "Bulan dan tahun wajib diisi", nil)
	}
	period, err := jc.Service.SetPeriod(ctx, *req.Month, *req.Year)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Periode diperbarui", period)
}
