package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/manajemen/services"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// KaryawanController menangani CRUD karyawan dan kalender dari panel admin.
type KaryawanController struct {
	Service *services.ManagementService
}

func NewKaryawanController(service *services.ManagementService) *KaryawanController {
	return &KaryawanController{Service: service}
}

func (kc *KaryawanController) List(c echo.Context) error {
	return utils.Respond(c, http.StatusOK, "Daftar karyawan", kc.Service.ListKaryawan())
}

func (kc *KaryawanController) Add(c echo.Context) error {
	var req services.KaryawanInput
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	emp, err := kc.Service.AddKaryawan(c.Request().Context(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusCreated, "Karyawan ditambahkan", emp)
}

func (kc *KaryawanController) Update(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req services.KaryawanInput
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	emp, err := kc.Service.UpdateKaryawan(c.Request().Context(), id, req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Karyawan diperbarui", emp)
}

func (kc *KaryawanController) Delete(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := kc.Service.DeleteKaryawan(c.Request().Context(), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Karyawan dihapus", nil)
}

func (kc *KaryawanController) Reset(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := kc.Service.ResetKaryawan(c.Request().Context(), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Status karyawan direset", nil)
}

func (kc *KaryawanController) EditKalender(c echo.Context) error {
	var req services.KalenderInput
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, apperror.Validation("Invalid request payload"))
	}
	rec, err := kc.Service.EditKalender(c.Request().Context(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Kalender diperbarui", rec)
}

func (kc *KaryawanController) FixLembur(c echo.Context) error {
	fixed, err := kc.Service.FixLembur(c.Request().Context())
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Data lembur diperbaiki", map[string]int{"fixed": fixed})
}

// Statistik membaca ?month=0-11, default bulan periode aktif.
func (kc *KaryawanController) Statistik(c echo.Context) error {
	month := kc.Service.Session.Snapshot().Period.CurrentMonth
	if raw := c.QueryParam("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			return utils.RespondError(c, apperror.Validation("parameter month tidak valid"))
		}
		month = m
	}
	stats, err := kc.Service.Statistik(month)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Statistik bulanan", stats)
}
