package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/absensi/services"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

type AbsensiController struct {
	Service *services.AbsensiService
}

func NewAbsensiController(service *services.AbsensiService) *AbsensiController {
	return &AbsensiController{Service: service}
}

type IzinRequest struct {
	Reason string `json:"reason"`
}

func (ac *AbsensiController) CurrentShift(c echo.Context) error {
	return utils.Respond(c, http.StatusOK, "Shift saat ini", ac.Service.CurrentShift())
}

func (ac *AbsensiController) CheckIn(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	res, err := ac.Service.CheckIn(c.Request().Context(), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Check-in berhasil", res)
}

func (ac *AbsensiController) CheckOut(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ac.Service.CheckOut(c.Request().Context(), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Check-out berhasil", nil)
}

func (ac *AbsensiController) StartBreak(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ac.Service.StartBreak(c.Request().Context(), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Istirahat dimulai", nil)
}

func (ac *AbsensiController) EndBreak(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	record, err := ac.Service.EndBreak(c.Request().Context(), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Istirahat selesai", record)
}

func (ac *AbsensiController) StartIzin(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	var req IzinRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := ac.Service.StartIzin(c.Request().Context(), id, req.Reason); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Izin dimulai", nil)
}

func (ac *AbsensiController) EndIzin(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	record, err := ac.Service.EndIzin(c.Request().Context(), id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Izin selesai", record)
}
