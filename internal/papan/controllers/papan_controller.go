package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/middlewares"
	"github.com/c14220110/absensi-dashboard/internal/papan/services"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

type PapanController struct {
	Service *services.PapanService
}

func NewPapanController(service *services.PapanService) *PapanController {
	return &PapanController{Service: service}
}

type StatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type NoteRequest struct {
	Text string `json:"text"`
}

type AttentionRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

type ReadRequest struct {
	EmployeeID int `json:"employeeId"`
}

type MbakRequest struct {
	Task string `json:"task"`
}

func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return apperror.Validation("Invalid request payload")
	}
	return nil
}

func actor(c echo.Context) string {
	if claims := middlewares.ClaimsFrom(c); claims != nil {
		return claims.Nama
	}
	return ""
}

func (pc *PapanController) ListOrders(c echo.Context) error {
	orders, stats := pc.Service.Orders(services.OrderFilter{
		Status:   c.QueryParam("status"),
		Platform: c.QueryParam("platform"),
		Search:   c.QueryParam("search"),
	})
	return utils.Respond(c, http.StatusOK, "Daftar order", map[string]interface{}{
		"orders": orders,
		"stats":  stats,
	})
}

func (pc *PapanController) AddOrder(c echo.Context) error {
	var req services.OrderInput
	if err := bind(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	order, err := pc.Service.AddOrder(c.Request().Context(), req, actor(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusCreated, "Order ditambahkan", order)
}

func (pc *PapanController) UpdateOrder(c echo.Context) error {
	var req services.OrderInput
	if err := bind(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	order, err := pc.Service.UpdateOrder(c.Request().Context(), c.Param("orderId"), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Order diperbarui", order)
}

func (pc *PapanController) UpdateOrderStatus(c echo.Context) error {
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	order, err := pc.Service.UpdateOrderStatus(c.Request().Context(), c.Param("orderId"), req.Status, req.Note, actor(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Status order diperbarui", order)
}

func (pc *PapanController) AddOrderNote(c echo.Context) error {
	var req NoteRequest
	if err := bind(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	note, err := pc.Service.AddOrderNote(c.Request().Context(), c.Param("orderId"), req.Text, actor(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusCreated, "Catatan ditambahkan", note)
}

func (pc *PapanController) DeleteOrder(c echo.Context) error {
	if err := pc.Service.DeleteOrder(c.Request().Context(), c.Param("orderId")); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Order dihapus", nil)
}

func (pc *PapanController) ListAttentions(c echo.Context) error {
	return utils.Respond(c, http.StatusOK, "Daftar pengumuman", pc.Service.Attentions())
}

func (pc *PapanController) AddAttention(c echo.Context) error {
	var req AttentionRequest
	if err := bind(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	a, err := pc.Service.AddAttention(c.Request().Context(), req.Text, req.Image)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusCreated, "Pengumuman ditambahkan", a)
}

func (pc *PapanController) UpdateAttention(c echo.Context) error {
	var req AttentionRequest
	if err := bind(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	a, err := pc.Service.UpdateAttention(c.Request().Context(), c.Param("attId"), req.Text, req.Image)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Pengumuman diperbarui", a)
}

func (pc *PapanController) DeleteAttention(c echo.Context) error {
	if err := pc.Service.DeleteAttention(c.Request().Context(), c.Param("attId")); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Pengumuman dihapus", nil)
}

// ToggleRead memakai id karyawan dari token. Admin boleh menandai atas nama
// karyawan lain lewat employeeId.
func (pc *PapanController) ToggleRead(c echo.Context) error {
	var req ReadRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return utils.RespondError(c, err)
		}
	}
	empID := req.EmployeeID
	if claims := middlewares.ClaimsFrom(c); claims != nil && (!claims.IsAdmin() || empID == 0) {
		empID = claims.IDKaryawan
	}
	if empID <= 0 {
		return utils.RespondError(c, apperror.Validation("employeeId harus diisi"))
	}
	read, err := pc.Service.ToggleAttentionRead(c.Request().Context(), c.Param("attId"), empID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Status baca diperbarui", map[string]interface{}{
		"employeeId": empID,
		"read":       read,
	})
}

func (pc *PapanController) ListMbak(c echo.Context) error {
	return utils.Respond(c, http.StatusOK, "Daftar task mbak", pc.Service.MbakTasks())
}

func (pc *PapanController) AddMbak(c echo.Context) error {
	var req MbakRequest
	if err := bind(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	task, err := pc.Service.AddMbak(c.Request().Context(), req.Task)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusCreated, "Task mbak ditambahkan", task)
}

func (pc *PapanController) ToggleMbak(c echo.Context) error {
	task, err := pc.Service.ToggleMbak(c.Request().Context(), c.Param("mbakId"))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Task mbak diperbarui", task)
}

func (pc *PapanController) DeleteMbak(c echo.Context) error {
	if err := pc.Service.DeleteMbak(c.Request().Context(), c.Param("mbakId")); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Task mbak dihapus", nil)
}
