package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/tugas/services"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

type TugasController struct {
	Service *services.TugasService
}

func NewTugasController(service *services.TugasService) *TugasController {
	return &TugasController{Service: service}
}

type TaskRequest struct {
	Text     string `json:"text"`
	Reason   string `json:"reason"`
	Progress int    `json:"progress"`
	Priority string `json:"priority"`
	TargetID string `json:"targetId"`
}

type taskRef struct {
	empID  int
	taskID string
}

func parseRef(c echo.Context) (taskRef, error) {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return taskRef{}, err
	}
	return taskRef{empID: id, taskID: c.Param("taskId")}, nil
}

func bindTask(c echo.Context) (taskRef, TaskRequest, error) {
	var req TaskRequest
	ref, err := parseRef(c)
	if err != nil {
		return ref, req, err
	}
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return ref, req, apperror.Validation("Invalid request payload")
		}
	}
	return ref, req, nil
}

func (tc *TugasController) List(c echo.Context) error {
	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	active, history, err := tc.Service.List(id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Daftar tugas", map[string]interface{}{
		"workTasks":             active,
		"completedTasksHistory": history,
	})
}

func (tc *TugasController) Add(c echo.Context) error {
	ref, req, err := bindTask(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	task, err := tc.Service.AddTask(c.Request().Context(), ref.empID, req.Text)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusCreated, "Tugas ditambahkan", task)
}

func (tc *TugasController) Start(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.StartTask(c.Request().Context(), ref.empID, ref.taskID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Tugas dimulai", nil)
}

func (tc *TugasController) Pause(c echo.Context) error {
	ref, req, err := bindTask(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.PauseTask(c.Request().Context(), ref.empID, ref.taskID, req.Reason); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Tugas dijeda", nil)
}

func (tc *TugasController) Resume(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.ResumeTask(c.Request().Context(), ref.empID, ref.taskID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Tugas dilanjutkan", nil)
}

func (tc *TugasController) End(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	task, err := tc.Service.EndTask(c.Request().Context(), ref.empID, ref.taskID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Tugas selesai", task)
}

func (tc *TugasController) PauseAll(c echo.Context) error {
	ref, req, err := bindTask(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	n, err := tc.Service.PauseAll(c.Request().Context(), ref.empID, req.Reason)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Semua tugas dijeda", map[string]int{"count": n})
}

func (tc *TugasController) ResumeAll(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	n, err := tc.Service.ResumeAll(c.Request().Context(), ref.empID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Semua tugas dilanjutkan", map[string]int{"count": n})
}

func (tc *TugasController) Toggle(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	completed, err := tc.Service.ToggleCompletion(c.Request().Context(), ref.empID, ref.taskID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Status tugas diperbarui", map[string]bool{"completed": completed})
}

func (tc *TugasController) Progress(c echo.Context) error {
	ref, req, err := bindTask(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.UpdateProgress(c.Request().Context(), ref.empID, ref.taskID, req.Progress); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Progress diperbarui", nil)
}

func (tc *TugasController) Priority(c echo.Context) error {
	ref, req, err := bindTask(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.UpdatePriority(c.Request().Context(), ref.empID, ref.taskID, req.Priority); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Prioritas diperbarui", nil)
}

func (tc *TugasController) Delete(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.DeleteTask(c.Request().Context(), ref.empID, ref.taskID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Tugas dihapus", nil)
}

func (tc *TugasController) Reorder(c echo.Context) error {
	ref, req, err := bindTask(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.ReorderTask(c.Request().Context(), ref.empID, ref.taskID, req.TargetID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Tugas dipindahkan", nil)
}

func (tc *TugasController) StartBreak(c echo.Context) error {
	ref, req, err := bindTask(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.StartTaskBreak(c.Request().Context(), ref.empID, ref.taskID, req.Progress); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Break tugas dimulai", nil)
}

func (tc *TugasController) EndBreak(c echo.Context) error {
	ref, err := parseRef(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := tc.Service.EndTaskBreak(c.Request().Context(), ref.empID, ref.taskID); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Break tugas selesai", nil)
}
