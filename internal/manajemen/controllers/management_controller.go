package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/manajemen/services"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

const maxImportBytes = 32 << 20

type ManagementController struct {
	Service *services.ManagementService
}

func NewManagementController(service *services.ManagementService) *ManagementController {
	return &ManagementController{Service: service}
}

type LoginRequest struct {
	EmployeeID int    `json:"employeeId"`
	Password   string `json:"password"`
}

func (mc *ManagementController) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if req.EmployeeID <= 0 {
		return utils.Respond(c, http.StatusBadRequest, "ID karyawan wajib diisi", nil)
	}

	res, err := mc.Service.Authenticate(req.EmployeeID, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return utils.Respond(c, http.StatusUnauthorized, err.Error(), nil)
	}
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Login berhasil", res)
}

// State mengembalikan seluruh dokumen; dipakai klien saat pertama terhubung.
func (mc *ManagementController) State(c echo.Context) error {
	return utils.Respond(c, http.StatusOK, "State saat ini", mc.Service.StateSnapshot())
}

func (mc *ManagementController) Logbook(c echo.Context) error {
	lines, _ := strconv.Atoi(c.QueryParam("lines"))
	tail, total := mc.Service.LogbookTail(lines)
	return utils.Respond(c, http.StatusOK, "Logbook", map[string]interface{}{
		"lines": tail,
		"total": total,
	})
}

func (mc *ManagementController) Export(c echo.Context) error {
	backup := mc.Service.Export()
	filename := services.BackupFilename(mc.Service.Session.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.JSONPretty(http.StatusOK, backup, "  ")
}

// Import menerima file backup sebagai body JSON atau field multipart "file".
func (mc *ManagementController) Import(c echo.Context) error {
	var reader io.Reader = c.Request().Body
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return utils.Respond(c, http.StatusBadRequest, "File backup wajib diunggah", nil)
		}
		f, err := fh.Open()
		if err != nil {
			return utils.Respond(c, http.StatusBadRequest, "File tidak bisa dibuka", nil)
		}
		defer f.Close()
		reader = f
	}
	raw, err := io.ReadAll(io.LimitReader(reader, maxImportBytes))
	if err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := mc.Service.Import(c.Request().Context(), raw); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Data berhasil di-import", nil)
}

type ClearRequest struct {
	Password string `json:"password"`
}

func (mc *ManagementController) Clear(c echo.Context) error {
	var req ClearRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondError(c, apperror.Validation("Invalid request payload"))
	}
	if err := mc.Service.ClearAll(c.Request().Context(), req.Password); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, http.StatusOK, "Semua data berhasil dihapus", nil)
}
