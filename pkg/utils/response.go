package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
)

// Respond menulis envelope standar {status, message, data}.
func Respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// RespondError memetakan error service ke status HTTP.
func RespondError(c echo.Context, err error) error {
	return Respond(c, apperror.HTTPStatus(err), err.Error(), nil)
}

// ParamInt membaca parameter path numerik.
func ParamInt(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperror.Validation("parameter %s tidak valid", name)
	}
	return v, nil
}
