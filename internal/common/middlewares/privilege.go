package middlewares

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// RequireAdmin hanya meneruskan token dengan role admin.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return unauthorized(c, "Missing or invalid JWT claims")
			}
			if !claims.IsAdmin() {
				return utils.Respond(c, http.StatusForbidden, "Anda tidak memiliki hak akses", nil)
			}
			return next(c)
		}
	}
}

// RequireSelfOrAdmin membatasi token karyawan ke aksi atas id miliknya
// sendiri, dibaca dari parameter path param.
func RequireSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return unauthorized(c, "Missing or invalid JWT claims")
			}
			if claims.IsAdmin() {
				return next(c)
			}
			id, err := strconv.Atoi(c.Param(param))
			if err != nil || id != claims.IDKaryawan {
				return utils.Respond(c, http.StatusForbidden, "Anda tidak memiliki hak akses", nil)
			}
			return next(c)
		}
	}
}
