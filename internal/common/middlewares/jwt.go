package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

type contextKey string

const ContextKeyClaims contextKey = "claims"

func unauthorized(c echo.Context, message string) error {
	return utils.Respond(c, http.StatusUnauthorized, message, nil)
}

// JWTMiddleware memvalidasi token Bearer. Koneksi websocket tidak bisa
// mengirim header sehingga token juga dibaca dari query ?token=.
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := c.QueryParam("token")
			if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					return unauthorized(c, "Invalid authorization header")
				}
				tokenStr = parts[1]
			}
			if tokenStr == "" {
				return unauthorized(c, "Authorization header missing")
			}

			claims, err := utils.ValidateJWTToken(tokenStr)
			if err != nil {
				return unauthorized(c, "Invalid token: "+err.Error())
			}
			c.Set(string(ContextKeyClaims), claims)
			return next(c)
		}
	}
}

// ClaimsFrom mengambil klaim yang disimpan JWTMiddleware, nil bila tidak ada.
func ClaimsFrom(c echo.Context) *utils.Claims {
	claims, _ := c.Get(string(ContextKeyClaims)).(*utils.Claims)
	return claims
}
