package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

func newServer() *echo.Echo {
	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, ClaimsFrom(c).Nama) }
	api := e.Group("/api", JWTMiddleware())
	api.GET("/me", ok)
	api.GET("/admin", ok, RequireAdmin())
	api.GET("/karyawan/:id", ok, RequireSelfOrAdmin("id"))
	return e
}

func token(t *testing.T, id int, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(id, "Ariel", role, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func get(e *echo.Echo, path, auth string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestJWTMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia-uji")
	e := newServer()
	employee := token(t, 2, utils.RoleKaryawan)

	cases := []struct {
		name string
		path string
		auth string
		want int
	}{
		{"missing header", "/api/me", "", http.StatusUnauthorized},
		{"bad scheme", "/api/me", "Token " + employee, http.StatusUnauthorized},
		{"garbage token", "/api/me", "Bearer abc", http.StatusUnauthorized},
		{"valid", "/api/me", "Bearer " + employee, http.StatusOK},
		{"query token", "/api/me?token=" + employee, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := get(e, tc.path, tc.auth); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRoleGuards(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia-uji")
	e := newServer()
	employee := "Bearer " + token(t, 2, utils.RoleKaryawan)
	admin := "Bearer " + token(t, 1, utils.RoleAdmin)

	if got := get(e, "/api/admin", employee); got != http.StatusForbidden {
		t.Fatalf("employee on admin route: got %d", got)
	}
	if got := get(e, "/api/admin", admin); got != http.StatusOK {
		t.Fatalf("admin on admin route: got %d", got)
	}
	if got := get(e, "/api/karyawan/2", employee); got != http.StatusOK {
		t.Fatalf("employee on own id: got %d", got)
	}
	if got := get(e, "/api/karyawan/3", employee); got != http.StatusForbidden {
		t.Fatalf("employee on other id: got %d", got)
	}
	if got := get(e, "/api/karyawan/3", admin); got != http.StatusOK {
		t.Fatalf("admin on other id: got %d", got)
	}
}
