package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/internal/common/middlewares"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/papan/services"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/pkg/storage/memory"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "rahasia-uji")
	now := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	session := sinkron.New(memory.New(), config.DefaultRoster(),
		sinkron.WithClock(func() time.Time { return now }),
		sinkron.WithLocation(time.UTC),
		sinkron.WithSettleDelay(0),
	)
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = session.Close(context.Background()) })

	e := echo.New()
	api := e.Group("/api", middlewares.JWTMiddleware())
	pc := NewPapanController(services.NewPapanService(session, nil))
	admin := middlewares.RequireAdmin()
	api.GET("/orders", pc.ListOrders)
	api.POST("/orders", pc.AddOrder)
	api.PUT("/orders/:orderId/status", pc.UpdateOrderStatus)
	api.POST("/orders/:orderId/notes", pc.AddOrderNote)
	api.DELETE("/orders/:orderId", pc.DeleteOrder)
	api.GET("/attentions", pc.ListAttentions)
	api.POST("/attentions", pc.AddAttention, admin)
	api.DELETE("/attentions/:attId", pc.DeleteAttention, admin)
	api.POST("/attentions/:attId/read", pc.ToggleRead)
	api.POST("/mbak", pc.AddMbak)
	api.POST("/mbak/:mbakId/toggle", pc.ToggleMbak)
	return e
}

func bearer(t *testing.T, id int, name, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(id, name, role, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + tok
}

func call(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, auth)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	body := struct {
		Data interface{} `json:"data"`
	}{Data: v}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestOrderEndpoints(t *testing.T) {
	e := newEcho(t)
	ariel := bearer(t, 2, "Ariel", utils.RoleKaryawan)

	rec := call(e, http.MethodPost, "/api/orders", ariel, `{"username":"tokobudi","platform":"Shopee","description":"Kaos hitam XL","quantity":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var order models.Order
	decode(t, rec, &order)
	if order.CreatedBy != "Ariel" || order.Quantity != 2 {
		t.Fatalf("unexpected order %+v", order)
	}

	if rec := call(e, http.MethodPost, "/api/orders", ariel, `{"username":"x","description":"Kaos"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := call(e, http.MethodPut, "/api/orders/"+order.ID+"/status", ariel, `{"status":"process","note":"mulai"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := call(e, http.MethodPost, "/api/orders/"+order.ID+"/notes", ariel, `{"text":"kirim sore"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = call(e, http.MethodGet, "/api/orders?status=process", ariel, "")
	var list struct {
		Orders []models.Order      `json:"orders"`
		Stats  services.OrderStats `json:"stats"`
	}
	decode(t, rec, &list)
	if len(list.Orders) != 1 || len(list.Orders[0].Notes) != 2 || list.Stats.Process != 1 {
		t.Fatalf("unexpected list %+v", list)
	}

	if rec := call(e, http.MethodDelete, "/api/orders/"+order.ID, ariel, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := call(e, http.MethodDelete, "/api/orders/"+order.ID, ariel, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := call(e, http.MethodGet, "/api/orders", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAttentionEndpoints(t *testing.T) {
	e := newEcho(t)
	admin := bearer(t, 1, "Desta", utils.RoleAdmin)
	ariel := bearer(t, 2, "Ariel", utils.RoleKaryawan)

	if rec := call(e, http.MethodPost, "/api/attentions", ariel, `{"text":"Rapat"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d", rec.Code)
	}
	rec := call(e, http.MethodPost, "/api/attentions", admin, `{"text":"Rapat jam 3"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var a models.Attention
	decode(t, rec, &a)

	// Karyawan selalu memakai id dari token.
	rec = call(e, http.MethodPost, "/api/attentions/"+a.ID+"/read", ariel, `{"employeeId":3}`)
	var read struct {
		EmployeeID int  `json:"employeeId"`
		Read       bool `json:"read"`
	}
	decode(t, rec, &read)
	if rec.Code != http.StatusOK || read.EmployeeID != 2 || !read.Read {
		t.Fatalf("unexpected toggle %d %+v", rec.Code, read)
	}

	rec = call(e, http.MethodPost, "/api/attentions/"+a.ID+"/read", admin, `{"employeeId":3}`)
	decode(t, rec, &read)
	if read.EmployeeID != 3 {
		t.Fatalf("admin may mark on behalf of others, got %+v", read)
	}

	var list []models.Attention
	decode(t, call(e, http.MethodGet, "/api/attentions", ariel, ""), &list)
	if len(list) != 1 || len(list[0].ReadBy) != 2 || list[0].Completed {
		t.Fatalf("unexpected attentions %+v", list)
	}
	if rec := call(e, http.MethodDelete, "/api/attentions/"+a.ID, admin, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMbakEndpoints(t *testing.T) {
	e := newEcho(t)
	ariel := bearer(t, 2, "Ariel", utils.RoleKaryawan)

	rec := call(e, http.MethodPost, "/api/mbak", ariel, `{"task":"Sapu gudang"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var task models.MbakTask
	decode(t, rec, &task)
	decode(t, call(e, http.MethodPost, "/api/mbak/"+task.ID+"/toggle", ariel, ""), &task)
	if !task.Completed {
		t.Fatalf("expected completed task")
	}
	if rec := call(e, http.MethodPost, "/api/mbak", ariel, `{"task":" "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
