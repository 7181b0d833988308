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
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/internal/tugas/services"
	"github.com/c14220110/absensi-dashboard/pkg/storage/memory"
)

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
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
	tc := NewTugasController(services.NewTugasService(session, nil))
	api := e.Group("/api")
	tugas := api.Group("/tugas/:id")
	tugas.POST("", tc.Add)
	tugas.POST("/pause-all", tc.PauseAll)
	tugas.POST("/:taskId/start", tc.Start)
	tugas.PUT("/:taskId/progress", tc.Progress)
	return e
}

func call(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTugasEndpoints(t *testing.T) {
	e := newEcho(t)

	rec := call(e, http.MethodPost, "/api/tugas/2", `{"text":"Restock"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data models.Task `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rec := call(e, http.MethodPost, "/api/tugas/2/pause-all", `{"reason":"rapat"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 with nothing running, got %d", rec.Code)
	}
	if rec := call(e, http.MethodPost, "/api/tugas/2/"+body.Data.ID+"/start", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := call(e, http.MethodPost, "/api/tugas/2/pause-all", `{"reason":"rapat"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := call(e, http.MethodPut, "/api/tugas/2/"+body.Data.ID+"/progress", `{"progress":101}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := call(e, http.MethodPost, "/api/tugas/2", `{"text":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on malformed body, got %d", rec.Code)
	}
	if rec := call(e, http.MethodPut, "/api/tugas/2/nope/progress", `{"progress":10}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
