package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	fsapi "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"

	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

func normalize(t *testing.T, raw []byte) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return v
}

func TestEncodeDecodeDocument(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	raw := json.RawMessage(`[{"id":2,"name":"Ariel","isCheckedIn":false,"breakTime":"","lateHours":0,` +
		`"progress":1.5,"workTasks":[],"pauseHistory":{},"shift":null}]`)
	doc, err := encodeDocument(raw, now)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if doc.Fields["data"].ArrayValue == nil {
		t.Fatalf("expected data stored as a native array")
	}
	if got := doc.Fields["lastUpdated"].StringValue; got != "2026-03-02T09:15:00.000Z" {
		t.Fatalf("expected ISO lastUpdated, got %q", got)
	}
	doc.UpdateTime = "2026-03-02T09:15:00.123456Z"

	// Sama seperti yang dikirim lalu dibaca kembali dari REST API.
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, updateTime, err := decodeDocument(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(normalize(t, decoded.Data), normalize(t, raw)) {
		t.Fatalf("expected %s, got %s (wire %s)", raw, decoded.Data, body)
	}
	if !decoded.LastUpdated.Equal(now) {
		t.Fatalf("expected lastUpdated %s, got %s", now, decoded.LastUpdated)
	}
	if updateTime != doc.UpdateTime {
		t.Fatalf("expected update time %s, got %s", doc.UpdateTime, updateTime)
	}
}

const browserDocument = `{
	"name": "projects/toko/databases/(default)/documents/attendance/employees",
	"fields": {
		"data": {"arrayValue": {"values": [{"mapValue": {"fields": {
			"id": {"integerValue": "2"},
			"name": {"stringValue": "Ariel"},
			"isCheckedIn": {"booleanValue": false},
			"breakTime": {"stringValue": ""},
			"baseSalary": {"doubleValue": 7000000},
			"workTasks": {"arrayValue": {}},
			"pauseHistory": {"mapValue": {}}
		}}}]}},
		"lastUpdated": {"stringValue": "2026-03-02T09:15:00.000Z"}
	},
	"updateTime": "2026-03-02T09:15:00.123456Z"
}`

func TestDecodeBrowserDocument(t *testing.T) {
	decoded, _, err := decodeDocument([]byte(browserDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `[{"id":2,"name":"Ariel","isCheckedIn":false,"breakTime":"","baseSalary":7000000,"workTasks":[],"pauseHistory":{}}]`
	if !reflect.DeepEqual(normalize(t, decoded.Data), normalize(t, []byte(want))) {
		t.Fatalf("expected %s, got %s", want, decoded.Data)
	}
	if decoded.LastUpdated.IsZero() {
		t.Fatalf("expected lastUpdated parsed from ISO string")
	}
}

func TestDecodeRejectsInvalidData(t *testing.T) {
	for _, body := range []string{
		`{`,
		`{"fields": {"data": {"stringValue": "bukan json"}}}`,
		`{"fields": {"data": {"integerValue": "x"}}}`,
	} {
		if _, _, err := decodeDocument([]byte(body)); err == nil {
			t.Fatalf("expected %s to be rejected", body)
		}
	}
	// Dokumen dari versi server sebelumnya: data berupa teks JSON.
	decoded, _, err := decodeDocument([]byte(`{"fields": {"data": {"stringValue": "[{\"id\":2}]"}}}`))
	if err != nil || string(decoded.Data) != `[{"id":2}]` {
		t.Fatalf("expected JSON text data to be accepted, got %s (%v)", decoded.Data, err)
	}
}

func TestGetDocumentReadsBrowserDocument(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/projects/toko/databases/(default)/documents/attendance/employees":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(browserDocument))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"code": 404, "message": "not found"}}`))
		}
	}))
	defer ts.Close()

	s := New(&fsapi.Service{}, "toko", "", WithHTTPClient(ts.Client()), WithEndpoint(ts.URL+"/v1/"))
	doc, err := s.GetDocument(context.Background(), storage.Collection, "employees")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var employees []struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		IsCheckedIn bool   `json:"isCheckedIn"`
		BreakTime   string `json:"breakTime"`
	}
	if err := json.Unmarshal(doc.Data, &employees); err != nil {
		t.Fatalf("decode employees: %v", err)
	}
	if len(employees) != 1 || employees[0].ID != 2 || employees[0].Name != "Ariel" {
		t.Fatalf("unexpected employees %+v", employees)
	}

	if _, err := s.GetDocument(context.Background(), storage.Collection, "orders"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	notFound := fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusNotFound})
	if !errors.Is(translate(notFound, "attendance/employees"), storage.ErrNotFound) {
		t.Fatalf("expected 404 to translate to ErrNotFound")
	}
	if !aborted(&googleapi.Error{Code: http.StatusConflict}) {
		t.Fatalf("expected 409 to be treated as aborted")
	}
	if aborted(errors.New("timeout")) {
		t.Fatalf("expected plain errors not to be retried")
	}
}

func TestPaths(t *testing.T) {
	s := New(&fsapi.Service{}, "toko-kita", "")
	if got := s.documentPath(storage.Collection, "employees"); got != "projects/toko-kita/databases/(default)/documents/attendance/employees" {
		t.Fatalf("unexpected document path %s", got)
	}
}

func TestPublishDeduplicatesUpdateTime(t *testing.T) {
	s := New(&fsapi.Service{}, "p", "d")
	var calls int
	s.subs.Add(storage.Key(storage.Collection, "orders"), func(storage.Document) { calls++ })
	s.publish(storage.Collection, "orders", storage.Document{}, "t1")
	s.publish(storage.Collection, "orders", storage.Document{}, "t1")
	s.publish(storage.Collection, "orders", storage.Document{}, "t2")
	if calls != 2 {
		t.Fatalf("expected 2 deliveries, got %d", calls)
	}
}
