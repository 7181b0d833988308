package storage

import (
	"encoding/json"
	"testing"
)

func TestSanitizeStripsNulls(t *testing.T) {
	input := map[string]any{
		"name":   "Ariel",
		"shift":  nil,
		"tasks":  []any{map[string]any{"id": "t1", "endTime": nil}, nil},
		"nested": map[string]any{"a": nil, "b": 1.5},
	}
	raw, err := Sanitize(input)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := got["shift"]; ok {
		t.Fatalf("expected null field to be dropped, got %s", raw)
	}
	tasks := got["tasks"].([]any)
	if len(tasks) != 1 {
		t.Fatalf("expected null array element to be dropped, got %s", raw)
	}
	if _, ok := tasks[0].(map[string]any)["endTime"]; ok {
		t.Fatalf("expected nested null to be dropped, got %s", raw)
	}
	if got["nested"].(map[string]any)["b"] != 1.5 {
		t.Fatalf("expected numbers to survive, got %s", raw)
	}
}

func TestSanitizeKeepsLargeIntegers(t *testing.T) {
	raw, err := Sanitize(json.RawMessage(`{"baseSalary": 8000000000123}`))
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if string(raw) != `{"baseSalary":8000000000123}` {
		t.Fatalf("expected exact integer, got %s", raw)
	}
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	var calls int
	stop := b.Add("attendance/employees", func(Document) { calls++ })
	b.Publish("attendance/employees", Document{})
	stop()
	stop()
	b.Publish("attendance/employees", Document{})
	if calls != 1 {
		t.Fatalf("expected 1 delivery, got %d", calls)
	}
	if b.Count("attendance/employees") != 0 {
		t.Fatalf("expected no subscribers left")
	}
}
