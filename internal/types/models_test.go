// internal/types/models_test.go
package types

import (
	"encoding/json"
	"testing"
)

func TestMessageDecodeKeepsOpaqueFields(t *testing.T) {
	raw := `{
		"id": "m1",
		"session_id": "s1",
		"role": "assistant",
		"status": "streaming",
		"content": "partial",
		"created_at": "2026-01-02T03:04:05Z",
		"meta": {"streaming": true}
	}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatal(err)
	}

	if msg.ID != "m1" || msg.SessionID != "s1" {
		t.Errorf("unexpected ids: %q %q", msg.ID, msg.SessionID)
	}
	if msg.Role != "assistant" || msg.Status != "streaming" {
		t.Errorf("role/status should pass through as opaque strings, got %q %q", msg.Role, msg.Status)
	}
	if string(msg.Meta) != `{"streaming": true}` {
		t.Errorf("meta should stay raw, got %s", msg.Meta)
	}
}

func TestLogRecordDecodesQueryShape(t *testing.T) {
	// The log query endpoint uses name/created_at.
	raw := `{"source":"runtime","name":"voice","level":"ERROR","event_type":"exit","payload":{"code":1},"created_at":"2026-01-01T00:00:20Z"}`
	var rec LogRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ProcessName != "voice" {
		t.Errorf("ProcessName = %q, want voice", rec.ProcessName)
	}
	if rec.Timestamp != "2026-01-01T00:00:20Z" {
		t.Errorf("Timestamp = %q, want created_at value", rec.Timestamp)
	}
	if rec.Level != "ERROR" || rec.EventType != "exit" {
		t.Errorf("facets = %q %q", rec.Level, rec.EventType)
	}
	if string(rec.Payload) != `{"code":1}` {
		t.Errorf("payload should stay raw, got %s", rec.Payload)
	}
}

func TestLogRecordDecodesStreamShape(t *testing.T) {
	// The runtime event stream envelope uses process_name/ts.
	raw := `{"process_name":"voice","source":"runtime","level":"INFO","event_type":"started","payload":{},"ts":"2026-01-01T00:00:05Z"}`
	var rec LogRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ProcessName != "voice" {
		t.Errorf("ProcessName = %q, want voice", rec.ProcessName)
	}
	if rec.Timestamp != "2026-01-01T00:00:05Z" {
		t.Errorf("Timestamp = %q, want ts value", rec.Timestamp)
	}
}

func TestSkillDecodesBackendItem(t *testing.T) {
	raw := `{"id":"sk-1","name":"water-plants","path":"/skills/water.md","preview":"# Water the plants"}`
	var s Skill
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatal(err)
	}
	if s.Path != "/skills/water.md" || s.Preview != "# Water the plants" {
		t.Errorf("skill = %+v", s)
	}
}

func TestRobotActionOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(RobotAction{Action: "nod"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"action":"nod"}` {
		t.Errorf("unset coordinates and confirm must be omitted, got %s", data)
	}

	x := 0.5
	data, err = json.Marshal(RobotAction{Action: "look_at", X: &x, Confirm: true})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["x"] != 0.5 || decoded["confirm"] != true {
		t.Errorf("expected x and confirm present, got %v", decoded)
	}
}
