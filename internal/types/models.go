// internal/types/models.go
package types

import (
	"encoding/json"
)

// Session mirrors a backend chat or assistant session. Mode is
// backend-defined and treated as an opaque tag; the set of valid modes
// may change between deployments. Timestamps are ISO-8601 strings as
// sent by the backend, kept in string form so they sort lexically.
type Session struct {
	ID        SessionID `json:"id"`
	Mode      string    `json:"mode"`
	Title     string    `json:"title,omitempty"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at,omitempty"`
}

// Message mirrors a backend chat message. Role and Status are opaque
// strings (e.g. user/assistant, pending/streaming/final). A message is
// mutated in place when a token delta or finalization event arrives for
// its ID; it is never reordered once inserted.
type Message struct {
	ID        MessageID       `json:"id"`
	SessionID SessionID       `json:"session_id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	Meta      json.RawMessage `json:"meta,omitempty"`
}

// LogRecord is one structured log entry. The backend emits the same
// record in two wire shapes: the log query endpoint uses name and
// created_at, the runtime event stream envelope uses process_name and
// ts. UnmarshalJSON accepts both so query backlog and live events
// carry comparable timestamps. Payload stays opaque.
type LogRecord struct {
	ProcessName string          `json:"process_name"`
	Source      string          `json:"source"`
	Level       string          `json:"level"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Timestamp   string          `json:"ts"`
}

func (r *LogRecord) UnmarshalJSON(data []byte) error {
	var aux struct {
		ProcessName string          `json:"process_name"`
		Name        string          `json:"name"`
		Source      string          `json:"source"`
		Level       string          `json:"level"`
		EventType   string          `json:"event_type"`
		Payload     json.RawMessage `json:"payload"`
		TS          string          `json:"ts"`
		CreatedAt   string          `json:"created_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.ProcessName = aux.ProcessName
	if r.ProcessName == "" {
		r.ProcessName = aux.Name
	}
	r.Source = aux.Source
	r.Level = aux.Level
	r.EventType = aux.EventType
	r.Payload = aux.Payload
	r.Timestamp = aux.TS
	if r.Timestamp == "" {
		r.Timestamp = aux.CreatedAt
	}
	return nil
}

// Skill describes one runnable skill exposed by the backend. Preview
// is the first few lines of the skill's content.
type Skill struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Preview string `json:"preview,omitempty"`
}

// MemoryHit is one memory search result.
type MemoryHit struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// HeartbeatResult is the outcome of one heartbeat evaluation.
type HeartbeatResult struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Context   json.RawMessage `json:"context,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// RobotAction is an operator-issued robot command. Confirm is attached
// by the dispatcher according to the risky-action toggle at dispatch
// time; callers leave it unset.
type RobotAction struct {
	Action   string   `json:"action"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Z        *float64 `json:"z,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	State    string   `json:"state,omitempty"`
	Text     string   `json:"text,omitempty"`
	Confirm  bool     `json:"confirm,omitempty"`
}

// RobotActionResult is the backend's accept/reject verdict for a
// submitted robot action. Rejections carry the reason verbatim.
type RobotActionResult struct {
	Accepted bool     `json:"accepted"`
	ActionID ActionID `json:"action_id"`
	Reason   string   `json:"reason,omitempty"`
}

// DeviceTestResult is the shape shared by the backend-delegated device
// tests (robot mic, speaker, camera). Level is only present for mic
// tests.
type DeviceTestResult struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
	Level   *float64 `json:"level,omitempty"`
	Samples *int     `json:"samples,omitempty"`
}
