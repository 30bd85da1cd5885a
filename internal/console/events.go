package console

import (
	"encoding/json"
	"log/slog"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// Push event payloads. Field sets follow the backend's event bus;
// anything beyond these fields is ignored.

type tokenEvent struct {
	SessionID types.SessionID `json:"session_id"`
	MessageID types.MessageID `json:"message_id"`
	Token     string          `json:"token"`
	Seq       int64           `json:"seq"`
}

type finalEvent struct {
	SessionID types.SessionID `json:"session_id"`
	MessageID types.MessageID `json:"message_id"`
	Content   string          `json:"content"`
}

type errorEvent struct {
	SessionID types.SessionID `json:"session_id"`
	Error     string          `json:"error"`
}

type toolEvent struct {
	// The robot feedback channel tags tools with tool_name, the
	// assistant bus with name. Either may be set.
	ToolName string          `json:"tool_name"`
	Name     string          `json:"name"`
	Phase    string          `json:"phase"`
	Message  string          `json:"message"`
	Result   json.RawMessage `json:"result"`
	TS       string          `json:"ts"`
}

func (e toolEvent) label() string {
	if e.ToolName != "" {
		return e.ToolName
	}
	return e.Name
}

type robotFeedbackEvent struct {
	State   string `json:"state"`
	Message string `json:"message"`
	TS      string `json:"ts"`
}

type heartbeatEvent struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Context json.RawMessage `json:"context"`
}

// decodeEvent parses a push payload. Malformed payloads are logged and
// dropped; they never tear down the stream.
func decodeEvent(logger *slog.Logger, eventType string, data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("malformed event payload", "type", eventType, "error", err)
		return false
	}
	return true
}
