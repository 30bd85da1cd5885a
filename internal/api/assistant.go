package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// RealtimeControlResponse acknowledges a realtime voice session start
// or stop. Status is the backend's status blob, kept opaque.
type RealtimeControlResponse struct {
	OK     bool            `json:"ok"`
	Status json.RawMessage `json:"status"`
}

// RealtimeEvent is one persisted realtime bus event from the history
// endpoint. The same event types arrive live on the realtime stream.
type RealtimeEvent struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
}

// CreateAssistantSession creates a new assistant session.
func (c *Client) CreateAssistantSession(ctx context.Context, mode, title string) (*CreateSessionResponse, error) {
	return c.createSession(ctx, "/assistant/sessions", mode, title)
}

// ListAssistantSessions lists assistant sessions, newest first.
func (c *Client) ListAssistantSessions(ctx context.Context, opts ListSessionsOptions) ([]types.Session, error) {
	return c.listSessions(ctx, "/assistant/sessions", opts)
}

// ListAssistantMessages fetches the ordered message history for an
// assistant session.
func (c *Client) ListAssistantMessages(ctx context.Context, id types.SessionID) ([]types.Message, error) {
	return c.listMessages(ctx, "/assistant/sessions/"+string(id)+"/messages")
}

// PostAssistantMessage enqueues a user message against an assistant session.
func (c *Client) PostAssistantMessage(ctx context.Context, id types.SessionID, content string) (*PostMessageResponse, error) {
	return c.postMessage(ctx, "/assistant/sessions/"+string(id)+"/messages", content)
}

// AssistantStreamURL is the SSE endpoint for one assistant session's topic.
func (c *Client) AssistantStreamURL(id types.SessionID) string {
	return c.URL("/assistant/sessions/"+string(id)+"/stream", nil)
}

// RealtimeStart starts the realtime voice session on the backend.
func (c *Client) RealtimeStart(ctx context.Context) (*RealtimeControlResponse, error) {
	var resp RealtimeControlResponse
	if err := c.do(ctx, "POST", "/assistant/realtime/start", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RealtimeStop stops the realtime voice session.
func (c *Client) RealtimeStop(ctx context.Context) (*RealtimeControlResponse, error) {
	var resp RealtimeControlResponse
	if err := c.do(ctx, "POST", "/assistant/realtime/stop", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RealtimeStatus returns the backend's realtime status blob, opaque to
// the console beyond existence checks.
func (c *Client) RealtimeStatus(ctx context.Context) (json.RawMessage, error) {
	var status json.RawMessage
	if err := c.do(ctx, "GET", "/assistant/realtime/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// RealtimeHistory fetches the persisted realtime event backlog that
// seeds the realtime timeline.
func (c *Client) RealtimeHistory(ctx context.Context, limit int) ([]RealtimeEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var events []RealtimeEvent
	if err := c.do(ctx, "GET", "/assistant/realtime/history", q, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// RealtimeStreamURL is the SSE endpoint for the shared realtime bus.
func (c *Client) RealtimeStreamURL() string {
	return c.URL("/assistant/realtime/stream", nil)
}
