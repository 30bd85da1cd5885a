package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// CreateSessionResponse is the backend's reply to a session create.
type CreateSessionResponse struct {
	SessionID types.SessionID `json:"session_id"`
	Mode      string          `json:"mode"`
	CreatedAt string          `json:"created_at"`
}

// PostMessageResponse acknowledges an enqueued user message. The
// assistant reply arrives on the session's event stream, not here.
type PostMessageResponse struct {
	MessageID types.MessageID `json:"message_id"`
	Queued    bool            `json:"queued"`
}

// ListSessionsOptions are the optional filters for session listing.
// Zero values are omitted from the query string.
type ListSessionsOptions struct {
	Mode   string
	Limit  int
	Offset int
}

func (o ListSessionsOptions) query() url.Values {
	q := url.Values{}
	if o.Mode != "" {
		q.Set("mode", o.Mode)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	return q
}

// CreateChatSession creates a new chat session in the given mode. Mode
// is backend-defined; the console passes it through as an opaque string.
func (c *Client) CreateChatSession(ctx context.Context, mode, title string) (*CreateSessionResponse, error) {
	return c.createSession(ctx, "/chat/sessions", mode, title)
}

// ListChatSessions lists chat sessions, newest first.
func (c *Client) ListChatSessions(ctx context.Context, opts ListSessionsOptions) ([]types.Session, error) {
	return c.listSessions(ctx, "/chat/sessions", opts)
}

// ListChatMessages fetches the ordered message history for a session.
// This is the snapshot that seeds the chat timeline before live events.
func (c *Client) ListChatMessages(ctx context.Context, id types.SessionID) ([]types.Message, error) {
	return c.listMessages(ctx, "/chat/sessions/"+string(id)+"/messages")
}

// PostChatMessage enqueues a user message. The backend answers with the
// assistant message ID it will stream tokens against.
func (c *Client) PostChatMessage(ctx context.Context, id types.SessionID, content string) (*PostMessageResponse, error) {
	return c.postMessage(ctx, "/chat/sessions/"+string(id)+"/messages", content)
}

// ChatStreamURL is the SSE endpoint for one chat session's topic.
func (c *Client) ChatStreamURL(id types.SessionID) string {
	return c.URL("/chat/sessions/"+string(id)+"/stream", nil)
}

func (c *Client) createSession(ctx context.Context, path, mode, title string) (*CreateSessionResponse, error) {
	body := map[string]string{"mode": mode}
	if title != "" {
		body["title"] = title
	}
	var resp CreateSessionResponse
	if err := c.do(ctx, "POST", path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) listSessions(ctx context.Context, path string, opts ListSessionsOptions) ([]types.Session, error) {
	var sessions []types.Session
	if err := c.do(ctx, "GET", path, opts.query(), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) listMessages(ctx context.Context, path string) ([]types.Message, error) {
	var messages []types.Message
	if err := c.do(ctx, "GET", path, nil, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) postMessage(ctx context.Context, path, content string) (*PostMessageResponse, error) {
	var resp PostMessageResponse
	if err := c.do(ctx, "POST", path, nil, map[string]string{"content": content}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
