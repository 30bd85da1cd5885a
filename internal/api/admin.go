package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// LogFilter selects log records at the request boundary. Zero-valued
// facets are omitted from the query string entirely; filtering is never
// done client-side.
type LogFilter struct {
	Source      string
	Level       string
	ProcessName string
	EventType   string
	Query       string
	Limit       int
}

func (f LogFilter) query() url.Values {
	q := url.Values{}
	if f.Source != "" {
		q.Set("source", f.Source)
	}
	if f.Level != "" {
		q.Set("level", f.Level)
	}
	if f.ProcessName != "" {
		q.Set("process_name", f.ProcessName)
	}
	if f.EventType != "" {
		q.Set("event_type", f.EventType)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// LogsResponse echoes the applied filter facets alongside the matched
// records.
type LogsResponse struct {
	Source      string            `json:"source"`
	Level       string            `json:"level"`
	ProcessName string            `json:"process_name"`
	EventType   string            `json:"event_type"`
	Query       string            `json:"q"`
	Items       []types.LogRecord `json:"items"`
}

// MemorySearch runs a hybrid memory search on the backend.
func (c *Client) MemorySearch(ctx context.Context, queryText string, topK int) ([]types.MemoryHit, error) {
	q := url.Values{}
	q.Set("q", queryText)
	if topK > 0 {
		q.Set("top_k", strconv.Itoa(topK))
	}
	var hits []types.MemoryHit
	if err := c.do(ctx, "GET", "/memory/search", q, nil, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// Skills lists the backend's runnable skills.
func (c *Client) Skills(ctx context.Context) ([]types.Skill, error) {
	var skills []types.Skill
	if err := c.do(ctx, "GET", "/skills", nil, nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// RunSkill executes a skill by ID and returns its raw result.
func (c *Client) RunSkill(ctx context.Context, skillID string) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.do(ctx, "POST", "/skills/run", nil, map[string]string{"skill_id": skillID}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// HeartbeatEvaluate triggers a manual heartbeat evaluation.
func (c *Client) HeartbeatEvaluate(ctx context.Context) (*types.HeartbeatResult, error) {
	var result types.HeartbeatResult
	if err := c.do(ctx, "POST", "/heartbeat/evaluate", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HeartbeatHistory lists past heartbeat evaluations, newest first.
func (c *Client) HeartbeatHistory(ctx context.Context, limit int) ([]types.HeartbeatResult, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var history []types.HeartbeatResult
	if err := c.do(ctx, "GET", "/heartbeat/history", q, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Logs queries the structured log store with the given facets.
func (c *Client) Logs(ctx context.Context, filter LogFilter) (*LogsResponse, error) {
	var resp LogsResponse
	if err := c.do(ctx, "GET", "/logs", filter.query(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
