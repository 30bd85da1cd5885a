package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// ProcessActionResponse is the backend's reply to a process control
// action. Status is the process's new lifecycle word (e.g. "running").
type ProcessActionResponse struct {
	ProcessName string `json:"process_name"`
	Status      string `json:"status"`
}

// RuntimeStatus returns the supervisor's process table: one opaque
// status blob per process name. The console drives button enablement
// off key existence only, never off blob internals.
func (c *Client) RuntimeStatus(ctx context.Context) (map[string]json.RawMessage, error) {
	var status map[string]json.RawMessage
	if err := c.do(ctx, "GET", "/runtime/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// StartProcess asks the supervisor to start the named process.
func (c *Client) StartProcess(ctx context.Context, name string) (*ProcessActionResponse, error) {
	return c.processAction(ctx, name, "start")
}

// StopProcess asks the supervisor to stop the named process.
func (c *Client) StopProcess(ctx context.Context, name string) (*ProcessActionResponse, error) {
	return c.processAction(ctx, name, "stop")
}

// RestartProcess asks the supervisor to restart the named process.
func (c *Client) RestartProcess(ctx context.Context, name string) (*ProcessActionResponse, error) {
	return c.processAction(ctx, name, "restart")
}

func (c *Client) processAction(ctx context.Context, name, action string) (*ProcessActionResponse, error) {
	var resp ProcessActionResponse
	if err := c.do(ctx, "POST", "/runtime/processes/"+name+"/"+action, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RuntimeStreamURL is the SSE endpoint for a runtime bus channel.
// The default channel is "runtime"; "robot-feedback" carries the robot
// tool and feedback events.
func (c *Client) RuntimeStreamURL(channel string) string {
	q := url.Values{}
	if channel != "" && channel != "runtime" {
		q.Set("channel", channel)
	}
	return c.URL("/runtime/events/stream", q)
}
