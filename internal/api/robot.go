package api

import (
	"context"
	"encoding/json"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// RobotControlResponse acknowledges a robot service start/stop/restart
// request. The actual state change is reported on the robot-feedback
// stream and by subsequent status fetches.
type RobotControlResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// RobotStatus returns the robot service's status blob (run state,
// connection, worker liveness), opaque to the console.
func (c *Client) RobotStatus(ctx context.Context) (json.RawMessage, error) {
	var status json.RawMessage
	if err := c.do(ctx, "GET", "/robot/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// RobotStart requests a start of the robot service.
func (c *Client) RobotStart(ctx context.Context) (*RobotControlResponse, error) {
	return c.robotControl(ctx, "/robot/start")
}

// RobotStop requests a stop of the robot service.
func (c *Client) RobotStop(ctx context.Context) (*RobotControlResponse, error) {
	return c.robotControl(ctx, "/robot/stop")
}

// RobotRestart requests a restart of the robot service.
func (c *Client) RobotRestart(ctx context.Context) (*RobotControlResponse, error) {
	return c.robotControl(ctx, "/robot/restart")
}

func (c *Client) robotControl(ctx context.Context, path string) (*RobotControlResponse, error) {
	var resp RobotControlResponse
	if err := c.do(ctx, "POST", path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitRobotAction submits an actuation command. The backend enforces
// rate limits and the confirmation precondition; a rejection comes back
// with Accepted=false and the reason verbatim.
func (c *Client) SubmitRobotAction(ctx context.Context, action types.RobotAction) (*types.RobotActionResult, error) {
	var result types.RobotActionResult
	if err := c.do(ctx, "POST", "/robot/actions", nil, action, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
