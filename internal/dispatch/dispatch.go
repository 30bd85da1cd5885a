// Package dispatch sends operator-issued control commands to the
// backend. Routine commands (process control, skill runs, memory
// search) fire immediately. Robot actuation is the risky tier: the
// confirmation marker is attached or omitted according to the confirm
// toggle's state at the moment of dispatch, never a remembered earlier
// value. Failures surface the backend's raw error text; nothing here
// retries or keeps optimistic state.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/types"
)

// DefaultMaxSkillRuns bounds concurrent skill executions across the
// whole console.
const DefaultMaxSkillRuns = 4

// Dispatcher validates and sends control commands through the API
// client.
type Dispatcher struct {
	client *api.Client
	logger *slog.Logger

	// confirmRisky gates the risky tier. Read at dispatch time only.
	confirmRisky atomic.Bool

	// skillSem limits concurrent skill runs so an operator mashing the
	// run button cannot swamp the backend.
	skillSem *semaphore.Weighted
}

// New creates a Dispatcher on top of an API client.
func New(client *api.Client, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		client:   client,
		logger:   logger,
		skillSem: semaphore.NewWeighted(DefaultMaxSkillRuns),
	}
}

// SetConfirmRisky flips the risky-action confirmation toggle.
func (d *Dispatcher) SetConfirmRisky(on bool) {
	d.confirmRisky.Store(on)
}

// ConfirmRisky reports the toggle's current state.
func (d *Dispatcher) ConfirmRisky() bool {
	return d.confirmRisky.Load()
}

// StartProcess starts a named backend process.
func (d *Dispatcher) StartProcess(ctx context.Context, name string) (*api.ProcessActionResponse, error) {
	d.logger.Info("dispatching process start", "process", name)
	return d.client.StartProcess(ctx, name)
}

// StopProcess stops a named backend process.
func (d *Dispatcher) StopProcess(ctx context.Context, name string) (*api.ProcessActionResponse, error) {
	d.logger.Info("dispatching process stop", "process", name)
	return d.client.StopProcess(ctx, name)
}

// RestartProcess restarts a named backend process.
func (d *Dispatcher) RestartProcess(ctx context.Context, name string) (*api.ProcessActionResponse, error) {
	d.logger.Info("dispatching process restart", "process", name)
	return d.client.RestartProcess(ctx, name)
}

// RunSkill executes a skill by name, holding a concurrency slot for the
// duration of the run. Blocks while all slots are taken; ctx bounds the
// wait.
func (d *Dispatcher) RunSkill(ctx context.Context, name string) (json.RawMessage, error) {
	if err := d.skillSem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("dispatch: waiting for skill slot: %w", err)
	}
	defer d.skillSem.Release(1)

	d.logger.Info("dispatching skill run", "skill", name)
	return d.client.RunSkill(ctx, name)
}

// MemorySearch queries the agent's memory store.
func (d *Dispatcher) MemorySearch(ctx context.Context, query string, topK int) ([]types.MemoryHit, error) {
	return d.client.MemorySearch(ctx, query, topK)
}

// SubmitRobotAction sends a robot actuation command. This is the risky
// tier: the confirmation marker on the outgoing payload always reflects
// the toggle as it stands right now, regardless of what it was when the
// operator queued up earlier actions.
func (d *Dispatcher) SubmitRobotAction(ctx context.Context, action types.RobotAction) (*types.RobotActionResult, error) {
	action.Confirm = d.confirmRisky.Load()
	d.logger.Info("dispatching robot action", "action", action.Action, "confirm", action.Confirm)

	result, err := d.client.SubmitRobotAction(ctx, action)
	if err != nil {
		return nil, err
	}
	if !result.Accepted {
		d.logger.Warn("robot action rejected", "action", action.Action, "reason", result.Reason)
	}
	return result, nil
}

// RobotStart powers the robot control loop on.
func (d *Dispatcher) RobotStart(ctx context.Context) (*api.RobotControlResponse, error) {
	d.logger.Info("dispatching robot start")
	return d.client.RobotStart(ctx)
}

// RobotStop powers the robot control loop off.
func (d *Dispatcher) RobotStop(ctx context.Context) (*api.RobotControlResponse, error) {
	d.logger.Info("dispatching robot stop")
	return d.client.RobotStop(ctx)
}

// RobotRestart bounces the robot control loop.
func (d *Dispatcher) RobotRestart(ctx context.Context) (*api.RobotControlResponse, error) {
	d.logger.Info("dispatching robot restart")
	return d.client.RobotRestart(ctx)
}
