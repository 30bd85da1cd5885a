package api

import (
	"context"

	"github.com/kifhan/grumpyclaw/internal/types"
)

// AudioStatus reports whether the robot's media layer is available for
// the backend-delegated speaker/mic tests, plus the selected devices.
type AudioStatus struct {
	Available        bool   `json:"available"`
	Message          string `json:"message"`
	InputDeviceID    *int   `json:"input_device_id,omitempty"`
	OutputDeviceID   *int   `json:"output_device_id,omitempty"`
	InputDeviceName  string `json:"input_device_name,omitempty"`
	OutputDeviceName string `json:"output_device_name,omitempty"`
}

// CameraCheckResult reports whether the backend's camera worker has
// produced a frame.
type CameraCheckResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// AudioDeviceStatus fetches the robot audio device status. The remote
// device tests need no local state machine: acquisition and release
// happen server-side within one request.
func (c *Client) AudioDeviceStatus(ctx context.Context) (*AudioStatus, error) {
	var status AudioStatus
	if err := c.do(ctx, "GET", "/devices/audio/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// TestRobotSpeaker plays a short test tone through the robot's speaker.
func (c *Client) TestRobotSpeaker(ctx context.Context) (*types.DeviceTestResult, error) {
	var result types.DeviceTestResult
	if err := c.do(ctx, "POST", "/devices/audio/test-speaker", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestRobotMic records about a second from the robot's microphone and
// returns the measured level.
func (c *Client) TestRobotMic(ctx context.Context) (*types.DeviceTestResult, error) {
	var result types.DeviceTestResult
	if err := c.do(ctx, "POST", "/devices/audio/test-mic", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckRobotCamera verifies the backend camera worker has a frame.
func (c *Client) CheckRobotCamera(ctx context.Context) (*CameraCheckResult, error) {
	var result CameraCheckResult
	if err := c.do(ctx, "GET", "/devices/camera", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
