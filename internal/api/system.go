package api

import (
	"context"
)

// HealthResponse is the backend liveness check.
type HealthResponse struct {
	Status string `json:"status"`
}

// PublicConfig is the backend's operator-visible configuration.
type PublicConfig struct {
	Auth                       string  `json:"auth"`
	CORSOrigin                 string  `json:"cors_origin"`
	RobotRateLimitSeconds      float64 `json:"robot_rate_limit_seconds"`
	RobotSpeakConfirmThreshold int     `json:"robot_speak_confirm_threshold"`
	OpenAITextModel            string  `json:"openai_text_model"`
	OpenAIRealtimeModel        string  `json:"openai_realtime_model"`
	HeartbeatIntervalSeconds   int     `json:"heartbeat_interval_seconds"`
	RealtimeInputGain          float64 `json:"realtime_input_gain"`
	RealtimeOutputGain         float64 `json:"realtime_output_gain"`
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, "GET", "/healthz", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPublicConfig fetches the backend's public configuration.
func (c *Client) GetPublicConfig(ctx context.Context) (*PublicConfig, error) {
	var cfg PublicConfig
	if err := c.do(ctx, "GET", "/config/public", nil, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
