package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// APIBaseURL is the backend REST base, e.g. "http://localhost:8000/api/v1".
	// Stream endpoints derive from it (sibling .../stream paths on the same
	// host). Read once at startup and immutable for the process lifetime.
	APIBaseURL string `json:"api_base_url"`
	LogLevel   string `json:"log_level"`

	// ConfirmRisky is the default for the risky-action confirmation toggle.
	// The dispatcher reads the toggle at dispatch time, never earlier.
	ConfirmRisky bool `json:"confirm_risky"`

	// RefreshSchedule is a cron expression driving the periodic REST
	// re-snapshot in watch mode. Push delivery is at-most-once per
	// connection; the refresh reconciles drift after silent reconnects.
	RefreshSchedule string `json:"refresh_schedule"`

	Timeline struct {
		ToolCap     int `json:"tool_cap"`
		RuntimeCap  int `json:"runtime_cap"`
		RealtimeCap int `json:"realtime_cap"`
	} `json:"timeline"`

	Devices struct {
		// ToneSeconds is the speaker test tone duration. The only enforced
		// timeout in the console is this duration plus a settling margin.
		ToneSeconds float64 `json:"tone_seconds"`
	} `json:"devices"`

	Telegram struct {
		Token  string `json:"token"`
		ChatID int64  `json:"chat_id"`
	} `json:"telegram"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:      "http://localhost:8000/api/v1",
		LogLevel:        "info",
		RefreshSchedule: "@every 1m",
	}
	cfg.Timeline.ToolCap = 30
	cfg.Timeline.RuntimeCap = 100
	cfg.Timeline.RealtimeCap = 200
	cfg.Devices.ToneSeconds = 1.0

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if baseURL := os.Getenv("GRUMPYCLAW_API_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
