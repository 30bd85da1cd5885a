package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "console.json")
}

func TestLoad_WritesDefaults(t *testing.T) {
	path := tempConfigPath(t)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("unexpected default base URL: %s", cfg.APIBaseURL)
	}
	if cfg.Timeline.ToolCap != 30 || cfg.Timeline.RuntimeCap != 100 || cfg.Timeline.RealtimeCap != 200 {
		t.Errorf("unexpected default timeline caps: %+v", cfg.Timeline)
	}
	if cfg.RefreshSchedule != "@every 1m" {
		t.Errorf("unexpected default refresh schedule: %s", cfg.RefreshSchedule)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to disk: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := tempConfigPath(t)
	content := `{"api_base_url": "http://robot.local:8000/api/v1/", "log_level": "debug"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	// Trailing slash is stripped so path joining stays predictable.
	if cfg.APIBaseURL != "http://robot.local:8000/api/v1" {
		t.Errorf("expected file value with trailing slash stripped, got %s", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level=debug, got %s", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := tempConfigPath(t)
	content := `{"api_base_url": "http://from-file:8000/api/v1"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRUMPYCLAW_API_URL", "http://from-env:9000/api/v1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://from-env:9000/api/v1" {
		t.Errorf("env must take precedence, got %s", cfg.APIBaseURL)
	}
}

func TestSetValue_GetValue_RoundTrip(t *testing.T) {
	path := tempConfigPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "timeline.tool_cap", "45"); err != nil {
		t.Fatal(err)
	}
	val, err := GetValue(path, "timeline.tool_cap")
	if err != nil {
		t.Fatal(err)
	}
	if val != 45.0 {
		t.Errorf("expected 45, got %v", val)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timeline.ToolCap != 45 {
		t.Errorf("expected reloaded tool cap 45, got %d", cfg.Timeline.ToolCap)
	}
}

func TestGetValue_SecretMasked(t *testing.T) {
	path := tempConfigPath(t)
	if err := SetValue(path, "telegram.token", "123456:ABCdefGHIjkl"); err != nil {
		t.Fatal(err)
	}
	val, err := GetValue(path, "telegram.token")
	if err != nil {
		t.Fatal(err)
	}
	if val != "***Ijkl" {
		t.Errorf("expected masked token, got %v", val)
	}
}

func TestGetValue_UnknownKey(t *testing.T) {
	path := tempConfigPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if _, err := GetValue(path, "no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestListValues_MasksSecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "bot-token-abcd"
	flat, err := ListValues(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if flat["telegram.token"] != "***abcd" {
		t.Errorf("expected masked token, got %v", flat["telegram.token"])
	}
}
