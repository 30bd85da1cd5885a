package config

import (
	"testing"
)

func TestFlatten_Nested(t *testing.T) {
	m := map[string]any{
		"telegram": map[string]any{
			"token":   "bot-token",
			"chat_id": 7.0,
		},
		"log_level": "info",
	}
	got := Flatten(m)
	if got["telegram.token"] != "bot-token" {
		t.Errorf("expected telegram.token=bot-token, got %v", got["telegram.token"])
	}
	if got["telegram.chat_id"] != 7.0 {
		t.Errorf("expected telegram.chat_id=7, got %v", got["telegram.chat_id"])
	}
	if got["log_level"] != "info" {
		t.Errorf("expected log_level=info, got %v", got["log_level"])
	}
	if len(got) != 3 {
		t.Errorf("expected 3 keys, got %d", len(got))
	}
}

func TestFlatten_DeeplyNested(t *testing.T) {
	m := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": "deep",
			},
		},
	}
	got := Flatten(m)
	if got["a.b.c"] != "deep" {
		t.Errorf("expected a.b.c=deep, got %v", got["a.b.c"])
	}
	if len(got) != 1 {
		t.Errorf("expected 1 key, got %d", len(got))
	}
}

func TestUnflatten_Nested(t *testing.T) {
	flat := map[string]any{
		"timeline.tool_cap": 30.0,
		"log_level":         "info",
	}
	got := Unflatten(flat)
	timeline, ok := got["timeline"].(map[string]any)
	if !ok {
		t.Fatalf("expected timeline to be map, got %T", got["timeline"])
	}
	if timeline["tool_cap"] != 30.0 {
		t.Errorf("expected timeline.tool_cap=30, got %v", timeline["tool_cap"])
	}
	if got["log_level"] != "info" {
		t.Errorf("expected log_level=info, got %v", got["log_level"])
	}
}

func TestRoundTrip_FlattenUnflatten(t *testing.T) {
	original := map[string]any{
		"api_base_url": "http://localhost:8000/api/v1",
		"log_level":    "debug",
		"telegram": map[string]any{
			"token": "bot-token-abc",
		},
	}

	restored := Unflatten(Flatten(original))

	if restored["api_base_url"] != original["api_base_url"] {
		t.Errorf("api_base_url mismatch: %v", restored["api_base_url"])
	}
	tg := restored["telegram"].(map[string]any)
	if tg["token"] != "bot-token-abc" {
		t.Errorf("telegram.token mismatch: %v", tg["token"])
	}
}

func TestMaskSecrets(t *testing.T) {
	flat := map[string]any{
		"telegram.token": "123456:ABCdefGHIjkl",
		"log_level":      "info",
	}
	got := MaskSecrets(flat)
	if got["telegram.token"] != "***Ijkl" {
		t.Errorf("expected ***Ijkl, got %v", got["telegram.token"])
	}
	if got["log_level"] != "info" {
		t.Errorf("non-secret must pass through, got %v", got["log_level"])
	}
}

func TestMaskSecrets_ShortAndEmpty(t *testing.T) {
	got := MaskSecrets(map[string]any{"telegram.token": "ab"})
	if got["telegram.token"] != "***ab" {
		t.Errorf("expected ***ab for short secret, got %v", got["telegram.token"])
	}
	got = MaskSecrets(map[string]any{"telegram.token": ""})
	if got["telegram.token"] != "" {
		t.Errorf("expected empty string to remain empty, got %v", got["telegram.token"])
	}
}
