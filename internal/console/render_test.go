package console

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kifhan/grumpyclaw/internal/types"
)

func TestContentConvertsHTMLFragments(t *testing.T) {
	r := NewRenderer()
	got := r.Content("<p>Hello <strong>operator</strong></p>")
	if strings.Contains(got, "<p>") {
		t.Fatalf("still HTML: %q", got)
	}
	if !strings.Contains(got, "operator") {
		t.Fatalf("lost text: %q", got)
	}
}

func TestContentPassesPlainTextThrough(t *testing.T) {
	r := NewRenderer()
	for _, s := range []string{
		"just text",
		"a < b and b > c",
		"2 <3",
	} {
		if got := r.Content(s); got != s {
			t.Errorf("Content(%q) = %q", s, got)
		}
	}
}

func TestCompactPayloadStableForm(t *testing.T) {
	got := compactPayload(json.RawMessage("{\n  \"a\": 1,\n  \"b\": \"x\"\n}"))
	if got != `{"a":1,"b":"x"}` {
		t.Fatalf("compact = %q", got)
	}
	if got := compactPayload(nil); got != "" {
		t.Fatalf("nil payload = %q", got)
	}
	// Non-JSON survives verbatim rather than vanishing.
	if got := compactPayload(json.RawMessage("plain")); got != "plain" {
		t.Fatalf("invalid payload = %q", got)
	}
}

func TestSessionTableIncludesTokenColumn(t *testing.T) {
	r := NewRenderer()
	out := &syncWriter{}
	sessions := []types.Session{
		{ID: "s1", Mode: "chat", Title: "first", UpdatedAt: "2026-01-01T00:00:00Z"},
		{ID: "s2", Mode: "chat", Title: "second", UpdatedAt: "2026-01-02T00:00:00Z"},
	}
	r.SessionTable(out, sessions, map[types.SessionID]int{"s1": 12})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "12") {
		t.Errorf("s1 row missing token count: %q", lines[1])
	}
	if !strings.Contains(lines[2], "-") {
		t.Errorf("s2 row should show unknown count: %q", lines[2])
	}
}

func TestLogTableRendersFacets(t *testing.T) {
	r := NewRenderer()
	out := &syncWriter{}
	r.LogTable(out, []types.LogRecord{
		{ProcessName: "runtime", Source: "runtime", Level: "ERROR", EventType: "exit",
			Payload: json.RawMessage(`{"code":1}`), Timestamp: "2026-01-01T00:00:00Z"},
	})
	got := out.String()
	for _, want := range []string{"runtime", "exit", `{"code":1}`} {
		if !strings.Contains(got, want) {
			t.Errorf("log table missing %q:\n%s", want, got)
		}
	}
}
