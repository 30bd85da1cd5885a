package console

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kifhan/grumpyclaw/internal/dispatch"
)

func newAdminController(t *testing.T, srv *httptest.Server, out *syncWriter) *AdminController {
	t.Helper()
	client := newTestClient(t, srv.URL)
	return NewAdminController(client, dispatch.New(client, nil), NewRenderer(), nil, out)
}

func TestSkillsTableShowsPreview(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/skills", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"sk-1","name":"water-plants","path":"/skills/water.md","preview":"# Water the plants\nEvery morning."}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	out := &syncWriter{}
	c := newAdminController(t, srv, out)
	if err := c.Skills(context.Background()); err != nil {
		t.Fatalf("skills: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "PREVIEW") {
		t.Fatalf("missing preview column: %q", got)
	}
	if !strings.Contains(got, "# Water the plants") {
		t.Fatalf("preview content missing: %q", got)
	}
	if strings.Contains(got, "Every morning.") {
		t.Fatalf("preview must be trimmed to its first line: %q", got)
	}
}

func TestHeartbeatHistoryColumns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/heartbeat/history", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":3,"status":"NOTIFY","message":"water low","context":{"pending_tasks":[]},"created_at":"2026-01-02T03:04:05Z"}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	out := &syncWriter{}
	c := newAdminController(t, srv, out)
	if err := c.HeartbeatHistory(context.Background(), 10); err != nil {
		t.Fatalf("history: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "2026-01-02T03:04:05Z") || !strings.Contains(got, "NOTIFY") || !strings.Contains(got, "water low") {
		t.Fatalf("history row incomplete: %q", got)
	}
}
