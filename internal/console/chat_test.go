package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/types"
)

// sseEvent is one named event a fake stream handler emits.
type sseEvent struct {
	Type string
	Data any
}

func writeSSE(t *testing.T, w http.ResponseWriter, events []sseEvent) {
	t.Helper()
	flusher, ok := w.(http.Flusher)
	if !ok {
		t.Fatal("response writer does not support flushing")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for _, ev := range events {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			t.Errorf("marshal event: %v", err)
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
		flusher.Flush()
	}
}

func newChatBackend(t *testing.T, messages map[types.SessionID][]types.Message, streams map[types.SessionID][]sseEvent) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for id, msgs := range messages {
		msgs := msgs
		mux.HandleFunc("/api/v1/chat/sessions/"+string(id)+"/messages", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(msgs)
		})
	}
	for id, events := range streams {
		events := events
		mux.HandleFunc("/api/v1/chat/sessions/"+string(id)+"/stream", func(w http.ResponseWriter, r *http.Request) {
			writeSSE(t, w, events)
			// Hold the connection open until the client walks away.
			<-r.Context().Done()
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	client, err := api.NewClient(api.ClientConfig{BaseURL: baseURL + "/api/v1"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// syncWriter keeps handler goroutines and test assertions from racing
// on the output buffer.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestAttachMergesSnapshotWithDeltas(t *testing.T) {
	srv := newChatBackend(t,
		map[types.SessionID][]types.Message{
			"s1": {{ID: "m1", SessionID: "s1", Role: "assistant", Content: "Hi", Status: "streaming", CreatedAt: "2026-01-01T00:00:10Z"}},
		},
		map[types.SessionID][]sseEvent{
			"s1": {{Type: "chat.token", Data: map[string]any{"session_id": "s1", "message_id": "m1", "token": " there"}}},
		})

	out := &syncWriter{}
	c := NewChatController(newTestClient(t, srv.URL), NewRenderer(), nil, out)
	if err := c.Attach(context.Background(), "s1"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer c.Detach()

	waitFor(t, func() bool {
		msgs := c.Transcript()
		return len(msgs) == 1 && msgs[0].Content == "Hi there"
	}, "delta merge")

	msgs := c.Transcript()
	if msgs[0].ID != "m1" {
		t.Fatalf("message id = %s", msgs[0].ID)
	}
}

func TestReattachDoesNotDuplicateFinalContent(t *testing.T) {
	final := sseEvent{Type: "chat.final", Data: map[string]any{"session_id": "s1", "message_id": "m1", "content": "done"}}
	srv := newChatBackend(t,
		map[types.SessionID][]types.Message{
			"s1": {{ID: "m1", SessionID: "s1", Role: "assistant", Content: "done", Status: "final", CreatedAt: "2026-01-01T00:00:10Z"}},
		},
		map[types.SessionID][]sseEvent{"s1": {final}})

	out := &syncWriter{}
	c := NewChatController(newTestClient(t, srv.URL), NewRenderer(), nil, out)

	// The stream re-delivers the final event on each open; the transcript
	// must still hold exactly one message.
	for i := 0; i < 2; i++ {
		if err := c.Attach(context.Background(), "s1"); err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
		waitFor(t, func() bool { return strings.Contains(out.String(), "\n") || c.Transcript()[0].Content == "done" }, "final applied")
	}
	defer c.Detach()

	msgs := c.Transcript()
	if len(msgs) != 1 {
		t.Fatalf("transcript has %d messages, want 1", len(msgs))
	}
	if msgs[0].Content != "done" {
		t.Fatalf("content = %q", msgs[0].Content)
	}
}

func TestSwitchingSessionsClosesOldStreamFirst(t *testing.T) {
	firstClosed := make(chan struct{})
	secondSawFirstClosed := make(chan bool, 1)

	mux := http.NewServeMux()
	for _, id := range []string{"s1", "s2"} {
		id := id
		mux.HandleFunc("/api/v1/chat/sessions/"+id+"/messages", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]types.Message{})
		})
	}
	mux.HandleFunc("/api/v1/chat/sessions/s1/stream", func(w http.ResponseWriter, r *http.Request) {
		writeSSE(t, w, nil)
		<-r.Context().Done()
		close(firstClosed)
	})
	mux.HandleFunc("/api/v1/chat/sessions/s2/stream", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-firstClosed:
			secondSawFirstClosed <- true
		case <-time.After(2 * time.Second):
			secondSawFirstClosed <- false
		}
		writeSSE(t, w, nil)
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	out := &syncWriter{}
	c := NewChatController(newTestClient(t, srv.URL), NewRenderer(), nil, out)
	if err := c.Attach(context.Background(), "s1"); err != nil {
		t.Fatalf("attach s1: %v", err)
	}
	if err := c.Attach(context.Background(), "s2"); err != nil {
		t.Fatalf("attach s2: %v", err)
	}
	defer c.Detach()

	if !<-secondSawFirstClosed {
		t.Fatal("second stream opened before the first was closed")
	}
	if id, ok := c.Active(); !ok || id != "s2" {
		t.Fatalf("active = %s/%v, want s2", id, ok)
	}
}

func TestMalformedEventPayloadIsDroppedNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/chat/sessions/s1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]types.Message{})
	})
	mux.HandleFunc("/api/v1/chat/sessions/s1/stream", func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: chat.token\ndata: {not json\n\n")
		fmt.Fprint(w, "event: chat.token\ndata: {\"message_id\":\"m9\",\"token\":\"ok\"}\n\n")
		flusher.Flush()
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	out := &syncWriter{}
	c := NewChatController(newTestClient(t, srv.URL), NewRenderer(), nil, out)
	if err := c.Attach(context.Background(), "s1"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer c.Detach()

	// The well-formed event after the malformed one still applies, as an
	// append since m9 is unknown.
	waitFor(t, func() bool { return len(c.Transcript()) == 1 && c.Transcript()[0].Content == "ok" }, "event after malformed payload")
}
