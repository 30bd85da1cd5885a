package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kifhan/grumpyclaw/internal/api"
)

// sseServer streams the given frames, then holds the connection open
// until the client disconnects.
func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		flusher.Flush()
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpen_NonSuccessIsTypedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such session", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, err := Open(context.Background(), nil, server.URL, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 *api.Error, got %v", err)
	}
}

func TestStream_DispatchesByTypeInOrder(t *testing.T) {
	server := sseServer(t, []string{
		"event: chat.token\ndata: {\"token\":\"a\"}\n\n",
		"event: chat.token\ndata: {\"token\":\"b\"}\n\n",
		"event: chat.final\ndata: {\"content\":\"ab\"}\n\n",
		"event: totally.unknown\ndata: {}\n\n",
	})

	s, err := Open(context.Background(), nil, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var tokens []string
	finalSeen := make(chan struct{})
	s.On("chat.token", func(data []byte) {
		tokens = append(tokens, string(data))
	})
	s.On("chat.final", func(data []byte) {
		close(finalSeen)
	})
	s.Start()

	select {
	case <-finalSeen:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for final event")
	}

	if len(tokens) != 2 || tokens[0] != `{"token":"a"}` || tokens[1] != `{"token":"b"}` {
		t.Errorf("tokens must arrive in delivery order, got %v", tokens)
	}
}

func TestStream_OnAnyReceivesEverything(t *testing.T) {
	server := sseServer(t, []string{
		"event: process.started\ndata: {\"pid\":1}\n\n",
		"event: runtime.heartbeat\ndata: {\"status\":\"HEARTBEAT_OK\"}\n\n",
	})

	s, err := Open(context.Background(), nil, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	seen := make(chan string, 2)
	s.OnAny(func(eventType string, data []byte) {
		seen <- eventType
	})
	s.Start()

	for _, want := range []string{"process.started", "runtime.heartbeat"} {
		select {
		case got := <-seen:
			if got != want {
				t.Errorf("expected %s, got %s", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestStream_NoHandlerFiresAfterClose(t *testing.T) {
	// Server emits events forever so Close always races mid-delivery.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; ; i++ {
			if _, err := fmt.Fprintf(w, "event: tick\ndata: {\"n\":%d}\n\n", i); err != nil {
				return
			}
			flusher.Flush()
			select {
			case <-r.Context().Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}))
	t.Cleanup(server.Close)

	s, err := Open(context.Background(), nil, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	var count atomic.Int64
	first := make(chan struct{}, 1)
	s.On("tick", func(data []byte) {
		count.Add(1)
		select {
		case first <- struct{}{}:
		default:
		}
	})
	s.Start()

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first event")
	}

	if err := s.Close(); err != nil {
		t.Logf("close: %v", err)
	}
	after := count.Load()

	// A handler firing after logical cancellation is a correctness bug,
	// not an accepted race.
	time.Sleep(50 * time.Millisecond)
	if got := count.Load(); got != after {
		t.Errorf("handler fired after Close: %d -> %d", after, got)
	}
}

func TestStream_CloseIsIdempotent(t *testing.T) {
	server := sseServer(t, nil)

	s, err := Open(context.Background(), nil, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()

	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}
}

func TestStream_DoneClosesOnServerEOF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: tick\ndata: {}\n\n")
	}))
	t.Cleanup(server.Close)

	s, err := Open(context.Background(), nil, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.Start()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done must close when the server ends the stream")
	}
	if err := s.Err(); err != nil {
		t.Errorf("clean server EOF must not report an error, got %v", err)
	}
}

func TestStream_ErrNilOnShutdownPaths(t *testing.T) {
	// Parent context cancellation.
	server := sseServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	s, err := Open(ctx, nil, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	cancel()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done must close after context cancellation")
	}
	if err := s.Err(); err != nil {
		t.Errorf("cancellation must not report an error, got %v", err)
	}
	s.Close()

	// Explicit Close, where the read fails on the closed body rather
	// than on the canceled context.
	s2, err := Open(context.Background(), nil, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	s2.Start()
	s2.Close()
	if err := s2.Err(); err != nil {
		t.Errorf("close must not report an error, got %v", err)
	}
}
