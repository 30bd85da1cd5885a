// Package stream opens and demultiplexes the backend's push
// connections. One Stream per logical topic (a chat session, the
// runtime bus, the realtime bus); the owning view controller must close
// it on teardown and before opening a replacement.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/kifhan/grumpyclaw/internal/api"
)

// Handler receives the raw JSON payload for one event. Handlers run on
// the stream's dispatch goroutine in delivery order; events for types
// with no registered handler are dropped silently.
type Handler func(data []byte)

// Stream is one open push connection. Register handlers with On or
// OnAny, then call Start to begin dispatching. Close is idempotent and
// guarantees that no handler fires after it returns.
type Stream struct {
	body   io.ReadCloser
	cancel context.CancelFunc
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[string][]Handler
	anyAll   []func(eventType string, data []byte)
	closed   bool

	wg   sync.WaitGroup
	done chan struct{}

	errMu sync.Mutex
	err   error
}

// Open connects to an event-stream URL through the given HTTP client.
// A non-200 response fails with *api.Error carrying the response body.
// The connection lives until Close or until ctx is cancelled. The
// transport's own reconnect behavior is not wrapped here; a dropped
// stream surfaces through Done and Err, and the periodic REST refresh
// reconciles anything missed.
func Open(ctx context.Context, httpClient *http.Client, url string, logger *slog.Logger) (*Stream, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stream: create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stream: connect %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, &api.Error{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return &Stream{
		body:     resp.Body,
		cancel:   cancel,
		logger:   logger,
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}, nil
}

// On registers a handler for an exact event type tag. Must be called
// before Start.
func (s *Stream) On(eventType string, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[eventType] = append(s.handlers[eventType], handler)
}

// OnAny registers a handler for every event regardless of type. Used by
// views that classify events themselves (runtime, logs). Must be called
// before Start.
func (s *Stream) OnAny(handler func(eventType string, data []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anyAll = append(s.anyAll, handler)
}

// Start begins the read-and-dispatch loop. Within one stream, handlers
// run in delivery order; across streams no relative order is guaranteed.
func (s *Stream) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Stream) loop() {
	defer s.wg.Done()
	defer close(s.done)

	scanner := NewScanner(s.body)
	for scanner.Next() {
		event := scanner.Current()
		if !s.dispatch(event) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.errMu.Lock()
		s.err = err
		s.errMu.Unlock()
	}
}

// dispatch invokes handlers for one event while holding the handler
// lock, so Close cannot return while a handler is mid-flight. Returns
// false once the stream is closed.
func (s *Stream) dispatch(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	data := []byte(event.Data)
	for _, handler := range s.handlers[event.Type] {
		handler(data)
	}
	for _, handler := range s.anyAll {
		handler(event.Type, data)
	}
	return true
}

// Close tears down the connection. After Close returns, no handler
// fires: the dispatch loop checks the closed flag under the same lock
// Close takes, and Close waits for the loop to exit.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	err := s.body.Close()
	s.wg.Wait()
	return err
}

// Done is closed when the read loop has exited, whether from Close or
// from the server ending the stream.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err reports the terminal read error after the stream ends. A clean
// close, parent context cancellation, or server EOF returns nil; watch
// mode uses this to tell transport loss from shutdown.
func (s *Stream) Err() error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	s.errMu.Lock()
	defer s.errMu.Unlock()
	if closed || errors.Is(s.err, context.Canceled) {
		return nil
	}
	return s.err
}
