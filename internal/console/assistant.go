package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/stream"
	"github.com/kifhan/grumpyclaw/internal/timeline"
	"github.com/kifhan/grumpyclaw/internal/types"
)

// toolTimelineCap bounds the assistant view's tool activity feed.
const toolTimelineCap = 30

// AssistantController owns the assistant view: sessions, transcript
// following, and a bounded tool activity timeline fed by assistant.tool
// events.
type AssistantController struct {
	client   *api.Client
	renderer *Renderer
	logger   *slog.Logger
	out      io.Writer

	// ToolCap overrides the tool feed capacity; zero uses the default.
	ToolCap int

	mu         sync.Mutex
	current    *stream.Stream
	transcript *timeline.Transcript
	tools      *timeline.Timeline
}

// NewAssistantController creates a detached assistant controller.
func NewAssistantController(client *api.Client, renderer *Renderer, logger *slog.Logger, out io.Writer) *AssistantController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistantController{
		client:   client,
		renderer: renderer,
		logger:   logger,
		out:      out,
	}
}

// Sessions lists assistant sessions.
func (c *AssistantController) Sessions(ctx context.Context, mode string, limit int) error {
	sessions, err := c.client.ListAssistantSessions(ctx, api.ListSessionsOptions{Mode: mode, Limit: limit})
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	c.renderer.SessionTable(c.out, sessions, nil)
	return nil
}

// Send posts an operator message into an assistant session.
func (c *AssistantController) Send(ctx context.Context, id types.SessionID, text string) error {
	resp, err := c.client.PostAssistantMessage(ctx, id, text)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	fmt.Fprintf(c.out, "queued %s\n", resp.MessageID)
	return nil
}

// Follow attaches to an assistant session and blocks until the stream
// ends or ctx is canceled. Token deltas print as they arrive; tool
// lifecycle events append to the bounded tool feed and print as status
// lines.
func (c *AssistantController) Follow(ctx context.Context, id types.SessionID) error {
	c.Detach()

	messages, err := c.client.ListAssistantMessages(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch transcript: %w", err)
	}
	tr := timeline.NewTranscript()
	tr.Seed(messages)
	tools := timeline.New(capOr(c.ToolCap, toolTimelineCap))

	s, err := stream.Open(ctx, c.client.HTTPClient(), c.client.AssistantStreamURL(id), c.logger)
	if err != nil {
		return fmt.Errorf("open assistant stream: %w", err)
	}

	s.On("assistant.token", func(data []byte) {
		var ev tokenEvent
		if !decodeEvent(c.logger, "assistant.token", data, &ev) {
			return
		}
		tr.ApplyDelta(ev.MessageID, ev.Token, ev.Seq)
		fmt.Fprint(c.out, ev.Token)
	})
	s.On("assistant.final", func(data []byte) {
		var ev finalEvent
		if !decodeEvent(c.logger, "assistant.final", data, &ev) {
			return
		}
		tr.ApplyFinal(ev.MessageID, ev.Content)
		fmt.Fprintln(c.out)
	})
	s.On("assistant.tool", func(data []byte) {
		var ev toolEvent
		if !decodeEvent(c.logger, "assistant.tool", data, &ev) {
			return
		}
		entry := tools.Append(timeline.Entry{
			Timestamp: ev.TS,
			Kind:      timeline.KindTool,
			Label:     ev.label(),
			Content:   ev.Phase + " " + compactPayload(ev.Result),
		})
		c.renderer.Entry(c.out, entry)
	})
	s.On("assistant.error", func(data []byte) {
		var ev errorEvent
		if !decodeEvent(c.logger, "assistant.error", data, &ev) {
			return
		}
		fmt.Fprintln(c.out, errorStyle.Render("error: "+ev.Error))
	})
	s.Start()

	c.mu.Lock()
	c.current = s
	c.transcript = tr
	c.tools = tools
	c.mu.Unlock()
	defer c.Detach()

	for _, msg := range tr.Messages() {
		c.renderer.Message(c.out, msg)
	}

	select {
	case <-ctx.Done():
		return nil
	case <-s.Done():
		return s.Err()
	}
}

// Detach closes the active stream, if any.
func (c *AssistantController) Detach() {
	c.mu.Lock()
	s := c.current
	c.current = nil
	c.transcript = nil
	c.tools = nil
	c.mu.Unlock()

	if s != nil {
		s.Close()
	}
}
