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

// ChatController owns the chat view: session listing, message posting,
// and a live transcript that merges the REST snapshot with the
// session's push topic. The transcript cache belongs to this controller
// alone and is discarded on every session switch.
type ChatController struct {
	client   *api.Client
	renderer *Renderer
	logger   *slog.Logger
	out      io.Writer

	mu         sync.Mutex
	current    *stream.Stream
	currentID  types.SessionID
	transcript *timeline.Transcript
}

// NewChatController creates a detached chat controller.
func NewChatController(client *api.Client, renderer *Renderer, logger *slog.Logger, out io.Writer) *ChatController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatController{
		client:   client,
		renderer: renderer,
		logger:   logger,
		out:      out,
	}
}

// Sessions lists chat sessions with an approximate token count per
// transcript.
func (c *ChatController) Sessions(ctx context.Context, mode string, limit int) error {
	sessions, err := c.client.ListChatSessions(ctx, api.ListSessionsOptions{Mode: mode, Limit: limit})
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	counts := make(map[types.SessionID]int, len(sessions))
	for _, s := range sessions {
		messages, err := c.client.ListChatMessages(ctx, s.ID)
		if err != nil {
			c.logger.Debug("skipping token count", "session_id", string(s.ID), "error", err)
			continue
		}
		total := 0
		for _, m := range messages {
			n := c.renderer.TokenCount(m.Content)
			if n < 0 {
				total = -1
				break
			}
			total += n
		}
		counts[s.ID] = total
	}

	c.renderer.SessionTable(c.out, sessions, counts)
	return nil
}

// NewSession creates a chat session and prints its identifier.
func (c *ChatController) NewSession(ctx context.Context, mode, title string) error {
	created, err := c.client.CreateChatSession(ctx, mode, title)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	fmt.Fprintln(c.out, created.SessionID)
	return nil
}

// Send posts an operator message into a session. The reply arrives over
// the session's push topic, not in this response.
func (c *ChatController) Send(ctx context.Context, id types.SessionID, text string) error {
	resp, err := c.client.PostChatMessage(ctx, id, text)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	fmt.Fprintf(c.out, "queued %s\n", resp.MessageID)
	return nil
}

// Attach makes id the active session: the previous session's stream is
// fully closed first, then the snapshot is fetched, seeded, and the new
// topic opened. Exactly one stream is open after Attach returns.
func (c *ChatController) Attach(ctx context.Context, id types.SessionID) error {
	c.Detach()

	messages, err := c.client.ListChatMessages(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch transcript: %w", err)
	}
	tr := timeline.NewTranscript()
	tr.Seed(messages)

	s, err := stream.Open(ctx, c.client.HTTPClient(), c.client.ChatStreamURL(id), c.logger)
	if err != nil {
		return fmt.Errorf("open chat stream: %w", err)
	}

	s.On("chat.token", func(data []byte) {
		var ev tokenEvent
		if !decodeEvent(c.logger, "chat.token", data, &ev) {
			return
		}
		tr.ApplyDelta(ev.MessageID, ev.Token, ev.Seq)
		fmt.Fprint(c.out, ev.Token)
	})
	s.On("chat.final", func(data []byte) {
		var ev finalEvent
		if !decodeEvent(c.logger, "chat.final", data, &ev) {
			return
		}
		tr.ApplyFinal(ev.MessageID, ev.Content)
		fmt.Fprintln(c.out)
	})
	s.On("chat.error", func(data []byte) {
		var ev errorEvent
		if !decodeEvent(c.logger, "chat.error", data, &ev) {
			return
		}
		fmt.Fprintln(c.out, errorStyle.Render("error: "+ev.Error))
	})
	s.Start()

	c.mu.Lock()
	c.current = s
	c.currentID = id
	c.transcript = tr
	c.mu.Unlock()
	return nil
}

// Detach closes the active session's stream, if any. No handler fires
// after it returns.
func (c *ChatController) Detach() {
	c.mu.Lock()
	s := c.current
	c.current = nil
	c.currentID = ""
	c.transcript = nil
	c.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// Active reports which session the controller is attached to.
func (c *ChatController) Active() (types.SessionID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID, c.current != nil
}

// Transcript returns the attached session's merged messages.
func (c *ChatController) Transcript() []types.Message {
	c.mu.Lock()
	tr := c.transcript
	c.mu.Unlock()
	if tr == nil {
		return nil
	}
	return tr.Messages()
}

// Follow attaches to a session, prints the snapshot, and blocks until
// the stream ends or ctx is canceled. The stream is torn down on every
// exit path.
func (c *ChatController) Follow(ctx context.Context, id types.SessionID) error {
	if err := c.Attach(ctx, id); err != nil {
		return err
	}
	defer c.Detach()

	for _, msg := range c.Transcript() {
		c.renderer.Message(c.out, msg)
	}

	c.mu.Lock()
	s := c.current
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil
	case <-s.Done():
		return s.Err()
	}
}
