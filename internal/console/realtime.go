package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/stream"
	"github.com/kifhan/grumpyclaw/internal/timeline"
)

// realtimeHistoryCap bounds the realtime event feed.
const realtimeHistoryCap = 200

// RealtimeController owns the assistant realtime voice view: session
// control plus a bounded archival feed of everything crossing the
// realtime bus.
type RealtimeController struct {
	client   *api.Client
	renderer *Renderer
	logger   *slog.Logger
	out      io.Writer

	// HistoryCap overrides the feed capacity; zero uses the default.
	HistoryCap int
}

// NewRealtimeController creates a realtime controller.
func NewRealtimeController(client *api.Client, renderer *Renderer, logger *slog.Logger, out io.Writer) *RealtimeController {
	if logger == nil {
		logger = slog.Default()
	}
	return &RealtimeController{client: client, renderer: renderer, logger: logger, out: out}
}

// Start brings the realtime voice session up.
func (c *RealtimeController) Start(ctx context.Context) error {
	resp, err := c.client.RealtimeStart(ctx)
	if err != nil {
		return fmt.Errorf("realtime start: %w", err)
	}
	fmt.Fprintf(c.out, "realtime started ok=%v %s\n", resp.OK, compactPayload(resp.Status))
	return nil
}

// Stop tears the realtime voice session down.
func (c *RealtimeController) Stop(ctx context.Context) error {
	resp, err := c.client.RealtimeStop(ctx)
	if err != nil {
		return fmt.Errorf("realtime stop: %w", err)
	}
	fmt.Fprintf(c.out, "realtime stopped ok=%v\n", resp.OK)
	return nil
}

// Status prints the backend's realtime status blob verbatim.
func (c *RealtimeController) Status(ctx context.Context) error {
	raw, err := c.client.RealtimeStatus(ctx)
	if err != nil {
		return fmt.Errorf("realtime status: %w", err)
	}
	fmt.Fprintln(c.out, c.renderer.StatusBlob(raw))
	return nil
}

// History prints the most recent realtime events.
func (c *RealtimeController) History(ctx context.Context, limit int) error {
	tl, err := c.seed(ctx, limit)
	if err != nil {
		return err
	}
	c.renderer.Timeline(c.out, tl.Entries())
	return nil
}

// Follow seeds from history, then tails the realtime bus until the
// stream ends or ctx is canceled. Every event type is archived; the
// feed does not interpret payloads.
func (c *RealtimeController) Follow(ctx context.Context) error {
	tl, err := c.seed(ctx, realtimeHistoryCap)
	if err != nil {
		return err
	}
	c.renderer.Timeline(c.out, tl.Entries())

	s, err := stream.Open(ctx, c.client.HTTPClient(), c.client.RealtimeStreamURL(), c.logger)
	if err != nil {
		return fmt.Errorf("open realtime stream: %w", err)
	}
	defer s.Close()

	s.OnAny(func(eventType string, data []byte) {
		entry := tl.Append(timeline.Entry{
			Kind:    timeline.KindStatus,
			Label:   eventType,
			Content: string(data),
		})
		c.renderer.Entry(c.out, entry)
	})
	s.Start()

	select {
	case <-ctx.Done():
		return nil
	case <-s.Done():
		return s.Err()
	}
}

func (c *RealtimeController) seed(ctx context.Context, limit int) (*timeline.Timeline, error) {
	feedCap := capOr(c.HistoryCap, realtimeHistoryCap)
	if limit <= 0 || limit > feedCap {
		limit = feedCap
	}
	events, err := c.client.RealtimeHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("realtime history: %w", err)
	}

	entries := make([]timeline.Entry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, timeline.Entry{
			Timestamp: ev.CreatedAt,
			Kind:      timeline.KindStatus,
			Label:     ev.EventType,
			Content:   compactPayload(ev.Payload),
		})
	}

	tl := timeline.New(feedCap)
	tl.Seed(entries)
	return tl, nil
}
