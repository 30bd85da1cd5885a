package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/dispatch"
	"github.com/kifhan/grumpyclaw/internal/stream"
	"github.com/kifhan/grumpyclaw/internal/timeline"
	"github.com/kifhan/grumpyclaw/internal/types"
)

// runtimeTimelineCap bounds the runtime event tail.
const runtimeTimelineCap = 100

// Alerter receives watch-mode alerts. The Telegram notifier satisfies
// it; a nil Alerter disables alerting.
type Alerter interface {
	ProcessExit(processName string, detail string)
	RobotError(message string)
	HeartbeatFailed(detail string)
}

// RuntimeController owns the runtime supervision view: the process
// status store, the runtime event tail, and process control actions.
type RuntimeController struct {
	client     *api.Client
	dispatcher *dispatch.Dispatcher
	renderer   *Renderer
	logger     *slog.Logger
	out        io.Writer
	alerter    Alerter

	// TailCap overrides the event tail capacity; zero uses the default.
	TailCap int

	statuses *timeline.StatusStore
	events   *timeline.Timeline
}

func capOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}

// NewRuntimeController creates a runtime controller. alerter may be nil.
func NewRuntimeController(client *api.Client, dispatcher *dispatch.Dispatcher, renderer *Renderer, logger *slog.Logger, out io.Writer, alerter Alerter) *RuntimeController {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuntimeController{
		client:     client,
		dispatcher: dispatcher,
		renderer:   renderer,
		logger:     logger,
		out:        out,
		alerter:    alerter,
		statuses:   timeline.NewStatusStore(),
	}
}

// Status fetches the authoritative process map, replaces the local
// store, and prints it.
func (c *RuntimeController) Status(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.printStatuses()
	return nil
}

// Refresh re-fetches the process status snapshot. Watch mode calls this
// on a schedule to reconcile drift after silent stream reconnects.
func (c *RuntimeController) Refresh(ctx context.Context) error {
	statuses, err := c.client.RuntimeStatus(ctx)
	if err != nil {
		return fmt.Errorf("runtime status: %w", err)
	}
	c.statuses.ReplaceAll(statuses)
	return nil
}

// Known reports whether a process name exists in the status store.
// Control surfaces use this for enablement, never the blob's fields.
func (c *RuntimeController) Known(name string) bool {
	_, ok := c.statuses.Get(name)
	return ok
}

// StatusBlob returns one process's backend-owned status blob verbatim.
func (c *RuntimeController) StatusBlob(name string) (json.RawMessage, bool) {
	return c.statuses.Get(name)
}

// Control dispatches a start/stop/restart for a named process and
// prints the result.
func (c *RuntimeController) Control(ctx context.Context, action, name string) error {
	var (
		resp *api.ProcessActionResponse
		err  error
	)
	switch action {
	case "start":
		resp, err = c.dispatcher.StartProcess(ctx, name)
	case "stop":
		resp, err = c.dispatcher.StopProcess(ctx, name)
	case "restart":
		resp, err = c.dispatcher.RestartProcess(ctx, name)
	default:
		return fmt.Errorf("unknown process action %q", action)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %s\n", resp.ProcessName, resp.Status)
	return nil
}

// Follow seeds from the status snapshot and the recent log tail, then
// tails the runtime bus until the stream ends or ctx is canceled.
func (c *RuntimeController) Follow(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}

	tailCap := capOr(c.TailCap, runtimeTimelineCap)
	c.events = timeline.New(tailCap)

	logs, err := c.client.Logs(ctx, api.LogFilter{Source: "runtime", Limit: tailCap})
	if err != nil {
		return fmt.Errorf("seed log tail: %w", err)
	}
	entries := make([]timeline.Entry, 0, len(logs.Items))
	for _, item := range logs.Items {
		entries = append(entries, logEntry(item))
	}
	c.events.Seed(entries)

	c.printStatuses()
	c.renderer.Timeline(c.out, c.events.Entries())

	s, err := stream.Open(ctx, c.client.HTTPClient(), c.client.RuntimeStreamURL("runtime"), c.logger)
	if err != nil {
		return fmt.Errorf("open runtime stream: %w", err)
	}
	defer s.Close()

	c.register(s)
	s.Start()

	select {
	case <-ctx.Done():
		return nil
	case <-s.Done():
		return s.Err()
	}
}

// register wires the runtime bus event types into the merge policies:
// process lifecycle and log lines append to the tail, status payloads
// replace the single process's field, heartbeat ticks append as status
// entries.
func (c *RuntimeController) register(s *stream.Stream) {
	for _, eventType := range []string{"process.started", "process.stopped", "process.exit", "process.log"} {
		eventType := eventType
		s.On(eventType, func(data []byte) {
			var rec types.LogRecord
			if !decodeEvent(c.logger, eventType, data, &rec) {
				return
			}
			if rec.EventType == "" {
				rec.EventType = strings.TrimPrefix(eventType, "process.")
			}
			entry := c.events.Append(logEntry(rec))
			c.renderer.Entry(c.out, entry)

			if len(rec.Payload) > 0 && rec.ProcessName != "" && eventType != "process.log" {
				c.statuses.Set(rec.ProcessName, rec.Payload)
			}
			if eventType == "process.exit" && c.alerter != nil {
				c.alerter.ProcessExit(rec.ProcessName, compactPayload(rec.Payload))
			}
		})
	}

	s.On("runtime.heartbeat", func(data []byte) {
		var ev heartbeatEvent
		if !decodeEvent(c.logger, "runtime.heartbeat", data, &ev) {
			return
		}
		entry := c.events.Append(timeline.Entry{
			Kind:    timeline.KindStatus,
			Label:   "heartbeat",
			Content: ev.Status + " " + ev.Message,
		})
		c.renderer.Entry(c.out, entry)

		if ev.Status == "failed" && c.alerter != nil {
			c.alerter.HeartbeatFailed(ev.Message)
		}
	})
}

func (c *RuntimeController) printStatuses() {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESS\tSTATUS")
	for _, name := range c.statuses.Names() {
		blob, _ := c.statuses.Get(name)
		fmt.Fprintf(tw, "%s\t%s\n", name, c.renderer.StatusBlob(blob))
	}
	tw.Flush()
}

func logEntry(rec types.LogRecord) timeline.Entry {
	content := compactPayload(rec.Payload)
	if rec.EventType != "" {
		content = rec.EventType + " " + content
	}
	return timeline.Entry{
		Timestamp: rec.Timestamp,
		Kind:      timeline.KindStatus,
		Label:     rec.ProcessName,
		Content:   strings.TrimSpace(content),
	}
}
