package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/dispatch"
)

// AdminController owns the snapshot-style admin views: structured logs,
// memory search, skills, heartbeat, and backend health.
type AdminController struct {
	client     *api.Client
	dispatcher *dispatch.Dispatcher
	renderer   *Renderer
	logger     *slog.Logger
	out        io.Writer
}

// NewAdminController creates an admin controller.
func NewAdminController(client *api.Client, dispatcher *dispatch.Dispatcher, renderer *Renderer, logger *slog.Logger, out io.Writer) *AdminController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminController{
		client:     client,
		dispatcher: dispatcher,
		renderer:   renderer,
		logger:     logger,
		out:        out,
	}
}

// Logs queries structured logs. Filtering happens at the request
// boundary: omitted facets never reach the query string.
func (c *AdminController) Logs(ctx context.Context, filter api.LogFilter) error {
	resp, err := c.client.Logs(ctx, filter)
	if err != nil {
		return fmt.Errorf("query logs: %w", err)
	}
	c.renderer.LogTable(c.out, resp.Items)
	return nil
}

// Memory searches the agent's memory store and prints the hits.
func (c *AdminController) Memory(ctx context.Context, query string, topK int) error {
	hits, err := c.dispatcher.MemorySearch(ctx, query, topK)
	if err != nil {
		return fmt.Errorf("memory search: %w", err)
	}
	for _, hit := range hits {
		fmt.Fprintf(c.out, "%s (%.3f)\n%s\n\n", statusStyle.Render(hit.Title), hit.Score, c.renderer.Content(hit.Content))
	}
	return nil
}

// Skills lists the runnable skills.
func (c *AdminController) Skills(ctx context.Context) error {
	skills, err := c.client.Skills(ctx)
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPREVIEW")
	for _, s := range skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Name, firstLine(s.Preview))
	}
	return tw.Flush()
}

// firstLine trims a skill preview down to its first line so the table
// stays one row per skill.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// RunSkill executes one skill and prints its raw result.
func (c *AdminController) RunSkill(ctx context.Context, id string) error {
	result, err := c.dispatcher.RunSkill(ctx, id)
	if err != nil {
		return fmt.Errorf("run skill: %w", err)
	}
	fmt.Fprintln(c.out, compactPayload(result))
	return nil
}

// HeartbeatEvaluate triggers a manual heartbeat and prints the result.
func (c *AdminController) HeartbeatEvaluate(ctx context.Context) error {
	result, err := c.client.HeartbeatEvaluate(ctx)
	if err != nil {
		return fmt.Errorf("heartbeat evaluate: %w", err)
	}
	fmt.Fprintf(c.out, "%s %s\n", result.Status, result.Message)
	return nil
}

// HeartbeatHistory lists recent heartbeat evaluations.
func (c *AdminController) HeartbeatHistory(ctx context.Context, limit int) error {
	results, err := c.client.HeartbeatHistory(ctx, limit)
	if err != nil {
		return fmt.Errorf("heartbeat history: %w", err)
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSTATUS\tMESSAGE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.CreatedAt, r.Status, r.Message)
	}
	return tw.Flush()
}

// Health checks the backend and prints its public configuration
// highlights.
func (c *AdminController) Health(ctx context.Context) error {
	health, err := c.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	fmt.Fprintf(c.out, "backend: %s\n", health.Status)

	cfg, err := c.client.GetPublicConfig(ctx)
	if err != nil {
		return fmt.Errorf("fetch public config: %w", err)
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "text model\t%s\n", cfg.OpenAITextModel)
	fmt.Fprintf(tw, "realtime model\t%s\n", cfg.OpenAIRealtimeModel)
	fmt.Fprintf(tw, "heartbeat interval\t%ds\n", cfg.HeartbeatIntervalSeconds)
	fmt.Fprintf(tw, "robot rate limit\t%gs\n", cfg.RobotRateLimitSeconds)
	fmt.Fprintf(tw, "speak confirm threshold\t%d\n", cfg.RobotSpeakConfirmThreshold)
	return tw.Flush()
}
