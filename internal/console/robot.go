package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/dispatch"
	"github.com/kifhan/grumpyclaw/internal/stream"
	"github.com/kifhan/grumpyclaw/internal/timeline"
	"github.com/kifhan/grumpyclaw/internal/types"
)

// robotTimelineCap bounds the robot feedback tail.
const robotTimelineCap = 30

// RobotController owns the robot view: power control, actuation through
// the risky dispatch tier, and the feedback tail.
type RobotController struct {
	client     *api.Client
	dispatcher *dispatch.Dispatcher
	renderer   *Renderer
	logger     *slog.Logger
	out        io.Writer
	alerter    Alerter

	// FeedbackCap overrides the feedback tail capacity; zero uses the
	// default.
	FeedbackCap int

	feedback *timeline.Timeline
}

// NewRobotController creates a robot controller. alerter may be nil.
func NewRobotController(client *api.Client, dispatcher *dispatch.Dispatcher, renderer *Renderer, logger *slog.Logger, out io.Writer, alerter Alerter) *RobotController {
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotController{
		client:     client,
		dispatcher: dispatcher,
		renderer:   renderer,
		logger:     logger,
		out:        out,
		alerter:    alerter,
	}
}

// Status prints the backend's robot status blob verbatim.
func (c *RobotController) Status(ctx context.Context) error {
	raw, err := c.client.RobotStatus(ctx)
	if err != nil {
		return fmt.Errorf("robot status: %w", err)
	}
	fmt.Fprintln(c.out, c.renderer.StatusBlob(raw))
	return nil
}

// Control dispatches a robot power action.
func (c *RobotController) Control(ctx context.Context, action string) error {
	var (
		resp *api.RobotControlResponse
		err  error
	)
	switch action {
	case "start":
		resp, err = c.dispatcher.RobotStart(ctx)
	case "stop":
		resp, err = c.dispatcher.RobotStop(ctx)
	case "restart":
		resp, err = c.dispatcher.RobotRestart(ctx)
	default:
		return fmt.Errorf("unknown robot action %q", action)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "ok=%v %s\n", resp.OK, resp.Message)
	return nil
}

// Act submits one actuation command through the risky tier. A rejection
// is a normal outcome printed with the backend's reason, not an error.
func (c *RobotController) Act(ctx context.Context, action types.RobotAction) error {
	result, err := c.dispatcher.SubmitRobotAction(ctx, action)
	if err != nil {
		return err
	}
	if !result.Accepted {
		fmt.Fprintln(c.out, warnStyle.Render("rejected: "+result.Reason))
		return nil
	}
	fmt.Fprintf(c.out, "accepted %s\n", result.ActionID)
	return nil
}

// Follow tails the robot feedback channel until the stream ends or ctx
// is canceled. The channel interleaves tool lifecycle frames with
// feedback verdicts; both land in the same bounded tail.
func (c *RobotController) Follow(ctx context.Context) error {
	c.feedback = timeline.New(capOr(c.FeedbackCap, robotTimelineCap))

	s, err := stream.Open(ctx, c.client.HTTPClient(), c.client.RuntimeStreamURL("robot-feedback"), c.logger)
	if err != nil {
		return fmt.Errorf("open robot stream: %w", err)
	}
	defer s.Close()

	s.On("tool.event", func(data []byte) {
		var ev toolEvent
		if !decodeEvent(c.logger, "tool.event", data, &ev) {
			return
		}
		entry := c.feedback.Append(timeline.Entry{
			Timestamp: ev.TS,
			Kind:      timeline.KindTool,
			Label:     ev.label(),
			Content:   strings.TrimSpace(ev.Phase + " " + ev.Message),
		})
		c.renderer.Entry(c.out, entry)
	})

	s.On("robot.feedback", func(data []byte) {
		var ev robotFeedbackEvent
		if !decodeEvent(c.logger, "robot.feedback", data, &ev) {
			return
		}
		entry := c.feedback.Append(timeline.Entry{
			Timestamp: ev.TS,
			Kind:      timeline.KindStatus,
			Label:     "robot",
			Content:   ev.State + " " + ev.Message,
		})
		c.renderer.Entry(c.out, entry)

		if ev.State == "error" && c.alerter != nil {
			c.alerter.RobotError(ev.Message)
		}
	})
	s.Start()

	select {
	case <-ctx.Done():
		return nil
	case <-s.Done():
		return s.Err()
	}
}
