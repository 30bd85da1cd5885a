package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/probe"
	"github.com/kifhan/grumpyclaw/internal/types"
)

// DevicesController owns the device diagnostics view. Remote tests run
// against the robot's own hardware server-side and return a one-shot
// result. Local meters run through the capability probe state machine
// against whatever Device the host wires in.
type DevicesController struct {
	client   *api.Client
	renderer *Renderer
	logger   *slog.Logger
	out      io.Writer

	// LocalMic and LocalSpeaker are optional host-provided devices for
	// the local probe paths. Nil means no local hardware is wired.
	LocalMic     probe.Device
	LocalSpeaker probe.ToneDevice
}

// NewDevicesController creates a devices controller.
func NewDevicesController(client *api.Client, renderer *Renderer, logger *slog.Logger, out io.Writer) *DevicesController {
	if logger == nil {
		logger = slog.Default()
	}
	return &DevicesController{client: client, renderer: renderer, logger: logger, out: out}
}

// Status prints the robot's audio device inventory.
func (c *DevicesController) Status(ctx context.Context) error {
	status, err := c.client.AudioDeviceStatus(ctx)
	if err != nil {
		return fmt.Errorf("audio status: %w", err)
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "available\t%v\n", status.Available)
	if status.Message != "" {
		fmt.Fprintf(tw, "message\t%s\n", status.Message)
	}
	if status.InputDeviceID != nil {
		fmt.Fprintf(tw, "input\t#%d %s\n", *status.InputDeviceID, status.InputDeviceName)
	}
	if status.OutputDeviceID != nil {
		fmt.Fprintf(tw, "output\t#%d %s\n", *status.OutputDeviceID, status.OutputDeviceName)
	}
	return tw.Flush()
}

// TestSpeaker runs the remote speaker test.
func (c *DevicesController) TestSpeaker(ctx context.Context) error {
	result, err := c.client.TestRobotSpeaker(ctx)
	if err != nil {
		return fmt.Errorf("speaker test: %w", err)
	}
	c.printResult("speaker", result)
	return nil
}

// TestMic runs the remote microphone test.
func (c *DevicesController) TestMic(ctx context.Context) error {
	result, err := c.client.TestRobotMic(ctx)
	if err != nil {
		return fmt.Errorf("mic test: %w", err)
	}
	c.printResult("mic", result)
	return nil
}

// CheckCamera asks the backend whether its camera worker produces
// frames.
func (c *DevicesController) CheckCamera(ctx context.Context) error {
	result, err := c.client.CheckRobotCamera(ctx)
	if err != nil {
		return fmt.Errorf("camera check: %w", err)
	}
	if result.OK {
		fmt.Fprintln(c.out, "camera ok")
	} else {
		fmt.Fprintln(c.out, errorStyle.Render("camera: "+result.Message))
	}
	return nil
}

// MeterMic runs the local microphone level meter for the given
// duration. The probe releases every acquired handle on all exit paths,
// including ctx cancellation.
func (c *DevicesController) MeterMic(ctx context.Context, duration time.Duration) error {
	if c.LocalMic == nil {
		return fmt.Errorf("no local microphone wired")
	}

	p := probe.NewProbe(probe.Microphone, c.LocalMic,
		probe.WithLogger(c.logger),
		probe.WithLevelCallback(func(level float64) {
			fmt.Fprintf(c.out, "\rlevel %.3f", level)
		}))
	defer p.Stop()

	if err := p.Start(ctx); err != nil {
		fmt.Fprintln(c.out, errorStyle.Render(p.ErrorMessage()))
		return err
	}

	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}
	p.Stop()
	fmt.Fprintln(c.out)
	return nil
}

// ToneLocal plays a bounded test tone on the local speaker.
func (c *DevicesController) ToneLocal(ctx context.Context, duration time.Duration) error {
	if c.LocalSpeaker == nil {
		return fmt.Errorf("no local speaker wired")
	}
	return probe.ToneTest(ctx, c.LocalSpeaker, duration)
}

func (c *DevicesController) printResult(name string, result *types.DeviceTestResult) {
	if !result.OK {
		detail := result.Error
		if detail == "" {
			detail = result.Message
		}
		fmt.Fprintln(c.out, errorStyle.Render(name+": "+detail))
		return
	}
	line := name + " ok"
	if result.Level != nil {
		line += fmt.Sprintf(" level=%.3f", *result.Level)
	}
	if result.Samples != nil {
		line += fmt.Sprintf(" samples=%d", *result.Samples)
	}
	if result.Message != "" {
		line += " " + result.Message
	}
	fmt.Fprintln(c.out, line)
}
