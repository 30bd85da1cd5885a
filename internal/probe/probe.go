// Package probe manages local hardware capability lifecycles:
// microphone level metering, camera preview, and the speaker test tone.
// Each capability runs an explicit acquire/measure/release state machine
// so handles never leak across view transitions or repeated operator
// actions. Handles are exclusively owned by the probe that acquired
// them; no other component touches them.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Capability is a local hardware resource class.
type Capability string

const (
	Microphone Capability = "microphone"
	Camera     Capability = "camera"
	Speaker    Capability = "speaker"
)

// State is the capability lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateActive     State = "active"
	StateStopping   State = "stopping"
	StateError      State = "error"
)

// Handle is one acquired hardware resource (a stream track, an analysis
// graph, an audio context). Release order is reverse acquisition order.
type Handle interface {
	Close() error
}

// Sampler produces one scalar level per sampling tick while a capture
// is active.
type Sampler interface {
	Sample() (float64, error)
}

// Capture is everything one acquisition produced: the handles in
// acquisition order plus the sampler that reads the live level.
type Capture struct {
	Handles []Handle
	Sampler Sampler
}

// Device acquires the underlying hardware for one capability. An
// Acquire that fails must release anything it partially acquired before
// returning.
type Device interface {
	Acquire(ctx context.Context) (*Capture, error)
}

// DefaultSampleInterval approximates one sample per rendering frame.
const DefaultSampleInterval = 33 * time.Millisecond

// Probe is the state machine for one capability within one view
// instance. At most one capture is active per probe; starting a new one
// first forces the old one through Stopping to Idle.
type Probe struct {
	capability Capability
	device     Device
	interval   time.Duration
	logger     *slog.Logger

	// onLevel publishes each sampled level to the owning view. Called
	// from the sampling goroutine; nil is allowed.
	onLevel func(float64)

	mu      sync.Mutex
	state   State
	errMsg  string
	capture *Capture
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	level   float64
}

// Option configures a Probe.
type Option func(*Probe)

// WithSampleInterval overrides the sampling cadence.
func WithSampleInterval(interval time.Duration) Option {
	return func(p *Probe) { p.interval = interval }
}

// WithLevelCallback sets the level publication callback.
func WithLevelCallback(fn func(float64)) Option {
	return func(p *Probe) { p.onLevel = fn }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Probe) { p.logger = logger }
}

// NewProbe creates an Idle probe for one capability.
func NewProbe(capability Capability, device Device, opts ...Option) *Probe {
	p := &Probe{
		capability: capability,
		device:     device,
		interval:   DefaultSampleInterval,
		logger:     slog.Default(),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start acquires the capability and begins the sampling loop. Any
// session already Active is fully released first, so exactly one
// session exists afterward. Acquisition failure moves to Error with a
// retained message; recovery requires another explicit Start.
func (p *Probe) Start(ctx context.Context) error {
	// At-most-one-active: tear down whatever is running before acquiring.
	p.Stop()

	p.mu.Lock()
	p.state = StateRequesting
	p.errMsg = ""
	p.mu.Unlock()

	capture, err := p.device.Acquire(ctx)
	if err != nil {
		p.mu.Lock()
		p.state = StateError
		p.errMsg = err.Error()
		p.mu.Unlock()
		return fmt.Errorf("probe: acquire %s: %w", p.capability, err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	p.capture = capture
	p.cancel = cancel
	p.state = StateActive
	p.mu.Unlock()

	p.wg.Add(1)
	go p.sampleLoop(loopCtx, capture.Sampler)
	return nil
}

// Stop cancels the sampling loop, releases every handle in reverse
// acquisition order, resets the published level to zero, and returns to
// Idle. Safe to call from any state; view controllers defer it on
// teardown so release runs on every exit path.
func (p *Probe) Stop() {
	p.mu.Lock()
	if p.state != StateActive && p.state != StateRequesting {
		// Clear a retained error only on explicit restart, not here.
		if p.state != StateError {
			p.state = StateIdle
		}
		p.mu.Unlock()
		return
	}
	p.state = StateStopping
	capture := p.capture
	cancel := p.cancel
	p.capture = nil
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()

	if capture != nil {
		for i := len(capture.Handles) - 1; i >= 0; i-- {
			if err := capture.Handles[i].Close(); err != nil {
				p.logger.Warn("release failed", "capability", string(p.capability), "handle", i, "error", err)
			}
		}
	}

	p.mu.Lock()
	p.level = 0
	p.state = StateIdle
	p.mu.Unlock()
}

// State returns the current lifecycle state.
func (p *Probe) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ErrorMessage returns the retained human-readable failure message
// while in the Error state.
func (p *Probe) ErrorMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

// Level returns the last published level; zero when not Active.
func (p *Probe) Level() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Probe) sampleLoop(ctx context.Context, sampler Sampler) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			level, err := sampler.Sample()
			if err != nil {
				p.logger.Debug("sample failed", "capability", string(p.capability), "error", err)
				continue
			}
			p.mu.Lock()
			p.level = level
			p.mu.Unlock()
			if p.onLevel != nil {
				p.onLevel(level)
			}
		}
	}
}
