package probe

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"
)

// BellSpeaker drives the terminal bell as the host-side tone backend.
// It carries the tone test end to end on machines with no audio stack:
// the emitter rings the bell once at the start of the tone and then
// once per second until the duration elapses.
type BellSpeaker struct {
	// Out defaults to stdout.
	Out io.Writer
}

func (b BellSpeaker) Acquire(ctx context.Context) (ToneEmitter, error) {
	out := b.Out
	if out == nil {
		out = os.Stdout
	}
	return &bellEmitter{out: out}, nil
}

type bellEmitter struct {
	out io.Writer
}

func (e *bellEmitter) Emit(ctx context.Context, duration time.Duration) error {
	if _, err := io.WriteString(e.out, "\a"); err != nil {
		return err
	}

	deadline := time.NewTimer(duration)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
			if _, err := io.WriteString(e.out, "\a"); err != nil {
				return err
			}
		}
	}
}

func (e *bellEmitter) Close() error { return nil }

// NoiseMic is the capture device for hosts with no audio input wired.
// Its sampler produces synthetic levels in [0, 1), which keeps the
// meter's acquire, sample, and release lifecycle fully exercisable
// without capture hardware.
type NoiseMic struct{}

func (NoiseMic) Acquire(ctx context.Context) (*Capture, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Capture{Sampler: noiseSampler{rng: rng}}, nil
}

type noiseSampler struct {
	rng *rand.Rand
}

func (s noiseSampler) Sample() (float64, error) {
	return s.rng.Float64(), nil
}
