package probe

import (
	"context"
	"fmt"
	"time"
)

// ToneEmitter plays a short audible tone on an acquired speaker.
type ToneEmitter interface {
	Emit(ctx context.Context, duration time.Duration) error
	Close() error
}

// ToneDevice acquires the speaker for a one-shot tone test.
type ToneDevice interface {
	Acquire(ctx context.Context) (ToneEmitter, error)
}

// toneMargin bounds how long past the nominal tone duration the test
// may run before the emitter is torn down anyway.
const toneMargin = 500 * time.Millisecond

// ToneTest plays a tone of the given duration and releases the speaker
// afterward on every path, including timeout and emit failure. It holds
// no state between invocations.
func ToneTest(ctx context.Context, device ToneDevice, duration time.Duration) error {
	emitter, err := device.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("probe: acquire speaker: %w", err)
	}
	defer emitter.Close()

	emitCtx, cancel := context.WithTimeout(ctx, duration+toneMargin)
	defer cancel()

	if err := emitter.Emit(emitCtx, duration); err != nil {
		return fmt.Errorf("probe: emit tone: %w", err)
	}
	return nil
}
