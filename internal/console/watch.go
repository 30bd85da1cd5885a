package console

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// cronParser accepts standard 5-field cron expressions, 6-field
// expressions with a seconds field, and descriptors like "@every 1m".
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Watch runs the runtime and robot watchers concurrently, with a
// scheduled re-snapshot of the process status map. The authoritative
// fetch reconciles whatever a silently reconnected stream may have
// missed; there is no custom backoff. A failure in one watcher cancels
// the others and surfaces the first error.
func Watch(ctx context.Context, runtime *RuntimeController, robot *RobotController, refreshSchedule string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	group, ctx := errgroup.WithContext(ctx)

	scheduler := cron.New(cron.WithParser(cronParser))
	if refreshSchedule != "" {
		_, err := scheduler.AddFunc(refreshSchedule, func() {
			if err := runtime.Refresh(ctx); err != nil {
				logger.Warn("scheduled refresh failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", refreshSchedule, err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	group.Go(func() error {
		if err := runtime.Follow(ctx); err != nil {
			return fmt.Errorf("runtime watcher: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		if err := robot.Follow(ctx); err != nil {
			return fmt.Errorf("robot watcher: %w", err)
		}
		return nil
	})

	return group.Wait()
}
