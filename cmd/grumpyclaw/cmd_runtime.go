package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kifhan/grumpyclaw/internal/console"
)

func init() {
	rootCmd.AddCommand(runtimeCmd, watchCmd)
	runtimeCmd.AddCommand(runtimeStatusCmd, runtimeStartCmd, runtimeStopCmd, runtimeRestartCmd, runtimeFollowCmd)
}

var runtimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Supervise backend processes",
}

func newRuntime(a *app, alerter console.Alerter) *console.RuntimeController {
	c := console.NewRuntimeController(a.client, a.dispatcher, a.renderer, nil, os.Stdout, alerter)
	c.TailCap = a.cfg.Timeline.RuntimeCap
	return c
}

var runtimeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the process status map",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRuntime(newApp(), nil).Status(cmd.Context())
	},
}

var runtimeStartCmd = &cobra.Command{
	Use:   "start <process>",
	Short: "Start a process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRuntime(newApp(), nil).Control(cmd.Context(), "start", args[0])
	},
}

var runtimeStopCmd = &cobra.Command{
	Use:   "stop <process>",
	Short: "Stop a process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRuntime(newApp(), nil).Control(cmd.Context(), "stop", args[0])
	},
}

var runtimeRestartCmd = &cobra.Command{
	Use:   "restart <process>",
	Short: "Restart a process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRuntime(newApp(), nil).Control(cmd.Context(), "restart", args[0])
	},
}

var runtimeFollowCmd = &cobra.Command{
	Use:   "follow",
	Short: "Tail the runtime event bus until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return newRuntime(newApp(), nil).Follow(ctx)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch runtime and robot concurrently, with scheduled re-snapshots and alerting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		ctx, cancel := signalContext()
		defer cancel()

		alerter := a.alerter()
		runtime := newRuntime(a, alerter)
		robot := newRobot(a, alerter)
		return console.Watch(ctx, runtime, robot, a.cfg.RefreshSchedule, nil)
	},
}
