package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kifhan/grumpyclaw/internal/console"
	"github.com/kifhan/grumpyclaw/internal/types"
)

var (
	robotX        float64
	robotY        float64
	robotZ        float64
	robotDuration float64
	robotConfirm  bool
)

func init() {
	rootCmd.AddCommand(robotCmd)
	robotCmd.AddCommand(robotStatusCmd, robotStartCmd, robotStopCmd, robotRestartCmd, robotFollowCmd, robotActCmd)
	robotActCmd.AddCommand(robotMoveCmd, robotRotateCmd, robotHaltCmd, robotSpeakCmd)

	robotActCmd.PersistentFlags().BoolVar(&robotConfirm, "confirm", false, "attach the risky-action confirmation marker")
	robotMoveCmd.Flags().Float64Var(&robotX, "x", 0, "linear velocity x")
	robotMoveCmd.Flags().Float64Var(&robotY, "y", 0, "linear velocity y")
	robotMoveCmd.Flags().Float64Var(&robotDuration, "duration", 0.5, "seconds to apply the command")
	robotRotateCmd.Flags().Float64Var(&robotZ, "z", 0, "angular velocity z")
	robotRotateCmd.Flags().Float64Var(&robotDuration, "duration", 0.5, "seconds to apply the command")
}

var robotCmd = &cobra.Command{
	Use:   "robot",
	Short: "Robot control and feedback",
}

func newRobot(a *app, alerter console.Alerter) *console.RobotController {
	c := console.NewRobotController(a.client, a.dispatcher, a.renderer, nil, os.Stdout, alerter)
	c.FeedbackCap = a.cfg.Timeline.ToolCap
	return c
}

var robotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show robot status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRobot(newApp(), nil).Status(cmd.Context())
	},
}

var robotStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the robot control loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRobot(newApp(), nil).Control(cmd.Context(), "start")
	},
}

var robotStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the robot control loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRobot(newApp(), nil).Control(cmd.Context(), "stop")
	},
}

var robotRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the robot control loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRobot(newApp(), nil).Control(cmd.Context(), "restart")
	},
}

var robotFollowCmd = &cobra.Command{
	Use:   "follow",
	Short: "Tail robot feedback until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return newRobot(newApp(), nil).Follow(ctx)
	},
}

var robotActCmd = &cobra.Command{
	Use:   "act",
	Short: "Dispatch actuation commands (risky tier)",
}

// act applies the per-invocation confirm flag to the dispatcher toggle
// before dispatching.
func act(cmd *cobra.Command, action types.RobotAction) error {
	a := newApp()
	if robotActCmd.PersistentFlags().Changed("confirm") {
		a.dispatcher.SetConfirmRisky(robotConfirm)
	}
	return newRobot(a, nil).Act(cmd.Context(), action)
}

var robotMoveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move the robot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return act(cmd, types.RobotAction{Action: "move", X: &robotX, Y: &robotY, Duration: &robotDuration})
	},
}

var robotRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the robot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return act(cmd, types.RobotAction{Action: "rotate", Z: &robotZ, Duration: &robotDuration})
	},
}

var robotHaltCmd = &cobra.Command{
	Use:   "halt",
	Short: "Stop all robot motion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return act(cmd, types.RobotAction{Action: "stop"})
	},
}

var robotSpeakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Speak through the robot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return act(cmd, types.RobotAction{Action: "speak", Text: args[0]})
	},
}
