package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kifhan/grumpyclaw/internal/console"
	"github.com/kifhan/grumpyclaw/internal/types"
)

var (
	assistantMode  string
	assistantLimit int
	realtimeLimit  int
)

func init() {
	rootCmd.AddCommand(assistantCmd)
	assistantCmd.AddCommand(assistantListCmd, assistantSendCmd, assistantFollowCmd, realtimeCmd)
	realtimeCmd.AddCommand(realtimeStartCmd, realtimeStopCmd, realtimeStatusCmd, realtimeHistoryCmd, realtimeFollowCmd)
	assistantListCmd.Flags().StringVar(&assistantMode, "mode", "", "filter by session mode")
	assistantListCmd.Flags().IntVar(&assistantLimit, "limit", 20, "maximum sessions to list")
	realtimeHistoryCmd.Flags().IntVar(&realtimeLimit, "limit", 50, "maximum events to list")
}

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Assistant sessions and the realtime voice bus",
}

func newAssistant(a *app) *console.AssistantController {
	c := console.NewAssistantController(a.client, a.renderer, nil, os.Stdout)
	c.ToolCap = a.cfg.Timeline.ToolCap
	return c
}

func newRealtime(a *app) *console.RealtimeController {
	c := console.NewRealtimeController(a.client, a.renderer, nil, os.Stdout)
	c.HistoryCap = a.cfg.Timeline.RealtimeCap
	return c
}

var assistantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assistant sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAssistant(newApp()).Sessions(cmd.Context(), assistantMode, assistantLimit)
	},
}

var assistantSendCmd = &cobra.Command{
	Use:   "send <session-id> <text>",
	Short: "Post a message into an assistant session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAssistant(newApp()).Send(cmd.Context(), types.SessionID(args[0]), args[1])
	},
}

var assistantFollowCmd = &cobra.Command{
	Use:   "follow <session-id>",
	Short: "Stream an assistant session until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return newAssistant(newApp()).Follow(ctx, types.SessionID(args[0]))
	},
}

var realtimeCmd = &cobra.Command{
	Use:   "realtime",
	Short: "Control the realtime voice session",
}

var realtimeStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the realtime voice session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRealtime(newApp()).Start(cmd.Context())
	},
}

var realtimeStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the realtime voice session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRealtime(newApp()).Stop(cmd.Context())
	},
}

var realtimeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the realtime session status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRealtime(newApp()).Status(cmd.Context())
	},
}

var realtimeHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent realtime events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRealtime(newApp()).History(cmd.Context(), realtimeLimit)
	},
}

var realtimeFollowCmd = &cobra.Command{
	Use:   "follow",
	Short: "Tail the realtime bus until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return newRealtime(newApp()).Follow(ctx)
	},
}
