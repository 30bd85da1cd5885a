package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kifhan/grumpyclaw/internal/console"
	"github.com/kifhan/grumpyclaw/internal/types"
)

var (
	chatMode  string
	chatLimit int
	chatTitle string
)

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.AddCommand(chatListCmd, chatNewCmd, chatSendCmd, chatFollowCmd)
	chatListCmd.Flags().StringVar(&chatMode, "mode", "", "filter by session mode")
	chatListCmd.Flags().IntVar(&chatLimit, "limit", 20, "maximum sessions to list")
	chatNewCmd.Flags().StringVar(&chatMode, "mode", "chat", "session mode")
	chatNewCmd.Flags().StringVar(&chatTitle, "title", "", "session title")
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat sessions and transcripts",
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		c := console.NewChatController(a.client, a.renderer, nil, os.Stdout)
		return c.Sessions(cmd.Context(), chatMode, chatLimit)
	},
}

var chatNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a chat session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		c := console.NewChatController(a.client, a.renderer, nil, os.Stdout)
		return c.NewSession(cmd.Context(), chatMode, chatTitle)
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <session-id> <text>",
	Short: "Post a message into a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		c := console.NewChatController(a.client, a.renderer, nil, os.Stdout)
		return c.Send(cmd.Context(), types.SessionID(args[0]), args[1])
	},
}

var chatFollowCmd = &cobra.Command{
	Use:   "follow <session-id>",
	Short: "Stream a session's transcript until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		ctx, cancel := signalContext()
		defer cancel()
		c := console.NewChatController(a.client, a.renderer, nil, os.Stdout)
		return c.Follow(ctx, types.SessionID(args[0]))
	},
}
