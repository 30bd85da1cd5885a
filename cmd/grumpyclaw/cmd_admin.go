package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/console"
)

var (
	logSource    string
	logLevel     string
	logProcess   string
	logEventType string
	logQuery     string
	logLimit     int

	memoryTopK     int
	heartbeatLimit int
)

func init() {
	rootCmd.AddCommand(logsCmd, memoryCmd, skillsCmd, heartbeatCmd, healthCmd)
	skillsCmd.AddCommand(skillsRunCmd)
	heartbeatCmd.AddCommand(heartbeatEvaluateCmd, heartbeatHistoryCmd)

	logsCmd.Flags().StringVar(&logSource, "source", "", "filter by source")
	logsCmd.Flags().StringVar(&logLevel, "level", "", "filter by level")
	logsCmd.Flags().StringVar(&logProcess, "process", "", "filter by process name")
	logsCmd.Flags().StringVar(&logEventType, "event-type", "", "filter by event type")
	logsCmd.Flags().StringVar(&logQuery, "q", "", "free-text filter")
	logsCmd.Flags().IntVar(&logLimit, "limit", 100, "maximum records")
	memoryCmd.Flags().IntVar(&memoryTopK, "top-k", 5, "number of hits")
	heartbeatHistoryCmd.Flags().IntVar(&heartbeatLimit, "limit", 20, "maximum evaluations")
}

func newAdmin(a *app) *console.AdminController {
	return console.NewAdminController(a.client, a.dispatcher, a.renderer, nil, os.Stdout)
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query structured logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAdmin(newApp()).Logs(cmd.Context(), api.LogFilter{
			Source:      logSource,
			Level:       logLevel,
			ProcessName: logProcess,
			EventType:   logEventType,
			Query:       logQuery,
			Limit:       logLimit,
		})
	},
}

var memoryCmd = &cobra.Command{
	Use:   "memory <query>",
	Short: "Search the agent's memory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAdmin(newApp()).Memory(cmd.Context(), args[0], memoryTopK)
	},
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List runnable skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAdmin(newApp()).Skills(cmd.Context())
	},
}

var skillsRunCmd = &cobra.Command{
	Use:   "run <skill-id>",
	Short: "Run a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAdmin(newApp()).RunSkill(cmd.Context(), args[0])
	},
}

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Heartbeat evaluation",
}

var heartbeatEvaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Trigger a heartbeat evaluation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAdmin(newApp()).HeartbeatEvaluate(cmd.Context())
	},
}

var heartbeatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent heartbeat evaluations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAdmin(newApp()).HeartbeatHistory(cmd.Context(), heartbeatLimit)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend health and show public configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAdmin(newApp()).Health(cmd.Context())
	},
}
