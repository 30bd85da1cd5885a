package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kifhan/grumpyclaw/internal/api"
	"github.com/kifhan/grumpyclaw/internal/config"
	"github.com/kifhan/grumpyclaw/internal/console"
	"github.com/kifhan/grumpyclaw/internal/dispatch"
	"github.com/kifhan/grumpyclaw/internal/notify"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "grumpyclaw",
	Short:         "Operator console for the grumpyclaw agent runtime",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultPath := filepath.Join(os.Getenv("HOME"), ".grumpyclaw", "console.json")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// app bundles what every subcommand needs. The HTTP client carries no
// global timeout: the same transport serves long-lived streams, and
// per-request deadlines come from contexts.
type app struct {
	cfg        *config.Config
	client     *api.Client
	dispatcher *dispatch.Dispatcher
	renderer   *console.Renderer
}

func newApp() *app {
	cfg := loadConfig()
	setupLogging(cfg)

	client, err := api.NewClient(api.ClientConfig{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create API client: %v\n", err)
		os.Exit(1)
	}

	d := dispatch.New(client, slog.Default())
	d.SetConfirmRisky(cfg.ConfirmRisky)

	return &app{
		cfg:        cfg,
		client:     client,
		dispatcher: d,
		renderer:   console.NewRenderer(),
	}
}

// alerter returns the Telegram notifier when a token is configured,
// otherwise nil (alerting disabled).
func (a *app) alerter() console.Alerter {
	if a.cfg.Telegram.Token == "" || a.cfg.Telegram.ChatID == 0 {
		slog.Warn("telegram alerting disabled (no token or chat id)")
		return nil
	}
	n, err := notify.New(a.cfg.Telegram.Token, a.cfg.Telegram.ChatID, slog.Default())
	if err != nil {
		slog.Error("failed to create telegram notifier", "error", err)
		return nil
	}
	return n
}

// signalContext returns a context canceled on SIGINT or SIGTERM, for
// the follow/watch commands that run until interrupted.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
