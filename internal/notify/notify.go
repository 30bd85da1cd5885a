// Package notify forwards watch-mode alerts (process exits, robot
// errors, failed heartbeats) to a Telegram chat so the operator hears
// about trouble without staring at the console.
package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxTelegramMessage = 4096

// Sender is the part of the Telegram bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends alert messages to one Telegram chat.
type Notifier struct {
	bot    Sender
	chatID int64
	logger *slog.Logger
}

// New creates a Notifier with a real Telegram bot.
func New(token string, chatID int64, logger *slog.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: create bot: %w", err)
	}
	return NewWithSender(bot, chatID, logger), nil
}

// NewWithSender creates a Notifier on an existing Sender. Tests inject
// a fake here.
func NewWithSender(bot Sender, chatID int64, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{bot: bot, chatID: chatID, logger: logger}
}

// Alert sends one titled alert. Long bodies are split to fit Telegram's
// message limit. Markdown parse failures fall back to plain text.
func (n *Notifier) Alert(title, body string) error {
	text := fmt.Sprintf("*%s*\n%s", title, body)
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(n.chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := n.bot.Send(msg); err != nil {
			msg.ParseMode = ""
			if _, err := n.bot.Send(msg); err != nil {
				return fmt.Errorf("notify: send alert: %w", err)
			}
		}
	}
	return nil
}

// ProcessExit reports an unexpected process exit.
func (n *Notifier) ProcessExit(processName string, detail string) {
	n.send("Process exited: "+processName, detail)
}

// RobotError reports a robot feedback error state.
func (n *Notifier) RobotError(message string) {
	n.send("Robot error", message)
}

// HeartbeatFailed reports a failed heartbeat evaluation.
func (n *Notifier) HeartbeatFailed(detail string) {
	n.send("Heartbeat failed", detail)
}

func (n *Notifier) send(title, body string) {
	if err := n.Alert(title, body); err != nil {
		n.logger.Warn("alert delivery failed", "title", title, "error", err)
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
