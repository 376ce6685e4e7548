package notify

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"page-totals/models"
)

// Telegram pushes run summaries to a Telegram chat
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramFromEnv creates a notifier from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID. Returns an error when either is missing so the caller
// can decide whether notifications are optional.
func NewTelegramFromEnv() (*Telegram, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID environment variable is not set")
	}
	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatIDStr, err)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// SendSummary sends the per-page subtotals and grand total as one message
func (t *Telegram) SendSummary(summary models.RunSummary) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatSummary(summary))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// FormatSummary renders a run summary as a human-readable message
func FormatSummary(summary models.RunSummary) string {
	var b strings.Builder

	b.WriteString("📊 Page totals run\n")
	fmt.Fprintf(&b, "Pages: %d (%d failed)\n\n", len(summary.Reports), summary.FailedPages)

	for _, report := range summary.Reports {
		name := report.Label
		if name == "" {
			name = report.URL
		}
		if report.Failed() {
			fmt.Fprintf(&b, "❌ %s: failed (%s)\n", name, report.Err)
			continue
		}
		fmt.Fprintf(&b, "✅ %s: %.2f\n", name, report.Tally.Subtotal)
	}

	fmt.Fprintf(&b, "\nGrand total: %.2f", summary.GrandTotal)
	return b.String()
}
