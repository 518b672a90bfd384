package notify

import (
	"context"
	"fmt"
	"html"
	"os"

	"fdf-monitor/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram posts the summary to one chat, as a photo caption when a chart is
// attached.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(bot *tgbotapi.BotAPI, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := FormatHTML(msg)

	if msg.ChartPath != "" {
		if _, err := os.Stat(msg.ChartPath); err == nil {
			photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FilePath(msg.ChartPath))
			photo.Caption = text
			photo.ParseMode = tgbotapi.ModeHTML
			_, err := t.bot.Send(photo)
			if err == nil {
				return nil
			}
			log.LogWarn("Chart upload failed, sending text only", zap.String("chart", msg.ChartPath), zap.Error(err))
		}
	}

	m := tgbotapi.NewMessage(t.chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	m.DisableWebPagePreview = true
	if _, err := t.bot.Send(m); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}

// FormatHTML renders msg for Telegram's HTML parse mode.
func FormatHTML(msg Message) string {
	text := "<b>" + html.EscapeString(msg.Title) + "</b>"
	if msg.Portfolio != "" {
		text = "<b>" + html.EscapeString(msg.Portfolio) + "</b> " + text
	}
	return text + "\n<pre>" + html.EscapeString(msg.Body) + "</pre>"
}
