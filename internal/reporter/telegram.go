package reporter

import (
	"fmt"
	"html"
	"path/filepath"

	"jobber/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Notifier announces finished tailoring runs.
type Notifier interface {
	NotifyRun(run *models.Run) error
}

// Nop is used when Telegram is not configured.
type Nop struct{}

func (Nop) NotifyRun(*models.Run) error { return nil }

// sender is the part of tgbotapi.BotAPI we use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    sender
	chatID int64
	log    *logrus.Entry
}

// New returns a Telegram reporter, or Nop when token or chat id is missing.
func New(token string, chatID int64, log *logrus.Entry) (Notifier, error) {
	if token == "" || chatID == 0 {
		return Nop{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID, log: log}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// NotifyRun logs send failures and never returns them; a lost notification
// must not fail the run.
func (t *TelegramReporter) NotifyRun(run *models.Run) error {
	if err := t.SendMessage(FormatRun(run)); err != nil {
		t.log.Warnf("⚠️ Telegram notification failed: %v", err)
	}
	return nil
}

// FormatRun renders run as a Telegram HTML message.
func FormatRun(run *models.Run) string {
	esc := html.EscapeString
	if run.Status == models.StatusFailed {
		return fmt.Sprintf("⚠️ <b>Tailoring failed</b>\n🔗 %s\n%s", esc(run.URL), esc(run.Error))
	}

	text := fmt.Sprintf(
		"📝 <b>%s</b>\n"+
			"🏢 %s\n"+
			"🤖 %s\n"+
			"📁 <code>%s</code>",
		esc(run.JobTitle),
		esc(run.Company),
		esc(string(run.Status)),
		esc(run.OutputDir),
	)
	if run.PDFPath != "" {
		text += fmt.Sprintf("\n📄 %s", esc(filepath.Base(run.PDFPath)))
	}
	if run.URL != "" {
		text += fmt.Sprintf("\n🔗 <a href=\"%s\">Posting</a>", esc(run.URL))
	}
	return text
}
