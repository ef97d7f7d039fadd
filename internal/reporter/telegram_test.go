package reporter

import (
	"errors"
	"testing"

	"jobber/internal/logging"
	"jobber/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestFormatRun(t *testing.T) {
	run := &models.Run{
		URL:       "https://jobs.example.com/1?a=1&b=2",
		Company:   "Procter & Gamble",
		JobTitle:  "Go <Engineer>",
		OutputDir: "output/2024-03-09_Procter-Gamble_Go-Engineer_v1",
		PDFPath:   "output/2024-03-09_Procter-Gamble_Go-Engineer_v1/Ada_Resume.pdf",
		Status:    models.StatusTailored,
	}

	text := FormatRun(run)

	assert.Contains(t, text, "<b>Go &lt;Engineer&gt;</b>")
	assert.Contains(t, text, "Procter &amp; Gamble")
	assert.Contains(t, text, "TAILORED")
	assert.Contains(t, text, "📄 Ada_Resume.pdf")
	assert.Contains(t, text, `href="https://jobs.example.com/1?a=1&amp;b=2"`)
}

func TestFormatRun_Failed(t *testing.T) {
	text := FormatRun(&models.Run{URL: "https://x.io", Status: models.StatusFailed, Error: "all scrape attempts failed"})
	assert.Contains(t, text, "Tailoring failed")
	assert.Contains(t, text, "all scrape attempts failed")
}

func TestNotifyRun(t *testing.T) {
	f := &fakeSender{}
	r := &TelegramReporter{bot: f, chatID: 42, log: logging.Discard()}

	require.NoError(t, r.NotifyRun(&models.Run{Company: "Acme", Status: models.StatusFallback}))

	require.Len(t, f.sent, 1)
	msg, ok := f.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
}

func TestNotifyRun_SendFailureIsSwallowed(t *testing.T) {
	r := &TelegramReporter{bot: &fakeSender{err: errors.New("network down")}, chatID: 42, log: logging.Discard()}
	assert.NoError(t, r.NotifyRun(&models.Run{}))
}

func TestNew_NopWithoutCredentials(t *testing.T) {
	n, err := New("", 0, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)
}
