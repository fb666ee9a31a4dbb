package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
)

// Notifier delivers one notification to one destination.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n *model.Notification) error
}

// WebhookNotifier posts formatted notifications to a URL.
type WebhookNotifier struct {
	url       string
	formatter Formatter
	client    *HTTPClient
}

// NewWebhookNotifier creates a webhook notifier.
func NewWebhookNotifier(url string, formatter Formatter, client *HTTPClient) *WebhookNotifier {
	return &WebhookNotifier{url: url, formatter: formatter, client: client}
}

// Name implements Notifier. The URL is masked because it usually embeds a secret.
func (w *WebhookNotifier) Name() string {
	return "webhook " + logging.MaskURL(w.url)
}

// Notify implements Notifier.
func (w *WebhookNotifier) Notify(ctx context.Context, n *model.Notification) error {
	payload, err := w.formatter.Format(n)
	if err != nil {
		return fmt.Errorf("failed to format notification: %w", err)
	}
	return w.client.Send(ctx, w.url, w.formatter.ContentType(), payload).Error
}

// telegramSender is the part of *tgbotapi.BotAPI the notifier uses.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends notifications as chat messages.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

// NewTelegramNotifier authenticates with the Bot API and targets chatID.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login failed: %s", logging.MaskString(err.Error()))
	}
	logging.DebugLog("telegram bot authorized", "account", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Name implements Notifier.
func (t *TelegramNotifier) Name() string {
	return fmt.Sprintf("telegram %s", logging.MaskValue(fmt.Sprint(t.chatID)))
}

// Notify implements Notifier.
func (t *TelegramNotifier) Notify(ctx context.Context, n *model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, PlainText(n))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send failed: %s", logging.MaskString(err.Error()))
	}
	return nil
}
