package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Alert is a user-facing notice.
type Alert struct {
	Title   string
	Message string
}

var (
	alertActiveOrder = Alert{
		Title:   "Order in progress",
		Message: "You already have an order on its way. Wait for it to arrive before placing another one.",
	}
	alertPaymentProblem = Alert{
		Title:   "Order failed",
		Message: "The order could not be placed. Check your payment data in the profile and try again.",
	}
	alertLocationDenied = Alert{
		Title:   "Location unavailable",
		Message: "Grant location access to see the menus around you.",
	}
)

// Notifier delivers alerts to the user.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// NopNotifier drops alerts.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(context.Context, Alert) error { return nil }

// WriterNotifier prints alerts to a terminal.
type WriterNotifier struct {
	Out io.Writer
}

// Notify writes the alert.
func (n WriterNotifier) Notify(_ context.Context, alert Alert) error {
	_, err := fmt.Fprintf(n.Out, "\n[!] %s\n    %s\n", alert.Title, alert.Message)
	return err
}

// MultiNotifier fans an alert out to several notifiers.
type MultiNotifier []Notifier

// Notify delivers to every notifier and joins their errors.
func (m MultiNotifier) Notify(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier forwards alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
	log    *logrus.Entry
}

// NewTelegramNotifier connects to the bot API. An empty token yields a
// notifier that only logs that it is not configured.
func NewTelegramNotifier(botToken string, chatID int64, logger *logrus.Logger) (*TelegramNotifier, error) {
	n := &TelegramNotifier{chatID: chatID, log: logger.WithField("component", "telegram")}
	if botToken == "" {
		return n, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	n.bot = bot
	return n, nil
}

// Notify sends the alert as an HTML message.
func (n *TelegramNotifier) Notify(_ context.Context, alert Alert) error {
	if n.bot == nil {
		n.log.Debug("bot token not configured")
		return nil
	}
	if n.chatID == 0 {
		n.log.Debug("chat id not configured")
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, formatAlertHTML(alert))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		n.log.WithError(err).Warn("failed to send message")
		return err
	}
	return nil
}

func formatAlertHTML(alert Alert) string {
	return fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(alert.Title), html.EscapeString(alert.Message))
}
