// Package notify reports payment events to the operations channel.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ottware/storefront/internal/domain/checkout"
	"github.com/ottware/storefront/pkg/logger"
	"go.uber.org/zap"
)

// Notifier receives payment events. Implementations must not block the
// checkout flow; failures are logged and swallowed.
type Notifier interface {
	PaymentCompleted(ctx context.Context, order checkout.Order, offer checkout.Offer)
	PaymentFailed(ctx context.Context, orderID int64, reason string)
}

// TelegramNotifier posts payment events to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    logger.Logger
}

func NewTelegramNotifier(token string, chatID int64, log logger.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		log:    log,
	}, nil
}

func (n *TelegramNotifier) PaymentCompleted(ctx context.Context, order checkout.Order, offer checkout.Offer) {
	text := fmt.Sprintf(
		"Payment completed\nOrder: %d\nOffer: %s (%s)\nTotal: %.2f %s",
		order.ID,
		offer.OfferTitle,
		offer.OfferID,
		order.TotalPrice,
		order.PriceCurrency,
	)
	n.send(text)
}

func (n *TelegramNotifier) PaymentFailed(ctx context.Context, orderID int64, reason string) {
	text := fmt.Sprintf("Payment failed\nOrder: %d\nReason: %s", orderID, reason)
	n.send(text)
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Warn("failed to send telegram notification", zap.Error(err))
	}
}

// NoopNotifier is used when no notification channel is configured.
type NoopNotifier struct{}

func (NoopNotifier) PaymentCompleted(ctx context.Context, order checkout.Order, offer checkout.Offer) {
}

func (NoopNotifier) PaymentFailed(ctx context.Context, orderID int64, reason string) {}
