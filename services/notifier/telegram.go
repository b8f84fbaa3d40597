package notifier

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cruisewatch/pkg/errors"
)

// TelegramNotifier sends alerts as plain-text Telegram messages
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a bot-backed notifier for a single chat
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.NewConfiguration("failed to create telegram bot", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// SendBest sends a single-offer alert message
func (n *TelegramNotifier) SendBest(_ context.Context, alert BestAlert) error {
	var b strings.Builder
	b.WriteString("🚢 New cruise deal found!\n\n")
	fmt.Fprintf(&b, "Itinerary: %s\n", alert.Title)
	fmt.Fprintf(&b, "Price: %s\n", alert.PriceDisplay)
	if alert.OldPrice > 0 {
		fmt.Fprintf(&b, "Previous price: $%d\n", alert.OldPrice)
	}
	if alert.Link != "" {
		fmt.Fprintf(&b, "\nLink: %s", alert.Link)
	}
	return n.send(b.String())
}

// SendDeals sends a multi-deal alert message
func (n *TelegramNotifier) SendDeals(_ context.Context, alert DealsAlert) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 %d cruise deals below $%d\n", alert.DealCount, alert.Threshold)
	for _, deal := range alert.TopDeals {
		fmt.Fprintf(&b, "\n🔥 $%d - %s\n📅 %s\n%s\n", deal.Price, deal.Title, deal.DateText, deal.Link)
	}
	return n.send(b.String())
}

func (n *TelegramNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return errors.NewDelivery("telegram", "failed to send message", err)
	}
	return nil
}

// Close is a no-op for the telegram notifier
func (n *TelegramNotifier) Close() error {
	return nil
}
