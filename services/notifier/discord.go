package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cruisewatch/pkg/errors"
)

// Discord embed colors
const (
	discordColorInfo  = 5814783
	discordColorAlert = 15548997
)

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordMessage struct {
	Username string         `json:"username,omitempty"`
	Content  string         `json:"content,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

// DiscordNotifier posts alerts to a Discord webhook
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a webhook-backed notifier. An empty URL
// produces a notifier that silently drops alerts.
func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendBest posts a single-offer alert embed
func (n *DiscordNotifier) SendBest(ctx context.Context, alert BestAlert) error {
	if n.webhookURL == "" {
		return nil
	}

	description := fmt.Sprintf("Price: **%s**", alert.PriceDisplay)
	if alert.OldPrice > 0 {
		description += fmt.Sprintf(" (was $%d)", alert.OldPrice)
	}

	msg := discordMessage{
		Content: "🚢 **New cruise deal found!**",
		Embeds: []discordEmbed{{
			Title:       alert.Title,
			Description: description,
			URL:         alert.Link,
			Color:       discordColorInfo,
		}},
	}

	return n.post(ctx, msg)
}

// SendDeals posts a multi-deal alert embed with one field per deal
func (n *DiscordNotifier) SendDeals(ctx context.Context, alert DealsAlert) error {
	if n.webhookURL == "" {
		return nil
	}

	embed := discordEmbed{
		Title:       fmt.Sprintf("🚨 Cruise deals below $%d", alert.Threshold),
		Description: fmt.Sprintf("Found %d itineraries under the threshold.", alert.DealCount),
		Color:       discordColorAlert,
		Footer: &discordEmbedFooter{
			Text: "Scanned at " + alert.ScannedAt.Format("2006-01-02 15:04:05"),
		},
	}

	for _, deal := range alert.TopDeals {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:  fmt.Sprintf("🔥 $%d USD - %s", deal.Price, deal.Title),
			Value: fmt.Sprintf("📅 %s\n🔗 [Book now](%s)", deal.DateText, deal.Link),
		})
	}

	msg := discordMessage{
		Username: "Cruise Sniper",
		Embeds:   []discordEmbed{embed},
	}

	return n.post(ctx, msg)
}

// post serializes and delivers one webhook message
func (n *DiscordNotifier) post(ctx context.Context, msg discordMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.NewDelivery("discord", "failed to marshal webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.NewDelivery("discord", "failed to create webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.NewDelivery("discord", "webhook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewDelivery("discord", fmt.Sprintf("webhook returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// Close is a no-op for the webhook notifier
func (n *DiscordNotifier) Close() error {
	return nil
}
