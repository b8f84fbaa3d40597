package notifier

import (
	"context"
	"time"

	"cruisewatch/internal/scanner"
)

// BestAlert is the payload for a single-offer alert
type BestAlert struct {
	Title        string
	Price        int
	PriceDisplay string
	Link         string
	// OldPrice is the previously remembered price; 0 on first discovery
	OldPrice int
}

// DealsAlert is the payload for a multi-deal alert
type DealsAlert struct {
	DealCount int
	TopDeals  []scanner.Offer
	ScannedAt time.Time
	Threshold int
}

// Notifier delivers alert payloads to one sink. Delivery failure is the
// caller's to log and swallow; it never aborts the run.
type Notifier interface {
	// SendBest delivers a single-offer alert
	SendBest(ctx context.Context, alert BestAlert) error

	// SendDeals delivers a multi-deal alert
	SendDeals(ctx context.Context, alert DealsAlert) error

	// Close releases any underlying resources
	Close() error
}
