package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"cruisewatch/pkg/errors"
)

// StreamNotifier publishes alert payloads onto a Redis stream for
// downstream consumers. Payloads are base64-encoded JSON.
type StreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int
}

// NewStreamNotifier creates a Redis stream sink
func NewStreamNotifier(addr string, db int, stream string, maxLen int) *StreamNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return &StreamNotifier{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// SendBest publishes a single-offer alert
func (n *StreamNotifier) SendBest(ctx context.Context, alert BestAlert) error {
	return n.publish(ctx, "best", alert)
}

// SendDeals publishes a multi-deal alert
func (n *StreamNotifier) SendDeals(ctx context.Context, alert DealsAlert) error {
	return n.publish(ctx, "deals", alert)
}

// publish appends one alert to the stream and trims it to the configured
// maximum length
func (n *StreamNotifier) publish(ctx context.Context, kind string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.NewDelivery("stream", "failed to marshal alert", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	err = n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"kind":      kind,
			"b64_alert": encoded,
		},
	}).Err()
	if err != nil {
		return errors.NewDelivery("stream", "failed to append to stream", err)
	}

	if n.maxLen > 0 {
		if err := n.client.XTrimMaxLen(ctx, n.stream, int64(n.maxLen)).Err(); err != nil {
			return errors.NewDelivery("stream", "failed to trim stream", err)
		}
	}
	return nil
}

// Close closes the Redis connection
func (n *StreamNotifier) Close() error {
	return n.client.Close()
}
