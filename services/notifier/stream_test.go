package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const testRedisAddr = "localhost:6379"

func redisAvailable(ctx context.Context) bool {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	defer client.Close()
	return client.Ping(ctx).Err() == nil
}

func TestStreamNotifier_PublishAndReadBack(t *testing.T) {
	ctx := context.Background()
	if !redisAvailable(ctx) {
		t.Skip("Redis server not available, skipping test")
	}

	stream := "cruisewatch:test:alerts"
	n := NewStreamNotifier(testRedisAddr, 0, stream, 100)
	defer func() {
		n.client.Del(ctx, stream)
		n.Close()
	}()

	alert := BestAlert{Title: "7-Day Asia Explorer", Price: 880, PriceDisplay: "$880", OldPrice: 950}
	assert.NoError(t, n.SendBest(ctx, alert))

	entries, err := n.client.XRange(ctx, stream, "-", "+").Result()
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "best", entries[0].Values["kind"])

	decoded, err := base64.StdEncoding.DecodeString(entries[0].Values["b64_alert"].(string))
	assert.NoError(t, err)

	var got BestAlert
	assert.NoError(t, json.Unmarshal(decoded, &got))
	assert.Equal(t, alert.Title, got.Title)
	assert.Equal(t, alert.Price, got.Price)
	assert.Equal(t, alert.OldPrice, got.OldPrice)
}

func TestStreamNotifier_TrimsToMaxLen(t *testing.T) {
	ctx := context.Background()
	if !redisAvailable(ctx) {
		t.Skip("Redis server not available, skipping test")
	}

	stream := "cruisewatch:test:alerts_trim"
	n := NewStreamNotifier(testRedisAddr, 0, stream, 2)
	defer func() {
		n.client.Del(ctx, stream)
		n.Close()
	}()

	for i := 0; i < 5; i++ {
		assert.NoError(t, n.SendBest(ctx, BestAlert{Title: "7-Day Asia Explorer", Price: 900 - i}))
	}

	length, err := n.client.XLen(ctx, stream).Result()
	assert.NoError(t, err)
	assert.LessOrEqual(t, length, int64(2))
}
