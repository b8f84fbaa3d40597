package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemcacheGuard(t *testing.T) {
	guard := NewMemcacheGuard("localhost:11211")

	key := "cruisewatch:test:cooldown"
	if err := guard.Block(key, 60*time.Second); err != nil {
		t.Skip("Memcache server not available, skipping test")
	}

	assert.True(t, guard.Blocked(key))
	assert.False(t, guard.Blocked("cruisewatch:test:missing"))
}
