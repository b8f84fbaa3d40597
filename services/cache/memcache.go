package cache

import (
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheGuard implements Guard using memcache item expiry as the
// cool-down timer
type MemcacheGuard struct {
	client *memcache.Client
}

// NewMemcacheGuard creates a memcache-backed guard
func NewMemcacheGuard(serverAddr string) *MemcacheGuard {
	return &MemcacheGuard{
		client: memcache.New(serverAddr),
	}
}

// Blocked reports whether a cool-down item exists for the key
func (g *MemcacheGuard) Blocked(key string) bool {
	_, err := g.client.Get(key)
	return err == nil
}

// Block stores a cool-down item that expires after ttl
func (g *MemcacheGuard) Block(key string, ttl time.Duration) error {
	seconds := int32(ttl.Seconds())
	return g.client.Set(&memcache.Item{
		Key:        key,
		Value:      []byte(strconv.Itoa(int(seconds))),
		Expiration: seconds,
	})
}
