package cache

import "time"

// Guard is a cool-down gate for the page fetch: after a failed or
// rate-limited fetch the renderer blocks itself for a while instead of
// hammering the site.
type Guard interface {
	// Blocked reports whether the key is currently cooling down
	Blocked(key string) bool

	// Block starts a cool-down for the key
	Block(key string, ttl time.Duration) error
}
