package discovery

import "time"

type config struct {
	size int
	ttl  time.Duration
}

// Option configures a PeerCache at construction time, following the
// same functional-options shape used throughout this module
// (hci.Option, mgmt.Option).
type Option func(*config)

// WithCacheSize overrides the number of peers tracked before the LRU
// evicts the least recently seen one.
func WithCacheSize(n int) Option {
	return func(c *config) { c.size = n }
}

// WithTTL overrides how long a cached advertising sighting or
// discovered service set is considered fresh.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}
