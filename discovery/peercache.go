// Package discovery ties the per-protocol engines together into a
// peer-centric view: a bounded cache of recently seen remote devices
// and their discovered service sets, used to suppress duplicate
// advertising reports and to avoid re-walking a peer's GATT/SDP
// service tree while a cached copy is still fresh.
package discovery

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nullbt/btstack/att"
	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/sdp"
)

// DefaultCacheSize is the number of peers tracked absent a
// WithCacheSize option.
const DefaultCacheSize = 256

// DefaultTTL is how long a cached advertising sighting or service set
// is considered fresh absent a WithTTL option.
const DefaultTTL = 30 * time.Second

// PeerEntry is everything cached about one remote device.
type PeerEntry struct {
	Address     core.Address
	LastSeen    time.Time
	LastData    []byte
	LastRSSI    int8
	GATTFresh   time.Time
	GATTService []att.Service
	SDPFresh    time.Time
	SDPService  []sdp.Service
}

// PeerCache is a bounded LRU of recently seen remote devices, keyed by
// address. Each single lookup or insertion goes through golang-lru's
// internally locked Cache, but Seen and the Put methods read an entry,
// modify the shared *PeerEntry in place and store it back as separate
// steps, so concurrent calls for the same address are not synchronized.
type PeerCache struct {
	cache *lru.Cache[core.Address, *PeerEntry]
	ttl   time.Duration
}

// NewPeerCache builds a PeerCache applying opts over the defaults.
func NewPeerCache(opts ...Option) *PeerCache {
	cfg := config{size: DefaultCacheSize, ttl: DefaultTTL}
	for _, o := range opts {
		o(&cfg)
	}
	c, err := lru.New[core.Address, *PeerEntry](cfg.size)
	if err != nil {
		// Only invalid (<=0) size reaches here; fall back to the default
		// rather than propagating a constructor error through Option.
		c, _ = lru.New[core.Address, *PeerEntry](DefaultCacheSize)
	}
	return &PeerCache{cache: c, ttl: cfg.ttl}
}

// Seen records (or refreshes) an advertising sighting for addr,
// reporting whether this is new information: the peer was unseen, or
// its advertising payload changed since the last sighting. Callers use
// this to decide whether to surface a duplicate report.
func (p *PeerCache) Seen(addr core.Address, data []byte, rssi int8, at time.Time) bool {
	entry, ok := p.cache.Get(addr)
	if !ok {
		p.cache.Add(addr, &PeerEntry{Address: addr, LastSeen: at, LastData: append([]byte{}, data...), LastRSSI: rssi})
		return true
	}
	changed := !bytesEqual(entry.LastData, data)
	entry.LastSeen = at
	entry.LastData = append([]byte{}, data...)
	entry.LastRSSI = rssi
	p.cache.Add(addr, entry)
	return changed
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GATTServices returns addr's cached GATT service set if it was
// populated within the cache's TTL.
func (p *PeerCache) GATTServices(addr core.Address, now time.Time) ([]att.Service, bool) {
	entry, ok := p.cache.Get(addr)
	if !ok || entry.GATTFresh.IsZero() || now.Sub(entry.GATTFresh) > p.ttl {
		return nil, false
	}
	return entry.GATTService, true
}

// PutGATTServices caches addr's discovered GATT service set.
func (p *PeerCache) PutGATTServices(addr core.Address, svcs []att.Service, at time.Time) {
	entry, ok := p.cache.Get(addr)
	if !ok {
		entry = &PeerEntry{Address: addr}
	}
	entry.GATTService = svcs
	entry.GATTFresh = at
	p.cache.Add(addr, entry)
}

// SDPServices returns addr's cached SDP service set if it was
// populated within the cache's TTL.
func (p *PeerCache) SDPServices(addr core.Address, now time.Time) ([]sdp.Service, bool) {
	entry, ok := p.cache.Get(addr)
	if !ok || entry.SDPFresh.IsZero() || now.Sub(entry.SDPFresh) > p.ttl {
		return nil, false
	}
	return entry.SDPService, true
}

// PutSDPServices caches addr's discovered SDP service set.
func (p *PeerCache) PutSDPServices(addr core.Address, svcs []sdp.Service, at time.Time) {
	entry, ok := p.cache.Get(addr)
	if !ok {
		entry = &PeerEntry{Address: addr}
	}
	entry.SDPService = svcs
	entry.SDPFresh = at
	p.cache.Add(addr, entry)
}

// Peers returns every address currently cached.
func (p *PeerCache) Peers() []core.Address { return p.cache.Keys() }

// Forget removes addr's cached entry entirely.
func (p *PeerCache) Forget(addr core.Address) { p.cache.Remove(addr) }

// Len returns the number of peers currently cached.
func (p *PeerCache) Len() int { return p.cache.Len() }
