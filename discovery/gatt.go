package discovery

import (
	"time"

	"github.com/nullbt/btstack/att"
	"github.com/nullbt/btstack/core"
)

// GATTDiscoverer runs att.Sequencer.Discover on cache misses only,
// returning a still-connected peer's cached service set when one is
// fresh rather than re-walking the whole attribute database.
type GATTDiscoverer struct {
	seq   *att.Sequencer
	cache *PeerCache
	now   func() time.Time
}

// NewGATTDiscoverer builds a GATTDiscoverer driving seq, caching
// results in cache under addr.
func NewGATTDiscoverer(seq *att.Sequencer, cache *PeerCache) *GATTDiscoverer {
	return &GATTDiscoverer{seq: seq, cache: cache, now: time.Now}
}

// Discover returns addr's GATT service tree, from cache if a fresh
// copy exists, otherwise by running the full discovery sequence
// (custom selects whether non-short-form UUID characteristics are
// walked, matching att.Sequencer.Discover) and caching the result.
func (g *GATTDiscoverer) Discover(addr core.Address, deadline time.Time, custom bool) ([]att.Service, core.Result) {
	if svcs, ok := g.cache.GATTServices(addr, g.now()); ok {
		return svcs, core.OK
	}
	svcs, r := g.seq.Discover(deadline, custom)
	if r != core.OK {
		return nil, r
	}
	g.cache.PutGATTServices(addr, svcs, g.now())
	return svcs, core.OK
}

// Invalidate drops addr's cached GATT service set, e.g. after a
// service-changed indication.
func (g *GATTDiscoverer) Invalidate(addr core.Address) {
	g.cache.PutGATTServices(addr, nil, time.Time{})
}
