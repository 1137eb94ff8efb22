package discovery

import (
	"time"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/sdp"
)

// SDPDiscoverer runs sdp.Sequencer.Discover on cache misses only,
// mirroring GATTDiscoverer for the BR/EDR service-discovery path.
type SDPDiscoverer struct {
	seq   *sdp.Sequencer
	cache *PeerCache
	now   func() time.Time
}

// NewSDPDiscoverer builds an SDPDiscoverer driving seq, caching
// results in cache under addr.
func NewSDPDiscoverer(seq *sdp.Sequencer, cache *PeerCache) *SDPDiscoverer {
	return &SDPDiscoverer{seq: seq, cache: cache, now: time.Now}
}

// Discover returns addr's matching service records, from cache if a
// fresh copy exists, otherwise by running ServiceSearch followed by
// per-handle ServiceAttribute and caching the result.
func (s *SDPDiscoverer) Discover(addr core.Address, deadline time.Time, uuids []core.UUID) ([]sdp.Service, core.Result) {
	if svcs, ok := s.cache.SDPServices(addr, s.now()); ok {
		return svcs, core.OK
	}
	svcs, r := s.seq.Discover(deadline, uuids)
	if r != core.OK {
		return nil, r
	}
	s.cache.PutSDPServices(addr, svcs, s.now())
	return svcs, core.OK
}

// Invalidate drops addr's cached service records.
func (s *SDPDiscoverer) Invalidate(addr core.Address) {
	s.cache.PutSDPServices(addr, nil, time.Time{})
}
