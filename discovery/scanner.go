package discovery

import (
	"time"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/hci"
)

// Scanner wraps an hci.Engine's advertising-report stream with
// PeerCache-backed duplicate suppression: a report is forwarded to
// Discovered only the first time a peer is seen, or whenever its
// advertising payload changes.
type Scanner struct {
	engine *hci.Engine
	cache  *PeerCache

	// Discovered receives every report the cache judges new or changed.
	// Set before starting a scan.
	Discovered func(hci.AdvertisingReport)

	now func() time.Time
}

// NewScanner builds a Scanner over engine, deduping through cache.
func NewScanner(engine *hci.Engine, cache *PeerCache) *Scanner {
	s := &Scanner{engine: engine, cache: cache, now: time.Now}
	engine.AdvertisingReports = s.handleReport
	return s
}

func (s *Scanner) handleReport(r hci.AdvertisingReport) {
	fresh := s.cache.Seen(r.Address, r.Data, r.RSSI, s.now())
	if fresh && s.Discovered != nil {
		s.Discovered(r)
	}
}

// KnownPeers returns every address the scanner's cache currently holds.
func (s *Scanner) KnownPeers() []core.Address { return s.cache.Peers() }
