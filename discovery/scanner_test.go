package discovery

import (
	"testing"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/hci"
)

type fakeTransport struct{ writes [][]byte }

func (f *fakeTransport) Write(b []byte) (int, error) {
	f.writes = append(f.writes, append([]byte{}, b...))
	return len(b), nil
}

func TestScannerSuppressesDuplicateReport(t *testing.T) {
	engine := hci.NewEngine(&fakeTransport{})
	cache := NewPeerCache()
	s := NewScanner(engine, cache)

	var seen []hci.AdvertisingReport
	s.Discovered = func(r hci.AdvertisingReport) { seen = append(seen, r) }

	addr := testAddr(9)
	report := hci.AdvertisingReport{Address: addr, Data: []byte{0x02, 0x01, 0x06}, RSSI: -50}

	s.handleReport(report)
	s.handleReport(report)

	if len(seen) != 1 {
		t.Fatalf("Discovered fired %d times, want 1", len(seen))
	}
}

func TestScannerForwardsChangedReport(t *testing.T) {
	engine := hci.NewEngine(&fakeTransport{})
	cache := NewPeerCache()
	s := NewScanner(engine, cache)

	var seen int
	s.Discovered = func(r hci.AdvertisingReport) { seen++ }

	addr := testAddr(9)
	s.handleReport(hci.AdvertisingReport{Address: addr, Data: []byte{0x01}, RSSI: -50})
	s.handleReport(hci.AdvertisingReport{Address: addr, Data: []byte{0x01, 0x02}, RSSI: -50})

	if seen != 2 {
		t.Fatalf("Discovered fired %d times, want 2", seen)
	}
}

func TestScannerKnownPeers(t *testing.T) {
	engine := hci.NewEngine(&fakeTransport{})
	cache := NewPeerCache()
	s := NewScanner(engine, cache)

	s.handleReport(hci.AdvertisingReport{Address: testAddr(1)})
	s.handleReport(hci.AdvertisingReport{Address: testAddr(2)})

	peers := s.KnownPeers()
	if len(peers) != 2 {
		t.Fatalf("known peers = %d, want 2", len(peers))
	}
	var found1, found2 bool
	for _, p := range peers {
		if p.Equal(testAddr(1)) {
			found1 = true
		}
		if p.Equal(testAddr(2)) {
			found2 = true
		}
	}
	if !found1 || !found2 {
		t.Fatalf("known peers missing an address: %v", peers)
	}
}

var _ core.Transport = (*fakeTransport)(nil)
