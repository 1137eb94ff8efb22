package discovery

import (
	"testing"
	"time"

	"github.com/nullbt/btstack/att"
	"github.com/nullbt/btstack/core"
)

func testAddr(b byte) core.Address {
	return core.NewAddress([6]byte{b, 0, 0, 0, 0, 0}, core.AddressLERandom)
}

func TestPeerCacheSeenFirstSightingIsFresh(t *testing.T) {
	c := NewPeerCache()
	fresh := c.Seen(testAddr(1), []byte{0x01, 0x02}, -40, time.Now())
	if !fresh {
		t.Fatal("first sighting should be reported fresh")
	}
}

func TestPeerCacheSeenDuplicateIsNotFresh(t *testing.T) {
	c := NewPeerCache()
	now := time.Now()
	c.Seen(testAddr(1), []byte{0x01, 0x02}, -40, now)
	fresh := c.Seen(testAddr(1), []byte{0x01, 0x02}, -39, now.Add(time.Second))
	if fresh {
		t.Fatal("identical advertising payload should not be reported fresh")
	}
}

func TestPeerCacheSeenChangedPayloadIsFresh(t *testing.T) {
	c := NewPeerCache()
	now := time.Now()
	c.Seen(testAddr(1), []byte{0x01, 0x02}, -40, now)
	fresh := c.Seen(testAddr(1), []byte{0x01, 0x02, 0x03}, -40, now.Add(time.Second))
	if !fresh {
		t.Fatal("changed advertising payload should be reported fresh")
	}
}

func TestPeerCacheGATTServicesExpiresAfterTTL(t *testing.T) {
	c := NewPeerCache(WithTTL(time.Millisecond))
	addr := testAddr(2)
	now := time.Now()
	c.PutGATTServices(addr, []att.Service{{}}, now)

	if _, ok := c.GATTServices(addr, now); !ok {
		t.Fatal("expected a fresh hit immediately after Put")
	}
	if _, ok := c.GATTServices(addr, now.Add(time.Second)); ok {
		t.Fatal("expected a miss once past the TTL")
	}
}

func TestPeerCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewPeerCache(WithCacheSize(2))
	now := time.Now()
	c.Seen(testAddr(1), nil, 0, now)
	c.Seen(testAddr(2), nil, 0, now)
	c.Seen(testAddr(3), nil, 0, now)
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	for _, p := range c.Peers() {
		if p.Equal(testAddr(1)) {
			t.Fatal("oldest peer should have been evicted")
		}
	}
}

func TestPeerCacheForget(t *testing.T) {
	c := NewPeerCache()
	addr := testAddr(5)
	c.Seen(addr, []byte{0x01}, 0, time.Now())
	c.Forget(addr)
	if c.Len() != 0 {
		t.Fatalf("len = %d, want 0 after Forget", c.Len())
	}
}
