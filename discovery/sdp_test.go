package discovery

import (
	"testing"
	"time"

	"github.com/nullbt/btstack/core"
	"github.com/nullbt/btstack/sdp"
)

func TestSDPDiscovererServesFreshCacheWithoutEngine(t *testing.T) {
	engine := sdp.NewEngine(&fakeTransport{})
	seq := sdp.NewSequencer(engine)
	cache := NewPeerCache()
	addr := testAddr(1)

	want := []sdp.Service{{Handle: 0x10001}}
	cache.PutSDPServices(addr, want, time.Now())

	d := NewSDPDiscoverer(seq, cache)
	got, r := d.Discover(addr, time.Now().Add(time.Millisecond), nil)
	if r != core.OK {
		t.Fatalf("result = %v, want OK", r)
	}
	if len(got) != 1 || got[0].Handle != want[0].Handle {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
}

func TestSDPDiscovererInvalidateForcesMiss(t *testing.T) {
	engine := sdp.NewEngine(&fakeTransport{})
	seq := sdp.NewSequencer(engine)
	cache := NewPeerCache()
	addr := testAddr(1)

	cache.PutSDPServices(addr, []sdp.Service{{Handle: 1}}, time.Now())
	d := NewSDPDiscoverer(seq, cache)
	d.Invalidate(addr)

	if _, ok := cache.SDPServices(addr, time.Now()); ok {
		t.Fatal("expected a miss after Invalidate")
	}
}
