package discovery

import (
	"testing"
	"time"

	"github.com/nullbt/btstack/att"
	"github.com/nullbt/btstack/core"
)

func TestGATTDiscovererServesFreshCacheWithoutEngine(t *testing.T) {
	// No onSend scripting and no MTU negotiation at all: if Discover
	// fell through to the engine it would block forever waiting for
	// the MTU and this test would time out the test binary, not just
	// fail an assertion.
	engine := att.NewEngine(&fakeTransport{})
	seq := att.NewSequencer(engine)
	cache := NewPeerCache()
	addr := testAddr(1)

	want := []att.Service{{UUID: core.UUID16(0x1800), Start: 1, End: 5}}
	cache.PutGATTServices(addr, want, time.Now())

	d := NewGATTDiscoverer(seq, cache)
	got, r := d.Discover(addr, time.Now().Add(time.Millisecond), false)
	if r != core.OK {
		t.Fatalf("result = %v, want OK", r)
	}
	if len(got) != 1 || !got[0].UUID.Equal(want[0].UUID) {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
}

func TestGATTDiscovererInvalidateForcesMiss(t *testing.T) {
	engine := att.NewEngine(&fakeTransport{})
	seq := att.NewSequencer(engine)
	cache := NewPeerCache()
	addr := testAddr(1)

	cache.PutGATTServices(addr, []att.Service{{}}, time.Now())
	d := NewGATTDiscoverer(seq, cache)
	d.Invalidate(addr)

	if _, ok := cache.GATTServices(addr, time.Now()); ok {
		t.Fatal("expected a miss after Invalidate")
	}
}
