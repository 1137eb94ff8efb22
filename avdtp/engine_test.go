package avdtp

import (
	"testing"
	"time"

	"github.com/nullbt/btstack/core"
)

type fakeTransport struct {
	writes [][]byte
	onSend func(b []byte)
}

func (f *fakeTransport) Write(b []byte) (int, error) {
	cp := append([]byte{}, b...)
	f.writes = append(f.writes, cp)
	if f.onSend != nil {
		f.onSend(cp)
	}
	return len(b), nil
}

func TestNextLabelMonotonicWraps(t *testing.T) {
	e := NewEngine(&fakeTransport{})
	seen := make([]uint8, 0, 20)
	for i := 0; i < 20; i++ {
		seen = append(seen, e.NextLabel())
	}
	for i, l := range seen {
		if want := uint8(i % 16); l != want {
			t.Fatalf("label[%d] = %d, want %d", i, l, want)
		}
	}
}

func TestEngineExecuteSyncCompletes(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr)
	cmd := Discover(e.NextLabel())

	tr.onSend = func(b []byte) {
		label := (b[0] >> 4) & 0x0f
		resp := []byte{label<<4 | byte(PacketSingle)<<2 | byte(MsgResponseAccept), byte(SigDiscover), 0x04, 0x00}
		e.HandlePacket(resp)
	}

	r := e.ExecuteSync(cmd, time.Second)
	if r != core.OK {
		t.Fatalf("result = %v, want OK", r)
	}
}

func TestEngineDispatchesPeerInitiatedSignal(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr)

	var got []byte
	e.Signal = func(b []byte) { got = append([]byte{}, b...) }

	peerSuspend := []byte{7<<4 | byte(PacketSingle)<<2 | byte(MsgCommand), byte(SigSuspend), seidByte(1)}
	e.HandlePacket(peerSuspend)

	if got == nil {
		t.Fatal("Signal was not invoked")
	}
	if SignalID(got[1]&0x3f) != SigSuspend {
		t.Fatalf("signal = %#x, want Suspend", got[1])
	}
}

func TestEngineDropsUnmatchedResponse(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr)

	called := false
	e.Signal = func(b []byte) { called = true }

	stray := []byte{9<<4 | byte(PacketSingle)<<2 | byte(MsgResponseAccept), byte(SigOpen)}
	e.HandlePacket(stray)

	if called {
		t.Fatal("Signal should not fire for a response-type frame with no matching command")
	}
}
