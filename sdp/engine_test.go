package sdp

import (
	"testing"
	"time"

	"github.com/nullbt/btstack/core"
)

func TestEngineNextTIDMonotonic(t *testing.T) {
	e := NewEngine(&fakeTransport{})
	a := e.NextTID()
	b := e.NextTID()
	if b != a+1 {
		t.Fatalf("tids = %d, %d, want monotonic", a, b)
	}
}

func TestEngineExecuteSyncCompletes(t *testing.T) {
	tr := &fakeTransport{}
	e := NewEngine(tr)
	tid := e.NextTID()
	cmd := ServiceSearch(tid, []core.UUID{core.UUID16(0x1101)}, 16)

	done := make(chan core.Result, 1)
	e.Execute(cmd, time.Second, func(r core.Result) { done <- r })

	body := core.NewRecord(16)
	body.PushUint16BE(1)
	body.PushUint16BE(1)
	body.PushUint32BE(0x1234)
	WriteContinuation(body, nil)
	frame := append(header(PDUServiceSearchResponse, tid, body.Len()), body.Bytes()...)
	e.HandlePacket(frame)

	select {
	case r := <-done:
		if r != core.OK {
			t.Fatalf("result = %v, want OK", r)
		}
	default:
		t.Fatal("command did not complete")
	}
}
