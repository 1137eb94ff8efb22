package avdtp

import (
	"testing"

	"github.com/nullbt/btstack/core"
)

func TestDiscoverRequestFraming(t *testing.T) {
	cmd := Discover(3)
	req := cmd.Request()
	if len(req) != 2 {
		t.Fatalf("len = %d, want 2", len(req))
	}
	if label := (req[0] >> 4) & 0x0f; label != 3 {
		t.Fatalf("label = %d, want 3", label)
	}
	if pt := PacketType((req[0] >> 2) & 0x03); pt != PacketSingle {
		t.Fatalf("packet type = %v, want Single", pt)
	}
	if mt := MessageType(req[0] & 0x03); mt != MsgCommand {
		t.Fatalf("msg type = %v, want Command", mt)
	}
	if SignalID(req[1]&0x3f) != SigDiscover {
		t.Fatalf("signal = %#x, want Discover", req[1])
	}
}

func TestDiscoverAcceptResponse(t *testing.T) {
	cmd := Discover(3)
	resp := []byte{
		3<<4 | byte(PacketSingle)<<2 | byte(MsgResponseAccept), byte(SigDiscover),
		0x04, 0x00, // seid=1 not in use, media type 0, TSEP src
		0x0A, 0x08, // seid=2 in use, media type 0, TSEP sink
	}
	disp, n := cmd.Deliver(resp)
	if disp != core.DispositionCompleted || n != len(resp) {
		t.Fatalf("got (%v, %d)", disp, n)
	}
	if cmd.Result() != core.OK {
		t.Fatalf("result = %v, want OK", cmd.Result())
	}
	seps := ReadDiscovery(cmd.Payload())
	if len(seps) != 2 {
		t.Fatalf("seps = %d, want 2", len(seps))
	}
	if seps[0].SEID != 1 || seps[0].InUse {
		t.Fatalf("sep0 = %+v", seps[0])
	}
	if seps[1].SEID != 2 || !seps[1].InUse || seps[1].TSEP != TSEPSink {
		t.Fatalf("sep1 = %+v", seps[1])
	}
}

func TestLabelMismatchDropped(t *testing.T) {
	cmd := Discover(3)
	resp := []byte{5<<4 | byte(PacketSingle)<<2 | byte(MsgResponseAccept), byte(SigDiscover)}
	disp, n := cmd.Deliver(resp)
	if disp != core.DispositionPending || n != 0 {
		t.Fatalf("got (%v, %d), want (Pending, 0)", disp, n)
	}
}

func TestSetConfigurationRejectCarriesFailingSEID(t *testing.T) {
	cmd := SetConfiguration(1, 2, 3, nil)
	resp := []byte{
		1<<4 | byte(PacketSingle)<<2 | byte(MsgResponseReject), byte(SigSetConfiguration),
		2 << 2, 0x16, // failing seid=2, BAD_CAPABILITY-ish code
	}
	disp, n := cmd.Deliver(resp)
	if disp != core.DispositionCompleted || n != len(resp) {
		t.Fatalf("got (%v, %d)", disp, n)
	}
	if cmd.Result() != core.AsyncFailed {
		t.Fatalf("result = %v, want AsyncFailed", cmd.Result())
	}
	if cmd.FailingSEID() != 2 {
		t.Fatalf("failing seid = %d, want 2", cmd.FailingSEID())
	}
	if cmd.ErrCode() != 0x16 {
		t.Fatalf("err code = %#x, want 0x16", cmd.ErrCode())
	}
}

func TestFragmentedResponseReassembly(t *testing.T) {
	cmd := GetAllCapabilities(2, 7)

	start := []byte{2<<4 | byte(PacketStart)<<2 | byte(MsgResponseAccept), 2, byte(SigGetAllCapabilities), 0x01, 0x02}
	disp, n := cmd.Deliver(start)
	if disp != core.DispositionPending || n != len(start) {
		t.Fatalf("start = (%v, %d)", disp, n)
	}

	cont := []byte{2<<4 | byte(PacketContinue)<<2 | byte(MsgResponseAccept), 0x03}
	disp, n = cmd.Deliver(cont)
	if disp != core.DispositionPending || n != len(cont) {
		t.Fatalf("continue = (%v, %d)", disp, n)
	}

	end := []byte{2<<4 | byte(PacketEnd)<<2 | byte(MsgResponseAccept), 0x04}
	disp, n = cmd.Deliver(end)
	if disp != core.DispositionCompleted || n != len(end) {
		t.Fatalf("end = (%v, %d)", disp, n)
	}
	if cmd.Result() != core.OK {
		t.Fatalf("result = %v, want OK", cmd.Result())
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	got := cmd.Payload()
	if len(got) != len(want) {
		t.Fatalf("payload = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("payload = %v, want %v", got, want)
		}
	}
}
