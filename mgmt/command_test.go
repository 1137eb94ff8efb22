package mgmt

import (
	"testing"

	"github.com/nullbt/btstack/core"
)

type fakeTransport struct {
	writes [][]byte
}

func (f *fakeTransport) Write(b []byte) (int, error) {
	cp := append([]byte{}, b...)
	f.writes = append(f.writes, cp)
	return len(b), nil
}

func TestCommandRequestHeader(t *testing.T) {
	cmd := NewCommand(SetPowered(true), 0x0002)
	req := cmd.Request()
	if len(req) != 7 {
		t.Fatalf("request length = %d, want 7", len(req))
	}
	gotOp := uint16(req[0]) | uint16(req[1])<<8
	if Opcode(gotOp) != OpSetPowered {
		t.Fatalf("opcode = %#x, want %#x", gotOp, OpSetPowered)
	}
	gotIndex := uint16(req[2]) | uint16(req[3])<<8
	if gotIndex != 0x0002 {
		t.Fatalf("index = %#x, want 0x0002", gotIndex)
	}
	gotLen := uint16(req[4]) | uint16(req[5])<<8
	if gotLen != 1 {
		t.Fatalf("payload len = %d, want 1", gotLen)
	}
	if req[6] != 1 {
		t.Fatalf("enabled byte = %d, want 1", req[6])
	}
}

func TestCommandDeliverCmdStatusFailure(t *testing.T) {
	cmd := NewCommand(SetPowered(true), 0)
	op := uint16(OpSetPowered)
	frame := []byte{
		byte(EvtCommandStatus), byte(EvtCommandStatus >> 8),
		0, 0,
		3, 0,
		byte(op), byte(op >> 8), StatusBusy,
	}
	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionCompleted {
		t.Fatalf("disposition = %v, want Completed", disp)
	}
	if n != len(frame) {
		t.Fatalf("consumed %d bytes, want %d", n, len(frame))
	}
	if cmd.Result() != core.AsyncFailed {
		t.Fatalf("result = %v, want AsyncFailed", cmd.Result())
	}
}

func TestCommandDeliverCmdStatusAlreadyConnected(t *testing.T) {
	cmd := NewCommand(PairDevice{Address: core.NewAddress([6]byte{1, 2, 3, 4, 5, 6}, core.AddressBREDR)}, 0)
	op := uint16(OpPairDevice)
	frame := []byte{
		byte(EvtCommandStatus), byte(EvtCommandStatus >> 8),
		0, 0,
		3, 0,
		byte(op), byte(op >> 8), StatusAlreadyConnected,
	}
	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionCompleted || n != len(frame) {
		t.Fatalf("got (%v, %d), want (Completed, %d)", disp, n, len(frame))
	}
	if cmd.Result() != core.AlreadyConnected {
		t.Fatalf("result = %v, want AlreadyConnected", cmd.Result())
	}
}

func TestCommandDeliverUnpairAlreadyReleased(t *testing.T) {
	cmd := NewCommand(UnpairDevice{Address: core.NewAddress([6]byte{1, 2, 3, 4, 5, 6}, core.AddressBREDR)}, 0)
	op := uint16(OpUnpairDevice)
	body := []byte{byte(op), byte(op >> 8), StatusNotPaired}
	frame := append([]byte{
		byte(EvtCommandComplete), byte(EvtCommandComplete >> 8),
		0, 0,
		byte(len(body)), 0,
	}, body...)
	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionCompleted || n != len(frame) {
		t.Fatalf("got (%v, %d), want (Completed, %d)", disp, n, len(frame))
	}
	if cmd.Result() != core.AlreadyReleased {
		t.Fatalf("result = %v, want AlreadyReleased", cmd.Result())
	}
}

func TestCommandDeliverNotPairedOnOtherOpcodeIsFailure(t *testing.T) {
	cmd := NewCommand(PairDevice{Address: core.NewAddress([6]byte{1, 2, 3, 4, 5, 6}, core.AddressBREDR)}, 0)
	op := uint16(OpPairDevice)
	body := []byte{byte(op), byte(op >> 8), StatusNotPaired}
	frame := append([]byte{
		byte(EvtCommandComplete), byte(EvtCommandComplete >> 8),
		0, 0,
		byte(len(body)), 0,
	}, body...)
	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionCompleted || n != len(frame) {
		t.Fatalf("got (%v, %d), want (Completed, %d)", disp, n, len(frame))
	}
	if cmd.Result() != core.AsyncFailed {
		t.Fatalf("result = %v, want AsyncFailed (NOT_PAIRED only means idempotent on UnpairDevice)", cmd.Result())
	}
}

func TestCommandDeliverCmdComplete(t *testing.T) {
	cmd := NewCommand(ReadVersion{}, IndexNonController)
	op := uint16(OpReadVersion)
	body := []byte{byte(op), byte(op >> 8), StatusSuccess, 0x01, 0x02, 0x03}
	frame := append([]byte{
		byte(EvtCommandComplete), byte(EvtCommandComplete >> 8),
		0xff, 0xff,
		byte(len(body)), 0,
	}, body...)

	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionCompleted {
		t.Fatalf("disposition = %v, want Completed", disp)
	}
	if n != len(frame) {
		t.Fatalf("consumed %d, want %d", n, len(frame))
	}
	if cmd.Result() != core.OK {
		t.Fatalf("result = %v, want OK", cmd.Result())
	}
	if got := cmd.Response(); len(got) != 3 || got[0] != 0x01 {
		t.Fatalf("response = %v, want [1 2 3]", got)
	}
}

func TestCommandDeliverWrongOpcodeIgnored(t *testing.T) {
	cmd := NewCommand(ReadVersion{}, IndexNonController)
	op := uint16(OpReadIndexList)
	frame := []byte{
		byte(EvtCommandComplete), byte(EvtCommandComplete >> 8),
		0xff, 0xff,
		3, 0,
		byte(op), byte(op >> 8), StatusSuccess,
	}
	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionPending || n != 0 {
		t.Fatalf("got (%v, %d), want (Pending, 0) for a mismatched opcode", disp, n)
	}
}

func TestLoadLinkKeysMarshal(t *testing.T) {
	k := core.LinkKey{
		Address:   core.NewAddress([6]byte{1, 2, 3, 4, 5, 6}, core.AddressBREDR),
		PinLength: 4,
		KeyType:   1,
	}
	p := LoadLinkKeys{DebugKeys: 0, Keys: []core.LinkKey{k}}
	b := make([]byte, p.Len())
	p.Marshal(b)
	if b[0] != 0 {
		t.Fatalf("debug keys byte = %d, want 0", b[0])
	}
	n := uint16(b[1]) | uint16(b[2])<<8
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	if len(b) != 1+2+25 {
		t.Fatalf("len = %d, want %d", len(b), 1+2+25)
	}
}
