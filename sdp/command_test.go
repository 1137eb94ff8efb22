package sdp

import (
	"testing"

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

func TestServiceSearchRequestFraming(t *testing.T) {
	cmd := ServiceSearch(1, []core.UUID{core.UUID16(0x110B)}, 16)
	req := cmd.Request()
	if PDUID(req[0]) != PDUServiceSearchRequest {
		t.Fatalf("pdu = %#x, want ServiceSearchRequest", req[0])
	}
	tid := uint16(req[1])<<8 | uint16(req[2])
	if tid != 1 {
		t.Fatalf("tid = %d, want 1", tid)
	}
}

func TestServiceSearchResponseContinuationChaining(t *testing.T) {
	cmd := ServiceSearch(5, []core.UUID{core.UUID16(0x110B)}, 256)

	// round 1: one handle, continuation present
	body1 := core.NewRecord(64)
	body1.PushUint16BE(2)
	body1.PushUint16BE(1)
	body1.PushUint32BE(0x00010000)
	WriteContinuation(body1, []byte{0x01})
	frame1 := append(header(PDUServiceSearchResponse, 5, body1.Len()), body1.Bytes()...)

	disp, n := cmd.Deliver(frame1)
	if disp != core.DispositionResend || n != len(frame1) {
		t.Fatalf("round1 = (%v, %d)", disp, n)
	}
	if len(cmd.cont) != 1 || cmd.cont[0] != 0x01 {
		t.Fatalf("continuation = %v", cmd.cont)
	}

	// round 2: final handle, continuation empty
	body2 := core.NewRecord(64)
	body2.PushUint16BE(2)
	body2.PushUint16BE(1)
	body2.PushUint32BE(0x00010001)
	WriteContinuation(body2, nil)
	frame2 := append(header(PDUServiceSearchResponse, 5, body2.Len()), body2.Bytes()...)

	disp, n = cmd.Deliver(frame2)
	if disp != core.DispositionCompleted || n != len(frame2) {
		t.Fatalf("round2 = (%v, %d)", disp, n)
	}
	if cmd.Result() != core.OK {
		t.Fatalf("result = %v, want OK", cmd.Result())
	}
	handles := cmd.Handles()
	if len(handles) != 2 || handles[0] != 0x00010000 || handles[1] != 0x00010001 {
		t.Fatalf("handles = %v", handles)
	}
}

func TestErrorResponseFailsCommand(t *testing.T) {
	cmd := ServiceSearch(9, nil, 16)
	body := core.NewRecord(2)
	body.PushUint16BE(uint16(ErrInvalidRequestSyntax))
	frame := append(header(PDUErrorResponse, 9, body.Len()), body.Bytes()...)

	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionCompleted || n != len(frame) {
		t.Fatalf("got (%v, %d)", disp, n)
	}
	if cmd.Result() != core.AsyncFailed {
		t.Fatalf("result = %v, want AsyncFailed", cmd.Result())
	}
	if cmd.ErrCode() != ErrInvalidRequestSyntax {
		t.Fatalf("errcode = %v", cmd.ErrCode())
	}
}

// TestServiceSearchAttributeA2DPSink mirrors a server that knows one
// A2DP Audio Sink service record with a ProtocolDescriptorList and
// returns it in a single response.
func TestServiceSearchAttributeA2DPSink(t *testing.T) {
	cmd := ServiceSearchAttribute(3, []core.UUID{core.UUID16(0x110B)}, []AttrRange{{Start: 0x0000, End: 0xffff}})

	payload := core.NewRecord(128)
	PushElement(payload, Element{Type: TypeSeq, Seq: []Element{
		{Type: TypeUint, UInt: AttrServiceRecordHandle, Width: 2},
		{Type: TypeUint, UInt: 0x00010000, Width: 4},
		{Type: TypeUint, UInt: AttrServiceClassIDList, Width: 2},
		{Type: TypeSeq, Seq: []Element{{Type: TypeUUID, UUID: core.UUID16(0x110B)}}},
		{Type: TypeUint, UInt: AttrProtocolDescriptorList, Width: 2},
		{Type: TypeSeq, Seq: []Element{
			{Type: TypeSeq, Seq: []Element{{Type: TypeUUID, UUID: core.UUID16(0x0100)}, {Type: TypeUint, UInt: 0x0019, Width: 2}}},
			{Type: TypeSeq, Seq: []Element{{Type: TypeUUID, UUID: core.UUID16(0x0019)}, {Type: TypeUint, UInt: 0x0103, Width: 2}}},
		}},
	}})

	body := core.NewRecord(payload.Len() + 8)
	body.PushUint16BE(uint16(payload.Len()))
	body.PushBytes(payload.Bytes())
	WriteContinuation(body, nil)
	frame := append(header(PDUServiceSearchAttributeResponse, 3, body.Len()), body.Bytes()...)

	disp, n := cmd.Deliver(frame)
	if disp != core.DispositionCompleted || n != len(frame) {
		t.Fatalf("got (%v, %d)", disp, n)
	}
	if cmd.Result() != core.OK {
		t.Fatalf("result = %v, want OK", cmd.Result())
	}
	attrs := cmd.Attributes()
	if attrs[AttrServiceRecordHandle].UInt != 0x00010000 {
		t.Fatalf("handle = %v", attrs[AttrServiceRecordHandle])
	}
	classList := attrs[AttrServiceClassIDList]
	if len(classList.Seq) != 1 || !classList.Seq[0].UUID.Equal(core.UUID16(0x110B)) {
		t.Fatalf("class list = %+v", classList)
	}
	protoList := attrs[AttrProtocolDescriptorList]
	if len(protoList.Seq) != 2 {
		t.Fatalf("protocol list = %+v", protoList)
	}
}
