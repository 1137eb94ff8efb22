package sdp

import (
	"github.com/nullbt/btstack/core"
)

type kind int

const (
	kindServiceSearch kind = iota
	kindServiceAttribute
	kindServiceSearchAttribute
)

// maxAccumulatedBytes bounds how much continuation payload a single
// Command will accumulate before giving up, guarding against a server
// that never terminates its continuation state.
const maxAccumulatedBytes = 64 * 1024

// Command is one outstanding SDP request. It implements core.Command;
// a core.Channel drives continuation retransmission via
// core.DispositionResend exactly as ATT's range-walking opcodes do.
type Command struct {
	kind kind
	tid  uint16

	uuids      []core.UUID
	maxResults uint16
	handle     uint32
	ranges     []AttrRange

	cont     []byte
	payload  []byte // accumulated response bytes across continuation rounds
	handles  []uint32
	attrs    map[uint16]Element

	result  core.Result
	errCode ErrorCode
}

// ServiceSearch builds a ServiceSearchRequest for up to 12 UUIDs,
// asking for at most maxResults (<=256) matching handles.
func ServiceSearch(tid uint16, uuids []core.UUID, maxResults uint16) *Command {
	return &Command{kind: kindServiceSearch, tid: tid, uuids: uuids, maxResults: maxResults}
}

// ServiceAttribute builds a ServiceAttributeRequest retrieving ranges
// of attributes of the service named by handle.
func ServiceAttribute(tid uint16, handle uint32, ranges []AttrRange) *Command {
	return &Command{kind: kindServiceAttribute, tid: tid, handle: handle, ranges: ranges}
}

// ServiceSearchAttribute builds a ServiceSearchAttributeRequest:
// ServiceSearch and ServiceAttribute combined into one round trip.
func ServiceSearchAttribute(tid uint16, uuids []core.UUID, ranges []AttrRange) *Command {
	return &Command{kind: kindServiceSearchAttribute, tid: tid, uuids: uuids, ranges: ranges}
}

func pushUUIDList(r *core.Record, uuids []core.UUID) bool {
	return PushSequence(r, 16*len(uuids)+2*len(uuids), func(child *core.Record) {
		for _, u := range uuids {
			PushUUID(child, u)
		}
	})
}

func pushRangeList(r *core.Record, ranges []AttrRange) bool {
	return PushSequence(r, 8*len(ranges), func(child *core.Record) {
		for _, rg := range ranges {
			if rg.Start == rg.End {
				PushUint(child, uint64(rg.Start), 2)
			} else {
				PushUint(child, uint64(rg.Start)<<16|uint64(rg.End), 4)
			}
		}
	})
}

func header(pdu PDUID, tid uint16, paramLen int) []byte {
	return []byte{
		byte(pdu),
		byte(tid >> 8), byte(tid),
		byte(paramLen >> 8), byte(paramLen),
	}
}

// Request implements core.Command. On a continuation round it
// re-sends with the stored continuation state appended.
func (c *Command) Request() []byte {
	body := core.NewRecord(1024)
	switch c.kind {
	case kindServiceSearch:
		pushUUIDList(body, c.uuids)
		body.PushUint16BE(c.maxResults)
	case kindServiceAttribute:
		body.PushUint32BE(c.handle)
		body.PushUint16BE(0xffff) // max attribute byte count
		pushRangeList(body, c.ranges)
	case kindServiceSearchAttribute:
		pushUUIDList(body, c.uuids)
		body.PushUint16BE(0xffff)
		pushRangeList(body, c.ranges)
	default:
		return nil
	}
	WriteContinuation(body, c.cont)

	pdu := c.requestPDU()
	frame := header(pdu, c.tid, body.Len())
	return append(frame, body.Bytes()...)
}

func (c *Command) requestPDU() PDUID {
	switch c.kind {
	case kindServiceSearch:
		return PDUServiceSearchRequest
	case kindServiceAttribute:
		return PDUServiceAttributeRequest
	default:
		return PDUServiceSearchAttributeRequest
	}
}

// Result implements core.Command.
func (c *Command) Result() core.Result { return c.result }

// Handles returns the accumulated matching service-record handles,
// valid once Result is core.OK for a ServiceSearch command.
func (c *Command) Handles() []uint32 { return c.handles }

// Attributes returns the decoded attribute-id → element map, valid
// once Result is core.OK for a ServiceAttribute or
// ServiceSearchAttribute command.
func (c *Command) Attributes() map[uint16]Element { return c.attrs }

// ErrCode returns the remote's SDP error code when Result is
// core.AsyncFailed.
func (c *Command) ErrCode() ErrorCode { return c.errCode }

func (c *Command) fail(code ErrorCode) (core.Disposition, int) {
	c.result = core.AsyncFailed
	c.errCode = code
	return core.DispositionCompleted, 0
}

// Deliver implements core.Command.
func (c *Command) Deliver(b []byte) (core.Disposition, int) {
	if len(b) < 5 {
		return core.DispositionPending, 0
	}
	pdu := PDUID(b[0])
	tid := uint16(b[1])<<8 | uint16(b[2])
	paramLen := int(uint16(b[3])<<8 | uint16(b[4]))
	if tid != c.tid || len(b) < 5+paramLen {
		return core.DispositionPending, 0
	}
	n := 5 + paramLen
	body := core.NewRecordFromBytes(b[5:n])

	if pdu == PDUErrorResponse {
		code, ok := body.PopUint16BE()
		if !ok {
			return c.fail(ErrInvalidPDUSize)
		}
		return c.fail(ErrorCode(code))
	}

	if respFor[c.requestPDU()] != pdu {
		return core.DispositionPending, 0
	}

	switch c.kind {
	case kindServiceSearch:
		return c.deliverServiceSearch(body, n)
	default:
		return c.deliverAttributeResponse(body, n)
	}
}

func (c *Command) deliverServiceSearch(body *core.Record, n int) (core.Disposition, int) {
	if _, ok := body.PopUint16BE(); !ok { // total service record count, unused here
		return c.fail(ErrInvalidPDUSize)
	}
	current, ok := body.PopUint16BE()
	if !ok {
		return c.fail(ErrInvalidPDUSize)
	}
	chunk, ok := body.PopBytes(int(current) * 4)
	if !ok {
		return c.fail(ErrInvalidPDUSize)
	}
	c.payload = append(c.payload, chunk...)
	if len(c.payload) > maxAccumulatedBytes {
		return c.fail(ErrInvalidContinuationState)
	}

	cont, ok := ReadContinuation(body)
	if !ok {
		return c.fail(ErrInvalidContinuationState)
	}
	if len(cont) > 0 {
		c.cont = cont
		return core.DispositionResend, n
	}

	for i := 0; i+4 <= len(c.payload); i += 4 {
		h := uint32(c.payload[i])<<24 | uint32(c.payload[i+1])<<16 | uint32(c.payload[i+2])<<8 | uint32(c.payload[i+3])
		c.handles = append(c.handles, h)
	}
	c.result = core.OK
	return core.DispositionCompleted, n
}

func (c *Command) deliverAttributeResponse(body *core.Record, n int) (core.Disposition, int) {
	byteCount, ok := body.PopUint16BE()
	if !ok {
		return c.fail(ErrInvalidPDUSize)
	}
	chunk, ok := body.PopBytes(int(byteCount))
	if !ok {
		return c.fail(ErrInvalidPDUSize)
	}
	c.payload = append(c.payload, chunk...)
	if len(c.payload) > maxAccumulatedBytes {
		return c.fail(ErrInvalidContinuationState)
	}

	cont, ok := ReadContinuation(body)
	if !ok {
		return c.fail(ErrInvalidContinuationState)
	}
	if len(cont) > 0 {
		c.cont = cont
		return core.DispositionResend, n
	}

	attrs := make(map[uint16]Element)
	r := core.NewRecordFromBytes(c.payload)
	top, ok := PopElement(r)
	if ok && top.Type == TypeSeq {
		for i := 0; i+1 < len(top.Seq); i += 2 {
			id := top.Seq[i]
			if id.Type != TypeUint {
				continue
			}
			attrs[uint16(id.UInt)] = top.Seq[i+1]
		}
	}
	c.attrs = attrs
	c.result = core.OK
	return core.DispositionCompleted, n
}
