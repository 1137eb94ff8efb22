package att

import "github.com/nullbt/btstack/core"

// Entry is one record out of a range-walking response. Its fields are
// populated according to which opcode produced it:
//
//   - FindInformation: Handle and UUID.
//   - FindByType: Handle (the found attribute) and GroupEnd.
//   - ReadByType: Handle and Value (the attribute's value).
//   - ReadByGroupType: Handle (group start), GroupEnd and Value (the
//     group/service UUID bytes).
type Entry struct {
	Handle   uint16
	GroupEnd uint16
	UUID     core.UUID
	Value    []byte
}

type kind int

const (
	kindFindInfo kind = iota
	kindFindByType
	kindReadByType
	kindReadByGroup
	kindRead
	kindWrite
	kindMTU
)

// Command is one outstanding ATT request. The same type serves every
// opcode; its behavior on Deliver is driven by kind. It implements
// core.Command, so a core.Channel drives it directly, including the
// ReadBlob/range-walk retransmissions via core.DispositionResend.
type Command struct {
	kind kind
	op   Opcode

	// range-walking state (FindInfo/FindByType/ReadByType/ReadByGroup)
	start, end uint16
	attrType   core.UUID
	attrValue  []byte
	entries    []Entry

	// read/blob-chaining state
	handle uint16
	value  []byte
	mtu    int

	// write
	writeValue []byte

	// MTU negotiation
	clientMTU     uint16
	negotiatedMTU uint16

	result  core.Result
	errCode ErrCode
	done    bool
}

// FindInformation discovers the UUIDs of attributes with handles in
// [start, end].
func FindInformation(start, end uint16) *Command {
	return &Command{kind: kindFindInfo, op: OpFindInfoReq, start: start, end: end}
}

// FindByType locates attributes of attrType whose value equals value,
// over handles in [start, end].
func FindByType(start, end uint16, attrType core.UUID, value []byte) *Command {
	return &Command{kind: kindFindByType, op: OpFindByTypeReq, start: start, end: end, attrType: attrType, attrValue: value}
}

// ReadByType reads the value of every attribute of attrType over
// handles in [start, end].
func ReadByType(start, end uint16, attrType core.UUID) *Command {
	return &Command{kind: kindReadByType, op: OpReadByTypeReq, start: start, end: end, attrType: attrType}
}

// ReadByGroupType enumerates group declarations (e.g. primary
// services) of groupType over handles in [start, end].
func ReadByGroupType(start, end uint16, groupType core.UUID) *Command {
	return &Command{kind: kindReadByGroup, op: OpReadByGroupReq, start: start, end: end, attrType: groupType}
}

// Read reads the full value of handle, chaining READ_BLOB
// continuations when the response fills the negotiated MTU exactly.
func Read(handle uint16) *Command {
	return &Command{kind: kindRead, op: OpReadReq, handle: handle}
}

// Write sends value to handle and waits for WRITE_RESP.
func Write(handle uint16, value []byte) *Command {
	return &Command{kind: kindWrite, op: OpWriteReq, handle: handle, writeValue: value}
}

// negotiateMTU builds the one-shot MTU_REQ/MTU_RESP exchange every
// engine performs at socket start.
func negotiateMTU(clientMTU uint16) *Command {
	return &Command{kind: kindMTU, op: OpMTUReq, clientMTU: clientMTU}
}

// setMTU is called by the engine before enqueuing a command that may
// need to chain (Read); range-walking commands ignore it.
func (c *Command) setMTU(mtu int) { c.mtu = mtu }

// Request implements core.Command.
func (c *Command) Request() []byte {
	switch c.kind {
	case kindFindInfo:
		return []byte{byte(OpFindInfoReq), byte(c.start), byte(c.start >> 8), byte(c.end), byte(c.end >> 8)}
	case kindFindByType:
		b := []byte{byte(OpFindByTypeReq), byte(c.start), byte(c.start >> 8), byte(c.end), byte(c.end >> 8)}
		b = append(b, c.attrType.LittleEndianBytes()...)
		return append(b, c.attrValue...)
	case kindReadByType:
		b := []byte{byte(OpReadByTypeReq), byte(c.start), byte(c.start >> 8), byte(c.end), byte(c.end >> 8)}
		return append(b, c.attrType.LittleEndianBytes()...)
	case kindReadByGroup:
		b := []byte{byte(OpReadByGroupReq), byte(c.start), byte(c.start >> 8), byte(c.end), byte(c.end >> 8)}
		return append(b, c.attrType.LittleEndianBytes()...)
	case kindRead:
		if len(c.value) == 0 {
			return []byte{byte(OpReadReq), byte(c.handle), byte(c.handle >> 8)}
		}
		// continuing a blob chain
		off := uint16(len(c.value))
		return []byte{byte(OpReadBlobReq), byte(c.handle), byte(c.handle >> 8), byte(off), byte(off >> 8)}
	case kindWrite:
		b := []byte{byte(OpWriteReq), byte(c.handle), byte(c.handle >> 8)}
		return append(b, c.writeValue...)
	case kindMTU:
		return []byte{byte(OpMTUReq), byte(c.clientMTU), byte(c.clientMTU >> 8)}
	default:
		return nil
	}
}

// Result implements core.Command.
func (c *Command) Result() core.Result { return c.result }

// Entries returns the accumulated range-walk records, valid once
// Result is core.OK for FindInformation/FindByType/ReadByType/
// ReadByGroupType commands.
func (c *Command) Entries() []Entry { return c.entries }

// Value returns the accumulated Read value, valid once Result is
// core.OK for a Read command.
func (c *Command) Value() []byte { return c.value }

// MTU returns the negotiated MTU, valid once Result is core.OK for an
// MTU command.
func (c *Command) MTU() uint16 { return c.negotiatedMTU }

// ErrCode returns the remote's ATT error byte when Result is
// core.AsyncFailed.
func (c *Command) ErrCode() ErrCode { return c.errCode }

// isRangeWalk reports whether c is one of the four handle-range-walking
// opcodes, the only ones where ATTRIBUTE_NOT_FOUND means "end of range"
// rather than a genuine failure.
func (c *Command) isRangeWalk() bool {
	switch c.kind {
	case kindFindInfo, kindFindByType, kindReadByType, kindReadByGroup:
		return true
	default:
		return false
	}
}

func (c *Command) fail(code ErrCode) (core.Disposition, int) {
	c.result = core.AsyncFailed
	c.errCode = code
	return core.DispositionCompleted, 0
}

// Deliver implements core.Command.
func (c *Command) Deliver(b []byte) (core.Disposition, int) {
	if len(b) == 0 {
		return core.DispositionPending, 0
	}
	op := Opcode(b[0])

	if op == OpError {
		if len(b) < 5 || Opcode(b[1]) != c.op {
			return core.DispositionPending, 0
		}
		code := ErrCode(b[4])
		n := len(b)
		if code == ErrAttrNotFound && c.isRangeWalk() {
			// an empty result set, not a failure: only the range-walking
			// opcodes (FindInformation/FindByType/ReadByType/
			// ReadByGroupType) use this to signal "nothing further in
			// range" — Read/Write/MTU never retry past a handle, so the
			// same code there is a genuine failure.
			c.result = core.OK
			return core.DispositionCompleted, n
		}
		c.result = core.AsyncFailed
		c.errCode = code
		return core.DispositionCompleted, n
	}

	want, ok := respFor[c.op]
	if !ok || op != want {
		return core.DispositionPending, 0
	}
	n := len(b)

	switch c.kind {
	case kindFindInfo:
		return c.deliverFindInfo(b, n)
	case kindFindByType:
		return c.deliverFindByType(b, n)
	case kindReadByType:
		return c.deliverReadByType(b, n)
	case kindReadByGroup:
		return c.deliverReadByGroup(b, n)
	case kindRead:
		return c.deliverRead(b, n)
	case kindWrite:
		c.result = core.OK
		return core.DispositionCompleted, n
	case kindMTU:
		if len(b) < 3 {
			return c.fail(ErrInvalidPDU)
		}
		serverMTU := uint16(b[1]) | uint16(b[2])<<8
		c.negotiatedMTU = serverMTU
		if c.clientMTU < serverMTU {
			c.negotiatedMTU = c.clientMTU
		}
		c.result = core.OK
		return core.DispositionCompleted, n
	default:
		return core.DispositionPending, 0
	}
}

func (c *Command) deliverFindInfo(b []byte, n int) (core.Disposition, int) {
	if len(b) < 2 {
		return c.fail(ErrInvalidPDU)
	}
	format := b[1]
	uuidLen := 16
	if format == 1 {
		uuidLen = 2
	}
	stride := 2 + uuidLen
	body := b[2:]
	var last uint16
	for len(body) >= stride {
		handle := uint16(body[0]) | uint16(body[1])<<8
		u, err := core.UUIDFromLittleEndian(body[2:stride])
		if err != nil {
			return c.fail(ErrInvalidPDU)
		}
		c.entries = append(c.entries, Entry{Handle: handle, UUID: u})
		last = handle
		body = body[stride:]
	}
	return c.advanceOrComplete(last, n)
}

func (c *Command) deliverFindByType(b []byte, n int) (core.Disposition, int) {
	const stride = 4
	body := b[1:]
	var last uint16
	for len(body) >= stride {
		handle := uint16(body[0]) | uint16(body[1])<<8
		groupEnd := uint16(body[2]) | uint16(body[3])<<8
		c.entries = append(c.entries, Entry{Handle: handle, GroupEnd: groupEnd})
		last = groupEnd
		body = body[stride:]
	}
	return c.advanceOrComplete(last, n)
}

func (c *Command) deliverReadByType(b []byte, n int) (core.Disposition, int) {
	if len(b) < 2 {
		return c.fail(ErrInvalidPDU)
	}
	stride := int(b[1])
	if stride < 2 {
		return c.fail(ErrInvalidPDU)
	}
	body := b[2:]
	var last uint16
	for len(body) >= stride {
		handle := uint16(body[0]) | uint16(body[1])<<8
		value := append([]byte{}, body[2:stride]...)
		c.entries = append(c.entries, Entry{Handle: handle, Value: value})
		last = handle
		body = body[stride:]
	}
	return c.advanceOrComplete(last, n)
}

func (c *Command) deliverReadByGroup(b []byte, n int) (core.Disposition, int) {
	if len(b) < 2 {
		return c.fail(ErrInvalidPDU)
	}
	stride := int(b[1])
	if stride < 4 {
		return c.fail(ErrInvalidPDU)
	}
	body := b[2:]
	var last uint16
	for len(body) >= stride {
		start := uint16(body[0]) | uint16(body[1])<<8
		end := uint16(body[2]) | uint16(body[3])<<8
		value := append([]byte{}, body[4:stride]...)
		c.entries = append(c.entries, Entry{Handle: start, GroupEnd: end, Value: value})
		last = end
		body = body[stride:]
	}
	return c.advanceOrComplete(last, n)
}

// advanceOrComplete implements the shared range-walk continuation
// rule: re-emit with start = last+1 until last reaches the frame end.
func (c *Command) advanceOrComplete(last uint16, n int) (core.Disposition, int) {
	if last == 0 || last >= c.end {
		c.result = core.OK
		return core.DispositionCompleted, n
	}
	c.start = last + 1
	return core.DispositionResend, n
}

func (c *Command) deliverRead(b []byte, n int) (core.Disposition, int) {
	chunk := b[1:]
	c.value = append(c.value, chunk...)
	if c.mtu > 0 && len(b) == c.mtu {
		// the follow-up is a READ_BLOB_REQ, answered by READ_BLOB_RESP
		c.op = OpReadBlobReq
		return core.DispositionResend, n
	}
	c.result = core.OK
	return core.DispositionCompleted, n
}
