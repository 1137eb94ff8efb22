package hci

import (
	"github.com/nullbt/btstack/core"
)

// Param is implemented by each concrete HCI command payload.
type Param interface {
	Opcode() Opcode
	Len() int
	Marshal(b []byte)
}

// Command is one HCI command in flight, implementing core.Command so it
// can be scheduled by a core.Channel. It applies a four-rule response
// match against inbound events: CMD_STATUS opcode+status, CMD_COMPLETE
// opcode+return-params, LE meta-event subevent, or a raw declared
// response event code.
type Command struct {
	param Param

	// responseEvent, when non-zero, is the specific event code that
	// completes this command instead of (or in addition to) a bare
	// CMD_STATUS success (matching rule 1).
	responseEvent EventCode
	// isLE marks an LE controller command whose completion arrives as
	// an LE meta-event subevent (matching rule 3).
	isLE     bool
	subEvent SubEventCode
	// expectReturnLen, when >0, is the size of the return-parameters
	// struct CMD_COMPLETE must carry; a shorter payload is truncation.
	expectReturnLen int

	result   core.Result
	failCode uint8
	response []byte
	done     bool
}

// NewCommand builds a plain command (no further response event
// declared): it completes on a matching CMD_STATUS or CMD_COMPLETE.
func NewCommand(p Param) *Command {
	return &Command{param: p}
}

// WithResponseEvent declares that this command only completes when the
// given raw event code arrives (matching rule 4), after an initial
// CMD_STATUS success leaves it pending.
func (c *Command) WithResponseEvent(evt EventCode) *Command {
	c.responseEvent = evt
	return c
}

// WithLEMetaEvent declares that this command completes via an LE
// meta-event carrying the given subevent code (matching rule 3).
func (c *Command) WithLEMetaEvent(sub SubEventCode) *Command {
	c.isLE = true
	c.subEvent = sub
	return c
}

// WithExpectedReturnLen declares the size of the CMD_COMPLETE return
// parameters struct, so a short reply is detected as truncation.
func (c *Command) WithExpectedReturnLen(n int) *Command {
	c.expectReturnLen = n
	return c
}

// Request marshals the full HCI command packet:
// [HCI_COMMAND_PKT][opcode_lo][opcode_hi][plen][params...].
func (c *Command) Request() []byte {
	op := c.param.Opcode()
	plen := c.param.Len()
	b := make([]byte, 4+plen)
	b[0] = PacketTypeCommand
	b[1] = byte(op)
	b[2] = byte(op >> 8)
	b[3] = byte(plen)
	c.param.Marshal(b[4:])
	return b
}

// Deliver implements the four ordered matching rules above. b is
// [EventCode][event params...], as reassembled by Engine's event
// dispatch from the raw [0x04][evt][plen][params] wire frame.
func (c *Command) Deliver(b []byte) (core.Disposition, int) {
	if len(b) < 1 {
		return core.DispositionPending, 0
	}
	code := EventCode(b[0])
	body := b[1:]

	switch code {
	case EvtCommandStatus:
		if len(body) < 4 {
			return core.DispositionPending, 0
		}
		status := body[0]
		op := Opcode(uint16(body[2]) | uint16(body[3])<<8)
		if op != c.param.Opcode() {
			return core.DispositionPending, 0
		}
		if status != 0 {
			c.result = core.AsyncFailed
			c.failCode = status
			c.done = true
			return core.DispositionCompleted, len(b)
		}
		if c.responseEvent == 0 && !c.isLE {
			c.result = core.OK
			c.done = true
			return core.DispositionCompleted, len(b)
		}
		// Status ok but a specific response event is still awaited.
		return core.DispositionPending, len(b)

	case EvtCommandComplete:
		if len(body) < 3 {
			return core.DispositionPending, 0
		}
		op := Opcode(uint16(body[1]) | uint16(body[2])<<8)
		if op != c.param.Opcode() {
			return core.DispositionPending, 0
		}
		ret := body[3:]
		if c.expectReturnLen > 0 && len(ret) < c.expectReturnLen {
			c.result = core.General
			c.done = true
			return core.DispositionCompleted, len(b)
		}
		c.response = append([]byte{}, ret...)
		if len(ret) > 0 {
			c.failCode = ret[0]
		}
		c.result = core.OK
		c.done = true
		return core.DispositionCompleted, len(b)

	case EvtLEMeta:
		if !c.isLE || len(body) < 1 {
			return core.DispositionPending, 0
		}
		if SubEventCode(body[0]) != c.subEvent {
			return core.DispositionPending, 0
		}
		c.response = append([]byte{}, body[1:]...)
		c.result = core.OK
		c.done = true
		return core.DispositionCompleted, len(b)

	default:
		if c.responseEvent != 0 && code == c.responseEvent {
			c.response = append([]byte{}, body...)
			c.result = core.OK
			c.done = true
			return core.DispositionCompleted, len(b)
		}
		return core.DispositionPending, 0
	}
}

// Result reports the outcome once Deliver has completed the command.
func (c *Command) Result() core.Result { return c.result }

// Response returns the accumulated return-parameters / event-body bytes.
func (c *Command) Response() []byte { return c.response }

// FailCode returns the remote status/error byte of the last failure,
// for diagnostic inspection.
func (c *Command) FailCode() uint8 { return c.failCode }
