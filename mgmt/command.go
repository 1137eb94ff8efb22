package mgmt

import (
	"github.com/nullbt/btstack/core"
)

// Param is implemented by each concrete MGMT command payload.
type Param interface {
	Opcode() Opcode
	Len() int
	Marshal(b []byte)
}

// Command is one MGMT command in flight. Its header is 6 bytes —
// opcode, controller index, payload length, all little-endian —
// followed by either a fixed-layout struct or, for the Load* list
// commands, a struct plus N trailing fixed-size entries.
//
// The response arrives as two possible events for the same opcode:
// EvtCommandStatus (an early failure report carrying only a status
// byte) and EvtCommandComplete (the final result, whose payload is
// truncated to the declared inbound struct size).
type Command struct {
	param   Param
	index   uint16
	expectReturnLen int

	result   core.Result
	status   uint8
	response []byte
	done     bool
}

// NewCommand builds a Command addressed at controller index, or
// IndexNonController for interface-level commands.
func NewCommand(p Param, index uint16) *Command {
	return &Command{param: p, index: index}
}

// WithExpectedReturnLen declares the size of the CMD_COMPLETE payload
// this command expects; a shorter payload is still accepted (the
// mgmt contract truncates, it does not fail on partial structs) but a
// shorter response is exposed to the caller via Response() unchanged.
func (c *Command) WithExpectedReturnLen(n int) *Command {
	c.expectReturnLen = n
	return c
}

// Request marshals the 6-byte MGMT header followed by the command's
// own payload: [opcode_lo][opcode_hi][index_lo][index_hi][len_lo][len_hi][params...].
func (c *Command) Request() []byte {
	op := c.param.Opcode()
	plen := c.param.Len()
	b := make([]byte, 6+plen)
	b[0] = byte(op)
	b[1] = byte(op >> 8)
	b[2] = byte(c.index)
	b[3] = byte(c.index >> 8)
	b[4] = byte(plen)
	b[5] = byte(plen >> 8)
	c.param.Marshal(b[6:])
	return b
}

// Deliver is fed [EventCode_lo][EventCode_hi][index_lo][index_hi][len_lo][len_hi][params...],
// the raw MGMT event frame. It matches CMD_STATUS and CMD_COMPLETE
// events whose embedded opcode equals this command's opcode.
func (c *Command) Deliver(b []byte) (core.Disposition, int) {
	if len(b) < 6 {
		return core.DispositionPending, 0
	}
	evt := EventCode(uint16(b[0]) | uint16(b[1])<<8)
	plen := int(uint16(b[4]) | uint16(b[5])<<8)
	if len(b) < 6+plen {
		return core.DispositionPending, 0
	}
	body := b[6 : 6+plen]

	switch evt {
	case EvtCommandStatus:
		if len(body) < 3 {
			return core.DispositionPending, 0
		}
		op := Opcode(uint16(body[0]) | uint16(body[1])<<8)
		if op != c.param.Opcode() {
			return core.DispositionPending, 0
		}
		c.status = body[2]
		if c.status == StatusSuccess {
			// Status-ok with no CMD_COMPLETE to follow would be
			// unusual for MGMT; keep waiting for CMD_COMPLETE, which
			// always follows a command one way or another.
			return core.DispositionPending, 6 + plen
		}
		c.result = c.statusResult()
		c.done = true
		return core.DispositionCompleted, 6 + plen

	case EvtCommandComplete:
		if len(body) < 3 {
			return core.DispositionPending, 0
		}
		op := Opcode(uint16(body[0]) | uint16(body[1])<<8)
		if op != c.param.Opcode() {
			return core.DispositionPending, 0
		}
		c.status = body[2]
		ret := body[3:]
		if c.expectReturnLen > 0 && len(ret) > c.expectReturnLen {
			ret = ret[:c.expectReturnLen]
		}
		c.response = append([]byte{}, ret...)
		if c.status == StatusSuccess {
			c.result = core.OK
		} else {
			c.result = c.statusResult()
		}
		c.done = true
		return core.DispositionCompleted, 6 + plen

	default:
		return core.DispositionPending, 0
	}
}

// statusResult translates a non-success MGMT status byte into a
// core.Result, special-casing the two idempotent-retry statuses:
// ALREADY_CONNECTED for a redundant pair/connect, and NOT_PAIRED on an
// UnpairDevice command (the device was already unpaired, not a real
// failure). Every other status is a genuine core.AsyncFailed.
func (c *Command) statusResult() core.Result {
	switch c.status {
	case StatusAlreadyConnected:
		return core.AlreadyConnected
	case StatusNotPaired:
		if c.param.Opcode() == OpUnpairDevice {
			return core.AlreadyReleased
		}
	}
	return core.AsyncFailed
}

// Result reports the outcome once Deliver has completed the command.
func (c *Command) Result() core.Result { return c.result }

// Response returns the CMD_COMPLETE return-parameters bytes.
func (c *Command) Response() []byte { return c.response }

// Status returns the remote status byte of the last CMD_STATUS or
// CMD_COMPLETE event observed, for diagnostic inspection.
func (c *Command) Status() uint8 { return c.status }
