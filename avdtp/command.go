package avdtp

import "github.com/nullbt/btstack/core"

func seidByte(seid uint8) byte { return seid << 2 }

// Command is one outstanding AVDTP signal. It implements core.Command.
// Every request here is small enough to fit one outbound packet;
// inbound responses may still arrive fragmented (START/CONTINUE/END),
// which Deliver reassembles before classifying.
type Command struct {
	label   uint8
	signal  SignalID
	request []byte

	fragBuf        []byte
	fragExpected   int
	fragReceived   int
	fragmenting    bool
	pendingMsgType MessageType

	accepted    bool
	payload     []byte
	failingSEID uint8
	errCode     uint8

	result core.Result
}

func newCommand(label uint8, signal SignalID, payload []byte) *Command {
	header := []byte{label<<4 | byte(PacketSingle)<<2 | byte(MsgCommand), byte(signal) & 0x3f}
	return &Command{label: label, signal: signal, request: append(header, payload...)}
}

// Discover asks the peer to enumerate its stream endpoints.
func Discover(label uint8) *Command { return newCommand(label, SigDiscover, nil) }

// GetCapabilities asks for seid's basic capability set.
func GetCapabilities(label uint8, seid uint8) *Command {
	return newCommand(label, SigGetCapabilities, []byte{seidByte(seid)})
}

// GetAllCapabilities asks for seid's full capability set, including
// vendor-specific and delay-reporting categories.
func GetAllCapabilities(label uint8, seid uint8) *Command {
	return newCommand(label, SigGetAllCapabilities, []byte{seidByte(seid)})
}

// SetConfiguration configures acpSeid (the acceptor endpoint) to
// stream with intSeid (the initiator endpoint) using the given
// capability blocks.
func SetConfiguration(label uint8, acpSeid, intSeid uint8, categories []CapabilityEntry) *Command {
	payload := []byte{seidByte(acpSeid), seidByte(intSeid)}
	payload = appendCategories(payload, categories)
	return newCommand(label, SigSetConfiguration, payload)
}

// Reconfigure changes acpSeid's configuration to the given capability
// blocks (codec and content-protection only, per the protocol).
func Reconfigure(label uint8, acpSeid uint8, categories []CapabilityEntry) *Command {
	payload := []byte{seidByte(acpSeid)}
	payload = appendCategories(payload, categories)
	return newCommand(label, SigReconfigure, payload)
}

func appendCategories(payload []byte, categories []CapabilityEntry) []byte {
	for _, c := range categories {
		payload = append(payload, byte(c.Category), byte(len(c.Value)))
		payload = append(payload, c.Value...)
	}
	return payload
}

// Open opens the transport channel for seid.
func Open(label uint8, seid uint8) *Command { return newCommand(label, SigOpen, []byte{seidByte(seid)}) }

// Start begins streaming on the given (already-open) endpoints.
func Start(label uint8, seids []uint8) *Command {
	return newCommand(label, SigStart, seidList(seids))
}

// Suspend pauses streaming on the given endpoints.
func Suspend(label uint8, seids []uint8) *Command {
	return newCommand(label, SigSuspend, seidList(seids))
}

func seidList(seids []uint8) []byte {
	b := make([]byte, len(seids))
	for i, s := range seids {
		b[i] = seidByte(s)
	}
	return b
}

// Close releases seid's transport channel.
func Close(label uint8, seid uint8) *Command { return newCommand(label, SigClose, []byte{seidByte(seid)}) }

// Abort forces seid back to idle.
func Abort(label uint8, seid uint8) *Command { return newCommand(label, SigAbort, []byte{seidByte(seid)}) }

// SecurityControl carries an opaque vendor-defined security payload
// for seid.
func SecurityControl(label uint8, seid uint8, data []byte) *Command {
	return newCommand(label, SigSecurityControl, append([]byte{seidByte(seid)}, data...))
}

// Request implements core.Command.
func (c *Command) Request() []byte { return c.request }

// Result implements core.Command.
func (c *Command) Result() core.Result { return c.result }

// Payload returns the accepted response's payload, valid once Result
// is core.OK.
func (c *Command) Payload() []byte { return c.payload }

// FailingSEID returns the SEID the peer rejected, valid once Result
// is core.AsyncFailed and the signal is one that carries it
// (SetConfiguration, Reconfigure, Start, Suspend).
func (c *Command) FailingSEID() uint8 { return c.failingSEID }

// ErrCode returns the peer's rejection reason, valid once Result is
// core.AsyncFailed.
func (c *Command) ErrCode() uint8 { return c.errCode }

// Deliver implements core.Command.
func (c *Command) Deliver(b []byte) (core.Disposition, int) {
	if len(b) < 1 {
		return core.DispositionPending, 0
	}
	label := (b[0] >> 4) & 0x0f
	packetType := PacketType((b[0] >> 2) & 0x03)
	msgType := MessageType(b[0] & 0x03)
	n := len(b)

	if label != c.label {
		// a different transaction's fragment or an out-of-sequence
		// reply; mismatch is dropped, not ours to consume.
		return core.DispositionPending, 0
	}

	switch packetType {
	case PacketSingle:
		if len(b) < 2 {
			return core.DispositionPending, 0
		}
		return c.classify(msgType, b[2:], n)
	case PacketStart:
		if len(b) < 3 {
			return core.DispositionPending, 0
		}
		c.fragmenting = true
		c.fragExpected = int(b[1])
		c.fragReceived = 1
		c.fragBuf = append([]byte{}, b[3:]...)
		c.pendingMsgType = msgType
		return core.DispositionPending, n
	case PacketContinue:
		if !c.fragmenting {
			return core.DispositionPending, 0
		}
		c.fragBuf = append(c.fragBuf, b[1:]...)
		c.fragReceived++
		return core.DispositionPending, n
	case PacketEnd:
		if !c.fragmenting {
			return core.DispositionPending, 0
		}
		c.fragBuf = append(c.fragBuf, b[1:]...)
		msgType := c.pendingMsgType
		payload := c.fragBuf
		c.fragmenting = false
		return c.classify(msgType, payload, n)
	default:
		return core.DispositionPending, 0
	}
}

func (c *Command) classify(msgType MessageType, body []byte, n int) (core.Disposition, int) {
	switch msgType {
	case MsgResponseAccept:
		c.accepted = true
		c.payload = body
		c.result = core.OK
	case MsgResponseReject:
		if signalsWithFailingSEID[c.signal] && len(body) >= 2 {
			c.failingSEID = (body[0] >> 2) & 0x3f
			c.errCode = body[1]
		} else if len(body) >= 1 {
			c.errCode = body[0]
		}
		c.result = core.AsyncFailed
	default: // MsgGeneralReject or any unexpected type
		c.result = core.AsyncFailed
	}
	return core.DispositionCompleted, n
}
