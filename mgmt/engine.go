package mgmt

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// DefaultTimeout is the per-command wait used throughout this package.
const DefaultTimeout = 500 * time.Millisecond

// DeviceFoundEvent is a parsed EvtDeviceFound payload: address, type,
// RSSI, flags and variable-length EIR data.
type DeviceFoundEvent struct {
	Address     core.Address
	AddressType core.AddressType
	RSSI        int8
	Flags       uint32
	EIR         []byte
}

// Engine drives one MGMT socket: a core.Channel scheduling
// commands/responses, with controller events (device found, new keys,
// discovering state, pairing prompts) dispatched to typed callbacks
// independent of any in-flight command.
type Engine struct {
	ch  *core.Channel
	log *logrus.Entry
	cfg engineConfig

	DeviceFound     func(index uint16, ev DeviceFoundEvent)
	Discovering     func(index uint16, addressTypeMask uint8, on bool)
	NewLinkKey      func(index uint16, key core.LinkKey)
	NewLongTermKey  func(index uint16, key core.LongTermKey)
	NewIRK          func(index uint16, key core.IdentityKey)
	DeviceConnected func(index uint16, addr core.Address, addrType core.AddressType)
	DeviceDisconnected func(index uint16, addr core.Address, addrType core.AddressType, reason uint8)
	UserConfirmRequest func(index uint16, addr core.Address, addrType core.AddressType, passkey uint32, confirmHint uint8)
}

// NewEngine builds an Engine writing MGMT command packets to tr.
func NewEngine(tr core.Transport, opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, o := range opts {
		o(&cfg)
	}
	e := &Engine{
		ch:  core.NewChannel(tr),
		log: logrus.WithField("component", "mgmt"),
		cfg: cfg,
	}
	e.ch.Notify = e.handleNotification
	return e
}

// DefaultIOCapability returns the IO capability configured by
// WithIOCapability (3, NoInputNoOutput, when no option sets it).
func (e *Engine) DefaultIOCapability() uint8 { return e.cfg.ioCapability }

// HandlePacket is fed one raw MGMT event frame at a time, as read off
// the management socket (the frame Deliver itself parses).
func (e *Engine) HandlePacket(b []byte) {
	e.ch.Deliver(b)
}

func (e *Engine) handleNotification(b []byte) bool {
	if len(b) < 6 {
		return false
	}
	evt := EventCode(uint16(b[0]) | uint16(b[1])<<8)
	index := uint16(b[2]) | uint16(b[3])<<8
	plen := int(uint16(b[4]) | uint16(b[5])<<8)
	if len(b) < 6+plen {
		return false
	}
	body := b[6 : 6+plen]

	switch evt {
	case EvtDeviceFound:
		e.dispatchDeviceFound(index, body)
		return true
	case EvtDiscovering:
		if len(body) >= 2 && e.Discovering != nil {
			e.Discovering(index, body[0], body[1] != 0)
		}
		return true
	case EvtNewLinkKey:
		if e.NewLinkKey != nil && len(body) >= 1+25 {
			if k, err := core.ParseLinkKeyBytes(body[1:26]); err == nil {
				e.NewLinkKey(index, k)
			}
		}
		return true
	case EvtNewLongTermKey:
		if e.NewLongTermKey != nil && len(body) >= 1+36 {
			if k, err := core.ParseLongTermKeyBytes(body[1:37]); err == nil {
				e.NewLongTermKey(index, k)
			}
		}
		return true
	case EvtNewIRK:
		if e.NewIRK != nil && len(body) >= 6+23 {
			if k, err := core.ParseIdentityKeyBytes(body[6:29]); err == nil {
				e.NewIRK(index, k)
			}
		}
		return true
	case EvtDeviceConnected:
		e.dispatchConnected(index, body)
		return true
	case EvtDeviceDisconnected:
		e.dispatchDisconnected(index, body)
		return true
	case EvtUserConfirmRequest:
		e.dispatchUserConfirm(index, body)
		return true
	default:
		e.log.WithField("event", evt).Debug("unhandled mgmt event")
		return false
	}
}

func parseAddr(b []byte) (core.Address, core.AddressType) {
	var raw [6]byte
	copy(raw[:], b[0:6])
	t := core.AddressType(b[6])
	return core.NewAddress(raw, t), t
}

func (e *Engine) dispatchDeviceFound(index uint16, body []byte) {
	if e.DeviceFound == nil || len(body) < 7+1+4+2 {
		return
	}
	addr, addrType := parseAddr(body[0:7])
	rssi := int8(body[7])
	flags := uint32(body[8]) | uint32(body[9])<<8 | uint32(body[10])<<16 | uint32(body[11])<<24
	eirLen := int(uint16(body[12]) | uint16(body[13])<<8)
	var eir []byte
	if 14+eirLen <= len(body) {
		eir = append([]byte{}, body[14:14+eirLen]...)
	}
	e.DeviceFound(index, DeviceFoundEvent{
		Address:     addr,
		AddressType: addrType,
		RSSI:        rssi,
		Flags:       flags,
		EIR:         eir,
	})
}

func (e *Engine) dispatchConnected(index uint16, body []byte) {
	if e.DeviceConnected == nil || len(body) < 7 {
		return
	}
	addr, addrType := parseAddr(body[0:7])
	e.DeviceConnected(index, addr, addrType)
}

func (e *Engine) dispatchDisconnected(index uint16, body []byte) {
	if e.DeviceDisconnected == nil || len(body) < 8 {
		return
	}
	addr, addrType := parseAddr(body[0:7])
	e.DeviceDisconnected(index, addr, addrType, body[7])
}

func (e *Engine) dispatchUserConfirm(index uint16, body []byte) {
	if e.UserConfirmRequest == nil || len(body) < 7+4+1 {
		return
	}
	addr, addrType := parseAddr(body[0:7])
	passkey := uint32(body[7]) | uint32(body[8])<<8 | uint32(body[9])<<16 | uint32(body[10])<<24
	e.UserConfirmRequest(index, addr, addrType, passkey, body[11])
}

// Execute schedules cmd on the engine's channel and invokes done once
// it completes.
func (e *Engine) Execute(cmd *Command, done func(core.Result)) {
	e.ch.Execute(e.cfg.defaultTimeout, cmd, done)
}

// ExecuteSync runs cmd to completion and returns its result, blocking
// the calling goroutine.
func (e *Engine) ExecuteSync(cmd *Command) core.Result {
	resultc := make(chan core.Result, 1)
	e.Execute(cmd, func(r core.Result) { resultc <- r })
	return <-resultc
}

// Revoke cancels a not-yet-sent command.
func (e *Engine) Revoke(cmd *Command) bool { return e.ch.Revoke(cmd) }

// Close stops the engine's channel.
func (e *Engine) Close() { e.ch.Close() }
