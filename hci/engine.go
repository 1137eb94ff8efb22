package hci

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// DefaultTimeout is the per-command wait used throughout this package.
const DefaultTimeout = 2 * time.Second

// AdvertisingReport is a single LE advertising or scan-response report,
// parsed out of an EvtLEMeta/SubEventAdvertisingRept payload.
type AdvertisingReport struct {
	EventType   uint8
	AddressType core.AddressType
	Address     core.Address
	Data        []byte
	RSSI        int8
}

// Engine drives one HCI socket: it owns the core.Channel scheduling
// commands/responses, and dispatches inbound event packets either to
// the in-flight command or to an unsolicited-report callback.
type Engine struct {
	ch  *core.Channel
	log *logrus.Entry
	cfg engineConfig

	// AdvertisingReports receives parsed LE advertising/scan-response
	// reports as they arrive, independent of any in-flight command —
	// these bypass the command queue entirely.
	AdvertisingReports func(AdvertisingReport)
}

// NewEngine builds an Engine writing HCI command packets to tr.
func NewEngine(tr core.Transport, opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, o := range opts {
		o(&cfg)
	}
	e := &Engine{
		ch:  core.NewChannel(tr),
		log: logrus.WithField("component", "hci"),
		cfg: cfg,
	}
	e.ch.Notify = e.handleNotification
	return e
}

// HandlePacket is fed raw bytes read off the HCI socket, one HCI packet
// at a time (including the leading packet-type byte), by the owning
// transport's read loop.
func (e *Engine) HandlePacket(b []byte) {
	if len(b) == 0 {
		return
	}
	switch b[0] {
	case PacketTypeEvent:
		e.handleEvent(b[1:])
	default:
		e.log.WithField("type", b[0]).Debug("unhandled hci packet type")
	}
}

// handleEvent unpacks [evt][plen][params...] and routes [evt][params]
// to the Channel, which correlates it to the head Command (or, failing
// that, to handleNotification).
func (e *Engine) handleEvent(b []byte) {
	if len(b) < 2 {
		return
	}
	code := b[0]
	plen := int(b[1])
	if len(b) < 2+plen {
		e.log.WithField("code", code).Warn("short hci event, dropping")
		return
	}
	params := b[2 : 2+plen]
	framed := make([]byte, 1+len(params))
	framed[0] = code
	copy(framed[1:], params)
	e.ch.Deliver(framed)
}

func (e *Engine) handleNotification(b []byte) bool {
	if len(b) < 1 {
		return false
	}
	if EventCode(b[0]) == EvtLEMeta && len(b) >= 2 && SubEventCode(b[1]) == SubEventAdvertisingRept {
		e.dispatchAdvertisingReports(b[2:])
		return true
	}
	return false
}

func (e *Engine) dispatchAdvertisingReports(b []byte) {
	if e.AdvertisingReports == nil || len(b) < 1 {
		return
	}
	n := int(b[0])
	o := b[1:]
	// The payload is read in three passes over the reports: first each
	// report's event type (1), address type (1) and address (6) as one
	// 8-byte group, then each report's data length + data, then each
	// report's RSSI byte.
	type raw struct {
		evtType, addrType uint8
		addr              [6]byte
		data              []byte
		rssi              int8
	}
	reports := make([]raw, 0, n)
	off := 0
	for i := 0; i < n && off < len(o); i++ {
		if off+8 > len(o) {
			break
		}
		r := raw{evtType: o[off], addrType: o[off+1]}
		copy(r.addr[:], o[off+2:off+8])
		off += 8
		reports = append(reports, r)
	}
	for i := range reports {
		if off >= len(o) {
			break
		}
		dlen := int(o[off])
		off++
		if off+dlen > len(o) {
			break
		}
		reports[i].data = append([]byte{}, o[off:off+dlen]...)
		off += dlen
	}
	for i := range reports {
		if off >= len(o) {
			break
		}
		reports[i].rssi = int8(o[off])
		off++
	}
	for _, r := range reports {
		e.AdvertisingReports(AdvertisingReport{
			EventType:   r.evtType,
			AddressType: core.AddressType(r.addrType),
			Address:     core.NewAddress(r.addr, core.AddressType(r.addrType)),
			Data:        r.data,
			RSSI:        r.rssi,
		})
	}
}

// Execute schedules cmd on the engine's channel and invokes done once it
// completes.
func (e *Engine) Execute(cmd *Command, done func(core.Result)) {
	e.ch.Execute(e.cfg.defaultTimeout, cmd, done)
}

// ExecuteSync runs cmd to completion and returns its result, blocking
// the calling goroutine. Used for the bring-up sequence and by the scan
// state machine where a strictly sequential command flow is simplest.
func (e *Engine) ExecuteSync(cmd *Command) core.Result {
	resultc := make(chan core.Result, 1)
	e.Execute(cmd, func(r core.Result) { resultc <- r })
	return <-resultc
}

// Revoke cancels a not-yet-sent command.
func (e *Engine) Revoke(cmd *Command) bool { return e.ch.Revoke(cmd) }

// Close stops the engine's channel.
func (e *Engine) Close() { e.ch.Close() }

// ResetDevice runs the controller bring-up sequence: reset, set the
// event mask, enable simple pairing and LE host support, configure
// inquiry/page scan behavior, and size the host's data buffers.
func (e *Engine) ResetDevice() core.Result {
	seq := []Param{
		Reset{},
		SetEventMask{Mask: 0x3dbff807fffbffff},
		WriteSimplePairingMode{Mode: 1},
		WriteLEHostSupported{LESupported: 1, Simultaneous: 0},
		WriteInquiryMode{Mode: 2},
		WritePageScanType{Type: 1},
		WriteInquiryScanType{Type: 1},
		WriteClassOfDevice{Class: e.cfg.classOfDevice},
		WritePageTimeout{Timeout: e.cfg.pageTimeout},
		WriteDefaultLinkPolicy{Settings: 0x5},
		HostBufferSize{
			ACLDataPacketLength:     0x1000,
			SyncDataPacketLength:    0xff,
			TotalNumACLDataPackets:  0x0014,
			TotalNumSyncDataPackets: 0x000a,
		},
	}
	for _, p := range seq {
		if r := e.ExecuteSync(NewCommand(p)); r != core.OK {
			e.log.WithField("result", r).Error("hci bring-up step failed")
			return r
		}
	}
	return core.OK
}
