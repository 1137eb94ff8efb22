package att

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// DefaultTimeout is the per-command wait used when a caller does not
// need to override it for a discovery sequencer's remaining budget.
const DefaultTimeout = 2 * time.Second

// DefaultClientMTU is the MTU offered during negotiation absent an
// application override; it matches the minimum ATT_MTU guaranteed by
// the core specification.
const DefaultClientMTU = 23

// Engine drives one ATT channel: MTU negotiation gating application
// traffic, range-walk/blob-chaining continuation via the underlying
// core.Channel, and dispatch of unsolicited HANDLE_NOTIFY/
// HANDLE_INDICATE frames.
type Engine struct {
	ch  *core.Channel
	log *logrus.Entry

	mu       sync.Mutex
	mtu      uint16
	ready    chan struct{}
	readyErr core.Result

	// Notify is invoked with (handle, value) for every unsolicited
	// HANDLE_NOTIFY and HANDLE_INDICATE frame; indications are
	// auto-confirmed once the callback returns.
	Notify func(handle uint16, value []byte)
}

// NewEngine builds an Engine writing requests to tr. Start must be
// called once before any application command to negotiate the MTU.
func NewEngine(tr core.Transport) *Engine {
	e := &Engine{
		ch:    core.NewChannel(tr),
		log:   logrus.WithField("component", "att"),
		ready: make(chan struct{}),
	}
	e.ch.Notify = e.handleNotification
	return e
}

// Start performs the one-shot MTU_REQ/MTU_RESP exchange. Every
// application command blocks until it completes; a transport failure
// or timeout still unblocks callers (they fall back to the 23-byte
// default) so a dead link cannot wedge a caller forever. Callers that
// want to observe the failure should inspect the returned Result.
func (e *Engine) Start(clientMTU uint16, wait time.Duration) core.Result {
	if clientMTU == 0 {
		clientMTU = DefaultClientMTU
	}
	cmd := negotiateMTU(clientMTU)
	done := make(chan core.Result, 1)
	e.ch.Execute(wait, cmd, func(r core.Result) { done <- r })
	r := <-done

	e.mu.Lock()
	if r == core.OK {
		e.mtu = cmd.MTU()
	} else {
		e.mtu = DefaultClientMTU
	}
	e.readyErr = r
	close(e.ready)
	e.mu.Unlock()
	return r
}

// MTU returns the negotiated MTU, or 0 before Start completes.
func (e *Engine) MTU() uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mtu
}

// Execute enqueues cmd, blocking until MTU negotiation has completed.
func (e *Engine) Execute(cmd *Command, wait time.Duration, onComplete core.OnComplete) {
	<-e.ready
	cmd.setMTU(int(e.MTU()))
	e.ch.Execute(wait, cmd, onComplete)
}

// ExecuteSync is Execute without a callback, blocking the caller until
// cmd completes and returning its Result directly.
func (e *Engine) ExecuteSync(cmd *Command, wait time.Duration) core.Result {
	done := make(chan core.Result, 1)
	e.Execute(cmd, wait, func(r core.Result) { done <- r })
	return <-done
}

// HandlePacket feeds one inbound ATT PDU (one L2CAP frame) to the
// channel.
func (e *Engine) HandlePacket(b []byte) {
	e.ch.Deliver(b)
}

func (e *Engine) handleNotification(b []byte) bool {
	if len(b) < 3 {
		return false
	}
	op := Opcode(b[0])
	if op != OpHandleNotify && op != OpHandleIndicate {
		return false
	}
	handle := uint16(b[1]) | uint16(b[2])<<8
	value := append([]byte{}, b[3:]...)
	if e.Notify != nil {
		e.Notify(handle, value)
	}
	if op == OpHandleIndicate {
		e.ch.Execute(time.Millisecond, &confirmCommand{}, nil)
	}
	return true
}

// confirmCommand sends HANDLE_CONFIRM, which has no reply; it rides
// the channel's own timeout to vacate the head immediately afterward
// rather than waiting for a Deliver that will never come.
type confirmCommand struct{}

func (c *confirmCommand) Request() []byte                          { return []byte{byte(OpHandleConfirm)} }
func (c *confirmCommand) Deliver(b []byte) (core.Disposition, int) { return core.DispositionPending, 0 }
func (c *confirmCommand) Result() core.Result                      { return core.OK }

// Close tears down the channel; any in-flight command is abandoned.
func (e *Engine) Close() { e.ch.Close() }
