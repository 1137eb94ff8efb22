package avdtp

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// DefaultTimeout is the per-command wait used absent a sequencer
// budget override.
const DefaultTimeout = 2 * time.Second

// Engine drives one AVDTP signaling channel: per-peer label
// allocation (monotonic modulo 16) and request/response correlation
// through core.Channel.
type Engine struct {
	ch  *core.Channel
	log *logrus.Entry

	mu    sync.Mutex
	label uint8

	// Signal is invoked with peer-initiated signals (a COMMAND frame
	// this engine did not request, e.g. a remote-initiated Suspend);
	// it bypasses the channel entirely.
	Signal func(b []byte)
}

// NewEngine builds an Engine writing requests to tr.
func NewEngine(tr core.Transport) *Engine {
	e := &Engine{ch: core.NewChannel(tr), log: logrus.WithField("component", "avdtp")}
	e.ch.Notify = e.handleNotification
	return e
}

// NextLabel allocates the next transaction label, wrapping modulo 16.
func (e *Engine) NextLabel() uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	l := e.label
	e.label = (e.label + 1) & 0x0f
	return l
}

// Execute enqueues cmd.
func (e *Engine) Execute(cmd *Command, wait time.Duration, onComplete core.OnComplete) {
	e.ch.Execute(wait, cmd, onComplete)
}

// ExecuteSync blocks until cmd completes and returns its Result.
func (e *Engine) ExecuteSync(cmd *Command, wait time.Duration) core.Result {
	done := make(chan core.Result, 1)
	e.Execute(cmd, wait, func(r core.Result) { done <- r })
	return <-done
}

// HandlePacket feeds one inbound AVDTP signal frame (one L2CAP frame)
// to the channel.
func (e *Engine) HandlePacket(b []byte) {
	e.ch.Deliver(b)
}

func (e *Engine) handleNotification(b []byte) bool {
	if len(b) < 1 {
		return false
	}
	msgType := MessageType(b[0] & 0x03)
	if msgType != MsgCommand {
		e.log.WithField("byte0", b[0]).Debug("dropping unmatched avdtp response (label mismatch)")
		return false
	}
	if e.Signal != nil {
		e.Signal(b)
	}
	return true
}

// Close tears down the channel.
func (e *Engine) Close() { e.ch.Close() }
