package sdp

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// DefaultTimeout is the per-command wait used absent a sequencer
// budget override.
const DefaultTimeout = 2 * time.Second

// Engine drives one SDP channel: transaction-id allocation, request
// dispatch through core.Channel, and continuation-chained responses.
type Engine struct {
	ch  *core.Channel
	log *logrus.Entry

	mu  sync.Mutex
	tid uint16
}

// NewEngine builds an Engine writing requests to tr.
func NewEngine(tr core.Transport) *Engine {
	return &Engine{ch: core.NewChannel(tr), log: logrus.WithField("component", "sdp")}
}

// NextTID allocates the next monotonically increasing transaction id.
func (e *Engine) NextTID() uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tid++
	return e.tid
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

// HandlePacket feeds one inbound SDP PDU (one L2CAP frame) to the
// channel.
func (e *Engine) HandlePacket(b []byte) {
	e.ch.Deliver(b)
}

// Close tears down the channel.
func (e *Engine) Close() { e.ch.Close() }
