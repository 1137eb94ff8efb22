package avdtp

import (
	"sync"
	"time"

	"github.com/nullbt/btstack/core"
)

// Endpoint is one discovered stream endpoint together with its filled
// capability map.
type Endpoint struct {
	SEPRecord
	Capabilities []CapabilityEntry
}

// Sequencer drives an Engine through Discover then, for every SEP
// found, GetCapabilities, under one wall-clock budget.
type Sequencer struct {
	engine *Engine

	mu      sync.Mutex
	aborted bool
}

// NewSequencer builds a Sequencer over engine.
func NewSequencer(engine *Engine) *Sequencer {
	return &Sequencer{engine: engine}
}

// Abort cancels a Discover in progress.
func (s *Sequencer) Abort() {
	s.mu.Lock()
	s.aborted = true
	s.mu.Unlock()
}

func (s *Sequencer) isAborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborted
}

// Discover enumerates the peer's stream endpoints and fills each
// one's capability map.
func (s *Sequencer) Discover(deadline time.Time) ([]Endpoint, core.Result) {
	wait := time.Until(deadline)
	if wait <= 0 {
		return nil, core.TimedOut
	}
	cmd := Discover(s.engine.NextLabel())
	if r := s.engine.ExecuteSync(cmd, wait); r != core.OK {
		return nil, r
	}
	seps := ReadDiscovery(cmd.Payload())

	endpoints := make([]Endpoint, 0, len(seps))
	for _, sep := range seps {
		if s.isAborted() {
			return nil, core.AsyncAborted
		}
		wait := time.Until(deadline)
		if wait <= 0 {
			return nil, core.TimedOut
		}
		capCmd := GetCapabilities(s.engine.NextLabel(), sep.SEID)
		if r := s.engine.ExecuteSync(capCmd, wait); r != core.OK {
			return nil, r
		}
		endpoints = append(endpoints, Endpoint{SEPRecord: sep, Capabilities: ReadConfiguration(capCmd.Payload())})
	}
	return endpoints, core.OK
}
