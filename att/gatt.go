package att

import (
	"sync"
	"time"

	"github.com/nullbt/btstack/core"
)

// Rights is a characteristic's properties bitmask, carried in the
// first byte of a characteristic declaration value.
type Rights uint8

const (
	RightsBroadcast   Rights = 1 << 0
	RightsRead        Rights = 1 << 1
	RightsWriteNoResp Rights = 1 << 2
	RightsWrite       Rights = 1 << 3
	RightsNotify      Rights = 1 << 4
	RightsIndicate    Rights = 1 << 5
	RightsSignedWrite Rights = 1 << 6
	RightsExtended    Rights = 1 << 7
)

// Has reports whether every bit in want is set.
func (r Rights) Has(want Rights) bool { return r&want == want }

// Descriptor is one GATT descriptor: a handle and its UUID.
type Descriptor struct {
	Handle uint16
	UUID   core.UUID
}

// Characteristic is one GATT characteristic declaration together with
// its descriptors and cached initial value.
type Characteristic struct {
	DeclHandle  uint16
	ValueHandle uint16
	EndHandle   uint16
	UUID        core.UUID
	Rights      Rights
	Descriptors []Descriptor
	Value       []byte
}

// Service is one primary (or secondary) service group.
type Service struct {
	UUID            core.UUID
	Start, End      uint16
	Characteristics []Characteristic
}

// Sequencer drives an Engine through the full service →
// characteristic → descriptor → value enumeration under one
// wall-clock budget, as GATT's central role requires.
type Sequencer struct {
	engine *Engine

	mu      sync.Mutex
	aborted bool
}

// NewSequencer builds a Sequencer over an already MTU-negotiated Engine.
func NewSequencer(e *Engine) *Sequencer {
	return &Sequencer{engine: e}
}

// Abort cancels a Discover in progress; the next command boundary it
// crosses reports core.AsyncAborted instead of continuing.
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

// remaining returns the time left until deadline; a non-positive
// result means the budget is spent, which callers report as TimedOut.
func remaining(deadline time.Time) time.Duration {
	return time.Until(deadline)
}

// Discover enumerates every primary service between handles 0x0001
// and 0xffff, then for each, its characteristics, descriptors and
// initial value, never spending past deadline. custom selects whether
// characteristics whose UUID is not a 16-bit short form are visited.
func (s *Sequencer) Discover(deadline time.Time, custom bool) ([]Service, core.Result) {
	services, r := s.discoverServices(deadline)
	if r != core.OK {
		return nil, r
	}
	for i := range services {
		if s.isAborted() {
			return nil, core.AsyncAborted
		}
		if remaining(deadline) <= 0 {
			return nil, core.TimedOut
		}
		svc := &services[i]
		if svc.End <= svc.Start {
			continue
		}
		chars, r := s.discoverCharacteristics(deadline, *svc)
		if r != core.OK {
			return nil, r
		}
		svc.Characteristics = chars

		for j := range svc.Characteristics {
			ch := &svc.Characteristics[j]
			if !custom && !ch.UUID.HasShort() {
				continue
			}
			if s.isAborted() {
				return nil, core.AsyncAborted
			}
			if remaining(deadline) <= 0 {
				return nil, core.TimedOut
			}
			descs, r := s.discoverDescriptors(deadline, *ch)
			if r != core.OK {
				return nil, r
			}
			ch.Descriptors = descs

			if remaining(deadline) <= 0 {
				return nil, core.TimedOut
			}
			val, r := s.readValue(deadline, ch.ValueHandle)
			if r != core.OK {
				return nil, r
			}
			ch.Value = val
		}
	}
	return services, core.OK
}

func (s *Sequencer) discoverServices(deadline time.Time) ([]Service, core.Result) {
	wait := remaining(deadline)
	if wait <= 0 {
		return nil, core.TimedOut
	}
	cmd := ReadByGroupType(0x0001, 0xffff, core.UUID16(UUIDPrimaryService))
	r := s.engine.ExecuteSync(cmd, wait)
	if r != core.OK {
		return nil, r
	}
	var out []Service
	for _, e := range cmd.Entries() {
		u, err := core.UUIDFromLittleEndian(e.Value)
		if err != nil {
			continue
		}
		out = append(out, Service{UUID: u, Start: e.Handle, End: e.GroupEnd})
	}
	return out, core.OK
}

func (s *Sequencer) discoverCharacteristics(deadline time.Time, svc Service) ([]Characteristic, core.Result) {
	wait := remaining(deadline)
	if wait <= 0 {
		return nil, core.TimedOut
	}
	cmd := ReadByType(svc.Start+1, svc.End, core.UUID16(UUIDCharacteristic))
	r := s.engine.ExecuteSync(cmd, wait)
	if r != core.OK {
		return nil, r
	}
	entries := cmd.Entries()
	out := make([]Characteristic, 0, len(entries))
	for i, e := range entries {
		if len(e.Value) < 3 {
			continue
		}
		rights := Rights(e.Value[0])
		valueHandle := uint16(e.Value[1]) | uint16(e.Value[2])<<8
		u, err := core.UUIDFromLittleEndian(e.Value[3:])
		if err != nil {
			continue
		}
		end := svc.End
		if i+1 < len(entries) {
			end = entries[i+1].Handle - 1
		}
		out = append(out, Characteristic{
			DeclHandle:  e.Handle,
			ValueHandle: valueHandle,
			EndHandle:   end,
			UUID:        u,
			Rights:      rights,
		})
	}
	return out, core.OK
}

func (s *Sequencer) discoverDescriptors(deadline time.Time, ch Characteristic) ([]Descriptor, core.Result) {
	if ch.EndHandle <= ch.ValueHandle {
		return nil, core.OK
	}
	wait := remaining(deadline)
	if wait <= 0 {
		return nil, core.TimedOut
	}
	cmd := FindInformation(ch.ValueHandle+1, ch.EndHandle)
	r := s.engine.ExecuteSync(cmd, wait)
	if r != core.OK {
		return nil, r
	}
	var out []Descriptor
	for _, e := range cmd.Entries() {
		out = append(out, Descriptor{Handle: e.Handle, UUID: e.UUID})
	}
	return out, core.OK
}

func (s *Sequencer) readValue(deadline time.Time, handle uint16) ([]byte, core.Result) {
	wait := remaining(deadline)
	if wait <= 0 {
		return nil, core.TimedOut
	}
	cmd := Read(handle)
	r := s.engine.ExecuteSync(cmd, wait)
	if r != core.OK {
		return nil, r
	}
	return cmd.Value(), core.OK
}
