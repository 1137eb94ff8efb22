package sdp

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// ProfileDescriptor is one entry of a service's
// BluetoothProfileDescriptorList.
type ProfileDescriptor struct {
	UUID         core.UUID
	VersionMajor uint8
	VersionMinor uint8
}

// ProtocolDescriptor is one entry of a service's
// ProtocolDescriptorList: a protocol UUID plus its parameters (e.g. an
// L2CAP PSM, an AVDTP version) in declaration order.
type ProtocolDescriptor struct {
	UUID   core.UUID
	Params []Element
}

// LanguageMetadata is one per-language block decoded from a service's
// LanguageBaseAttributeIDList plus the three name/description/provider
// text attributes it points at.
type LanguageMetadata struct {
	LangCode    uint16
	CharsetID   uint16
	Name        string
	Description string
	Provider    string
}

// Service is one discovered SDP service record: its raw attribute map
// plus the well-known lists decoded out of it.
type Service struct {
	Handle     uint32
	Attributes map[uint16]Element

	ServiceClassIDs []core.UUID
	Profiles        []ProfileDescriptor
	Protocols       []ProtocolDescriptor
	Languages       []LanguageMetadata
}

// Sequencer drives an Engine through ServiceSearch then, for every
// distinct handle found, ServiceAttribute across the full attribute-id
// space, under one wall-clock budget.
type Sequencer struct {
	engine *Engine
	log    *logrus.Entry

	mu      sync.Mutex
	aborted bool
}

// NewSequencer builds a Sequencer over engine.
func NewSequencer(engine *Engine) *Sequencer {
	return &Sequencer{engine: engine, log: logrus.WithField("component", "sdp-sequencer")}
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

// Discover searches for services matching any of uuids, then fetches
// and decodes every attribute of each distinct service found.
func (s *Sequencer) Discover(deadline time.Time, uuids []core.UUID) ([]Service, core.Result) {
	wait := time.Until(deadline)
	if wait <= 0 {
		return nil, core.TimedOut
	}
	search := ServiceSearch(s.engine.NextTID(), uuids, 256)
	if r := s.engine.ExecuteSync(search, wait); r != core.OK {
		return nil, r
	}

	seen := make(map[uint32]bool)
	var handles []uint32
	for _, h := range search.Handles() {
		if seen[h] {
			s.log.WithField("handle", h).Warn("duplicate service handle in search response, collapsing")
			continue
		}
		seen[h] = true
		handles = append(handles, h)
	}

	services := make([]Service, 0, len(handles))
	for _, h := range handles {
		if s.isAborted() {
			return nil, core.AsyncAborted
		}
		wait := time.Until(deadline)
		if wait <= 0 {
			return nil, core.TimedOut
		}
		cmd := ServiceAttribute(s.engine.NextTID(), h, []AttrRange{{Start: 0x0000, End: 0xffff}})
		if r := s.engine.ExecuteSync(cmd, wait); r != core.OK {
			return nil, r
		}
		svc := Service{Handle: h, Attributes: cmd.Attributes()}
		postProcess(&svc)
		services = append(services, svc)
	}
	return services, core.OK
}

func postProcess(svc *Service) {
	if e, ok := svc.Attributes[AttrServiceClassIDList]; ok {
		for _, sub := range e.Seq {
			if sub.Type == TypeUUID {
				svc.ServiceClassIDs = append(svc.ServiceClassIDs, sub.UUID)
			}
		}
	}
	if e, ok := svc.Attributes[AttrBluetoothProfileDescriptorList]; ok {
		for _, sub := range e.Seq {
			if sub.Type != TypeSeq || len(sub.Seq) < 2 {
				continue
			}
			if sub.Seq[0].Type != TypeUUID || sub.Seq[1].Type != TypeUint {
				continue
			}
			v := sub.Seq[1].UInt
			svc.Profiles = append(svc.Profiles, ProfileDescriptor{
				UUID:         sub.Seq[0].UUID,
				VersionMajor: uint8(v >> 8),
				VersionMinor: uint8(v),
			})
		}
	}
	if e, ok := svc.Attributes[AttrProtocolDescriptorList]; ok {
		for _, sub := range e.Seq {
			if sub.Type != TypeSeq || len(sub.Seq) == 0 || sub.Seq[0].Type != TypeUUID {
				continue
			}
			svc.Protocols = append(svc.Protocols, ProtocolDescriptor{UUID: sub.Seq[0].UUID, Params: sub.Seq[1:]})
		}
	}
	if e, ok := svc.Attributes[AttrLanguageBaseAttrIDList]; ok {
		for i := 0; i+2 < len(e.Seq); i += 3 {
			lang, charset, base := e.Seq[i], e.Seq[i+1], e.Seq[i+2]
			if lang.Type != TypeUint || charset.Type != TypeUint || base.Type != TypeUint {
				continue
			}
			baseID := uint16(base.UInt)
			meta := LanguageMetadata{LangCode: uint16(lang.UInt), CharsetID: uint16(charset.UInt)}
			if n, ok := svc.Attributes[baseID]; ok {
				meta.Name = string(n.Bytes)
			}
			if d, ok := svc.Attributes[baseID+1]; ok {
				meta.Description = string(d.Bytes)
			}
			if p, ok := svc.Attributes[baseID+2]; ok {
				meta.Provider = string(p.Bytes)
			}
			svc.Languages = append(svc.Languages, meta)
		}
	}
}
