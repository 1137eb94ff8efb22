package sdp

import (
	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// Lookup maps a ServiceSearchAttributeRequest's UUID list to the
// matching service-record handles.
type Lookup func(uuids []core.UUID) []uint32

// Serializer returns the attribute map (already-decoded elements) a
// record exposes within the requested attribute-id ranges.
type Serializer func(handle uint32, ranges []AttrRange) map[uint16]Element

// Server is a minimal SDP responder: it answers
// ServiceSearchAttributeRequest only, using an application-provided
// Lookup and Serializer. Continuation is not implemented on the
// server side; a response that would exceed maxBytes is rejected with
// INSUFFICIENT_RESOURCES instead.
type Server struct {
	Lookup     Lookup
	Serializer Serializer
	MaxBytes   int

	log *logrus.Entry
}

// NewServer builds a Server; MaxBytes defaults to 0xffff (the largest
// value the 16-bit byte-count field can carry) when left zero.
func NewServer(lookup Lookup, serializer Serializer) *Server {
	return &Server{Lookup: lookup, Serializer: serializer, MaxBytes: 0xffff, log: logrus.WithField("component", "sdp-server")}
}

// HandleRequest decodes one inbound PDU and returns the response
// frame to write back, or nil if the PDU was not a
// ServiceSearchAttributeRequest this server answers.
func (s *Server) HandleRequest(b []byte) []byte {
	if len(b) < 5 {
		return nil
	}
	pdu := PDUID(b[0])
	tid := uint16(b[1])<<8 | uint16(b[2])
	paramLen := int(uint16(b[3])<<8 | uint16(b[4]))
	if pdu != PDUServiceSearchAttributeRequest || len(b) < 5+paramLen {
		return nil
	}
	body := core.NewRecordFromBytes(b[5 : 5+paramLen])

	uuidsElem, ok := PopElement(body)
	if !ok || uuidsElem.Type != TypeSeq {
		return s.errorResponse(tid, ErrInvalidRequestSyntax)
	}
	var uuids []core.UUID
	for _, e := range uuidsElem.Seq {
		if e.Type == TypeUUID {
			uuids = append(uuids, e.UUID)
		}
	}

	if _, ok := body.PopUint16BE(); !ok { // max attribute byte count, ignored on the server
		return s.errorResponse(tid, ErrInvalidRequestSyntax)
	}

	rangesElem, ok := PopElement(body)
	if !ok || rangesElem.Type != TypeSeq {
		return s.errorResponse(tid, ErrInvalidRequestSyntax)
	}
	ranges := decodeRanges(rangesElem)

	if _, ok := ReadContinuation(body); !ok {
		return s.errorResponse(tid, ErrInvalidContinuationState)
	}

	handles := s.Lookup(uuids)
	lists := make([]Element, 0, len(handles))
	for _, h := range handles {
		attrs := s.Serializer(h, ranges)
		pairs := make([]Element, 0, 2*len(attrs))
		for id, v := range attrs {
			pairs = append(pairs, Element{Type: TypeUint, UInt: uint64(id), Width: 2}, v)
		}
		lists = append(lists, Element{Type: TypeSeq, Seq: pairs})
	}
	top := Element{Type: TypeSeq, Seq: lists}

	payload := core.NewRecord(s.maxBytes() + 256)
	if !PushElement(payload, top) {
		return s.errorResponse(tid, ErrInsufficientResources)
	}
	if payload.Len() > s.maxBytes() {
		return s.errorResponse(tid, ErrInsufficientResources)
	}

	resp := core.NewRecord(payload.Len() + 8)
	resp.PushUint16BE(uint16(payload.Len()))
	resp.PushBytes(payload.Bytes())
	WriteContinuation(resp, nil)

	frame := header(PDUServiceSearchAttributeResponse, tid, resp.Len())
	return append(frame, resp.Bytes()...)
}

func (s *Server) maxBytes() int {
	if s.MaxBytes <= 0 {
		return 0xffff
	}
	return s.MaxBytes
}

func (s *Server) errorResponse(tid uint16, code ErrorCode) []byte {
	body := core.NewRecord(2)
	body.PushUint16BE(uint16(code))
	frame := header(PDUErrorResponse, tid, body.Len())
	return append(frame, body.Bytes()...)
}

func decodeRanges(e Element) []AttrRange {
	var out []AttrRange
	for _, sub := range e.Seq {
		if sub.Type != TypeUint {
			continue
		}
		if sub.Width == 2 {
			out = append(out, AttrRange{Start: uint16(sub.UInt), End: uint16(sub.UInt)})
		} else {
			out = append(out, AttrRange{Start: uint16(sub.UInt >> 16), End: uint16(sub.UInt)})
		}
	}
	return out
}
