// Package avdtp implements the Audio/Video Distribution Transport
// Protocol's signaling channel: per-peer label allocation, fragmented
// signal framing, request builders for the full signal set, response
// classification, and a stream-endpoint discovery sequencer.
package avdtp

import "fmt"

// PacketType is the two-bit field selecting whether a signal frame is
// a whole message (Single) or one fragment of a larger one.
type PacketType uint8

const (
	PacketSingle   PacketType = 0
	PacketStart    PacketType = 1
	PacketContinue PacketType = 2
	PacketEnd      PacketType = 3
)

// MessageType is the two-bit field distinguishing a command from the
// three kinds of response.
type MessageType uint8

const (
	MsgCommand        MessageType = 0
	MsgGeneralReject  MessageType = 1
	MsgResponseAccept MessageType = 2
	MsgResponseReject MessageType = 3
)

// SignalID is the six-bit signal identifier carried in the first
// packet of a message.
type SignalID uint8

const (
	SigDiscover            SignalID = 0x01
	SigGetCapabilities      SignalID = 0x02
	SigSetConfiguration     SignalID = 0x03
	SigGetConfiguration     SignalID = 0x04
	SigReconfigure          SignalID = 0x05
	SigOpen                 SignalID = 0x06
	SigStart                SignalID = 0x07
	SigClose                SignalID = 0x08
	SigSuspend              SignalID = 0x09
	SigAbort                SignalID = 0x0a
	SigSecurityControl      SignalID = 0x0b
	SigGetAllCapabilities   SignalID = 0x0c
	SigDelayReport          SignalID = 0x0d
)

// signalsWithFailingSEID is the set of signals whose REJECT response
// carries a failing-SEID byte before the error code.
var signalsWithFailingSEID = map[SignalID]bool{
	SigSetConfiguration: true,
	SigReconfigure:      true,
	SigStart:            true,
	SigSuspend:          true,
}

// ServiceCategory identifies one capability block within
// GetCapabilities/GetAllCapabilities/SetConfiguration payloads.
type ServiceCategory uint8

const (
	CatMediaTransport     ServiceCategory = 0x01
	CatReporting          ServiceCategory = 0x02
	CatRecovery           ServiceCategory = 0x03
	CatContentProtection  ServiceCategory = 0x04
	CatHeaderCompression  ServiceCategory = 0x05
	CatMultiplexing       ServiceCategory = 0x06
	CatMediaCodec         ServiceCategory = 0x07
	CatDelayReporting     ServiceCategory = 0x08
)

// TSEP is a stream endpoint's role: source or sink.
type TSEP uint8

const (
	TSEPSource TSEP = 0
	TSEPSink   TSEP = 1
)

// SEPRecord is one 2-byte stream-endpoint-discovery record.
type SEPRecord struct {
	SEID      uint8
	InUse     bool
	MediaType uint8
	TSEP      TSEP
}

func decodeSEPRecord(b [2]byte) SEPRecord {
	return SEPRecord{
		SEID:      (b[0] >> 2) & 0x3f,
		InUse:     b[0]&0x02 != 0,
		MediaType: (b[1] >> 4) & 0x0f,
		TSEP:      TSEP((b[1] >> 3) & 0x01),
	}
}

// ReadDiscovery splits an accepted Discover response payload into its
// 2-byte SEP records.
func ReadDiscovery(payload []byte) []SEPRecord {
	var out []SEPRecord
	for len(payload) >= 2 {
		out = append(out, decodeSEPRecord([2]byte{payload[0], payload[1]}))
		payload = payload[2:]
	}
	return out
}

// CapabilityEntry is one (category, value) block within a
// GetCapabilities/GetAllCapabilities/SetConfiguration payload.
type CapabilityEntry struct {
	Category ServiceCategory
	Value    []byte
}

// ReadConfiguration splits an accepted capability payload into its
// (category, length, value) triples.
func ReadConfiguration(payload []byte) []CapabilityEntry {
	var out []CapabilityEntry
	for len(payload) >= 2 {
		cat := ServiceCategory(payload[0])
		n := int(payload[1])
		if len(payload) < 2+n {
			break
		}
		out = append(out, CapabilityEntry{Category: cat, Value: append([]byte{}, payload[2:2+n]...)})
		payload = payload[2+n:]
	}
	return out
}

func (s SEPRecord) String() string {
	role := "SRC"
	if s.TSEP == TSEPSink {
		role = "SNK"
	}
	return fmt.Sprintf("SEP{seid=%d inUse=%v mediaType=%d role=%s}", s.SEID, s.InUse, s.MediaType, role)
}
