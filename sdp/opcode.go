package sdp

// PDUID is an SDP PDU's one-byte identifier.
type PDUID uint8

const (
	PDUErrorResponse                  PDUID = 0x01
	PDUServiceSearchRequest           PDUID = 0x02
	PDUServiceSearchResponse          PDUID = 0x03
	PDUServiceAttributeRequest        PDUID = 0x04
	PDUServiceAttributeResponse       PDUID = 0x05
	PDUServiceSearchAttributeRequest  PDUID = 0x06
	PDUServiceSearchAttributeResponse PDUID = 0x07
)

// respFor maps a request PDU to its successful response PDU.
var respFor = map[PDUID]PDUID{
	PDUServiceSearchRequest:          PDUServiceSearchResponse,
	PDUServiceAttributeRequest:       PDUServiceAttributeResponse,
	PDUServiceSearchAttributeRequest: PDUServiceSearchAttributeResponse,
}

// AttrRange is an inclusive attribute-id range, as sent in
// ServiceAttributeRequest/ServiceSearchAttributeRequest.
type AttrRange struct {
	Start, End uint16
}

// Well-known universal attribute ids.
const (
	AttrServiceRecordHandle           = 0x0000
	AttrServiceClassIDList            = 0x0001
	AttrServiceRecordState            = 0x0002
	AttrServiceID                     = 0x0003
	AttrProtocolDescriptorList        = 0x0004
	AttrBrowseGroupList               = 0x0005
	AttrLanguageBaseAttrIDList        = 0x0006
	AttrBluetoothProfileDescriptorList = 0x0009
)

// ErrorCode is SDP's 16-bit error response code.
type ErrorCode uint16

const (
	ErrInvalidSDPVersion        ErrorCode = 0x0001
	ErrInvalidRecordHandle      ErrorCode = 0x0002
	ErrInvalidRequestSyntax     ErrorCode = 0x0003
	ErrInvalidPDUSize           ErrorCode = 0x0004
	ErrInvalidContinuationState ErrorCode = 0x0005
	ErrInsufficientResources    ErrorCode = 0x0006
)
