package hci

// The command payload structs below hold one struct per HCI command,
// each with a hand-written Marshal writing its fields in wire order,
// covering the bring-up sequence plus the inquiry/scan/LE command set.

type Reset struct{}

func (Reset) Opcode() Opcode        { return OpReset }
func (Reset) Len() int              { return 0 }
func (Reset) Marshal(b []byte)      {}

type SetEventMask struct{ Mask uint64 }

func (c SetEventMask) Opcode() Opcode { return OpSetEventMask }
func (c SetEventMask) Len() int       { return 8 }
func (c SetEventMask) Marshal(b []byte) {
	for i := 0; i < 8; i++ {
		b[i] = byte(c.Mask >> (8 * i))
	}
}

type WriteSimplePairingMode struct{ Mode uint8 }

func (c WriteSimplePairingMode) Opcode() Opcode   { return OpWriteSimplePairing }
func (c WriteSimplePairingMode) Len() int         { return 1 }
func (c WriteSimplePairingMode) Marshal(b []byte) { b[0] = c.Mode }

type WriteLEHostSupported struct {
	LESupported  uint8
	Simultaneous uint8
}

func (c WriteLEHostSupported) Opcode() Opcode { return OpWriteLEHostSupported }
func (c WriteLEHostSupported) Len() int       { return 2 }
func (c WriteLEHostSupported) Marshal(b []byte) {
	b[0], b[1] = c.LESupported, c.Simultaneous
}

type WriteInquiryMode struct{ Mode uint8 }

func (c WriteInquiryMode) Opcode() Opcode   { return OpWriteInquiryMode }
func (c WriteInquiryMode) Len() int         { return 1 }
func (c WriteInquiryMode) Marshal(b []byte) { b[0] = c.Mode }

type WritePageScanType struct{ Type uint8 }

func (c WritePageScanType) Opcode() Opcode   { return OpWritePageScanType }
func (c WritePageScanType) Len() int         { return 1 }
func (c WritePageScanType) Marshal(b []byte) { b[0] = c.Type }

type WriteInquiryScanType struct{ Type uint8 }

func (c WriteInquiryScanType) Opcode() Opcode   { return OpWriteInquiryScanType }
func (c WriteInquiryScanType) Len() int         { return 1 }
func (c WriteInquiryScanType) Marshal(b []byte) { b[0] = c.Type }

type WriteClassOfDevice struct{ Class [3]byte }

func (c WriteClassOfDevice) Opcode() Opcode   { return OpWriteClassOfDevice }
func (c WriteClassOfDevice) Len() int         { return 3 }
func (c WriteClassOfDevice) Marshal(b []byte) { copy(b, c.Class[:]) }

type WritePageTimeout struct{ Timeout uint16 }

func (c WritePageTimeout) Opcode() Opcode { return OpWritePageTimeout }
func (c WritePageTimeout) Len() int       { return 2 }
func (c WritePageTimeout) Marshal(b []byte) {
	b[0], b[1] = byte(c.Timeout), byte(c.Timeout>>8)
}

type WriteDefaultLinkPolicy struct{ Settings uint16 }

func (c WriteDefaultLinkPolicy) Opcode() Opcode { return OpWriteDefLinkPolicy }
func (c WriteDefaultLinkPolicy) Len() int       { return 2 }
func (c WriteDefaultLinkPolicy) Marshal(b []byte) {
	b[0], b[1] = byte(c.Settings), byte(c.Settings>>8)
}

type HostBufferSize struct {
	ACLDataPacketLength         uint16
	SyncDataPacketLength        uint8
	TotalNumACLDataPackets      uint16
	TotalNumSyncDataPackets     uint16
}

func (c HostBufferSize) Opcode() Opcode { return OpHostBufferSize }
func (c HostBufferSize) Len() int       { return 7 }
func (c HostBufferSize) Marshal(b []byte) {
	b[0], b[1] = byte(c.ACLDataPacketLength), byte(c.ACLDataPacketLength>>8)
	b[2] = c.SyncDataPacketLength
	b[3], b[4] = byte(c.TotalNumACLDataPackets), byte(c.TotalNumACLDataPackets>>8)
	b[5], b[6] = byte(c.TotalNumSyncDataPackets), byte(c.TotalNumSyncDataPackets>>8)
}

// Inquiry starts a BR/EDR inquiry. Length is in 1.28s units; callers
// typically use 30 (about 38s) and cancel early if needed.
type Inquiry struct {
	LAP              [3]byte
	InquiryLength    uint8
	NumResponses     uint8
}

func (c Inquiry) Opcode() Opcode { return OpInquiry }
func (c Inquiry) Len() int       { return 5 }
func (c Inquiry) Marshal(b []byte) {
	copy(b[0:3], c.LAP[:])
	b[3] = c.InquiryLength
	b[4] = c.NumResponses
}

var (
	// GIAC is the General Inquiry Access Code.
	GIAC = [3]byte{0x33, 0x8b, 0x9e}
	// LIAC is the Limited Inquiry Access Code.
	LIAC = [3]byte{0x00, 0x8b, 0x9e}
)

type InquiryCancel struct{}

func (InquiryCancel) Opcode() Opcode   { return OpInquiryCancel }
func (InquiryCancel) Len() int         { return 0 }
func (InquiryCancel) Marshal(b []byte) {}

type ReadBDADDR struct{}

func (ReadBDADDR) Opcode() Opcode   { return OpReadBDADDR }
func (ReadBDADDR) Len() int         { return 0 }
func (ReadBDADDR) Marshal(b []byte) {}

type LESetScanParameters struct {
	ScanType           uint8
	ScanInterval       uint16
	ScanWindow         uint16
	OwnAddressType     uint8
	ScanningFilterPolicy uint8
}

func (c LESetScanParameters) Opcode() Opcode { return OpLESetScanParameters }
func (c LESetScanParameters) Len() int       { return 7 }
func (c LESetScanParameters) Marshal(b []byte) {
	b[0] = c.ScanType
	b[1], b[2] = byte(c.ScanInterval), byte(c.ScanInterval>>8)
	b[3], b[4] = byte(c.ScanWindow), byte(c.ScanWindow>>8)
	b[5] = c.OwnAddressType
	b[6] = c.ScanningFilterPolicy
}

type LESetScanEnable struct {
	Enable           uint8
	FilterDuplicates uint8
}

func (c LESetScanEnable) Opcode() Opcode   { return OpLESetScanEnable }
func (c LESetScanEnable) Len() int         { return 2 }
func (c LESetScanEnable) Marshal(b []byte) { b[0], b[1] = c.Enable, c.FilterDuplicates }

type LESetAdvertisingParameters struct {
	IntervalMin uint16
	IntervalMax uint16
	AdvType     uint8
	OwnAddrType uint8
	DirectType  uint8
	DirectAddr  [6]byte
	ChannelMap  uint8
	FilterPolicy uint8
}

func (c LESetAdvertisingParameters) Opcode() Opcode { return OpLESetAdvertisingParameters }
func (c LESetAdvertisingParameters) Len() int       { return 15 }
func (c LESetAdvertisingParameters) Marshal(b []byte) {
	b[0], b[1] = byte(c.IntervalMin), byte(c.IntervalMin>>8)
	b[2], b[3] = byte(c.IntervalMax), byte(c.IntervalMax>>8)
	b[4] = c.AdvType
	b[5] = c.OwnAddrType
	b[6] = c.DirectType
	copy(b[7:13], c.DirectAddr[:])
	b[13] = c.ChannelMap
	b[14] = c.FilterPolicy
}

type LESetAdvertiseEnable struct{ Enable uint8 }

func (c LESetAdvertiseEnable) Opcode() Opcode   { return OpLESetAdvertiseEnable }
func (c LESetAdvertiseEnable) Len() int         { return 1 }
func (c LESetAdvertiseEnable) Marshal(b []byte) { b[0] = c.Enable }

// LECreateConn initiates an LE connection. Per the HCI spec this
// command's status (rule 1) leaves the request pending until
// EvtLEMeta/SubEventConnComplete arrives, so the Command built from it
// is declared with WithLEMetaEvent.
type LECreateConn struct {
	ScanInterval        uint16
	ScanWindow          uint16
	FilterPolicy        uint8
	PeerAddressType     uint8
	PeerAddress         [6]byte
	OwnAddressType      uint8
	ConnIntervalMin     uint16
	ConnIntervalMax     uint16
	ConnLatency         uint16
	SupervisionTimeout  uint16
	MinCELength         uint16
	MaxCELength         uint16
}

func (c LECreateConn) Opcode() Opcode { return OpLECreateConn }
func (c LECreateConn) Len() int       { return 25 }
func (c LECreateConn) Marshal(b []byte) {
	b[0], b[1] = byte(c.ScanInterval), byte(c.ScanInterval>>8)
	b[2], b[3] = byte(c.ScanWindow), byte(c.ScanWindow>>8)
	b[4] = c.FilterPolicy
	b[5] = c.PeerAddressType
	copy(b[6:12], c.PeerAddress[:])
	b[12] = c.OwnAddressType
	b[13], b[14] = byte(c.ConnIntervalMin), byte(c.ConnIntervalMin>>8)
	b[15], b[16] = byte(c.ConnIntervalMax), byte(c.ConnIntervalMax>>8)
	b[17], b[18] = byte(c.ConnLatency), byte(c.ConnLatency>>8)
	b[19], b[20] = byte(c.SupervisionTimeout), byte(c.SupervisionTimeout>>8)
	b[21], b[22] = byte(c.MinCELength), byte(c.MinCELength>>8)
	b[23], b[24] = byte(c.MaxCELength), byte(c.MaxCELength>>8)
}

type LECreateConnCancel struct{}

func (LECreateConnCancel) Opcode() Opcode   { return OpLECreateConnCancel }
func (LECreateConnCancel) Len() int         { return 0 }
func (LECreateConnCancel) Marshal(b []byte) {}

type Disconnect struct {
	ConnHandle uint16
	Reason     uint8
}

func (c Disconnect) Opcode() Opcode { return OpDisconnect }
func (c Disconnect) Len() int       { return 3 }
func (c Disconnect) Marshal(b []byte) {
	b[0], b[1] = byte(c.ConnHandle), byte(c.ConnHandle>>8)
	b[2] = c.Reason
}
