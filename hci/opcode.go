// Package hci implements HCI command/event framing and the
// scan/inquiry/discovery state machine built on top of it: opcode and
// event-code tables, command marshaling, the command/response matching
// rules a controller's replies follow, and the bring-up sequence that
// brings a fresh controller to a known state.
package hci

// Opcode is a 16-bit HCI command opcode, packed as OGF(6):OCF(10).
type Opcode uint16

// OGF groups, as used by the command table below.
const (
	ogfLinkControl  = 0x01
	ogfLinkPolicy   = 0x02
	ogfHostControl  = 0x03
	ogfInfoParam    = 0x04
	ogfStatusParam  = 0x05
	ogfLEController = 0x08
)

func opcode(ogf uint8, ocf uint16) Opcode { return Opcode(uint16(ogf)<<10 | ocf) }

// OGF returns the opcode group field.
func (op Opcode) OGF() uint8 { return uint8(op >> 10) }

// OCF returns the opcode command field.
func (op Opcode) OCF() uint16 { return uint16(op) & 0x03FF }

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "HCI_UNKNOWN"
}

// Link control and host control opcodes.
const (
	OpInquiry               = Opcode(ogfLinkControl<<10 | 0x0001)
	OpInquiryCancel         = Opcode(ogfLinkControl<<10 | 0x0002)
	OpCreateConn            = Opcode(ogfLinkControl<<10 | 0x0005)
	OpDisconnect            = Opcode(ogfLinkControl<<10 | 0x0006)
	OpRemoteNameReq         = Opcode(ogfLinkControl<<10 | 0x0019)
	OpReadRemoteVersion     = Opcode(ogfLinkControl<<10 | 0x001D)
	OpReset                 = Opcode(ogfHostControl<<10 | 0x0003)
	OpSetEventMask          = Opcode(ogfHostControl<<10 | 0x0001)
	OpWriteSimplePairing    = Opcode(ogfHostControl<<10 | 0x0056)
	OpWriteLEHostSupported  = Opcode(ogfHostControl<<10 | 0x006D)
	OpWriteInquiryMode      = Opcode(ogfHostControl<<10 | 0x0045)
	OpWritePageScanType     = Opcode(ogfHostControl<<10 | 0x0047)
	OpWriteInquiryScanType  = Opcode(ogfHostControl<<10 | 0x0043)
	OpWriteClassOfDevice    = Opcode(ogfHostControl<<10 | 0x0024)
	OpWritePageTimeout      = Opcode(ogfHostControl<<10 | 0x0018)
	OpWriteDefLinkPolicy    = Opcode(ogfLinkPolicy<<10 | 0x000F)
	OpHostBufferSize        = Opcode(ogfHostControl<<10 | 0x0033)
	OpReadBDADDR            = Opcode(ogfInfoParam<<10 | 0x0009)
)

// LE controller opcodes.
const (
	OpLESetEventMask             = Opcode(ogfLEController<<10 | 0x0001)
	OpLEReadBufferSize           = Opcode(ogfLEController<<10 | 0x0002)
	OpLESetRandomAddress         = Opcode(ogfLEController<<10 | 0x0005)
	OpLESetAdvertisingParameters = Opcode(ogfLEController<<10 | 0x0006)
	OpLESetAdvertisingData       = Opcode(ogfLEController<<10 | 0x0008)
	OpLESetScanResponseData      = Opcode(ogfLEController<<10 | 0x0009)
	OpLESetAdvertiseEnable       = Opcode(ogfLEController<<10 | 0x000A)
	OpLESetScanParameters        = Opcode(ogfLEController<<10 | 0x000B)
	OpLESetScanEnable            = Opcode(ogfLEController<<10 | 0x000C)
	OpLECreateConn               = Opcode(ogfLEController<<10 | 0x000D)
	OpLECreateConnCancel         = Opcode(ogfLEController<<10 | 0x000E)
	OpLEStartEncryption          = Opcode(ogfLEController<<10 | 0x0019)
	OpLELTKReply                 = Opcode(ogfLEController<<10 | 0x001A)
	OpLELTKNegReply              = Opcode(ogfLEController<<10 | 0x001B)
)

var opcodeNames = map[Opcode]string{
	OpInquiry:                    "HCI_Inquiry",
	OpInquiryCancel:              "HCI_Inquiry_Cancel",
	OpCreateConn:                 "HCI_Create_Connection",
	OpDisconnect:                 "HCI_Disconnect",
	OpRemoteNameReq:              "HCI_Remote_Name_Request",
	OpReadRemoteVersion:          "HCI_Read_Remote_Version_Information",
	OpReset:                      "HCI_Reset",
	OpSetEventMask:               "HCI_Set_Event_Mask",
	OpWriteSimplePairing:         "HCI_Write_Simple_Pairing_Mode",
	OpWriteLEHostSupported:       "HCI_Write_LE_Host_Supported",
	OpWriteInquiryMode:           "HCI_Write_Inquiry_Mode",
	OpWritePageScanType:          "HCI_Write_Page_Scan_Type",
	OpWriteInquiryScanType:       "HCI_Write_Inquiry_Scan_Type",
	OpWriteClassOfDevice:         "HCI_Write_Class_Of_Device",
	OpWritePageTimeout:           "HCI_Write_Page_Timeout",
	OpWriteDefLinkPolicy:         "HCI_Write_Default_Link_Policy_Settings",
	OpHostBufferSize:             "HCI_Host_Buffer_Size",
	OpReadBDADDR:                 "HCI_Read_BD_ADDR",
	OpLESetEventMask:             "HCI_LE_Set_Event_Mask",
	OpLEReadBufferSize:           "HCI_LE_Read_Buffer_Size",
	OpLESetRandomAddress:         "HCI_LE_Set_Random_Address",
	OpLESetAdvertisingParameters: "HCI_LE_Set_Advertising_Parameters",
	OpLESetAdvertisingData:       "HCI_LE_Set_Advertising_Data",
	OpLESetScanResponseData:      "HCI_LE_Set_Scan_Response_Data",
	OpLESetAdvertiseEnable:       "HCI_LE_Set_Advertise_Enable",
	OpLESetScanParameters:        "HCI_LE_Set_Scan_Parameters",
	OpLESetScanEnable:            "HCI_LE_Set_Scan_Enable",
	OpLECreateConn:               "HCI_LE_Create_Connection",
	OpLECreateConnCancel:         "HCI_LE_Create_Connection_Cancel",
	OpLEStartEncryption:          "HCI_LE_Start_Encryption",
	OpLELTKReply:                 "HCI_LE_Long_Term_Key_Request_Reply",
	OpLELTKNegReply:              "HCI_LE_Long_Term_Key_Request_Negative_Reply",
}

// Event codes.
type EventCode uint8

const (
	EvtInquiryComplete   EventCode = 0x01
	EvtInquiryResult     EventCode = 0x02
	EvtConnComplete      EventCode = 0x03
	EvtDisconnComplete   EventCode = 0x05
	EvtRemoteNameReqComp EventCode = 0x07
	EvtCommandComplete   EventCode = 0x0E
	EvtCommandStatus     EventCode = 0x0F
	EvtInquiryRSSI       EventCode = 0x22
	EvtLEMeta            EventCode = 0x3E
)

// LE meta sub-events.
type SubEventCode uint8

const (
	SubEventConnComplete    SubEventCode = 0x01
	SubEventAdvertisingRept SubEventCode = 0x02
	SubEventLTKRequest      SubEventCode = 0x05
)

// Packet types, the first byte on the HCI transport.
const (
	PacketTypeCommand byte = 0x01
	PacketTypeACLData  byte = 0x02
	PacketTypeSCOData  byte = 0x03
	PacketTypeEvent    byte = 0x04
)
