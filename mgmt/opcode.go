// Package mgmt implements the kernel management-channel command/event
// framing: the "policy" side of the stack (power, discoverability,
// pairing, key loading), run independently of and concurrently with
// the hci package's "link" side.
package mgmt

// Opcode is a 16-bit MGMT command opcode.
type Opcode uint16

const (
	OpReadVersion         Opcode = 0x0001
	OpReadCommands        Opcode = 0x0002
	OpReadIndexList       Opcode = 0x0003
	OpReadControllerInfo  Opcode = 0x0004
	OpSetPowered          Opcode = 0x0005
	OpSetDiscoverable     Opcode = 0x0006
	OpSetConnectable      Opcode = 0x0007
	OpSetFastConnectable  Opcode = 0x0008
	OpSetPairable         Opcode = 0x0009
	OpSetLinkSecurity     Opcode = 0x000A
	OpSetSSP              Opcode = 0x000B
	OpSetHS               Opcode = 0x000C
	OpSetLE               Opcode = 0x000D
	OpSetDevClass         Opcode = 0x000E
	OpSetLocalName        Opcode = 0x000F
	OpAddUUID             Opcode = 0x0010
	OpRemoveUUID          Opcode = 0x0011
	OpLoadLinkKeys        Opcode = 0x0012
	OpLoadLongTermKeys    Opcode = 0x0013
	OpDisconnect          Opcode = 0x0014
	OpGetConnections      Opcode = 0x0015
	OpPinCodeReply        Opcode = 0x0016
	OpPinCodeNegReply     Opcode = 0x0017
	OpSetIOCapability     Opcode = 0x0018
	OpPairDevice          Opcode = 0x0019
	OpCancelPairDevice    Opcode = 0x001A
	OpUnpairDevice        Opcode = 0x001B
	OpUserConfirmReply    Opcode = 0x001C
	OpUserConfirmNegReply Opcode = 0x001D
	OpUserPasskeyReply    Opcode = 0x001E
	OpUserPasskeyNegReply Opcode = 0x001F
	OpReadLocalOOBData    Opcode = 0x0020
	OpAddRemoteOOBData    Opcode = 0x0021
	OpStartDiscovery      Opcode = 0x0023
	OpStopDiscovery       Opcode = 0x0024
	OpConfirmName         Opcode = 0x0025
	OpBlockDevice         Opcode = 0x0026
	OpUnblockDevice       Opcode = 0x0027
	OpSetDeviceID         Opcode = 0x0028
	OpSetAdvertising      Opcode = 0x0029
	OpSetBREDR            Opcode = 0x002A
	OpSetStaticAddress    Opcode = 0x002B
	OpSetScanParams       Opcode = 0x002C
	OpSetSecureConn       Opcode = 0x002D
	OpSetDebugKeys        Opcode = 0x002E
	OpSetPrivacy          Opcode = 0x002F
	OpLoadIRKs            Opcode = 0x0030
	OpGetConnInfo         Opcode = 0x0031
	OpGetClockInfo        Opcode = 0x0032
	OpAddDevice           Opcode = 0x0033
	OpRemoveDevice        Opcode = 0x0034
	OpLoadConnParams      Opcode = 0x0035
)

// EventCode is a 16-bit MGMT event code, carried in the event header's
// opcode field exactly like a command opcode.
type EventCode uint16

const (
	EvtCommandComplete    EventCode = 0x0001
	EvtCommandStatus      EventCode = 0x0002
	EvtControllerError    EventCode = 0x0003
	EvtIndexAdded         EventCode = 0x0004
	EvtIndexRemoved       EventCode = 0x0005
	EvtNewSettings        EventCode = 0x0006
	EvtClassOfDevChanged  EventCode = 0x0007
	EvtLocalNameChanged   EventCode = 0x0008
	EvtNewLinkKey         EventCode = 0x0009
	EvtNewLongTermKey     EventCode = 0x000A
	EvtDeviceConnected    EventCode = 0x000B
	EvtDeviceDisconnected EventCode = 0x000C
	EvtConnectFailed      EventCode = 0x000D
	EvtPinCodeRequest     EventCode = 0x000E
	EvtUserConfirmRequest EventCode = 0x000F
	EvtUserPasskeyRequest EventCode = 0x0010
	EvtAuthFailed         EventCode = 0x0011
	EvtDeviceFound        EventCode = 0x0012
	EvtDiscovering        EventCode = 0x0013
	EvtDeviceBlocked      EventCode = 0x0014
	EvtDeviceUnblocked    EventCode = 0x0015
	EvtDeviceUnpaired     EventCode = 0x0016
	EvtPasskeyNotify      EventCode = 0x0017
	EvtNewIRK             EventCode = 0x0018
	EvtNewCSRK            EventCode = 0x0019
)

// Status byte values carried by EvtCommandStatus and as the first byte
// of most EvtCommandComplete payloads.
const (
	StatusSuccess          = 0x00
	StatusUnknownCommand   = 0x01
	StatusNotConnected     = 0x02
	StatusFailed           = 0x03
	StatusConnectFailed    = 0x04
	StatusAuthFailed       = 0x05
	StatusNotPaired        = 0x06
	StatusNoResources      = 0x07
	StatusTimeout          = 0x08
	StatusAlreadyConnected = 0x09
	StatusBusy             = 0x0A
	StatusRejected         = 0x0B
	StatusNotSupported     = 0x0C
	StatusInvalidParams    = 0x0D
	StatusDisconnected     = 0x0E
	StatusNotPowered       = 0x0F
	StatusCancelled        = 0x10
	StatusInvalidIndex     = 0x11
)

// IndexNonController addresses a command at the management interface
// itself (ReadVersion, ReadIndexList) rather than a specific adapter.
const IndexNonController = 0xFFFF
