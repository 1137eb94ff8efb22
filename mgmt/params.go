package mgmt

import (
	"github.com/nullbt/btstack/core"
)

// Simple fixed-layout commands with no payload.

type ReadVersion struct{}

func (ReadVersion) Opcode() Opcode   { return OpReadVersion }
func (ReadVersion) Len() int         { return 0 }
func (ReadVersion) Marshal(b []byte) {}

type ReadIndexList struct{}

func (ReadIndexList) Opcode() Opcode   { return OpReadIndexList }
func (ReadIndexList) Len() int         { return 0 }
func (ReadIndexList) Marshal(b []byte) {}

type ReadControllerInfo struct{}

func (ReadControllerInfo) Opcode() Opcode   { return OpReadControllerInfo }
func (ReadControllerInfo) Len() int         { return 0 }
func (ReadControllerInfo) Marshal(b []byte) {}

// settingToggle is the shared shape of every SetXxx(bool) command: a
// single byte, 0 or 1.
type settingToggle struct {
	op      Opcode
	Enabled uint8
}

func (c settingToggle) Opcode() Opcode { return c.op }
func (c settingToggle) Len() int       { return 1 }
func (c settingToggle) Marshal(b []byte) {
	b[0] = c.Enabled
}

func toggle(op Opcode, on bool) settingToggle {
	v := uint8(0)
	if on {
		v = 1
	}
	return settingToggle{op: op, Enabled: v}
}

func SetPowered(on bool) Param      { return toggle(OpSetPowered, on) }
func SetConnectable(on bool) Param  { return toggle(OpSetConnectable, on) }
func SetPairable(on bool) Param     { return toggle(OpSetPairable, on) }
func SetSSP(on bool) Param          { return toggle(OpSetSSP, on) }
func SetLE(on bool) Param           { return toggle(OpSetLE, on) }
func SetBREDR(on bool) Param        { return toggle(OpSetBREDR, on) }
func SetAdvertising(on bool) Param  { return toggle(OpSetAdvertising, on) }
func SetPrivacy(on bool) Param      { return toggle(OpSetPrivacy, on) }

// SetDiscoverable carries a timeout (seconds, 0 = until disabled) in
// addition to the enable flag.
type SetDiscoverableParam struct {
	Enabled uint8
	Timeout uint16
}

func (c SetDiscoverableParam) Opcode() Opcode { return OpSetDiscoverable }
func (c SetDiscoverableParam) Len() int       { return 3 }
func (c SetDiscoverableParam) Marshal(b []byte) {
	b[0] = c.Enabled
	b[1], b[2] = byte(c.Timeout), byte(c.Timeout>>8)
}

func SetDiscoverable(on bool, timeout uint16) Param {
	v := uint8(0)
	if on {
		v = 1
	}
	return SetDiscoverableParam{Enabled: v, Timeout: timeout}
}

type StartDiscovery struct{ AddressTypeMask uint8 }

func (c StartDiscovery) Opcode() Opcode   { return OpStartDiscovery }
func (c StartDiscovery) Len() int         { return 1 }
func (c StartDiscovery) Marshal(b []byte) { b[0] = c.AddressTypeMask }

type StopDiscovery struct{ AddressTypeMask uint8 }

func (c StopDiscovery) Opcode() Opcode   { return OpStopDiscovery }
func (c StopDiscovery) Len() int         { return 1 }
func (c StopDiscovery) Marshal(b []byte) { b[0] = c.AddressTypeMask }

// marshalAddr writes the shared [address(6)][type(1)] shape used by
// several per-peer commands.
func marshalAddr(b []byte, addr core.Address) {
	raw := addr.Bytes()
	copy(b[0:6], raw[:])
	b[6] = byte(addr.Type())
}

type Disconnect struct{ Address core.Address }

func (c Disconnect) Opcode() Opcode { return OpDisconnect }
func (c Disconnect) Len() int       { return 7 }
func (c Disconnect) Marshal(b []byte) { marshalAddr(b, c.Address) }

type PairDevice struct {
	Address    core.Address
	IOCapability uint8
}

func (c PairDevice) Opcode() Opcode { return OpPairDevice }
func (c PairDevice) Len() int       { return 8 }
func (c PairDevice) Marshal(b []byte) {
	marshalAddr(b, c.Address)
	b[7] = c.IOCapability
}

type UnpairDevice struct {
	Address       core.Address
	DisconnectToo uint8
}

func (c UnpairDevice) Opcode() Opcode { return OpUnpairDevice }
func (c UnpairDevice) Len() int       { return 8 }
func (c UnpairDevice) Marshal(b []byte) {
	marshalAddr(b, c.Address)
	b[7] = c.DisconnectToo
}

type CancelPairDevice struct{ Address core.Address }

func (c CancelPairDevice) Opcode() Opcode   { return OpCancelPairDevice }
func (c CancelPairDevice) Len() int         { return 7 }
func (c CancelPairDevice) Marshal(b []byte) { marshalAddr(b, c.Address) }

type UserConfirmReply struct{ Address core.Address }

func (c UserConfirmReply) Opcode() Opcode   { return OpUserConfirmReply }
func (c UserConfirmReply) Len() int         { return 7 }
func (c UserConfirmReply) Marshal(b []byte) { marshalAddr(b, c.Address) }

type UserConfirmNegReply struct{ Address core.Address }

func (c UserConfirmNegReply) Opcode() Opcode   { return OpUserConfirmNegReply }
func (c UserConfirmNegReply) Len() int         { return 7 }
func (c UserConfirmNegReply) Marshal(b []byte) { marshalAddr(b, c.Address) }

type PinCodeReply struct {
	Address core.Address
	PINLen  uint8
	PIN     [16]byte
}

func (c PinCodeReply) Opcode() Opcode { return OpPinCodeReply }
func (c PinCodeReply) Len() int       { return 7 + 1 + 16 }
func (c PinCodeReply) Marshal(b []byte) {
	marshalAddr(b, c.Address)
	b[7] = c.PINLen
	copy(b[8:24], c.PIN[:])
}

type PinCodeNegReply struct{ Address core.Address }

func (c PinCodeNegReply) Opcode() Opcode   { return OpPinCodeNegReply }
func (c PinCodeNegReply) Len() int         { return 7 }
func (c PinCodeNegReply) Marshal(b []byte) { marshalAddr(b, c.Address) }

type SetIOCapability struct{ IOCapability uint8 }

func (c SetIOCapability) Opcode() Opcode   { return OpSetIOCapability }
func (c SetIOCapability) Len() int         { return 1 }
func (c SetIOCapability) Marshal(b []byte) { b[0] = c.IOCapability }

// LoadLinkKeys is the list-variant command: a 1-byte debug-keys flag,
// a 2-byte count, then count fixed-size LinkKey entries (25 bytes
// each, matching core.LinkKey.Bytes).
type LoadLinkKeys struct {
	DebugKeys uint8
	Keys      []core.LinkKey
}

func (c LoadLinkKeys) Opcode() Opcode { return OpLoadLinkKeys }
func (c LoadLinkKeys) Len() int       { return 1 + 2 + 25*len(c.Keys) }
func (c LoadLinkKeys) Marshal(b []byte) {
	b[0] = c.DebugKeys
	n := len(c.Keys)
	b[1], b[2] = byte(n), byte(n>>8)
	off := 3
	for _, k := range c.Keys {
		copy(b[off:off+25], k.Bytes())
		off += 25
	}
}

// LoadLongTermKeys is the list-variant command for LTKs: a 2-byte
// count then count fixed-size LongTermKey entries (36 bytes each,
// matching core.LongTermKey.Bytes).
type LoadLongTermKeys struct {
	Keys []core.LongTermKey
}

func (c LoadLongTermKeys) Opcode() Opcode { return OpLoadLongTermKeys }
func (c LoadLongTermKeys) Len() int       { return 2 + 36*len(c.Keys) }
func (c LoadLongTermKeys) Marshal(b []byte) {
	n := len(c.Keys)
	b[0], b[1] = byte(n), byte(n>>8)
	off := 2
	for _, k := range c.Keys {
		copy(b[off:off+36], k.Bytes())
		off += 36
	}
}

// LoadIRKs is the list-variant command for identity resolving keys: a
// 2-byte count then count fixed-size IdentityKey entries (23 bytes
// each).
type LoadIRKs struct {
	Keys []core.IdentityKey
}

func (c LoadIRKs) Opcode() Opcode { return OpLoadIRKs }
func (c LoadIRKs) Len() int       { return 2 + 23*len(c.Keys) }
func (c LoadIRKs) Marshal(b []byte) {
	n := len(c.Keys)
	b[0], b[1] = byte(n), byte(n>>8)
	off := 2
	for _, k := range c.Keys {
		copy(b[off:off+23], k.Bytes())
		off += 23
	}
}

// RemoveKeys has the same layout as UnpairDevice and is sent with its
// opcode.
type RemoveKeys struct {
	Address     core.Address
	DisconnectToo uint8
}

func (c RemoveKeys) Opcode() Opcode { return OpUnpairDevice }
func (c RemoveKeys) Len() int       { return 8 }
func (c RemoveKeys) Marshal(b []byte) {
	marshalAddr(b, c.Address)
	b[7] = c.DisconnectToo
}

type SetScanParams struct {
	Interval uint16
	Window   uint16
}

func (c SetScanParams) Opcode() Opcode { return OpSetScanParams }
func (c SetScanParams) Len() int       { return 4 }
func (c SetScanParams) Marshal(b []byte) {
	b[0], b[1] = byte(c.Interval), byte(c.Interval>>8)
	b[2], b[3] = byte(c.Window), byte(c.Window>>8)
}

type AddDevice struct {
	Address core.Address
	Action  uint8
}

func (c AddDevice) Opcode() Opcode { return OpAddDevice }
func (c AddDevice) Len() int       { return 8 }
func (c AddDevice) Marshal(b []byte) {
	marshalAddr(b, c.Address)
	b[7] = c.Action
}

type RemoveDevice struct{ Address core.Address }

func (c RemoveDevice) Opcode() Opcode   { return OpRemoveDevice }
func (c RemoveDevice) Len() int         { return 7 }
func (c RemoveDevice) Marshal(b []byte) { marshalAddr(b, c.Address) }
