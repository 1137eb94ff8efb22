// Package sysbt is the thin boundary between this module and the
// kernel's Bluetooth socket family. It replaces the architecture-
// specific hand-rolled syscall plumbing older code used before
// golang.org/x/sys/unix carried AF_BLUETOOTH support, with one
// portable implementation.
package sysbt

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Bluetooth protocol families, as passed to Socket's proto argument.
const (
	ProtoL2CAP  = 0
	ProtoHCI    = 1
	ProtoSCO    = 2
	ProtoRFCOMM = 3
	ProtoBNEP   = 4
	ProtoCMTP   = 5
	ProtoHIDP   = 6
	ProtoAVDTP  = 7
)

// HCI socket channels, selecting which slice of the controller a raw
// HCI socket attaches to.
const (
	ChannelRaw     = 0
	ChannelUser    = 1
	ChannelMonitor = 2
	ChannelControl = 3
)

// Socket-level option namespaces used by setsockopt/getsockopt below.
const (
	SolHCI       = 0
	SolL2CAP     = 6
	SolSCO       = 17
	SolRFCOMM    = 18
	SolBluetooth = 274
)

// L2CAP socket options (security level, connection info).
const (
	L2CAPOptions   = 0x01
	L2CAPConnInfo  = 0x02
	L2CAPLM        = 0x03
	L2CAPSecurity  = 0x04
)

// Security levels for L2CAPSecurity.
const (
	SecLevelSDP      = 0
	SecLevelLow      = 1
	SecLevelMedium   = 2
	SecLevelHigh     = 3
	SecLevelFIPS     = 4
)

// HCI socket options.
const (
	HCIDataDir  = 1
	HCIFilterOp = 2
	HCITimeStamp = 3
)

// HCIFilter selects which HCI packet/event types reach a raw HCI
// socket; it mirrors struct hci_filter.
type HCIFilter struct {
	TypeMask  uint32
	EventMask [2]uint32
	Opcode    uint16
}

// Socket opens a Bluetooth-family socket, retrying briefly on EBUSY the
// way a freshly-reset controller's socket layer sometimes demands.
func Socket(typ, proto int) (int, error) {
	var fd int
	var err error
	for i := 0; i < 5; i++ {
		fd, err = unix.Socket(unix.AF_BLUETOOTH, typ, proto)
		if err == nil || err != unix.EBUSY {
			return fd, err
		}
		time.Sleep(time.Second)
	}
	return 0, unix.EBUSY
}

// BindHCI binds an HCI socket to a specific controller index and
// channel (ChannelRaw, ChannelUser, ChannelControl, ...).
func BindHCI(fd, devID, channel int) error {
	sa := &unix.SockaddrHCI{Dev: uint16(devID), Channel: uint16(channel)}
	return unix.Bind(fd, sa)
}

// BindL2CAP binds an L2CAP socket to a local address and PSM or fixed
// CID (cid is used instead of psm when psm is 0, for fixed-channel
// attribute/signaling sockets).
func BindL2CAP(fd int, addr [6]byte, psm, cid uint16) error {
	sa := &unix.SockaddrL2{PSM: psm, CID: cid, Addr: addr}
	return unix.Bind(fd, sa)
}

// ConnectL2CAP connects an L2CAP socket to a peer address and PSM/CID.
func ConnectL2CAP(fd int, addr [6]byte, psm, cid uint16) error {
	sa := &unix.SockaddrL2{PSM: psm, CID: cid, Addr: addr}
	return unix.Connect(fd, sa)
}

// SetHCIFilter installs an event/packet-type filter on a raw HCI
// socket, the mechanism used to limit which events reach userspace.
func SetHCIFilter(fd int, f HCIFilter) error {
	raw := make([]byte, unsafe.Sizeof(f))
	copy(raw[0:4], u32le(f.TypeMask))
	copy(raw[4:8], u32le(f.EventMask[0]))
	copy(raw[8:12], u32le(f.EventMask[1]))
	copy(raw[12:14], u16le(f.Opcode))
	return unix.SetsockoptString(fd, SolHCI, HCIFilterOp, string(raw))
}

// SetL2CAPSecurity sets the minimum security level an L2CAP socket
// requires of its link, mirroring struct bt_security {level; key_size}.
func SetL2CAPSecurity(fd int, level, keySize uint8) error {
	raw := []byte{level, keySize}
	return unix.SetsockoptString(fd, SolBluetooth, L2CAPSecurity, string(raw))
}

// L2CAPConnInfoResult mirrors struct l2cap_conninfo {hci_handle; dev_class[3]}.
type L2CAPConnInfoResult struct {
	HCIHandle uint16
	DevClass  [3]byte
}

// GetL2CAPConnInfo retrieves the underlying HCI connection handle and
// remote class-of-device for an already-connected L2CAP socket. x/sys
// has no typed helper for this option, so it goes through the raw
// getsockopt syscall directly, the same layer the teacher's socket
// package used for everything before x/sys carried AF_BLUETOOTH.
func GetL2CAPConnInfo(fd int) (L2CAPConnInfoResult, error) {
	var raw [5]byte
	n := uint32(len(raw))
	_, _, errno := unix.Syscall6(unix.SYS_GETSOCKOPT,
		uintptr(fd), uintptr(SolL2CAP), uintptr(L2CAPConnInfo),
		uintptr(unsafe.Pointer(&raw[0])), uintptr(unsafe.Pointer(&n)), 0)
	if errno != 0 {
		return L2CAPConnInfoResult{}, errno
	}
	return L2CAPConnInfoResult{
		HCIHandle: uint16(raw[0]) | uint16(raw[1])<<8,
		DevClass:  [3]byte{raw[2], raw[3], raw[4]},
	}, nil
}

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func u16le(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

// Errno renders a syscall error with socket-layer context, used by
// callers that need a descriptive error rather than a bare errno.
func Errno(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("sysbt: %s: %w", op, err)
}
