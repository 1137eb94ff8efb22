package core

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressType distinguishes the three device-address flavors used by
// HCI, MGMT and L2CAP.
type AddressType uint8

const (
	AddressBREDR AddressType = iota
	AddressLEPublic
	AddressLERandom
)

func (t AddressType) String() string {
	switch t {
	case AddressBREDR:
		return "BR/EDR"
	case AddressLEPublic:
		return "LE public"
	case AddressLERandom:
		return "LE random"
	default:
		return "unknown"
	}
}

// Address is a 6-byte Bluetooth device address. It is stored here in
// little-endian (wire) byte order; its string form is big-endian, per
// convention.
type Address struct {
	b [6]byte
	t AddressType
}

// NewAddress builds an Address from 6 bytes already in little-endian
// wire order.
func NewAddress(b [6]byte, t AddressType) Address {
	return Address{b: b, t: t}
}

// Valid reports whether this address carries all 6 bytes. Every Address
// value constructed through this package is implicitly 6 bytes long;
// Valid exists so a zero-value Address (e.g. from a failed parse) can be
// distinguished from a real one.
func (a Address) Valid() bool { return a != Address{} }

// Type returns the address-type tag.
func (a Address) Type() AddressType { return a.t }

// Bytes returns the 6 address bytes in little-endian wire order.
func (a Address) Bytes() [6]byte { return a.b }

// Equal compares two addresses bytewise; only the address bytes
// participate, not the type tag.
func (a Address) Equal(o Address) bool { return a.b == o.b }

// String renders the address in big-endian colon-separated hex, e.g.
// "AA:BB:CC:DD:EE:FF".
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		a.b[5], a.b[4], a.b[3], a.b[2], a.b[1], a.b[0])
}

// OUI prints the organizationally-unique top three bytes, in
// big-endian display order, dash-separated: "AA-BB-CC".
func (a Address) OUI() string {
	return fmt.Sprintf("%02X-%02X-%02X", a.b[5], a.b[4], a.b[3])
}

// ParseAddress parses the big-endian colon-separated hex form produced
// by String, with the given address type.
func ParseAddress(s string, t AddressType) (Address, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return Address{}, fmt.Errorf("core: invalid address %q", s)
	}
	var b [6]byte
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return Address{}, fmt.Errorf("core: invalid address %q: %w", s, err)
		}
		// parts[0] is the most-significant (big-endian) byte; the wire
		// order is little-endian, so it lands at the end of b.
		b[5-i] = byte(v)
	}
	return Address{b: b, t: t}, nil
}
