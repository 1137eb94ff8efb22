package core

import (
	"fmt"
	"strings"
)

// bluetoothBase is the Bluetooth Base UUID, used to expand a 16-bit short
// UUID into its full 128-bit form and to recognize the reverse. The
// 16-bit value occupies bytes 2-3 of the full UUID in big-endian
// (canonical) layout; the rest of this package works with the 16-byte
// value in that same big-endian order.
var bluetoothBase = [16]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0x80, 0x5F, 0x9B, 0x34, 0xFB,
}

// UUID is a 16-byte Bluetooth attribute UUID. The zero value is invalid.
type UUID struct {
	b        [16]byte
	hasShort bool
}

// UUID16 builds a full UUID from its 16-bit short form by expanding it
// against the Bluetooth Base UUID.
func UUID16(short uint16) UUID {
	u := UUID{b: bluetoothBase, hasShort: true}
	u.b[2] = byte(short >> 8)
	u.b[3] = byte(short)
	return u
}

// UUID128 builds a UUID from a full 16-byte value in big-endian (wire)
// order. It is recognized as short-capable iff every byte outside the
// 16-bit slot (bytes 2-3) equals the Bluetooth Base UUID.
func UUID128(full [16]byte) UUID {
	u := UUID{b: full}
	var base14 [14]byte
	copy(base14[:], bluetoothBase[:2])
	copy(base14[2:], bluetoothBase[4:])
	var full14 [14]byte
	copy(full14[:], full[:2])
	copy(full14[2:], full[4:])
	u.hasShort = base14 == full14
	return u
}

// ParseUUID parses either a canonical 36-character dashed UUID string or
// a bare 4-hex-digit short form.
func ParseUUID(s string) (UUID, error) {
	s = strings.ToLower(s)
	if len(s) == 4 {
		var v uint16
		if _, err := fmt.Sscanf(s, "%04x", &v); err != nil {
			return UUID{}, fmt.Errorf("core: invalid short uuid %q: %w", s, err)
		}
		return UUID16(v), nil
	}
	clean := strings.ReplaceAll(s, "-", "")
	if len(clean) != 32 {
		return UUID{}, fmt.Errorf("core: invalid uuid %q", s)
	}
	var b [16]byte
	for i := 0; i < 16; i++ {
		var v int
		if _, err := fmt.Sscanf(clean[i*2:i*2+2], "%02x", &v); err != nil {
			return UUID{}, fmt.Errorf("core: invalid uuid %q: %w", s, err)
		}
		b[i] = byte(v)
	}
	return UUID128(b), nil
}

// HasShort reports whether this UUID can be represented in its 16-bit
// short form, i.e. it was built from one, or every byte outside the
// 16-bit slot equals the Bluetooth Base UUID.
func (u UUID) HasShort() bool { return u.hasShort }

// Short returns the 16-bit short form. It is only meaningful when
// HasShort is true.
func (u UUID) Short() uint16 { return uint16(u.b[2])<<8 | uint16(u.b[3]) }

// Len returns the UUID's byte length as transmitted on the wire: 2 for a
// short-capable UUID, 16 otherwise.
func (u UUID) Len() int {
	if u.hasShort {
		return 2
	}
	return 16
}

// Full returns the full 16-byte value in big-endian wire order.
func (u UUID) Full() [16]byte { return u.b }

// Equal compares two UUIDs: if both are short-capable, only the two
// short bytes are compared; otherwise the full 16 bytes are compared.
func (u UUID) Equal(o UUID) bool {
	if u.hasShort && o.hasShort {
		return u.b[2] == o.b[2] && u.b[3] == o.b[3]
	}
	return u.b == o.b
}

// String formats the UUID in canonical lowercase dashed form; a
// short-capable UUID is printed in its expanded 128-bit form.
func (u UUID) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		u.b[0], u.b[1], u.b[2], u.b[3], u.b[4], u.b[5], u.b[6], u.b[7],
		u.b[8], u.b[9], u.b[10], u.b[11], u.b[12], u.b[13], u.b[14], u.b[15])
}

// LittleEndianBytes returns the UUID's wire representation in the
// little-endian device order used inside ATT/SDP element payloads
// (the reverse of the big-endian canonical order used by String/Full).
func (u UUID) LittleEndianBytes() []byte {
	n := u.Len()
	out := make([]byte, n)
	if n == 2 {
		out[0], out[1] = u.b[3], u.b[2]
		return out
	}
	for i := 0; i < 16; i++ {
		out[i] = u.b[15-i]
	}
	return out
}

// UUIDFromLittleEndian builds a UUID from bytes in little-endian device
// order, as found on the wire in ATT and SDP payloads.
func UUIDFromLittleEndian(b []byte) (UUID, error) {
	switch len(b) {
	case 2:
		return UUID16(uint16(b[0]) | uint16(b[1])<<8), nil
	case 16:
		var full [16]byte
		for i := 0; i < 16; i++ {
			full[i] = b[15-i]
		}
		return UUID128(full), nil
	default:
		return UUID{}, fmt.Errorf("core: unsupported uuid wire length %d", len(b))
	}
}
