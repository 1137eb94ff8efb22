package core

import (
	"encoding/hex"
	"fmt"
)

// staticRandom reports whether the top two bits of an LE random
// address's high byte are both set, the pattern that marks a "static"
// (as opposed to resolvable-private or non-resolvable-private) random
// address. The high byte, in our little-endian wire order, is b[5].
func staticRandom(a Address) bool {
	return a.b[5]&0xC0 == 0xC0
}

// validLEIdentity is the address precondition shared by LongTermKey and
// IdentityKey: either a public LE address, or a random LE address whose
// top two bits mark it static.
func validLEIdentity(a Address) bool {
	switch a.t {
	case AddressLEPublic:
		return true
	case AddressLERandom:
		return staticRandom(a)
	default:
		return false
	}
}

// LinkKey is BR/EDR pairing material: a 16-byte link key plus the PIN
// length used to derive it and a link-key type code.
type LinkKey struct {
	Address   Address
	Value     [16]byte
	PinLength uint8
	KeyType   uint8
}

// Valid reports whether this LinkKey satisfies its invariants:
// pin length at most 16, type at most 8, BR/EDR address.
func (k LinkKey) Valid() bool {
	return k.PinLength <= 16 && k.KeyType <= 8 && k.Address.Type() == AddressBREDR
}

// Bytes returns the fixed binary layout: 6 address bytes, 1 address-type
// byte, 16 key-value bytes, 1 pin-length byte, 1 key-type byte.
func (k LinkKey) Bytes() []byte {
	b := make([]byte, 0, 25)
	ab := k.Address.Bytes()
	b = append(b, ab[:]...)
	b = append(b, byte(k.Address.Type()))
	b = append(b, k.Value[:]...)
	b = append(b, k.PinLength, k.KeyType)
	return b
}

// ParseLinkKeyBytes parses the fixed binary layout produced by Bytes.
func ParseLinkKeyBytes(b []byte) (LinkKey, error) {
	if len(b) != 25 {
		return LinkKey{}, fmt.Errorf("core: link key needs 25 bytes, got %d", len(b))
	}
	var addr [6]byte
	copy(addr[:], b[0:6])
	var val [16]byte
	copy(val[:], b[7:23])
	return LinkKey{
		Address:   NewAddress(addr, AddressType(b[6])),
		Value:     val,
		PinLength: b[23],
		KeyType:   b[24],
	}, nil
}

// Format renders the key for textual persistence: the address bytes and
// address-type tag verbatim, then two ASCII-offset bytes ('A'+pinLength,
// 'A'+keyType), then the key value hex-encoded.
func (k LinkKey) Format() string {
	ab := k.Address.Bytes()
	prefix := append(append([]byte{}, ab[:]...), byte(k.Address.Type()))
	prefix = append(prefix, 'A'+k.PinLength, 'A'+k.KeyType)
	return string(prefix) + hex.EncodeToString(k.Value[:])
}

// ParseLinkKey reverses Format.
func ParseLinkKey(s string) (LinkKey, error) {
	if len(s) < 9 {
		return LinkKey{}, fmt.Errorf("core: link key text too short")
	}
	raw := []byte(s)
	var addr [6]byte
	copy(addr[:], raw[0:6])
	addrType := AddressType(raw[6])
	pin := raw[7] - 'A'
	typ := raw[8] - 'A'
	val, err := hex.DecodeString(s[9:])
	if err != nil || len(val) != 16 {
		return LinkKey{}, fmt.Errorf("core: link key value: %w", err)
	}
	var value [16]byte
	copy(value[:], val)
	return LinkKey{
		Address:   NewAddress(addr, addrType),
		Value:     value,
		PinLength: pin,
		KeyType:   typ,
	}, nil
}

// LongTermKey is LE encryption material (the LTK).
type LongTermKey struct {
	Address        Address
	Value          [16]byte
	EncryptionSize uint8
	Authentication uint8
	Master         uint8
	EDIV           uint16
	Rand           uint64
}

// Valid reports whether this LongTermKey satisfies its invariants:
// encryption size 16, authentication at most 4, master flag
// at most 1, and an LE address that is public or static random.
func (k LongTermKey) Valid() bool {
	return k.EncryptionSize == 16 && k.Authentication <= 4 && k.Master <= 1 && validLEIdentity(k.Address)
}

// Bytes returns the fixed binary layout.
func (k LongTermKey) Bytes() []byte {
	b := make([]byte, 0, 6+1+16+1+1+1+2+8)
	ab := k.Address.Bytes()
	b = append(b, ab[:]...)
	b = append(b, byte(k.Address.Type()))
	b = append(b, k.Value[:]...)
	b = append(b, k.EncryptionSize, k.Authentication, k.Master)
	b = append(b, byte(k.EDIV), byte(k.EDIV>>8))
	for i := 0; i < 8; i++ {
		b = append(b, byte(k.Rand>>(8*i)))
	}
	return b
}

// ParseLongTermKeyBytes parses the fixed binary layout produced by Bytes.
func ParseLongTermKeyBytes(b []byte) (LongTermKey, error) {
	const want = 6 + 1 + 16 + 1 + 1 + 1 + 2 + 8
	if len(b) != want {
		return LongTermKey{}, fmt.Errorf("core: long term key needs %d bytes, got %d", want, len(b))
	}
	var addr [6]byte
	copy(addr[:], b[0:6])
	var val [16]byte
	copy(val[:], b[7:23])
	ediv := uint16(b[26]) | uint16(b[27])<<8
	var rnd uint64
	for i := 0; i < 8; i++ {
		rnd |= uint64(b[28+i]) << (8 * i)
	}
	return LongTermKey{
		Address:        NewAddress(addr, AddressType(b[6])),
		Value:          val,
		EncryptionSize: b[23],
		Authentication: b[24],
		Master:         b[25],
		EDIV:           ediv,
		Rand:           rnd,
	}, nil
}

// Format renders the key for textual persistence: address bytes and
// type verbatim, then the remaining fixed fields hex-encoded.
func (k LongTermKey) Format() string {
	ab := k.Address.Bytes()
	prefix := append([]byte{}, ab[:]...)
	prefix = append(prefix, byte(k.Address.Type()))
	return string(prefix) + hex.EncodeToString(k.Bytes()[7:])
}

// ParseLongTermKey reverses Format.
func ParseLongTermKey(s string) (LongTermKey, error) {
	if len(s) < 7 {
		return LongTermKey{}, fmt.Errorf("core: long term key text too short")
	}
	raw := []byte(s)
	var addr [6]byte
	copy(addr[:], raw[0:6])
	rest, err := hex.DecodeString(s[7:])
	if err != nil {
		return LongTermKey{}, fmt.Errorf("core: long term key value: %w", err)
	}
	full := append(append(append([]byte{}, raw[0:7]...)), rest...)
	return ParseLongTermKeyBytes(full)
}

// IdentityKey is the LE identity resolving material (the IRK).
type IdentityKey struct {
	Address Address
	Value   [16]byte
}

// Valid reports whether this IdentityKey's address is public or static
// random LE.
func (k IdentityKey) Valid() bool { return validLEIdentity(k.Address) }

// Bytes returns the fixed binary layout.
func (k IdentityKey) Bytes() []byte {
	ab := k.Address.Bytes()
	b := make([]byte, 0, 23)
	b = append(b, ab[:]...)
	b = append(b, byte(k.Address.Type()))
	b = append(b, k.Value[:]...)
	return b
}

// ParseIdentityKeyBytes parses the fixed binary layout produced by Bytes.
func ParseIdentityKeyBytes(b []byte) (IdentityKey, error) {
	if len(b) != 23 {
		return IdentityKey{}, fmt.Errorf("core: identity key needs 23 bytes, got %d", len(b))
	}
	var addr [6]byte
	copy(addr[:], b[0:6])
	var val [16]byte
	copy(val[:], b[7:23])
	return IdentityKey{Address: NewAddress(addr, AddressType(b[6])), Value: val}, nil
}

// Format renders the key for textual persistence.
func (k IdentityKey) Format() string {
	ab := k.Address.Bytes()
	prefix := append([]byte{}, ab[:]...)
	prefix = append(prefix, byte(k.Address.Type()))
	return string(prefix) + hex.EncodeToString(k.Value[:])
}

// ParseIdentityKey reverses Format.
func ParseIdentityKey(s string) (IdentityKey, error) {
	if len(s) < 7 {
		return IdentityKey{}, fmt.Errorf("core: identity key text too short")
	}
	raw := []byte(s)
	var addr [6]byte
	copy(addr[:], raw[0:6])
	val, err := hex.DecodeString(s[7:])
	if err != nil || len(val) != 16 {
		return IdentityKey{}, fmt.Errorf("core: identity key value: %w", err)
	}
	var value [16]byte
	copy(value[:], val)
	return IdentityKey{Address: NewAddress(addr, AddressType(raw[6])), Value: value}, nil
}

// SignatureKey is the LE signing material (the CSRK).
type SignatureKey struct {
	Address  Address
	Value    [16]byte
	SignType uint8
	Counter  uint32
}

// Valid reports whether this SignatureKey satisfies its invariants:
// sign type at most 3, any LE address form.
func (k SignatureKey) Valid() bool {
	return k.SignType <= 3 && (k.Address.Type() == AddressLEPublic || k.Address.Type() == AddressLERandom)
}

// Bytes returns the fixed binary layout.
func (k SignatureKey) Bytes() []byte {
	ab := k.Address.Bytes()
	b := make([]byte, 0, 28)
	b = append(b, ab[:]...)
	b = append(b, byte(k.Address.Type()))
	b = append(b, k.Value[:]...)
	b = append(b, k.SignType)
	b = append(b, byte(k.Counter), byte(k.Counter>>8), byte(k.Counter>>16), byte(k.Counter>>24))
	return b
}

// ParseSignatureKeyBytes parses the fixed binary layout produced by Bytes.
func ParseSignatureKeyBytes(b []byte) (SignatureKey, error) {
	if len(b) != 28 {
		return SignatureKey{}, fmt.Errorf("core: signature key needs 28 bytes, got %d", len(b))
	}
	var addr [6]byte
	copy(addr[:], b[0:6])
	var val [16]byte
	copy(val[:], b[7:23])
	counter := uint32(b[24]) | uint32(b[25])<<8 | uint32(b[26])<<16 | uint32(b[27])<<24
	return SignatureKey{
		Address:  NewAddress(addr, AddressType(b[6])),
		Value:    val,
		SignType: b[23],
		Counter:  counter,
	}, nil
}

// Format renders the key for textual persistence.
func (k SignatureKey) Format() string {
	ab := k.Address.Bytes()
	prefix := append([]byte{}, ab[:]...)
	prefix = append(prefix, byte(k.Address.Type()))
	return string(prefix) + hex.EncodeToString(k.Bytes()[7:])
}

// ParseSignatureKey reverses Format.
func ParseSignatureKey(s string) (SignatureKey, error) {
	if len(s) < 7 {
		return SignatureKey{}, fmt.Errorf("core: signature key text too short")
	}
	raw := []byte(s)
	var addr [6]byte
	copy(addr[:], raw[0:6])
	rest, err := hex.DecodeString(s[7:])
	if err != nil {
		return SignatureKey{}, fmt.Errorf("core: signature key value: %w", err)
	}
	full := append(append([]byte{}, raw[0:7]...), rest...)
	return ParseSignatureKeyBytes(full)
}
