package core

import "testing"

func staticRandomAddr() Address {
	b := [6]byte{1, 2, 3, 4, 5, 0xC1}
	return NewAddress(b, AddressLERandom)
}

func TestLinkKeyValidAndRoundTrip(t *testing.T) {
	k := LinkKey{
		Address:   NewAddress([6]byte{1, 2, 3, 4, 5, 6}, AddressBREDR),
		Value:     [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		PinLength: 4,
		KeyType:   2,
	}
	if !k.Valid() {
		t.Fatal("expected valid link key")
	}
	if got, err := ParseLinkKeyBytes(k.Bytes()); err != nil || got != k {
		t.Fatalf("binary round trip: got %+v err %v", got, err)
	}
	if got, err := ParseLinkKey(k.Format()); err != nil || got != k {
		t.Fatalf("text round trip: got %+v err %v", got, err)
	}
}

func TestLinkKeyInvalid(t *testing.T) {
	k := LinkKey{Address: NewAddress([6]byte{}, AddressLEPublic), PinLength: 20, KeyType: 9}
	if k.Valid() {
		t.Fatal("expected invalid link key")
	}
}

func TestLongTermKeyValidAndRoundTrip(t *testing.T) {
	k := LongTermKey{
		Address:        staticRandomAddr(),
		Value:          [16]byte{9, 9, 9},
		EncryptionSize: 16,
		Authentication: 2,
		Master:         1,
		EDIV:           0x1234,
		Rand:           0x1122334455667788,
	}
	if !k.Valid() {
		t.Fatal("expected valid ltk")
	}
	if got, err := ParseLongTermKeyBytes(k.Bytes()); err != nil || got != k {
		t.Fatalf("binary round trip: got %+v err %v", got, err)
	}
	if got, err := ParseLongTermKey(k.Format()); err != nil || got != k {
		t.Fatalf("text round trip: got %+v err %v", got, err)
	}
}

func TestLongTermKeyInvalidAddress(t *testing.T) {
	nonStatic := NewAddress([6]byte{1, 2, 3, 4, 5, 0x00}, AddressLERandom)
	k := LongTermKey{Address: nonStatic, EncryptionSize: 16, Authentication: 1, Master: 0}
	if k.Valid() {
		t.Fatal("expected invalid ltk for non-static random address")
	}
}

func TestIdentityKeyRoundTrip(t *testing.T) {
	k := IdentityKey{Address: staticRandomAddr(), Value: [16]byte{5, 5, 5}}
	if !k.Valid() {
		t.Fatal("expected valid irk")
	}
	if got, err := ParseIdentityKeyBytes(k.Bytes()); err != nil || got != k {
		t.Fatalf("binary round trip: got %+v err %v", got, err)
	}
	if got, err := ParseIdentityKey(k.Format()); err != nil || got != k {
		t.Fatalf("text round trip: got %+v err %v", got, err)
	}
}

func TestSignatureKeyRoundTrip(t *testing.T) {
	k := SignatureKey{Address: staticRandomAddr(), Value: [16]byte{7, 7, 7}, SignType: 2, Counter: 42}
	if !k.Valid() {
		t.Fatal("expected valid csrk")
	}
	if got, err := ParseSignatureKeyBytes(k.Bytes()); err != nil || got != k {
		t.Fatalf("binary round trip: got %+v err %v", got, err)
	}
	if got, err := ParseSignatureKey(k.Format()); err != nil || got != k {
		t.Fatalf("text round trip: got %+v err %v", got, err)
	}
}

func TestSignatureKeyInvalidType(t *testing.T) {
	k := SignatureKey{Address: staticRandomAddr(), SignType: 4}
	if k.Valid() {
		t.Fatal("expected invalid signature key")
	}
}
