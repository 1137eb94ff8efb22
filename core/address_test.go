package core

import "testing"

func TestAddressStringRoundTrip(t *testing.T) {
	b := [6]byte{0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA}
	a := NewAddress(b, AddressLERandom)
	s := a.String()
	if s != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("unexpected string form: %s", s)
	}
	back, err := ParseAddress(s, AddressLERandom)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(a) {
		t.Errorf("round trip mismatch: %v != %v", back, a)
	}
}

func TestAddressEqualityIgnoresType(t *testing.T) {
	b := [6]byte{1, 2, 3, 4, 5, 6}
	a1 := NewAddress(b, AddressBREDR)
	a2 := NewAddress(b, AddressLEPublic)
	if !a1.Equal(a2) {
		t.Error("expected addresses with same bytes to be equal regardless of type")
	}
}

func TestAddressOUI(t *testing.T) {
	b := [6]byte{0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	a := NewAddress(b, AddressBREDR)
	if got, want := a.OUI(), "01-02-03"; got != want {
		t.Errorf("oui: got %s want %s", got, want)
	}
}
