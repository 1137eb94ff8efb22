package sdp

import (
	"testing"

	"github.com/nullbt/btstack/core"
)

func roundTrip(t *testing.T, push func(r *core.Record) bool) Element {
	t.Helper()
	r := core.NewRecord(256)
	if !push(r) {
		t.Fatalf("push failed")
	}
	r.Rewind()
	e, ok := PopElement(r)
	if !ok {
		t.Fatalf("pop failed")
	}
	return e
}

func TestRoundTripBool(t *testing.T) {
	e := roundTrip(t, func(r *core.Record) bool { return PushBool(r, true) })
	if e.Type != TypeBool || !e.Bool {
		t.Fatalf("got %+v", e)
	}
}

func TestRoundTripUint(t *testing.T) {
	for _, tc := range []struct {
		width int
		v     uint64
	}{{1, 0xAB}, {2, 0xABCD}, {4, 0xABCD}, {8, 0xABCD}} {
		e := roundTrip(t, func(r *core.Record) bool { return PushUint(r, tc.v, tc.width) })
		if e.Type != TypeUint || e.UInt != tc.v {
			t.Fatalf("width %d: got %+v", tc.width, e)
		}
	}
}

func TestRoundTripUUID16(t *testing.T) {
	u := core.UUID16(0x180D)
	e := roundTrip(t, func(r *core.Record) bool { return PushUUID(r, u) })
	if e.Type != TypeUUID || !e.UUID.Equal(u) {
		t.Fatalf("got %+v", e)
	}
}

func TestRoundTripUUID128(t *testing.T) {
	var full [16]byte
	for i := range full {
		full[i] = byte(i)
	}
	u := core.UUID128(full)
	e := roundTrip(t, func(r *core.Record) bool { return PushUUID(r, u) })
	if e.Type != TypeUUID || !e.UUID.Equal(u) {
		t.Fatalf("got %+v", e)
	}
}

func TestRoundTripText(t *testing.T) {
	e := roundTrip(t, func(r *core.Record) bool { return PushText(r, []byte("hello sdp")) })
	if e.Type != TypeText || string(e.Bytes) != "hello sdp" {
		t.Fatalf("got %+v", e)
	}
}

func TestRoundTripMixedSequence(t *testing.T) {
	e := roundTrip(t, func(r *core.Record) bool {
		return PushSequence(r, 64, func(child *core.Record) {
			PushBool(child, true)
			PushUint(child, 7, 1)
			PushUUID(child, core.UUID16(0x1101))
			PushText(child, []byte("x"))
		})
	})
	if e.Type != TypeSeq || len(e.Seq) != 4 {
		t.Fatalf("got %+v", e)
	}
	if e.Seq[0].Type != TypeBool || !e.Seq[0].Bool {
		t.Fatalf("elem0 = %+v", e.Seq[0])
	}
	if e.Seq[1].Type != TypeUint || e.Seq[1].UInt != 7 {
		t.Fatalf("elem1 = %+v", e.Seq[1])
	}
	if e.Seq[2].Type != TypeUUID || !e.Seq[2].UUID.Equal(core.UUID16(0x1101)) {
		t.Fatalf("elem2 = %+v", e.Seq[2])
	}
	if e.Seq[3].Type != TypeText || string(e.Seq[3].Bytes) != "x" {
		t.Fatalf("elem3 = %+v", e.Seq[3])
	}
}

func TestNilHasNoPayload(t *testing.T) {
	r := core.NewRecord(4)
	PushNil(r)
	if r.Len() != 1 {
		t.Fatalf("nil encoded length = %d, want 1", r.Len())
	}
}

func TestContinuationRoundTrip(t *testing.T) {
	r := core.NewRecord(32)
	cont := []byte{1, 2, 3}
	if !WriteContinuation(r, cont) {
		t.Fatalf("write failed")
	}
	r.Rewind()
	got, ok := ReadContinuation(r)
	if !ok || len(got) != 3 || got[0] != 1 {
		t.Fatalf("got %v, ok=%v", got, ok)
	}
}

func TestContinuationEmpty(t *testing.T) {
	r := core.NewRecord(8)
	WriteContinuation(r, nil)
	r.Rewind()
	got, ok := ReadContinuation(r)
	if !ok || len(got) != 0 {
		t.Fatalf("got %v, ok=%v", got, ok)
	}
}
