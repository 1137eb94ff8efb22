package core

import (
	"bytes"
	"testing"
)

func TestRecordIntRoundTrip(t *testing.T) {
	r := NewRecord(64)
	if !r.PushUint16LE(0x1234) {
		t.Fatal("push u16 le failed")
	}
	if !r.PushUint16BE(0x1234) {
		t.Fatal("push u16 be failed")
	}
	if !r.PushUint32LE(0xdeadbeef) {
		t.Fatal("push u32 le failed")
	}
	if !r.PushUint32BE(0xdeadbeef) {
		t.Fatal("push u32 be failed")
	}
	if v, ok := r.PopUint16LE(); !ok || v != 0x1234 {
		t.Errorf("pop u16 le: got %x ok=%v", v, ok)
	}
	if v, ok := r.PopUint16BE(); !ok || v != 0x1234 {
		t.Errorf("pop u16 be: got %x ok=%v", v, ok)
	}
	if v, ok := r.PopUint32LE(); !ok || v != 0xdeadbeef {
		t.Errorf("pop u32 le: got %x ok=%v", v, ok)
	}
	if v, ok := r.PopUint32BE(); !ok || v != 0xdeadbeef {
		t.Errorf("pop u32 be: got %x ok=%v", v, ok)
	}
}

func TestRecordShortReadCollapses(t *testing.T) {
	r := NewRecordFromBytes([]byte{0x01})
	if _, ok := r.PopUint16LE(); ok {
		t.Fatal("expected short read to fail")
	}
	if r.Available() != 0 {
		t.Fatalf("expected reader to collapse onto writer, available=%d", r.Available())
	}
}

func TestRecordPushNeverGrows(t *testing.T) {
	r := NewRecord(1)
	if !r.PushByte(1) {
		t.Fatal("expected first push to fit")
	}
	if r.PushByte(2) {
		t.Fatal("expected second push to fail, buffer must not grow")
	}
}

func TestRecordPeekBorrows(t *testing.T) {
	r := NewRecordFromBytes([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	sub, ok := r.Peek(2)
	if !ok {
		t.Fatal("peek failed")
	}
	if !bytes.Equal(sub.Unread(), []byte{0xAA, 0xBB}) {
		t.Errorf("unexpected sub-record contents: %x", sub.Unread())
	}
	if !bytes.Equal(r.Unread(), []byte{0xCC, 0xDD}) {
		t.Errorf("parent reader not advanced: %x", r.Unread())
	}
}

func TestRecordRewindAndClear(t *testing.T) {
	r := NewRecord(4)
	r.PushUint16LE(1)
	r.Rewind()
	if r.Available() != 2 {
		t.Fatalf("rewind should re-expose written bytes, available=%d", r.Available())
	}
	r.Clear()
	if r.Len() != 0 || r.Available() != 0 {
		t.Fatalf("clear should reset both cursors")
	}
}
