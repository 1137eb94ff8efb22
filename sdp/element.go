// Package sdp implements the Service Discovery Protocol: the tagged
// data-element encoding used by every service record attribute, the
// client request/response exchange with continuation-state chaining,
// a minimal server responder for ServiceSearchAttribute, and a
// sequencer that walks a remote device's service catalogue.
package sdp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nullbt/btstack/core"
)

// ElementType is an SDP data element's type, the top 5 bits of its
// descriptor byte.
type ElementType uint8

const (
	TypeNil  ElementType = 0
	TypeUint ElementType = 1
	TypeInt  ElementType = 2
	TypeUUID ElementType = 3
	TypeText ElementType = 4
	TypeBool ElementType = 5
	TypeSeq  ElementType = 6
	TypeAlt  ElementType = 7
	TypeURL  ElementType = 8
)

// size classes, the bottom 3 bits of the descriptor byte.
const (
	class1Byte   = 0
	class2Byte   = 1
	class4Byte   = 2
	class8Byte   = 3
	class16Byte  = 4
	classLen1    = 5
	classLen2    = 6
	classLen4    = 7
)

func descriptor(t ElementType, class uint8) byte {
	return byte(t)<<3 | class&0x07
}

// PushNil writes the one-byte NIL descriptor.
func PushNil(r *core.Record) bool {
	return r.PushByte(descriptor(TypeNil, class1Byte))
}

// PushBool writes a one-byte boolean element.
func PushBool(r *core.Record, v bool) bool {
	if !r.PushByte(descriptor(TypeBool, class1Byte)) {
		return false
	}
	b := byte(0)
	if v {
		b = 1
	}
	return r.PushByte(b)
}

// PushUint writes an unsigned integer element of the given byte width
// (1, 2, 4 or 8).
func PushUint(r *core.Record, v uint64, width int) bool {
	class, ok := fixedClass(width)
	if !ok {
		return false
	}
	if !r.PushByte(descriptor(TypeUint, class)) {
		return false
	}
	return pushFixed(r, v, width)
}

// PushInt writes a signed integer element of the given byte width (1,
// 2, 4 or 8).
func PushInt(r *core.Record, v int64, width int) bool {
	class, ok := fixedClass(width)
	if !ok {
		return false
	}
	if !r.PushByte(descriptor(TypeInt, class)) {
		return false
	}
	return pushFixed(r, uint64(v), width)
}

func fixedClass(width int) (uint8, bool) {
	switch width {
	case 1:
		return class1Byte, true
	case 2:
		return class2Byte, true
	case 4:
		return class4Byte, true
	case 8:
		return class8Byte, true
	default:
		return 0, false
	}
}

func pushFixed(r *core.Record, v uint64, width int) bool {
	b := make([]byte, width)
	for i := 0; i < width; i++ {
		b[width-1-i] = byte(v >> (8 * i))
	}
	return r.PushBytes(b)
}

func popFixed(r *core.Record, width int) (uint64, bool) {
	b, ok := r.PopBytes(width)
	if !ok {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, true
}

// PushUUID writes a UUID element, class 1 (16-bit) or 4 (128-bit)
// depending on whether u has a short form.
func PushUUID(r *core.Record, u core.UUID) bool {
	class := uint8(class16Byte)
	if u.HasShort() {
		class = class2Byte
	}
	if !r.PushByte(descriptor(TypeUUID, class)) {
		return false
	}
	full := u.Full()
	if u.HasShort() {
		return r.PushBytes([]byte{full[2], full[3]})
	}
	return r.PushBytes(full[:])
}

// pushVariableLen picks the smallest of classes 5/6/7 that fits n and
// writes the descriptor plus its length prefix.
func pushVariableLen(r *core.Record, t ElementType, n int) bool {
	switch {
	case n <= 0xff:
		if !r.PushByte(descriptor(t, classLen1)) {
			return false
		}
		return r.PushByte(byte(n))
	case n <= 0xffff:
		if !r.PushByte(descriptor(t, classLen2)) {
			return false
		}
		return r.PushUint16BE(uint16(n))
	default:
		if !r.PushByte(descriptor(t, classLen4)) {
			return false
		}
		return r.PushUint32BE(uint32(n))
	}
}

// PushText writes a text-string element.
func PushText(r *core.Record, b []byte) bool {
	if !pushVariableLen(r, TypeText, len(b)) {
		return false
	}
	return r.PushBytes(b)
}

// PushURL writes a URL element.
func PushURL(r *core.Record, b []byte) bool {
	if !pushVariableLen(r, TypeURL, len(b)) {
		return false
	}
	return r.PushBytes(b)
}

// PushSequence allocates a scratch child record, invokes build to
// populate it, then emits its contents under a length-prefixed SEQ
// descriptor.
func PushSequence(r *core.Record, capacity int, build func(child *core.Record)) bool {
	return pushComposite(r, TypeSeq, capacity, build)
}

// PushAlternative is PushSequence under an ALT descriptor.
func PushAlternative(r *core.Record, capacity int, build func(child *core.Record)) bool {
	return pushComposite(r, TypeAlt, capacity, build)
}

func pushComposite(r *core.Record, t ElementType, capacity int, build func(child *core.Record)) bool {
	child := core.NewRecord(capacity)
	build(child)
	return pushVariableLen(r, t, child.Len()) && r.PushBytes(child.Bytes())
}

// Element is one decoded SDP data element. Which fields are populated
// depends on Type: UInt/Int for integers, Bool for booleans, UUID for
// UUIDs, Bytes for text/URL, Seq for SEQ/ALT (recursively decoded).
type Element struct {
	Type ElementType
	UInt uint64
	Int  int64
	Bool bool
	UUID core.UUID
	Bytes []byte
	Seq  []Element
	// Width is the integer byte width (1/2/4/8) for Uint/Int elements,
	// set on decode and required again to re-encode the same element.
	Width int
}

// PushElement re-encodes a previously decoded (or hand-built) Element.
func PushElement(r *core.Record, e Element) bool {
	switch e.Type {
	case TypeNil:
		return PushNil(r)
	case TypeBool:
		return PushBool(r, e.Bool)
	case TypeUint:
		return PushUint(r, e.UInt, e.Width)
	case TypeInt:
		return PushInt(r, e.Int, e.Width)
	case TypeUUID:
		return PushUUID(r, e.UUID)
	case TypeText:
		return PushText(r, e.Bytes)
	case TypeURL:
		return PushURL(r, e.Bytes)
	case TypeSeq, TypeAlt:
		build := func(child *core.Record) {
			for _, sub := range e.Seq {
				PushElement(child, sub)
			}
		}
		if e.Type == TypeSeq {
			return PushSequence(r, 64, build)
		}
		return PushAlternative(r, 64, build)
	default:
		return false
	}
}

// PopElement decodes one element from r, recursing into SEQ/ALT
// children.
func PopElement(r *core.Record) (Element, bool) {
	desc, ok := r.PopByte()
	if !ok {
		return Element{}, false
	}
	t := ElementType(desc >> 3)
	class := desc & 0x07

	switch t {
	case TypeNil:
		return Element{Type: TypeNil}, true
	case TypeBool:
		b, ok := r.PopByte()
		if !ok {
			return Element{}, false
		}
		return Element{Type: TypeBool, Bool: b != 0}, true
	case TypeUint:
		width, ok := widthForFixedClass(class)
		if !ok {
			return Element{}, false
		}
		v, ok := popFixed(r, width)
		if !ok {
			return Element{}, false
		}
		return Element{Type: TypeUint, UInt: v, Width: width}, true
	case TypeInt:
		width, ok := widthForFixedClass(class)
		if !ok {
			return Element{}, false
		}
		v, ok := popFixed(r, width)
		if !ok {
			return Element{}, false
		}
		return Element{Type: TypeInt, Int: signExtend(v, width), Width: width}, true
	case TypeUUID:
		switch class {
		case class2Byte:
			b, ok := r.PopBytes(2)
			if !ok {
				return Element{}, false
			}
			return Element{Type: TypeUUID, UUID: core.UUID16(uint16(b[0])<<8 | uint16(b[1]))}, true
		case class4Byte:
			logrus.WithField("component", "sdp").Warn("32-bit UUID element is unsupported on read, skipping")
			if _, ok := r.PopBytes(4); !ok {
				return Element{}, false
			}
			return Element{Type: TypeUUID}, true
		case class16Byte:
			b, ok := r.PopBytes(16)
			if !ok {
				return Element{}, false
			}
			var full [16]byte
			copy(full[:], b)
			return Element{Type: TypeUUID, UUID: core.UUID128(full)}, true
		default:
			return Element{}, false
		}
	case TypeText, TypeURL:
		n, ok := popVariableLen(r, class)
		if !ok {
			return Element{}, false
		}
		b, ok := r.PopBytes(n)
		if !ok {
			return Element{}, false
		}
		return Element{Type: t, Bytes: append([]byte{}, b...)}, true
	case TypeSeq, TypeAlt:
		n, ok := popVariableLen(r, class)
		if !ok {
			return Element{}, false
		}
		child, ok := r.Peek(n)
		if !ok {
			return Element{}, false
		}
		var elems []Element
		for child.Available() > 0 {
			e, ok := PopElement(child)
			if !ok {
				break
			}
			elems = append(elems, e)
		}
		return Element{Type: t, Seq: elems}, true
	default:
		return Element{}, false
	}
}

func widthForFixedClass(class byte) (int, bool) {
	switch class {
	case class1Byte:
		return 1, true
	case class2Byte:
		return 2, true
	case class4Byte:
		return 4, true
	case class8Byte:
		return 8, true
	default:
		return 0, false
	}
}

func signExtend(v uint64, width int) int64 {
	bits := uint(width * 8)
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

func popVariableLen(r *core.Record, class byte) (int, bool) {
	switch class {
	case classLen1:
		b, ok := r.PopByte()
		return int(b), ok
	case classLen2:
		v, ok := r.PopUint16BE()
		return int(v), ok
	case classLen4:
		v, ok := r.PopUint32BE()
		return int(v), ok
	default:
		return 0, false
	}
}

// WriteContinuation appends the continuation blob in its wire form: a
// single length byte (0..16) followed by that many opaque bytes.
func WriteContinuation(r *core.Record, cont []byte) bool {
	if len(cont) > 16 {
		return false
	}
	if !r.PushByte(byte(len(cont))) {
		return false
	}
	return r.PushBytes(cont)
}

// ReadContinuation reads the continuation blob; an empty, non-nil
// slice distinguishes "present but empty" from "absent" is not
// representable on the wire, so an empty result always means "done".
func ReadContinuation(r *core.Record) ([]byte, bool) {
	n, ok := r.PopByte()
	if !ok || n > 16 {
		return nil, false
	}
	if n == 0 {
		return nil, true
	}
	b, ok := r.PopBytes(int(n))
	if !ok {
		return nil, false
	}
	return append([]byte{}, b...), true
}

func (e Element) String() string {
	switch e.Type {
	case TypeNil:
		return "nil"
	case TypeBool:
		return fmt.Sprintf("bool(%v)", e.Bool)
	case TypeUint:
		return fmt.Sprintf("uint(%d)", e.UInt)
	case TypeInt:
		return fmt.Sprintf("int(%d)", e.Int)
	case TypeUUID:
		return fmt.Sprintf("uuid(%s)", e.UUID)
	case TypeText:
		return fmt.Sprintf("text(%q)", e.Bytes)
	case TypeURL:
		return fmt.Sprintf("url(%q)", e.Bytes)
	case TypeSeq:
		return fmt.Sprintf("seq(%d)", len(e.Seq))
	case TypeAlt:
		return fmt.Sprintf("alt(%d)", len(e.Seq))
	default:
		return "element(?)"
	}
}
