package vm

import "fmt"

// Tag discriminates the active variant of a Value.
type Tag byte

const (
	TagVoid Tag = iota
	TagI32
	TagU32
	TagF32
	TagU8x4
	TagU16x2
	TagUChar
	TagGlobalRef
	TagStackRef
	TagBufRef
	TagBufPos
)

func (t Tag) String() string {
	switch t {
	case TagVoid:
		return "void"
	case TagI32:
		return "i32"
	case TagU32:
		return "u32"
	case TagF32:
		return "f32"
	case TagU8x4:
		return "u8x4"
	case TagU16x2:
		return "u16x2"
	case TagUChar:
		return "uchar"
	case TagGlobalRef:
		return "global_ref"
	case TagStackRef:
		return "stack_ref"
	case TagBufRef:
		return "buf_ref"
	case TagBufPos:
		return "buf_pos"
	default:
		return "?"
	}
}

// StackRef names a stack-var slot inside a specific frame: {frame, var}.
// It is a data index, validated at each use — never a pointer (spec.md §9).
type StackRef struct {
	Frame uint16
	Var   uint16
}

// Value is the tagged scalar/reference cell carried by globals, locals,
// stack-vars, and return slots (spec.md §3). The zero Value is Void.
//
// Value intentionally has no interface indirection: every field is a
// fixed-width scalar, and the active one is selected by Tag. This mirrors
// original_source/src/stipple.h's var_value_t C union, re-expressed per
// spec.md §9's "Tagged unions" redesign flag — every accessor validates
// the tag before reading its variant, so a caller can never observe a
// variant that doesn't match the tag.
type Value struct {
	Tag Tag

	i32 int32
	u32 uint32
	f32 float32
	u8  [4]byte
	u16 [2]uint16
	ref StackRef
}

// VoidValue returns the unused-slot value.
func VoidValue() Value { return Value{Tag: TagVoid} }

func I32Value(v int32) Value   { return Value{Tag: TagI32, i32: v} }
func U32Value(v uint32) Value  { return Value{Tag: TagU32, u32: v} }
func F32Value(v float32) Value { return Value{Tag: TagF32, f32: v} }
func U8x4Value(v [4]byte) Value {
	return Value{Tag: TagU8x4, u8: v}
}
func U16x2Value(v [2]uint16) Value {
	return Value{Tag: TagU16x2, u16: v}
}
func UCharValue(v int32) Value      { return Value{Tag: TagUChar, i32: v} }
func GlobalRefValue(i uint32) Value { return Value{Tag: TagGlobalRef, u32: i} }
func StackRefValue(r StackRef) Value {
	return Value{Tag: TagStackRef, ref: r}
}
func BufRefValue(i uint32) Value { return Value{Tag: TagBufRef, u32: i} }
func BufPosValue(i uint32) Value { return Value{Tag: TagBufPos, u32: i} }

// I32 returns the I32 payload and whether the tag matched.
func (v Value) I32() (int32, bool) {
	if v.Tag != TagI32 {
		return 0, false
	}
	return v.i32, true
}

// U32 returns the U32 payload and whether the tag matched.
func (v Value) U32() (uint32, bool) {
	if v.Tag != TagU32 {
		return 0, false
	}
	return v.u32, true
}

// F32 returns the F32 payload and whether the tag matched.
func (v Value) F32() (float32, bool) {
	if v.Tag != TagF32 {
		return 0, false
	}
	return v.f32, true
}

// U8x4 returns the U8x4 payload and whether the tag matched.
func (v Value) U8x4() ([4]byte, bool) {
	if v.Tag != TagU8x4 {
		return [4]byte{}, false
	}
	return v.u8, true
}

// U16x2 returns the U16x2 payload and whether the tag matched.
func (v Value) U16x2() ([2]uint16, bool) {
	if v.Tag != TagU16x2 {
		return [2]uint16{}, false
	}
	return v.u16, true
}

// UChar returns the UChar payload and whether the tag matched.
func (v Value) UChar() (int32, bool) {
	if v.Tag != TagUChar {
		return 0, false
	}
	return v.i32, true
}

// GlobalRef returns the global-table index and whether the tag matched.
func (v Value) GlobalRef() (uint32, bool) {
	if v.Tag != TagGlobalRef {
		return 0, false
	}
	return v.u32, true
}

// StackRefVal returns the stack-var reference and whether the tag matched.
func (v Value) StackRefVal() (StackRef, bool) {
	if v.Tag != TagStackRef {
		return StackRef{}, false
	}
	return v.ref, true
}

// BufRef returns the buffer-pool index and whether the tag matched.
func (v Value) BufRef() (uint32, bool) {
	if v.Tag != TagBufRef {
		return 0, false
	}
	return v.u32, true
}

// BufPos returns the buffer position and whether the tag matched.
func (v Value) BufPos() (uint32, bool) {
	if v.Tag != TagBufPos {
		return 0, false
	}
	return v.u32, true
}

// String renders the value for diagnostics (DumpState, tracing).
func (v Value) String() string {
	switch v.Tag {
	case TagVoid:
		return "void"
	case TagI32:
		return fmt.Sprintf("i32(%d)", v.i32)
	case TagU32:
		return fmt.Sprintf("u32(%d)", v.u32)
	case TagF32:
		return fmt.Sprintf("f32(%g)", v.f32)
	case TagU8x4:
		return fmt.Sprintf("u8x4(%v)", v.u8)
	case TagU16x2:
		return fmt.Sprintf("u16x2(%v)", v.u16)
	case TagUChar:
		return fmt.Sprintf("uchar(%d)", v.i32)
	case TagGlobalRef:
		return fmt.Sprintf("global_ref(%d)", v.u32)
	case TagStackRef:
		return fmt.Sprintf("stack_ref(%d,%d)", v.ref.Frame, v.ref.Var)
	case TagBufRef:
		return fmt.Sprintf("buf_ref(%d)", v.u32)
	case TagBufPos:
		return fmt.Sprintf("buf_pos(%d)", v.u32)
	default:
		return "?"
	}
}
