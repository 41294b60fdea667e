package vm

import "math"

// HeaderSize is the fixed 4-byte instruction header (spec.md §4.1).
const HeaderSize = 4

// WordSize is the width of a single payload word.
const WordSize = 4

// MaxPayloadWords is the largest payload_len the decoder accepts (spec.md
// §4.1: "payload_len <= 3"). The header nibble can hold values up to 15;
// anything above 3 is rejected as an invalid instruction.
const MaxPayloadWords = 3

// word is a single 4-byte payload, reinterpretable per spec.md §4.1 as
// u8[4], u16[2], u32, i32, f32, or a {frame,var} stack reference. The
// decoder copies the bytes out unchanged and leaves reinterpretation to the
// handler that consumes it; the multi-byte accessors below always read the
// bytes little-endian (low byte first), whatever the host's byte order.
type word [WordSize]byte

func (w word) u32() uint32 {
	return uint32(w[0]) | uint32(w[1])<<8 | uint32(w[2])<<16 | uint32(w[3])<<24
}

func (w word) i32() int32 { return int32(w.u32()) }

func (w word) f32() float32 {
	return math.Float32frombits(w.u32())
}

func (w word) u16x2() [2]uint16 {
	return [2]uint16{
		uint16(w[0]) | uint16(w[1])<<8,
		uint16(w[2]) | uint16(w[3])<<8,
	}
}

func (w word) u8x4() [4]byte { return w }

// stackRef interprets the word as a packed {frame:u16, var:u16} reference,
// low halfword first (matches u16x2 layout).
func (w word) stackRef() StackRef {
	pair := w.u16x2()
	return StackRef{Frame: pair[0], Var: pair[1]}
}

// lowByte returns the low byte of the word's u32 interpretation — used for
// payload words that carry an index or slot number in their low byte
// (spec.md §4.2: "imm1, imm2, imm3 payload words carry ... slot indices
// (low byte of a u32)").
func (w word) lowByte() byte { return w[0] }

// instruction is a fully decoded instruction: opcode, operand byte, and
// up to 3 payload words (spec.md §4.1).
type instruction struct {
	op      Op
	operand byte
	nwords  int
	imm     [MaxPayloadWords]word
	size    int // total encoded size in bytes, for PC advance
}

// decode reads one instruction from code at pc. It never mutates engine
// state; all bounds checks happen before any handler runs (spec.md §4.2:
// "Precondition validation first").
//
// Grounded on original_source/src/stipple.h's instruction_header_t
// (opcode, operand, payload_len:4 + imm_type1:4, imm_type2:4 + imm_type3:4)
// and on oisee-psil/pkg/micro/vm.go's Step, which performs the same
// "bounds-check before consuming trailing bytes" dance per opcode class.
func decode(code []byte, pc uint32) (instruction, Status) {
	if pc >= uint32(len(code)) {
		return instruction{}, StatusInvalidPC
	}
	if uint64(pc)+HeaderSize > uint64(len(code)) {
		return instruction{}, StatusInvalidInstruction
	}

	opcode := code[pc]
	operand := code[pc+1]
	flags := code[pc+2]
	payloadLen := int(flags & 0x0F)

	if payloadLen > MaxPayloadWords {
		return instruction{}, StatusInvalidInstruction
	}
	if opcode > MaxOpcode {
		return instruction{}, StatusInvalidOpcode
	}

	size := HeaderSize + payloadLen*WordSize
	if uint64(pc)+uint64(size) > uint64(len(code)) {
		return instruction{}, StatusInvalidPC
	}

	ins := instruction{op: Op(opcode), operand: operand, nwords: payloadLen, size: size}
	base := pc + HeaderSize
	for i := 0; i < payloadLen; i++ {
		off := base + uint32(i*WordSize)
		copy(ins.imm[i][:], code[off:off+WordSize])
	}
	return ins, StatusOK
}
