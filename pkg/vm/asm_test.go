package vm_test

import (
	"math"

	"github.com/stipplevm/stipple/pkg/vm"
)

// This file is test-only scaffolding for hand-assembling instructions byte
// by byte; it is not a general assembler (spec.md §1 places the
// assembler/disassembler tooling out of this engine's scope).

func u32w(v uint32) [4]byte {
	return [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func i32w(v int32) [4]byte { return u32w(uint32(v)) }

func f32w(v float32) [4]byte { return u32w(math.Float32bits(v)) }

func refw(frame, v uint16) [4]byte {
	return [4]byte{byte(frame), byte(frame >> 8), byte(v), byte(v >> 8)}
}

// instr encodes one instruction: a 4-byte header (opcode, operand,
// payload_len, 0) followed by up to 3 payload words (spec.md §4.1).
func instr(op vm.Op, operand byte, words ...[4]byte) []byte {
	if len(words) > 3 {
		panic("too many payload words")
	}
	buf := make([]byte, 4+4*len(words))
	buf[0] = byte(op)
	buf[1] = operand
	buf[2] = byte(len(words))
	buf[3] = 0
	for i, w := range words {
		copy(buf[4+4*i:], w[:])
	}
	return buf
}

func prog(instructions ...[]byte) []byte {
	var out []byte
	for _, ins := range instructions {
		out = append(out, ins...)
	}
	return out
}
