package vm

import "math"

// dispatchArith handles the I32, U32, and F32 arithmetic opcodes
// (spec.md §4.2 "Arithmetic"). Binary opcodes read three stack-var
// indices — dest from the header operand, src1/src2 from imm1/imm2's low
// byte — verify both sources carry the matching scalar tag, and write
// dest with that same tag. Unary opcodes read dest from operand and the
// single source from imm1's low byte.
func (e *Engine) dispatchArith(ins instruction) (Status, bool, error) {
	switch ins.op {
	case OpAddI32:
		return e.binI32(ins, func(a, b int32) (int32, Status) { return a + b, StatusOK })
	case OpSubI32:
		return e.binI32(ins, func(a, b int32) (int32, Status) { return a - b, StatusOK })
	case OpMulI32:
		return e.binI32(ins, func(a, b int32) (int32, Status) { return a * b, StatusOK })
	case OpDivI32:
		return e.binI32(ins, func(a, b int32) (int32, Status) {
			if b == 0 {
				return 0, StatusDivByZero
			}
			return a / b, StatusOK
		})
	case OpModI32:
		return e.binI32(ins, func(a, b int32) (int32, Status) {
			if b == 0 {
				return 0, StatusDivByZero
			}
			return a % b, StatusOK
		})
	case OpNegI32:
		return e.unI32(ins, func(a int32) int32 { return -a })

	case OpAddU32:
		return e.binU32(ins, func(a, b uint32) (uint32, Status) { return a + b, StatusOK })
	case OpSubU32:
		return e.binU32(ins, func(a, b uint32) (uint32, Status) { return a - b, StatusOK })
	case OpMulU32:
		return e.binU32(ins, func(a, b uint32) (uint32, Status) { return a * b, StatusOK })
	case OpDivU32:
		return e.binU32(ins, func(a, b uint32) (uint32, Status) {
			if b == 0 {
				return 0, StatusDivByZero
			}
			return a / b, StatusOK
		})
	case OpModU32:
		return e.binU32(ins, func(a, b uint32) (uint32, Status) {
			if b == 0 {
				return 0, StatusDivByZero
			}
			return a % b, StatusOK
		})

	case OpAddF32:
		return e.binF32(ins, func(a, b float32) float32 { return a + b })
	case OpSubF32:
		return e.binF32(ins, func(a, b float32) float32 { return a - b })
	case OpMulF32:
		return e.binF32(ins, func(a, b float32) float32 { return a * b })
	case OpDivF32:
		return e.binF32(ins, func(a, b float32) float32 { return a / b })
	case OpNegF32:
		return e.unF32(ins, func(a float32) float32 { return -a })
	case OpAbsF32:
		return e.unF32(ins, func(a float32) float32 { return float32(math.Abs(float64(a))) })
	case OpSqrtF32:
		return e.unF32(ins, func(a float32) float32 { return float32(math.Sqrt(float64(a))) })

	default:
		return StatusInvalidOpcode, false, nil
	}
}

func (e *Engine) binOperands(ins instruction) (dest, s1, s2 *Value, st Status) {
	if ins.nwords < 2 {
		return nil, nil, nil, StatusInvalidInstruction
	}
	dest, st = e.operandStackVar(ins.operand)
	if st != StatusOK {
		return
	}
	s1, st = e.stackVarByIndex(uint32(ins.imm[0].lowByte()))
	if st != StatusOK {
		return
	}
	s2, st = e.stackVarByIndex(uint32(ins.imm[1].lowByte()))
	return
}

func (e *Engine) unOperand(ins instruction) (dest, src *Value, st Status) {
	if ins.nwords < 1 {
		return nil, nil, StatusInvalidInstruction
	}
	dest, st = e.operandStackVar(ins.operand)
	if st != StatusOK {
		return
	}
	src, st = e.stackVarByIndex(uint32(ins.imm[0].lowByte()))
	return
}

func (e *Engine) binI32(ins instruction, op func(a, b int32) (int32, Status)) (Status, bool, error) {
	dest, s1, s2, st := e.binOperands(ins)
	if st != StatusOK {
		return st, false, nil
	}
	a, ok1 := s1.I32()
	b, ok2 := s2.I32()
	if !ok1 || !ok2 {
		return StatusTypeMismatch, false, nil
	}
	r, st := op(a, b)
	if st != StatusOK {
		return st, false, nil
	}
	*dest = I32Value(r)
	return StatusOK, false, nil
}

func (e *Engine) binU32(ins instruction, op func(a, b uint32) (uint32, Status)) (Status, bool, error) {
	dest, s1, s2, st := e.binOperands(ins)
	if st != StatusOK {
		return st, false, nil
	}
	a, ok1 := s1.U32()
	b, ok2 := s2.U32()
	if !ok1 || !ok2 {
		return StatusTypeMismatch, false, nil
	}
	r, st := op(a, b)
	if st != StatusOK {
		return st, false, nil
	}
	*dest = U32Value(r)
	return StatusOK, false, nil
}

func (e *Engine) binF32(ins instruction, op func(a, b float32) float32) (Status, bool, error) {
	dest, s1, s2, st := e.binOperands(ins)
	if st != StatusOK {
		return st, false, nil
	}
	a, ok1 := s1.F32()
	b, ok2 := s2.F32()
	if !ok1 || !ok2 {
		return StatusTypeMismatch, false, nil
	}
	*dest = F32Value(op(a, b))
	return StatusOK, false, nil
}

func (e *Engine) unI32(ins instruction, op func(a int32) int32) (Status, bool, error) {
	dest, src, st := e.unOperand(ins)
	if st != StatusOK {
		return st, false, nil
	}
	a, ok := src.I32()
	if !ok {
		return StatusTypeMismatch, false, nil
	}
	*dest = I32Value(op(a))
	return StatusOK, false, nil
}

func (e *Engine) unF32(ins instruction, op func(a float32) float32) (Status, bool, error) {
	dest, src, st := e.unOperand(ins)
	if st != StatusOK {
		return st, false, nil
	}
	a, ok := src.F32()
	if !ok {
		return StatusTypeMismatch, false, nil
	}
	*dest = F32Value(op(a))
	return StatusOK, false, nil
}
