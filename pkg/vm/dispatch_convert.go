package vm

// dispatchConvert handles the six scalar conversions (spec.md §4.2 "Type
// conversion"). Each reads one source stack-var slot and writes one
// destination slot with the target tag; the two are independent slots
// (operand = dest, imm1 low byte = source) exactly like the unary
// arithmetic opcodes.
//
// Float-to-integer truncates toward zero and saturates out-of-range
// values rather than wrapping or trapping (SPEC_FULL.md §5, resolving
// spec.md §9's "Float-to-int out-of-range conversion" open question).
func (e *Engine) dispatchConvert(ins instruction) (Status, bool, error) {
	switch ins.op {
	case OpI32ToU32:
		return e.convert(ins, TagI32, func(dest *Value, src *Value) Status {
			v, _ := src.I32()
			*dest = U32Value(uint32(v))
			return StatusOK
		})
	case OpU32ToI32:
		return e.convert(ins, TagU32, func(dest *Value, src *Value) Status {
			v, _ := src.U32()
			*dest = I32Value(int32(v))
			return StatusOK
		})
	case OpI32ToF32:
		return e.convert(ins, TagI32, func(dest *Value, src *Value) Status {
			v, _ := src.I32()
			*dest = F32Value(float32(v))
			return StatusOK
		})
	case OpF32ToI32:
		return e.convert(ins, TagF32, func(dest *Value, src *Value) Status {
			v, _ := src.F32()
			*dest = I32Value(saturateI32(v))
			return StatusOK
		})
	case OpU32ToF32:
		return e.convert(ins, TagU32, func(dest *Value, src *Value) Status {
			v, _ := src.U32()
			*dest = F32Value(float32(v))
			return StatusOK
		})
	case OpF32ToU32:
		return e.convert(ins, TagF32, func(dest *Value, src *Value) Status {
			v, _ := src.F32()
			*dest = U32Value(saturateU32(v))
			return StatusOK
		})
	default:
		return StatusInvalidOpcode, false, nil
	}
}

// convert resolves dest/src the way unOperand does, checks src carries
// wantTag, and runs do.
func (e *Engine) convert(ins instruction, wantTag Tag, do func(dest, src *Value) Status) (Status, bool, error) {
	dest, src, st := e.unOperand(ins)
	if st != StatusOK {
		return st, false, nil
	}
	if src.Tag != wantTag {
		return StatusTypeMismatch, false, nil
	}
	st = do(dest, src)
	return st, false, nil
}

// saturateI32 truncates f toward zero and clamps to int32's range. NaN
// saturates to 0 (SPEC_FULL.md §5).
func saturateI32(f float32) int32 {
	switch {
	case f != f: // NaN
		return 0
	case f >= 2147483647.0:
		return 2147483647
	case f <= -2147483648.0:
		return -2147483648
	default:
		return int32(f)
	}
}

// saturateU32 truncates f toward zero and clamps to uint32's range. NaN
// and negative values saturate to 0 (SPEC_FULL.md §5).
func saturateU32(f float32) uint32 {
	switch {
	case f != f: // NaN
		return 0
	case f <= 0:
		return 0
	case f >= 4294967295.0:
		return 4294967295
	default:
		return uint32(f)
	}
}
