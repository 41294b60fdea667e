package vm

import "math"

// cmpEpsilon is the float-equality tolerance for CMP_F32 (spec.md §4.2
// "Comparison": "|a-b| < 1e-6").
const cmpEpsilon = 1e-6

// dispatchCompare handles CMP_I32/U32/F32: clears flags, then sets Z if
// equal, L if the first operand is less, G if greater. Integer comparisons
// are exact, so Z and L/G are mutually exclusive there. CMP_F32 uses an
// epsilon equality for Z but always computes L/G from the strict operand
// ordering, so a near-equal pair can set both Z and L (or Z and G)
// (spec.md §4.2 "Comparison").
func (e *Engine) dispatchCompare(ins instruction) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	s1, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	s2, st := e.stackVarByIndex(uint32(ins.imm[0].lowByte()))
	if st != StatusOK {
		return st, false, nil
	}

	switch ins.op {
	case OpCmpI32:
		a, ok1 := s1.I32()
		b, ok2 := s2.I32()
		if !ok1 || !ok2 {
			return StatusTypeMismatch, false, nil
		}
		e.setCompareFlags(a == b, a < b, a > b)
	case OpCmpU32:
		a, ok1 := s1.U32()
		b, ok2 := s2.U32()
		if !ok1 || !ok2 {
			return StatusTypeMismatch, false, nil
		}
		e.setCompareFlags(a == b, a < b, a > b)
	case OpCmpF32:
		a, ok1 := s1.F32()
		b, ok2 := s2.F32()
		if !ok1 || !ok2 {
			return StatusTypeMismatch, false, nil
		}
		eq := math.Abs(float64(a-b)) < cmpEpsilon
		e.setCompareFlags(eq, a < b, a > b)
	default:
		return StatusInvalidOpcode, false, nil
	}
	return StatusOK, false, nil
}

// setCompareFlags installs Z/L/G independently: L and G are never both set,
// but Z and one of L/G can co-occur for CMP_F32's epsilon equality — a pair
// within epsilon but not bit-identical is simultaneously "equal" and
// strictly ordered (spec.md §4.2 "Comparison", §8 "Universal invariants":
// "float CMP with epsilon may set Z and one direction").
func (e *Engine) setCompareFlags(z, l, g bool) {
	e.Z, e.L, e.G = z, l, g
}
