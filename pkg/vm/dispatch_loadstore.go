package vm

// dispatchLoadStore handles the LOAD_* and STORE_* family (spec.md §4.2
// "Loads & stores"). The header operand byte names the stack-var slot
// that is the primary endpoint (destination for loads, source for
// stores); imm1 carries the other endpoint's index or an immediate
// literal.
func (e *Engine) dispatchLoadStore(ins instruction) (Status, bool, error) {
	switch ins.op {
	case OpLoadG:
		return e.loadFrom(ins, func(e *Engine, gi uint32) (Value, Status) {
			if !validGlobalIdx(gi) {
				return Value{}, StatusInvalidGlobalIdx
			}
			return e.Globals[gi], StatusOK
		})
	case OpLoadL:
		return e.loadFrom(ins, func(e *Engine, li uint32) (Value, Status) {
			if !validLocalIdx(li) {
				return Value{}, StatusInvalidLocalIdx
			}
			return e.CurrentFrame().Locals[li], StatusOK
		})
	case OpLoadS:
		return e.loadStackRef(ins)
	case OpLoadII32:
		return e.loadImmediate(ins, TagI32)
	case OpLoadIU32:
		return e.loadImmediate(ins, TagU32)
	case OpLoadIF32:
		return e.loadImmediate(ins, TagF32)
	case OpLoadRet:
		return e.loadFrom(ins, func(e *Engine, f uint32) (Value, Status) {
			if !validFrameIdx(f) {
				return Value{}, StatusInvalidStackVarIdx
			}
			return e.frames[f].RetVal, StatusOK
		})

	case OpStoreG:
		return e.storeTo(ins, func(e *Engine, gi uint32, v Value) Status {
			if !validGlobalIdx(gi) {
				return StatusInvalidGlobalIdx
			}
			e.Globals[gi] = v
			return StatusOK
		})
	case OpStoreL:
		return e.storeTo(ins, func(e *Engine, li uint32, v Value) Status {
			if !validLocalIdx(li) {
				return StatusInvalidLocalIdx
			}
			e.CurrentFrame().Locals[li] = v
			return StatusOK
		})
	case OpStoreS:
		return e.storeStackRef(ins)
	case OpStoreRet:
		return e.storeTo(ins, func(e *Engine, f uint32, v Value) Status {
			if !validFrameIdx(f) {
				return StatusInvalidStackVarIdx
			}
			e.frames[f].RetVal = v
			return StatusOK
		})

	default:
		return StatusInvalidOpcode, false, nil
	}
}

// loadFrom resolves the destination stack-var slot from the header
// operand, the source index from imm1, runs fetch, and writes the result.
func (e *Engine) loadFrom(ins instruction, fetch func(*Engine, uint32) (Value, Status)) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	v, st := fetch(e, ins.imm[0].u32())
	if st != StatusOK {
		return st, false, nil
	}
	*dest = v
	return StatusOK, false, nil
}

// storeTo mirrors loadFrom in the opposite direction: the header operand
// names the source stack-var slot, imm1 the destination index.
func (e *Engine) storeTo(ins instruction, put func(*Engine, uint32, Value) Status) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	src, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	st = put(e, ins.imm[0].u32(), *src)
	if st != StatusOK {
		return st, false, nil
	}
	return StatusOK, false, nil
}

func (e *Engine) loadImmediate(ins instruction, tag Tag) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	w := ins.imm[0]
	switch tag {
	case TagI32:
		*dest = I32Value(w.i32())
	case TagU32:
		*dest = U32Value(w.u32())
	case TagF32:
		*dest = F32Value(w.f32())
	}
	return StatusOK, false, nil
}

func (e *Engine) loadStackRef(ins instruction) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	ref := ins.imm[0].stackRef()
	if !validFrameIdx(uint32(ref.Frame)) || !validStackVarIdx(uint32(ref.Var)) {
		return StatusInvalidStackVarIdx, false, nil
	}
	*dest = e.frames[ref.Frame].StackVars[ref.Var]
	return StatusOK, false, nil
}

func (e *Engine) storeStackRef(ins instruction) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	src, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	ref := ins.imm[0].stackRef()
	if !validFrameIdx(uint32(ref.Frame)) || !validStackVarIdx(uint32(ref.Var)) {
		return StatusInvalidStackVarIdx, false, nil
	}
	e.frames[ref.Frame].StackVars[ref.Var] = *src
	return StatusOK, false, nil
}
