package vm

// dispatchControl handles NOP, HALT, the jump family, CALL and RET
// (spec.md §4.2 "Control flow").
func (e *Engine) dispatchControl(ins instruction) (Status, bool, error) {
	switch ins.op {
	case OpNop:
		return StatusOK, false, nil

	case OpHalt:
		return StatusHalt, false, nil

	case OpJmp:
		return e.jumpIf(ins, true)
	case OpJz:
		return e.jumpIf(ins, e.Z)
	case OpJnz:
		return e.jumpIf(ins, !e.Z)
	case OpJlt:
		return e.jumpIf(ins, e.L)
	case OpJgt:
		return e.jumpIf(ins, e.G)
	case OpJle:
		return e.jumpIf(ins, e.L || e.Z)
	case OpJge:
		return e.jumpIf(ins, e.G || e.Z)

	case OpCall:
		return e.execCall(ins)
	case OpRet:
		return e.execRet(ins)

	default:
		return StatusInvalidOpcode, false, nil
	}
}

// jumpIf sets PC to the instruction's target word when cond holds; when
// cond is false the jump is a no-op and Step advances PC normally. The
// target must lie strictly inside program memory (spec.md §4.1: "target <
// program_len").
func (e *Engine) jumpIf(ins instruction, cond bool) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	if !cond {
		return StatusOK, false, nil
	}
	target := ins.imm[0].u32()
	if target >= e.programLen {
		return StatusInvalidPC, false, nil
	}
	e.PC = target
	return StatusOK, true, nil
}

// execCall implements CALL: stage the next frame, preserving its
// stack_vars (the caller pre-populated them), reset its locals to Void,
// save the return address, and jump (spec.md §4.2 "CALL").
func (e *Engine) execCall(ins instruction) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	if e.sp >= MaxFrames-1 {
		return StatusStackOverflow, false, nil
	}
	target := ins.imm[0].u32()
	if target >= e.programLen {
		return StatusInvalidPC, false, nil
	}

	next := &e.frames[e.sp+1]
	next.resetLocals()
	next.ReturnPC = e.PC + uint32(ins.size)
	e.sp++
	e.PC = target
	return StatusOK, true, nil
}

// execRet implements RET: pop the current frame and resume at its saved
// return address. The callee's ret_val is left in place in the
// now-inactive frame for the caller's LOAD_RET (spec.md §4.2 "RET").
func (e *Engine) execRet(ins instruction) (Status, bool, error) {
	if e.sp == 0 {
		return StatusStackUnderflow, false, nil
	}
	returnPC := e.frames[e.sp].ReturnPC
	e.sp--
	e.PC = returnPC
	return StatusOK, true, nil
}
