package vm

// Validation primitives (spec.md §4, component 1): every index used by a
// handler is checked against its bound before any state is mutated.

func validGlobalIdx(i uint32) bool    { return i < GlobalsCount }
func validLocalIdx(i uint32) bool     { return i < LocalsCount }
func validStackVarIdx(i uint32) bool  { return i < StackVars }
func validFrameIdx(i uint32) bool     { return i < MaxFrames }
func validBufferIdx(i uint32) bool    { return i < BuffersCount }

// validBufferPos checks pos against the capacity of the given buffer
// element type (spec.md §3: "pos < capacity(type)").
func validBufferPos(tag BufTag, pos uint32) bool {
	return pos < bufCapacity(tag)
}

// operandStackVar resolves the header operand byte as a stack-var slot in
// the current frame — the common case for most handlers (spec.md §4.2).
func (e *Engine) operandStackVar(operand byte) (*Value, Status) {
	idx := uint32(operand)
	if !validStackVarIdx(idx) {
		return nil, StatusInvalidStackVarIdx
	}
	return &e.frames[e.sp].StackVars[idx], StatusOK
}

// stackVarByIndex resolves a stack-var slot index (from a payload word's
// low byte) in the current frame.
func (e *Engine) stackVarByIndex(idx uint32) (*Value, Status) {
	if !validStackVarIdx(idx) {
		return nil, StatusInvalidStackVarIdx
	}
	return &e.frames[e.sp].StackVars[idx], StatusOK
}
