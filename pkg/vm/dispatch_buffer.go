package vm

// dispatchBuffer handles BUF_READ/BUF_WRITE/BUF_LEN/BUF_CLEAR (spec.md §4.2
// "Buffer operations"). BUF_READ/BUF_WRITE/BUF_LEN name a stack-var slot in
// the header operand and the buffer index in imm1; BUF_READ/BUF_WRITE
// additionally take the element position in imm2. BUF_CLEAR has no
// stack-var endpoint, so the header operand names the buffer index
// directly.
func (e *Engine) dispatchBuffer(ins instruction) (Status, bool, error) {
	switch ins.op {
	case OpBufRead:
		return e.execBufRead(ins)
	case OpBufWrite:
		return e.execBufWrite(ins)
	case OpBufLen:
		return e.execBufLen(ins)
	case OpBufClear:
		return e.execBufClear(ins)
	default:
		return StatusInvalidOpcode, false, nil
	}
}

// bufferAt resolves and validates a buffer index.
func (e *Engine) bufferAt(bi uint32) (*Buffer, Status) {
	if !validBufferIdx(bi) {
		return nil, StatusInvalidBufferIdx
	}
	return &e.Buffers[bi], StatusOK
}

func (e *Engine) execBufRead(ins instruction) (Status, bool, error) {
	if ins.nwords < 2 {
		return StatusInvalidInstruction, false, nil
	}
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	buf, st := e.bufferAt(ins.imm[0].u32())
	if st != StatusOK {
		return st, false, nil
	}
	if buf.Tag == BufVoid {
		return StatusTypeMismatch, false, nil
	}
	pos := ins.imm[1].u32()
	if !validBufferPos(buf.Tag, pos) {
		return StatusInvalidBufferPos, false, nil
	}

	switch buf.Tag {
	case BufU8:
		*dest = U32Value(uint32(buf.readU8(pos)))
	case BufU16:
		*dest = U32Value(uint32(buf.readU16(pos)))
	case BufU32:
		*dest = U32Value(buf.readU32(pos))
	case BufI32:
		*dest = I32Value(buf.readI32(pos))
	case BufF32:
		*dest = F32Value(buf.readF32(pos))
	}
	return StatusOK, false, nil
}

func (e *Engine) execBufWrite(ins instruction) (Status, bool, error) {
	if ins.nwords < 2 {
		return StatusInvalidInstruction, false, nil
	}
	src, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	buf, st := e.bufferAt(ins.imm[0].u32())
	if st != StatusOK {
		return st, false, nil
	}

	effectiveTag := buf.Tag
	if effectiveTag == BufVoid {
		inferred, st := inferBufferTag(src.Tag)
		if st != StatusOK {
			return st, false, nil
		}
		effectiveTag = inferred
	}

	pos := ins.imm[1].u32()
	if !validBufferPos(effectiveTag, pos) {
		return StatusInvalidBufferPos, false, nil
	}

	// All preconditions passed — commit the inferred tag now, not before
	// the bounds check, so a failing write never mutates a Void buffer
	// (spec.md §4.2, §5: a failed instruction leaves all state but
	// last_error unchanged).
	buf.Tag = effectiveTag

	switch buf.Tag {
	case BufU8:
		v, st := narrowTo32(*src)
		if st != StatusOK {
			return st, false, nil
		}
		buf.writeU8(pos, byte(v))
	case BufU16:
		v, st := narrowTo32(*src)
		if st != StatusOK {
			return st, false, nil
		}
		buf.writeU16(pos, uint16(v))
	case BufI32:
		v, ok := src.I32()
		if !ok {
			return StatusTypeMismatch, false, nil
		}
		buf.writeI32(pos, v)
	case BufU32:
		v, ok := src.U32()
		if !ok {
			return StatusTypeMismatch, false, nil
		}
		buf.writeU32(pos, v)
	case BufF32:
		v, ok := src.F32()
		if !ok {
			return StatusTypeMismatch, false, nil
		}
		buf.writeF32(pos, v)
	}
	return StatusOK, false, nil
}

func (e *Engine) execBufLen(ins instruction) (Status, bool, error) {
	if ins.nwords < 1 {
		return StatusInvalidInstruction, false, nil
	}
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	buf, st := e.bufferAt(ins.imm[0].u32())
	if st != StatusOK {
		return st, false, nil
	}
	*dest = U32Value(buf.Capacity())
	return StatusOK, false, nil
}

// execBufClear takes its buffer index from the header operand byte, unlike
// BUF_READ/BUF_WRITE/BUF_LEN which take theirs from imm1 — BUF_CLEAR has no
// stack-var endpoint to occupy the operand byte, so the buffer index moves
// into that slot instead (see the dispatchBuffer doc comment).
func (e *Engine) execBufClear(ins instruction) (Status, bool, error) {
	buf, st := e.bufferAt(uint32(ins.operand))
	if st != StatusOK {
		return st, false, nil
	}
	buf.Clear()
	return StatusOK, false, nil
}

// inferBufferTag implements the open-question decision for the first write
// to a Void buffer (SPEC_FULL.md §5): a source tag of I32/U32/F32 infers
// the matching buffer element type one-to-one; any other source tag cannot
// seed a buffer. U8 buffers get their tag from STR_CAT, STR_COPY,
// STR_SET_CHR or READ_STR; no opcode gives a buffer the U16 tag.
func inferBufferTag(srcTag Tag) (BufTag, Status) {
	switch srcTag {
	case TagI32:
		return BufI32, StatusOK
	case TagU32:
		return BufU32, StatusOK
	case TagF32:
		return BufF32, StatusOK
	default:
		return BufVoid, StatusTypeMismatch
	}
}

// narrowTo32 extracts the 32-bit payload of a U32 or I32 value for a
// narrowing write into a U8/U16 buffer (spec.md §4.2: "U8/U16 accept U32
// or I32 with narrowing").
func narrowTo32(v Value) (uint32, Status) {
	if u, ok := v.U32(); ok {
		return u, StatusOK
	}
	if i, ok := v.I32(); ok {
		return uint32(i), StatusOK
	}
	return 0, StatusTypeMismatch
}
