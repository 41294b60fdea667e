package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// lineTerminator is the single byte PRINTLN writes and READ_* treats as
// the end of a line (spec.md §4.2 "I/O").
const lineTerminator = '\n'

// dispatchIO handles PRINT_*/READ_*/PRINTLN against the engine's
// host-provided text sink/source (spec.md §4.2 "I/O", §6 "Host text
// I/O"). A non-nil error here means the host binding itself failed — a
// write or read error on Output/Input — and is the one class of fault
// Step propagates as a Go error rather than a Status (SPEC_FULL.md §2.1).
func (e *Engine) dispatchIO(ins instruction) (Status, bool, error) {
	switch ins.op {
	case OpPrintI32:
		return e.execPrintI32(ins)
	case OpPrintU32:
		return e.execPrintU32(ins)
	case OpPrintF32:
		return e.execPrintF32(ins)
	case OpPrintStr:
		return e.execPrintStr(ins)
	case OpReadI32:
		return e.execReadI32(ins)
	case OpReadU32:
		return e.execReadU32(ins)
	case OpReadF32:
		return e.execReadF32(ins)
	case OpReadStr:
		return e.execReadStr(ins)
	case OpPrintln:
		return e.execPrintln(ins)
	default:
		return StatusInvalidOpcode, false, nil
	}
}

func (e *Engine) write(s string) error {
	_, err := fmt.Fprint(e.Output, s)
	return err
}

func (e *Engine) execPrintI32(ins instruction) (Status, bool, error) {
	src, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	v, ok := src.I32()
	if !ok {
		return StatusTypeMismatch, false, nil
	}
	if err := e.write(strconv.FormatInt(int64(v), 10)); err != nil {
		return StatusOK, false, err
	}
	return StatusOK, false, nil
}

func (e *Engine) execPrintU32(ins instruction) (Status, bool, error) {
	src, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	v, ok := src.U32()
	if !ok {
		return StatusTypeMismatch, false, nil
	}
	if err := e.write(strconv.FormatUint(uint64(v), 10)); err != nil {
		return StatusOK, false, err
	}
	return StatusOK, false, nil
}

// formatF32 renders v as an optional '-', the integer part, '.', and
// exactly 6 decimal digits (spec.md §4.2 "I/O": "Float format").
func formatF32(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}

func (e *Engine) execPrintF32(ins instruction) (Status, bool, error) {
	src, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	v, ok := src.F32()
	if !ok {
		return StatusTypeMismatch, false, nil
	}
	if err := e.write(formatF32(v)); err != nil {
		return StatusOK, false, err
	}
	return StatusOK, false, nil
}

func (e *Engine) execPrintStr(ins instruction) (Status, bool, error) {
	buf, st := e.bufferAt(uint32(ins.operand))
	if st != StatusOK {
		return st, false, nil
	}
	n := strLen(buf)
	raw := buf.rawBytes()
	if err := e.write(string(raw[:n])); err != nil {
		return StatusOK, false, err
	}
	return StatusOK, false, nil
}

func (e *Engine) execPrintln(ins instruction) (Status, bool, error) {
	if err := e.write(string(rune(lineTerminator))); err != nil {
		return StatusOK, false, err
	}
	return StatusOK, false, nil
}

// readToken reads one whitespace/line-delimited token from Input,
// discarding the remainder of the line when the caller signals a parse
// failure (spec.md §4.2 "READ_*": "discard input up to the next line
// terminator").
func (e *Engine) readToken() (string, error) {
	var sb strings.Builder
	for {
		b, err := e.Input.ReadByte()
		if err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if b == lineTerminator {
			if sb.Len() == 0 {
				continue
			}
			return sb.String(), nil
		}
		if b == ' ' || b == '\t' || b == '\r' {
			if sb.Len() == 0 {
				continue
			}
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}

// discardLine consumes Input up to and including the next line
// terminator, or EOF, whichever comes first.
func (e *Engine) discardLine() {
	for {
		b, err := e.Input.ReadByte()
		if err != nil || b == lineTerminator {
			return
		}
	}
}

func (e *Engine) execReadI32(ins instruction) (Status, bool, error) {
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	tok, err := e.readToken()
	if err != nil && tok == "" {
		return StatusOK, false, err
	}
	v, perr := strconv.ParseInt(strings.TrimSpace(tok), 10, 32)
	if perr != nil {
		e.discardLine()
		*dest = I32Value(0)
		return StatusOK, false, nil
	}
	*dest = I32Value(int32(v))
	return StatusOK, false, nil
}

func (e *Engine) execReadU32(ins instruction) (Status, bool, error) {
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	tok, err := e.readToken()
	if err != nil && tok == "" {
		return StatusOK, false, err
	}
	v, perr := strconv.ParseUint(strings.TrimSpace(tok), 10, 32)
	if perr != nil {
		e.discardLine()
		*dest = U32Value(0)
		return StatusOK, false, nil
	}
	*dest = U32Value(uint32(v))
	return StatusOK, false, nil
}

func (e *Engine) execReadF32(ins instruction) (Status, bool, error) {
	dest, st := e.operandStackVar(ins.operand)
	if st != StatusOK {
		return st, false, nil
	}
	tok, err := e.readToken()
	if err != nil && tok == "" {
		return StatusOK, false, err
	}
	v, perr := strconv.ParseFloat(strings.TrimSpace(tok), 32)
	if perr != nil {
		e.discardLine()
		*dest = F32Value(0)
		return StatusOK, false, nil
	}
	*dest = F32Value(float32(v))
	return StatusOK, false, nil
}

func (e *Engine) execReadStr(ins instruction) (Status, bool, error) {
	buf, st := e.bufferAt(uint32(ins.operand))
	if st != StatusOK {
		return st, false, nil
	}
	buf.Tag = BufU8
	buf.Clear()
	raw := buf.rawBytes()

	n := 0
	for n < maxStringLen {
		b, err := e.Input.ReadByte()
		if err != nil {
			break
		}
		if b == lineTerminator {
			break
		}
		raw[n] = b
		n++
	}
	raw[n] = 0
	return StatusOK, false, nil
}
