package vm

import (
	"bufio"
	"io"
	"os"

	"github.com/google/uuid"
)

// MaxProgramSize is the program-memory capacity in bytes (spec.md §3).
const MaxProgramSize = 65536

// Engine is the complete, self-contained state of one Stipple VM. It owns
// every slot it touches directly — there is no heap, no aliasing across
// slots, and no process-wide statics, so multiple Engines are always fully
// independent (spec.md §3 "Lifecycle / ownership").
//
// Grounded on oisee-psil/pkg/micro/vm.go's VM struct (same shape: program
// bytes + PC, a stack area, flags, an accumulator/error register, and an
// io.Writer for output) and on original_source/src/stipple.h's global
// arrays, collapsed into one owned value per spec.md §9's "Ambient mutable
// state" redesign flag.
type Engine struct {
	// ID uniquely identifies this engine instance for diagnostics. It has
	// no bearing on execution semantics.
	ID uuid.UUID

	program    [MaxProgramSize]byte
	programLen uint32
	PC         uint32

	frames [MaxFrames]Frame
	sp     int // current-frame index, 0..31

	Globals [GlobalsCount]Value
	Buffers [BuffersCount]Buffer

	// Flags: at most one of L/G is ever set alongside Z is possible only
	// for CMP (spec.md §8).
	Z, L, G bool

	LastError Status

	// Output/Input are the two host I/O primitives (spec.md §6:
	// write_bytes/read_byte). READ_I32/U32/F32 consume one
	// whitespace-delimited token and READ_STR one line; a line's residue
	// past the parsed token is discarded per
	// spec.md §4.2 on parse failure.
	Output io.Writer
	Input  *bufio.Reader

	// Trace, when non-nil, receives one line per executed instruction —
	// the engine's only observable-by-host side channel besides
	// Output/Input, and it never feeds back into execution (determinism
	// is preserved: tracing is pure observation).
	Trace io.Writer
}

// New constructs a fresh Engine with Void globals/buffers, zeroed flags,
// and PC/SP at 0 (spec.md §3 "Lifecycle").
func New() *Engine {
	e := &Engine{
		ID:     uuid.New(),
		Output: os.Stdout,
		Input:  bufio.NewReader(os.Stdin),
	}
	e.initState()
	return e
}

func (e *Engine) initState() {
	for i := range e.frames {
		e.frames[i] = newFrame()
	}
	for i := range e.Globals {
		e.Globals[i] = VoidValue()
	}
	for i := range e.Buffers {
		e.Buffers[i] = Buffer{Tag: BufVoid}
	}
	e.sp = 0
	e.PC = 0
	e.Z, e.L, e.G = false, false, false
	e.LastError = StatusOK
}

// Reset reverts every slot to Void, clears flags and error state, and
// sets PC/SP to 0 (spec.md §3). Program memory and I/O bindings are
// unaffected — Reset prepares the engine to re-run the loaded program.
func (e *Engine) Reset() {
	e.initState()
}

// Load installs program as the engine's program memory. It must be no
// larger than MaxProgramSize; SPEC_FULL.md §4 additionally allows a
// zero-length program to load successfully (its first Step then fails
// with InvalidPC, since an empty program has no HALT to reach the
// natural termination edge with).
func (e *Engine) Load(program []byte) Status {
	if len(program) > MaxProgramSize {
		e.LastError = StatusProgramTooLarge
		return StatusProgramTooLarge
	}
	copy(e.program[:], program)
	e.programLen = uint32(len(program))
	e.PC = 0
	e.LastError = StatusOK
	return StatusOK
}

// ProgramLen returns the loaded program length in bytes.
func (e *Engine) ProgramLen() uint32 { return e.programLen }

// SP returns the current frame index (0..31).
func (e *Engine) SP() int { return e.sp }

// CurrentFrame returns the active frame.
func (e *Engine) CurrentFrame() *Frame { return &e.frames[e.sp] }

// frame returns frame idx without bounds checking; a caller must validate
// idx < MaxFrames first.
func (e *Engine) frame(idx uint16) *Frame { return &e.frames[idx] }

// Step decodes and dispatches exactly one instruction. The returned error
// is non-nil only for a host-I/O failure (e.g. a backing reader returning
// an error to READ_*); every bytecode-level fault is communicated through
// the returned Status, never a panic (spec.md §7 "the engine never panics
// or aborts; bad bytecode is an ordinary error").
//
// Grounded on original_source/src/vm.c's vm_step: decode header, validate
// every operand before any mutation, perform the effect, advance PC unless
// the opcode explicitly set it, and always latch last_error.
func (e *Engine) Step() (Status, error) {
	ins, st := decode(e.program[:e.programLen], e.PC)
	if st != StatusOK {
		e.LastError = st
		return st, nil
	}

	if e.Trace != nil {
		traceLine(e.Trace, e.PC, ins)
	}

	status, pcSet, err := e.dispatch(ins)
	e.LastError = status
	if err != nil {
		return status, err
	}
	if status == StatusOK && !pcSet {
		e.PC += uint32(ins.size)
	}
	return status, nil
}

// Run steps until the engine halts or faults. Halt is normal termination
// and is folded to StatusOK at this boundary; any other non-OK status
// propagates out unchanged (spec.md §4.3).
func (e *Engine) Run() (Status, error) {
	for {
		status, err := e.Step()
		if err != nil {
			return status, err
		}
		if status == StatusHalt {
			return StatusOK, nil
		}
		if status != StatusOK {
			return status, nil
		}
	}
}

func traceLine(w io.Writer, pc uint32, ins instruction) {
	// Best-effort diagnostics; a write failure here must never affect
	// execution, so errors are intentionally discarded.
	_, _ = io.WriteString(w, traceString(pc, ins))
}
