package vm

import "fmt"

// SlotDump names one non-Void value slot in the current frame, for
// DumpState's rendering.
type SlotDump struct {
	Kind  string // "stack_var", "local", or "ret_val"
	Index int    // meaningless for ret_val
	Value Value
}

// DumpState is a pull-based snapshot of diagnostically relevant engine
// state (spec.md §7 "dump_state emits PC, SP, flags, last_error, and the
// non-Void slots of the current frame"). The engine itself never
// produces this unprompted — it is read by a host (the CLI driver, a
// test) on demand.
//
// Grounded on oisee-psil/pkg/micro/vm.go's StackDump (a string-builder
// walk over live state) and original_source/src/vm.c's vm_get_error_string,
// generalized to a structured value a renderer can format as it likes.
type DumpState struct {
	PC         uint32
	SP         int
	Z, L, G    bool
	LastError  Status
	ProgramLen uint32
	Slots      []SlotDump
}

// Dump captures the engine's current diagnostic snapshot.
func (e *Engine) Dump() DumpState {
	d := DumpState{
		PC:         e.PC,
		SP:         e.sp,
		Z:          e.Z,
		L:          e.L,
		G:          e.G,
		LastError:  e.LastError,
		ProgramLen: e.programLen,
	}
	frame := e.CurrentFrame()
	for i, v := range frame.StackVars {
		if v.Tag != TagVoid {
			d.Slots = append(d.Slots, SlotDump{Kind: "stack_var", Index: i, Value: v})
		}
	}
	for i, v := range frame.Locals {
		if v.Tag != TagVoid {
			d.Slots = append(d.Slots, SlotDump{Kind: "local", Index: i, Value: v})
		}
	}
	if frame.RetVal.Tag != TagVoid {
		d.Slots = append(d.Slots, SlotDump{Kind: "ret_val", Value: frame.RetVal})
	}
	return d
}

// String renders the snapshot as a single-line summary, used when no
// richer table renderer (the CLI's tablewriter-backed dump command) is
// available — e.g. in test failure messages.
func (d DumpState) String() string {
	s := fmt.Sprintf("pc=%04X sp=%d z=%v l=%v g=%v err=%s", d.PC, d.SP, d.Z, d.L, d.G, d.LastError)
	for _, slot := range d.Slots {
		if slot.Kind == "ret_val" {
			s += fmt.Sprintf(" ret_val=%s", slot.Value)
		} else {
			s += fmt.Sprintf(" %s[%d]=%s", slot.Kind, slot.Index, slot.Value)
		}
	}
	return s
}
