package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stipplevm/stipple/pkg/vm"
)

// TestRetAtRootFrameUnderflows covers spec.md §8: RET with sp == 0 faults
// without mutating PC or SP.
func TestRetAtRootFrameUnderflows(t *testing.T) {
	e := vm.New()
	require.True(t, e.Load(instr(vm.OpRet, 0)).OK())

	status, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusStackUnderflow, status)
	assert.Equal(t, 0, e.SP())
	assert.EqualValues(t, 0, e.PC)
}

func TestJumpRejectsOutOfRangeTarget(t *testing.T) {
	program := instr(vm.OpJmp, 0, u32w(1000))
	e := vm.New()
	require.True(t, e.Load(program).OK())

	status, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusInvalidPC, status)
}

func TestConditionalJumpIsNoOpWhenFlagUnset(t *testing.T) {
	program := prog(
		instr(vm.OpJlt, 0, u32w(0)),
		instr(vm.OpHalt, 0),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())

	status, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusOK, status)
	assert.EqualValues(t, 8, e.PC, "PC advances past JLT when L is unset")
}
