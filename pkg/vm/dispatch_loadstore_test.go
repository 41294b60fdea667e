package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stipplevm/stipple/pkg/vm"
)

func TestGlobalsPersistAcrossLoadStore(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(123)),
		instr(vm.OpStoreG, 0, u32w(7)),
		instr(vm.OpLoadG, 1, u32w(7)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 3; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}

	v, ok := e.Globals[7].I32()
	require.True(t, ok)
	assert.EqualValues(t, 123, v)

	got, ok := e.CurrentFrame().StackVars[1].I32()
	require.True(t, ok)
	assert.EqualValues(t, 123, got)
}

func TestStoreGRejectsOutOfRangeIndex(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(1)),
		instr(vm.OpStoreG, 0, u32w(256)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	status, err := e.Step()
	require.NoError(t, err)
	require.Equal(t, vm.StatusOK, status)

	status, err = e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusInvalidGlobalIdx, status)
}

func TestLocalsResetAcrossCall(t *testing.T) {
	const callSize = 8
	addAddr := uint32(2*callSize + 4) // two CALLs and a HALT in the caller

	caller := prog(
		instr(vm.OpCall, 0, u32w(addAddr)),
		instr(vm.OpCall, 0, u32w(addAddr)),
		instr(vm.OpHalt, 0),
	)
	callee := prog(
		instr(vm.OpLoadL, 2, u32w(0)),  // locals reset to Void on entry
		instr(vm.OpStoreG, 2, u32w(9)), // surface the result past the RET below
		instr(vm.OpLoadII32, 0, i32w(55)),
		instr(vm.OpStoreL, 0, u32w(0)), // dirty frame 1's local 0 before the second CALL
		instr(vm.OpRet, 0),
	)
	program := append(caller, callee...)

	e := vm.New()
	require.True(t, e.Load(program).OK())

	status, err := e.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusOK, status)

	assert.Equal(t, vm.TagVoid, e.Globals[9].Tag, "the second CALL must reset the local the first call set to 55")
}
