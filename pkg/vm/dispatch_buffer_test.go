package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stipplevm/stipple/pkg/vm"
)

func TestBufReadFromVoidBufferIsTypeMismatch(t *testing.T) {
	program := instr(vm.OpBufRead, 0, u32w(0), u32w(0))
	e := vm.New()
	require.True(t, e.Load(program).OK())

	status, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusTypeMismatch, status)
}

func TestBufWriteInfersTagFromFirstI32Write(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(-7)),
		instr(vm.OpBufWrite, 0, u32w(0), u32w(0)),
		instr(vm.OpBufRead, 1, u32w(0), u32w(0)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 3; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	assert.Equal(t, vm.BufI32, e.Buffers[0].Tag)
	v, ok := e.CurrentFrame().StackVars[1].I32()
	require.True(t, ok)
	assert.EqualValues(t, -7, v)
}

// TestBufWritePositionAtCapacityIsRejected covers the I32 buffer's 64-element
// capacity: position 63 succeeds, position 64 is out of range.
func TestBufWritePositionAtCapacityIsRejected(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(1)),
		instr(vm.OpBufWrite, 0, u32w(0), u32w(63)),
		instr(vm.OpLoadII32, 1, i32w(2)),
		instr(vm.OpBufWrite, 1, u32w(0), u32w(64)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 3; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	status, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusInvalidBufferPos, status)
}

// TestBufWriteOutOfRangePositionLeavesVoidBufferUntouched covers the
// precondition-before-effect contract (spec.md §4.2, §5): a BUF_WRITE that
// fails its bounds check must not leave the buffer's tag inferred from the
// rejected write.
func TestBufWriteOutOfRangePositionLeavesVoidBufferUntouched(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(1)),
		instr(vm.OpBufWrite, 0, u32w(0), u32w(64)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())

	status, err := e.Step()
	require.NoError(t, err)
	require.Equal(t, vm.StatusOK, status)

	status, err = e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusInvalidBufferPos, status)
	assert.Equal(t, vm.BufVoid, e.Buffers[0].Tag)
}

func TestBufLenReportsCapacity(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(1)),
		instr(vm.OpBufWrite, 0, u32w(0), u32w(0)),
		instr(vm.OpBufLen, 1, u32w(0)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 3; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	v, ok := e.CurrentFrame().StackVars[1].U32()
	require.True(t, ok)
	assert.EqualValues(t, 64, v)
}

func TestBufClearResetsStorageButKeepsTag(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(9)),
		instr(vm.OpBufWrite, 0, u32w(0), u32w(0)),
		instr(vm.OpBufClear, byte(0)),
		instr(vm.OpBufRead, 1, u32w(0), u32w(0)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 4; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	assert.Equal(t, vm.BufI32, e.Buffers[0].Tag)
	v, ok := e.CurrentFrame().StackVars[1].I32()
	require.True(t, ok)
	assert.EqualValues(t, 0, v)
}
