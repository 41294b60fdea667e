package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stipplevm/stipple/pkg/vm"
)

func TestShlU32RejectsShiftCountOf32(t *testing.T) {
	program := prog(
		instr(vm.OpLoadIU32, 0, u32w(1)),
		instr(vm.OpLoadIU32, 1, u32w(32)),
		instr(vm.OpShlU32, 2, u32w(0), u32w(1)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 2; i++ {
		_, err := e.Step()
		require.NoError(t, err)
	}
	status, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusBounds, status)
}

func TestShlU32AcceptsShiftCountOf31(t *testing.T) {
	program := prog(
		instr(vm.OpLoadIU32, 0, u32w(1)),
		instr(vm.OpLoadIU32, 1, u32w(31)),
		instr(vm.OpShlU32, 2, u32w(0), u32w(1)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 2; i++ {
		_, err := e.Step()
		require.NoError(t, err)
	}
	status, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, vm.StatusOK, status)

	v, ok := e.CurrentFrame().StackVars[2].U32()
	require.True(t, ok)
	assert.EqualValues(t, uint32(1)<<31, v)
}

func TestNotU32(t *testing.T) {
	program := prog(
		instr(vm.OpLoadIU32, 0, u32w(0)),
		instr(vm.OpNotU32, 1, u32w(0)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 2; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	v, ok := e.CurrentFrame().StackVars[1].U32()
	require.True(t, ok)
	assert.EqualValues(t, ^uint32(0), v)
}
