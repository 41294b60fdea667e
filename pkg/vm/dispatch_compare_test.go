package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stipplevm/stipple/pkg/vm"
)

func TestCmpF32SetsZAndLForNearValuesWithinEpsilon(t *testing.T) {
	program := prog(
		instr(vm.OpLoadIF32, 0, f32w(1.0)),
		instr(vm.OpLoadIF32, 1, f32w(1.0+5e-7)),
		instr(vm.OpCmpF32, 0, u32w(1)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 3; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	assert.True(t, e.Z)
	assert.True(t, e.L)
	assert.False(t, e.G)
}

func TestCmpF32DistinguishesValuesBeyondEpsilon(t *testing.T) {
	program := prog(
		instr(vm.OpLoadIF32, 0, f32w(1.0)),
		instr(vm.OpLoadIF32, 1, f32w(2.0)),
		instr(vm.OpCmpF32, 0, u32w(1)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 3; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	assert.False(t, e.Z)
	assert.True(t, e.L)
	assert.False(t, e.G)
}

func TestCmpI32SetsGWhenFirstOperandGreater(t *testing.T) {
	program := prog(
		instr(vm.OpLoadII32, 0, i32w(9)),
		instr(vm.OpLoadII32, 1, i32w(4)),
		instr(vm.OpCmpI32, 0, u32w(1)),
	)
	e := vm.New()
	require.True(t, e.Load(program).OK())
	for i := 0; i < 3; i++ {
		status, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, vm.StatusOK, status)
	}
	assert.False(t, e.Z)
	assert.False(t, e.L)
	assert.True(t, e.G)
}
