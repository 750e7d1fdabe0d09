package lua

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestNewStateStackIsEmpty(t *testing.T) {
	s := NewState()
	defer s.Close()
	assert.Zero(t, s.L.GetTop())

	for _, lib := range []string{"string", "table", "math"} {
		assert.Equal(t, lua.LTTable, s.L.GetGlobal(lib).Type(), lib)
	}
	assert.Equal(t, lua.LTFunction, s.L.GetGlobal("pairs").Type())
}

func TestExecReturnsValues(t *testing.T) {
	s := NewState()
	defer s.Close()

	vals, err := s.Exec("return 1 + 1, 'x'")
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.Equal(t, lua.LNumber(2), vals[0])
	assert.Equal(t, lua.LString("x"), vals[1])
	assert.Zero(t, s.L.GetTop(), "the stack is left clean")

	vals, err = s.Exec("x = 3")
	require.NoError(t, err)
	assert.Empty(t, vals)

	vals, err = s.Exec("return x")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(3), vals[0], "globals persist between chunks")
}

func TestExecErrors(t *testing.T) {
	s := NewState()
	defer s.Close()

	_, err := s.Exec("return (")
	require.Error(t, err)

	_, err = s.Exec("error('boom')")
	require.ErrorContains(t, err, "boom")
	assert.Zero(t, s.L.GetTop())
}

func TestPrintIsCaptured(t *testing.T) {
	s := NewState()
	defer s.Close()

	_, err := s.Exec("print('a', 1, true) print()")
	require.NoError(t, err)
	assert.Equal(t, "a\t1\ttrue\n\n", s.Output())
	assert.Empty(t, s.Output(), "Output drains the buffer")
}

func TestSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		t.Run(name, func(t *testing.T) {
			vals, err := s.Exec("return " + name)
			require.NoError(t, err)
			assert.Equal(t, lua.LNil, vals[0])
		})
	}

	vals, err := s.Exec("return string.upper('a'), math.max(1, 2), table.concat({'x', 'y'}, '-')")
	require.NoError(t, err)
	assert.Equal(t, []lua.LValue{lua.LString("A"), lua.LNumber(2), lua.LString("x-y")}, vals)
}

func TestTimeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()

	_, err := s.Exec("while true do end")
	require.ErrorIs(t, err, ErrTimeout)

	vals, err := s.Exec("return 1")
	require.NoError(t, err, "the state is usable after a timeout")
	assert.Equal(t, lua.LNumber(1), vals[0])
}

func TestClosedState(t *testing.T) {
	s := NewState()
	s.Close()
	s.Close()
	_, err := s.Exec("return 1")
	require.ErrorIs(t, err, ErrStateClosed)
}
