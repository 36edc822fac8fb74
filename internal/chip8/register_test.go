package chip8

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegister_Defaults(t *testing.T) {
	t.Parallel()

	reg := NewRegister()

	require.Equal(t, uint16(EntryPoint), reg.GetPC())
	require.Equal(t, uint16(0), reg.GetI())
	require.Empty(t, reg.Stack())
	for x := uint8(0); x < 0x10; x++ {
		require.Equal(t, uint8(0), reg.GetV(x))
	}
}

func TestRegister_V(t *testing.T) {
	t.Parallel()

	reg := NewRegister()

	for x := uint8(0); x < 0x10; x++ {
		reg.SetV(x, x*2)
	}
	for x := uint8(0); x < 0x10; x++ {
		require.Equal(t, x*2, reg.GetV(x))
	}
}

func TestRegister_PC(t *testing.T) {
	t.Parallel()

	reg := NewRegister()

	reg.IncrementPC()
	require.Equal(t, uint16(EntryPoint+2), reg.GetPC())

	reg.SetPC(0x0cfe)
	require.Equal(t, uint16(0x0cfe), reg.GetPC())
}

func TestRegister_Stack(t *testing.T) {
	t.Parallel()

	t.Run("lifo discipline", func(t *testing.T) {
		t.Parallel()

		reg := NewRegister()

		require.NoError(t, reg.Push(0x400))
		require.NoError(t, reg.Push(0x600))
		require.Equal(t, []uint16{0x400, 0x600}, reg.Stack())

		addr, err := reg.Pop()
		require.NoError(t, err)
		require.Equal(t, uint16(0x600), addr)

		addr, err = reg.Pop()
		require.NoError(t, err)
		require.Equal(t, uint16(0x400), addr)
	})

	t.Run("underflow", func(t *testing.T) {
		t.Parallel()

		reg := NewRegister()

		_, err := reg.Pop()
		require.ErrorIs(t, err, ErrStackUnderflow)
	})

	t.Run("overflow past 16 levels", func(t *testing.T) {
		t.Parallel()

		reg := NewRegister()

		for i := 0; i < StackMaxSize; i++ {
			require.NoError(t, reg.Push(uint16(0x200+i*2)))
		}
		require.ErrorIs(t, reg.Push(0x400), ErrStackOverflow)
	})
}
