package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGate(t *testing.T) {
	g, err := NewGate(KindCNOT, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, KindCNOT, g.Kind())
	assert.Equal(t, 1, g.Target())
	c, ok := g.Control()
	assert.True(t, ok)
	assert.Equal(t, 0, c)
	assert.Equal(t, []int{0, 1}, g.Qubits())
	assert.Equal(t, "CX(0, 1)", g.String())

	g, err = NewGate(KindH, 2)
	require.NoError(t, err)
	_, ok = g.Control()
	assert.False(t, ok)
	assert.Equal(t, "H(2)", g.String())
}

func TestNewGateRejectsBadOperands(t *testing.T) {
	_, err := NewGate(KindCNOT, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidQubit)

	_, err = NewGate(KindX, -1)
	assert.ErrorIs(t, err, ErrInvalidQubit)

	_, err = NewGate(KindCZ, 1, -2)
	assert.ErrorIs(t, err, ErrInvalidQubit)

	_, err = NewGate(KindCNOT, 1)
	assert.Error(t, err)

	_, err = NewGate(KindH, 1, 0)
	assert.Error(t, err)

	_, err = NewGate(Kind(99), 0)
	assert.Error(t, err)
}

func TestGateValidate(t *testing.T) {
	assert.NoError(t, H(1).Validate(2))
	assert.ErrorIs(t, H(2).Validate(2), ErrInvalidQubit)
	assert.ErrorIs(t, CNOT(0, 0).Validate(2), ErrInvalidQubit)
	assert.ErrorIs(t, CNOT(3, 0).Validate(2), ErrInvalidQubit)
	assert.NoError(t, CZ(1, 0).Validate(2))
	assert.Error(t, Gate{}.Validate(2))
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"h": KindH, "X": KindX, "cx": KindCNOT, "CNOT": KindCNOT, " cz ": KindCZ, "t": KindT,
	} {
		got, err := ParseKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseKind("rx")
	assert.Error(t, err)
}
