package circuit

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qubsim/sim"
)

func TestParseQASMBell(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

h q[0];
cx q[0], q[1];
barrier q[0], q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];`

	c, err := ParseQASM(qasm)
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumQubits)
	assert.Equal(t, []sim.Gate{sim.H(0), sim.CNOT(0, 1)}, c.Operations())
	assert.Equal(t, "H(0) → CX(0, 1)", c.OpString())
}

func TestParseQASMParallelGates(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[4];
creg c[1];

h q[0];
h q[1];
cx q[0], q[1];
x q[2];
`

	c, err := ParseQASM(qasm)
	require.NoError(t, err)

	h0 := c.GateAt(0, 0)
	h1 := c.GateAt(0, 1)
	require.NotNil(t, h0)
	require.NotNil(t, h1)
	assert.Equal(t, sim.H(0), h0.Gate)
	assert.Equal(t, sim.H(1), h1.Gate)

	cx := c.GateAt(1, 0)
	require.NotNil(t, cx, "CX should be after H gates")
	assert.Equal(t, sim.CNOT(0, 1), cx.Gate)

	x := c.GateAt(0, 2)
	require.NotNil(t, x, "X on an untouched qubit packs into the first step")
	assert.Equal(t, 2, c.MaxSteps)
}

func TestParseQASMErrors(t *testing.T) {
	cases := map[string]string{
		"no qreg":        "h q[0];",
		"unknown gate":   "qreg q[2];\nrx(0.5) q[0];",
		"out of range":   "qreg q[2];\nx q[2];",
		"same operands":  "qreg q[2];\ncx q[1], q[1];",
		"two registers":  "qreg q[2];\nqreg q[3];",
		"bad register":   "qreg r[2];",
		"gate too early": "h q[0];\nqreg q[1];",
	}
	for name, src := range cases {
		_, err := ParseQASM(src)
		assert.Error(t, err, name)
	}

	_, err := ParseQASM("qreg q[2];\n\ncx q[1], q[1];")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.ErrorIs(t, err, sim.ErrInvalidQubit)
}

func TestRoundTripQASM(t *testing.T) {
	c := New(3)
	require.NoError(t, c.Append(sim.H(0)))
	require.NoError(t, c.Append(sim.CNOT(0, 2)))
	require.NoError(t, c.Append(sim.T(1)))
	require.NoError(t, c.Append(sim.CZ(2, 1)))

	qasm := c.ToQASM()
	assert.Contains(t, qasm, "qreg q[3];")
	assert.Contains(t, qasm, "cx q[0], q[2];")
	assert.Contains(t, qasm, "cz q[2], q[1];")
	assert.Contains(t, qasm, "measure q[2] -> c[2];")

	c2, err := ParseQASM(qasm)
	require.NoError(t, err)
	assert.Equal(t, c.NumQubits, c2.NumQubits)
	assert.Equal(t, c.Operations(), c2.Operations())
}

func TestParsedCircuitRuns(t *testing.T) {
	c, err := ParseQASM("qreg q[2];\nx q[1];\ncx q[1], q[0];")
	require.NoError(t, err)
	counts, err := sim.Run(context.Background(), c.NumQubits, c.Operations(), 64, sim.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, sim.Counts{"11": 64}, counts)
}

func TestParseQASMIndexOverflow(t *testing.T) {
	for _, line := range []string{
		"h q[99999999999999999999];",
		"cx q[99999999999999999999], q[0];",
		"cz q[0], q[99999999999999999999];",
	} {
		_, err := ParseQASM("qreg q[2];\n" + line)
		require.Error(t, err, line)
		assert.ErrorIs(t, err, strconv.ErrRange, line)
		assert.NotErrorIs(t, err, sim.ErrInvalidQubit, line)

		var pe *ParseError
		require.ErrorAs(t, err, &pe, line)
		assert.Equal(t, 2, pe.Line)
	}
}
