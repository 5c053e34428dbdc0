package sim

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func assertAmplitudesEqual(t *testing.T, want, got []complex128) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, 0, cmplx.Abs(want[i]-got[i]), tolerance, "amplitude %d: want %v, got %v", i, want[i], got[i])
	}
}

// randomState returns a normalised state with pseudo-random amplitudes.
func randomState(t *testing.T, numQubits int, seed uint64) *StateVector {
	t.Helper()
	s, err := NewStateVector(numQubits)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(seed, seed))
	var norm float64
	for i := range s.amps {
		s.amps[i] = complex(rng.NormFloat64(), rng.NormFloat64())
		norm += abs2(s.amps[i])
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range s.amps {
		s.amps[i] *= scale
	}
	return s
}

func TestNewStateVector(t *testing.T) {
	s, err := NewStateVector(3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.NumQubits())
	assert.Equal(t, 8, s.Len())
	assert.Equal(t, complex128(1), s.Amplitude(0))
	for i := 1; i < s.Len(); i++ {
		assert.Equal(t, complex128(0), s.Amplitude(i))
	}
	assert.InDelta(t, 1, s.Norm(), tolerance)
}

func TestNewStateVectorInvalidSize(t *testing.T) {
	for _, n := range []int{0, -1, DefaultMaxQubits + 1} {
		_, err := NewStateVector(n)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSize)
		var se *SizeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, n, se.NumQubits)
	}

	_, err := NewStateVector(MaxQubitsLimit+1, WithStateMaxQubits(MaxQubitsLimit+5))
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestHadamardOnZero(t *testing.T) {
	s, err := NewStateVector(1)
	require.NoError(t, err)
	require.NoError(t, s.Apply(H(0)))
	r := 1 / math.Sqrt2
	assertAmplitudesEqual(t, []complex128{complex(r, 0), complex(r, 0)}, s.Amplitudes())
}

func TestXTargetsLittleEndianBit(t *testing.T) {
	s, err := NewStateVector(3)
	require.NoError(t, err)
	require.NoError(t, s.Apply(X(1)))
	// qubit 1 set -> index 0b010
	assert.Equal(t, complex128(1), s.Amplitude(2))
	assert.InDelta(t, 1, s.QubitProbabilities()[1].Prob1, tolerance)
	assert.InDelta(t, 1, s.QubitProbabilities()[0].Prob0, tolerance)
}

func TestSelfInverseGates(t *testing.T) {
	for _, mk := range []func(int) Gate{H, X, Y, Z} {
		for q := 0; q < 4; q++ {
			s := randomState(t, 4, uint64(q+1))
			before := s.Amplitudes()
			g := mk(q)
			require.NoError(t, s.Apply(g))
			require.NoError(t, s.Apply(g))
			assertAmplitudesEqual(t, before, s.Amplitudes())
		}
	}
}

func TestXTwiceIsIdentityOnBasisStates(t *testing.T) {
	s, err := NewStateVector(2)
	require.NoError(t, err)
	require.NoError(t, s.Apply(X(0)))
	assert.Equal(t, complex128(1), s.Amplitude(1))
	require.NoError(t, s.Apply(X(0)))
	assert.Equal(t, complex128(1), s.Amplitude(0))
}

func TestCNOTOnlyActsWhenControlSet(t *testing.T) {
	s, err := NewStateVector(2)
	require.NoError(t, err)
	require.NoError(t, s.Apply(CNOT(0, 1)))
	assert.Equal(t, complex128(1), s.Amplitude(0), "control clear leaves |00> alone")

	require.NoError(t, s.Apply(X(0)))
	require.NoError(t, s.Apply(CNOT(0, 1)))
	assert.Equal(t, complex128(1), s.Amplitude(3), "|01> -> |11>")
}

func TestCNOTWithControlAboveTarget(t *testing.T) {
	s, err := NewStateVector(3)
	require.NoError(t, err)
	require.NoError(t, s.Apply(X(2)))
	require.NoError(t, s.Apply(CNOT(2, 0)))
	assert.Equal(t, complex128(1), s.Amplitude(0b101))
}

func TestBellStateAmplitudes(t *testing.T) {
	s, err := NewStateVector(2)
	require.NoError(t, err)
	require.NoError(t, s.Apply(H(0)))
	require.NoError(t, s.Apply(CNOT(0, 1)))
	r := complex(1/math.Sqrt2, 0)
	assertAmplitudesEqual(t, []complex128{r, 0, 0, r}, s.Amplitudes())
	assert.Equal(t, complex128(0), s.Amplitude(1))
	assert.Equal(t, complex128(0), s.Amplitude(2))
}

func TestCZPhasesOnlyOneOne(t *testing.T) {
	s, err := NewStateVector(2)
	require.NoError(t, err)
	require.NoError(t, s.Apply(H(0)))
	require.NoError(t, s.Apply(H(1)))
	require.NoError(t, s.Apply(CZ(0, 1)))
	assertAmplitudesEqual(t, []complex128{0.5, 0.5, 0.5, -0.5}, s.Amplitudes())
}

func TestFourTEqualsTwoS(t *testing.T) {
	a := randomState(t, 2, 7)
	b := a.Clone()
	for i := 0; i < 4; i++ {
		require.NoError(t, a.Apply(T(1)))
	}
	require.NoError(t, b.Apply(S(1)))
	require.NoError(t, b.Apply(S(1)))
	assertAmplitudesEqual(t, b.Amplitudes(), a.Amplitudes())
}

func TestApplyControlledRejectsBadOperands(t *testing.T) {
	s, err := NewStateVector(2)
	require.NoError(t, err)
	before := s.Amplitudes()

	err = s.ApplyControlled(MatrixX, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidQubit)
	err = s.ApplyControlled(MatrixX, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidQubit)
	err = s.ApplyControlled(MatrixX, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidQubit)
	err = s.ApplySingleQubit(MatrixH, 5)
	assert.ErrorIs(t, err, ErrInvalidQubit)

	assert.Equal(t, before, s.Amplitudes())
}

func TestProbabilityConservedOverFiftyGates(t *testing.T) {
	s, err := NewStateVector(5)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(42, 0))
	kinds := []Kind{KindH, KindX, KindY, KindZ, KindS, KindT, KindCNOT, KindCZ}
	for i := 0; i < 50; i++ {
		k := kinds[rng.IntN(len(kinds))]
		target := rng.IntN(5)
		var g Gate
		if k.Controlled() {
			control := (target + 1 + rng.IntN(4)) % 5
			g, err = NewGate(k, target, control)
		} else {
			g, err = NewGate(k, target)
		}
		require.NoError(t, err)
		require.NoError(t, s.Apply(g))
		assert.InDelta(t, 1, s.Norm(), tolerance, "after gate %d (%s)", i, g)
	}
}

func TestParallelKernelMatchesSequential(t *testing.T) {
	const n = 10
	seq := randomState(t, n, 99)
	par := seq.Clone()
	seq.workers = 1
	par.workers = 4
	par.parallelThreshold = 1

	ops := []Gate{H(0), CNOT(0, 9), X(5), CZ(3, 7), H(9), T(4), CNOT(8, 2), Y(1)}
	for _, g := range ops {
		require.NoError(t, seq.Apply(g))
		require.NoError(t, par.Apply(g))
	}
	assert.Equal(t, seq.Amplitudes(), par.Amplitudes())
}

func TestPairsVisitEachIndexOnce(t *testing.T) {
	const n = 5
	for q := 0; q < n; q++ {
		seen := make(map[uint64]int)
		p := singlePairs(n, q)
		require.Equal(t, uint64(1)<<(n-1), p.count)
		for k := uint64(0); k < p.count; k++ {
			i0, i1 := p.at(k)
			assert.Zero(t, i0&(1<<q))
			assert.Equal(t, i0|1<<q, i1)
			seen[i0]++
			seen[i1]++
		}
		assert.Len(t, seen, 1<<n)
		for idx, c := range seen {
			assert.Equal(t, 1, c, "index %d", idx)
		}
	}

	for c := 0; c < n; c++ {
		for tq := 0; tq < n; tq++ {
			if c == tq {
				continue
			}
			p := controlledPairs(n, c, tq)
			seen := make(map[uint64]bool)
			for k := uint64(0); k < p.count; k++ {
				i0, i1 := p.at(k)
				assert.NotZero(t, i0&(1<<c))
				assert.Zero(t, i0&(1<<tq))
				assert.False(t, seen[i0])
				seen[i0] = true
				seen[i1] = true
			}
			assert.Len(t, seen, 1<<(n-1))
		}
	}
}
