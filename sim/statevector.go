package sim

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxQubits bounds allocations to 2^24 amplitudes (256 MiB).
	DefaultMaxQubits = 24
	// MaxQubitsLimit is the hard ceiling no option can raise.
	MaxQubitsLimit = 30
	// DefaultParallelThreshold is the qubit count from which gate kernels
	// fan out across workers.
	DefaultParallelThreshold = 14
)

// StateVector holds the 2^n complex amplitudes of an n-qubit register.
// Bit q of an amplitude index is the value of qubit q.
type StateVector struct {
	amps              []complex128
	numQubits         int
	workers           int
	parallelThreshold int
}

type stateOptions struct {
	maxQubits         int
	workers           int
	parallelThreshold int
}

// StateOption configures NewStateVector.
type StateOption func(*stateOptions)

// WithStateMaxQubits overrides DefaultMaxQubits, capped at MaxQubitsLimit.
func WithStateMaxQubits(n int) StateOption {
	return func(o *stateOptions) { o.maxQubits = n }
}

// WithStateWorkers sets how many goroutines a single gate may use.
func WithStateWorkers(n int) StateOption {
	return func(o *stateOptions) { o.workers = n }
}

// WithStateParallelThreshold sets the qubit count from which gates run in
// parallel.
func WithStateParallelThreshold(n int) StateOption {
	return func(o *stateOptions) { o.parallelThreshold = n }
}

func resolveStateOptions(opts []StateOption) stateOptions {
	o := stateOptions{
		maxQubits:         DefaultMaxQubits,
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.maxQubits <= 0 {
		o.maxQubits = DefaultMaxQubits
	}
	o.maxQubits = min(o.maxQubits, MaxQubitsLimit)
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

func checkSize(numQubits, maxQubits int) error {
	if numQubits < 1 || numQubits > maxQubits {
		return &SizeError{NumQubits: numQubits, Max: maxQubits}
	}
	return nil
}

// NewStateVector allocates an n-qubit register in |0…0⟩.
func NewStateVector(numQubits int, opts ...StateOption) (*StateVector, error) {
	o := resolveStateOptions(opts)
	if err := checkSize(numQubits, o.maxQubits); err != nil {
		return nil, err
	}
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{
		amps:              amps,
		numQubits:         numQubits,
		workers:           o.workers,
		parallelThreshold: o.parallelThreshold,
	}, nil
}

func (s *StateVector) NumQubits() int { return s.numQubits }
func (s *StateVector) Len() int       { return len(s.amps) }

// Amplitude returns the amplitude of basis state i.
func (s *StateVector) Amplitude(i int) complex128 { return s.amps[i] }

// Amplitudes returns a copy of the amplitude buffer.
func (s *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amps))
	copy(out, s.amps)
	return out
}

func (s *StateVector) Clone() *StateVector {
	cpy := *s
	cpy.amps = s.Amplitudes()
	return &cpy
}

// Probabilities returns |amplitude|^2 for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = abs2(a)
	}
	return probs
}

// Norm returns the total probability mass, 1 for a valid state.
func (s *StateVector) Norm() float64 {
	var total float64
	for _, a := range s.amps {
		total += abs2(a)
	}
	return total
}

func abs2(a complex128) float64 {
	re, im := real(a), imag(a)
	return re*re + im*im
}

// ApplySingleQubit applies the 2×2 unitary m to qubit q.
func (s *StateVector) ApplySingleQubit(m Matrix, q int) error {
	if err := checkQubit("", q, s.numQubits); err != nil {
		return err
	}
	s.applyPairs(m, singlePairs(s.numQubits, q))
	return nil
}

// ApplyControlled applies m to target on the subspace where control is 1.
func (s *StateVector) ApplyControlled(m Matrix, control, target int) error {
	if err := checkQubit("", control, s.numQubits); err != nil {
		return err
	}
	if err := checkQubit("", target, s.numQubits); err != nil {
		return err
	}
	if control == target {
		return &QubitError{Position: -1, Qubit: control, NumQubits: s.numQubits, Reason: "is both control and target"}
	}
	s.applyPairs(m, controlledPairs(s.numQubits, control, target))
	return nil
}

// Apply applies one gate.
func (s *StateVector) Apply(g Gate) error {
	if err := g.Validate(s.numQubits); err != nil {
		return err
	}
	if c, ok := g.Control(); ok {
		return s.ApplyControlled(g.kind.Matrix(), c, g.target)
	}
	return s.ApplySingleQubit(g.kind.Matrix(), g.target)
}

// applyPairs runs the kernel over every pair of p. Above the parallel
// threshold the pair range is cut into contiguous chunks, one per worker;
// Wait is the barrier before the next gate.
func (s *StateVector) applyPairs(m Matrix, p pairs) {
	workers := uint64(s.workers)
	if s.numQubits < s.parallelThreshold || workers <= 1 || p.count < workers {
		kernel(s.amps, m, p, 0, p.count)
		return
	}

	chunk := (p.count + workers - 1) / workers
	var g errgroup.Group
	for from := uint64(0); from < p.count; from += chunk {
		to := min(from+chunk, p.count)
		g.Go(func() error {
			kernel(s.amps, m, p, from, to)
			return nil
		})
	}
	_ = g.Wait()
}

func kernel(amps []complex128, m Matrix, p pairs, from, to uint64) {
	for k := from; k < to; k++ {
		i0, i1 := p.at(k)
		a0, a1 := amps[i0], amps[i1]
		amps[i0] = m[0][0]*a0 + m[0][1]*a1
		amps[i1] = m[1][0]*a0 + m[1][1]*a1
	}
}

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal P(0)/P(1) of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.numQubits)
	for i, a := range s.amps {
		p := abs2(a)
		for q := 0; q < s.numQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}
