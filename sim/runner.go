package sim

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Runner executes circuits. It holds configuration only, so one Runner may
// serve concurrent runs; every run owns its own StateVector.
type Runner struct {
	opts options
}

// NewRunner returns a Runner configured by opts.
func NewRunner(opts ...Option) *Runner {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Runner{opts: o}
}

var defaultRunner = NewRunner()

// Run executes ops on numQubits qubits with the default Runner.
func Run(ctx context.Context, numQubits int, ops []Gate, shots int, runOpts ...RunOption) (Counts, error) {
	return defaultRunner.Run(ctx, numQubits, ops, shots, runOpts...)
}

// MaxQubits returns the largest register this Runner accepts.
func (r *Runner) MaxQubits() int { return r.opts.maxQubits }

// Validate checks the register size, every gate and the shot count without
// allocating anything.
func (r *Runner) Validate(numQubits int, ops []Gate, shots int) error {
	if err := r.validateCircuit(numQubits, ops); err != nil {
		return err
	}
	return checkShots(shots)
}

func (r *Runner) validateCircuit(numQubits int, ops []Gate) error {
	if err := checkSize(numQubits, r.opts.maxQubits); err != nil {
		return err
	}
	for i, g := range ops {
		if err := g.Validate(numQubits); err != nil {
			var qe *QubitError
			if errors.As(err, &qe) {
				located := *qe
				located.Position = i
				return &located
			}
			return errors.Wrapf(err, "operation %d", i)
		}
	}
	return nil
}

// Run validates the circuit, applies ops in order to |0…0⟩ and returns the
// counts of shots measurements. Either full Counts or an error is returned.
func (r *Runner) Run(
	ctx context.Context,
	numQubits int,
	ops []Gate,
	shots int,
	runOpts ...RunOption,
) (Counts, error) {
	counts, _, err := r.RunState(ctx, numQubits, ops, shots, runOpts...)
	return counts, err
}

// RunState is Run that also returns the final state the shots were drawn
// from. The circuit is simulated once.
func (r *Runner) RunState(
	ctx context.Context,
	numQubits int,
	ops []Gate,
	shots int,
	runOpts ...RunOption,
) (counts Counts, state *StateVector, err error) {
	var ro runOptions
	for _, fn := range runOpts {
		fn(&ro)
	}
	if !ro.hasSeed {
		ro.seed = rand.Uint64()
	}

	logger := r.opts.logger.With(
		zap.Int("qubits", numQubits),
		zap.Int("gates", len(ops)),
		zap.Int("shots", shots),
		zap.Uint64("seed", ro.seed),
	)
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			counts, state = nil, nil
			err = simulationFailure("run", errors.Errorf("%v", rec))
		}
		r.observe(start, err)
		if err != nil {
			logger.Warn("run failed", zap.Error(err))
			return
		}
		logger.Debug("run completed",
			zap.Int("outcomes", len(counts)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	if err := r.Validate(numQubits, ops, shots); err != nil {
		return nil, nil, err
	}
	logger.Debug("run started")

	final, err := r.simulate(ctx, numQubits, ops)
	if err != nil {
		return nil, nil, err
	}

	sampler := Sampler{
		Workers:   r.opts.workers,
		BlockSize: r.opts.sampleBlockSize,
		MaxDrift:  r.opts.maxDrift,
	}
	outcomes, err := sampler.SampleSeeded(ctx, final, shots, ro.seed)
	if err != nil {
		return nil, nil, err
	}
	if r.opts.metrics != nil {
		r.opts.metrics.shotsSampled.Add(float64(shots))
	}
	return Aggregate(outcomes, numQubits), final, nil
}

// Simulate validates the circuit and returns the state after applying ops,
// without measuring.
func (r *Runner) Simulate(ctx context.Context, numQubits int, ops []Gate) (*StateVector, error) {
	if err := r.validateCircuit(numQubits, ops); err != nil {
		return nil, err
	}
	return r.simulate(ctx, numQubits, ops)
}

func (r *Runner) simulate(ctx context.Context, numQubits int, ops []Gate) (*StateVector, error) {
	state, err := r.newState(numQubits)
	if err != nil {
		return nil, err
	}
	for i, g := range ops {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "before operation %d", i)
		}
		if err := state.Apply(g); err != nil {
			return nil, errors.Wrapf(err, "apply operation %d", i)
		}
		if r.opts.metrics != nil {
			r.opts.metrics.gatesApplied.WithLabelValues(g.kind.String()).Inc()
		}
	}
	return state, nil
}

// newState turns allocation panics into a SimulationFailure.
func (r *Runner) newState(numQubits int) (state *StateVector, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			state = nil
			err = simulationFailure("allocate", errors.Errorf("%d qubits: %v", numQubits, rec))
		}
	}()
	state, err = NewStateVector(numQubits,
		WithStateMaxQubits(r.opts.maxQubits),
		WithStateWorkers(r.opts.workers),
		WithStateParallelThreshold(r.opts.parallelThreshold),
	)
	if err != nil {
		return nil, err
	}
	if r.opts.metrics != nil {
		r.opts.metrics.stateAllocations.Inc()
	}
	return state, nil
}

func (r *Runner) observe(start time.Time, err error) {
	m := r.opts.metrics
	if m == nil {
		return
	}
	switch {
	case err == nil:
		m.runs.WithLabelValues(resultSuccess).Inc()
		m.runDuration.Observe(time.Since(start).Seconds())
	case errors.Is(err, ErrInvalidSize), errors.Is(err, ErrInvalidQubit), errors.Is(err, ErrInvalidShotCount):
		m.runs.WithLabelValues(resultInvalid).Inc()
	default:
		m.runs.WithLabelValues(resultFailure).Inc()
	}
}
