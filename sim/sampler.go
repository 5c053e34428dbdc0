package sim

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxDrift is how far total probability may stray from 1 before
	// sampling refuses the state instead of renormalising it.
	DefaultMaxDrift = 1e-6
	// DefaultSampleBlockSize is the number of shots drawn from one seeded
	// source.
	DefaultSampleBlockSize = 4096
)

// Distribution is the cumulative Born-rule distribution of a state.
type Distribution struct {
	cdf []float64
}

// NewDistribution builds the cumulative table over |amplitude|^2. The
// probabilities are rescaled to sum to 1; a total further than maxDrift from
// 1 is a SimulationFailure.
func NewDistribution(state *StateVector, maxDrift float64) (*Distribution, error) {
	if maxDrift <= 0 {
		maxDrift = DefaultMaxDrift
	}
	probs := state.Probabilities()

	var total float64
	last := -1
	for i, p := range probs {
		total += p
		if p > 0 {
			last = i
		}
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || last < 0 {
		return nil, simulationFailure("normalise", errors.Errorf("total probability is %v", total))
	}
	if math.Abs(total-1) > maxDrift {
		return nil, simulationFailure("normalise",
			errors.Errorf("total probability %.12f drifted beyond %g", total, maxDrift))
	}

	cdf := make([]float64, len(probs))
	var acc float64
	for i, p := range probs {
		acc += p / total
		cdf[i] = acc
	}
	// Everything from the last reachable state onward is exactly 1 so that
	// rounding never hands mass to trailing zero-probability states.
	for i := last; i < len(cdf); i++ {
		cdf[i] = 1
	}
	return &Distribution{cdf: cdf}, nil
}

// Len returns the number of basis states.
func (d *Distribution) Len() int { return len(d.cdf) }

// Draw maps u in [0, 1) to the first basis index whose cumulative
// probability exceeds u.
func (d *Distribution) Draw(u float64) uint64 {
	return uint64(sort.Search(len(d.cdf), func(i int) bool {
		return d.cdf[i] > u
	}))
}

func checkShots(shots int) error {
	if shots < 1 {
		return &ShotCountError{Shots: shots}
	}
	return nil
}

// Sample draws shots outcomes from state using rng.
func Sample(state *StateVector, shots int, rng *rand.Rand) ([]uint64, error) {
	if err := checkShots(shots); err != nil {
		return nil, err
	}
	dist, err := NewDistribution(state, DefaultMaxDrift)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, shots)
	for i := range out {
		out[i] = dist.Draw(rng.Float64())
	}
	return out, nil
}

// Sampler draws shots in fixed-size blocks, each from its own PCG source
// seeded with (seed, block index). Outcomes depend only on the seed and the
// block size, never on the number of workers.
type Sampler struct {
	Workers   int
	BlockSize int
	MaxDrift  float64
}

// NewSampler returns a Sampler with GOMAXPROCS workers and default block size.
func NewSampler() Sampler {
	return Sampler{
		Workers:   runtime.GOMAXPROCS(0),
		BlockSize: DefaultSampleBlockSize,
		MaxDrift:  DefaultMaxDrift,
	}
}

// SampleSeeded draws shots outcomes from state.
func (s Sampler) SampleSeeded(ctx context.Context, state *StateVector, shots int, seed uint64) ([]uint64, error) {
	if err := checkShots(shots); err != nil {
		return nil, err
	}
	dist, err := NewDistribution(state, s.MaxDrift)
	if err != nil {
		return nil, err
	}
	return s.draw(ctx, dist, shots, seed)
}

func (s Sampler) draw(ctx context.Context, dist *Distribution, shots int, seed uint64) ([]uint64, error) {
	blockSize := s.BlockSize
	if blockSize < 1 {
		blockSize = DefaultSampleBlockSize
	}
	workers := max(s.Workers, 1)
	blocks := (shots + blockSize - 1) / blockSize
	out := make([]uint64, shots)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for b := 0; b < blocks; b++ {
		from := b * blockSize
		to := min(from+blockSize, shots)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(b)))
			for i := from; i < to; i++ {
				out[i] = dist.Draw(rng.Float64())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "sample")
	}
	return out, nil
}
