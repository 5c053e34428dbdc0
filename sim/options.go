package sim

import (
	"runtime"

	"go.uber.org/zap"
)

type options struct {
	logger            *zap.Logger
	metrics           *Metrics
	workers           int
	parallelThreshold int
	maxQubits         int
	sampleBlockSize   int
	maxDrift          float64
}

func defaultOptions() options {
	return options{
		logger:            zap.NewNop(),
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
		maxQubits:         DefaultMaxQubits,
		sampleBlockSize:   DefaultSampleBlockSize,
		maxDrift:          DefaultMaxDrift,
	}
}

// Option configures a Runner.
type Option func(*options)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithMetrics reports runs to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithWorkers sets the goroutine budget for gate kernels and sampling.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithParallelThreshold sets the qubit count from which gate kernels fan out.
func WithParallelThreshold(n int) Option {
	return func(o *options) { o.parallelThreshold = n }
}

// WithMaxQubits bounds the register size. It cannot exceed MaxQubitsLimit.
func WithMaxQubits(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxQubits = min(n, MaxQubitsLimit)
		}
	}
}

// WithSampleBlockSize sets how many shots share one seeded source.
func WithSampleBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sampleBlockSize = n
		}
	}
}

// WithMaxDrift sets the probability drift tolerated before sampling fails.
func WithMaxDrift(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.maxDrift = eps
		}
	}
}

type runOptions struct {
	seed    uint64
	hasSeed bool
}

// RunOption configures a single Run call.
type RunOption func(*runOptions)

// WithSeed makes the run reproducible.
func WithSeed(seed uint64) RunOption {
	return func(o *runOptions) {
		o.seed = seed
		o.hasSeed = true
	}
}
