package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "qubsim"
	metricsSubsystem = "sim"
)

// Metrics holds the collectors a Runner reports to.
type Metrics struct {
	runs             *prometheus.CounterVec
	gatesApplied     *prometheus.CounterVec
	shotsSampled     prometheus.Counter
	stateAllocations prometheus.Counter
	runDuration      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "runs_total",
				Help:      "Total number of circuit runs by result",
			},
			[]string{"result"},
		),
		gatesApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "gates_applied_total",
				Help:      "Total number of gates applied to state vectors",
			},
			[]string{"kind"},
		),
		shotsSampled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "shots_sampled_total",
				Help:      "Total number of shots drawn",
			},
		),
		stateAllocations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "state_allocations_total",
				Help:      "Total number of state vectors allocated",
			},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "run_duration_seconds",
				Help:      "Wall time of successful runs",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.gatesApplied, m.shotsSampled, m.stateAllocations, m.runDuration)
	}
	return m
}

// result labels
const (
	resultSuccess = "success"
	resultInvalid = "invalid"
	resultFailure = "failure"
)
