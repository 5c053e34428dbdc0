package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qubsim/config"
	"qubsim/sim"
)

var (
	configPath   string
	debugLogging bool
	metricsAddr  string

	cfg           *config.Config
	logger        = zap.NewNop()
	logCloser     io.Closer
	metricsServer *http.Server

	metrics = sim.NewMetrics(prometheus.DefaultRegisterer)
)

var rootCmd = &cobra.Command{
	Use:   "qubsim",
	Short: "State-vector quantum circuit simulator",
	Long: `qubsim simulates small quantum circuits built from H, X, Y, Z, S, T, CX
and CZ gates. It applies the gates to |0…0⟩ and samples measurement counts
from the final state.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if metricsAddr != "" {
			cfg.Metrics.ListenAddr = metricsAddr
		}

		logger, logCloser, err = cfg.CreateLogger(debugLogging)
		if err != nil {
			return err
		}
		if cfg.Metrics.ListenAddr != "" {
			metricsServer = serveMetrics(cfg.Metrics.ListenAddr)
		}
		return nil
	},
}

// Execute runs the command line and tears down the logger and metrics
// server afterwards.
func Execute(ctx context.Context) error {
	defer shutdown()
	return rootCmd.ExecuteContext(ctx)
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}

func shutdown() {
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
		metricsServer = nil
	}
	_ = logger.Sync()
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// newRunner builds a Runner from the simulator section of the config.
func newRunner(l *zap.Logger) *sim.Runner {
	s := cfg.Simulator
	return sim.NewRunner(
		sim.WithLogger(l),
		sim.WithMetrics(metrics),
		sim.WithWorkers(s.Workers),
		sim.WithParallelThreshold(s.ParallelThreshold),
		sim.WithMaxQubits(s.MaxQubits),
		sim.WithSampleBlockSize(s.SampleBlockSize),
		sim.WithMaxDrift(s.MaxDrift),
	)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		"qubsim.yaml",
		"YAML config file; defaults apply when it does not exist",
	)
	rootCmd.PersistentFlags().BoolVar(
		&debugLogging,
		"debug",
		false,
		"enable debug logging",
	)
	rootCmd.PersistentFlags().StringVar(
		&metricsAddr,
		"metrics-addr",
		"",
		"serve Prometheus metrics on this address (overrides metrics.listenAddr)",
	)
}
