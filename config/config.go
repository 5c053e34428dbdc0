package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultMaxQubits         = 24
	defaultParallelThreshold = 14
	defaultSampleBlockSize   = 4096
	defaultMaxDrift          = 1e-6
	defaultShots             = 1024
	defaultEditorQubits      = 2
	defaultLogLevel          = "info"
)

type SimulatorConfig struct {
	// The largest register a run may allocate. Capped by the simulator.
	MaxQubits int `yaml:"maxQubits"`
	// Goroutines used inside one gate application and for sampling.
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Qubit count from which gate kernels split across workers.
	ParallelThreshold int `yaml:"parallelThreshold"`
	// Shots drawn from one seeded source.
	SampleBlockSize int `yaml:"sampleBlockSize"`
	// Probability drift tolerated before a run fails.
	MaxDrift float64 `yaml:"maxDrift"`
}

// WithDefaults returns a copy of the SimulatorConfig with any missing fields
// set to their default values.
func (c SimulatorConfig) WithDefaults() SimulatorConfig {
	cpy := c
	if cpy.MaxQubits == 0 {
		cpy.MaxQubits = defaultMaxQubits
	}
	if cpy.Workers == 0 {
		cpy.Workers = runtime.GOMAXPROCS(0)
	}
	if cpy.ParallelThreshold == 0 {
		cpy.ParallelThreshold = defaultParallelThreshold
	}
	if cpy.SampleBlockSize == 0 {
		cpy.SampleBlockSize = defaultSampleBlockSize
	}
	if cpy.MaxDrift == 0 {
		cpy.MaxDrift = defaultMaxDrift
	}
	return cpy
}

type RunConfig struct {
	// Shots per run when none is given on the command line.
	Shots int `yaml:"shots"`
	// Fixed seed for every run. Unset means a fresh seed per run.
	Seed *uint64 `yaml:"seed,omitempty"`
	// Qubit count the editor starts with.
	EditorQubits int `yaml:"editorQubits"`
}

// WithDefaults returns a copy of the RunConfig with any missing fields set to
// their default values.
func (c RunConfig) WithDefaults() RunConfig {
	cpy := c
	if cpy.Shots == 0 {
		cpy.Shots = defaultShots
	}
	if cpy.EditorQubits == 0 {
		cpy.EditorQubits = defaultEditorQubits
	}
	return cpy
}

type MetricsConfig struct {
	// Address for the Prometheus /metrics endpoint. Empty disables it.
	ListenAddr string `yaml:"listenAddr"`
}

type Config struct {
	Simulator SimulatorConfig `yaml:"simulator"`
	Run       RunConfig       `yaml:"run"`
	Logger    LogConfig       `yaml:"logger"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// WithDefaults returns a copy of the Config with every section defaulted.
func (c Config) WithDefaults() Config {
	cpy := c
	cpy.Simulator = cpy.Simulator.WithDefaults()
	cpy.Run = cpy.Run.WithDefaults()
	cpy.Logger = cpy.Logger.WithDefaults()
	return cpy
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := Config{}.WithDefaults()
	return &c
}

// Load reads a YAML config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return Parse(b)
}

// Parse decodes YAML config bytes and applies defaults.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the simulator cannot use.
func (c *Config) Validate() error {
	if c.Simulator.MaxQubits < 1 {
		return errors.Errorf("simulator.maxQubits must be positive, got %d", c.Simulator.MaxQubits)
	}
	if c.Simulator.Workers < 1 {
		return errors.Errorf("simulator.workers must be positive, got %d", c.Simulator.Workers)
	}
	if c.Simulator.SampleBlockSize < 1 {
		return errors.Errorf("simulator.sampleBlockSize must be positive, got %d", c.Simulator.SampleBlockSize)
	}
	if c.Simulator.MaxDrift <= 0 {
		return errors.Errorf("simulator.maxDrift must be positive, got %g", c.Simulator.MaxDrift)
	}
	if c.Run.Shots < 1 {
		return errors.Errorf("run.shots must be positive, got %d", c.Run.Shots)
	}
	if c.Run.EditorQubits < 1 || c.Run.EditorQubits > c.Simulator.MaxQubits {
		return errors.Errorf("run.editorQubits must be in [1, %d], got %d",
			c.Simulator.MaxQubits, c.Run.EditorQubits)
	}
	if _, err := c.Logger.zapLevel(); err != nil {
		return err
	}
	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "save config")
	}
	return errors.Wrap(os.WriteFile(path, b, 0644), "save config")
}
