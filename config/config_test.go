package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWithDefaults(t *testing.T) {
	// Test case 1: Empty config should be populated with all defaults
	c := Config{}.WithDefaults()

	assert.Equal(t, defaultMaxQubits, c.Simulator.MaxQubits, "MaxQubits should be set to default")
	assert.Equal(t, runtime.GOMAXPROCS(0), c.Simulator.Workers, "Workers should follow GOMAXPROCS")
	assert.Equal(t, defaultParallelThreshold, c.Simulator.ParallelThreshold, "ParallelThreshold should be set to default")
	assert.Equal(t, defaultSampleBlockSize, c.Simulator.SampleBlockSize, "SampleBlockSize should be set to default")
	assert.Equal(t, defaultMaxDrift, c.Simulator.MaxDrift, "MaxDrift should be set to default")
	assert.Equal(t, defaultShots, c.Run.Shots, "Shots should be set to default")
	assert.Equal(t, defaultEditorQubits, c.Run.EditorQubits, "EditorQubits should be set to default")
	assert.Nil(t, c.Run.Seed)
	assert.Equal(t, "info", c.Logger.Level)
	assert.Empty(t, c.Metrics.ListenAddr)

	// Test case 2: Custom values survive WithDefaults
	custom := Config{
		Simulator: SimulatorConfig{MaxQubits: 12, Workers: 3},
		Run:       RunConfig{Shots: 10},
	}.WithDefaults()
	assert.Equal(t, 12, custom.Simulator.MaxQubits)
	assert.Equal(t, 3, custom.Simulator.Workers)
	assert.Equal(t, 10, custom.Run.Shots)
	assert.Equal(t, defaultSampleBlockSize, custom.Simulator.SampleBlockSize)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
simulator:
  maxQubits: 16
  workers: 2
run:
  shots: 500
  seed: 42
logger:
  level: debug
metrics:
  listenAddr: ":9100"
`))
	require.NoError(t, err)
	assert.Equal(t, 16, c.Simulator.MaxQubits)
	assert.Equal(t, 2, c.Simulator.Workers)
	assert.Equal(t, defaultParallelThreshold, c.Simulator.ParallelThreshold)
	assert.Equal(t, 500, c.Run.Shots)
	require.NotNil(t, c.Run.Seed)
	assert.Equal(t, uint64(42), *c.Run.Seed)
	assert.Equal(t, "debug", c.Logger.Level)
	assert.Equal(t, ":9100", c.Metrics.ListenAddr)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "simulator:\n  qubits: 3\n",
		"negative shots":  "run:\n  shots: -1\n",
		"negative drift":  "simulator:\n  maxDrift: -0.5\n",
		"editor too wide": "simulator:\n  maxQubits: 4\nrun:\n  editorQubits: 5\n",
		"bad level":       "logger:\n  level: loud\n",
		"not yaml":        "simulator: [",
	}
	for name, src := range cases {
		_, err := Parse([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(dir, "qubsim.yaml")
	seed := uint64(7)
	want := Default()
	want.Run.Seed = &seed
	want.Run.Shots = 64
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreateLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qubsim.log")
	c := Default()
	c.Logger.Path = path

	logger, closer, err := c.CreateLogger(false)
	require.NoError(t, err)
	logger.Info("simulator ready")
	logger.Debug("not written at info level")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "simulator ready")
	assert.NotContains(t, string(b), "not written")
}

func TestCreateLoggerStderr(t *testing.T) {
	logger, closer, err := Default().CreateLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1), "debug should be enabled")
	assert.Nil(t, closer, "stderr needs no closing")

	logger, closer, err = Default().CreateLogger(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
	assert.Nil(t, closer)
}
