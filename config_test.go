package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qstatesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, "backend: kernel\nmax_qubits: 8\n")
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Backend: BackendKernel, Workers: 1, MaxQubits: 8}, config)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "backend: kernel\nworkers: 2\n")
	t.Setenv("QSTATESIM_BACKEND", "dense")
	t.Setenv("QSTATESIM_WORKERS", "6")
	t.Setenv("QSTATESIM_MAX_QUBITS", "0")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Backend: BackendDense, Workers: 6, MaxQubits: 0}, config)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfigFile(t, "workers: [1, 2\n"))
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("QSTATESIM_WORKERS", "many")
	_, err = LoadConfig("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "gpu" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative qubit limit", func(c *Config) { c.MaxQubits = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigEvolverOptions(t *testing.T) {
	config := Config{Backend: BackendDense, Workers: 3, MaxQubits: 5}
	e := NewEvolver(NewCircuit(1), config.EvolverOptions()...)
	assert.Equal(t, DenseApplier{Operator: Operator{Workers: 3}}, e.applier)
	assert.Equal(t, 5, e.maxQubits)

	config.Backend = BackendKernel
	e = NewEvolver(NewCircuit(1), config.EvolverOptions()...)
	assert.Equal(t, KernelApplier{}, e.applier)
}
