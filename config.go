package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in config files and on the command line.
const (
	BackendDense  = "dense"
	BackendKernel = "kernel"
)

// Config holds simulator settings. It is loaded as defaults, then the YAML
// file, then QSTATESIM_* environment variables; command-line flags are
// applied last by the caller before Validate.
type Config struct {
	Backend   string `yaml:"backend"`
	Workers   int    `yaml:"workers"`
	MaxQubits int    `yaml:"max_qubits"`
}

func DefaultConfig() Config {
	return Config{
		Backend:   BackendDense,
		Workers:   1,
		MaxQubits: DefaultMaxQubits,
	}
}

// LoadConfig reads configPath (if non-empty) over the defaults and applies
// environment overrides. A missing file is an error: it was asked for.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	if err := loadConfigFromEnv(&config); err != nil {
		return config, err
	}
	return config, nil
}

func loadConfigFromEnv(config *Config) error {
	if v := os.Getenv("QSTATESIM_BACKEND"); v != "" {
		config.Backend = v
	}
	if v := os.Getenv("QSTATESIM_WORKERS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: QSTATESIM_WORKERS=%q", ErrInvalidConfig, v)
		}
		config.Workers = i
	}
	if v := os.Getenv("QSTATESIM_MAX_QUBITS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: QSTATESIM_MAX_QUBITS=%q", ErrInvalidConfig, v)
		}
		config.MaxQubits = i
	}
	return nil
}

// Validate rejects settings the evolver cannot honour.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendDense, BackendKernel:
	default:
		return fmt.Errorf("%w: unknown backend %q (want %s or %s)", ErrInvalidConfig, c.Backend, BackendDense, BackendKernel)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.MaxQubits < 0 {
		return fmt.Errorf("%w: max_qubits must not be negative, got %d", ErrInvalidConfig, c.MaxQubits)
	}
	return nil
}

// EvolverOptions translates the config into evolver options.
func (c Config) EvolverOptions() []EvolverOption {
	opts := []EvolverOption{WithMaxQubits(c.MaxQubits)}
	if c.Backend == BackendKernel {
		return append(opts, WithApplier(KernelApplier{}))
	}
	return append(opts, WithWorkers(c.Workers))
}
