package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultMaxQubits bounds the dense backend: a 12-qubit operator is already
// 4096x4096 complex entries (256 MiB).
const DefaultMaxQubits = 12

// Evolver applies a circuit's gates, in order, to an owned amplitude vector.
type Evolver struct {
	circuit   *Circuit
	applier   Applier
	maxQubits int
	logger    *log.Logger
}

// EvolverOption configures an Evolver.
type EvolverOption func(*Evolver)

// WithWorkers sets the goroutine budget for building and applying each dense
// operator. It replaces any applier set earlier.
func WithWorkers(n int) EvolverOption {
	return func(e *Evolver) {
		e.applier = DenseApplier{Operator: Operator{Workers: max(n, 1)}}
	}
}

// WithApplier swaps the gate application strategy.
func WithApplier(a Applier) EvolverOption {
	return func(e *Evolver) { e.applier = a }
}

// WithMaxQubits overrides DefaultMaxQubits. Zero or less falls back to
// MaxRegisterQubits.
func WithMaxQubits(n int) EvolverOption {
	return func(e *Evolver) { e.maxQubits = n }
}

func WithLogger(l *log.Logger) EvolverOption {
	return func(e *Evolver) { e.logger = l }
}

// NewEvolver returns an evolver over c. The circuit is read, never modified.
func NewEvolver(c *Circuit, opts ...EvolverOption) *Evolver {
	e := &Evolver{
		circuit:   c,
		applier:   DenseApplier{Operator: Operator{Workers: 1}},
		maxQubits: DefaultMaxQubits,
		logger:    log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies every gate to the ground state and returns the final state.
func (e *Evolver) Run() (*StateVector, error) {
	return e.RunUpTo(len(e.circuit.Gates) - 1)
}

// RunUpTo applies gates[0..step] to the ground state. A negative step
// returns the ground state.
func (e *Evolver) RunUpTo(step int) (*StateVector, error) {
	if err := e.checkQubits(); err != nil {
		return nil, err
	}
	return e.evolve(NewStateVector(e.circuit.NumQubits), step)
}

// Evolve applies every gate to a copy of initial.
func (e *Evolver) Evolve(initial *StateVector) (*StateVector, error) {
	if err := e.checkQubits(); err != nil {
		return nil, err
	}
	return e.evolve(initial.Clone(), len(e.circuit.Gates)-1)
}

func (e *Evolver) checkQubits() error {
	n := e.circuit.NumQubits
	if err := checkRegister(n); err != nil {
		return err
	}
	if e.maxQubits > 0 && n > e.maxQubits {
		return fmt.Errorf("%w: %d qubits, limit is %d", ErrQubitLimit, n, e.maxQubits)
	}
	return nil
}

func (e *Evolver) evolve(state *StateVector, step int) (*StateVector, error) {
	n := e.circuit.NumQubits
	if state.NumQubits != n || len(state.Amplitudes) != 1<<n {
		return nil, fmt.Errorf("%w: state has %d amplitudes, circuit needs %d", ErrDimensionMismatch, len(state.Amplitudes), 1<<n)
	}
	gates := e.circuit.Gates
	if step >= len(gates) {
		step = len(gates) - 1
	}
	start := time.Now()
	for i := 0; i <= step; i++ {
		g := gates[i]
		t := time.Now()
		amps, err := e.applier.Apply(state.Amplitudes, g, n)
		if err != nil {
			return nil, fmt.Errorf("gate %d (%v): %w", i, g, err)
		}
		state.Amplitudes = amps
		e.logger.Debugf("applied gate %d %v in %v", i, g, time.Since(t))
	}
	e.logger.Debugf("evolved %d qubits through %d gates in %v", n, step+1, time.Since(start))
	return state, nil
}
