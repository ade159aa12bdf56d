package main

import "errors"

// Errors surfaced by the simulation core. Callers match them with errors.Is;
// the returned values wrap them with the offending gate or dimension.
var (
	ErrInvalidDescriptor   = errors.New("invalid gate descriptor")
	ErrUnsupportedGateKind = errors.New("unsupported gate kind")
	ErrDimensionMismatch   = errors.New("state dimension mismatch")
	ErrQubitLimit          = errors.New("qubit count exceeds limit")
	ErrInvalidConfig       = errors.New("invalid config")
)
