package main

import (
	"fmt"
	"math"
)

// Applier advances an amplitude vector by one gate. Implementations return a
// fresh vector and leave the input untouched.
type Applier interface {
	Apply(state []complex128, g Gate, n int) ([]complex128, error)
}

// DenseApplier materialises the full operator and multiplies it into the
// state.
type DenseApplier struct {
	Operator Operator
}

func (d DenseApplier) Apply(state []complex128, g Gate, n int) ([]complex128, error) {
	if err := checkRegister(n); err != nil {
		return nil, err
	}
	if len(state) != 1<<n {
		return nil, fmt.Errorf("%w: %d amplitudes for %d qubits", ErrDimensionMismatch, len(state), n)
	}
	op, err := d.Operator.Expand(g, n)
	if err != nil {
		return nil, err
	}
	return op.mulVec(state, d.Operator.Workers)
}

// KernelApplier transforms the vector directly by pairing the basis labels
// that differ only in the target bit. It never builds the 2^n x 2^n matrix.
type KernelApplier struct{}

func (KernelApplier) Apply(state []complex128, g Gate, n int) ([]complex128, error) {
	if err := checkRegister(n); err != nil {
		return nil, err
	}
	if len(state) != 1<<n {
		return nil, fmt.Errorf("%w: %d amplitudes for %d qubits", ErrDimensionMismatch, len(state), n)
	}
	if err := g.Validate(n); err != nil {
		return nil, err
	}
	out := make([]complex128, len(state))
	copy(out, state)
	bit := qubitMask(g.Target, n)
	switch g.Kind {
	case PauliX:
		applyX(out, bit)
	case PauliY:
		applyY(out, bit)
	case PauliZ:
		applyZ(out, bit)
	case Hadamard:
		applyH(out, bit)
	case ControlledNot:
		applyCX(out, qubitMask(g.Control, n), bit)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedGateKind, g.Kind)
	}
	return out, nil
}

func applyX(amps []complex128, bit int) {
	for i := range amps {
		if i&bit == 0 {
			j := i | bit
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

func applyY(amps []complex128, bit int) {
	for i := range amps {
		if i&bit == 0 {
			j := i | bit
			amps[i], amps[j] = -1i*amps[j], 1i*amps[i]
		}
	}
}

func applyZ(amps []complex128, bit int) {
	for i := range amps {
		if i&bit != 0 {
			amps[i] = -amps[i]
		}
	}
}

func applyH(amps []complex128, bit int) {
	h := complex(1/math.Sqrt2, 0)
	for i := range amps {
		if i&bit == 0 {
			j := i | bit
			amps[i], amps[j] = h*(amps[i]+amps[j]), h*(amps[i]-amps[j])
		}
	}
}

func applyCX(amps []complex128, cBit, tBit int) {
	for i := range amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}
