package main

import (
	"fmt"
	"math"
)

// Single-qubit blocks.
var (
	pauliX   = NewMatrix2(0, 1, 1, 0)
	pauliY   = NewMatrix2(0, -1i, 1i, 0)
	pauliZ   = NewMatrix2(1, 0, 0, -1)
	hadamard = NewMatrix2(
		complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0),
		complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0),
	)
	identity2 = Identity(2)
)

// singleQubitMatrix returns the 2x2 block for a single-qubit kind.
func singleQubitMatrix(k GateKind) (*Matrix, error) {
	switch k {
	case PauliX:
		return pauliX, nil
	case PauliY:
		return pauliY, nil
	case PauliZ:
		return pauliZ, nil
	case Hadamard:
		return hadamard, nil
	}
	return nil, fmt.Errorf("%w: %v has no 2x2 block", ErrUnsupportedGateKind, k)
}

// Operator expands gate descriptors into full 2^n x 2^n operators.
// Workers > 1 fills independent row blocks concurrently.
type Operator struct {
	Workers int
}

// Expand returns the full operator of g on an n-qubit register using a
// single goroutine.
func Expand(g Gate, n int) (*Matrix, error) {
	return Operator{Workers: 1}.Expand(g, n)
}

// Expand returns the full operator of g on an n-qubit register. The matrix is
// freshly built on every call.
func (o Operator) Expand(g Gate, n int) (*Matrix, error) {
	if err := g.Validate(n); err != nil {
		return nil, err
	}
	switch g.Kind {
	case PauliX, PauliY, PauliZ, Hadamard:
		return o.expandSingle(g, n)
	case ControlledNot:
		return o.expandCNOT(g, n), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedGateKind, g.Kind)
}

// expandSingle folds one 2x2 block per qubit from qubit 0 to qubit n-1, so
// the leftmost factor drives the most significant label bit.
func (o Operator) expandSingle(g Gate, n int) (*Matrix, error) {
	block, err := singleQubitMatrix(g.Kind)
	if err != nil {
		return nil, err
	}
	pick := func(q int) *Matrix {
		if q == g.Target {
			return block
		}
		return identity2
	}
	m := pick(0)
	for q := 1; q < n; q++ {
		m = m.kron(pick(q), o.Workers)
	}
	if m == block {
		// n == 1: hand out a copy so callers cannot mutate the shared block.
		out := NewMatrix(2, 2)
		copy(out.Data, block.Data)
		return out, nil
	}
	return m, nil
}

func (o Operator) expandCNOT(g Gate, n int) *Matrix {
	size := 1 << n
	c, t := qubitMask(g.Control, n), qubitMask(g.Target, n)
	m := NewMatrix(size, size)
	parallelRows(size, o.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < size; j++ {
				if cnotEntry(i, j, c, t) {
					m.Data[i*size+j] = 1
				}
			}
		}
	})
	return m
}

// cnotEntry is the (i, j) entry predicate of a controlled-NOT with control
// mask c and target mask t: identity where the control bit is clear, a
// target bit flip where it is set.
func cnotEntry(i, j, c, t int) bool {
	if i&c == 0 {
		return i == j
	}
	return i^j == t
}
