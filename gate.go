package main

import (
	"fmt"
	"strings"
)

// GateKind is the closed gate vocabulary understood by the simulator.
type GateKind int

const (
	invalidGate GateKind = iota
	PauliX
	PauliY
	PauliZ
	Hadamard
	ControlledNot
)

// NoControl marks a single-qubit gate.
const NoControl = -1

// MaxRegisterQubits is the widest register accepted whatever the configured
// limit: 2^30 amplitudes already take 16 GiB.
const MaxRegisterQubits = 30

// checkRegister rejects register sizes that cannot be indexed.
func checkRegister(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative qubit count %d", ErrInvalidDescriptor, n)
	}
	if n > MaxRegisterQubits {
		return fmt.Errorf("%w: %d qubits, hard limit is %d", ErrQubitLimit, n, MaxRegisterQubits)
	}
	return nil
}

// String returns the QASM mnemonic in upper case ("X", "CX", ...).
func (k GateKind) String() string {
	switch k {
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	case Hadamard:
		return "H"
	case ControlledNot:
		return "CX"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// IsControlled reports whether the kind takes a control qubit.
func (k GateKind) IsControlled() bool {
	return k == ControlledNot
}

// ParseGateKind maps a QASM mnemonic (case-insensitive) to its kind.
func ParseGateKind(name string) (GateKind, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "X":
		return PauliX, nil
	case "Y":
		return PauliY, nil
	case "Z":
		return PauliZ, nil
	case "H":
		return Hadamard, nil
	case "CX", "CNOT":
		return ControlledNot, nil
	}
	return invalidGate, fmt.Errorf("%w: %q", ErrUnsupportedGateKind, name)
}

// Gate is an immutable gate descriptor.
type Gate struct {
	Kind    GateKind
	Target  int
	Control int // NoControl unless Kind is ControlledNot
}

func X(q int) Gate { return Gate{Kind: PauliX, Target: q, Control: NoControl} }
func Y(q int) Gate { return Gate{Kind: PauliY, Target: q, Control: NoControl} }
func Z(q int) Gate { return Gate{Kind: PauliZ, Target: q, Control: NoControl} }
func H(q int) Gate { return Gate{Kind: Hadamard, Target: q, Control: NoControl} }

// CX returns a controlled-NOT flipping target when control is set.
func CX(control, target int) Gate {
	return Gate{Kind: ControlledNot, Target: target, Control: control}
}

// Validate checks the descriptor against an n-qubit register.
func (g Gate) Validate(n int) error {
	switch g.Kind {
	case PauliX, PauliY, PauliZ, Hadamard, ControlledNot:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedGateKind, g.Kind)
	}
	if n < 1 {
		return fmt.Errorf("%w: %v needs at least one qubit, register has %d", ErrInvalidDescriptor, g, n)
	}
	if err := checkRegister(n); err != nil {
		return err
	}
	if g.Target < 0 || g.Target >= n {
		return fmt.Errorf("%w: target %d out of range [0,%d)", ErrInvalidDescriptor, g.Target, n)
	}
	if !g.Kind.IsControlled() {
		if g.Control != NoControl {
			return fmt.Errorf("%w: %v takes no control qubit, got %d", ErrInvalidDescriptor, g.Kind, g.Control)
		}
		return nil
	}
	if g.Control < 0 || g.Control >= n {
		return fmt.Errorf("%w: control %d out of range [0,%d)", ErrInvalidDescriptor, g.Control, n)
	}
	if g.Control == g.Target {
		return fmt.Errorf("%w: control and target are both qubit %d", ErrInvalidDescriptor, g.Target)
	}
	return nil
}

// Qubits returns the qubits the gate touches, control first.
func (g Gate) Qubits() []int {
	if g.Kind.IsControlled() {
		return []int{g.Control, g.Target}
	}
	return []int{g.Target}
}

// References reports whether the gate touches qubit q.
func (g Gate) References(q int) bool {
	return g.Target == q || (g.Kind.IsControlled() && g.Control == q)
}

func (g Gate) String() string {
	if g.Kind.IsControlled() {
		return fmt.Sprintf("%v q[%d], q[%d]", g.Kind, g.Control, g.Target)
	}
	return fmt.Sprintf("%v q[%d]", g.Kind, g.Target)
}

// qubitMask returns the basis-label bit for qubit q of an n-qubit register.
// Qubit 0 is the most significant bit; every bit-level routine goes through
// this helper so the Kronecker order and the bit predicates cannot disagree.
func qubitMask(q, n int) int {
	return 1 << (n - 1 - q)
}
