package main

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*;?$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*;?$`)
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\]\s*;?$`)
	cregRegex       = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\]\s*;?$`)
)

// Circuit is an ordered gate list over a fixed number of qubits. Gate order
// is application order.
type Circuit struct {
	NumQubits int
	Gates     []Gate
}

func NewCircuit(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// Append adds g at the end of the circuit.
func (c *Circuit) Append(g Gate) *Circuit {
	c.Gates = append(c.Gates, g)
	return c
}

func (c *Circuit) X(q int) *Circuit { return c.Append(X(q)) }
func (c *Circuit) Y(q int) *Circuit { return c.Append(Y(q)) }
func (c *Circuit) Z(q int) *Circuit { return c.Append(Z(q)) }
func (c *Circuit) H(q int) *Circuit { return c.Append(H(q)) }

func (c *Circuit) CX(control, target int) *Circuit {
	return c.Append(CX(control, target))
}

// InsertAt inserts g before position idx. An idx past the end appends.
func (c *Circuit) InsertAt(idx int, g Gate) {
	idx = min(max(idx, 0), len(c.Gates))
	c.Gates = slices.Insert(c.Gates, idx, g)
}

// RemoveAt removes the gate at position idx, if any.
func (c *Circuit) RemoveAt(idx int) {
	if idx < 0 || idx >= len(c.Gates) {
		return
	}
	c.Gates = slices.Delete(c.Gates, idx, idx+1)
}

// GateAt returns the gate at the given step when it touches qubit, or nil.
func (c *Circuit) GateAt(step, qubit int) *Gate {
	if step < 0 || step >= len(c.Gates) {
		return nil
	}
	if g := &c.Gates[step]; g.References(qubit) {
		return g
	}
	return nil
}

// RemoveGatesOnQubit removes all gates that reference the given qubit index.
func (c *Circuit) RemoveGatesOnQubit(qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.References(qubit)
	})
}

// Validate checks every gate against the register size.
func (c *Circuit) Validate() error {
	if err := checkRegister(c.NumQubits); err != nil {
		return err
	}
	for i, g := range c.Gates {
		if err := g.Validate(c.NumQubits); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}

// ToQASM generates QASM 2.0 output from the circuit.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", c.NumQubits)

	for _, g := range c.Gates {
		name := strings.ToLower(g.Kind.String())
		if g.Kind.IsControlled() {
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", name, g.Control, g.Target)
		} else {
			fmt.Fprintf(&sb, "%s q[%d];\n", name, g.Target)
		}
	}
	return sb.String()
}

// ParseQASM parses QASM text and rebuilds the circuit from it. Only the
// x, y, z, h and cx gates are accepted; anything else is an error naming the
// offending line. On error the circuit is left unchanged.
func (c *Circuit) ParseQASM(qasm string) error {
	parsed := Circuit{NumQubits: c.NumQubits}
	sawQreg := false

	for n, line := range strings.Split(qasm, "\n") {
		lineNo := n + 1
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") {
			continue
		}
		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			if sawQreg {
				return fmt.Errorf("line %d: only one qreg is supported", lineNo)
			}
			sawQreg = true
			size, err := parseIndex(matches[2], lineNo)
			if err != nil {
				return err
			}
			parsed.NumQubits = size
			continue
		}
		if cregRegex.MatchString(line) {
			continue
		}

		// Two-qubit gates: cx
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			kind, err := ParseGateKind(matches[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if !kind.IsControlled() {
				return fmt.Errorf("line %d: %w: %s takes one qubit", lineNo, ErrInvalidDescriptor, matches[1])
			}
			control, err := parseIndex(matches[2], lineNo)
			if err != nil {
				return err
			}
			target, err := parseIndex(matches[3], lineNo)
			if err != nil {
				return err
			}
			parsed.Append(CX(control, target))
			continue
		}

		// Single-qubit gates: x, y, z, h
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			kind, err := ParseGateKind(matches[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			if kind.IsControlled() {
				return fmt.Errorf("line %d: %w: %s needs a control and a target", lineNo, ErrInvalidDescriptor, matches[1])
			}
			target, err := parseIndex(matches[2], lineNo)
			if err != nil {
				return err
			}
			parsed.Append(Gate{Kind: kind, Target: target, Control: NoControl})
			continue
		}

		return fmt.Errorf("line %d: %w: %q", lineNo, ErrUnsupportedGateKind, line)
	}

	if err := parsed.Validate(); err != nil {
		return err
	}
	*c = parsed
	return nil
}

// parseIndex converts a register index or size written in QASM.
func parseIndex(s string, lineNo int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w: %w", lineNo, ErrInvalidDescriptor, err)
	}
	return i, nil
}
