package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// StateVector is the dense amplitude vector of an n-qubit register, indexed
// by basis label. Qubit 0 is the most significant label bit.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns the ground state |0...0⟩. numQubits must be in
// [0, MaxRegisterQubits]; callers check it first.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Norm returns the sum of squared magnitudes; 1 for a valid state.
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, a := range s.Amplitudes {
		total += real(a * cmplx.Conj(a))
	}
	return total
}

// Probabilities returns |amplitude|² per basis label.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal probability of each qubit reading
// 0 or 1.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, p := range s.Probabilities() {
		for q := range s.NumQubits {
			if i&qubitMask(q, s.NumQubits) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// ApproxEqual compares two states entry by entry within tol.
func (s *StateVector) ApproxEqual(other *StateVector, tol float64) bool {
	if s.NumQubits != other.NumQubits || len(s.Amplitudes) != len(other.Amplitudes) {
		return false
	}
	for i, a := range s.Amplitudes {
		if cmplx.Abs(a-other.Amplitudes[i]) > tol {
			return false
		}
	}
	return true
}

// BasisLabel returns label i as an n-bit zero-padded binary string.
func BasisLabel(i, n int) string {
	return fmt.Sprintf("%0*b", n, i)
}

// String renders "<re>±<im>i: <bits>" per basis label in ascending order,
// joined by ", ".
func (s *StateVector) String() string {
	parts := make([]string, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		parts[i] = formatAmplitude(a) + ": " + BasisLabel(i, s.NumQubits)
	}
	return strings.Join(parts, ", ")
}

// formatAmplitude prints a complex number with 4 decimals, e.g.
// "0.7071-0.7071i". Negative zero prints as zero.
func formatAmplitude(a complex128) string {
	re, im := roundZero(real(a)), roundZero(imag(a))
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	return fmt.Sprintf("%.4f%s%.4fi", re, sign, im)
}

// roundZero maps values that print as -0.0000 to +0.
func roundZero(v float64) float64 {
	if v == 0 || math.Abs(v) < 0.00005 {
		return 0
	}
	return v
}
