package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

var singleQubitKinds = []GateKind{PauliX, PauliY, PauliZ, Hadamard}

func TestExpandSingleQubitReducesToBlock(t *testing.T) {
	for _, k := range singleQubitKinds {
		block, err := singleQubitMatrix(k)
		require.NoError(t, err)
		m, err := Expand(Gate{Kind: k, Target: 0, Control: NoControl}, 1)
		require.NoError(t, err)
		assert.True(t, m.ApproxEqual(block, 0), "%v", k)
	}
}

func TestExpandDoesNotAliasBlocks(t *testing.T) {
	m, err := Expand(X(0), 1)
	require.NoError(t, err)
	m.Set(0, 0, 7)
	assert.Equal(t, complex128(0), pauliX.At(0, 0))
}

func TestExpandTwoQubitReference(t *testing.T) {
	xTensI := &Matrix{Rows: 4, Cols: 4, Data: []complex128{
		0, 0, 1, 0,
		0, 0, 0, 1,
		1, 0, 0, 0,
		0, 1, 0, 0,
	}}
	iTensX := &Matrix{Rows: 4, Cols: 4, Data: []complex128{
		0, 1, 0, 0,
		1, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	}}

	x0, err := Expand(X(0), 2)
	require.NoError(t, err)
	x1, err := Expand(X(1), 2)
	require.NoError(t, err)

	assert.True(t, x0.ApproxEqual(xTensI, 0), "X on qubit 0 should be X⊗I:\n%v", x0)
	assert.True(t, x1.ApproxEqual(iTensX, 0), "X on qubit 1 should be I⊗X:\n%v", x1)
	assert.True(t, x0.ApproxEqual(pauliX.Kron(identity2), 0))
}

func TestExpandThreeQubitReference(t *testing.T) {
	// Z on the middle qubit flips the sign of labels x1x.
	m, err := Expand(Z(1), 3)
	require.NoError(t, err)
	want := Identity(8)
	for _, i := range []int{0b010, 0b011, 0b110, 0b111} {
		want.Set(i, i, -1)
	}
	assert.True(t, m.ApproxEqual(want, 0), "\n%v", m)

	// H on qubit 2 is I⊗I⊗H.
	h2, err := Expand(H(2), 3)
	require.NoError(t, err)
	assert.True(t, h2.ApproxEqual(Identity(4).Kron(hadamard), tolerance))
}

func TestExpandIsUnitary(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for q := 0; q < n; q++ {
			for _, k := range singleQubitKinds {
				g := Gate{Kind: k, Target: q, Control: NoControl}
				m, err := Operator{Workers: 2}.Expand(g, n)
				require.NoError(t, err)
				require.Equal(t, 1<<n, m.Rows)
				assert.True(t, m.IsUnitary(tolerance), "%v on %d qubits", g, n)
			}
		}
	}
}

func TestExpandCNOTIsPermutation(t *testing.T) {
	for n := 2; n <= 5; n++ {
		for c := 0; c < n; c++ {
			for tq := 0; tq < n; tq++ {
				if c == tq {
					continue
				}
				m, err := Expand(CX(c, tq), n)
				require.NoError(t, err)
				assert.True(t, m.IsPermutation(), "CX(%d,%d) on %d qubits", c, tq, n)
			}
		}
	}
}

func TestExpandCNOTReference(t *testing.T) {
	// Control qubit 0 (high bit), target qubit 1: swaps |10⟩ and |11⟩.
	want := &Matrix{Rows: 4, Cols: 4, Data: []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	}}
	m, err := Expand(CX(0, 1), 2)
	require.NoError(t, err)
	assert.True(t, m.ApproxEqual(want, 0), "\n%v", m)

	// Reversed roles swap |01⟩ and |11⟩.
	want = &Matrix{Rows: 4, Cols: 4, Data: []complex128{
		1, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
		0, 1, 0, 0,
	}}
	m, err = Expand(CX(1, 0), 2)
	require.NoError(t, err)
	assert.True(t, m.ApproxEqual(want, 0), "\n%v", m)
}

func TestExpandCNOTParallelMatchesSerial(t *testing.T) {
	serial, err := Expand(CX(3, 1), 5)
	require.NoError(t, err)
	parallel, err := Operator{Workers: 4}.Expand(CX(3, 1), 5)
	require.NoError(t, err)
	assert.Equal(t, serial.Data, parallel.Data)
}

// cnotEntryByLabels spells out the entry rule on the bits of i and j.
func cnotEntryByLabels(i, j, control, target, n int) bool {
	bit := func(x, q int) int { return (x >> (n - 1 - q)) & 1 }
	for q := 0; q < n; q++ {
		if q != control && q != target && bit(i, q) != bit(j, q) {
			return false
		}
	}
	ci, cj := bit(i, control), bit(j, control)
	ti, tj := bit(i, target), bit(j, target)
	if ci == 0 && cj == 0 {
		return ti == tj
	}
	return ci == 1 && cj == 1 && ti != tj
}

func TestCNOTEntryMatchesBitDefinition(t *testing.T) {
	n := 4
	size := 1 << n
	for c := 0; c < n; c++ {
		for tq := 0; tq < n; tq++ {
			if c == tq {
				continue
			}
			cm, tm := qubitMask(c, n), qubitMask(tq, n)
			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					require.Equal(t, cnotEntryByLabels(i, j, c, tq, n), cnotEntry(i, j, cm, tm),
						fmt.Sprintf("c=%d t=%d i=%04b j=%04b", c, tq, i, j))
				}
			}
		}
	}
}

func TestExpandRejectsInvalidDescriptors(t *testing.T) {
	tests := []struct {
		gate Gate
		n    int
		err  error
	}{
		{X(1), 1, ErrInvalidDescriptor},
		{H(0), 0, ErrInvalidDescriptor},
		{CX(1, 1), 3, ErrInvalidDescriptor},
		{CX(3, 0), 3, ErrInvalidDescriptor},
		{Gate{Kind: PauliZ, Target: 0, Control: 1}, 2, ErrInvalidDescriptor},
		{Gate{Kind: GateKind(99), Target: 0, Control: NoControl}, 2, ErrUnsupportedGateKind},
		{CX(0, 1), MaxRegisterQubits + 1, ErrQubitLimit},
		{H(0), 64, ErrQubitLimit},
	}
	for _, tt := range tests {
		// Every call fails; nothing is cached.
		for range 2 {
			m, err := Expand(tt.gate, tt.n)
			assert.ErrorIs(t, err, tt.err, "%+v on %d qubits", tt.gate, tt.n)
			assert.Nil(t, m)
		}
	}
}
