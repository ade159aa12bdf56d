package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKron(t *testing.T) {
	a := NewMatrix2(1, 2, 3, 4)
	b := NewMatrix2(0, 5, 6, 7)
	want := []complex128{
		0, 5, 0, 10,
		6, 7, 12, 14,
		0, 15, 0, 20,
		18, 21, 24, 28,
	}
	got := a.Kron(b)
	assert.Equal(t, 4, got.Rows)
	assert.Equal(t, 4, got.Cols)
	assert.Equal(t, want, got.Data)

	// Row blocks filled concurrently must match the serial product.
	big := Identity(8).Kron(a)
	assert.Equal(t, big.Data, Identity(8).kron(a, 4).Data)
}

func TestMulVec(t *testing.T) {
	m := NewMatrix2(0, 1i, 2, 0)
	v, err := m.MulVec([]complex128{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []complex128{4i, 6}, v)

	_, err = m.MulVec([]complex128{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMulVecParallelMatchesSerial(t *testing.T) {
	m := Identity(2).Kron(hadamard).Kron(pauliY).Kron(Identity(4))
	v := make([]complex128, m.Cols)
	for i := range v {
		v[i] = complex(float64(i), -float64(i)/2)
	}
	serial, err := m.mulVec(v, 1)
	require.NoError(t, err)
	parallel, err := m.mulVec(v, 3)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestAdjointAndUnitary(t *testing.T) {
	assert.Equal(t, []complex128{0, -1i, 1i, 0}, pauliY.Adjoint().Data)
	assert.True(t, hadamard.IsUnitary(1e-12))
	assert.False(t, NewMatrix2(1, 1, 0, 1).IsUnitary(1e-12))
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, pauliX.IsPermutation())
	assert.True(t, Identity(4).IsPermutation())
	assert.False(t, pauliZ.IsPermutation())
	assert.False(t, NewMatrix2(1, 1, 0, 0).IsPermutation())
	assert.False(t, NewMatrix(2, 3).IsPermutation())
}

func TestMatrixString(t *testing.T) {
	assert.Equal(t,
		"[ 0.0000+0.0000i  0.0000-1.0000i ]\n[ 0.0000+1.0000i  0.0000+0.0000i ]\n",
		pauliY.String())
}
