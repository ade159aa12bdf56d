package main

import (
	"fmt"
	"math/cmplx"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Matrix is a dense row-major complex matrix.
type Matrix struct {
	Rows, Cols int
	Data       []complex128
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// NewMatrix2 builds the 2x2 matrix [[a, b], [c, d]].
func NewMatrix2(a, b, c, d complex128) *Matrix {
	return &Matrix{Rows: 2, Cols: 2, Data: []complex128{a, b, c, d}}
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := range n {
		m.Data[i*n+i] = 1
	}
	return m
}

func (m *Matrix) At(r, c int) complex128 {
	return m.Data[r*m.Cols+c]
}

func (m *Matrix) Set(r, c int, v complex128) {
	m.Data[r*m.Cols+c] = v
}

// Kron returns the Kronecker product m ⊗ other.
func (m *Matrix) Kron(other *Matrix) *Matrix {
	return m.kron(other, 1)
}

func (m *Matrix) kron(other *Matrix, workers int) *Matrix {
	out := NewMatrix(m.Rows*other.Rows, m.Cols*other.Cols)
	parallelRows(out.Rows, workers, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			ar, br := r/other.Rows, r%other.Rows
			row := out.Data[r*out.Cols : (r+1)*out.Cols]
			for ac := 0; ac < m.Cols; ac++ {
				a := m.Data[ar*m.Cols+ac]
				if a == 0 {
					continue
				}
				for bc := 0; bc < other.Cols; bc++ {
					row[ac*other.Cols+bc] = a * other.Data[br*other.Cols+bc]
				}
			}
		}
	})
	return out
}

// Mul returns the matrix product m × other.
func (m *Matrix) Mul(other *Matrix) *Matrix {
	if m.Cols != other.Rows {
		panic(fmt.Sprintf("matrix: cannot multiply %dx%d by %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatrix(m.Rows, other.Cols)
	for r := 0; r < m.Rows; r++ {
		for k := 0; k < m.Cols; k++ {
			a := m.Data[r*m.Cols+k]
			if a == 0 {
				continue
			}
			for c := 0; c < other.Cols; c++ {
				out.Data[r*out.Cols+c] += a * other.Data[k*other.Cols+c]
			}
		}
	}
	return out
}

// MulVec returns the fresh vector m × v.
func (m *Matrix) MulVec(v []complex128) ([]complex128, error) {
	return m.mulVec(v, 1)
}

func (m *Matrix) mulVec(v []complex128, workers int) ([]complex128, error) {
	if m.Cols != len(v) {
		return nil, fmt.Errorf("%w: %dx%d operator applied to vector of length %d", ErrDimensionMismatch, m.Rows, m.Cols, len(v))
	}
	out := make([]complex128, m.Rows)
	parallelRows(m.Rows, workers, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			var sum complex128
			row := m.Data[r*m.Cols : (r+1)*m.Cols]
			for c, a := range row {
				if a != 0 {
					sum += a * v[c]
				}
			}
			out[r] = sum
		}
	})
	return out, nil
}

// Adjoint returns the conjugate transpose.
func (m *Matrix) Adjoint() *Matrix {
	out := NewMatrix(m.Cols, m.Rows)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			out.Data[c*out.Cols+r] = cmplx.Conj(m.Data[r*m.Cols+c])
		}
	}
	return out
}

// ApproxEqual compares shape and every entry within tol.
func (m *Matrix) ApproxEqual(other *Matrix, tol float64) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return false
	}
	for i, v := range m.Data {
		if cmplx.Abs(v-other.Data[i]) > tol {
			return false
		}
	}
	return true
}

// IsUnitary reports whether m × m† is the identity within tol.
func (m *Matrix) IsUnitary(tol float64) bool {
	if m.Rows != m.Cols {
		return false
	}
	return m.Mul(m.Adjoint()).ApproxEqual(Identity(m.Rows), tol)
}

// IsPermutation reports whether every entry is 0 or 1 with exactly one 1 per
// row and per column.
func (m *Matrix) IsPermutation() bool {
	if m.Rows != m.Cols {
		return false
	}
	colHits := make([]int, m.Cols)
	for r := 0; r < m.Rows; r++ {
		ones := 0
		for c := 0; c < m.Cols; c++ {
			switch m.Data[r*m.Cols+c] {
			case 0:
			case 1:
				ones++
				colHits[c]++
			default:
				return false
			}
		}
		if ones != 1 {
			return false
		}
	}
	for _, hits := range colHits {
		if hits != 1 {
			return false
		}
	}
	return true
}

// String prints one row per line with entries in the state rendering format.
func (m *Matrix) String() string {
	var sb strings.Builder
	for r := 0; r < m.Rows; r++ {
		cells := make([]string, m.Cols)
		for c := 0; c < m.Cols; c++ {
			cells[c] = formatAmplitude(m.Data[r*m.Cols+c])
		}
		sb.WriteString("[ ")
		sb.WriteString(strings.Join(cells, "  "))
		sb.WriteString(" ]\n")
	}
	return sb.String()
}

// parallelRows splits [0, rows) into contiguous blocks and runs fn on them
// with at most workers goroutines. Blocks never overlap, so fn may write its
// rows without locking.
func parallelRows(rows, workers int, fn func(lo, hi int)) {
	if workers <= 1 || rows < 2*workers {
		fn(0, rows)
		return
	}
	var g errgroup.Group
	g.SetLimit(workers)
	block := (rows + workers - 1) / workers
	for lo := 0; lo < rows; lo += block {
		hi := min(lo+block, rows)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
