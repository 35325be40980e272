// Package solver assembles the Modified Nodal Analysis system for a DC
// operating point and solves it with a sparse LU factorization.
package solver

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// mnaMatrix wraps a sparse.Matrix the way the teacher's CircuitMatrix
// does, pared down to the real (non-complex) case a DC solve needs.
type mnaMatrix struct {
	size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
}

func newMNAMatrix(size int) (*mnaMatrix, error) {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	return &mnaMatrix{
		size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
	}, nil
}

// addElement stamps value into A[i][j] (1-based), ignoring ground (index 0).
func (m *mnaMatrix) addElement(i, j int, value float64) {
	if i <= 0 || j <= 0 {
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

// addRHS accumulates value into b[i] (1-based), ignoring ground.
func (m *mnaMatrix) addRHS(i int, value float64) {
	if i <= 0 {
		return
	}
	m.rhs[i] += value
}

func (m *mnaMatrix) solve() error {
	if err := m.matrix.Factor(); err != nil {
		return &ErrSingular{Reason: err.Error()}
	}

	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return &ErrSingular{Reason: err.Error()}
	}
	m.solution = solution
	return nil
}

func (m *mnaMatrix) destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}

// ErrSingular reports that the MNA matrix could not be factorized
// (floating subnet, reference missing to ground, etc).
type ErrSingular struct {
	Reason string
}

func (e *ErrSingular) Error() string {
	return fmt.Sprintf("solver: singular matrix: %s", e.Reason)
}
