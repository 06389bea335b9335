package unwrap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phaseflow/pkg/domain"
)

func gridOf(t *testing.T, rows [][]float64) *domain.Grid2D[float64] {
	t.Helper()
	g, err := domain.FromRows(rows)
	require.NoError(t, err)
	return g
}

func residueSum(r *domain.Grid2D[int32]) int {
	sum := 0
	for _, v := range r.Data() {
		sum += int(v)
	}
	return sum
}

func TestResidueSmoothFieldIsZero(t *testing.T) {
	eps := 1e-6
	w := gridOf(t, [][]float64{
		{0, 0, 0},
		{0, domain.Pi - eps, 0},
		{0, 0, 0},
	})

	r := Residue(w)
	require.Equal(t, 4, r.Rows())
	require.Equal(t, 4, r.Cols())
	for _, v := range r.Data() {
		assert.Equal(t, int32(0), v)
	}
}

func TestResidueDislocationDipole(t *testing.T) {
	// A quarter-cycle ramp broken by a near-half-cycle jump: the plaquette
	// pass deposits +1 below the left edge and the boundary pass balances it
	// with -1 on the bottom row. Residues always come in canceling pairs.
	w := gridOf(t, [][]float64{
		{0, domain.Pi / 2},
		{-domain.Pi, domain.Pi / 2},
	})

	r := Residue(w)
	require.Equal(t, 3, r.Rows())
	require.Equal(t, 3, r.Cols())

	nonZero := map[[2]int]int32{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if v := r.At(i, j); v != 0 {
				nonZero[[2]int{i, j}] = v
			}
		}
	}

	assert.Equal(t, map[[2]int]int32{
		{1, 0}: 1,
		{2, 1}: -1,
	}, nonZero)
	assert.Equal(t, 0, residueSum(r))
}

func TestResidueSumIsAlwaysZero(t *testing.T) {
	// A deterministic field with steep gradients in both directions.
	w := domain.NewGrid2D[float64](6, 7)
	for i := 0; i < 6; i++ {
		for j := 0; j < 7; j++ {
			w.Set(i, j, domain.WrappedDiff(2.9*float64(i)+1.3*float64(j)*float64(j), 0))
		}
	}

	r := Residue(w)
	assert.Equal(t, 0, residueSum(r))
}

func TestResidueSingleCell(t *testing.T) {
	r := Residue(gridOf(t, [][]float64{{0.5}}))
	require.Equal(t, 2, r.Rows())
	require.Equal(t, 2, r.Cols())
	assert.Equal(t, 0, residueSum(r))
}

func TestResidueRejectsUnwrappedValues(t *testing.T) {
	assert.Panics(t, func() {
		Residue(gridOf(t, [][]float64{{0, 4.0}, {0, 0}}))
	})
	assert.Panics(t, func() {
		Residue(gridOf(t, [][]float64{{0, math.NaN()}, {0, 0}}))
	})
}

func TestResidueFloat32(t *testing.T) {
	w := domain.NewGrid2D[float32](2, 2)
	w.Set(0, 1, float32(domain.Pi/2))
	w.Set(1, 0, float32(-domain.Pi + 1e-6))
	w.Set(1, 1, float32(domain.Pi/2))

	r := Residue(w)
	assert.Equal(t, 0, residueSum(r))
}
