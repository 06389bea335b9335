package unwrap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/graph"
	"phaseflow/services/unwrap-svc/internal/network"
)

// zeroFlowNetwork builds an unsolved (all-zero flow) network over the dual
// grid of an m x n image.
func zeroFlowNetwork(m, n int) *network.Network[int64] {
	dual := graph.NewRectangularGridGraph(m+1, n+1, 1)
	costs := make([]int64, dual.NumEdges())
	excess := make([]int32, dual.NumVertices())
	return network.New(network.NewGridResidual(dual), excess, costs, network.Uncapacitated)
}

func wrapField(true2d [][]float64) *domain.Grid2D[float64] {
	w := domain.NewGrid2D[float64](len(true2d), len(true2d[0]))
	for i, row := range true2d {
		for j, v := range row {
			w.Set(i, j, domain.WrappedDiff(v, 0))
		}
	}
	return w
}

// With zero flows, integration is the plain cumulative sum of wrapped
// differences down the first column and across each row.
func TestIntegrateZeroFlowIsCumulativeSum(t *testing.T) {
	w := gridOf(t, [][]float64{
		{0.1, 0.5, -0.2},
		{1.0, -1.5, 2.0},
	})
	u := IntegrateUnwrappedGradients(w, zeroFlowNetwork(2, 3))

	assert.InDelta(t, 0.1, u.At(0, 0), 1e-12)
	assert.InDelta(t, 0.1+domain.WrappedDiff(1.0, 0.1), u.At(1, 0), 1e-12)
	assert.InDelta(t, u.At(0, 0)+domain.WrappedDiff(0.5, 0.1), u.At(0, 1), 1e-12)
	assert.InDelta(t, u.At(1, 0)+domain.WrappedDiff(-1.5, 1.0), u.At(1, 1), 1e-12)
	assert.InDelta(t, u.At(1, 1)+domain.WrappedDiff(2.0, -1.5), u.At(1, 2), 1e-12)
}

// The unwrapped gradients are congruent to the wrapped gradients modulo Tau.
func TestIntegrateGradientCongruence(t *testing.T) {
	w := gridOf(t, [][]float64{
		{0.3, -2.9, 1.1, 2.8},
		{-1.2, 0.4, -3.0, 0.0},
		{2.2, 3.1, -0.7, -1.9},
	})
	u := IntegrateUnwrappedGradients(w, zeroFlowNetwork(3, 4))

	for i := 0; i < 3; i++ {
		for j := 1; j < 4; j++ {
			du := domain.WrappedDiff(u.At(i, j), u.At(i, j-1))
			dw := domain.WrappedDiff(w.At(i, j), w.At(i, j-1))
			assert.InDelta(t, dw, du, 1e-9, "(%d,%d)", i, j)
		}
	}
	for i := 1; i < 3; i++ {
		du := domain.WrappedDiff(u.At(i, 0), u.At(i-1, 0))
		dw := domain.WrappedDiff(w.At(i, 0), w.At(i-1, 0))
		assert.InDelta(t, dw, du, 1e-9, "(%d,0)", i)
	}
}

func TestIntegrateShapeMismatchPanics(t *testing.T) {
	w := gridOf(t, [][]float64{{0.1, 0.2}, {0.3, 0.4}})
	assert.Panics(t, func() { IntegrateUnwrappedGradients(w, zeroFlowNetwork(3, 3)) })
}

// A smooth ramp whose true values leave [-Pi, Pi]: the only residues are the
// canceling pair on the dual-grid boundary where the wrap line meets the image
// edge, at (0,7) and (5,0). Routing that unit around the outer ring costs 12
// and crosses no image gradient, so unwrapping must reproduce the ramp exactly
// (the seed pixel is already in range).
func TestUnwrapSmoothRamp(t *testing.T) {
	m, n := 6, 8
	truth := make([][]float64, m)
	for i := range truth {
		truth[i] = make([]float64, n)
		for j := range truth[i] {
			truth[i][j] = 0.7*float64(i) + 0.5*float64(j)
		}
	}
	w := wrapField(truth)

	for _, alg := range []Algorithm{AlgorithmDial, AlgorithmDijkstra} {
		opts := DefaultOptions[float64]()
		opts.Algorithm = alg
		res, err := Unwrap(w, opts)
		require.NoError(t, err, alg)

		assert.Equal(t, 2, res.Stats.NumResidues)
		assert.Equal(t, int64(12), res.Stats.TotalCost)
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				assert.InDelta(t, truth[i][j], res.Unwrapped.At(i, j), 1e-9,
					"%s (%d,%d)", alg, i, j)
			}
		}
	}
}

// An image with a dislocation: the solver must route the residue dipole and
// the result must stay congruent to the input modulo Tau at every pixel.
func TestUnwrapDislocation(t *testing.T) {
	w := gridOf(t, [][]float64{
		{0, domain.Pi / 2},
		{-domain.Pi, domain.Pi / 2},
	})

	res, err := Unwrap(w, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.NumResidues)
	assert.Equal(t, int64(1), res.Stats.TotalExcess)
	assert.GreaterOrEqual(t, res.Stats.Augmentations, 1)
	assert.Greater(t, res.Stats.TotalCost, int64(0))

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			diff := res.Unwrapped.At(i, j) - w.At(i, j)
			cycles := diff / domain.Tau
			assert.InDelta(t, math.Round(cycles), cycles, 1e-9, "(%d,%d)", i, j)
		}
	}
}

// Dial and Dijkstra may find different optimal flows, but the flow costs must
// match and the unwrapped images must agree modulo Tau.
func TestUnwrapAlgorithmsAgree(t *testing.T) {
	w := domain.NewGrid2D[float64](7, 7)
	for i := 0; i < 7; i++ {
		for j := 0; j < 7; j++ {
			w.Set(i, j, domain.WrappedDiff(2.1*float64(i)+0.3*float64(i*j), 0))
		}
	}

	dialOpts := DefaultOptions[float64]()
	dialOpts.Algorithm = AlgorithmDial
	dialRes, err := Unwrap(w, dialOpts)
	require.NoError(t, err)

	dijkstraOpts := DefaultOptions[float64]()
	dijkstraOpts.Algorithm = AlgorithmDijkstra
	dijkstraRes, err := Unwrap(w, dijkstraOpts)
	require.NoError(t, err)

	assert.Equal(t, dialRes.Stats.TotalCost, dijkstraRes.Stats.TotalCost)
	for i := 0; i < 7; i++ {
		for j := 0; j < 7; j++ {
			diff := dialRes.Unwrapped.At(i, j) - dijkstraRes.Unwrapped.At(i, j)
			cycles := diff / domain.Tau
			assert.InDelta(t, math.Round(cycles), cycles, 1e-9)
		}
	}
}

func TestUnwrapQualityCost(t *testing.T) {
	w := gridOf(t, [][]float64{
		{0, domain.Pi / 2},
		{-domain.Pi, domain.Pi / 2},
	})

	opts := DefaultOptions[float64]()
	opts.Cost = QualityCost[float64]{Scale: 10}
	res, err := Unwrap(w, opts)
	require.NoError(t, err)
	require.NotNil(t, res.Unwrapped)
	assert.Greater(t, res.Stats.TotalCost, int64(0))
}

func TestUnwrapMaxIterations(t *testing.T) {
	w := gridOf(t, [][]float64{
		{0, domain.Pi / 2},
		{-domain.Pi, domain.Pi / 2},
	})

	opts := DefaultOptions[float64]()
	opts.MaxIterations = 1
	res, err := Unwrap(w, opts)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Stats.Augmentations, 1)
}

func TestUnwrapValidation(t *testing.T) {
	_, err := Unwrap[float64](nil, nil)
	assert.ErrorIs(t, err, ErrNilInput)

	_, err = Unwrap(domain.NewGrid2D[float64](0, 0), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	bad := domain.NewGrid2D[float64](2, 2)
	bad.Set(1, 1, 7.0)
	_, err = Unwrap(bad, nil)
	assert.ErrorIs(t, err, ErrNotWrapped)

	nan := domain.NewGrid2D[float64](2, 2)
	nan.Set(0, 1, math.NaN())
	_, err = Unwrap(nan, nil)
	assert.ErrorIs(t, err, ErrNotWrapped)

	ok := domain.NewGrid2D[float64](2, 2)
	opts := DefaultOptions[float64]()
	opts.Algorithm = "bogus"
	_, err = Unwrap(ok, opts)
	assert.Error(t, err)
}
